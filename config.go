package lumina

import (
	"fmt"
	"strconv"
	"strings"
)

// DockConfig holds the geometry and behavior knobs of a DockingManager.
type DockConfig struct {
	TabMinWidth      float64 // narrowest a tab header gets
	TabMaxWidth      float64 // widest a tab header gets
	TabBarHeight     float64 // height of the tab strip above panel content
	CloseButtonSize  float64 // side of the square close hit area
	CloseButtonInset float64 // gap between the close button and the tab's right edge
	DividerThickness float64 // grab area around a split divider, in pixels
	DropZoneFraction float64 // share of a tabs node's extent used by each edge drop zone
	DragDeadZone     float64 // pointer travel before a tab press becomes a drag
	MaxTreeDepth     int     // deepest a dock operation may nest a node
	HistoryLimit     int     // undo steps kept; 0 disables history
	RatioTweenTime   float32 // seconds for AnimateSplitRatio when no duration is given
	DropFadeTime     float32 // seconds for a drop zone highlight to fade in or out
}

// DefaultDockConfig returns the stock docking configuration.
func DefaultDockConfig() DockConfig {
	return DockConfig{
		TabMinWidth:      120,
		TabMaxWidth:      200,
		TabBarHeight:     28,
		CloseButtonSize:  20,
		CloseButtonInset: 4,
		DividerThickness: 6,
		DropZoneFraction: 0.25,
		DragDeadZone:     DefaultDragDeadZone,
		MaxTreeDepth:     32,
		HistoryLimit:     64,
		RatioTweenTime:   0.2,
		DropFadeTime:     0.12,
	}
}

// Theme is the palette and font used by the built-in widgets and the
// docking manager.
type Theme struct {
	Background      Color
	PanelBackground Color
	TabBar          Color
	Tab             Color
	TabHover        Color
	TabActive       Color
	TabText         Color
	TabTextActive   Color
	CloseButton     Color
	Divider         Color
	DividerHover    Color
	DropZone        Color
	DropZoneActive  Color
	Text            Color
	Button          Color
	ButtonHover     Color
	ButtonPressed   Color
	Focus           Color
	MenuBackground  Color
	MenuHover       Color

	Font     string
	FontSize float64
}

// DefaultTheme returns a dark editor palette.
func DefaultTheme() Theme {
	return Theme{
		Background:      Color{0.11, 0.11, 0.12, 1},
		PanelBackground: Color{0.15, 0.15, 0.16, 1},
		TabBar:          Color{0.09, 0.09, 0.10, 1},
		Tab:             Color{0.17, 0.17, 0.19, 1},
		TabHover:        Color{0.22, 0.22, 0.25, 1},
		TabActive:       Color{0.25, 0.25, 0.29, 1},
		TabText:         Color{0.70, 0.70, 0.72, 1},
		TabTextActive:   Color{0.95, 0.95, 0.96, 1},
		CloseButton:     Color{0.80, 0.35, 0.35, 1},
		Divider:         Color{0.06, 0.06, 0.07, 1},
		DividerHover:    Color{0.26, 0.52, 0.96, 1},
		DropZone:        Color{0.26, 0.52, 0.96, 0.15},
		DropZoneActive:  Color{0.26, 0.52, 0.96, 0.45},
		Text:            Color{0.88, 0.88, 0.90, 1},
		Button:          Color{0.24, 0.24, 0.27, 1},
		ButtonHover:     Color{0.30, 0.30, 0.34, 1},
		ButtonPressed:   Color{0.18, 0.18, 0.20, 1},
		Focus:           Color{0.26, 0.52, 0.96, 1},
		MenuBackground:  Color{0.13, 0.13, 0.14, 0.98},
		MenuHover:       Color{0.26, 0.52, 0.96, 0.6},
		Font:            "default",
		FontSize:        13,
	}
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("lumina: invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("lumina: invalid color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
