package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lumina-engine/lumina"
	"github.com/pelletier/go-toml/v2"
)

// EditorConfig represents the lumina.toml configuration file.
type EditorConfig struct {
	Window  WindowConfig  `toml:"window"`
	Logging LoggingConfig `toml:"logging"`
	Layout  LayoutConfig  `toml:"layout"`
	Dock    DockConfig    `toml:"dock"`
	Theme   ThemeConfig   `toml:"theme"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
	ShowFPS   bool   `toml:"show_fps"`
	// Directory for screenshots taken by scripts
	ScreenshotDir string `toml:"screenshot_dir"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`  // debug, info, warn, error
	Format     string `toml:"format"` // text or json
	File       string `toml:"file"`   // empty logs to stderr
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

type LayoutConfig struct {
	// Layout file; its extension picks the format
	Path string `toml:"path"`
	// Reload the layout when the file changes on disk
	Watch bool `toml:"watch"`
	// Save the layout on exit
	SaveOnExit bool `toml:"save_on_exit"`
}

// DockConfig overrides docking geometry. Zero values keep the defaults.
type DockConfig struct {
	TabMinWidth  float64 `toml:"tab_min_width"`
	TabMaxWidth  float64 `toml:"tab_max_width"`
	TabBarHeight float64 `toml:"tab_bar_height"`
	MaxTreeDepth int     `toml:"max_tree_depth"`
	HistoryLimit int     `toml:"history_limit"`
}

// ThemeConfig overrides theme colors as "#rrggbb" or "#rrggbbaa".
type ThemeConfig struct {
	Background      string  `toml:"background"`
	PanelBackground string  `toml:"panel_background"`
	TabActive       string  `toml:"tab_active"`
	Text            string  `toml:"text"`
	Accent          string  `toml:"accent"`
	FontSize        float64 `toml:"font_size"`
}

// DefaultConfig returns the editor defaults.
func DefaultConfig() EditorConfig {
	return EditorConfig{
		Window: WindowConfig{
			Title:         "Lumina Editor",
			Width:         1280,
			Height:        800,
			Resizable:     true,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  20,
			MaxBackups: 5,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Layout: LayoutConfig{
			Path:       "layout.toml",
			Watch:      true,
			SaveOnExit: true,
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (EditorConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path.
func SaveConfig(path string, cfg EditorConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// DockConfig merges the overrides into the library defaults.
func (c EditorConfig) DockConfig() lumina.DockConfig {
	d := lumina.DefaultDockConfig()
	if c.Dock.TabMinWidth > 0 {
		d.TabMinWidth = c.Dock.TabMinWidth
	}
	if c.Dock.TabMaxWidth > 0 {
		d.TabMaxWidth = c.Dock.TabMaxWidth
	}
	if c.Dock.TabBarHeight > 0 {
		d.TabBarHeight = c.Dock.TabBarHeight
	}
	if c.Dock.MaxTreeDepth > 0 {
		d.MaxTreeDepth = c.Dock.MaxTreeDepth
	}
	if c.Dock.HistoryLimit > 0 {
		d.HistoryLimit = c.Dock.HistoryLimit
	}
	return d
}

// ResolvedTheme merges the color overrides into the default theme.
func (c EditorConfig) ResolvedTheme() (lumina.Theme, error) {
	t := lumina.DefaultTheme()
	overrides := []struct {
		value string
		dst   []*lumina.Color
	}{
		{c.Theme.Background, []*lumina.Color{&t.Background}},
		{c.Theme.PanelBackground, []*lumina.Color{&t.PanelBackground}},
		{c.Theme.TabActive, []*lumina.Color{&t.TabActive}},
		{c.Theme.Text, []*lumina.Color{&t.Text, &t.TabTextActive}},
		{c.Theme.Accent, []*lumina.Color{&t.Focus, &t.DividerHover}},
	}
	var errs []error
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		col, err := lumina.ParseColor(o.value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, d := range o.dst {
			*d = col
		}
	}
	if c.Theme.FontSize > 0 {
		t.FontSize = c.Theme.FontSize
	}
	return t, errors.Join(errs...)
}
