package lumina

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// ShowFPS draws FPS and TPS in the top-left corner. It forces a render
	// every frame.
	ShowFPS bool
	// ScreenshotDir overrides where Framework.Screenshot writes files.
	ScreenshotDir string
	// Fonts maps font names used by widgets and themes to TTF/OTF data.
	Fonts map[string][]byte
}

// game adapts a Framework to ebiten.Game.
type game struct {
	f      *Framework
	r      *EbitenRenderer
	in     EbitenInput
	cfg    RunConfig
	width  int
	height int
}

// Run opens a window and drives f until the window is closed. Input is
// polled in Update; layout, dispatch and rendering happen in Draw.
func Run(f *Framework, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	r := NewEbitenRenderer()
	if cfg.ScreenshotDir != "" {
		r.ScreenshotDir = cfg.ScreenshotDir
	}
	for name, data := range cfg.Fonts {
		if err := r.RegisterFont(name, data); err != nil {
			return err
		}
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	// Skipped render passes leave the previous frame on screen.
	ebiten.SetScreenClearedEveryFrame(false)

	g := &game{f: f, r: r, cfg: cfg, width: cfg.Width, height: cfg.Height}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("lumina: run: %w", err)
	}
	return nil
}

func (g *game) Update() error {
	g.in.Poll(g.f.Input(), g.f.HasInjectedInput())
	g.f.Update(float32(1.0 / float64(ebiten.TPS())))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cfg.ShowFPS {
		g.f.MarkDirty()
	}
	g.r.SetTarget(screen)
	window := Rect{Width: float64(g.width), Height: float64(g.height)}
	if err := g.f.Frame(window, g.r); err != nil {
		logger().Warn("frame", "err", err)
	}
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
