package lumina

import (
	"bytes"
	"fmt"

	"github.com/dboslee/lru"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Screenshotter is implemented by renderers that can capture the frame they
// just drew. The framework forwards Screenshot requests to it.
type Screenshotter interface {
	QueueScreenshot(label string)
}

type measureKey struct {
	s    string
	font string
	size float64
}

// EbitenRenderer draws through an *ebiten.Image. Rects use the vector
// package; text uses text/v2 with registered TrueType faces and falls back
// to a 7x13 bitmap face for unknown font names.
type EbitenRenderer struct {
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	target   *ebiten.Image
	sources  map[string]*text.GoTextFaceSource
	fallback *text.GoXFace
	measured *lru.Cache[measureKey, Size]
	shots    []string
}

// NewEbitenRenderer returns a renderer with no registered fonts.
func NewEbitenRenderer() *EbitenRenderer {
	return &EbitenRenderer{
		ScreenshotDir: "screenshots",
		sources:       make(map[string]*text.GoTextFaceSource),
		fallback:      text.NewGoXFace(basicfont.Face7x13),
		measured:      lru.New[measureKey, Size](),
	}
}

// SetTarget sets the image drawn into, typically the screen passed to
// ebiten.Game.Draw.
func (r *EbitenRenderer) SetTarget(img *ebiten.Image) { r.target = img }

// RegisterFont parses TTF/OTF data and makes it available under name.
func (r *EbitenRenderer) RegisterFont(name string, ttfData []byte) error {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return fmt.Errorf("lumina: parse font %q: %w", name, err)
	}
	r.sources[name] = src
	return nil
}

func (r *EbitenRenderer) face(font string, size float64) text.Face {
	if src, ok := r.sources[font]; ok {
		return &text.GoTextFace{Source: src, Size: size}
	}
	return r.fallback
}

func (r *EbitenRenderer) BeginFrame() {}

// EndFrame writes any screenshots queued for this frame.
func (r *EbitenRenderer) EndFrame() {
	if len(r.shots) == 0 || r.target == nil {
		return
	}
	flushScreenshots(r.target, r.ScreenshotDir, r.shots)
	r.shots = r.shots[:0]
}

// QueueScreenshot implements Screenshotter.
func (r *EbitenRenderer) QueueScreenshot(label string) {
	r.shots = append(r.shots, label)
}

func (r *EbitenRenderer) DrawRect(b Rect, c Color) {
	if r.target == nil || b.Empty() || c.A <= 0 {
		return
	}
	vector.DrawFilledRect(r.target,
		float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height),
		c.toRGBA(), false)
}

func (r *EbitenRenderer) DrawText(s string, pos Vec2, font string, size float64, c Color) {
	if r.target == nil || s == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(pos.X, pos.Y)
	op.ColorScale.ScaleWithColor(c.toRGBA())
	text.Draw(r.target, s, r.face(font, size), op)
}

// MeasureText implements TextMeasurer. Results are memoized per string,
// font and size.
func (r *EbitenRenderer) MeasureText(s, font string, size float64) (w, h float64) {
	key := measureKey{s, font, size}
	if sz, ok := r.measured.Get(key); ok {
		return sz.Width, sz.Height
	}
	face := r.face(font, size)
	m := face.Metrics()
	w, h = text.Measure(s, face, m.HAscent+m.HDescent+m.HLineGap)
	r.measured.Set(key, Size{Width: w, Height: h})
	return w, h
}

// toRGBA converts a Color to a premultiplied colorRGBA.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements color.Color over premultiplied 8-bit channels.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}
