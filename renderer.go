package lumina

import "unicode/utf8"

// Renderer is the drawing contract the UI core renders through. Any backend
// that can fill rectangles and draw text satisfies it; the core never touches
// GPU objects.
type Renderer interface {
	BeginFrame()
	EndFrame()
	DrawRect(bounds Rect, c Color)
	DrawText(s string, pos Vec2, font string, size float64, c Color)
}

// TextMeasurer is implemented by renderers that can measure text exactly.
type TextMeasurer interface {
	MeasureText(s, font string, size float64) (w, h float64)
}

// MeasureText measures s with r when it implements TextMeasurer and falls
// back to a fixed advance of 0.6em per rune otherwise.
func MeasureText(r Renderer, s, font string, size float64) (w, h float64) {
	if m, ok := r.(TextMeasurer); ok {
		return m.MeasureText(s, font, size)
	}
	return float64(utf8.RuneCountInString(s)) * size * 0.6, size
}

// DrawBorder strokes the inside edge of bounds with lines of the given
// thickness.
func DrawBorder(r Renderer, bounds Rect, thickness float64, c Color) {
	if thickness <= 0 || bounds.Empty() {
		return
	}
	t := min(thickness, bounds.Width/2, bounds.Height/2)
	r.DrawRect(Rect{bounds.X, bounds.Y, bounds.Width, t}, c)
	r.DrawRect(Rect{bounds.X, bounds.Bottom() - t, bounds.Width, t}, c)
	r.DrawRect(Rect{bounds.X, bounds.Y + t, t, bounds.Height - 2*t}, c)
	r.DrawRect(Rect{bounds.Right() - t, bounds.Y + t, t, bounds.Height - 2*t}, c)
}
