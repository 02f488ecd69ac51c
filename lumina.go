package lumina

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default text color.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets, and deltas throughout the API.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Len returns the euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Size is a width/height pair used as available space during layout.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ContainsPoint is Contains for a Vec2.
func (r Rect) ContainsPoint(p Vec2) bool { return r.Contains(p.X, p.Y) }

// Intersects reports whether r and other overlap.
// Rectangles that only share an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// SplitHorizontal divides r along the x axis at the fractional position ratio.
// The divider is snapped to a whole pixel and the right width is derived from
// the left, so left.Width + right.Width == r.Width exactly. Ratio is clamped
// to [0, 1].
func (r Rect) SplitHorizontal(ratio float64) (left, right Rect) {
	lw := splitExtent(r.Width, ratio)
	left = Rect{X: r.X, Y: r.Y, Width: lw, Height: r.Height}
	right = Rect{X: r.X + lw, Y: r.Y, Width: r.Width - lw, Height: r.Height}
	return left, right
}

// SplitVertical divides r along the y axis at the fractional position ratio.
// See SplitHorizontal for the rounding rules.
func (r Rect) SplitVertical(ratio float64) (top, bottom Rect) {
	th := splitExtent(r.Height, ratio)
	top = Rect{X: r.X, Y: r.Y, Width: r.Width, Height: th}
	bottom = Rect{X: r.X, Y: r.Y + th, Width: r.Width, Height: r.Height - th}
	return top, bottom
}

func splitExtent(total, ratio float64) float64 {
	if total <= 0 {
		return 0
	}
	if math.IsNaN(ratio) {
		ratio = 0.5
	}
	ratio = clamp(ratio, 0, 1)
	return clamp(math.Round(total*ratio), 0, total)
}

// Shrink returns r inset by margin on all four sides. Width and height never
// go negative; a rect too small to inset collapses onto its center.
func (r Rect) Shrink(margin float64) Rect {
	out := Rect{
		X:      r.X + margin,
		Y:      r.Y + margin,
		Width:  r.Width - 2*margin,
		Height: r.Height - 2*margin,
	}
	if out.Width < 0 {
		out.X = r.X + r.Width/2
		out.Width = 0
	}
	if out.Height < 0 {
		out.Y = r.Y + r.Height/2
		out.Height = 0
	}
	return out
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of r.
func (r Rect) Center() Vec2 { return Vec2{r.X + r.Width/2, r.Y + r.Height/2} }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Direction is the axis a split divides along.
type Direction uint8

const (
	Horizontal Direction = iota // children side by side, divider is vertical
	Vertical                    // children stacked, divider is horizontal
)

// String returns "horizontal" or "vertical".
func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)

	mouseButtonCount = 3
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }
