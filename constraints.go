package lumina

import "math"

// Length is an optional pixel length. The zero value is unset.
type Length struct {
	Value float64
	Set   bool
}

// Px returns a set Length of v pixels.
func Px(v float64) Length { return Length{Value: v, Set: true} }

// FlexDirection is the main axis of a flex container.
type FlexDirection uint8

const (
	FlexRow    FlexDirection = iota // children laid out left to right
	FlexColumn                      // children laid out top to bottom
)

// Flex holds the flex-item parameters a widget declares. They only apply
// when the widget's parent lays its children out with ResolveFlex.
type Flex struct {
	Direction FlexDirection
	Grow      float64
	Shrink    float64
	Basis     Length
}

// HAlign positions a resolved width inside the available width.
type HAlign uint8

const (
	HAlignLeft    HAlign = iota // x = 0
	HAlignCenter                // x = (available - width) / 2
	HAlignRight                 // x = available - width
	HAlignStretch               // x = 0, size already fills
)

// VAlign positions a resolved height inside the available height.
type VAlign uint8

const (
	VAlignTop     VAlign = iota // y = 0
	VAlignCenter                // y = (available - height) / 2
	VAlignBottom                // y = available - height
	VAlignStretch               // y = 0, size already fills
)

// LayoutConstraints is the sizing policy a widget declares. It is a plain
// comparable value so it can key the LayoutCache.
type LayoutConstraints struct {
	Width, Height       Length
	MinWidth, MinHeight Length
	MaxWidth, MaxHeight Length
	Flex                Flex
	HAlign              HAlign
	VAlign              VAlign
}

// LayoutResult is the outcome of resolving constraints against available
// space. Bounds are relative to the origin of the available area.
type LayoutResult struct {
	Bounds      Rect
	Overflow    bool
	ContentSize Size
}

// Resolve computes a LayoutResult for c inside available.
//
// Fixed sizes override the available size, then min raises and max lowers,
// in that order, so a max smaller than a min wins. Overflow is reported when
// the resolved size exceeds the available size on either axis.
func Resolve(c LayoutConstraints, available Size) LayoutResult {
	w := resolveAxis(available.Width, c.Width, c.MinWidth, c.MaxWidth)
	h := resolveAxis(available.Height, c.Height, c.MinHeight, c.MaxHeight)

	var x, y float64
	switch c.HAlign {
	case HAlignCenter:
		x = (available.Width - w) / 2
	case HAlignRight:
		x = available.Width - w
	}
	switch c.VAlign {
	case VAlignCenter:
		y = (available.Height - h) / 2
	case VAlignBottom:
		y = available.Height - h
	}

	return LayoutResult{
		Bounds:      Rect{X: x, Y: y, Width: w, Height: h},
		Overflow:    w > available.Width || h > available.Height,
		ContentSize: Size{Width: w, Height: h},
	}
}

func resolveAxis(avail float64, fixed, lo, hi Length) float64 {
	v := avail
	if fixed.Set {
		v = fixed.Value
	}
	if lo.Set && v < lo.Value {
		v = lo.Value
	}
	if hi.Set && v > hi.Value {
		v = hi.Value
	}
	return v
}

// ResolveFlex lays out items along dir inside available. Each item starts at
// its basis (or its fixed main size, or zero), positive free space is shared
// by grow factors and negative free space is taken back by shrink factors
// weighted by basis. Min/max still apply to the final main size. The cross
// axis resolves like Resolve. Results are relative to available's origin.
func ResolveFlex(dir FlexDirection, available Size, items []LayoutConstraints) []LayoutResult {
	if len(items) == 0 {
		return nil
	}
	mainAvail, crossAvail := available.Width, available.Height
	if dir == FlexColumn {
		mainAvail, crossAvail = crossAvail, mainAvail
	}

	bases := make([]float64, len(items))
	var used, grow, shrink float64
	for i, c := range items {
		fixed, _, _ := mainAxis(dir, c)
		switch {
		case c.Flex.Basis.Set:
			bases[i] = c.Flex.Basis.Value
		case fixed.Set:
			bases[i] = fixed.Value
		}
		used += bases[i]
		grow += c.Flex.Grow
		shrink += c.Flex.Shrink * bases[i]
	}

	free := mainAvail - used
	results := make([]LayoutResult, len(items))
	var cursor float64
	for i, c := range items {
		size := bases[i]
		switch {
		case free > 0 && grow > 0:
			size += free * c.Flex.Grow / grow
		case free < 0 && shrink > 0:
			size += free * c.Flex.Shrink * bases[i] / shrink
		}
		_, lo, hi := mainAxis(dir, c)
		size = math.Max(0, resolveAxis(size, Length{}, lo, hi))

		var cross LayoutResult
		var r Rect
		if dir == FlexRow {
			cross = Resolve(LayoutConstraints{
				Height: c.Height, MinHeight: c.MinHeight, MaxHeight: c.MaxHeight, VAlign: c.VAlign,
			}, Size{Width: size, Height: crossAvail})
			r = Rect{X: cursor, Y: cross.Bounds.Y, Width: size, Height: cross.Bounds.Height}
		} else {
			cross = Resolve(LayoutConstraints{
				Width: c.Width, MinWidth: c.MinWidth, MaxWidth: c.MaxWidth, HAlign: c.HAlign,
			}, Size{Width: crossAvail, Height: size})
			r = Rect{X: cross.Bounds.X, Y: cursor, Width: cross.Bounds.Width, Height: size}
		}
		cursor += size
		results[i] = LayoutResult{
			Bounds:      r,
			Overflow:    cursor > mainAvail || cross.Overflow,
			ContentSize: Size{Width: r.Width, Height: r.Height},
		}
	}
	return results
}

func mainAxis(dir FlexDirection, c LayoutConstraints) (fixed, lo, hi Length) {
	if dir == FlexColumn {
		return c.Height, c.MinHeight, c.MaxHeight
	}
	return c.Width, c.MinWidth, c.MaxWidth
}

type layoutKey struct {
	constraints LayoutConstraints
	w, h        int64
}

// LayoutCache memoizes Resolve by constraints and available space rounded to
// whole pixels. Entries never expire; callers call Invalidate when the window
// resizes or constraints change.
type LayoutCache struct {
	entries map[layoutKey]LayoutResult
	hits    int
	misses  int
}

// NewLayoutCache returns an empty cache.
func NewLayoutCache() *LayoutCache {
	return &LayoutCache{entries: make(map[layoutKey]LayoutResult)}
}

// Get returns the cached result for (c, available), resolving and storing it
// on a miss. The resolution uses the rounded available size so every lookup
// that shares a key sees the same result.
func (lc *LayoutCache) Get(c LayoutConstraints, available Size) LayoutResult {
	k := layoutKey{
		constraints: c,
		w:           int64(math.Round(available.Width)),
		h:           int64(math.Round(available.Height)),
	}
	if r, ok := lc.entries[k]; ok {
		lc.hits++
		return r
	}
	lc.misses++
	r := Resolve(c, Size{Width: float64(k.w), Height: float64(k.h)})
	lc.entries[k] = r
	return r
}

// Invalidate drops every entry.
func (lc *LayoutCache) Invalidate() {
	clear(lc.entries)
}

// Len returns the number of cached entries.
func (lc *LayoutCache) Len() int { return len(lc.entries) }

// Stats returns the hit and miss counts since creation.
func (lc *LayoutCache) Stats() (hits, misses int) { return lc.hits, lc.misses }
