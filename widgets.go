package lumina

// --- Container ---

// Container lays out its children along one axis with ResolveFlex. Children
// keep their own constraints; the container only supplies the area.
type Container struct {
	BaseWidget

	Direction  FlexDirection
	Padding    float64
	Gap        float64
	Background Color // zero alpha draws nothing
}

// NewContainer returns a container laying children out along dir.
func NewContainer(id WidgetID, dir FlexDirection) *Container {
	return &Container{BaseWidget: NewBaseWidget(id), Direction: dir}
}

// LayoutChildren implements ChildLayouter. Gaps are carved out of the main
// axis before children are resolved.
func (c *Container) LayoutChildren(bounds Rect, children []Widget) []Rect {
	if len(children) == 0 {
		return nil
	}
	inner := bounds.Shrink(c.Padding)
	gaps := c.Gap * float64(len(children)-1)
	avail := Size{Width: inner.Width, Height: inner.Height}
	if c.Direction == FlexRow {
		avail.Width = max(0, avail.Width-gaps)
	} else {
		avail.Height = max(0, avail.Height-gaps)
	}

	items := make([]LayoutConstraints, len(children))
	for i, w := range children {
		items[i] = w.Constraints()
	}
	results := ResolveFlex(c.Direction, avail, items)

	rects := make([]Rect, len(results))
	for i, res := range results {
		r := res.Bounds
		r.X += inner.X
		r.Y += inner.Y
		if c.Direction == FlexRow {
			r.X += c.Gap * float64(i)
		} else {
			r.Y += c.Gap * float64(i)
		}
		rects[i] = r
	}
	return rects
}

func (c *Container) Render(r Renderer, bounds Rect) error {
	if c.Background.A > 0 {
		r.DrawRect(bounds, c.Background)
	}
	return nil
}

// --- Label ---

// Label draws a single line of text. Without explicit sizing it asks for
// enough room to fit the text at the estimated advance.
type Label struct {
	BaseWidget

	Text     string
	Font     string
	FontSize float64
	Color    Color
	Align    HAlign
}

// NewLabel returns a label using the default theme's font and text color.
func NewLabel(id WidgetID, text string) *Label {
	th := DefaultTheme()
	return &Label{
		BaseWidget: NewBaseWidget(id),
		Text:       text,
		Font:       th.Font,
		FontSize:   th.FontSize,
		Color:      th.Text,
	}
}

// Constraints returns Sizing with a minimum derived from the text when no
// minimum was set.
func (l *Label) Constraints() LayoutConstraints {
	c := l.Sizing
	w, h := MeasureText(nil, l.Text, l.Font, l.FontSize)
	if !c.MinWidth.Set {
		c.MinWidth = Px(w)
	}
	if !c.MinHeight.Set {
		c.MinHeight = Px(h)
	}
	return c
}

func (l *Label) Layout(available Size) LayoutResult {
	if l.cache != nil {
		return l.cache.Get(l.Constraints(), available)
	}
	return Resolve(l.Constraints(), available)
}

func (l *Label) Render(r Renderer, bounds Rect) error {
	if l.Text == "" {
		return nil
	}
	w, h := MeasureText(r, l.Text, l.Font, l.FontSize)
	x := bounds.X
	switch l.Align {
	case HAlignCenter:
		x += (bounds.Width - w) / 2
	case HAlignRight:
		x += bounds.Width - w
	}
	y := bounds.Y + (bounds.Height-h)/2
	r.DrawText(l.Text, Vec2{x, y}, l.Font, l.FontSize, l.Color)
	return nil
}

// --- Button ---

// Button is a focusable, clickable label. OnClick fires on a mouse click or
// on Enter/Space while focused.
type Button struct {
	BaseWidget

	Text    string
	OnClick func()
	Theme   Theme

	hovered bool
	pressed bool
	focused bool
	dirty   bool
}

// NewButton returns a focusable button using the default theme.
func NewButton(id WidgetID, text string, onClick func()) *Button {
	b := &Button{
		BaseWidget: NewBaseWidget(id),
		Text:       text,
		OnClick:    onClick,
		Theme:      DefaultTheme(),
	}
	b.Focusable = true
	return b
}

// Hovered reports whether the pointer is over the button.
func (b *Button) Hovered() bool { return b.hovered }

// Pressed reports whether the button is held down.
func (b *Button) Pressed() bool { return b.pressed }

// TakeDirty implements DirtyReporter.
func (b *Button) TakeDirty() bool {
	d := b.dirty
	b.dirty = false
	return d
}

func (b *Button) click() {
	if b.OnClick != nil {
		b.OnClick()
	}
}

func (b *Button) HandleInput(ev InputEvent) InputResult {
	switch ev.Type {
	case EventMouseEnter:
		b.hovered, b.dirty = true, true
		return Handled
	case EventMouseExit:
		b.hovered, b.pressed, b.dirty = false, false, true
		return Handled
	case EventFocusGained:
		b.focused, b.dirty = true, true
		return Handled
	case EventFocusLost:
		b.focused, b.dirty = false, true
		return Handled
	case EventMouseDown:
		if ev.Button != MouseButtonLeft {
			return NotHandled
		}
		b.pressed, b.dirty = true, true
		return CaptureInput
	case EventMouseUp:
		if ev.Button != MouseButtonLeft {
			return NotHandled
		}
		b.pressed, b.dirty = false, true
		return ReleaseCapture
	case EventMouseClick:
		if ev.Button != MouseButtonLeft {
			return NotHandled
		}
		b.click()
		return Handled
	case EventKeyDown:
		if ev.Key == KeyEnter || ev.Key == KeySpace {
			b.click()
			return Handled
		}
	}
	return NotHandled
}

func (b *Button) Render(r Renderer, bounds Rect) error {
	bg := b.Theme.Button
	switch {
	case b.pressed:
		bg = b.Theme.ButtonPressed
	case b.hovered:
		bg = b.Theme.ButtonHover
	}
	r.DrawRect(bounds, bg)
	if b.focused {
		DrawBorder(r, bounds, 1, b.Theme.Focus)
	}
	w, h := MeasureText(r, b.Text, b.Theme.Font, b.Theme.FontSize)
	pos := Vec2{bounds.X + (bounds.Width-w)/2, bounds.Y + (bounds.Height-h)/2}
	r.DrawText(b.Text, pos, b.Theme.Font, b.Theme.FontSize, b.Theme.Text)
	return nil
}
