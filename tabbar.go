package lumina

// TabInfo is the projection of one tab header.
type TabInfo struct {
	Panel       PanelID
	Title       string
	Bounds      Rect
	CloseBounds Rect
	CanClose    bool
	Active      bool
	Missing     bool
}

// TabActionKind identifies what a tab bar interaction asks the docking
// manager to do.
type TabActionKind uint8

const (
	TabActionNone      TabActionKind = iota // nothing to do
	TabActionSelect                         // make Index the active tab
	TabActionClose                          // close the panel at Index
	TabActionDragStart                      // begin dragging the panel at Index
)

// TabAction is a discrete result of a tab bar interaction.
type TabAction struct {
	Kind  TabActionKind
	Index int
}

// SelectTab returns a select action for index i.
func SelectTab(i int) TabAction { return TabAction{Kind: TabActionSelect, Index: i} }

// CloseTab returns a close action for index i.
func CloseTab(i int) TabAction { return TabAction{Kind: TabActionClose, Index: i} }

// StartDrag returns a drag-start action for index i.
func StartDrag(i int) TabAction { return TabAction{Kind: TabActionDragStart, Index: i} }

// PanelLookup resolves a panel id against a registry.
type PanelLookup func(PanelID) (Panel, bool)

const missingPanelTitle = "(missing)"

// TabBar lays out the tab headers of one Tabs node. Tab width is the
// container width divided by the tab count, clamped to the configured
// min/max, so many tabs overflow the container to the right.
type TabBar struct {
	node    TabID
	bounds  Rect
	tabs    []TabInfo
	cfg     DockConfig
	hovered int
}

// NewTabBar builds a tab bar for a Tabs node inside bounds. Panels missing
// from lookup keep their slot with a placeholder title.
func NewTabBar(node *LayoutNode, bounds Rect, lookup PanelLookup, cfg DockConfig) *TabBar {
	tb := &TabBar{cfg: cfg, hovered: -1}
	if node == nil || node.Kind != NodeTabs {
		return tb
	}
	tb.node = node.ID
	tb.tabs = make([]TabInfo, len(node.Panels))
	for i, id := range node.Panels {
		info := TabInfo{Panel: id, Active: i == node.ActiveTab}
		if p, ok := lookupPanel(lookup, id); ok {
			info.Title = p.Title()
			info.CanClose = p.CanClose()
		} else {
			info.Title = missingPanelTitle
			info.CanClose = true
			info.Missing = true
		}
		tb.tabs[i] = info
	}
	tb.SetBounds(bounds)
	return tb
}

func lookupPanel(lookup PanelLookup, id PanelID) (Panel, bool) {
	if lookup == nil {
		return nil, false
	}
	return lookup(id)
}

// Node returns the id of the Tabs node this bar projects.
func (tb *TabBar) Node() TabID { return tb.node }

// Tabs returns the tab headers in order.
func (tb *TabBar) Tabs() []TabInfo { return tb.tabs }

// Bounds returns the rect of the whole Tabs node.
func (tb *TabBar) Bounds() Rect { return tb.bounds }

// SetBounds re-lays the headers out for a new node rect.
func (tb *TabBar) SetBounds(bounds Rect) {
	tb.bounds = bounds
	n := len(tb.tabs)
	if n == 0 {
		return
	}
	w := clamp(bounds.Width/float64(n), tb.cfg.TabMinWidth, tb.cfg.TabMaxWidth)
	h := tb.barHeight()
	size := tb.cfg.CloseButtonSize
	for i := range tb.tabs {
		r := Rect{X: bounds.X + float64(i)*w, Y: bounds.Y, Width: w, Height: h}
		tb.tabs[i].Bounds = r
		if tb.tabs[i].CanClose {
			tb.tabs[i].CloseBounds = Rect{
				X:      r.Right() - tb.cfg.CloseButtonInset - size,
				Y:      r.Y + (h-size)/2,
				Width:  size,
				Height: size,
			}
		} else {
			tb.tabs[i].CloseBounds = Rect{}
		}
	}
}

func (tb *TabBar) barHeight() float64 {
	return min(tb.cfg.TabBarHeight, max(tb.bounds.Height, 0))
}

// BarBounds returns the strip occupied by the headers.
func (tb *TabBar) BarBounds() Rect {
	return Rect{X: tb.bounds.X, Y: tb.bounds.Y, Width: tb.bounds.Width, Height: tb.barHeight()}
}

// ContentBounds returns the node rect below the tab strip.
func (tb *TabBar) ContentBounds() Rect {
	h := tb.barHeight()
	return Rect{X: tb.bounds.X, Y: tb.bounds.Y + h, Width: tb.bounds.Width, Height: tb.bounds.Height - h}
}

// TabAt returns the index of the first tab containing p, or -1.
func (tb *TabBar) TabAt(p Vec2) int {
	for i := range tb.tabs {
		if tb.tabs[i].Bounds.ContainsPoint(p) {
			return i
		}
	}
	return -1
}

// InsertIndexAt returns where a tab dropped at p would be inserted: before
// the tab under p when p is in its left half, after it otherwise, and at
// the end when p is past the last tab.
func (tb *TabBar) InsertIndexAt(p Vec2) int {
	for i := range tb.tabs {
		r := tb.tabs[i].Bounds
		if r.ContainsPoint(p) {
			if p.X < r.X+r.Width/2 {
				return i
			}
			return i + 1
		}
	}
	return len(tb.tabs)
}

// HandleClick resolves a click at p. The close button is checked before the
// tab body; clicking the body of the active tab does nothing.
func (tb *TabBar) HandleClick(p Vec2) TabAction {
	i := tb.TabAt(p)
	if i < 0 {
		return TabAction{}
	}
	t := tb.tabs[i]
	if t.CanClose && t.CloseBounds.ContainsPoint(p) {
		return CloseTab(i)
	}
	if !t.Active {
		return SelectTab(i)
	}
	return TabAction{}
}

// HandleMouseDown resolves a press at p. Pressing a tab body starts a drag
// candidate; pressing a close button does not.
func (tb *TabBar) HandleMouseDown(p Vec2) TabAction {
	i := tb.TabAt(p)
	if i < 0 {
		return TabAction{}
	}
	t := tb.tabs[i]
	if t.CanClose && t.CloseBounds.ContainsPoint(p) {
		return TabAction{}
	}
	return StartDrag(i)
}

// SetHovered records the tab under the pointer for highlighting; -1 clears.
func (tb *TabBar) SetHovered(i int) { tb.hovered = i }

// Render draws the strip, each header and its close button.
func (tb *TabBar) Render(r Renderer, theme Theme) {
	bar := tb.BarBounds()
	r.DrawRect(bar, theme.TabBar)
	for i, t := range tb.tabs {
		bg, fg := theme.Tab, theme.TabText
		switch {
		case t.Active:
			bg, fg = theme.TabActive, theme.TabTextActive
		case i == tb.hovered:
			bg = theme.TabHover
		}
		r.DrawRect(t.Bounds, bg)
		if t.Active {
			r.DrawRect(Rect{X: t.Bounds.X, Y: t.Bounds.Bottom() - 2, Width: t.Bounds.Width, Height: 2}, theme.Focus)
		}
		r.DrawRect(Rect{X: t.Bounds.Right() - 1, Y: t.Bounds.Y + 4, Width: 1, Height: t.Bounds.Height - 8}, theme.Divider)

		avail := t.Bounds.Width - 16
		if t.CanClose {
			avail -= tb.cfg.CloseButtonSize + tb.cfg.CloseButtonInset
		}
		title := fitText(r, t.Title, theme.Font, theme.FontSize, avail)
		_, th := MeasureText(r, title, theme.Font, theme.FontSize)
		r.DrawText(title, Vec2{X: t.Bounds.X + 8, Y: t.Bounds.Y + (t.Bounds.Height-th)/2}, theme.Font, theme.FontSize, fg)

		if t.CanClose && (t.Active || i == tb.hovered) {
			cb := t.CloseBounds
			xw, xh := MeasureText(r, "x", theme.Font, theme.FontSize)
			r.DrawText("x", Vec2{X: cb.X + (cb.Width-xw)/2, Y: cb.Y + (cb.Height-xh)/2}, theme.Font, theme.FontSize, theme.CloseButton)
		}
	}
}

// fitText truncates s with an ellipsis until it measures at most width.
func fitText(r Renderer, s, font string, size, width float64) string {
	if w, _ := MeasureText(r, s, font, size); w <= width {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		t := string(runes[:n]) + "…"
		if w, _ := MeasureText(r, t, font, size); w <= width {
			return t
		}
	}
	return ""
}
