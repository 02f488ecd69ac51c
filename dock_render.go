package lumina

import (
	"errors"
	"fmt"
)

const emptyDockHint = "Drop a panel here"

// Render recalculates bounds for the given rect and draws the tree: each
// group's tab bar and active panel, split dividers, then the drag and
// context menu overlays. A failing panel does not stop the others; their
// errors are joined.
func (m *DockingManager) Render(r Renderer, bounds Rect) error {
	m.CalculateBounds(bounds)
	r.DrawRect(bounds, m.theme.Background)

	if m.root.IsEmpty() {
		w, h := MeasureText(r, emptyDockHint, m.theme.Font, m.theme.FontSize)
		c := bounds.Center()
		r.DrawText(emptyDockHint, Vec2{c.X - w/2, c.Y - h/2}, m.theme.Font, m.theme.FontSize, m.theme.TabText)
	}

	var errs []error
	var splits []*LayoutNode
	m.root.Walk(func(n *LayoutNode, _ int) bool {
		switch n.Kind {
		case NodeSplit:
			splits = append(splits, n)
		case NodeTabs:
			if err := m.renderTabs(r, n); err != nil {
				errs = append(errs, err)
			}
		}
		return true
	})
	for _, s := range splits {
		m.renderDivider(r, s)
	}

	if m.drag != nil {
		m.renderDrag(r)
	}
	if m.menu != nil {
		m.renderMenu(r)
	}
	return errors.Join(errs...)
}

func (m *DockingManager) renderTabs(r Renderer, n *LayoutNode) error {
	tb, ok := m.tabBars[n.ID]
	if !ok {
		return nil
	}
	content := tb.ContentBounds()
	r.DrawRect(content, m.theme.PanelBackground)
	tb.Render(r, m.theme)

	pid, ok := n.ActivePanel()
	if !ok {
		return nil
	}
	p, ok := m.panels[pid]
	if !ok {
		return nil
	}
	if err := p.Render(r, content); err != nil {
		return fmt.Errorf("lumina: render panel %q: %w", p.Title(), err)
	}
	return nil
}

func (m *DockingManager) renderDivider(r Renderer, split *LayoutNode) {
	b, ok := m.bounds[split.ID]
	if !ok {
		return
	}
	c := m.theme.Divider
	if split.ID == m.hoverDiv || (m.resize != nil && m.resize.split == split.ID) {
		c = m.theme.DividerHover
	}
	var line Rect
	if split.Direction == Vertical {
		top, _ := b.SplitVertical(split.Ratio)
		line = Rect{X: b.X, Y: top.Bottom() - 1, Width: b.Width, Height: 2}
	} else {
		left, _ := b.SplitHorizontal(split.Ratio)
		line = Rect{X: left.Right() - 1, Y: b.Y, Width: 2, Height: b.Height}
	}
	r.DrawRect(line, c)
}

func (m *DockingManager) renderDrag(r Renderer) {
	d := m.drag
	for _, z := range d.Zones {
		if z.Alpha <= 0 {
			continue
		}
		r.DrawRect(z.Bounds, lerpColor(m.theme.DropZone, m.theme.DropZoneActive, z.Alpha))
	}

	title := missingPanelTitle
	if p, ok := m.panels[d.Panel]; ok {
		title = p.Title()
	}
	ghost := Rect{
		X:      d.Current.X - d.Offset.X,
		Y:      d.Current.Y - d.Offset.Y,
		Width:  m.config.TabMinWidth,
		Height: m.config.TabBarHeight,
	}
	bg := m.theme.TabActive
	bg.A *= 0.85
	r.DrawRect(ghost, bg)
	_, th := MeasureText(r, title, m.theme.Font, m.theme.FontSize)
	r.DrawText(fitText(r, title, m.theme.Font, m.theme.FontSize, ghost.Width-16),
		Vec2{ghost.X + 8, ghost.Y + (ghost.Height-th)/2}, m.theme.Font, m.theme.FontSize, m.theme.TabTextActive)
}

func (m *DockingManager) renderMenu(r Renderer) {
	menu := m.menu
	r.DrawRect(menu.bounds, m.theme.MenuBackground)
	DrawBorder(r, menu.bounds, 1, m.theme.Divider)
	for i, item := range menu.items {
		row := menu.rows[i]
		if item.Separator {
			r.DrawRect(Rect{X: row.X + 6, Y: row.Y + row.Height/2, Width: row.Width - 12, Height: 1}, m.theme.Divider)
			continue
		}
		if i == menu.hovered {
			r.DrawRect(row, m.theme.MenuHover)
		}
		fg := m.theme.Text
		if item.Disabled {
			fg = m.theme.TabText
			fg.A *= 0.5
		}
		_, th := MeasureText(r, item.Label, m.theme.Font, m.theme.FontSize)
		r.DrawText(item.Label, Vec2{row.X + 10, row.Y + (row.Height-th)/2}, m.theme.Font, m.theme.FontSize, fg)
	}
}

func lerpColor(a, b Color, t float64) Color {
	t = clamp01(t)
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
