package lumina

// tabPress is a press on a tab body that becomes a drag once the pointer
// leaves the dead zone.
type tabPress struct {
	panel  PanelID
	tabs   TabID
	origin Vec2
}

// dividerDrag is an in-progress split resize.
type dividerDrag struct {
	split  SplitID
	bounds Rect
	dir    Direction
}

const menuItemClose = "lumina.close"

// contextMenu is the popup opened by right-clicking a tab.
type contextMenu struct {
	panel   PanelID
	items   []ContextMenuItem
	bounds  Rect
	rows    []Rect
	hovered int
}

const (
	menuRowHeight = 22.0
	menuWidth     = 180.0
)

func (c *contextMenu) rowAt(p Vec2) int {
	for i, r := range c.rows {
		if r.ContainsPoint(p) && !c.items[i].Separator && !c.items[i].Disabled {
			return i
		}
	}
	return -1
}

// HandleInput routes an input event through the docking UI: context menu,
// divider resizing, tab presses and drags, tab clicks, and finally the
// panel under the pointer or the active panel of the focused group.
func (m *DockingManager) HandleInput(ev InputEvent) InputResult {
	defer m.flushDeferred()
	switch ev.Type {
	case EventMouseDown:
		return m.mouseDown(ev)
	case EventMouseMove:
		return m.mouseMove(ev)
	case EventMouseUp:
		return m.mouseUp(ev)
	case EventMouseClick:
		return m.mouseClick(ev)
	case EventMouseExit:
		m.clearHover()
		return NotHandled
	case EventKeyDown:
		if res, ok := m.shortcut(ev); ok {
			return res
		}
	}
	return m.routeToPanel(ev)
}

func (m *DockingManager) shortcut(ev InputEvent) (InputResult, bool) {
	if ev.Key == KeyEscape && (m.drag != nil || m.press != nil || m.menu != nil || m.resize != nil) {
		m.cancelGestures()
		return Handled, true
	}
	if ev.Modifiers&ModCtrl == 0 {
		return NotHandled, false
	}
	switch {
	case ev.Key == 'Z' && ev.Modifiers&ModShift != 0, ev.Key == 'Y':
		m.Redo()
		return Handled, true
	case ev.Key == 'Z':
		m.Undo()
		return Handled, true
	case ev.Key == KeyTab:
		tabs := m.root.FindTabs(m.activeTab)
		if tabs == nil || len(tabs.Panels) < 2 {
			return NotHandled, false
		}
		step := 1
		if ev.Modifiers&ModShift != 0 {
			step = len(tabs.Panels) - 1
		}
		m.logErr("cycle tab", m.SetActiveTab(tabs.ID, (tabs.ActiveTab+step)%len(tabs.Panels)))
		return Handled, true
	case ev.Key == 'W':
		if pid, ok := m.root.FindTabs(m.activeTab).ActivePanel(); ok {
			m.logErr("close panel", m.ClosePanel(pid))
			return Handled, true
		}
	}
	return NotHandled, false
}

func (m *DockingManager) mouseDown(ev InputEvent) InputResult {
	p := ev.Position
	if m.menu != nil {
		if m.menu.bounds.ContainsPoint(p) {
			return Handled
		}
		m.menu = nil
		m.dirty = true
	}

	tb := m.tabBarAt(p)
	if ev.Button == MouseButtonRight {
		if tb != nil {
			if i := tb.TabAt(p); i >= 0 {
				m.openMenu(tb.tabs[i].Panel, p)
				return Handled
			}
		}
		return m.routeToPanel(ev)
	}
	if ev.Button != MouseButtonLeft {
		return m.routeToPanel(ev)
	}

	if split, b, ok := m.dividerAt(p); ok {
		m.history.Record(m.root.Clone())
		m.tweens.Stop(split.ID)
		m.resize = &dividerDrag{split: split.ID, bounds: b, dir: split.Direction}
		return CaptureInput
	}

	if tb != nil {
		m.activeTab = tb.node
		act := tb.HandleMouseDown(p)
		if act.Kind == TabActionDragStart {
			m.press = &tabPress{panel: tb.tabs[act.Index].Panel, tabs: tb.node, origin: p}
			return CaptureInput
		}
		return Handled
	}

	if tabs := m.tabsAt(p); tabs != nil {
		m.activeTab = tabs.ID
	}
	return m.routeToPanel(ev)
}

func (m *DockingManager) mouseMove(ev InputEvent) InputResult {
	p := ev.Position
	switch {
	case m.resize != nil:
		r := m.resize
		var ratio float64
		if r.dir == Vertical {
			ratio = (p.Y - r.bounds.Y) / r.bounds.Height
		} else {
			ratio = (p.X - r.bounds.X) / r.bounds.Width
		}
		if split := m.root.FindSplit(r.split); split != nil {
			if v := ClampRatio(ratio); v != split.Ratio {
				split.Ratio = v
				m.afterRatioChange(split)
			}
		}
		return Handled

	case m.press != nil:
		if p.Sub(m.press.origin).Len() <= m.config.DragDeadZone {
			return Handled
		}
		press := m.press
		m.press = nil
		m.logErr("begin drag", m.BeginDrag(press.panel, press.origin))
		m.UpdateDrag(p)
		return Handled

	case m.drag != nil:
		m.UpdateDrag(p)
		return Handled

	case m.menu != nil && m.menu.bounds.ContainsPoint(p):
		if h := m.menu.rowAt(p); h != m.menu.hovered {
			m.menu.hovered = h
			m.dirty = true
		}
		return Handled
	}

	m.updateHover(p)
	return m.routeToPanel(ev)
}

func (m *DockingManager) mouseUp(ev InputEvent) InputResult {
	switch {
	case m.resize != nil:
		m.resize = nil
		return ReleaseCapture
	case m.drag != nil:
		m.logErr("drop panel", m.EndDrag(ev.Position))
		return ReleaseCapture
	case m.press != nil:
		m.press = nil
		return ReleaseCapture
	}
	return m.routeToPanel(ev)
}

func (m *DockingManager) mouseClick(ev InputEvent) InputResult {
	p := ev.Position
	if m.menu != nil {
		menu := m.menu
		if !menu.bounds.ContainsPoint(p) {
			m.menu = nil
			m.dirty = true
			return Handled
		}
		if i := menu.rowAt(p); i >= 0 {
			m.menu = nil
			m.dirty = true
			m.runMenuItem(menu.panel, menu.items[i].ID)
		}
		return Handled
	}
	if ev.Button != MouseButtonLeft {
		return m.routeToPanel(ev)
	}
	if tb := m.tabBarAt(p); tb != nil {
		act := tb.HandleClick(p)
		switch act.Kind {
		case TabActionClose:
			m.logErr("close tab", m.ClosePanel(tb.tabs[act.Index].Panel))
		case TabActionSelect:
			m.logErr("select tab", m.SetActiveTab(tb.node, act.Index))
		}
		return Handled
	}
	return m.routeToPanel(ev)
}

// routeToPanel delivers pointer events to the active panel of the group
// under the pointer and other events to the active panel of the focused
// group. Missing panels are skipped.
func (m *DockingManager) routeToPanel(ev InputEvent) InputResult {
	var tabs *LayoutNode
	if ev.Type.IsMouse() {
		tabs = m.tabsAt(ev.Position)
		if tabs != nil {
			if tb, ok := m.tabBars[tabs.ID]; ok && !tb.ContentBounds().ContainsPoint(ev.Position) {
				tabs = nil
			}
		}
	} else {
		tabs = m.root.FindTabs(m.activeTab)
	}
	pid, ok := tabs.ActivePanel()
	if !ok {
		return NotHandled
	}
	p, ok := m.panels[pid]
	if !ok {
		return NotHandled
	}
	if p.HandleInput(ev) {
		m.dirty = true
		return Handled
	}
	return NotHandled
}

func (m *DockingManager) openMenu(panel PanelID, at Vec2) {
	var items []ContextMenuItem
	if p, ok := m.panels[panel]; ok {
		items = append(items, p.ContextMenuItems()...)
		if p.CanClose() {
			if len(items) > 0 {
				items = append(items, ContextMenuItem{Separator: true})
			}
			items = append(items, ContextMenuItem{ID: menuItemClose, Label: "Close"})
		}
	} else {
		items = append(items, ContextMenuItem{ID: menuItemClose, Label: "Close"})
	}
	if len(items) == 0 {
		return
	}
	menu := &contextMenu{panel: panel, items: items, hovered: -1}
	h := float64(len(items)) * menuRowHeight
	x, y := at.X, at.Y
	if !m.window.Empty() {
		x = min(x, m.window.Right()-menuWidth)
		y = min(y, m.window.Bottom()-h)
	}
	menu.bounds = Rect{X: x, Y: y, Width: menuWidth, Height: h}
	for i := range items {
		menu.rows = append(menu.rows, Rect{X: x, Y: y + float64(i)*menuRowHeight, Width: menuWidth, Height: menuRowHeight})
	}
	m.menu = menu
	m.dirty = true
}

func (m *DockingManager) runMenuItem(panel PanelID, item string) {
	m.emit(UIEvent{Kind: UIEventContextMenu, Panel: panel, Item: item})
	if item == menuItemClose {
		m.logErr("close panel", m.ClosePanel(panel))
		return
	}
	if p, ok := m.panels[panel]; ok {
		p.HandleContextMenu(item)
		m.dirty = true
	}
}

// cancelGestures drops any drag, press, resize or open menu.
func (m *DockingManager) cancelGestures() {
	if m.drag != nil || m.press != nil || m.resize != nil || m.menu != nil {
		m.dirty = true
	}
	m.drag = nil
	m.press = nil
	m.resize = nil
	m.menu = nil
}

func (m *DockingManager) tabBarAt(p Vec2) *TabBar {
	for _, tb := range m.tabBars {
		if tb.BarBounds().ContainsPoint(p) {
			return tb
		}
	}
	return nil
}

func (m *DockingManager) tabsAt(p Vec2) *LayoutNode {
	var found *LayoutNode
	m.root.Walk(func(n *LayoutNode, _ int) bool {
		if found != nil {
			return false
		}
		if n.Kind == NodeTabs {
			if r, ok := m.bounds[n.ID]; ok && r.ContainsPoint(p) {
				found = n
			}
		}
		return true
	})
	return found
}

// dividerRect returns the grab area of a split's divider.
func (m *DockingManager) dividerRect(split *LayoutNode, b Rect) Rect {
	t := m.config.DividerThickness
	if split.Direction == Vertical {
		top, _ := b.SplitVertical(split.Ratio)
		return Rect{X: b.X, Y: top.Bottom() - t/2, Width: b.Width, Height: t}
	}
	left, _ := b.SplitHorizontal(split.Ratio)
	return Rect{X: left.Right() - t/2, Y: b.Y, Width: t, Height: b.Height}
}

// dividerAt returns the deepest split whose divider is under p.
func (m *DockingManager) dividerAt(p Vec2) (*LayoutNode, Rect, bool) {
	var hit *LayoutNode
	var hitBounds Rect
	m.root.Walk(func(n *LayoutNode, _ int) bool {
		if n.Kind != NodeSplit {
			return false
		}
		b, ok := m.bounds[n.ID]
		if !ok || !b.ContainsPoint(p) {
			return false
		}
		if m.dividerRect(n, b).ContainsPoint(p) {
			hit, hitBounds = n, b
		}
		return true
	})
	return hit, hitBounds, hit != nil
}

func (m *DockingManager) updateHover(p Vec2) {
	div := SplitID{}
	if split, _, ok := m.dividerAt(p); ok {
		div = split.ID
	}
	if div != m.hoverDiv {
		m.hoverDiv = div
		m.dirty = true
	}
	for _, tb := range m.tabBars {
		i := -1
		if div.IsZero() {
			i = tb.TabAt(p)
		}
		if i != tb.hovered {
			tb.SetHovered(i)
			m.dirty = true
		}
	}
}

func (m *DockingManager) clearHover() {
	if !m.hoverDiv.IsZero() {
		m.hoverDiv = SplitID{}
		m.dirty = true
	}
	for _, tb := range m.tabBars {
		if tb.hovered >= 0 {
			tb.SetHovered(-1)
			m.dirty = true
		}
	}
}

// logErr logs a failed docking request. Failed requests are no-ops; they
// never interrupt the frame.
func (m *DockingManager) logErr(op string, err error) {
	if err != nil {
		logger().Warn("docking request failed", "op", op, "err", err)
	}
}
