package lumina

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// DropZoneKind identifies the region of a node a drop zone covers.
type DropZoneKind uint8

const (
	DropCenter       DropZoneKind = iota // join the node's tab group
	DropTabStrip                         // insert among the tab headers
	DropLeft                             // split horizontally, panel on the left
	DropRight                            // split horizontally, panel on the right
	DropTop                              // split vertically, panel on top
	DropBottom                           // split vertically, panel at the bottom
	DropWindowLeft                       // split the root, panel on the far left
	DropWindowRight                      // split the root, panel on the far right
	DropWindowTop                        // split the root, panel along the top
	DropWindowBottom                     // split the root, panel along the bottom
)

const windowEdgeZone = 24.0

// DropZone is one candidate drop region shown during a drag.
type DropZone struct {
	Bounds      Rect
	Node        WidgetID
	Kind        DropZoneKind
	Highlighted bool
	// Alpha is the highlight strength in [0, 1], animated toward 1 while
	// highlighted and back to 0 afterwards.
	Alpha float64
	fade  *Tween
}

// DragState exists only while a tab is being dragged.
type DragState struct {
	Panel   PanelID
	Source  TabID
	Origin  Vec2
	Current Vec2
	// Offset is the pointer position relative to the dragged tab's origin.
	Offset Vec2
	// Target is where the panel would land if dropped now, or nil.
	Target DockTarget
	Zones  []DropZone
	active int
}

// ActiveZone returns the highlighted zone, if any.
func (d *DragState) ActiveZone() (DropZone, bool) {
	if d == nil || d.active < 0 || d.active >= len(d.Zones) {
		return DropZone{}, false
	}
	return d.Zones[d.active], true
}

func (d *DragState) updateFades(dt float32) bool {
	running := false
	for i := range d.Zones {
		if f := d.Zones[i].fade; f != nil {
			f.Update(dt)
			if f.Done {
				d.Zones[i].fade = nil
			}
			running = true
		}
	}
	return running
}

// dropZones builds the drop zones for the current bounds. Window edge zones
// come first, then per Tabs node the tab strip, the four edges and the
// center, so lookups take the first match.
func (m *DockingManager) dropZones() []DropZone {
	var zones []DropZone
	if m.root.Kind == NodeSplit && !m.window.Empty() {
		w, e := m.window, windowEdgeZone
		zones = append(zones,
			DropZone{Kind: DropWindowLeft, Node: m.root.ID, Bounds: Rect{w.X, w.Y, e, w.Height}},
			DropZone{Kind: DropWindowRight, Node: m.root.ID, Bounds: Rect{w.Right() - e, w.Y, e, w.Height}},
			DropZone{Kind: DropWindowTop, Node: m.root.ID, Bounds: Rect{w.X, w.Y, w.Width, e}},
			DropZone{Kind: DropWindowBottom, Node: m.root.ID, Bounds: Rect{w.X, w.Bottom() - e, w.Width, e}},
		)
	}
	f := m.config.DropZoneFraction
	m.root.Walk(func(n *LayoutNode, _ int) bool {
		if n.Kind != NodeTabs {
			return true
		}
		tb, ok := m.tabBars[n.ID]
		if !ok {
			return true
		}
		c := tb.ContentBounds()
		ew, eh := c.Width*f, c.Height*f
		zones = append(zones,
			DropZone{Kind: DropTabStrip, Node: n.ID, Bounds: tb.BarBounds()},
			DropZone{Kind: DropLeft, Node: n.ID, Bounds: Rect{c.X, c.Y, ew, c.Height}},
			DropZone{Kind: DropRight, Node: n.ID, Bounds: Rect{c.Right() - ew, c.Y, ew, c.Height}},
			DropZone{Kind: DropTop, Node: n.ID, Bounds: Rect{c.X, c.Y, c.Width, eh}},
			DropZone{Kind: DropBottom, Node: n.ID, Bounds: Rect{c.X, c.Bottom() - eh, c.Width, eh}},
			DropZone{Kind: DropCenter, Node: n.ID, Bounds: c},
		)
		return true
	})
	return zones
}

func zoneAt(zones []DropZone, p Vec2) int {
	for i := range zones {
		if zones[i].Bounds.ContainsPoint(p) {
			return i
		}
	}
	return -1
}

// zoneTarget converts a zone into a dock target for panel dropped at p.
func (m *DockingManager) zoneTarget(z DropZone, p Vec2, panel PanelID) DockTarget {
	switch z.Kind {
	case DropTabStrip:
		tb, ok := m.tabBars[z.Node]
		if !ok {
			return TabTarget{TabID: z.Node}
		}
		idx := tb.InsertIndexAt(p)
		// Indices are resolved after the panel is detached from its group.
		if tabs, i := m.root.FindPanel(panel); tabs != nil && tabs.ID == z.Node && i < idx {
			idx--
		}
		return TabTarget{TabID: z.Node, Index: AtIndex(idx)}
	case DropLeft, DropWindowLeft:
		return SplitTarget{NodeID: z.Node, Direction: Horizontal, Ratio: edgeRatio(z.Kind), Side: DockBefore}
	case DropRight, DropWindowRight:
		return SplitTarget{NodeID: z.Node, Direction: Horizontal, Ratio: 1 - edgeRatio(z.Kind), Side: DockAfter}
	case DropTop, DropWindowTop:
		return SplitTarget{NodeID: z.Node, Direction: Vertical, Ratio: edgeRatio(z.Kind), Side: DockBefore}
	case DropBottom, DropWindowBottom:
		return SplitTarget{NodeID: z.Node, Direction: Vertical, Ratio: 1 - edgeRatio(z.Kind), Side: DockAfter}
	default:
		return TabTarget{TabID: z.Node}
	}
}

// edgeRatio is the share given to a panel docked at an edge.
func edgeRatio(k DropZoneKind) float64 {
	if k >= DropWindowLeft {
		return 0.25
	}
	return 0.5
}

// targetAt resolves the drop target under p for panel.
func (m *DockingManager) targetAt(p Vec2, panel PanelID) (DockTarget, bool) {
	if m.root.IsEmpty() {
		return rootTarget{}, true
	}
	zones := m.dropZones()
	i := zoneAt(zones, p)
	if i < 0 {
		return nil, false
	}
	return m.zoneTarget(zones[i], p, panel), true
}

// Drag returns the active drag, or nil.
func (m *DockingManager) Drag() *DragState { return m.drag }

// BeginDrag starts dragging a placed panel from origin.
func (m *DockingManager) BeginDrag(panel PanelID, origin Vec2) error {
	tabs, i := m.root.FindPanel(panel)
	if tabs == nil {
		return fmt.Errorf("lumina: drag panel %s: %w", panel.Short(), ErrPanelNotFound)
	}
	d := &DragState{
		Panel:   panel,
		Source:  tabs.ID,
		Origin:  origin,
		Current: origin,
		Zones:   m.dropZones(),
		active:  -1,
	}
	if tb, ok := m.tabBars[tabs.ID]; ok && i < len(tb.tabs) {
		tr := tb.tabs[i].Bounds
		d.Offset = origin.Sub(Vec2{tr.X, tr.Y})
	}
	m.drag = d
	m.UpdateDrag(origin)
	return nil
}

// UpdateDrag moves the drag to p and re-resolves the highlighted zone.
func (m *DockingManager) UpdateDrag(p Vec2) {
	d := m.drag
	if d == nil {
		return
	}
	d.Current = p
	m.dirty = true
	idx := zoneAt(d.Zones, p)
	if idx != d.active {
		if d.active >= 0 {
			m.fadeZone(&d.Zones[d.active], false)
		}
		if idx >= 0 {
			m.fadeZone(&d.Zones[idx], true)
		}
		d.active = idx
	}
	if idx < 0 {
		d.Target = nil
		return
	}
	d.Target = m.zoneTarget(d.Zones[idx], p, d.Panel)
}

func (m *DockingManager) fadeZone(z *DropZone, on bool) {
	z.Highlighted = on
	to := 0.0
	if on {
		to = 1
	}
	z.fade = NewTween(z.Alpha, to, m.config.DropFadeTime, ease.OutQuad, func(v float64) { z.Alpha = v })
}

// EndDrag drops the dragged panel at p. Dropping outside every zone cancels.
func (m *DockingManager) EndDrag(p Vec2) error {
	if m.drag == nil {
		return nil
	}
	m.UpdateDrag(p)
	d := m.drag
	m.drag = nil
	m.dirty = true
	if d.Target == nil {
		return nil
	}
	return m.dock(d.Panel, d.Target, true)
}

// CancelDrag abandons the active drag.
func (m *DockingManager) CancelDrag() {
	if m.drag != nil {
		m.drag = nil
		m.dirty = true
	}
}
