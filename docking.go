package lumina

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tanema/gween/ease"
)

// DockTarget says where DockPanel should place a panel. It is one of
// TabTarget, SplitTarget or PositionTarget.
type DockTarget interface {
	dockTarget()
}

// TabTarget inserts into an existing Tabs node. A nil Index appends.
type TabTarget struct {
	TabID TabID
	Index *int
}

// DockSide picks which half of a new split the docked panel occupies.
type DockSide uint8

const (
	DockAfter  DockSide = iota // right of or below the target node
	DockBefore                 // left of or above the target node
)

// SplitTarget replaces the node NodeID with a Split holding the old node and
// a new single-tab node for the panel. Ratio is the share of the left or top
// child; zero means an even split.
type SplitTarget struct {
	NodeID    WidgetID
	Direction Direction
	Ratio     float64
	Side      DockSide
}

// PositionTarget docks into whatever drop zone lies under Point in the last
// calculated bounds.
type PositionTarget struct {
	Point Vec2
}

// rootTarget places a panel as the root of an Empty tree.
type rootTarget struct{}

func (TabTarget) dockTarget()      {}
func (rootTarget) dockTarget()     {}
func (SplitTarget) dockTarget()    {}
func (PositionTarget) dockTarget() {}

// AtIndex returns a pointer to i for TabTarget.Index.
func AtIndex(i int) *int { return &i }

// DockingManager owns the docking tree, the panel registry and the per-node
// tab bars. It is also a Widget: mounted as a framework root it renders the
// whole tree and turns pointer input into tab, close, drag and resize
// operations.
//
// Every successful mutation is recorded for Undo and marks the manager dirty.
// Mutations requested from inside panel input handlers should go through
// Defer so they run after dispatch finishes.
type DockingManager struct {
	BaseWidget

	root    *LayoutNode
	panels  map[PanelID]Panel
	order   []PanelID
	closed  map[PanelID]Panel
	tabBars map[TabID]*TabBar
	bounds  LayoutBounds
	window  Rect

	config  DockConfig
	theme   Theme
	history History
	tweens  TweenGroup
	store   EventStore

	drag      *DragState
	press     *tabPress
	resize    *dividerDrag
	menu      *contextMenu
	activeTab TabID
	hoverDiv  SplitID

	deferred []func()
	dirty    bool
}

// NewDockingManager returns a manager with an Empty root and the default
// configuration and theme.
func NewDockingManager() *DockingManager {
	cfg := DefaultDockConfig()
	m := &DockingManager{
		BaseWidget: NewBaseWidget(WidgetIDFromName("lumina/docking")),
		root:       EmptyNode(),
		panels:     make(map[PanelID]Panel),
		closed:     make(map[PanelID]Panel),
		tabBars:    make(map[TabID]*TabBar),
		bounds:     make(LayoutBounds),
		config:     cfg,
		theme:      DefaultTheme(),
		history:    History{Limit: cfg.HistoryLimit},
		dirty:      true,
	}
	m.Focusable = true
	return m
}

// SetConfig replaces the docking configuration.
func (m *DockingManager) SetConfig(cfg DockConfig) {
	m.config = cfg
	m.history.SetLimit(cfg.HistoryLimit)
	m.rebuildTabBars()
}

// Config returns the docking configuration.
func (m *DockingManager) Config() DockConfig { return m.config }

// SetTheme replaces the palette used for rendering.
func (m *DockingManager) SetTheme(t Theme) {
	m.theme = t
	m.dirty = true
}

// SetEventStore sets the optional ECS bridge.
func (m *DockingManager) SetEventStore(store EventStore) {
	m.store = store
}

func (m *DockingManager) emit(ev UIEvent) {
	if m.store != nil {
		m.store.EmitEvent(ev)
	}
}

// Root returns the live root node. Callers must not mutate it; use the
// manager's operations instead.
func (m *DockingManager) Root() *LayoutNode { return m.root }

// Panel returns the registered panel with id.
func (m *DockingManager) Panel(id PanelID) (Panel, bool) {
	p, ok := m.panels[id]
	return p, ok
}

// Panels returns registered panels in registration order.
func (m *DockingManager) Panels() []Panel {
	out := make([]Panel, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.panels[id])
	}
	return out
}

// AllPanels returns every panel id placed in the tree, left to right.
func (m *DockingManager) AllPanels() []PanelID { return m.root.AllPanels() }

// FindPanel returns the Tabs node holding panel and the panel's index.
func (m *DockingManager) FindPanel(panel PanelID) (TabID, int, bool) {
	tabs, i := m.root.FindPanel(panel)
	if tabs == nil {
		return TabID{}, -1, false
	}
	return tabs.ID, i, true
}

// TabBar returns the cached tab bar of a Tabs node.
func (m *DockingManager) TabBar(id TabID) (*TabBar, bool) {
	tb, ok := m.tabBars[id]
	return tb, ok
}

// Bounds returns the bounds from the last CalculateBounds.
func (m *DockingManager) Bounds() LayoutBounds { return m.bounds }

// TakeDirty reports whether anything visible changed since the last call and
// clears the flag.
func (m *DockingManager) TakeDirty() bool {
	d := m.dirty
	m.dirty = false
	return d
}

// AddPanel registers panel. When the tree is Empty the panel becomes the
// single tab of a new root Tabs node; otherwise it stays registered but
// unplaced until DockPanel is called.
func (m *DockingManager) AddPanel(panel Panel) {
	id := panel.ID()
	if _, ok := m.panels[id]; !ok {
		m.order = append(m.order, id)
	}
	m.panels[id] = panel
	delete(m.closed, id)
	m.emit(UIEvent{Kind: UIEventPanelAdded, Panel: id})

	if m.root.IsEmpty() {
		m.history.Record(m.root.Clone())
		m.root = NewTabsNode(id)
		m.activeTab = m.root.ID
		m.rebuildTabBars()
		m.emit(UIEvent{Kind: UIEventPanelDocked, Panel: id, Node: m.root.ID})
	} else {
		m.rebuildTabBars()
	}
	m.dirty = true
}

// DockPanel places a registered panel at target. A panel already in the tree
// is moved: it is detached first and the tree is optimized afterwards.
// On error the tree is left unchanged.
func (m *DockingManager) DockPanel(id PanelID, target DockTarget) error {
	return m.dock(id, target, false)
}

// AddPanelToTabs appends a registered panel to a Tabs node and makes it the
// active tab.
func (m *DockingManager) AddPanelToTabs(tabID TabID, panel PanelID) error {
	return m.dock(panel, TabTarget{TabID: tabID}, true)
}

func (m *DockingManager) dock(id PanelID, target DockTarget, activate bool) error {
	if _, ok := m.panels[id]; !ok {
		return fmt.Errorf("lumina: dock panel %s: %w", id.Short(), ErrPanelNotFound)
	}
	if pt, ok := target.(PositionTarget); ok {
		resolved, ok := m.targetAt(pt.Point, id)
		if !ok {
			return fmt.Errorf("lumina: dock panel %s at (%.0f, %.0f): %w", id.Short(), pt.Point.X, pt.Point.Y, ErrNodeNotFound)
		}
		target = resolved
	}

	before := m.root.Clone()
	root := m.root.Clone()
	var wasActiveIn TabID
	if tabs, i := root.FindPanel(id); tabs != nil {
		if i == tabs.ActiveTab {
			wasActiveIn = tabs.ID
		}
		tabs.removePanelAt(i)
	}

	var placed *LayoutNode
	switch t := target.(type) {
	case TabTarget:
		tabs := root.FindTabs(t.TabID)
		if tabs == nil {
			return fmt.Errorf("lumina: dock panel %s into %s: %w", id.Short(), t.TabID.Short(), ErrTabNotFound)
		}
		idx := -1
		if t.Index != nil {
			idx = *t.Index
		}
		i := tabs.insertPanelAt(idx, id)
		// Reordering the visible tab within its own group keeps it visible.
		if activate || tabs.ID == wasActiveIn {
			tabs.ActiveTab = i
		}
		placed = tabs

	case SplitTarget:
		node := root.Find(t.NodeID)
		if node == nil {
			return fmt.Errorf("lumina: split %s for panel %s: %w", t.NodeID.Short(), id.Short(), ErrNodeNotFound)
		}
		ratio := t.Ratio
		if ratio == 0 {
			ratio = 0.5
		}
		placed = NewTabsNode(id)
		var split *LayoutNode
		if t.Side == DockBefore {
			split = NewSplitNode(t.Direction, ratio, placed, node)
		} else {
			split = NewSplitNode(t.Direction, ratio, node, placed)
		}
		root = replaceNode(root, node, split)

	case rootTarget:
		if !root.IsEmpty() {
			return fmt.Errorf("lumina: dock panel %s as root: %w", id.Short(), ErrNodeNotFound)
		}
		placed = NewTabsNode(id)
		root = placed

	default:
		return fmt.Errorf("lumina: dock panel %s: unsupported target %T", id.Short(), target)
	}

	root = Optimize(root)
	if d := root.Depth(); m.config.MaxTreeDepth > 0 && d > m.config.MaxTreeDepth {
		return fmt.Errorf("lumina: dock panel %s: depth %d exceeds %d: %w", id.Short(), d, m.config.MaxTreeDepth, ErrTreeTooDeep)
	}
	m.commit(before, root)
	m.activeTab = placed.ID
	m.emit(UIEvent{Kind: UIEventPanelDocked, Panel: id, Node: placed.ID})
	return nil
}

// RemovePanel removes a panel from the tree, fixes up the active tab of the
// Tabs node that held it, optimizes the tree and unregisters the panel. A
// registered panel that is not in the tree is just unregistered. Unknown
// panels return ErrPanelNotFound.
func (m *DockingManager) RemovePanel(id PanelID) error {
	tabs, i := m.root.FindPanel(id)
	if tabs == nil {
		if _, ok := m.panels[id]; !ok {
			return fmt.Errorf("lumina: remove panel %s: %w", id.Short(), ErrPanelNotFound)
		}
		m.unregister(id)
		return nil
	}
	before := m.root.Clone()
	tabs.removePanelAt(i)
	m.unregister(id)
	m.commit(before, Optimize(m.root))
	m.emit(UIEvent{Kind: UIEventPanelRemoved, Panel: id, Node: tabs.ID})
	return nil
}

// ClosePanel removes a panel when it allows closing.
func (m *DockingManager) ClosePanel(id PanelID) error {
	if p, ok := m.panels[id]; ok && !p.CanClose() {
		return nil
	}
	return m.RemovePanel(id)
}

// unregister drops a panel from the registry but remembers it so Undo can
// bring it back.
func (m *DockingManager) unregister(id PanelID) {
	p, ok := m.panels[id]
	if !ok {
		return
	}
	m.closed[id] = p
	delete(m.panels, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	m.dirty = true
}

// Optimize prunes empty branches of the tree.
func (m *DockingManager) Optimize() {
	m.root = Optimize(m.root)
	m.rebuildTabBars()
	m.dirty = true
}

// SetActiveTab makes index the active tab of a Tabs node. The index is
// clamped into range.
func (m *DockingManager) SetActiveTab(tabID TabID, index int) error {
	tabs := m.root.FindTabs(tabID)
	if tabs == nil {
		return fmt.Errorf("lumina: set active tab of %s: %w", tabID.Short(), ErrTabNotFound)
	}
	m.activeTab = tabID
	if len(tabs.Panels) == 0 {
		return nil
	}
	index = max(0, min(index, len(tabs.Panels)-1))
	if index == tabs.ActiveTab {
		return nil
	}
	m.history.Record(m.root.Clone())
	tabs.ActiveTab = index
	m.rebuildTabBars()
	m.dirty = true
	m.emit(UIEvent{Kind: UIEventTabActivated, Node: tabID, Panel: tabs.Panels[index], Index: index})
	return nil
}

// UpdateSplitRatio sets a split's ratio, clamped to [0.1, 0.9].
func (m *DockingManager) UpdateSplitRatio(splitID SplitID, ratio float64) error {
	if err := m.setRatio(splitID, ratio); err != nil {
		return err
	}
	m.tweens.Stop(splitID)
	return nil
}

func (m *DockingManager) setRatio(splitID SplitID, ratio float64) error {
	split := m.root.FindSplit(splitID)
	if split == nil {
		return fmt.Errorf("lumina: update ratio of %s: %w", splitID.Short(), ErrSplitNotFound)
	}
	ratio = ClampRatio(ratio)
	if ratio == split.Ratio {
		return nil
	}
	m.history.Record(m.root.Clone())
	split.Ratio = ratio
	m.afterRatioChange(split)
	return nil
}

func (m *DockingManager) afterRatioChange(split *LayoutNode) {
	if !m.window.Empty() {
		m.CalculateBounds(m.window)
	}
	m.dirty = true
	m.emit(UIEvent{Kind: UIEventSplitResized, Node: split.ID, Ratio: split.Ratio})
}

// AnimateSplitRatio tweens a split's ratio to ratio over duration seconds
// (the configured default when duration is zero). The change is recorded
// for Undo once, up front.
func (m *DockingManager) AnimateSplitRatio(splitID SplitID, ratio float64, duration float32) error {
	split := m.root.FindSplit(splitID)
	if split == nil {
		return fmt.Errorf("lumina: animate ratio of %s: %w", splitID.Short(), ErrSplitNotFound)
	}
	if duration == 0 {
		duration = m.config.RatioTweenTime
	}
	m.history.Record(m.root.Clone())
	m.tweens.Start(splitID, NewTween(split.Ratio, ClampRatio(ratio), duration, ease.InOutQuad, func(v float64) {
		if s := m.root.FindSplit(splitID); s != nil {
			s.Ratio = ClampRatio(v)
			m.afterRatioChange(s)
		}
	}))
	return nil
}

// CalculateBounds computes the rect of every Split and Tabs node for window
// and updates the tab bars.
func (m *DockingManager) CalculateBounds(window Rect) LayoutBounds {
	m.window = window
	m.bounds = CalculateBounds(m.root, window)
	for id, tb := range m.tabBars {
		if r, ok := m.bounds[id]; ok {
			tb.SetBounds(r)
		}
	}
	return m.bounds
}

// Undo restores the tree as it was before the last recorded mutation.
func (m *DockingManager) Undo() bool {
	root, ok := m.history.Undo(m.root)
	if !ok {
		return false
	}
	m.replaceRoot(root)
	return true
}

// Redo reapplies the last undone mutation.
func (m *DockingManager) Redo() bool {
	root, ok := m.history.Redo(m.root)
	if !ok {
		return false
	}
	m.replaceRoot(root)
	return true
}

// CanUndo reports whether Undo has anything to restore.
func (m *DockingManager) CanUndo() bool { return len(m.history.Past) > 0 }

// CanRedo reports whether Redo has anything to reapply.
func (m *DockingManager) CanRedo() bool { return len(m.history.Future) > 0 }

// replaceRoot swaps in a whole tree without recording history. Panels that
// were closed and reappear in the tree are registered again.
func (m *DockingManager) replaceRoot(root *LayoutNode) {
	m.cancelGestures()
	m.tweens = TweenGroup{}
	m.root = root
	for _, id := range root.AllPanels() {
		if p, ok := m.closed[id]; ok {
			m.panels[id] = p
			m.order = append(m.order, id)
			delete(m.closed, id)
		}
	}
	m.rebuildTabBars()
	if !m.window.Empty() {
		m.CalculateBounds(m.window)
	}
	m.dirty = true
}

func (m *DockingManager) commit(before, root *LayoutNode) {
	m.history.Record(before)
	m.root = root
	m.rebuildTabBars()
	if !m.window.Empty() {
		m.CalculateBounds(m.window)
	}
	m.dirty = true
}

// InvalidateTabBars rebuilds every tab bar, picking up title changes.
func (m *DockingManager) InvalidateTabBars() {
	m.rebuildTabBars()
	m.dirty = true
}

func (m *DockingManager) rebuildTabBars() {
	next := make(map[TabID]*TabBar, len(m.tabBars))
	m.root.Walk(func(n *LayoutNode, _ int) bool {
		if n.Kind == NodeTabs {
			next[n.ID] = NewTabBar(n, m.bounds[n.ID], m.Panel, m.config)
		}
		return true
	})
	m.tabBars = next
	if m.root.FindTabs(m.activeTab) == nil {
		if first := m.root.FirstTabs(); first != nil {
			m.activeTab = first.ID
		} else {
			m.activeTab = TabID{}
		}
	}
}

// Defer queues fn to run after the current input dispatch. Panels use it to
// mutate the tree from inside HandleInput.
func (m *DockingManager) Defer(fn func()) {
	m.deferred = append(m.deferred, fn)
}

func (m *DockingManager) flushDeferred() {
	for len(m.deferred) > 0 {
		fns := m.deferred
		m.deferred = nil
		for _, fn := range fns {
			fn()
		}
	}
}

// Update advances ratio tweens and drop zone fades by dt seconds and runs
// deferred mutations.
func (m *DockingManager) Update(dt float32) {
	m.flushDeferred()
	if m.tweens.Update(dt) {
		m.dirty = true
	}
	if m.drag != nil && m.drag.updateFades(dt) {
		m.dirty = true
	}
}

// Validate checks the tree invariants: ratios in range, active tabs in
// bounds, no panel placed twice, no unpruned Split of two Empty children and
// depth within MaxTreeDepth.
func (m *DockingManager) Validate() error {
	return ValidateTree(m.root, m.config.MaxTreeDepth)
}

// ValidateTree checks the invariants of the tree rooted at root. A
// maxDepth of zero skips the depth check.
func ValidateTree(root *LayoutNode, maxDepth int) error {
	var errs []error
	seen := make(map[PanelID]bool)
	root.Walk(func(n *LayoutNode, depth int) bool {
		if maxDepth > 0 && depth >= maxDepth {
			errs = append(errs, fmt.Errorf("lumina: node %s at depth %d: %w", n.ID.Short(), depth, ErrTreeTooDeep))
			return false
		}
		switch n.Kind {
		case NodeSplit:
			if n.Ratio < MinSplitRatio || n.Ratio > MaxSplitRatio {
				errs = append(errs, fmt.Errorf("lumina: split %s ratio %v out of range", n.ID.Short(), n.Ratio))
			}
			if n.Left.IsEmpty() && n.Right.IsEmpty() {
				errs = append(errs, fmt.Errorf("lumina: split %s has two empty children", n.ID.Short()))
			}
		case NodeTabs:
			if len(n.Panels) > 0 && (n.ActiveTab < 0 || n.ActiveTab >= len(n.Panels)) {
				errs = append(errs, fmt.Errorf("lumina: tabs %s active %d out of range [0, %d)", n.ID.Short(), n.ActiveTab, len(n.Panels)))
			}
			for _, p := range n.Panels {
				if seen[p] {
					errs = append(errs, fmt.Errorf("lumina: panel %s placed twice", p.Short()))
				}
				seen[p] = true
			}
		}
		return true
	})
	return errors.Join(errs...)
}
