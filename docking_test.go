package lumina

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

// newTestManager registers panels by name; the first lands in the root.
func newTestManager(names ...string) (*DockingManager, []*testPanel) {
	m := NewDockingManager()
	panels := make([]*testPanel, len(names))
	for i, n := range names {
		panels[i] = newTestPanel(n)
		m.AddPanel(panels[i])
	}
	return m, panels
}

func mustValid(t *testing.T, m *DockingManager) {
	t.Helper()
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid tree: %v", err)
	}
}

func TestAddPanelToEmptyRoot(t *testing.T) {
	m, p := newTestManager("x")
	root := m.Root()
	if root.Kind != NodeTabs {
		t.Fatalf("root kind = %v, want tabs", root.Kind)
	}
	if !slices.Equal(root.Panels, []PanelID{p[0].ID()}) || root.ActiveTab != 0 {
		t.Errorf("root = %v active %d", root.Panels, root.ActiveTab)
	}
	if _, ok := m.Panel(p[0].ID()); !ok {
		t.Error("panel not registered")
	}
}

func TestAddPanelToNonEmptyRootLeavesItUnplaced(t *testing.T) {
	m, p := newTestManager("x", "y")
	if got := m.AllPanels(); !slices.Equal(got, []PanelID{p[0].ID()}) {
		t.Errorf("placed = %v", got)
	}
	if _, ok := m.Panel(p[1].ID()); !ok {
		t.Error("y not registered")
	}
	if _, _, ok := m.FindPanel(p[1].ID()); ok {
		t.Error("y should not be placed")
	}
}

func TestDockIntoTabsKeepsActive(t *testing.T) {
	m, p := newTestManager("x", "y")
	tabID := m.Root().ID
	if err := m.DockPanel(p[1].ID(), TabTarget{TabID: tabID}); err != nil {
		t.Fatal(err)
	}
	root := m.Root()
	if !slices.Equal(root.Panels, []PanelID{p[0].ID(), p[1].ID()}) {
		t.Errorf("panels = %v", root.Panels)
	}
	if root.ActiveTab != 0 {
		t.Errorf("active = %d, want 0", root.ActiveTab)
	}
	mustValid(t, m)

	t.Run("then remove the first", func(t *testing.T) {
		if err := m.RemovePanel(p[0].ID()); err != nil {
			t.Fatal(err)
		}
		root := m.Root()
		if !slices.Equal(root.Panels, []PanelID{p[1].ID()}) || root.ActiveTab != 0 {
			t.Errorf("panels = %v active %d", root.Panels, root.ActiveTab)
		}
		if _, ok := m.Panel(p[0].ID()); ok {
			t.Error("x still registered")
		}
		mustValid(t, m)
	})
}

func TestAddPanelToTabsActivates(t *testing.T) {
	m, p := newTestManager("x", "y")
	if err := m.AddPanelToTabs(m.Root().ID, p[1].ID()); err != nil {
		t.Fatal(err)
	}
	if m.Root().ActiveTab != 1 {
		t.Errorf("active = %d, want 1", m.Root().ActiveTab)
	}
}

func TestDockAtIndex(t *testing.T) {
	m, p := newTestManager("a", "b", "c")
	tabID := m.Root().ID
	if err := m.DockPanel(p[1].ID(), TabTarget{TabID: tabID}); err != nil {
		t.Fatal(err)
	}
	if err := m.DockPanel(p[2].ID(), TabTarget{TabID: tabID, Index: AtIndex(0)}); err != nil {
		t.Fatal(err)
	}
	want := []PanelID{p[2].ID(), p[0].ID(), p[1].ID()}
	if got := m.Root().Panels; !slices.Equal(got, want) {
		t.Errorf("panels = %v, want %v", got, want)
	}
	if m.Root().ActiveTab != 1 {
		t.Errorf("active = %d, want 1 (a stays active)", m.Root().ActiveTab)
	}

	// Moving within the same group detaches first.
	if err := m.DockPanel(p[2].ID(), TabTarget{TabID: tabID}); err != nil {
		t.Fatal(err)
	}
	want = []PanelID{p[0].ID(), p[1].ID(), p[2].ID()}
	if got := m.Root().Panels; !slices.Equal(got, want) {
		t.Errorf("after move panels = %v, want %v", got, want)
	}
	mustValid(t, m)
}

func TestDockErrors(t *testing.T) {
	m, p := newTestManager("x", "y")
	before := m.Root().Clone()

	tests := []struct {
		name   string
		panel  PanelID
		target DockTarget
		want   error
	}{
		{"unknown panel", WidgetIDFromName("nope"), TabTarget{TabID: m.Root().ID}, ErrPanelNotFound},
		{"unknown tabs", p[1].ID(), TabTarget{TabID: WidgetIDFromName("nope")}, ErrTabNotFound},
		{"unknown split node", p[1].ID(), SplitTarget{NodeID: WidgetIDFromName("nope")}, ErrNodeNotFound},
		{"position without bounds", p[1].ID(), PositionTarget{Point: Vec2{10, 10}}, ErrNodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.DockPanel(tt.panel, tt.target)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !m.Root().Equal(before) {
				t.Error("tree changed on error")
			}
		})
	}
}

func TestDockSplitTarget(t *testing.T) {
	tests := []struct {
		name      string
		side      DockSide
		dir       Direction
		ratio     float64
		wantRatio float64
		newOnLeft bool
	}{
		{"after", DockAfter, Horizontal, 0, 0.5, false},
		{"before", DockBefore, Vertical, 0.3, 0.3, true},
		{"clamped", DockAfter, Horizontal, 0.99, 0.9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, p := newTestManager("a", "b")
			old := m.Root()
			err := m.DockPanel(p[1].ID(), SplitTarget{NodeID: old.ID, Direction: tt.dir, Ratio: tt.ratio, Side: tt.side})
			if err != nil {
				t.Fatal(err)
			}
			root := m.Root()
			if root.Kind != NodeSplit || root.Direction != tt.dir || root.Ratio != tt.wantRatio {
				t.Fatalf("root = %v %v %v", root.Kind, root.Direction, root.Ratio)
			}
			placed, kept := root.Right, root.Left
			if tt.newOnLeft {
				placed, kept = root.Left, root.Right
			}
			if kept.ID != old.ID {
				t.Error("existing node lost its id")
			}
			if !slices.Equal(placed.Panels, []PanelID{p[1].ID()}) {
				t.Errorf("new node panels = %v", placed.Panels)
			}
			mustValid(t, m)
		})
	}
}

func TestDockMovesPlacedPanelAndOptimizes(t *testing.T) {
	m, p := newTestManager("a", "b")
	left := m.Root()
	if err := m.DockPanel(p[1].ID(), SplitTarget{NodeID: left.ID, Direction: Horizontal}); err != nil {
		t.Fatal(err)
	}
	// Moving b back into a's group empties its own group, which is pruned.
	if err := m.DockPanel(p[1].ID(), TabTarget{TabID: left.ID}); err != nil {
		t.Fatal(err)
	}
	root := m.Root()
	if root.Kind != NodeTabs || root.ID != left.ID {
		t.Fatalf("root = %v, want a's tabs node", root.Kind)
	}
	if !slices.Equal(root.Panels, []PanelID{p[0].ID(), p[1].ID()}) {
		t.Errorf("panels = %v", root.Panels)
	}
}

func TestRemovePanelCollapsesSplit(t *testing.T) {
	m, p := newTestManager("a", "b")
	if err := m.DockPanel(p[1].ID(), SplitTarget{NodeID: m.Root().ID, Direction: Horizontal}); err != nil {
		t.Fatal(err)
	}
	right := m.Root().Right
	if err := m.RemovePanel(p[0].ID()); err != nil {
		t.Fatal(err)
	}
	if m.Root() != right {
		t.Fatalf("root = %v, want the surviving tabs node", m.Root().Kind)
	}
	if err := m.RemovePanel(p[1].ID()); err != nil {
		t.Fatal(err)
	}
	if m.Root().Kind != NodeEmpty {
		t.Errorf("root = %v, want empty", m.Root().Kind)
	}
}

func TestRemovePanelErrors(t *testing.T) {
	m, p := newTestManager("a", "b")
	if err := m.RemovePanel(WidgetIDFromName("nope")); !errors.Is(err, ErrPanelNotFound) {
		t.Errorf("err = %v", err)
	}
	// Registered but unplaced is only unregistered.
	if err := m.RemovePanel(p[1].ID()); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Panel(p[1].ID()); ok {
		t.Error("b still registered")
	}
	if len(m.Root().Panels) != 1 {
		t.Error("tree changed")
	}
}

func TestClosePanelRespectsCanClose(t *testing.T) {
	m, p := newTestManager("a")
	p[0].Closable = false
	if err := m.ClosePanel(p[0].ID()); err != nil {
		t.Fatal(err)
	}
	if len(m.AllPanels()) != 1 {
		t.Error("pinned panel was closed")
	}
	p[0].Closable = true
	if err := m.ClosePanel(p[0].ID()); err != nil {
		t.Fatal(err)
	}
	if len(m.AllPanels()) != 0 {
		t.Error("panel not closed")
	}
}

func TestReorderWithinGroupKeepsVisiblePanel(t *testing.T) {
	tests := []struct {
		name   string
		active int
		move   int
		index  int
		order  []int
	}{
		{"active to front", 2, 2, 0, []int{2, 0, 1}},
		{"active to back", 0, 0, 99, []int{1, 2, 0}},
		{"active to middle", 0, 0, 1, []int{1, 0, 2}},
		{"other to front", 0, 2, 0, []int{2, 0, 1}},
		{"other to back", 1, 0, 99, []int{1, 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, p := newTestManager("a", "b", "c")
			tabID := m.Root().ID
			for _, pp := range p[1:] {
				if err := m.DockPanel(pp.ID(), TabTarget{TabID: tabID}); err != nil {
					t.Fatal(err)
				}
			}
			if err := m.SetActiveTab(tabID, tt.active); err != nil {
				t.Fatal(err)
			}
			if err := m.DockPanel(p[tt.move].ID(), TabTarget{TabID: tabID, Index: AtIndex(tt.index)}); err != nil {
				t.Fatal(err)
			}
			want := make([]PanelID, len(tt.order))
			for i, o := range tt.order {
				want[i] = p[o].ID()
			}
			root := m.Root()
			if !slices.Equal(root.Panels, want) {
				t.Fatalf("panels = %v, want %v", root.Panels, want)
			}
			if got := root.Panels[root.ActiveTab]; got != p[tt.active].ID() {
				t.Errorf("active panel = %v, want %v", got, p[tt.active].ID())
			}
			mustValid(t, m)
		})
	}
}

func TestSetActiveTab(t *testing.T) {
	m, p := newTestManager("a", "b", "c")
	tabID := m.Root().ID
	for _, pp := range p[1:] {
		if err := m.DockPanel(pp.ID(), TabTarget{TabID: tabID}); err != nil {
			t.Fatal(err)
		}
	}
	tests := []struct {
		index, want int
	}{
		{2, 2}, {-4, 0}, {99, 2}, {1, 1},
	}
	for _, tt := range tests {
		if err := m.SetActiveTab(tabID, tt.index); err != nil {
			t.Fatal(err)
		}
		if got := m.Root().ActiveTab; got != tt.want {
			t.Errorf("SetActiveTab(%d) -> %d, want %d", tt.index, got, tt.want)
		}
	}
	if err := m.SetActiveTab(WidgetIDFromName("nope"), 0); !errors.Is(err, ErrTabNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestUpdateSplitRatio(t *testing.T) {
	m, p := newTestManager("a", "b")
	if err := m.DockPanel(p[1].ID(), SplitTarget{NodeID: m.Root().ID, Direction: Horizontal}); err != nil {
		t.Fatal(err)
	}
	splitID := m.Root().ID
	tests := []struct {
		in, want float64
	}{
		{0.3, 0.3}, {0.95, 0.9}, {-1, 0.1}, {math.NaN(), 0.5},
	}
	for _, tt := range tests {
		if err := m.UpdateSplitRatio(splitID, tt.in); err != nil {
			t.Fatal(err)
		}
		if got := m.Root().Ratio; got != tt.want {
			t.Errorf("ratio %v -> %v, want %v", tt.in, got, tt.want)
		}
	}
	if err := m.UpdateSplitRatio(m.Root().Left.ID, 0.5); !errors.Is(err, ErrSplitNotFound) {
		t.Errorf("tabs id: err = %v", err)
	}
}

func TestAnimateSplitRatio(t *testing.T) {
	m, p := newTestManager("a", "b")
	if err := m.DockPanel(p[1].ID(), SplitTarget{NodeID: m.Root().ID, Direction: Horizontal}); err != nil {
		t.Fatal(err)
	}
	splitID := m.Root().ID
	if err := m.AnimateSplitRatio(splitID, 0.8, 0.2); err != nil {
		t.Fatal(err)
	}
	m.Update(0.1)
	mid := m.Root().Ratio
	if mid <= 0.5 || mid >= 0.8 {
		t.Errorf("mid ratio = %v, want between 0.5 and 0.8", mid)
	}
	m.Update(0.2)
	if got := m.Root().Ratio; math.Abs(got-0.8) > 1e-6 {
		t.Errorf("final ratio = %v, want 0.8", got)
	}
	if m.tweens.Len() != 0 {
		t.Error("finished tween not dropped")
	}

	if !m.Undo() || m.Root().Ratio != 0.5 {
		t.Errorf("undo ratio = %v, want 0.5", m.Root().Ratio)
	}
}

func TestDepthGuard(t *testing.T) {
	m, p := newTestManager("a", "b", "c")
	cfg := m.Config()
	cfg.MaxTreeDepth = 2
	m.SetConfig(cfg)

	if err := m.DockPanel(p[1].ID(), SplitTarget{NodeID: m.Root().ID, Direction: Horizontal}); err != nil {
		t.Fatal(err)
	}
	before := m.Root().Clone()
	err := m.DockPanel(p[2].ID(), SplitTarget{NodeID: m.Root().Left.ID, Direction: Vertical})
	if !errors.Is(err, ErrTreeTooDeep) {
		t.Fatalf("err = %v, want ErrTreeTooDeep", err)
	}
	if !m.Root().Equal(before) {
		t.Error("tree changed")
	}
	// Splitting the root pushes the existing groups down a level too.
	err = m.DockPanel(p[2].ID(), SplitTarget{NodeID: m.Root().ID, Direction: Vertical})
	if !errors.Is(err, ErrTreeTooDeep) {
		t.Errorf("root split: err = %v, want ErrTreeTooDeep", err)
	}
	// Joining a group adds no depth.
	if err := m.DockPanel(p[2].ID(), TabTarget{TabID: m.Root().Left.ID}); err != nil {
		t.Error(err)
	}
	mustValid(t, m)
}

func TestDockPositionTarget(t *testing.T) {
	tests := []struct {
		name  string
		point Vec2
		check func(t *testing.T, root *LayoutNode, a, b PanelID)
	}{
		{"center joins tabs", Vec2{400, 300}, func(t *testing.T, root *LayoutNode, a, b PanelID) {
			if root.Kind != NodeTabs || !slices.Equal(root.Panels, []PanelID{a, b}) {
				t.Errorf("root = %v %v", root.Kind, root.Panels)
			}
		}},
		{"left edge splits before", Vec2{10, 300}, func(t *testing.T, root *LayoutNode, a, b PanelID) {
			if root.Kind != NodeSplit || root.Direction != Horizontal {
				t.Fatalf("root = %v", root.Kind)
			}
			if root.Left.Panels[0] != b || root.Right.Panels[0] != a {
				t.Error("b should be on the left")
			}
		}},
		{"bottom edge splits after", Vec2{400, 590}, func(t *testing.T, root *LayoutNode, a, b PanelID) {
			if root.Kind != NodeSplit || root.Direction != Vertical {
				t.Fatalf("root = %v", root.Kind)
			}
			if root.Left.Panels[0] != a || root.Right.Panels[0] != b {
				t.Error("b should be at the bottom")
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, p := newTestManager("a", "b")
			m.CalculateBounds(Rect{0, 0, 800, 600})
			if err := m.DockPanel(p[1].ID(), PositionTarget{Point: tt.point}); err != nil {
				t.Fatal(err)
			}
			tt.check(t, m.Root(), p[0].ID(), p[1].ID())
			mustValid(t, m)
		})
	}

	t.Run("outside every zone", func(t *testing.T) {
		m, p := newTestManager("a", "b")
		m.CalculateBounds(Rect{0, 0, 800, 600})
		err := m.DockPanel(p[1].ID(), PositionTarget{Point: Vec2{-50, -50}})
		if !errors.Is(err, ErrNodeNotFound) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("empty root", func(t *testing.T) {
		m, p := newTestManager("a", "b")
		if err := m.RemovePanel(p[0].ID()); err != nil {
			t.Fatal(err)
		}
		if err := m.DockPanel(p[1].ID(), PositionTarget{Point: Vec2{1, 1}}); err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(m.Root().Panels, []PanelID{p[1].ID()}) {
			t.Errorf("root panels = %v", m.Root().Panels)
		}
	})
}

func TestUndoRedo(t *testing.T) {
	m, p := newTestManager("a", "b")
	if m.Redo() {
		t.Error("redo with empty stack")
	}
	tabID := m.Root().ID
	if err := m.DockPanel(p[1].ID(), TabTarget{TabID: tabID}); err != nil {
		t.Fatal(err)
	}
	afterDock := m.Root().Clone()

	if !m.Undo() {
		t.Fatal("undo failed")
	}
	if got := m.Root().Panels; !slices.Equal(got, []PanelID{p[0].ID()}) {
		t.Errorf("after undo panels = %v", got)
	}
	if !m.CanRedo() {
		t.Error("CanRedo false")
	}
	if !m.Redo() || !m.Root().Equal(afterDock) {
		t.Error("redo did not restore the dock")
	}

	// Removing then undoing brings the panel back into the registry.
	if err := m.RemovePanel(p[0].ID()); err != nil {
		t.Fatal(err)
	}
	if m.CanRedo() {
		t.Error("a new mutation should clear redo")
	}
	m.Undo()
	if _, ok := m.Panel(p[0].ID()); !ok {
		t.Error("undo did not re-register the removed panel")
	}
	mustValid(t, m)
}

func TestHistoryLimit(t *testing.T) {
	m, p := newTestManager("a", "b")
	cfg := m.Config()
	cfg.HistoryLimit = 2
	m.SetConfig(cfg)
	if err := m.DockPanel(p[1].ID(), SplitTarget{NodeID: m.Root().ID, Direction: Horizontal}); err != nil {
		t.Fatal(err)
	}
	splitID := m.Root().ID
	for _, r := range []float64{0.2, 0.3, 0.4, 0.6} {
		if err := m.UpdateSplitRatio(splitID, r); err != nil {
			t.Fatal(err)
		}
	}
	n := 0
	for m.Undo() {
		n++
	}
	if n != 2 {
		t.Errorf("undo steps = %d, want 2", n)
	}
	if m.Root().Ratio != 0.3 {
		t.Errorf("ratio = %v, want 0.3", m.Root().Ratio)
	}
}

func TestManagerEvents(t *testing.T) {
	store := &recordingStore{}
	m := NewDockingManager()
	m.SetEventStore(store)
	a, b := newTestPanel("a"), newTestPanel("b")
	m.AddPanel(a)
	m.AddPanel(b)
	tabID := m.Root().ID
	if err := m.DockPanel(b.ID(), TabTarget{TabID: tabID}); err != nil {
		t.Fatal(err)
	}
	if err := m.SetActiveTab(tabID, 1); err != nil {
		t.Fatal(err)
	}
	if err := m.RemovePanel(a.ID()); err != nil {
		t.Fatal(err)
	}
	want := []UIEventKind{
		UIEventPanelAdded, UIEventPanelDocked,
		UIEventPanelAdded,
		UIEventPanelDocked,
		UIEventTabActivated,
		UIEventPanelRemoved,
	}
	if got := store.kinds(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if ev := store.events[4]; ev.Index != 1 || ev.Panel != b.ID() || ev.Node != tabID {
		t.Errorf("tab activated event = %+v", ev)
	}
}

func TestManagerBounds(t *testing.T) {
	m, p := newTestManager("a", "b")
	if err := m.DockPanel(p[1].ID(), SplitTarget{NodeID: m.Root().ID, Direction: Horizontal, Ratio: 0.25}); err != nil {
		t.Fatal(err)
	}
	b := m.CalculateBounds(Rect{0, 0, 800, 600})
	left, right := m.Root().Left, m.Root().Right
	if b[left.ID] != (Rect{0, 0, 200, 600}) || b[right.ID] != (Rect{200, 0, 600, 600}) {
		t.Errorf("bounds = %v / %v", b[left.ID], b[right.ID])
	}
	tb, ok := m.TabBar(right.ID)
	if !ok || tb.Bounds() != b[right.ID] {
		t.Error("tab bar bounds not updated")
	}

	// Later mutations recompute against the stored window.
	if err := m.UpdateSplitRatio(m.Root().ID, 0.5); err != nil {
		t.Fatal(err)
	}
	if got := m.Bounds()[left.ID]; got.Width != 400 {
		t.Errorf("left width after resize = %v", got.Width)
	}
}

func TestFindPanel(t *testing.T) {
	m, p := newTestManager("a", "b")
	tabID, idx, ok := m.FindPanel(p[0].ID())
	if !ok || tabID != m.Root().ID || idx != 0 {
		t.Errorf("FindPanel(a) = %v %d %v", tabID, idx, ok)
	}
	if _, _, ok := m.FindPanel(p[1].ID()); ok {
		t.Error("unplaced panel found")
	}
}

func TestDeferredMutationsRunOnUpdate(t *testing.T) {
	m, p := newTestManager("a", "b")
	tabID := m.Root().ID
	m.Defer(func() {
		if err := m.DockPanel(p[1].ID(), TabTarget{TabID: tabID}); err != nil {
			t.Error(err)
		}
	})
	if len(m.AllPanels()) != 1 {
		t.Fatal("deferred call ran early")
	}
	m.Update(0)
	if len(m.AllPanels()) != 2 {
		t.Error("deferred call did not run")
	}
}

// Random operation sequences must never break the tree invariants.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	m := NewDockingManager()
	var ids []PanelID
	m.CalculateBounds(Rect{0, 0, 1024, 768})

	nodes := func(kind NodeKind) []*LayoutNode {
		var out []*LayoutNode
		m.Root().Walk(func(n *LayoutNode, _ int) bool {
			if n.Kind == kind {
				out = append(out, n)
			}
			return true
		})
		return out
	}

	for step := range 500 {
		switch op := rng.IntN(7); op {
		case 0:
			p := newTestPanel(string(rune('a'+step%26)) + string(rune('0'+step/26%10)))
			m.AddPanel(p)
			ids = append(ids, p.ID())
		case 1, 2:
			if len(ids) == 0 {
				continue
			}
			tabs := nodes(NodeTabs)
			if len(tabs) == 0 {
				continue
			}
			id := ids[rng.IntN(len(ids))]
			tab := tabs[rng.IntN(len(tabs))]
			if op == 1 {
				_ = m.DockPanel(id, TabTarget{TabID: tab.ID, Index: AtIndex(rng.IntN(4) - 1)})
			} else {
				_ = m.DockPanel(id, SplitTarget{NodeID: tab.ID, Direction: Direction(rng.IntN(2)), Ratio: rng.Float64(), Side: DockSide(rng.IntN(2))})
			}
		case 3:
			if len(ids) == 0 {
				continue
			}
			i := rng.IntN(len(ids))
			_ = m.RemovePanel(ids[i])
			ids = slices.Delete(ids, i, i+1)
		case 4:
			if tabs := nodes(NodeTabs); len(tabs) > 0 {
				_ = m.SetActiveTab(tabs[rng.IntN(len(tabs))].ID, rng.IntN(6)-2)
			}
		case 5:
			if splits := nodes(NodeSplit); len(splits) > 0 {
				_ = m.UpdateSplitRatio(splits[rng.IntN(len(splits))].ID, rng.Float64()*1.4-0.2)
			}
		case 6:
			if rng.IntN(2) == 0 {
				m.Undo()
			} else {
				m.Redo()
			}
		}
		if err := m.Validate(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		once := Optimize(m.Root().Clone())
		if !once.Equal(Optimize(once.Clone())) {
			t.Fatalf("step %d: optimize not idempotent", step)
		}
	}
}
