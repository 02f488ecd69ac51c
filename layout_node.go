package lumina

import "math"

// NodeKind distinguishes the three LayoutNode variants.
type NodeKind uint8

const (
	NodeEmpty NodeKind = iota // placeholder that absorbs a drop or gets pruned
	NodeSplit                 // binary division along Direction at Ratio
	NodeTabs                  // ordered tab group
)

func (k NodeKind) String() string {
	switch k {
	case NodeSplit:
		return "split"
	case NodeTabs:
		return "tabs"
	default:
		return "empty"
	}
}

// Split ratios are clamped into this range on every construction and update.
const (
	MinSplitRatio = 0.1
	MaxSplitRatio = 0.9
)

// LayoutNode is one node of the docking tree. Which fields are meaningful
// depends on Kind:
//
//   - NodeSplit: ID, Direction, Ratio, Left, Right
//   - NodeTabs: ID, ActiveTab, Panels
//   - NodeEmpty: nothing
//
// A node exclusively owns its children; panels are referenced by id only.
// For a Tabs node with panels, 0 <= ActiveTab < len(Panels). ActiveTab is
// meaningless when Panels is empty.
type LayoutNode struct {
	Kind      NodeKind
	ID        WidgetID
	Direction Direction
	Ratio     float64
	Left      *LayoutNode
	Right     *LayoutNode
	ActiveTab int
	Panels    []PanelID
}

// EmptyNode returns a new Empty node.
func EmptyNode() *LayoutNode { return &LayoutNode{Kind: NodeEmpty} }

// NewTabsNode returns a Tabs node with a fresh id holding panels, with the
// first panel active.
func NewTabsNode(panels ...PanelID) *LayoutNode {
	return &LayoutNode{
		Kind:   NodeTabs,
		ID:     NewWidgetID(),
		Panels: append([]PanelID(nil), panels...),
	}
}

// NewSplitNode returns a Split node with a fresh id. The ratio is clamped and
// nil children become Empty.
func NewSplitNode(dir Direction, ratio float64, left, right *LayoutNode) *LayoutNode {
	if left == nil {
		left = EmptyNode()
	}
	if right == nil {
		right = EmptyNode()
	}
	return &LayoutNode{
		Kind:      NodeSplit,
		ID:        NewWidgetID(),
		Direction: dir,
		Ratio:     ClampRatio(ratio),
		Left:      left,
		Right:     right,
	}
}

// ClampRatio clamps r into [MinSplitRatio, MaxSplitRatio]. NaN becomes 0.5.
func ClampRatio(r float64) float64 {
	if math.IsNaN(r) {
		return 0.5
	}
	return clamp(r, MinSplitRatio, MaxSplitRatio)
}

// clampActive brings ActiveTab back in range for a non-empty Tabs node.
func (n *LayoutNode) clampActive() {
	if len(n.Panels) == 0 {
		return
	}
	if n.ActiveTab < 0 {
		n.ActiveTab = 0
	}
	if n.ActiveTab >= len(n.Panels) {
		n.ActiveTab = len(n.Panels) - 1
	}
}

// IsEmpty reports whether n is nil or an Empty node.
func (n *LayoutNode) IsEmpty() bool { return n == nil || n.Kind == NodeEmpty }

// ActivePanel returns the active panel of a Tabs node.
func (n *LayoutNode) ActivePanel() (PanelID, bool) {
	if n == nil || n.Kind != NodeTabs || n.ActiveTab < 0 || n.ActiveTab >= len(n.Panels) {
		return PanelID{}, false
	}
	return n.Panels[n.ActiveTab], true
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *LayoutNode) Clone() *LayoutNode {
	if n == nil {
		return nil
	}
	c := *n
	c.Panels = append([]PanelID(nil), n.Panels...)
	c.Left = n.Left.Clone()
	c.Right = n.Right.Clone()
	return &c
}

// Equal reports whether a and b have the same shape, ids, ratios,
// directions, panels and active tabs.
func (n *LayoutNode) Equal(o *LayoutNode) bool {
	if n.IsEmpty() || o.IsEmpty() {
		return n.IsEmpty() && o.IsEmpty()
	}
	if n.Kind != o.Kind || n.ID != o.ID {
		return false
	}
	switch n.Kind {
	case NodeSplit:
		return n.Direction == o.Direction && n.Ratio == o.Ratio &&
			n.Left.Equal(o.Left) && n.Right.Equal(o.Right)
	case NodeTabs:
		if n.ActiveTab != o.ActiveTab || len(n.Panels) != len(o.Panels) {
			return false
		}
		for i := range n.Panels {
			if n.Panels[i] != o.Panels[i] {
				return false
			}
		}
	}
	return true
}

// Walk visits every node depth-first, left before right, passing each
// node's depth (root is 0). Returning false from fn skips that node's
// children. Walk uses an explicit stack.
func (n *LayoutNode) Walk(fn func(node *LayoutNode, depth int) bool) {
	if n == nil {
		return
	}
	type frame struct {
		node  *LayoutNode
		depth int
	}
	stack := []frame{{n, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			continue
		}
		if !fn(f.node, f.depth) || f.node.Kind != NodeSplit {
			continue
		}
		stack = append(stack, frame{f.node.Right, f.depth + 1}, frame{f.node.Left, f.depth + 1})
	}
}

// Depth returns the number of levels below and including n. An Empty root
// has depth 1.
func (n *LayoutNode) Depth() int {
	deepest := 0
	n.Walk(func(_ *LayoutNode, d int) bool {
		deepest = max(deepest, d+1)
		return true
	})
	return deepest
}

// AllPanels returns every panel id in the subtree, left to right.
func (n *LayoutNode) AllPanels() []PanelID {
	var out []PanelID
	n.Walk(func(node *LayoutNode, _ int) bool {
		if node.Kind == NodeTabs {
			out = append(out, node.Panels...)
		}
		return true
	})
	return out
}

// Find returns the Split or Tabs node with the given id.
func (n *LayoutNode) Find(id WidgetID) *LayoutNode {
	var found *LayoutNode
	n.Walk(func(node *LayoutNode, _ int) bool {
		if found != nil {
			return false
		}
		if node.Kind != NodeEmpty && node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindTabs returns the Tabs node with the given id.
func (n *LayoutNode) FindTabs(id TabID) *LayoutNode {
	if node := n.Find(id); node != nil && node.Kind == NodeTabs {
		return node
	}
	return nil
}

// FindSplit returns the Split node with the given id.
func (n *LayoutNode) FindSplit(id SplitID) *LayoutNode {
	if node := n.Find(id); node != nil && node.Kind == NodeSplit {
		return node
	}
	return nil
}

// FindPanel returns the Tabs node holding panel and its index there.
func (n *LayoutNode) FindPanel(panel PanelID) (*LayoutNode, int) {
	var tabs *LayoutNode
	idx := -1
	n.Walk(func(node *LayoutNode, _ int) bool {
		if tabs != nil {
			return false
		}
		if node.Kind == NodeTabs {
			for i, p := range node.Panels {
				if p == panel {
					tabs, idx = node, i
					return false
				}
			}
		}
		return true
	})
	return tabs, idx
}

// FirstTabs returns the leftmost Tabs node.
func (n *LayoutNode) FirstTabs() *LayoutNode {
	var first *LayoutNode
	n.Walk(func(node *LayoutNode, _ int) bool {
		if first != nil {
			return false
		}
		if node.Kind == NodeTabs {
			first = node
			return false
		}
		return true
	})
	return first
}

// removePanelAt removes the panel at index i of a Tabs node and fixes up the
// active index: removing before the active tab shifts it back, removing the
// active tab keeps the index unless it fell off the end.
func (n *LayoutNode) removePanelAt(i int) {
	n.Panels = append(n.Panels[:i], n.Panels[i+1:]...)
	switch {
	case len(n.Panels) == 0:
		n.ActiveTab = 0
	case i < n.ActiveTab:
		n.ActiveTab--
	case n.ActiveTab >= len(n.Panels):
		n.ActiveTab = len(n.Panels) - 1
	}
}

// insertPanelAt inserts panel at index i of a Tabs node (appending when i is
// out of range). The active tab shifts forward when i <= ActiveTab so the
// same panel stays active.
func (n *LayoutNode) insertPanelAt(i int, panel PanelID) int {
	if i < 0 || i > len(n.Panels) {
		i = len(n.Panels)
	}
	n.Panels = append(n.Panels, PanelID{})
	copy(n.Panels[i+1:], n.Panels[i:])
	n.Panels[i] = panel
	if len(n.Panels) > 1 && i <= n.ActiveTab {
		n.ActiveTab++
	}
	n.clampActive()
	return i
}

// Optimize prunes the subtree rooted at n in a single bottom-up pass and
// returns the new subtree root. Children are optimized before their parent
// is checked, so a collapse that makes the parent collapsible is handled in
// the same call. A Split with an Empty child is replaced by its other child
// and a Tabs node with no panels becomes Empty.
func Optimize(n *LayoutNode) *LayoutNode {
	if n == nil {
		return EmptyNode()
	}
	switch n.Kind {
	case NodeSplit:
		n.Left = Optimize(n.Left)
		n.Right = Optimize(n.Right)
		n.Ratio = ClampRatio(n.Ratio)
		if n.Left.Kind == NodeEmpty {
			return n.Right
		}
		if n.Right.Kind == NodeEmpty {
			return n.Left
		}
	case NodeTabs:
		if len(n.Panels) == 0 {
			return EmptyNode()
		}
		n.clampActive()
	}
	return n
}

// replaceNode swaps target for repl inside the tree rooted at root and
// returns the new root. target is compared by pointer.
func replaceNode(root, target, repl *LayoutNode) *LayoutNode {
	if root == target {
		return repl
	}
	root.Walk(func(node *LayoutNode, _ int) bool {
		if node.Kind != NodeSplit {
			return true
		}
		if node.Left == target {
			node.Left = repl
			return false
		}
		if node.Right == target {
			node.Right = repl
			return false
		}
		return true
	})
	return root
}

// CalculateBounds computes the rect of every Split and Tabs node for a tree
// laid out in window. Splits divide at their ratio with no gap; Empty nodes
// contribute nothing.
func CalculateBounds(root *LayoutNode, window Rect) LayoutBounds {
	out := make(LayoutBounds)
	type frame struct {
		node *LayoutNode
		r    Rect
	}
	stack := []frame{{root, window}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			continue
		}
		switch f.node.Kind {
		case NodeSplit:
			out[f.node.ID] = f.r
			var a, b Rect
			if f.node.Direction == Vertical {
				a, b = f.r.SplitVertical(f.node.Ratio)
			} else {
				a, b = f.r.SplitHorizontal(f.node.Ratio)
			}
			stack = append(stack, frame{f.node.Right, b}, frame{f.node.Left, a})
		case NodeTabs:
			out[f.node.ID] = f.r
		}
	}
	return out
}

// LayoutBounds maps each Split and Tabs id to its rect for one frame.
type LayoutBounds map[WidgetID]Rect
