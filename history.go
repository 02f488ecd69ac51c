package lumina

// History keeps undo and redo stacks of docking tree snapshots.
type History struct {
	Past   []*LayoutNode
	Future []*LayoutNode
	Limit  int
}

// Record pushes a snapshot taken before a mutation and clears the redo
// stack. The oldest entries are dropped beyond Limit.
func (h *History) Record(snapshot *LayoutNode) {
	if h == nil || snapshot == nil || h.Limit <= 0 {
		return
	}
	h.Past = append(h.Past, snapshot)
	h.Future = nil
	if len(h.Past) > h.Limit {
		h.Past = h.Past[len(h.Past)-h.Limit:]
	}
}

// Undo pops the most recent snapshot, pushing current onto the redo stack.
func (h *History) Undo(current *LayoutNode) (*LayoutNode, bool) {
	if h == nil || len(h.Past) == 0 {
		return nil, false
	}
	last := h.Past[len(h.Past)-1]
	h.Past = h.Past[:len(h.Past)-1]
	if current != nil {
		h.Future = append(h.Future, current.Clone())
	}
	return last.Clone(), true
}

// Redo reverses the last Undo.
func (h *History) Redo(current *LayoutNode) (*LayoutNode, bool) {
	if h == nil || len(h.Future) == 0 {
		return nil, false
	}
	next := h.Future[len(h.Future)-1]
	h.Future = h.Future[:len(h.Future)-1]
	if current != nil {
		h.Past = append(h.Past, current.Clone())
	}
	return next.Clone(), true
}

// SetLimit changes Limit and drops the oldest entries beyond it. A
// non-positive limit clears both stacks.
func (h *History) SetLimit(limit int) {
	if h == nil {
		return
	}
	h.Limit = limit
	if limit <= 0 {
		h.Clear()
		return
	}
	if len(h.Past) > limit {
		h.Past = h.Past[len(h.Past)-limit:]
	}
	if len(h.Future) > limit {
		h.Future = h.Future[len(h.Future)-limit:]
	}
}

// Clear drops both stacks.
func (h *History) Clear() {
	if h == nil {
		return
	}
	h.Past = nil
	h.Future = nil
}
