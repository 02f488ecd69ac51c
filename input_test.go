package lumina

import (
	"slices"
	"testing"
)

// fakeTree is a flat WidgetTree: later entries are on top.
type fakeTree struct {
	order   []*testWidget
	bounds  map[WidgetID]Rect
	parents map[WidgetID]WidgetID
}

func newFakeTree() *fakeTree {
	return &fakeTree{bounds: make(map[WidgetID]Rect), parents: make(map[WidgetID]WidgetID)}
}

func (t *fakeTree) add(w *testWidget, b Rect, parent *testWidget) *testWidget {
	t.order = append(t.order, w)
	t.bounds[w.ID()] = b
	if parent != nil {
		t.parents[w.ID()] = parent.ID()
	}
	return w
}

func (t *fakeTree) HitTest(p Vec2) (WidgetID, bool) {
	for i := len(t.order) - 1; i >= 0; i-- {
		id := t.order[i].ID()
		if t.bounds[id].ContainsPoint(p) {
			return id, true
		}
	}
	return WidgetID{}, false
}

func (t *fakeTree) Deliver(id WidgetID, ev InputEvent) InputResult {
	for _, w := range t.order {
		if w.ID() == id {
			return w.HandleInput(ev)
		}
	}
	return NotHandled
}

func (t *fakeTree) Parent(id WidgetID) (WidgetID, bool) {
	p, ok := t.parents[id]
	return p, ok
}

func (t *fakeTree) CanFocus(id WidgetID) bool {
	for _, w := range t.order {
		if w.ID() == id {
			return w.CanFocus()
		}
	}
	return false
}

// dispatchAll drains h's events through tree and starts the next frame.
func dispatchAll(h *InputHandler, tree WidgetTree) []InputEvent {
	events := h.Events()
	for _, ev := range events {
		h.Dispatch(ev, tree)
	}
	h.BeginFrame()
	return events
}

func eventTypes(events []InputEvent) []InputEventType {
	out := make([]InputEventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

// --- Edge detection ---

func TestKeyEdgeDetection(t *testing.T) {
	h := NewInputHandler()

	h.KeyPressed(KeyA)
	if !h.JustPressed(KeyA) || !h.IsKeyDown(KeyA) {
		t.Fatal("frame 1: A should be just pressed")
	}
	if got := eventTypes(h.Events()); !slices.Equal(got, []InputEventType{EventKeyDown}) {
		t.Fatalf("frame 1 events = %v", got)
	}

	// Held across five frames: no new KeyDown.
	for frame := 2; frame <= 6; frame++ {
		h.BeginFrame()
		h.KeyPressed(KeyA)
		if h.JustPressed(KeyA) {
			t.Errorf("frame %d: JustPressed while held", frame)
		}
		if evs := h.Events(); len(evs) != 0 {
			t.Errorf("frame %d: events %v while held", frame, eventTypes(evs))
		}
		held := h.HeldEvents()
		if len(held) != 1 || held[0].Type != EventKeyHeld || held[0].Key != KeyA {
			t.Errorf("frame %d: HeldEvents = %v", frame, held)
		}
	}

	h.BeginFrame()
	h.KeyReleased(KeyA)
	if !h.JustReleased(KeyA) || h.IsKeyDown(KeyA) {
		t.Error("release frame: A should be just released")
	}
	evs := h.Events()
	if len(evs) != 1 || evs[0].Type != EventKeyUp || evs[0].Key != KeyA {
		t.Errorf("release events = %v", evs)
	}

	h.BeginFrame()
	if h.JustReleased(KeyA) || len(h.Events()) != 0 {
		t.Error("frame after release should be quiet")
	}
}

func TestMouseEdgeDetection(t *testing.T) {
	h := NewInputHandler()
	h.MouseMoved(Vec2{10, 10})
	h.MousePressed(MouseButtonLeft)
	if !h.MouseJustPressed(MouseButtonLeft) {
		t.Error("left should be just pressed")
	}
	h.BeginFrame()
	h.MousePressed(MouseButtonLeft)
	if h.MouseJustPressed(MouseButtonLeft) || !h.IsMouseDown(MouseButtonLeft) {
		t.Error("held button misreported")
	}
	h.BeginFrame()
	h.MouseReleased(MouseButtonLeft)
	if !h.MouseJustReleased(MouseButtonLeft) {
		t.Error("left should be just released")
	}
	h.MousePressed(MouseButton(9))
	if h.IsMouseDown(MouseButton(9)) {
		t.Error("out of range button reported down")
	}
}

func TestEventsOrderAndClick(t *testing.T) {
	h := NewInputHandler()
	h.MouseMoved(Vec2{5, 5})
	h.MousePressed(MouseButtonLeft)
	h.KeyPressed(KeyB)
	h.TextEntered("b")
	h.Wheel(0, 2)

	want := []InputEventType{EventMouseMove, EventKeyDown, EventTextInput, EventMouseDown, EventMouseWheel}
	if got := eventTypes(h.Events()); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}

	h.BeginFrame()
	h.MouseMoved(Vec2{7, 7})
	h.MouseReleased(MouseButtonLeft)
	evs := h.Events()
	// B is still held, so no key events this frame.
	want = []InputEventType{EventMouseMove, EventMouseUp, EventMouseClick}
	if got := eventTypes(evs); !slices.Equal(got, want) {
		t.Fatalf("release events = %v, want %v", got, want)
	}
	if evs[0].Delta != (Vec2{2, 2}) {
		t.Errorf("move delta = %v, want {2 2}", evs[0].Delta)
	}
}

func TestClickSuppressedBeyondDeadZone(t *testing.T) {
	h := NewInputHandler()
	h.MouseMoved(Vec2{0, 0})
	h.MousePressed(MouseButtonLeft)
	h.BeginFrame()
	h.MouseMoved(Vec2{20, 0})
	h.MouseReleased(MouseButtonLeft)
	for _, ev := range h.Events() {
		if ev.Type == EventMouseClick {
			t.Fatal("click fired after a 20px drag")
		}
	}
}

// --- Hover ---

func TestHoverExitBeforeEnter(t *testing.T) {
	var log []string
	tree := newFakeTree()
	a := tree.add(newTestWidget("a", LayoutConstraints{}), Rect{0, 0, 50, 50}, nil)
	b := tree.add(newTestWidget("b", LayoutConstraints{}), Rect{60, 0, 50, 50}, nil)
	a.log, b.log = &log, &log

	h := NewInputHandler()
	h.MouseMoved(Vec2{10, 10})
	dispatchAll(h, tree)
	if h.Hovered() != a.ID() {
		t.Fatalf("hovered = %s, want a", h.Hovered().Short())
	}

	log = nil
	h.MouseMoved(Vec2{70, 10})
	dispatchAll(h, tree)
	want := []string{"a:MouseExit", "b:MouseEnter", "b:MouseMove"}
	if !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}

	log = nil
	h.MouseMoved(Vec2{200, 200})
	dispatchAll(h, tree)
	if !h.Hovered().IsZero() {
		t.Error("hover should clear over empty space")
	}
	if !slices.Equal(log, []string{"b:MouseExit"}) {
		t.Errorf("log = %v", log)
	}
}

func TestHoverTopmostWins(t *testing.T) {
	tree := newFakeTree()
	tree.add(newTestWidget("under", LayoutConstraints{}), Rect{0, 0, 100, 100}, nil)
	over := tree.add(newTestWidget("over", LayoutConstraints{}), Rect{0, 0, 100, 100}, nil)

	h := NewInputHandler()
	h.MouseMoved(Vec2{50, 50})
	dispatchAll(h, tree)
	if h.Hovered() != over.ID() {
		t.Errorf("hovered = %s, want the later sibling", h.Hovered().Short())
	}
}

// --- Focus ---

func TestClickFocusOrder(t *testing.T) {
	var log []string
	tree := newFakeTree()
	a := tree.add(newTestWidget("a", LayoutConstraints{}), Rect{0, 0, 50, 50}, nil)
	b := tree.add(newTestWidget("b", LayoutConstraints{}), Rect{60, 0, 50, 50}, nil)
	a.Focusable, b.Focusable = true, true
	a.log, b.log = &log, &log

	h := NewInputHandler()
	click := func(p Vec2) {
		h.MouseMoved(p)
		h.MousePressed(MouseButtonLeft)
		dispatchAll(h, tree)
		h.MouseReleased(MouseButtonLeft)
		dispatchAll(h, tree)
	}

	click(Vec2{10, 10})
	if h.Focused() != a.ID() {
		t.Fatalf("focused = %s, want a", h.Focused().Short())
	}

	log = nil
	click(Vec2{70, 10})
	if h.Focused() != b.ID() {
		t.Fatalf("focused = %s, want b", h.Focused().Short())
	}
	lost := slices.Index(log, "a:FocusLost")
	gained := slices.Index(log, "b:FocusGained")
	if lost < 0 || gained < 0 || lost > gained {
		t.Errorf("log = %v, want a:FocusLost before b:FocusGained", log)
	}
	if click := slices.Index(log, "b:MouseClick"); click < gained {
		t.Errorf("click delivered before focus moved: %v", log)
	}
}

func TestClickNonFocusableKeepsFocus(t *testing.T) {
	tree := newFakeTree()
	a := tree.add(newTestWidget("a", LayoutConstraints{}), Rect{0, 0, 50, 50}, nil)
	tree.add(newTestWidget("label", LayoutConstraints{}), Rect{60, 0, 50, 50}, nil)
	a.Focusable = true

	h := NewInputHandler()
	h.SetFocus(a.ID(), tree)

	for _, p := range []Vec2{{70, 10}, {300, 300}} {
		h.MouseMoved(p)
		h.MousePressed(MouseButtonLeft)
		dispatchAll(h, tree)
		h.MouseReleased(MouseButtonLeft)
		dispatchAll(h, tree)
		if h.Focused() != a.ID() {
			t.Errorf("click at %v moved focus to %s", p, h.Focused().Short())
		}
	}
}

func TestKeyEventsBubbleFromFocus(t *testing.T) {
	tree := newFakeTree()
	parent := tree.add(newTestWidget("parent", LayoutConstraints{}), Rect{0, 0, 100, 100}, nil)
	child := tree.add(newTestWidget("child", LayoutConstraints{}), Rect{10, 10, 20, 20}, parent)
	parent.result = Handled

	h := NewInputHandler()
	h.KeyPressed(KeyEnter)
	dispatchAll(h, tree)
	if len(child.events) != 0 || len(parent.events) != 0 {
		t.Fatal("key delivered without focus")
	}

	h.SetFocus(child.ID(), tree)
	child.events = nil
	h.KeyReleased(KeyEnter)
	h.KeyPressed(KeyX)
	dispatchAll(h, tree)
	if len(child.events) != 2 {
		t.Errorf("child events = %v", child.eventTypes())
	}
	if got := parent.eventTypes(); !slices.Equal(got, []InputEventType{EventKeyDown, EventKeyUp}) {
		t.Errorf("parent events = %v", got)
	}
}

func TestRequestFocusResult(t *testing.T) {
	tree := newFakeTree()
	w := tree.add(newTestWidget("w", LayoutConstraints{}), Rect{0, 0, 50, 50}, nil)
	w.results = map[InputEventType]InputResult{EventMouseDown: RequestFocus}

	h := NewInputHandler()
	h.MouseMoved(Vec2{5, 5})
	h.MousePressed(MouseButtonLeft)
	dispatchAll(h, tree)
	if h.Focused() != w.ID() {
		t.Error("RequestFocus did not focus the widget")
	}
}

// --- Capture ---

func TestPointerCapture(t *testing.T) {
	tree := newFakeTree()
	a := tree.add(newTestWidget("a", LayoutConstraints{}), Rect{0, 0, 50, 50}, nil)
	b := tree.add(newTestWidget("b", LayoutConstraints{}), Rect{60, 0, 50, 50}, nil)
	a.results = map[InputEventType]InputResult{EventMouseDown: CaptureInput}

	h := NewInputHandler()
	h.MouseMoved(Vec2{10, 10})
	h.MousePressed(MouseButtonLeft)
	dispatchAll(h, tree)
	if h.Captured() != a.ID() {
		t.Fatal("capture not taken")
	}

	a.events, b.events = nil, nil
	h.MouseMoved(Vec2{80, 10})
	dispatchAll(h, tree)
	if !slices.Contains(a.eventTypes(), EventMouseMove) {
		t.Errorf("captured widget missed move: %v", a.eventTypes())
	}
	if slices.Contains(b.eventTypes(), EventMouseMove) {
		t.Error("move leaked to widget under pointer")
	}
	if h.Hovered() != b.ID() {
		t.Error("hover should still track the pointer during capture")
	}

	h.MouseReleased(MouseButtonLeft)
	dispatchAll(h, tree)
	if !h.Captured().IsZero() {
		t.Error("capture survived mouse up")
	}
	if !slices.Contains(a.eventTypes(), EventMouseUp) {
		t.Error("captured widget missed mouse up")
	}
}

func TestReleaseCaptureResult(t *testing.T) {
	tree := newFakeTree()
	a := tree.add(newTestWidget("a", LayoutConstraints{}), Rect{0, 0, 50, 50}, nil)
	a.results = map[InputEventType]InputResult{
		EventMouseDown: CaptureInput,
		EventMouseMove: ReleaseCapture,
	}
	h := NewInputHandler()
	h.MouseMoved(Vec2{10, 10})
	h.MousePressed(MouseButtonLeft)
	dispatchAll(h, tree)
	h.MousePressed(MouseButtonLeft)
	h.MouseMoved(Vec2{12, 10})
	dispatchAll(h, tree)
	if !h.Captured().IsZero() {
		t.Error("ReleaseCapture ignored")
	}
}

func TestForget(t *testing.T) {
	tree := newFakeTree()
	a := tree.add(newTestWidget("a", LayoutConstraints{}), Rect{0, 0, 50, 50}, nil)
	a.Focusable = true
	h := NewInputHandler()
	h.MouseMoved(Vec2{1, 1})
	dispatchAll(h, tree)
	h.SetFocus(a.ID(), tree)
	h.Forget(a.ID())
	if !h.Hovered().IsZero() || !h.Focused().IsZero() {
		t.Error("Forget left state behind")
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	var reg handlerRegistry
	var calls int
	h1 := reg.add(EventKeyDown, func(InputEvent) { calls++ })
	reg.add(EventKeyDown, func(InputEvent) { calls += 10 })
	reg.fire(InputEvent{Type: EventKeyDown})
	if calls != 11 {
		t.Fatalf("calls = %d, want 11", calls)
	}
	h1.Remove()
	h1.Remove()
	reg.fire(InputEvent{Type: EventKeyDown})
	if calls != 21 {
		t.Errorf("calls = %d, want 21 after removal", calls)
	}
	reg.fire(InputEvent{Type: EventKeyUp})
	if calls != 21 {
		t.Error("handler fired for another type")
	}
}

func TestInputEventTypeString(t *testing.T) {
	if EventMouseClick.String() != "MouseClick" || InputEventType(200).String() != "Unknown" {
		t.Errorf("got %q %q", EventMouseClick, InputEventType(200))
	}
	if !EventMouseWheel.IsMouse() || EventMouseEnter.IsMouse() || EventKeyDown.IsMouse() {
		t.Error("IsMouse misclassified")
	}
}
