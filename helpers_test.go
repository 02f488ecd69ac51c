package lumina

import "fmt"

// recordingRenderer records every draw call as a string.
type recordingRenderer struct {
	calls  []string
	rects  []Rect
	texts  []string
	frames int
}

func (r *recordingRenderer) BeginFrame() { r.frames++ }
func (r *recordingRenderer) EndFrame()   {}

func (r *recordingRenderer) DrawRect(b Rect, c Color) {
	r.rects = append(r.rects, b)
	r.calls = append(r.calls, fmt.Sprintf("rect %v", b))
}

func (r *recordingRenderer) DrawText(s string, pos Vec2, font string, size float64, c Color) {
	r.texts = append(r.texts, s)
	r.calls = append(r.calls, "text "+s)
}

func (r *recordingRenderer) reset() {
	r.calls, r.rects, r.texts = nil, nil, nil
}

// shotRenderer is a recordingRenderer that accepts screenshot requests.
type shotRenderer struct {
	recordingRenderer
	shots []string
}

func (r *shotRenderer) QueueScreenshot(label string) { r.shots = append(r.shots, label) }

// testWidget records the events it receives and answers with result.
type testWidget struct {
	BaseWidget
	name     string
	result   InputResult
	results  map[InputEventType]InputResult
	events   []InputEvent
	rendered []Rect
	log      *[]string
}

func newTestWidget(name string, c LayoutConstraints) *testWidget {
	w := &testWidget{BaseWidget: NewBaseWidget(WidgetIDFromName(name)), name: name}
	w.Sizing = c
	return w
}

func (w *testWidget) HandleInput(ev InputEvent) InputResult {
	w.events = append(w.events, ev)
	if w.log != nil {
		*w.log = append(*w.log, w.name+":"+ev.Type.String())
	}
	if r, ok := w.results[ev.Type]; ok {
		return r
	}
	return w.result
}

func (w *testWidget) Render(r Renderer, b Rect) error {
	w.rendered = append(w.rendered, b)
	if w.log != nil {
		*w.log = append(*w.log, "render:"+w.name)
	}
	return nil
}

func (w *testWidget) eventTypes() []InputEventType {
	out := make([]InputEventType, len(w.events))
	for i, ev := range w.events {
		out[i] = ev.Type
	}
	return out
}

// fixed returns constraints with a fixed size.
func fixed(w, h float64) LayoutConstraints {
	return LayoutConstraints{Width: Px(w), Height: Px(h)}
}

// testPanel records input and context menu calls.
type testPanel struct {
	BasePanel
	inputs   []InputEvent
	menu     []string
	consume  bool
	rendered int
}

func newTestPanel(name string) *testPanel {
	return &testPanel{BasePanel: NewBasePanel(name, name)}
}

func (p *testPanel) HandleInput(ev InputEvent) bool {
	p.inputs = append(p.inputs, ev)
	return p.consume
}

func (p *testPanel) Render(r Renderer, b Rect) error {
	p.rendered++
	r.DrawText(p.Title(), Vec2{b.X, b.Y}, "default", 13, ColorWhite)
	return nil
}

func (p *testPanel) ContextMenuItems() []ContextMenuItem {
	return []ContextMenuItem{{ID: "test.ping", Label: "Ping"}}
}

func (p *testPanel) HandleContextMenu(id string) { p.menu = append(p.menu, id) }

// recordingStore collects emitted UI events.
type recordingStore struct {
	events []UIEvent
}

func (s *recordingStore) EmitEvent(ev UIEvent) { s.events = append(s.events, ev) }

func (s *recordingStore) kinds() []UIEventKind {
	out := make([]UIEventKind, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Kind
	}
	return out
}
