package lumina

import "slices"

// --- Constants ---

// DefaultDragDeadZone is the distance in pixels the pointer may travel between
// press and release and still produce a MouseClick. Drags use the same value.
const DefaultDragDeadZone = 4.0

// --- Keys ---

// Key identifies a keyboard key. Letters and digits use their uppercase ASCII
// code; everything else starts at 128.
type Key int

const KeyUnknown Key = 0

const KeySpace Key = ' '

// Digits map to their ASCII codes.
const (
	Key0 Key = '0' + iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// Letters map to their upper-case ASCII codes.
const (
	KeyA Key = 'A' + iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

const (
	KeyEnter Key = 128 + iota
	KeyEscape
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyShift
	KeyControl
	KeyAlt
	KeyMeta
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// --- Events ---

// InputEventType identifies a semantic input event.
type InputEventType uint8

const (
	EventKeyDown     InputEventType = iota // key went down this frame
	EventKeyUp                             // key went up this frame
	EventKeyHeld                           // key is still down; generated on demand by HeldEvents
	EventTextInput                         // text typed this frame
	EventMouseDown                         // button went down over a widget
	EventMouseUp                           // button went up
	EventMouseClick                        // press and release without leaving the dead zone
	EventMouseMove                         // pointer moved; Delta holds the movement
	EventMouseWheel                        // wheel scrolled; Delta holds the offset
	EventMouseEnter                        // pointer entered a widget's bounds
	EventMouseExit                         // pointer left a widget's bounds
	EventFocusGained                       // widget became focused
	EventFocusLost                         // widget lost focus
)

var eventTypeNames = [...]string{
	"KeyDown", "KeyUp", "KeyHeld", "TextInput",
	"MouseDown", "MouseUp", "MouseClick", "MouseMove", "MouseWheel",
	"MouseEnter", "MouseExit", "FocusGained", "FocusLost",
}

func (t InputEventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "Unknown"
}

// IsMouse reports whether t is a pointer event routed by position.
func (t InputEventType) IsMouse() bool {
	return t >= EventMouseDown && t <= EventMouseWheel
}

// InputEvent is a translated platform event. Fields irrelevant to Type are
// left zero.
type InputEvent struct {
	Type      InputEventType
	Key       Key
	Modifiers KeyModifiers
	Text      string
	Button    MouseButton
	Position  Vec2
	Delta     Vec2
	// Target is the widget the event is being delivered to.
	Target WidgetID
}

// InputResult is a widget's answer to an event. The zero value is NotHandled.
type InputResult uint8

const (
	NotHandled     InputResult = iota // continue to the next candidate
	Handled                           // stop propagation
	RequestFocus                      // stop propagation and focus the widget
	CaptureInput                      // stop propagation and route pointer events here until released
	ReleaseCapture                    // stop propagation and end pointer capture
)

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(InputEvent)
}

type handlerRegistry struct {
	byType map[InputEventType][]eventHandler
	nextID uint32
}

func (r *handlerRegistry) add(t InputEventType, fn func(InputEvent)) CallbackHandle {
	if r.byType == nil {
		r.byType = make(map[InputEventType][]eventHandler)
	}
	r.nextID++
	r.byType[t] = append(r.byType[t], eventHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, event: t}
}

func (r *handlerRegistry) fire(ev InputEvent) {
	for _, h := range r.byType[ev.Type] {
		h.fn(ev)
	}
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event InputEventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.byType[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			h.reg.byType[h.event] = s[:len(s)-1]
			return
		}
	}
}

// --- Widget tree view ---

// WidgetTree is the view of the widget hierarchy the dispatcher needs. The
// framework implements it over its arena and previous-frame bounds.
type WidgetTree interface {
	// HitTest returns the deepest widget whose bounds contain p.
	HitTest(p Vec2) (WidgetID, bool)
	// Deliver hands ev to the widget. Unknown ids return NotHandled.
	Deliver(id WidgetID, ev InputEvent) InputResult
	Parent(id WidgetID) (WidgetID, bool)
	CanFocus(id WidgetID) bool
}

// --- InputHandler ---

// InputHandler turns per-frame key and button state into semantic events and
// owns hover, focus and pointer capture.
//
// A frame looks like: BeginFrame, then the platform layer reports state with
// KeyPressed/KeyReleased/MousePressed/MouseReleased/MouseMoved, then Events is
// drained through Dispatch. Holding a key produces exactly one KeyDown;
// KeyHeld only comes from HeldEvents.
type InputHandler struct {
	keys     map[Key]bool
	prevKeys map[Key]bool

	buttons     [mouseButtonCount]bool
	prevButtons [mouseButtonCount]bool
	pressPos    [mouseButtonCount]Vec2

	mouse      Vec2
	prevMouse  Vec2
	mouseMoved bool

	mods  KeyModifiers
	text  string
	wheel Vec2

	hovered  WidgetID
	focused  WidgetID
	captured WidgetID

	dragDeadZone float64
}

// NewInputHandler returns a handler with no keys down and nothing hovered.
func NewInputHandler() *InputHandler {
	return &InputHandler{
		keys:         make(map[Key]bool),
		prevKeys:     make(map[Key]bool),
		dragDeadZone: DefaultDragDeadZone,
	}
}

// SetDragDeadZone sets the maximum press-to-release travel of a click.
func (h *InputHandler) SetDragDeadZone(pixels float64) {
	h.dragDeadZone = pixels
}

// BeginFrame snapshots the current state as the previous frame's and clears
// per-frame accumulators. Call it before reporting a new frame's state.
func (h *InputHandler) BeginFrame() {
	clear(h.prevKeys)
	for k, down := range h.keys {
		if down {
			h.prevKeys[k] = true
		}
	}
	h.prevButtons = h.buttons
	h.prevMouse = h.mouse
	h.mouseMoved = false
	h.text = ""
	h.wheel = Vec2{}
}

// KeyPressed records k as down this frame.
func (h *InputHandler) KeyPressed(k Key) { h.keys[k] = true }

// KeyReleased records k as up this frame.
func (h *InputHandler) KeyReleased(k Key) { delete(h.keys, k) }

// MousePressed records b as down at the current pointer position.
func (h *InputHandler) MousePressed(b MouseButton) {
	if b >= mouseButtonCount {
		return
	}
	if !h.buttons[b] {
		h.pressPos[b] = h.mouse
	}
	h.buttons[b] = true
}

// MouseReleased records b as up.
func (h *InputHandler) MouseReleased(b MouseButton) {
	if b < mouseButtonCount {
		h.buttons[b] = false
	}
}

// MouseMoved records the pointer position.
func (h *InputHandler) MouseMoved(p Vec2) {
	if p != h.mouse {
		h.mouse = p
		h.mouseMoved = true
	}
}

// TextEntered appends typed text for this frame.
func (h *InputHandler) TextEntered(s string) { h.text += s }

// Wheel accumulates wheel movement for this frame.
func (h *InputHandler) Wheel(dx, dy float64) {
	h.wheel.X += dx
	h.wheel.Y += dy
}

// SetModifiers records the modifier keys held this frame.
func (h *InputHandler) SetModifiers(m KeyModifiers) { h.mods = m }

// IsKeyDown reports whether k is down this frame.
func (h *InputHandler) IsKeyDown(k Key) bool { return h.keys[k] }

// JustPressed reports whether k went down this frame.
func (h *InputHandler) JustPressed(k Key) bool { return h.keys[k] && !h.prevKeys[k] }

// JustReleased reports whether k went up this frame.
func (h *InputHandler) JustReleased(k Key) bool { return !h.keys[k] && h.prevKeys[k] }

// IsMouseDown reports whether b is down this frame.
func (h *InputHandler) IsMouseDown(b MouseButton) bool {
	return b < mouseButtonCount && h.buttons[b]
}

// MouseJustPressed reports whether b went down this frame.
func (h *InputHandler) MouseJustPressed(b MouseButton) bool {
	return b < mouseButtonCount && h.buttons[b] && !h.prevButtons[b]
}

// MouseJustReleased reports whether b went up this frame.
func (h *InputHandler) MouseJustReleased(b MouseButton) bool {
	return b < mouseButtonCount && !h.buttons[b] && h.prevButtons[b]
}

// MousePosition returns the last reported pointer position.
func (h *InputHandler) MousePosition() Vec2 { return h.mouse }

// Modifiers returns the modifier keys held this frame.
func (h *InputHandler) Modifiers() KeyModifiers { return h.mods }

// Hovered returns the hovered widget, or the zero id.
func (h *InputHandler) Hovered() WidgetID { return h.hovered }

// Focused returns the focused widget, or the zero id.
func (h *InputHandler) Focused() WidgetID { return h.focused }

// Captured returns the widget holding pointer capture, or the zero id.
func (h *InputHandler) Captured() WidgetID { return h.captured }

// Events returns the semantic events implied by this frame's transitions.
// Pointer movement comes first so hover is current before presses are
// routed; MouseClick follows MouseUp.
func (h *InputHandler) Events() []InputEvent {
	var out []InputEvent
	if h.mouseMoved {
		out = append(out, InputEvent{
			Type:      EventMouseMove,
			Position:  h.mouse,
			Delta:     h.mouse.Sub(h.prevMouse),
			Modifiers: h.mods,
		})
	}

	for _, k := range sortedKeys(h.keys) {
		if !h.prevKeys[k] {
			out = append(out, InputEvent{Type: EventKeyDown, Key: k, Modifiers: h.mods})
		}
	}
	for _, k := range sortedKeys(h.prevKeys) {
		if !h.keys[k] {
			out = append(out, InputEvent{Type: EventKeyUp, Key: k, Modifiers: h.mods})
		}
	}
	if h.text != "" {
		out = append(out, InputEvent{Type: EventTextInput, Text: h.text, Modifiers: h.mods})
	}

	for b := MouseButton(0); b < mouseButtonCount; b++ {
		switch {
		case h.buttons[b] && !h.prevButtons[b]:
			out = append(out, InputEvent{Type: EventMouseDown, Button: b, Position: h.mouse, Modifiers: h.mods})
		case !h.buttons[b] && h.prevButtons[b]:
			out = append(out, InputEvent{Type: EventMouseUp, Button: b, Position: h.mouse, Modifiers: h.mods})
			if h.mouse.Sub(h.pressPos[b]).Len() <= h.dragDeadZone {
				out = append(out, InputEvent{Type: EventMouseClick, Button: b, Position: h.mouse, Modifiers: h.mods})
			}
		}
	}

	if h.wheel != (Vec2{}) {
		out = append(out, InputEvent{Type: EventMouseWheel, Position: h.mouse, Delta: h.wheel, Modifiers: h.mods})
	}
	return out
}

// HeldEvents returns one KeyHeld per key that was already down last frame
// and is still down.
func (h *InputHandler) HeldEvents() []InputEvent {
	var out []InputEvent
	for _, k := range sortedKeys(h.keys) {
		if h.prevKeys[k] {
			out = append(out, InputEvent{Type: EventKeyHeld, Key: k, Modifiers: h.mods})
		}
	}
	return out
}

func sortedKeys(m map[Key]bool) []Key {
	keys := make([]Key, 0, len(m))
	for k, down := range m {
		if down {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// --- Dispatch ---

// Dispatch routes ev through tree and updates hover, focus and capture.
// It returns the result of the widget that stopped propagation, or
// NotHandled.
func (h *InputHandler) Dispatch(ev InputEvent, tree WidgetTree) InputResult {
	switch ev.Type {
	case EventMouseMove, EventMouseDown, EventMouseWheel:
		h.updateHover(ev.Position, tree)
		return h.routePointer(ev, tree)

	case EventMouseUp:
		res := h.routePointer(ev, tree)
		if !h.anyButtonDown() {
			h.captured = WidgetID{}
		}
		return res

	case EventMouseClick:
		// Re-resolve against current bounds; only focusable widgets take focus
		// and clicking anything else keeps the existing focus.
		if id, ok := tree.HitTest(ev.Position); ok && tree.CanFocus(id) {
			h.SetFocus(id, tree)
		}
		return h.routePointer(ev, tree)

	case EventKeyDown, EventKeyUp, EventKeyHeld, EventTextInput:
		if h.focused.IsZero() {
			return NotHandled
		}
		return h.bubble(h.focused, ev, tree)

	case EventMouseEnter, EventMouseExit, EventFocusGained, EventFocusLost:
		// Synthesized by the handler itself; delivered as-is.
		if ev.Target.IsZero() {
			return NotHandled
		}
		return h.apply(ev.Target, tree.Deliver(ev.Target, ev), tree)
	}
	return NotHandled
}

func (h *InputHandler) anyButtonDown() bool {
	for _, down := range h.buttons {
		if down {
			return true
		}
	}
	return false
}

// routePointer delivers a pointer event to the capturing widget, or to the
// hit widget and its ancestors.
func (h *InputHandler) routePointer(ev InputEvent, tree WidgetTree) InputResult {
	if !h.captured.IsZero() {
		ev.Target = h.captured
		return h.apply(h.captured, tree.Deliver(h.captured, ev), tree)
	}
	id, ok := tree.HitTest(ev.Position)
	if !ok {
		return NotHandled
	}
	return h.bubble(id, ev, tree)
}

// bubble delivers ev to id and then to each ancestor while the result is
// NotHandled.
func (h *InputHandler) bubble(id WidgetID, ev InputEvent, tree WidgetTree) InputResult {
	for {
		ev.Target = id
		if res := tree.Deliver(id, ev); res != NotHandled {
			return h.apply(id, res, tree)
		}
		parent, ok := tree.Parent(id)
		if !ok {
			return NotHandled
		}
		id = parent
	}
}

func (h *InputHandler) apply(id WidgetID, res InputResult, tree WidgetTree) InputResult {
	switch res {
	case RequestFocus:
		h.SetFocus(id, tree)
	case CaptureInput:
		h.captured = id
	case ReleaseCapture:
		if h.captured == id {
			h.captured = WidgetID{}
		}
	}
	return res
}

// updateHover resolves the hovered widget at p. When it changes the old
// widget receives MouseExit before the new one receives MouseEnter.
func (h *InputHandler) updateHover(p Vec2, tree WidgetTree) {
	next, _ := tree.HitTest(p)
	if next == h.hovered {
		return
	}
	prev := h.hovered
	h.hovered = next
	if !prev.IsZero() {
		tree.Deliver(prev, InputEvent{Type: EventMouseExit, Position: p, Target: prev, Modifiers: h.mods})
	}
	if !next.IsZero() {
		tree.Deliver(next, InputEvent{Type: EventMouseEnter, Position: p, Target: next, Modifiers: h.mods})
	}
}

// SetFocus moves focus to id. The previously focused widget receives
// FocusLost before id receives FocusGained. A zero id clears focus.
func (h *InputHandler) SetFocus(id WidgetID, tree WidgetTree) {
	if id == h.focused {
		return
	}
	prev := h.focused
	h.focused = id
	if !prev.IsZero() {
		tree.Deliver(prev, InputEvent{Type: EventFocusLost, Target: prev})
	}
	if !id.IsZero() {
		tree.Deliver(id, InputEvent{Type: EventFocusGained, Target: id})
	}
}

// Forget drops any hover, focus or capture held by id without delivering
// events. The framework calls it when a widget is removed.
func (h *InputHandler) Forget(id WidgetID) {
	if h.hovered == id {
		h.hovered = WidgetID{}
	}
	if h.focused == id {
		h.focused = WidgetID{}
	}
	if h.captured == id {
		h.captured = WidgetID{}
	}
}
