package lumina

// syntheticEvent is one frame's worth of injected input: a pointer state,
// a key tap or typed text.
type syntheticEvent struct {
	kind    syntheticKind
	pos     Vec2
	pressed bool
	button  MouseButton
	key     Key
	text    string
}

type syntheticKind uint8

const (
	syntheticPointer syntheticKind = iota
	syntheticKeyDown
	syntheticKeyUp
	syntheticText
)

// InjectPress queues a left-button press at (x, y). Injected events are
// consumed one per frame, before the input pass.
func (f *Framework) InjectPress(x, y float64) {
	f.injectQueue = append(f.injectQueue, syntheticEvent{pos: Vec2{x, y}, pressed: true})
}

// InjectMove queues a pointer move to (x, y) with the button held. Use it
// between InjectPress and InjectRelease to simulate a drag.
func (f *Framework) InjectMove(x, y float64) {
	f.injectQueue = append(f.injectQueue, syntheticEvent{pos: Vec2{x, y}, pressed: true})
}

// InjectHover queues a pointer move to (x, y) with no button held.
func (f *Framework) InjectHover(x, y float64) {
	f.injectQueue = append(f.injectQueue, syntheticEvent{pos: Vec2{x, y}})
}

// InjectRelease queues a left-button release at (x, y).
func (f *Framework) InjectRelease(x, y float64) {
	f.injectQueue = append(f.injectQueue, syntheticEvent{pos: Vec2{x, y}})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (f *Framework) InjectClick(x, y float64) {
	f.InjectPress(x, y)
	f.InjectRelease(x, y)
}

// InjectDrag queues a press at from, linearly interpolated moves and a
// release at to. The sequence consumes frames frames, minimum 2.
func (f *Framework) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	f.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		f.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	f.InjectRelease(toX, toY)
}

// InjectKey queues a key press and release. Consumes two frames.
func (f *Framework) InjectKey(k Key) {
	f.injectQueue = append(f.injectQueue,
		syntheticEvent{kind: syntheticKeyDown, key: k},
		syntheticEvent{kind: syntheticKeyUp, key: k},
	)
}

// InjectText queues typed text. Consumes one frame.
func (f *Framework) InjectText(s string) {
	f.injectQueue = append(f.injectQueue, syntheticEvent{kind: syntheticText, text: s})
}

// HasInjectedInput reports whether injected events are pending. The platform
// layer skips real pointer input while this is true.
func (f *Framework) HasInjectedInput() bool { return len(f.injectQueue) > 0 }

// processInjected pops one injected event and reports it to the input
// handler as if the platform had.
func (f *Framework) processInjected() bool {
	if len(f.injectQueue) == 0 {
		return false
	}
	ev := f.injectQueue[0]
	copy(f.injectQueue, f.injectQueue[1:])
	f.injectQueue = f.injectQueue[:len(f.injectQueue)-1]

	h := f.input
	switch ev.kind {
	case syntheticPointer:
		h.MouseMoved(ev.pos)
		if ev.pressed {
			h.MousePressed(ev.button)
		} else {
			h.MouseReleased(ev.button)
		}
	case syntheticKeyDown:
		h.KeyPressed(ev.key)
	case syntheticKeyUp:
		h.KeyReleased(ev.key)
	case syntheticText:
		h.TextEntered(ev.text)
	}
	return true
}
