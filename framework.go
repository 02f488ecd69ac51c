package lumina

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// DirtyReporter is implemented by widgets that change appearance outside
// the framework's own methods, such as the DockingManager. The framework
// polls it every frame.
type DirtyReporter interface {
	TakeDirty() bool
}

// Updater is implemented by widgets that animate. Framework.Update calls it
// once per tick.
type Updater interface {
	Update(dt float32)
}

// Framework owns the widget arena and drives the per-frame cycle:
//
//  1. layout: every root is resolved against the window and children
//     against their parent's content size, producing this frame's bounds;
//  2. input: queued events are dispatched, hit-testing against the previous
//     frame's bounds;
//  3. render: widgets draw depth-first, parents before children, with this
//     frame's bounds. The pass is skipped when nothing is dirty.
//
// The dirty flag is set by the framework's own mutations, focus and hover
// changes, handled input and DirtyReporter widgets. State changed behind the
// framework's back is not seen until something else marks it dirty.
type Framework struct {
	widgets  map[WidgetID]Widget
	roots    []WidgetID
	children map[WidgetID][]WidgetID
	parents  map[WidgetID]WidgetID

	cache     *LayoutCache
	layout    map[WidgetID]LayoutResult
	hitLayout map[WidgetID]LayoutResult

	input       *InputHandler
	handlers    handlerRegistry
	queued      []InputEvent
	heldEvents  bool
	lastHandled WidgetID
	dispatching bool
	deferred    []func()

	window      Rect
	needsRender bool
	onUpdate    []func(dt float32)

	injectQueue []syntheticEvent
	runner      *ScriptRunner
	screenshots []string

	store EventStore
	debug bool
	stats FrameStats
}

// NewFramework returns an empty framework.
func NewFramework() *Framework {
	return &Framework{
		widgets:     make(map[WidgetID]Widget),
		children:    make(map[WidgetID][]WidgetID),
		parents:     make(map[WidgetID]WidgetID),
		cache:       NewLayoutCache(),
		layout:      make(map[WidgetID]LayoutResult),
		hitLayout:   make(map[WidgetID]LayoutResult),
		input:       NewInputHandler(),
		needsRender: true,
	}
}

// Input returns the input handler the platform layer reports state to.
func (f *Framework) Input() *InputHandler { return f.input }

// LayoutCache returns the framework's constraint cache.
func (f *Framework) LayoutCache() *LayoutCache { return f.cache }

// SetEventStore sets the optional ECS bridge.
func (f *Framework) SetEventStore(store EventStore) { f.store = store }

// SetDebugMode enables per-frame timing logs and tree depth warnings.
func (f *Framework) SetDebugMode(enabled bool) { f.debug = enabled }

// SetKeyHeldEvents makes every frame dispatch a KeyHeld event for each key
// held since the previous frame.
func (f *Framework) SetKeyHeldEvents(enabled bool) { f.heldEvents = enabled }

// OnEvent registers a callback fired once for every dispatched event of type
// t. Target is the widget that handled the event, or zero.
func (f *Framework) OnEvent(t InputEventType, fn func(InputEvent)) CallbackHandle {
	return f.handlers.add(t, fn)
}

// --- Arena ---

// AddRoot adds w as a top-level widget laid out against the window. Later
// roots are on top for hit-testing.
func (f *Framework) AddRoot(w Widget) error {
	if err := f.register(w); err != nil {
		return err
	}
	f.roots = append(f.roots, w.ID())
	return nil
}

// AddChild adds w under parent.
func (f *Framework) AddChild(parent WidgetID, w Widget) error {
	if _, ok := f.widgets[parent]; !ok {
		return fmt.Errorf("lumina: add child to %s: %w", parent.Short(), ErrWidgetNotFound)
	}
	if err := f.register(w); err != nil {
		return err
	}
	f.children[parent] = append(f.children[parent], w.ID())
	f.parents[w.ID()] = parent
	if f.debug {
		f.debugCheckDepth(w.ID())
	}
	return nil
}

func (f *Framework) register(w Widget) error {
	id := w.ID()
	if id.IsZero() {
		return fmt.Errorf("lumina: add widget: zero id")
	}
	if _, ok := f.widgets[id]; ok {
		return fmt.Errorf("lumina: add widget %s: already present", id.Short())
	}
	if a, ok := w.(cacheAttacher); ok {
		a.attachCache(f.cache)
	}
	f.widgets[id] = w
	f.cache.Invalidate()
	f.needsRender = true
	return nil
}

// Remove removes id and its whole subtree. Called while input is being
// dispatched, the removal is deferred to the end of the input pass.
func (f *Framework) Remove(id WidgetID) error {
	if _, ok := f.widgets[id]; !ok {
		return fmt.Errorf("lumina: remove widget %s: %w", id.Short(), ErrWidgetNotFound)
	}
	if f.dispatching {
		f.Defer(func() { f.remove(id) })
		return nil
	}
	f.remove(id)
	return nil
}

func (f *Framework) remove(id WidgetID) {
	if _, ok := f.widgets[id]; !ok {
		return
	}
	if parent, ok := f.parents[id]; ok {
		f.children[parent] = slices.DeleteFunc(f.children[parent], func(c WidgetID) bool { return c == id })
	} else {
		f.roots = slices.DeleteFunc(f.roots, func(c WidgetID) bool { return c == id })
	}
	stack := []WidgetID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, f.children[cur]...)
		if f.input.Focused() == cur {
			f.emit(UIEvent{Kind: UIEventFocusChanged})
		}
		f.input.Forget(cur)
		delete(f.widgets, cur)
		delete(f.children, cur)
		delete(f.parents, cur)
		delete(f.layout, cur)
		delete(f.hitLayout, cur)
	}
	f.cache.Invalidate()
	f.needsRender = true
}

// Widget returns the widget with id.
func (f *Framework) Widget(id WidgetID) (Widget, bool) {
	w, ok := f.widgets[id]
	return w, ok
}

// Roots returns the root ids in insertion order.
func (f *Framework) Roots() []WidgetID { return slices.Clone(f.roots) }

// Children returns the children of id in insertion order.
func (f *Framework) Children(id WidgetID) []WidgetID { return slices.Clone(f.children[id]) }

// Parent returns the parent of id. Roots have none.
func (f *Framework) Parent(id WidgetID) (WidgetID, bool) {
	p, ok := f.parents[id]
	return p, ok
}

// Len returns the number of widgets.
func (f *Framework) Len() int { return len(f.widgets) }

// Bounds returns the absolute bounds of id from the last completed frame.
func (f *Framework) Bounds(id WidgetID) (Rect, bool) {
	r, ok := f.hitLayout[id]
	return r.Bounds, ok
}

// LayoutResult returns the layout of id from the last completed frame.
func (f *Framework) LayoutResult(id WidgetID) (LayoutResult, bool) {
	r, ok := f.hitLayout[id]
	return r, ok
}

// --- Focus and dirty state ---

// Focused returns the focused widget, or the zero id.
func (f *Framework) Focused() WidgetID { return f.input.Focused() }

// Hovered returns the hovered widget, or the zero id.
func (f *Framework) Hovered() WidgetID { return f.input.Hovered() }

// SetFocus focuses id. The previous focus holder receives FocusLost first.
func (f *Framework) SetFocus(id WidgetID) error {
	if _, ok := f.widgets[id]; !ok {
		return fmt.Errorf("lumina: focus %s: %w", id.Short(), ErrWidgetNotFound)
	}
	f.changeFocus(id)
	return nil
}

// Blur clears focus.
func (f *Framework) Blur() { f.changeFocus(WidgetID{}) }

func (f *Framework) changeFocus(id WidgetID) {
	if f.input.Focused() == id {
		return
	}
	f.input.SetFocus(id, f)
	f.needsRender = true
	f.emit(UIEvent{Kind: UIEventFocusChanged, Widget: id})
}

// MarkDirty forces the next frame to render.
func (f *Framework) MarkDirty() { f.needsRender = true }

// NeedsRender reports whether the next frame will render.
func (f *Framework) NeedsRender() bool { return f.needsRender }

// Defer queues fn to run after the current input pass. Widgets use it to
// mutate the arena from inside HandleInput.
func (f *Framework) Defer(fn func()) {
	f.deferred = append(f.deferred, fn)
}

func (f *Framework) flushDeferred() {
	for len(f.deferred) > 0 {
		fns := f.deferred
		f.deferred = nil
		for _, fn := range fns {
			fn()
		}
	}
}

// QueueEvent queues a translated event for the next input pass, after the
// events derived from the input handler's state.
func (f *Framework) QueueEvent(ev InputEvent) {
	f.queued = append(f.queued, ev)
}

func (f *Framework) emit(ev UIEvent) {
	if f.store != nil {
		f.store.EmitEvent(ev)
	}
}

// --- Frame ---

// OnUpdate registers fn to run at the start of every Update, before the
// widgets are advanced. Use it for per-tick work that is not a widget.
func (f *Framework) OnUpdate(fn func(dt float32)) {
	f.onUpdate = append(f.onUpdate, fn)
}

// Update runs the OnUpdate hooks, then advances every Updater widget by dt
// seconds.
func (f *Framework) Update(dt float32) {
	for _, fn := range f.onUpdate {
		fn(dt)
	}
	for _, id := range f.order() {
		if u, ok := f.widgets[id].(Updater); ok {
			u.Update(dt)
		}
	}
}

// Frame runs one layout, input and render cycle for window. Render errors
// from individual widgets do not stop the pass; they are joined and
// returned.
func (f *Framework) Frame(window Rect, r Renderer) error {
	start := time.Now()
	f.stats.Frame++

	if f.runner != nil {
		f.runner.step(f)
	}
	f.processInjected()

	if window != f.window {
		f.window = window
		f.cache.Invalidate()
		f.needsRender = true
	}

	t := time.Now()
	f.layoutPass()
	f.stats.Layout = time.Since(t)

	t = time.Now()
	f.stats.Events = f.inputPass()
	f.flushDeferred()
	f.stats.Input = time.Since(t)

	f.pollDirty()

	var err error
	f.stats.Rendered = false
	f.stats.Render = 0
	if f.needsRender && r != nil {
		t = time.Now()
		err = f.renderPass(r)
		f.stats.Render = time.Since(t)
		f.stats.Rendered = true
		f.needsRender = false
	} else {
		f.stats.Skipped++
	}

	f.layout, f.hitLayout = f.hitLayout, f.layout
	f.input.BeginFrame()

	f.stats.Widgets = len(f.widgets)
	f.stats.CacheHits, f.stats.CacheMisses = f.cache.Stats()
	f.stats.Total = time.Since(start)
	f.debugLog()
	return err
}

func (f *Framework) layoutPass() {
	clear(f.layout)
	for _, id := range f.roots {
		f.layoutWidget(id, f.window)
	}
}

func (f *Framework) layoutWidget(id WidgetID, area Rect) {
	w, ok := f.widgets[id]
	if !ok {
		return
	}
	res := w.Layout(Size{Width: area.Width, Height: area.Height})
	res.Bounds.X += area.X
	res.Bounds.Y += area.Y
	f.placeChildren(id, w, res)
}

func (f *Framework) placeChildren(id WidgetID, w Widget, res LayoutResult) {
	f.layout[id] = res
	kids := f.children[id]
	if len(kids) == 0 {
		return
	}
	b := res.Bounds
	if cl, ok := w.(ChildLayouter); ok {
		ws := make([]Widget, len(kids))
		for i, k := range kids {
			ws[i] = f.widgets[k]
		}
		rects := cl.LayoutChildren(b, ws)
		for i, k := range kids {
			if i >= len(rects) {
				break
			}
			r := rects[i]
			f.placeChildren(k, ws[i], LayoutResult{
				Bounds:      r,
				Overflow:    r.X < b.X || r.Y < b.Y || r.Right() > b.Right() || r.Bottom() > b.Bottom(),
				ContentSize: Size{Width: r.Width, Height: r.Height},
			})
		}
		return
	}
	content := Rect{X: b.X, Y: b.Y, Width: res.ContentSize.Width, Height: res.ContentSize.Height}
	for _, k := range kids {
		f.layoutWidget(k, content)
	}
}

func (f *Framework) inputPass() int {
	prevHover := f.input.Hovered()
	events := f.input.Events()
	if f.heldEvents {
		events = append(events, f.input.HeldEvents()...)
	}
	events = append(events, f.queued...)
	f.queued = f.queued[:0]

	f.dispatching = true
	for _, ev := range events {
		f.lastHandled = WidgetID{}
		prevFocus := f.input.Focused()
		f.input.Dispatch(ev, f)
		if focus := f.input.Focused(); focus != prevFocus {
			f.needsRender = true
			f.emit(UIEvent{Kind: UIEventFocusChanged, Widget: focus})
		}
		ev.Target = f.lastHandled
		f.handlers.fire(ev)
	}
	f.dispatching = false

	if f.input.Hovered() != prevHover {
		f.needsRender = true
	}
	return len(events)
}

func (f *Framework) pollDirty() {
	for _, w := range f.widgets {
		if d, ok := w.(DirtyReporter); ok && d.TakeDirty() {
			f.needsRender = true
		}
	}
}

func (f *Framework) renderPass(r Renderer) error {
	if s, ok := r.(Screenshotter); ok {
		for _, label := range f.screenshots {
			s.QueueScreenshot(label)
		}
	}
	f.screenshots = f.screenshots[:0]

	r.BeginFrame()
	var errs []error
	stack := slices.Clone(f.roots)
	slices.Reverse(stack)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		w, ok := f.widgets[id]
		if !ok {
			continue
		}
		res, ok := f.layout[id]
		if !ok {
			continue
		}
		if err := w.Render(r, res.Bounds); err != nil {
			errs = append(errs, fmt.Errorf("lumina: render widget %s: %w", id.Short(), err))
		}
		kids := f.children[id]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	r.EndFrame()
	return errors.Join(errs...)
}

// order returns every widget id depth-first from the roots.
func (f *Framework) order() []WidgetID {
	out := make([]WidgetID, 0, len(f.widgets))
	stack := slices.Clone(f.roots)
	slices.Reverse(stack)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, id)
		kids := f.children[id]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

// --- WidgetTree ---

// HitTest returns the deepest widget whose previous-frame bounds contain p.
// Later roots and later children are checked first.
func (f *Framework) HitTest(p Vec2) (WidgetID, bool) {
	for i := len(f.roots) - 1; i >= 0; i-- {
		if id, ok := f.hitWidget(f.roots[i], p); ok {
			return id, true
		}
	}
	return WidgetID{}, false
}

// hitWidget searches children even when p is outside id's own bounds:
// rendering does not clip, so an overflowing child stays hittable where it
// is drawn.
func (f *Framework) hitWidget(id WidgetID, p Vec2) (WidgetID, bool) {
	res, ok := f.hitLayout[id]
	if !ok {
		return WidgetID{}, false
	}
	kids := f.children[id]
	for i := len(kids) - 1; i >= 0; i-- {
		if hit, ok := f.hitWidget(kids[i], p); ok {
			return hit, true
		}
	}
	if res.Bounds.ContainsPoint(p) {
		return id, true
	}
	return WidgetID{}, false
}

// Deliver hands ev to the widget with id.
func (f *Framework) Deliver(id WidgetID, ev InputEvent) InputResult {
	w, ok := f.widgets[id]
	if !ok {
		return NotHandled
	}
	res := w.HandleInput(ev)
	switch ev.Type {
	case EventMouseEnter, EventMouseExit, EventFocusGained, EventFocusLost:
		f.needsRender = true
		f.handlers.fire(ev)
		return res
	}
	if res != NotHandled {
		f.lastHandled = id
		f.needsRender = true
		f.emit(UIEvent{Kind: UIEventInput, Widget: id, Input: ev.Type, Position: ev.Position})
	}
	return res
}

// CanFocus reports whether the widget with id accepts focus.
func (f *Framework) CanFocus(id WidgetID) bool {
	w, ok := f.widgets[id]
	return ok && w.CanFocus()
}
