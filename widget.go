package lumina

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// WidgetID is an opaque 128-bit identifier. Random ids come from NewWidgetID;
// built-in panels use WidgetIDFromName so the same logical panel gets the same
// id across sessions and saved layouts stay meaningful after a restart.
type WidgetID [16]byte

// PanelID identifies a registered panel.
type PanelID = WidgetID

// TabID identifies a Tabs node in the docking tree.
type TabID = WidgetID

// SplitID identifies a Split node in the docking tree.
type SplitID = WidgetID

// NewWidgetID returns a random id.
func NewWidgetID() WidgetID {
	var id WidgetID
	if _, err := rand.Read(id[:]); err != nil {
		panic(fmt.Sprintf("lumina: crypto/rand failed: %v", err))
	}
	return id
}

// WidgetIDFromName derives a deterministic id from name.
func WidgetIDFromName(name string) WidgetID {
	var id WidgetID
	putUint64(id[:8], xxhash.Sum64String(name))
	putUint64(id[8:], xxhash.Sum64String("lumina/"+name))
	return id
}

func putUint64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

// IsZero reports whether id is the zero id.
func (id WidgetID) IsZero() bool { return id == WidgetID{} }

// String formats id as 8-4-4-4-12 lowercase hex groups.
func (id WidgetID) String() string {
	h := hex.EncodeToString(id[:])
	return h[:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:]
}

// Short returns the first eight hex digits, for logs and debug output.
func (id WidgetID) Short() string { return hex.EncodeToString(id[:4]) }

// ParseWidgetID parses the output of WidgetID.String. Dashes are optional.
func ParseWidgetID(s string) (WidgetID, error) {
	var id WidgetID
	raw := strings.ReplaceAll(s, "-", "")
	if len(raw) != 32 {
		return id, fmt.Errorf("lumina: invalid widget id %q", s)
	}
	if _, err := hex.Decode(id[:], []byte(raw)); err != nil {
		return id, fmt.Errorf("lumina: invalid widget id %q: %w", s, err)
	}
	return id, nil
}

// MarshalText implements encoding.TextMarshaler.
func (id WidgetID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *WidgetID) UnmarshalText(b []byte) error {
	v, err := ParseWidgetID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Widget is the capability set every UI element implements. The framework
// stores widgets by id and keeps the hierarchy itself, so widgets never hold
// references to their children or parent.
type Widget interface {
	ID() WidgetID
	Constraints() LayoutConstraints
	// Layout resolves the widget inside available. Bounds are relative to
	// the available area's origin.
	Layout(available Size) LayoutResult
	HandleInput(ev InputEvent) InputResult
	Render(r Renderer, bounds Rect) error
	CanFocus() bool
}

// ChildLayouter is implemented by widgets that position their own children.
// LayoutChildren receives the widget's absolute bounds and returns one
// absolute rect per child, in order.
type ChildLayouter interface {
	LayoutChildren(bounds Rect, children []Widget) []Rect
}

// BaseWidget implements Widget with constraint-driven layout and no input or
// output. Concrete widgets embed it and override what they need.
type BaseWidget struct {
	id WidgetID

	// Sizing is returned by Constraints.
	Sizing LayoutConstraints
	// Focusable is returned by CanFocus.
	Focusable bool

	cache *LayoutCache
}

// NewBaseWidget returns a BaseWidget with the given id. A zero id is
// replaced with a random one.
func NewBaseWidget(id WidgetID) BaseWidget {
	if id.IsZero() {
		id = NewWidgetID()
	}
	return BaseWidget{id: id}
}

func (b *BaseWidget) ID() WidgetID                   { return b.id }
func (b *BaseWidget) Constraints() LayoutConstraints { return b.Sizing }
func (b *BaseWidget) CanFocus() bool                 { return b.Focusable }

// Layout resolves Sizing against available, through the framework's layout
// cache once the widget is attached.
func (b *BaseWidget) Layout(available Size) LayoutResult {
	if b.cache != nil {
		return b.cache.Get(b.Sizing, available)
	}
	return Resolve(b.Sizing, available)
}

func (b *BaseWidget) HandleInput(InputEvent) InputResult { return NotHandled }
func (b *BaseWidget) Render(Renderer, Rect) error        { return nil }

func (b *BaseWidget) attachCache(c *LayoutCache) { b.cache = c }

type cacheAttacher interface {
	attachCache(c *LayoutCache)
}
