package lumina

// UIEventKind identifies an event forwarded to an EventStore.
type UIEventKind uint8

const (
	UIEventInput        UIEventKind = iota // a widget handled an input event
	UIEventFocusChanged                    // focus moved to Widget (zero when cleared)
	UIEventPanelAdded                      // a panel was registered
	UIEventPanelDocked                     // a panel was placed in the tree at Node
	UIEventPanelRemoved                    // a panel was removed from the tree and registry
	UIEventTabActivated                    // Node's active tab changed to Index
	UIEventSplitResized                    // Node's ratio changed to Ratio
	UIEventLayoutLoaded                    // the whole tree was replaced
	UIEventContextMenu                     // Panel ran context menu item Item
)

var uiEventKindNames = [...]string{
	"input", "focus-changed", "panel-added", "panel-docked", "panel-removed",
	"tab-activated", "split-resized", "layout-loaded", "context-menu",
}

func (k UIEventKind) String() string {
	if int(k) < len(uiEventKindNames) {
		return uiEventKindNames[k]
	}
	return "unknown"
}

// UIEvent carries interaction and docking data for an EventStore. Fields
// irrelevant to Kind are zero.
type UIEvent struct {
	Kind     UIEventKind
	Widget   WidgetID
	Panel    PanelID
	Node     WidgetID
	Input    InputEventType
	Position Vec2
	Index    int
	Ratio    float64
	Item     string
}

// EventStore is the interface for optional ECS integration. When set on a
// Framework or DockingManager, events are forwarded to it.
type EventStore interface {
	EmitEvent(event UIEvent)
}
