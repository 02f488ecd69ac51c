package lumina

// ContextMenuItem is one entry of a panel's tab context menu.
type ContextMenuItem struct {
	ID        string
	Label     string
	Disabled  bool
	Separator bool
}

// Panel is dockable editor content. The docking tree references panels by
// id only; the DockingManager looks them up in its registry.
type Panel interface {
	ID() PanelID
	Title() string
	// Icon returns an icon name, or "" for none.
	Icon() string
	Render(r Renderer, bounds Rect) error
	// HandleInput reports whether the panel consumed ev.
	HandleInput(ev InputEvent) bool
	MinSize() Size
	PreferredSize() Size
	// MaxSize returns the largest useful size. Zero on an axis means
	// unbounded.
	MaxSize() Size
	CanClose() bool
	ContextMenuItems() []ContextMenuItem
	HandleContextMenu(itemID string)
}

// BasePanel implements Panel with a title and no content. Concrete panels
// embed it and override Render and HandleInput.
type BasePanel struct {
	id        PanelID
	title     string
	IconName  string
	Closable  bool
	Min       Size
	Preferred Size
	Max       Size
}

// NewBasePanel returns a closable panel with a deterministic id derived from
// name.
func NewBasePanel(name, title string) BasePanel {
	return BasePanel{
		id:        WidgetIDFromName(name),
		title:     title,
		Closable:  true,
		Min:       Size{Width: 120, Height: 80},
		Preferred: Size{Width: 320, Height: 240},
	}
}

func (p *BasePanel) ID() PanelID                         { return p.id }
func (p *BasePanel) Title() string                       { return p.title }
func (p *BasePanel) SetTitle(s string)                   { p.title = s }
func (p *BasePanel) Icon() string                        { return p.IconName }
func (p *BasePanel) Render(Renderer, Rect) error         { return nil }
func (p *BasePanel) HandleInput(InputEvent) bool         { return false }
func (p *BasePanel) MinSize() Size                       { return p.Min }
func (p *BasePanel) PreferredSize() Size                 { return p.Preferred }
func (p *BasePanel) MaxSize() Size                       { return p.Max }
func (p *BasePanel) CanClose() bool                      { return p.Closable }
func (p *BasePanel) ContextMenuItems() []ContextMenuItem { return nil }
func (p *BasePanel) HandleContextMenu(string)            {}
