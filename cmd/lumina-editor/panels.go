package main

import (
	"fmt"

	"github.com/lumina-engine/lumina"
	"github.com/lumina-engine/lumina/ecs"
	"github.com/yohamta/donburi"
)

const lineHeight = 18

// --- Scene ---

type scenePanel struct {
	lumina.BasePanel
	theme  lumina.Theme
	cursor lumina.Vec2
}

func newScenePanel(theme lumina.Theme) *scenePanel {
	p := &scenePanel{BasePanel: lumina.NewBasePanel("scene", "Scene"), theme: theme}
	p.Closable = false
	return p
}

func (p *scenePanel) Render(r lumina.Renderer, b lumina.Rect) error {
	grid := p.theme.Divider
	for x := b.X; x < b.Right(); x += 32 {
		r.DrawRect(lumina.Rect{X: x, Y: b.Y, Width: 1, Height: b.Height}, grid)
	}
	for y := b.Y; y < b.Bottom(); y += 32 {
		r.DrawRect(lumina.Rect{X: b.X, Y: y, Width: b.Width, Height: 1}, grid)
	}
	label := fmt.Sprintf("%.0f, %.0f", p.cursor.X-b.X, p.cursor.Y-b.Y)
	r.DrawText(label, lumina.Vec2{X: b.X + 8, Y: b.Bottom() - lineHeight}, p.theme.Font, p.theme.FontSize, p.theme.TabText)
	return nil
}

func (p *scenePanel) HandleInput(ev lumina.InputEvent) bool {
	if ev.Type == lumina.EventMouseMove {
		p.cursor = ev.Position
		return true
	}
	return false
}

// --- Hierarchy ---

// hierarchyPanel lists every registered panel and where it is docked.
type hierarchyPanel struct {
	lumina.BasePanel
	theme lumina.Theme
	dock  *lumina.DockingManager
}

func newHierarchyPanel(theme lumina.Theme, dock *lumina.DockingManager) *hierarchyPanel {
	return &hierarchyPanel{BasePanel: lumina.NewBasePanel("hierarchy", "Hierarchy"), theme: theme, dock: dock}
}

func (p *hierarchyPanel) Render(r lumina.Renderer, b lumina.Rect) error {
	y := b.Y + 6
	for _, panel := range p.dock.Panels() {
		c := p.theme.TabText
		status := "hidden"
		if tabs, idx, ok := p.dock.FindPanel(panel.ID()); ok {
			status = fmt.Sprintf("%s #%d", tabs.Short(), idx)
			c = p.theme.Text
		}
		r.DrawText(panel.Title()+"  "+status, lumina.Vec2{X: b.X + 8, Y: y}, p.theme.Font, p.theme.FontSize, c)
		y += lineHeight
	}
	return nil
}

// --- Console ---

const (
	consoleCapacity = 200
	menuClear       = "console.clear"
)

// consolePanel shows the UI event stream, fed from the ECS world.
type consolePanel struct {
	lumina.BasePanel
	theme  lumina.Theme
	lines  []string
	scroll int
}

func newConsolePanel(theme lumina.Theme, world donburi.World) *consolePanel {
	p := &consolePanel{BasePanel: lumina.NewBasePanel("console", "Console"), theme: theme}
	ecs.UIEventType.Subscribe(world, func(_ donburi.World, e lumina.UIEvent) {
		p.append(describeEvent(e))
	})
	return p
}

func (p *consolePanel) append(line string) {
	p.lines = append(p.lines, line)
	if over := len(p.lines) - consoleCapacity; over > 0 {
		p.lines = append(p.lines[:0], p.lines[over:]...)
	}
}

func (p *consolePanel) Render(r lumina.Renderer, b lumina.Rect) error {
	rows := int(b.Height / lineHeight)
	end := len(p.lines) - p.scroll
	start := max(0, end-rows)
	y := b.Y + 4
	for _, line := range p.lines[start:max(start, end)] {
		r.DrawText(line, lumina.Vec2{X: b.X + 8, Y: y}, p.theme.Font, p.theme.FontSize, p.theme.Text)
		y += lineHeight
	}
	return nil
}

func (p *consolePanel) HandleInput(ev lumina.InputEvent) bool {
	if ev.Type != lumina.EventMouseWheel {
		return false
	}
	p.scroll = max(0, min(len(p.lines)-1, p.scroll+int(ev.Delta.Y)))
	return true
}

func (p *consolePanel) ContextMenuItems() []lumina.ContextMenuItem {
	return []lumina.ContextMenuItem{{ID: menuClear, Label: "Clear", Disabled: len(p.lines) == 0}}
}

func (p *consolePanel) HandleContextMenu(id string) {
	if id == menuClear {
		p.lines = p.lines[:0]
		p.scroll = 0
	}
}

func describeEvent(e lumina.UIEvent) string {
	switch e.Kind {
	case lumina.UIEventInput:
		return fmt.Sprintf("%s %s on %s", e.Kind, e.Input, e.Widget.Short())
	case lumina.UIEventFocusChanged:
		return fmt.Sprintf("%s -> %s", e.Kind, e.Widget.Short())
	case lumina.UIEventPanelAdded, lumina.UIEventPanelRemoved:
		return fmt.Sprintf("%s %s", e.Kind, e.Panel.Short())
	case lumina.UIEventPanelDocked:
		return fmt.Sprintf("%s %s in %s", e.Kind, e.Panel.Short(), e.Node.Short())
	case lumina.UIEventTabActivated:
		return fmt.Sprintf("%s %s[%d]", e.Kind, e.Node.Short(), e.Index)
	case lumina.UIEventSplitResized:
		return fmt.Sprintf("%s %s %.2f", e.Kind, e.Node.Short(), e.Ratio)
	case lumina.UIEventContextMenu:
		return fmt.Sprintf("%s %s on %s", e.Kind, e.Item, e.Panel.Short())
	default:
		return e.Kind.String()
	}
}

// --- Inspector ---

type inspectorPanel struct {
	lumina.BasePanel
	theme lumina.Theme
	f     *lumina.Framework
}

func newInspectorPanel(theme lumina.Theme, f *lumina.Framework) *inspectorPanel {
	return &inspectorPanel{BasePanel: lumina.NewBasePanel("inspector", "Inspector"), theme: theme, f: f}
}

func (p *inspectorPanel) Render(r lumina.Renderer, b lumina.Rect) error {
	s := p.f.Stats()
	rows := []string{
		fmt.Sprintf("frame     %d", s.Frame),
		fmt.Sprintf("widgets   %d", s.Widgets),
		fmt.Sprintf("layout    %s", s.Layout),
		fmt.Sprintf("input     %s", s.Input),
		fmt.Sprintf("render    %s", s.Render),
		fmt.Sprintf("skipped   %d", s.Skipped),
		fmt.Sprintf("cache     %d/%d", s.CacheHits, s.CacheHits+s.CacheMisses),
		fmt.Sprintf("hovered   %s", p.f.Hovered().Short()),
		fmt.Sprintf("focused   %s", p.f.Focused().Short()),
	}
	y := b.Y + 6
	for _, row := range rows {
		r.DrawText(row, lumina.Vec2{X: b.X + 8, Y: y}, p.theme.Font, p.theme.FontSize, p.theme.Text)
		y += lineHeight
	}
	return nil
}

// defaultLayout docks the built-in panels around the scene: hierarchy on the
// left, inspector on the right, console below.
func defaultLayout(dock *lumina.DockingManager, scene, hierarchy, inspector, console lumina.PanelID) error {
	root := dock.Root()
	if root.IsEmpty() {
		return fmt.Errorf("default layout: scene panel not placed")
	}
	steps := []struct {
		panel  lumina.PanelID
		target func() lumina.DockTarget
	}{
		{hierarchy, func() lumina.DockTarget {
			return lumina.SplitTarget{NodeID: dock.Root().ID, Direction: lumina.Horizontal, Ratio: 0.2, Side: lumina.DockBefore}
		}},
		{inspector, func() lumina.DockTarget {
			return lumina.SplitTarget{NodeID: dock.Root().ID, Direction: lumina.Horizontal, Ratio: 0.78}
		}},
		{console, func() lumina.DockTarget {
			tabs, _, _ := dock.FindPanel(scene)
			return lumina.SplitTarget{NodeID: tabs, Direction: lumina.Vertical, Ratio: 0.7}
		}},
	}
	for _, st := range steps {
		if err := dock.DockPanel(st.panel, st.target()); err != nil {
			return fmt.Errorf("default layout: %w", err)
		}
	}
	return nil
}
