package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lumina-engine/lumina"
)

var (
	splitStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5f87ff"))
	tabsStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87d787"))
	emptyStyle = lipgloss.NewStyle().Faint(true)
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	panelStyle = lipgloss.NewStyle()
	activeMark = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaf00")).Render("*")
)

// dumpTree renders root as an indented tree. titles maps panel ids to
// display names; unknown ids print as their short form.
func dumpTree(root *lumina.LayoutNode, titles map[lumina.PanelID]string) string {
	var b strings.Builder
	root.Walk(func(n *lumina.LayoutNode, depth int) bool {
		indent := strings.Repeat("  ", depth)
		switch n.Kind {
		case lumina.NodeSplit:
			fmt.Fprintf(&b, "%s%s %s %.2f %s\n", indent, splitStyle.Render("split"),
				n.Direction, n.Ratio, idStyle.Render(n.ID.Short()))
		case lumina.NodeTabs:
			fmt.Fprintf(&b, "%s%s %s\n", indent, tabsStyle.Render("tabs"), idStyle.Render(n.ID.Short()))
			for i, p := range n.Panels {
				mark := " "
				if i == n.ActiveTab {
					mark = activeMark
				}
				name, ok := titles[p]
				if !ok {
					name = p.Short()
				}
				fmt.Fprintf(&b, "%s  %s %s\n", indent, mark, panelStyle.Render(name))
			}
		default:
			fmt.Fprintf(&b, "%s%s\n", indent, emptyStyle.Render("empty"))
		}
		return true
	})
	return b.String()
}
