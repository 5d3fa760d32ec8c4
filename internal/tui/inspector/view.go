package inspector

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	asyncStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	pseudoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := titleStyle.Render(fmt.Sprintf("formengine inspect • %d nodes, %d in topological order", m.nodes, m.edges))
	if !m.ready {
		return header + "\n\n" + renderRows(m.rows, m.cursor)
	}

	return header + "\n\n" + m.viewport.View() + "\n" + footerStyle.Render("↑/↓ or j/k to move, q to quit")
}

func renderRows(rows []Row, cursor int) string {
	var b strings.Builder
	for i, row := range rows {
		marker := "  "
		if i == cursor {
			marker = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%-36s %s", marker, row.ID, row.Subkind)
		if row.Async {
			line += " " + asyncStyle.Render("[async]")
		}
		if row.Pseudo {
			line += " " + pseudoStyle.Render("[pseudo]")
		}
		b.WriteString(line)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
