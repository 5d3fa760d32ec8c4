package inspector

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const headerHeight = 3

// Update handles Bubbletea messages: arrow/j/k to move the cursor, q/ctrl-c
// to quit, matching the key bindings internal/tui uses for its own model.
// The node list re-renders into the viewport on every cursor move so the
// highlighted row and scroll position stay in sync.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		m.viewport.SetContent(renderRows(m.rows, m.cursor))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		}
		if m.ready {
			m.viewport.SetContent(renderRows(m.rows, m.cursor))
			if m.cursor < m.viewport.YOffset {
				m.viewport.YOffset = m.cursor
			} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
				m.viewport.YOffset = m.cursor - m.viewport.Height + 1
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}
