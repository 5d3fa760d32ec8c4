// Package inspector implements a Bubbletea model for browsing a compiled
// form's dependency graph, modeled on internal/tui's Model/Update/View
// split (the teacher's execution-progress TUI) but showing a compiled
// form's node list instead of a pipeline's step progress. Long node lists
// scroll via a bubbles/viewport, the same component the pack's
// theRebelliousNerd-codenerd TUI uses for its diff-approval view.
package inspector

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/formwright/formengine/internal/ports"
)

// Row is one line of the inspector's node list.
type Row struct {
	ID      string
	Subkind string
	Async   bool
	Pseudo  bool
}

// Model is the Bubbletea state for the compiled-form inspector.
type Model struct {
	rows     []Row
	nodes    int
	edges    int
	cursor   int
	viewport viewport.Model
	ready    bool
	quitting bool
}

// NewModel builds an inspector Model from a compiled form, listing nodes in
// topological order so dependencies always appear above their dependents.
func NewModel(compiled *ports.CompiledForm) (Model, error) {
	order, err := compiled.Graph.Order()
	if err != nil {
		return Model{}, err
	}

	rows := make([]Row, 0, len(order))
	for _, id := range order {
		n, ok := compiled.Nodes.Get(id)
		if !ok {
			continue
		}
		rows = append(rows, Row{
			ID:      id,
			Subkind: string(n.Subkind),
			Async:   compiled.IsAsync[id],
			Pseudo:  n.IsPseudo(),
		})
	}

	return Model{rows: rows, nodes: compiled.Nodes.Len(), edges: len(order)}, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Rows() []Row     { return m.rows }
func (m Model) Cursor() int     { return m.cursor }
func (m Model) Quitting() bool  { return m.quitting }
