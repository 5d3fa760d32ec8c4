package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/formwright/formengine/internal/tui/inspector"
)

func newInspectCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Compile a form and browse its dependency graph interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _ := app.CommandContext(cmd, "inspect_cmd")
			compiled, err := app.Compile.Compile(ctx, args[0])
			if err != nil {
				return fmt.Errorf("compile %s: %w", args[0], err)
			}

			model, err := inspector.NewModel(compiled)
			if err != nil {
				return fmt.Errorf("build inspector: %w", err)
			}

			if !term.IsTerminal(int(os.Stdout.Fd())) {
				for _, row := range model.Rows() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tasync=%v\tpseudo=%v\n", row.ID, row.Subkind, row.Async, row.Pseudo)
				}
				return nil
			}

			program := tea.NewProgram(model)
			_, err = program.Run()
			return err
		},
	}
}
