package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompileCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a form definition and report its dependency graph summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "compile_cmd")
			compiled, err := app.Compile.Compile(ctx, args[0])
			if err != nil {
				return fmt.Errorf("compile %s: %w", args[0], err)
			}

			order, err := compiled.Graph.Order()
			if err != nil {
				return fmt.Errorf("topological order: %w", err)
			}

			asyncCount := 0
			for _, async := range compiled.IsAsync {
				if async {
					asyncCount++
				}
			}

			if logger != nil {
				logger.Info(ctx, "compile succeeded", "nodes", compiled.Nodes.Len(), "ordered", len(order))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "compiled %s: %d nodes, %d async, %d in topological order\n",
				args[0], compiled.Nodes.Len(), asyncCount, len(order))
			return nil
		},
	}
	return cmd
}
