package main

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/formwright/formengine/internal/ports"
)

type submitFlags struct {
	post string
}

func newSubmitCmd(app *AppContext) *cobra.Command {
	flags := &submitFlags{}
	cmd := &cobra.Command{
		Use:   "submit <file> <stepID>",
		Short: "Compile a form and run a single step's SUBMIT transition, printing its outcome",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _ := app.CommandContext(cmd, "submit_cmd")
			compiled, err := app.Compile.Compile(ctx, args[0])
			if err != nil {
				return fmt.Errorf("compile %s: %w", args[0], err)
			}

			post := make(map[string]interface{})
			if flags.post != "" {
				if err := gojson.Unmarshal([]byte(flags.post), &post); err != nil {
					return fmt.Errorf("parse --post: %w", err)
				}
			}

			outcome, err := app.Txn.Submit(ctx, compiled, args[1], &ports.Request{Post: post})
			if err != nil {
				return fmt.Errorf("submit step %s: %w", args[1], err)
			}

			out, err := gojson.MarshalIndent(outcome, "", "  ")
			if err != nil {
				return fmt.Errorf("encode outcome: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if outcome.IsThrow() {
				return fmt.Errorf("submit threw: status=%d message=%s", outcome.ThrowStatus, outcome.ThrowMessage)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.post, "post", "{}", "JSON object for the submitted request body")
	return cmd
}
