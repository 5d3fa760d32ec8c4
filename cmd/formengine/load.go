package main

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/formwright/formengine/internal/ports"
)

type evalFlags struct {
	query string
}

func newLoadCmd(app *AppContext) *cobra.Command {
	flags := &evalFlags{}
	cmd := &cobra.Command{
		Use:   "load <file> <stepID>",
		Short: "Compile a form and run a single step's LOAD transition, printing its rendered blocks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _ := app.CommandContext(cmd, "load_cmd")
			compiled, err := app.Compile.Compile(ctx, args[0])
			if err != nil {
				return fmt.Errorf("compile %s: %w", args[0], err)
			}

			req, err := decodeRequest(flags.query)
			if err != nil {
				return err
			}

			render, err := app.Txn.Load(ctx, compiled, args[1], req)
			if err != nil {
				return fmt.Errorf("load step %s: %w", args[1], err)
			}

			out, err := gojson.MarshalIndent(render, "", "  ")
			if err != nil {
				return fmt.Errorf("encode render: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.query, "query", "{}", "JSON object for the request's query parameters")
	return cmd
}

// decodeRequest parses a JSON object flag value into a ports.Request with
// that object as its Query, the shape the load subcommand accepts for
// simulating an incoming request without a real FrameworkAdapter.
func decodeRequest(query string) (*ports.Request, error) {
	q := make(map[string]interface{})
	if query != "" {
		if err := gojson.Unmarshal([]byte(query), &q); err != nil {
			return nil, fmt.Errorf("parse --query: %w", err)
		}
	}
	return &ports.Request{Query: q}, nil
}
