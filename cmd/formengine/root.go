package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose  bool
	cacheDir string
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "formengine",
		Short:         "formengine compiles and evaluates declarative multi-step form journeys",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Accepted but not read; the log level comes from log_level in formengine.yaml")
	cmd.PersistentFlags().StringVar(&flags.cacheDir, "cache-dir", ".formengine-cache", "Accepted but not read; the cache directory comes from cache_dir in formengine.yaml")

	cmd.AddCommand(newCompileCmd(app))
	cmd.AddCommand(newLoadCmd(app))
	cmd.AddCommand(newSubmitCmd(app))
	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newInspectCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
