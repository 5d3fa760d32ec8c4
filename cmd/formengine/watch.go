package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces a burst of filesystem events for the same file
// into a single recompile, the same debounce idiom the pack's fsnotify-based
// watchers use for rapid successive writes from an editor save.
const watchDebounce = 300 * time.Millisecond

const journeySuffix = ".journey.json"

func newWatchCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Recompile every *.journey.json under a directory on save, reporting errors without exiting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "watch_cmd")
			dir := args[0]

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}

			recompile := func(path string) {
				compiled, err := app.Compile.Compile(ctx, path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "recompile %s failed: %v\n", path, err)
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "recompiled %s: %d nodes\n", path, compiled.Nodes.Len())
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("read %s: %w", dir, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s for %s changes (ctrl-c to stop)\n", dir, journeySuffix)
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), journeySuffix) {
					recompile(filepath.Join(dir, entry.Name()))
				}
			}

			pending := make(map[string]bool)
			timer := time.NewTimer(0)
			if !timer.Stop() {
				<-timer.C
			}

			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !strings.HasSuffix(event.Name, journeySuffix) {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
						continue
					}
					if !pending[event.Name] {
						pending[event.Name] = true
						timer.Reset(watchDebounce)
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					if logger != nil {
						logger.Warn(ctx, "watch error", "error", err)
					}
				case <-timer.C:
					for path := range pending {
						recompile(path)
					}
					pending = make(map[string]bool)
				}
			}
		},
	}
	return cmd
}
