package main

import (
	"context"

	"github.com/spf13/cobra"

	appform "github.com/formwright/formengine/internal/application/form"
	"github.com/formwright/formengine/internal/infrastructure/formcache"
	"github.com/formwright/formengine/internal/ports"
)

// AppContext bundles the long-lived services created at startup, the same
// role the teacher's cmd/streamy AppContext plays for the pipeline use
// cases.
type AppContext struct {
	Logger  ports.Logger
	Events  ports.EventPublisher
	Cache   *formcache.CompiledFormCache
	Compile *appform.CompileUseCase
	Txn     *appform.TransitionUseCase
	Autosave *appform.AutosaveUseCase
}

// CommandContext returns the command context (falling back to Background)
// together with a component-scoped logger.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, ports.Logger) {
	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}
	return ctx, a.LoggerFor(component)
}

// LoggerFor derives a child logger with the supplied component name.
func (a *AppContext) LoggerFor(component string) ports.Logger {
	if a == nil || a.Logger == nil {
		return nil
	}
	return a.Logger.With("component", component)
}
