package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	appform "github.com/formwright/formengine/internal/application/form"
	"github.com/formwright/formengine/internal/infrastructure/answerstore"
	"github.com/formwright/formengine/internal/infrastructure/engineconfig"
	eventsinfra "github.com/formwright/formengine/internal/infrastructure/events"
	"github.com/formwright/formengine/internal/infrastructure/formcache"
	"github.com/formwright/formengine/internal/infrastructure/formsource"
	"github.com/formwright/formengine/internal/infrastructure/graphbuild"
	logginginfra "github.com/formwright/formengine/internal/infrastructure/logging"
	infraregistry "github.com/formwright/formengine/internal/infrastructure/registry"
	"github.com/formwright/formengine/internal/registry"
	"github.com/formwright/formengine/internal/thunk/handlers"
)

func main() {
	cfg, err := engineconfig.Load("formengine.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load formengine.yaml: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := logginginfra.New(logginginfra.Options{
		Level:     cfg.LogLevel,
		Component: "cli",
		Layer:     "infrastructure",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := logginginfra.GenerateCorrelationID()
	ctx := logginginfra.WithCorrelationID(context.Background(), correlationID)

	eventPublisher := eventsinfra.NewLoggingPublisher(appLogger.With("component", "event_publisher"))

	handlerRegistry := registry.NewThunkHandlerRegistry()
	if err := handlers.RegisterAll(handlerRegistry); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register thunk handlers: %v\n", err)
		os.Exit(1)
	}
	functionStore := infraregistry.NewFunctionStore()
	componentStore := infraregistry.NewComponentStore()

	answers := answerstore.NewMemory()

	loader := formsource.NewJSONLoader(appLogger.With("component", "form_loader"))
	builder := graphbuild.NewBuilder(handlerRegistry, appLogger.With("component", "graph_builder"), eventPublisher)
	evaluator := graphbuild.NewEvaluator(handlerRegistry, functionStore, answers, appLogger.With("component", "evaluator"), eventPublisher)

	cache, err := formcache.NewCompiledFormCache(filepath.Join(cfg.CacheDir, "manifest.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open compiled-form cache: %v\n", err)
		os.Exit(1)
	}
	store, err := formcache.NewStore(filepath.Join(cfg.CacheDir, "registry.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open form registry store: %v\n", err)
		os.Exit(1)
	}

	compileUseCase := appform.NewCompileUseCase(loader, builder, cache, store, appLogger.With("component", "compile_usecase"), eventPublisher)
	txnUseCase := appform.NewTransitionUseCase(evaluator, appLogger.With("component", "transition_usecase"), eventPublisher)
	autosaveUseCase := appform.NewAutosaveUseCase(answers, appLogger.With("component", "autosave_usecase"))

	_ = componentStore // registered component variants are consulted by external render adapters, not the CLI itself

	app := &AppContext{
		Logger:   appLogger,
		Events:   eventPublisher,
		Cache:    cache,
		Compile:  compileUseCase,
		Txn:      txnUseCase,
		Autosave: autosaveUseCase,
	}

	rootCmd := newRootCmd(app)
	appLogger.Info(ctx, "starting formengine command", "pid", os.Getpid())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
