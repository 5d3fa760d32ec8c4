package form_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appform "github.com/formwright/formengine/internal/application/form"
	"github.com/formwright/formengine/internal/infrastructure/answerstore"
	"github.com/formwright/formengine/internal/infrastructure/events"
	"github.com/formwright/formengine/internal/infrastructure/graphbuild"
	"github.com/formwright/formengine/internal/infrastructure/logging"
	infraregistry "github.com/formwright/formengine/internal/infrastructure/registry"
	"github.com/formwright/formengine/internal/ports"
	"github.com/formwright/formengine/internal/registry"
	"github.com/formwright/formengine/internal/thunk/handlers"
)

func newTestBuilder(t *testing.T) (*graphbuild.Builder, *graphbuild.Evaluator) {
	t.Helper()
	handlerReg := registry.NewThunkHandlerRegistry()
	require.NoError(t, handlers.RegisterAll(handlerReg))

	functions := infraregistry.NewFunctionStore()
	logger := logging.NewNoOpLogger()
	publisher := events.NewLoggingPublisher(logger)

	builder := graphbuild.NewBuilder(handlerReg, logger, publisher)
	evaluator := graphbuild.NewEvaluator(handlerReg, functions, answerstore.NewMemory(), logger, publisher)
	return builder, evaluator
}

func simpleJourneyDoc() map[string]interface{} {
	return map[string]interface{}{
		"id": "checkout",
		"steps": []interface{}{
			map[string]interface{}{
				"id": "welcome",
				"blocks": []interface{}{
					map[string]interface{}{
						"variant": "text",
						"text": map[string]interface{}{
							"type":     "format",
							"template": "Hello, %1",
							"arguments": []interface{}{
								map[string]interface{}{"type": "reference", "path": []interface{}{"query", "name"}},
							},
						},
					},
				},
				"onSubmission": map[string]interface{}{
					"type": "transition.submit",
					"onValidNext": []interface{}{
						map[string]interface{}{"type": "next", "goto": "done"},
					},
				},
			},
		},
	}
}

func TestCompileAndLoadRendersBlocks(t *testing.T) {
	builder, evaluator := newTestBuilder(t)
	compiled, err := builder.Build(context.Background(), simpleJourneyDoc())
	require.NoError(t, err)

	txn := appform.NewTransitionUseCase(evaluator, nil, nil)
	render, err := txn.Load(context.Background(), compiled, compiled.Root.Children("steps")[0].ID, &ports.Request{
		Query: map[string]interface{}{"name": "Ada"},
	})
	require.NoError(t, err)
	require.Len(t, render.Blocks, 1)
	assert.Equal(t, "Hello, Ada", render.Blocks[0].Props["text"])
}

func TestSubmitResolvesNext(t *testing.T) {
	builder, evaluator := newTestBuilder(t)
	compiled, err := builder.Build(context.Background(), simpleJourneyDoc())
	require.NoError(t, err)

	txn := appform.NewTransitionUseCase(evaluator, nil, nil)
	outcome, err := txn.Submit(context.Background(), compiled, compiled.Root.Children("steps")[0].ID, &ports.Request{})
	require.NoError(t, err)
	assert.Equal(t, "done", outcome.Goto)
}

func TestChecksumStable(t *testing.T) {
	doc := simpleJourneyDoc()
	sum1, err := appform.Checksum(doc)
	require.NoError(t, err)
	sum2, err := appform.Checksum(doc)
	require.NoError(t, err)
	assert.Equal(t, sum1, sum2)
}
