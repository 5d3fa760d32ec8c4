package compile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwright/formengine/internal/compile"
	"github.com/formwright/formengine/internal/registry"
	"github.com/formwright/formengine/internal/thunk/handlers"
)

func newHandlers(t *testing.T) *registry.ThunkHandlerRegistry {
	t.Helper()
	reg := registry.NewThunkHandlerRegistry()
	require.NoError(t, handlers.RegisterAll(reg))
	return reg
}

func minimalJourney() map[string]interface{} {
	return map[string]interface{}{
		"id": "onboarding",
		"steps": []interface{}{
			map[string]interface{}{
				"id": "start",
				"blocks": []interface{}{
					map[string]interface{}{
						"variant": "text",
						"text": map[string]interface{}{
							"type":     "format",
							"template": "Welcome, {}",
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

func TestCompileProducesConsistentResult(t *testing.T) {
	result, err := compile.Compile(minimalJourney(), newHandlers(t))
	require.NoError(t, err)

	require.NotNil(t, result.Root)
	assert.Equal(t, result.Nodes.Len(), len(result.IsAsync))

	order, err := result.Graph.Order()
	require.NoError(t, err)
	assert.Equal(t, result.Nodes.Len(), len(order))
}

func TestCompileRejectsMalformedDocument(t *testing.T) {
	doc := map[string]interface{}{
		"id":    "broken",
		"steps": "not-a-list",
	}
	_, err := compile.Compile(doc, newHandlers(t))
	assert.Error(t, err)
}
