package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/graph"
	"github.com/formwright/formengine/internal/register"
	"github.com/formwright/formengine/internal/transform"
)

func compileTree(t *testing.T, doc map[string]interface{}) (*ast.Node, *register.Result) {
	t.Helper()
	root, err := transform.Transform(doc, ast.NewIDGenerator())
	require.NoError(t, err)
	result, err := register.Register(root, ast.NewIDGenerator())
	require.NoError(t, err)
	return root, result
}

func TestWireStructuralEdgesFollowContainment(t *testing.T) {
	doc := map[string]interface{}{
		"id": "onboarding",
		"steps": []interface{}{
			map[string]interface{}{
				"id": "start",
				"blocks": []interface{}{
					map[string]interface{}{"variant": "basic"},
				},
			},
		},
	}
	root, result := compileTree(t, doc)
	g, err := Wire(root, result)
	require.NoError(t, err)

	step := root.Children("steps")[0]
	block := step.Children("blocks")[0]

	assert.Len(t, g.Dependents(root.ID, graph.EdgeStructural), 1)
	assert.Contains(t, g.Dependencies(step.ID, graph.EdgeStructural), root.ID)
	assert.Contains(t, g.Dependencies(block.ID, graph.EdgeStructural), step.ID)
}

func TestWireDataFlowEdgesFromFormatArguments(t *testing.T) {
	doc := map[string]interface{}{
		"id": "onboarding",
		"steps": []interface{}{
			map[string]interface{}{
				"id": "start",
				"blocks": []interface{}{
					map[string]interface{}{
						"variant": "text",
						"text": map[string]interface{}{
							"type":     "format",
							"template": "{}",
							"arguments": []interface{}{
								map[string]interface{}{"type": "reference", "path": []interface{}{"query", "x"}},
							},
						},
					},
				},
			},
		},
	}
	root, result := compileTree(t, doc)
	g, err := Wire(root, result)
	require.NoError(t, err)

	block := root.Children("steps")[0].Children("blocks")[0]
	formatNode := block.Child("text")
	arg := formatNode.Items("arguments")[0].(*ast.Node)

	assert.Contains(t, g.Dependencies(formatNode.ID, graph.EdgeDataFlow), arg.ID)

	// The reference's pseudo source also feeds it via a DATA_FLOW edge.
	pseudoID := result.ReferencePseudoIDs[arg.ID]
	assert.Contains(t, g.Dependencies(arg.ID, graph.EdgeDataFlow), pseudoID)
}

func TestWirePipelineChainsStepsSequentially(t *testing.T) {
	doc := map[string]interface{}{
		"id": "onboarding",
		"steps": []interface{}{
			map[string]interface{}{
				"id": "start",
				"blocks": []interface{}{
					map[string]interface{}{
						"variant": "text",
						"text": map[string]interface{}{
							"type": "pipeline",
							"input": map[string]interface{}{
								"type": "reference",
								"path": []interface{}{"query", "x"},
							},
							"steps": []interface{}{
								map[string]interface{}{"type": "function.transformer", "name": "upper", "arguments": []interface{}{}},
								map[string]interface{}{"type": "function.transformer", "name": "trim", "arguments": []interface{}{}},
							},
						},
					},
				},
			},
		},
	}
	root, result := compileTree(t, doc)
	g, err := Wire(root, result)
	require.NoError(t, err)

	block := root.Children("steps")[0].Children("blocks")[0]
	pipeline := block.Child("text")
	input := pipeline.Child("input")
	steps := pipeline.Children("steps")
	step0 := steps[0]
	step1 := steps[1]

	assert.Contains(t, g.Dependencies(step0.ID, graph.EdgeDataFlow), input.ID)
	assert.Contains(t, g.Dependencies(step1.ID, graph.EdgeDataFlow), step0.ID)
	assert.Contains(t, g.Dependencies(pipeline.ID, graph.EdgeDataFlow), step1.ID)

	// Each step's running-value linkage (folded in ahead of its own
	// arguments by FunctionTransformerHandler) points at its predecessor.
	assert.Same(t, input, step0.Child("pipelineInput"))
	assert.Same(t, step0, step1.Child("pipelineInput"))
}

func TestWireSubmitSequencesAlwaysThenValidEffectsThenNext(t *testing.T) {
	doc := map[string]interface{}{
		"id": "onboarding",
		"steps": []interface{}{
			map[string]interface{}{
				"id":     "start",
				"blocks": []interface{}{},
				"onSubmission": map[string]interface{}{
					"type": "transition.submit",
					"onAlwaysEffects": []interface{}{
						map[string]interface{}{"type": "function.effect", "name": "log", "arguments": []interface{}{}},
					},
					"onValidEffects": []interface{}{
						map[string]interface{}{"type": "function.effect", "name": "save", "arguments": []interface{}{}},
					},
					"onValidNext": []interface{}{
						map[string]interface{}{"type": "next", "goto": "done"},
					},
				},
			},
		},
	}
	root, result := compileTree(t, doc)
	g, err := Wire(root, result)
	require.NoError(t, err)

	step := root.Children("steps")[0]
	submit := step.Child("onSubmission")
	always := submit.Items("onAlwaysEffects")[0].(*ast.Node)
	valid := submit.Items("onValidEffects")[0].(*ast.Node)
	next := submit.Items("onValidNext")[0].(*ast.Node)

	assert.Contains(t, g.Dependents(always.ID, graph.EdgeEffectFlow), valid.ID)
	assert.Contains(t, g.Dependents(valid.ID, graph.EdgeEffectFlow), submit.ID)
	assert.Contains(t, g.Dependents(valid.ID, graph.EdgeControlFlow), next.ID)
	assert.Contains(t, g.Dependencies(submit.ID, graph.EdgeDataFlow), next.ID)
}
