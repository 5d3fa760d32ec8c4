package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/transform"
)

func compiledJourney(t *testing.T) *ast.Node {
	t.Helper()
	doc := map[string]interface{}{
		"id": "onboarding",
		"steps": []interface{}{
			map[string]interface{}{
				"id": "start",
				"blocks": []interface{}{
					map[string]interface{}{
						"variant": "field",
						"code":    "email",
						"validate": []interface{}{
							map[string]interface{}{
								"type": "reference",
								"path": []interface{}{"post", "email"},
							},
						},
					},
				},
			},
			map[string]interface{}{
				"id": "confirm",
				"blocks": []interface{}{
					map[string]interface{}{
						"variant": "text",
						"text": map[string]interface{}{
							"type": "reference",
							"path": []interface{}{"answers", "email"},
						},
					},
				},
			},
		},
	}
	root, err := transform.Transform(doc, ast.NewIDGenerator())
	require.NoError(t, err)
	return root
}

func TestRegisterIndexesEveryNode(t *testing.T) {
	root := compiledJourney(t)
	result, err := Register(root, ast.NewIDGenerator())
	require.NoError(t, err)

	_, ok := result.Nodes.Get(root.ID)
	assert.True(t, ok)
	assert.Greater(t, result.Nodes.Len(), 1)
}

func TestRegisterStampsStepMetadata(t *testing.T) {
	root := compiledJourney(t)
	result, err := Register(root, ast.NewIDGenerator())
	require.NoError(t, err)

	steps := root.Children("steps")
	firstStep := steps[0]
	block := firstStep.Children("blocks")[0]

	meta, ok := result.Metadata.Get(block.ID)
	require.True(t, ok)
	assert.Equal(t, firstStep.ID, meta.StepID)
	assert.Equal(t, firstStep.ID, meta.ParentID)
	assert.True(t, meta.AttachedToParent)
}

func TestRegisterBindsPostReferenceToPseudo(t *testing.T) {
	root := compiledJourney(t)
	result, err := Register(root, ast.NewIDGenerator())
	require.NoError(t, err)

	steps := root.Children("steps")
	block := steps[0].Children("blocks")[0]
	validateRefs := block.Items("validate")
	require.Len(t, validateRefs, 1)
	ref := validateRefs[0].(*ast.Node)

	pseudoID, ok := result.ReferencePseudoIDs[ref.ID]
	require.True(t, ok)

	pseudo, ok := result.Nodes.Get(pseudoID)
	require.True(t, ok)
	assert.Equal(t, ast.SubPseudoPost, pseudo.Subkind)
}

func TestRegisterClassifiesLocalVsRemoteAnswerReference(t *testing.T) {
	root := compiledJourney(t)
	result, err := Register(root, ast.NewIDGenerator())
	require.NoError(t, err)

	steps := root.Children("steps")
	secondStepBlock := steps[1].Children("blocks")[0]
	ref := secondStepBlock.Child("text")
	require.NotNil(t, ref)

	pseudoID, ok := result.ReferencePseudoIDs[ref.ID]
	require.True(t, ok)
	pseudo, ok := result.Nodes.Get(pseudoID)
	require.True(t, ok)
	// "email" is owned by the first step, not the second, so this reference
	// from within the second step resolves to the remote answer pseudo.
	assert.Equal(t, ast.SubPseudoAnswerRemote, pseudo.Subkind)
}

func TestRegisterDeduplicatesPseudoNodesBySameKey(t *testing.T) {
	doc := map[string]interface{}{
		"id": "onboarding",
		"steps": []interface{}{
			map[string]interface{}{
				"id": "start",
				"blocks": []interface{}{
					map[string]interface{}{
						"variant": "basic",
						"a": map[string]interface{}{
							"type": "reference",
							"path": []interface{}{"query", "ref"},
						},
						"b": map[string]interface{}{
							"type": "reference",
							"path": []interface{}{"query", "ref"},
						},
					},
				},
			},
		},
	}
	root, err := transform.Transform(doc, ast.NewIDGenerator())
	require.NoError(t, err)

	result, err := Register(root, ast.NewIDGenerator())
	require.NoError(t, err)

	block := root.Children("steps")[0].Children("blocks")[0]
	refA := block.Child("a")
	refB := block.Child("b")

	assert.Equal(t, result.ReferencePseudoIDs[refA.ID], result.ReferencePseudoIDs[refB.ID])

	queryPseudoCount := 0
	for _, p := range result.PseudoNodes {
		if p.Subkind == ast.SubPseudoQuery {
			queryPseudoCount++
		}
	}
	assert.Equal(t, 1, queryPseudoCount)
}
