package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwright/formengine/internal/ast"
)

func TestTransformBuildsJourneyStepBlockTree(t *testing.T) {
	doc := map[string]interface{}{
		"id": "onboarding",
		"steps": []interface{}{
			map[string]interface{}{
				"id": "start",
				"blocks": []interface{}{
					map[string]interface{}{"variant": "text"},
				},
			},
		},
	}

	root, err := Transform(doc, ast.NewIDGenerator())
	require.NoError(t, err)

	require.Equal(t, ast.KindStructure, root.Kind)
	require.Equal(t, ast.SubJourney, root.Subkind)

	steps := root.Children("steps")
	require.Len(t, steps, 1)
	assert.Equal(t, ast.SubStep, steps[0].Subkind)

	blocks := steps[0].Children("blocks")
	require.Len(t, blocks, 1)
	assert.Equal(t, ast.SubBlock, blocks[0].Subkind)
	assert.Equal(t, "text", blocks[0].StringProp("blockVariant"))
}

func TestTransformDispatchesByTypeTag(t *testing.T) {
	doc := map[string]interface{}{
		"type": "reference",
		"path": []interface{}{"query", "name"},
	}

	v, err := New(ast.NewIDGenerator()).dispatch(doc, "$")
	require.NoError(t, err)

	node, ok := v.(*ast.Node)
	require.True(t, ok)
	assert.Equal(t, ast.KindExpression, node.Kind)
	assert.Equal(t, ast.SubReference, node.Subkind)
	assert.Equal(t, []interface{}{"query", "name"}, node.Items("path"))
}

func TestTransformRejectsUnknownTypeTag(t *testing.T) {
	doc := map[string]interface{}{"type": "not-a-real-type"}
	_, err := New(ast.NewIDGenerator()).dispatch(doc, "$")
	assert.Error(t, err)
}

func TestTransformPassesThroughLiteralMaps(t *testing.T) {
	doc := map[string]interface{}{
		"min": float64(3),
		"max": float64(7),
	}

	v, err := New(ast.NewIDGenerator()).dispatch(doc, "$")
	require.NoError(t, err)

	m, ok := v.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), m["min"])
	assert.Equal(t, float64(7), m["max"])
}

func TestNodeSliceFieldRejectsNonArray(t *testing.T) {
	doc := map[string]interface{}{
		"id":    "broken",
		"steps": "not-a-list",
	}
	_, err := Transform(doc, ast.NewIDGenerator())
	assert.Error(t, err)
}

func TestTransformAssignsUniqueIDs(t *testing.T) {
	doc := map[string]interface{}{
		"id": "onboarding",
		"steps": []interface{}{
			map[string]interface{}{"id": "a", "blocks": []interface{}{}},
			map[string]interface{}{"id": "b", "blocks": []interface{}{}},
		},
	}

	root, err := Transform(doc, ast.NewIDGenerator())
	require.NoError(t, err)

	steps := root.Children("steps")
	require.Len(t, steps, 2)
	assert.NotEqual(t, steps[0].ID, steps[1].ID)
	assert.NotEqual(t, root.ID, steps[0].ID)
}
