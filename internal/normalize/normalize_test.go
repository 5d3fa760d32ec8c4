package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwright/formengine/internal/ast"
)

func fieldBlock(code interface{}, extra map[string]interface{}) *ast.Node {
	props := map[string]interface{}{
		"blockVariant": string(ast.BlockVariantField),
		"code":         code,
	}
	for k, v := range extra {
		props[k] = v
	}
	return ast.NewNode("field1", ast.KindStructure, ast.SubBlock, props, nil)
}

func selfRef() *ast.Node {
	return ast.NewNode("ref1", ast.KindExpression, ast.SubReference, map[string]interface{}{
		"path": []interface{}{"answers", "@self"},
	}, nil)
}

func TestResolveSelfReferencesReplacesMarker(t *testing.T) {
	ref := selfRef()
	field := fieldBlock("email", map[string]interface{}{"validate": ref})

	_, err := ResolveSelfReferences(field, ast.NewIDGenerator())
	require.NoError(t, err)

	segments := ref.Items("path")
	require.Len(t, segments, 2)
	assert.Equal(t, "answers", segments[0])
	assert.Equal(t, "email", segments[1])
}

func TestResolveSelfReferencesClonesNodeCode(t *testing.T) {
	code := ast.NewNode("code1", ast.KindExpression, ast.SubFormat, map[string]interface{}{"template": "x"}, nil)
	ref := selfRef()
	field := fieldBlock(code, map[string]interface{}{"validate": ref})

	_, err := ResolveSelfReferences(field, ast.NewIDGenerator())
	require.NoError(t, err)

	segments := ref.Items("path")
	cloned, ok := segments[1].(*ast.Node)
	require.True(t, ok)
	assert.NotEqual(t, code.ID, cloned.ID)
	assert.Equal(t, code.Subkind, cloned.Subkind)
}

func TestResolveSelfReferencesRejectsUsageInsideCode(t *testing.T) {
	ref := selfRef()
	field := fieldBlock(ref, nil)

	_, err := ResolveSelfReferences(field, ast.NewIDGenerator())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "self_inside_code")
}

func TestResolveSelfReferencesRejectsUsageOutsideField(t *testing.T) {
	ref := selfRef()
	basicBlock := ast.NewNode("block1", ast.KindStructure, ast.SubBlock, map[string]interface{}{
		"blockVariant": string(ast.BlockVariantBasic),
		"text":         ref,
	}, nil)

	_, err := ResolveSelfReferences(basicBlock, ast.NewIDGenerator())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "self_outside_field")
}

func TestResolveSelfReferencesRejectsMissingFieldCode(t *testing.T) {
	ref := selfRef()
	field := ast.NewNode("field1", ast.KindStructure, ast.SubBlock, map[string]interface{}{
		"blockVariant": string(ast.BlockVariantField),
		"validate":     ref,
	}, nil)

	_, err := ResolveSelfReferences(field, ast.NewIDGenerator())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_field_code")
}

func TestIgnoresNonSelfReferences(t *testing.T) {
	ref := ast.NewNode("ref2", ast.KindExpression, ast.SubReference, map[string]interface{}{
		"path": []interface{}{"query", "name"},
	}, nil)
	field := fieldBlock("email", map[string]interface{}{"validate": ref})

	_, err := ResolveSelfReferences(field, ast.NewIDGenerator())
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"query", "name"}, ref.Items("path"))
}
