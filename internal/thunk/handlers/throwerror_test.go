package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwright/formengine/internal/ast"
)

func TestThrowErrorHandlerFiresWithStatusAndMessage(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("throw1", ast.KindExpression, ast.SubThrowError, map[string]interface{}{
		"status":  float64(403),
		"message": "forbidden",
	})

	v, err := ThrowErrorHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	outcome, ok := v.(*ThrowOutcome)
	require.True(t, ok)
	assert.Equal(t, 403, outcome.Status)
	assert.Equal(t, "forbidden", outcome.Message)
}

func TestThrowErrorHandlerUndefinedMessageCoercesToEmptyString(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("throw1", ast.KindExpression, ast.SubThrowError, map[string]interface{}{
		"status": float64(500),
	})

	v, err := ThrowErrorHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	outcome, ok := v.(*ThrowOutcome)
	require.True(t, ok)
	assert.Equal(t, 500, outcome.Status)
	assert.Equal(t, "", outcome.Message)
}

func TestThrowErrorHandlerReturnsNilWhenWhenFalsy(t *testing.T) {
	ctx := newFakeContext()
	whenNode := newTestNode("when1", ast.KindPredicate, ast.SubTest, nil)
	ctx.values["when1"] = false

	node := newTestNode("throw1", ast.KindExpression, ast.SubThrowError, map[string]interface{}{
		"when":   whenNode,
		"status": float64(500),
	})

	v, err := ThrowErrorHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Nil(t, v)
}
