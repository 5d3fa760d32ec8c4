package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwright/formengine/internal/ast"
)

func TestNextHandlerFiresWithLiteralGotoWhenWhenOmitted(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("next1", ast.KindExpression, ast.SubNext, map[string]interface{}{
		"goto": "next-step",
	})

	v, err := NextHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, "next-step", v)
}

func TestNextHandlerResolvesExpressionGoto(t *testing.T) {
	ctx := newFakeContext()
	gotoNode := newTestNode("gotoref", ast.KindExpression, ast.SubReference, nil)
	ctx.values["gotoref"] = "dynamic-step"

	node := newTestNode("next1", ast.KindExpression, ast.SubNext, map[string]interface{}{
		"goto": gotoNode,
	})

	v, err := NextHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, "dynamic-step", v)
}

func TestNextHandlerReturnsNilWhenWhenFalsy(t *testing.T) {
	ctx := newFakeContext()
	whenNode := newTestNode("when1", ast.KindPredicate, ast.SubTest, nil)
	ctx.values["when1"] = false

	node := newTestNode("next1", ast.KindExpression, ast.SubNext, map[string]interface{}{
		"when": whenNode,
		"goto": "unreachable-step",
	})

	v, err := NextHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Nil(t, v)
}
