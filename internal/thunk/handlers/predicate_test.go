package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwright/formengine/internal/ast"
)

func TestTestHandlerAppliesRegisteredConditionToSubject(t *testing.T) {
	ctx := newFakeContext()
	registry := newFakeFunctionRegistry()
	registry.conditions["isAdult"] = func(c context.Context, args []interface{}) (bool, error) {
		return args[0].(int) >= 18, nil
	}
	ctx.functions = registry

	node := newTestNode("t1", ast.KindPredicate, ast.SubTest, map[string]interface{}{
		"subject":   21,
		"condition": "isAdult",
	})

	v, err := TestHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestTestHandlerNegatesResult(t *testing.T) {
	ctx := newFakeContext()
	registry := newFakeFunctionRegistry()
	registry.conditions["isAdult"] = func(c context.Context, args []interface{}) (bool, error) {
		return args[0].(int) >= 18, nil
	}
	ctx.functions = registry

	node := newTestNode("t1", ast.KindPredicate, ast.SubTest, map[string]interface{}{
		"subject":   21,
		"condition": "isAdult",
		"negate":    true,
	})

	v, err := TestHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestTestHandlerFailsLookupForUnregisteredCondition(t *testing.T) {
	ctx := newFakeContext()
	ctx.functions = newFakeFunctionRegistry()

	node := newTestNode("t1", ast.KindPredicate, ast.SubTest, map[string]interface{}{
		"subject":   21,
		"condition": "isAdult",
	})

	_, err := TestHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.Error(t, err)
}

func operandNodes(ctx *fakeContext, values ...interface{}) []*ast.Node {
	nodes := make([]*ast.Node, len(values))
	for i, v := range values {
		id := "op" + string(rune('0'+i))
		ctx.values[id] = v
		nodes[i] = newTestNode(id, ast.KindPredicate, ast.SubTest, nil)
	}
	return nodes
}

func TestAndHandlerShortCircuitsOnFirstFalsy(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("and1", ast.KindPredicate, ast.SubAnd, map[string]interface{}{
		"operands": operandNodes(ctx, true, false, true),
	})

	v, err := AndHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestAndHandlerTrueWhenAllOperandsTruthy(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("and1", ast.KindPredicate, ast.SubAnd, map[string]interface{}{
		"operands": operandNodes(ctx, true, true),
	})

	v, err := AndHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestAndHandlerFailClosedOnErroringOperand(t *testing.T) {
	ctx := newFakeContext()
	errNode := newTestNode("op0", ast.KindPredicate, ast.SubTest, nil)
	ctx.errs["op0"] = assert.AnError
	trueNode := newTestNode("op1", ast.KindPredicate, ast.SubTest, nil)
	ctx.values["op1"] = true

	node := newTestNode("and1", ast.KindPredicate, ast.SubAnd, map[string]interface{}{
		"operands": []*ast.Node{errNode, trueNode},
	})

	v, err := AndHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestOrHandlerSuppressesErrorAndEvaluatesLaterOperand(t *testing.T) {
	ctx := newFakeContext()
	errNode := newTestNode("op0", ast.KindPredicate, ast.SubTest, nil)
	ctx.errs["op0"] = assert.AnError
	trueNode := newTestNode("op1", ast.KindPredicate, ast.SubTest, nil)
	ctx.values["op1"] = true

	node := newTestNode("or1", ast.KindPredicate, ast.SubOr, map[string]interface{}{
		"operands": []*ast.Node{errNode, trueNode},
	})

	v, err := OrHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestOrHandlerTrueOnFirstTruthy(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("or1", ast.KindPredicate, ast.SubOr, map[string]interface{}{
		"operands": operandNodes(ctx, false, true),
	})

	v, err := OrHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestOrHandlerFalseWhenAllOperandsFalsy(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("or1", ast.KindPredicate, ast.SubOr, map[string]interface{}{
		"operands": operandNodes(ctx, false, false),
	})

	v, err := OrHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestXorHandlerTrueOnOddCountOfTruthyOperands(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("xor1", ast.KindPredicate, ast.SubXor, map[string]interface{}{
		"operands": operandNodes(ctx, true, true, true),
	})

	v, err := XorHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestXorHandlerFalseOnEvenCountOfTruthyOperands(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("xor1", ast.KindPredicate, ast.SubXor, map[string]interface{}{
		"operands": operandNodes(ctx, true, true),
	})

	v, err := XorHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestNotHandlerInvertsOperand(t *testing.T) {
	ctx := newFakeContext()
	operand := newTestNode("op0", ast.KindPredicate, ast.SubTest, nil)
	ctx.values["op0"] = true

	node := newTestNode("not1", ast.KindPredicate, ast.SubNot, map[string]interface{}{
		"operand": operand,
	})

	v, err := NotHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestNotHandlerTreatsMissingOperandAsTrue(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("not1", ast.KindPredicate, ast.SubNot, nil)

	v, err := NotHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}
