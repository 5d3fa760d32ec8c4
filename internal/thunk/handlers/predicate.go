package handlers

import (
	"fmt"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
	"github.com/formwright/formengine/pkg/thunkerr"
)

// TestHandler evaluates a PREDICATE.TEST node: subject applied to a
// registered condition function named by `condition`, optionally negated
// (spec §4.6: "evaluate subject and condition (a registered condition
// function); apply negate").
type TestHandler struct{}

func (TestHandler) Subkind() ast.Subkind { return ast.SubTest }

func (TestHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	subject, err := resolve(ctx, mustProp(node, "subject"))
	if err != nil {
		return nil, err
	}
	name := node.StringProp("condition")
	fn, err := ctx.Functions().GetCondition(name)
	if err != nil {
		return nil, thunkerr.NewThunkError(thunkerr.LookupFailed, node.ID, fmt.Sprintf("condition function %q not registered", name), err)
	}
	result, err := fn(ctx, []interface{}{subject})
	if err != nil {
		return nil, thunkerr.NewThunkError(thunkerr.EvaluationFailed, node.ID, fmt.Sprintf("condition function %q failed", name), err)
	}
	if node.BoolProp("negate", false) {
		result = !result
	}
	return result, nil
}

// AndHandler evaluates PREDICATE.AND: short-circuits on the first falsy
// operand. A failed operand is fail-closed — treated as false, which
// short-circuits the remaining operands exactly like an explicit falsy
// value would (spec §4.6, §8 scenario 3).
type AndHandler struct{}

func (AndHandler) Subkind() ast.Subkind { return ast.SubAnd }

func (AndHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	for _, operand := range node.Children("operands") {
		v, err := ctx.Resolve(operand.ID)
		if err != nil || !truthy(v) {
			return false, nil
		}
	}
	return true, nil
}

// OrHandler evaluates PREDICATE.OR: short-circuits on the first truthy
// operand. A failed operand does not fail the OR — its error is suppressed
// and evaluation continues to the remaining operands (spec §4.6, §8
// scenario 4).
type OrHandler struct{}

func (OrHandler) Subkind() ast.Subkind { return ast.SubOr }

func (OrHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	for _, operand := range node.Children("operands") {
		v, err := ctx.Resolve(operand.ID)
		if err != nil {
			continue
		}
		if truthy(v) {
			return true, nil
		}
	}
	return false, nil
}

// XorHandler evaluates PREDICATE.XOR: true iff an odd number of operands are truthy.
type XorHandler struct{}

func (XorHandler) Subkind() ast.Subkind { return ast.SubXor }

func (XorHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	count := 0
	for _, operand := range node.Children("operands") {
		v, err := ctx.Resolve(operand.ID)
		if err != nil {
			return nil, err
		}
		if truthy(v) {
			count++
		}
	}
	return count%2 == 1, nil
}

// NotHandler evaluates PREDICATE.NOT.
type NotHandler struct{}

func (NotHandler) Subkind() ast.Subkind { return ast.SubNot }

func (NotHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	operand := node.Child("operand")
	if operand == nil {
		return true, nil
	}
	v, err := ctx.Resolve(operand.ID)
	if err != nil {
		return nil, err
	}
	return !truthy(v), nil
}
