package handlers

import (
	"fmt"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
	"github.com/formwright/formengine/pkg/thunkerr"
)

// FunctionConditionHandler evaluates FUNCTION_CONDITION: an author-registered
// ConditionFunc looked up by name (spec §6's function.condition tag).
type FunctionConditionHandler struct{}

func (FunctionConditionHandler) Subkind() ast.Subkind { return ast.SubFuncCondition }

func (h FunctionConditionHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	name, args, err := functionCall(ctx, node)
	if err != nil {
		return nil, err
	}
	fn, err := ctx.Functions().GetCondition(name)
	if err != nil {
		return nil, thunkerr.NewThunkError(thunkerr.LookupFailed, node.ID, fmt.Sprintf("condition function %q not registered", name), err)
	}
	result, err := fn(ctx, args)
	if err != nil {
		return nil, thunkerr.NewThunkError(thunkerr.EvaluationFailed, node.ID, fmt.Sprintf("condition function %q failed", name), err)
	}
	return result, nil
}

// FunctionTransformerHandler evaluates FUNCTION_TRANSFORMER.
type FunctionTransformerHandler struct{}

func (FunctionTransformerHandler) Subkind() ast.Subkind { return ast.SubFuncTransform }

func (h FunctionTransformerHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	name, args, err := functionCall(ctx, node)
	if err != nil {
		return nil, err
	}
	if running, ok, err := pipelineRunningValue(ctx, node); err != nil {
		return nil, err
	} else if ok {
		args = append([]interface{}{running}, args...)
	}
	fn, err := ctx.Functions().GetTransformer(name)
	if err != nil {
		return nil, thunkerr.NewThunkError(thunkerr.LookupFailed, node.ID, fmt.Sprintf("transformer function %q not registered", name), err)
	}
	result, err := fn(ctx, args)
	if err != nil {
		return nil, thunkerr.NewThunkError(thunkerr.EvaluationFailed, node.ID, fmt.Sprintf("transformer function %q failed", name), err)
	}
	return result, nil
}

// FunctionGeneratorHandler evaluates FUNCTION_GENERATOR.
type FunctionGeneratorHandler struct{}

func (FunctionGeneratorHandler) Subkind() ast.Subkind { return ast.SubFuncGenerator }

func (h FunctionGeneratorHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	name, args, err := functionCall(ctx, node)
	if err != nil {
		return nil, err
	}
	fn, err := ctx.Functions().GetGenerator(name)
	if err != nil {
		return nil, thunkerr.NewThunkError(thunkerr.LookupFailed, node.ID, fmt.Sprintf("generator function %q not registered", name), err)
	}
	result, err := fn(ctx, args)
	if err != nil {
		return nil, thunkerr.NewThunkError(thunkerr.EvaluationFailed, node.ID, fmt.Sprintf("generator function %q failed", name), err)
	}
	return result, nil
}

// FunctionEffectHandler evaluates FUNCTION_EFFECT: runs an author-registered
// side effect and reports it via Hooks for the application layer to observe.
type FunctionEffectHandler struct{}

func (FunctionEffectHandler) Subkind() ast.Subkind { return ast.SubFuncEffect }

func (h FunctionEffectHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	name, args, err := functionCall(ctx, node)
	if err != nil {
		return nil, err
	}
	fn, err := ctx.Functions().GetEffect(name)
	if err != nil {
		return nil, thunkerr.NewThunkError(thunkerr.LookupFailed, node.ID, fmt.Sprintf("effect function %q not registered", name), err)
	}
	if err := fn(ctx, args); err != nil {
		return nil, thunkerr.NewThunkError(thunkerr.EvaluationFailed, node.ID, fmt.Sprintf("effect function %q failed", name), err)
	}
	if hooks != nil {
		hooks.OnEffect(node.ID, name)
	}
	return nil, nil
}

// functionCall evaluates a function node's arguments. Per spec §4.6, a
// failed argument evaluation passes as undefined (nil) rather than aborting
// the whole call — only the failing argument degrades.
func functionCall(ctx thunk.Context, node *ast.Node) (string, []interface{}, error) {
	name := node.StringProp("name")
	items := node.Items("arguments")
	args := make([]interface{}, len(items))
	for i, item := range items {
		v, err := resolve(ctx, item)
		if err != nil {
			args[i] = nil
			continue
		}
		args[i] = v
	}
	return name, args, nil
}

// pipelineRunningValue resolves the running value a pipeline step folds in
// ahead of its own arguments: the previous step's (or the pipeline's input's)
// evaluated value, stamped onto the step node by internal/wire.wirePipeline.
// ok is false when the node isn't a pipeline step at all.
func pipelineRunningValue(ctx thunk.Context, node *ast.Node) (interface{}, bool, error) {
	if prev := node.Child("pipelineInput"); prev != nil {
		v, err := ctx.Resolve(prev.ID)
		return v, true, err
	}
	if lit, ok := node.Prop("pipelineInputLiteral"); ok {
		return lit, true, nil
	}
	return nil, false, nil
}
