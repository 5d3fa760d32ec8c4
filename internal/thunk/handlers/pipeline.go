package handlers

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
)

// PipelineHandler evaluates a PIPELINE expression: input flows through each
// step node in sequence, the pipeline's value being whatever the last step
// produced (spec §6). Since internal/wire already chains input→step0→...→
// pipeline as DATA_FLOW edges, ctx.Resolve on the last step (or input, if there
// are no steps) is already the settled pipeline value.
type PipelineHandler struct{}

func (PipelineHandler) Subkind() ast.Subkind { return ast.SubPipeline }

func (PipelineHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	steps := node.Children("steps")
	if len(steps) > 0 {
		return ctx.Resolve(steps[len(steps)-1].ID)
	}
	if input := node.Child("input"); input != nil {
		return ctx.Resolve(input.ID)
	}
	return nil, nil
}
