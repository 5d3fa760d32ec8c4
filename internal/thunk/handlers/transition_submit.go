package handlers

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/thunk"
)

// SubmitHandler evaluates a TRANSITION.SUBMIT node (spec §4.6 and the
// resolved onAction/onAlways Open Questions): gate on `when` and `guards`,
// run `validate` to collect ValidationMessages, run onAlwaysEffects, then the
// winning branch's effects, then resolve that branch's first matching `next`
// (or `throw-error`) entry.
type SubmitHandler struct{}

func (SubmitHandler) Subkind() ast.Subkind { return ast.SubSubmit }

func (SubmitHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	if gated, err := submitGated(ctx, node); err != nil {
		return nil, err
	} else if gated {
		return &form.SubmitOutcome{}, nil
	}

	results, err := runValidations(ctx, node.Children("validate"))
	if err != nil {
		return nil, err
	}

	for _, eff := range node.Children("onAlwaysEffects") {
		if _, err := ctx.Resolve(eff.ID); err != nil {
			return nil, err
		}
	}

	branch := form.BranchValid
	effectsKey, nextKey := "onValidEffects", "onValidNext"
	if len(results) > 0 {
		branch = form.BranchInvalid
		effectsKey, nextKey = "onInvalidEffects", "onInvalidNext"
	}

	for _, eff := range node.Children(effectsKey) {
		if _, err := ctx.Resolve(eff.ID); err != nil {
			return nil, err
		}
	}

	outcome := &form.SubmitOutcome{Branch: branch, ValidationResults: toValidationMessages(results)}
	for _, next := range node.Children(nextKey) {
		v, err := ctx.Resolve(next.ID)
		if err != nil {
			return nil, err
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				outcome.Goto = val
				return outcome, nil
			}
		case *ThrowOutcome:
			if val != nil {
				outcome.ThrowStatus = val.Status
				outcome.ThrowMessage = val.Message
				return outcome, nil
			}
		}
	}
	return outcome, nil
}

func submitGated(ctx thunk.Context, node *ast.Node) (bool, error) {
	if when := node.Child("when"); when != nil {
		v, err := ctx.Resolve(when.ID)
		if err != nil {
			return false, err
		}
		if !truthy(v) {
			return true, nil
		}
	}
	for _, guard := range node.Children("guards") {
		v, err := ctx.Resolve(guard.ID)
		if err != nil {
			return false, err
		}
		if !truthy(v) {
			return true, nil
		}
	}
	return false, nil
}

func runValidations(ctx thunk.Context, nodes []*ast.Node) ([]*form.ValidationMessage, error) {
	var results []*form.ValidationMessage
	for _, v := range nodes {
		val, err := ctx.Resolve(v.ID)
		if err != nil {
			return nil, err
		}
		if msg, ok := val.(*form.ValidationMessage); ok && msg != nil {
			results = append(results, msg)
		}
	}
	return results, nil
}

func toValidationMessages(in []*form.ValidationMessage) []form.ValidationMessage {
	out := make([]form.ValidationMessage, len(in))
	for i, m := range in {
		out[i] = *m
	}
	return out
}
