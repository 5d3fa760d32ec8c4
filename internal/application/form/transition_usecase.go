package form

import (
	"context"
	"fmt"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/ports"
)

// TransitionUseCase runs a single LOAD/ACCESS/ACTION/SUBMIT transition
// against an already-compiled form, locating the target step by ID and
// delegating to ports.TransitionEvaluator.
type TransitionUseCase struct {
	evaluator ports.TransitionEvaluator
	logger    ports.Logger
	events    ports.EventPublisher
}

func NewTransitionUseCase(evaluator ports.TransitionEvaluator, logger ports.Logger, events ports.EventPublisher) *TransitionUseCase {
	return &TransitionUseCase{evaluator: evaluator, logger: logger, events: events}
}

// Load runs a step's onLoad and returns its rendered blocks.
func (u *TransitionUseCase) Load(ctx context.Context, compiled *ports.CompiledForm, stepID string, req *ports.Request) (form.RenderContext, error) {
	step, err := findStep(compiled.Root, stepID)
	if err != nil {
		return form.RenderContext{}, err
	}
	u.logTransition(ctx, "load", stepID)
	return u.evaluator.Load(ctx, compiled, step, req)
}

// Access runs a step's onAccess gate.
func (u *TransitionUseCase) Access(ctx context.Context, compiled *ports.CompiledForm, stepID string, req *ports.Request) (form.AccessOutcome, error) {
	step, err := findStep(compiled.Root, stepID)
	if err != nil {
		return form.AccessOutcome{}, err
	}
	u.logTransition(ctx, "access", stepID)
	return u.evaluator.Access(ctx, compiled, step, req)
}

// Action runs a step's onAction.
func (u *TransitionUseCase) Action(ctx context.Context, compiled *ports.CompiledForm, stepID string, req *ports.Request) (form.ActionOutcome, error) {
	step, err := findStep(compiled.Root, stepID)
	if err != nil {
		return form.ActionOutcome{}, err
	}
	u.logTransition(ctx, "action", stepID)
	return u.evaluator.Action(ctx, compiled, step, req)
}

// Submit runs a step's onSubmit, the only transition that can move the
// journey forward via its resolved Next goto.
func (u *TransitionUseCase) Submit(ctx context.Context, compiled *ports.CompiledForm, stepID string, req *ports.Request) (form.SubmitOutcome, error) {
	step, err := findStep(compiled.Root, stepID)
	if err != nil {
		return form.SubmitOutcome{}, err
	}
	u.logTransition(ctx, "submit", stepID)

	publishEvent(ctx, u.events, u.logger, ports.EventTransitionStarted, map[string]interface{}{"step": stepID, "kind": "submit"})
	outcome, err := u.evaluator.Submit(ctx, compiled, step, req)
	if err != nil {
		publishEvent(ctx, u.events, u.logger, ports.EventTransitionFailed, map[string]interface{}{"step": stepID, "error": err.Error()})
		return form.SubmitOutcome{}, err
	}
	publishEvent(ctx, u.events, u.logger, ports.EventTransitionCompleted, map[string]interface{}{"step": stepID, "branch": string(outcome.Branch)})
	return outcome, nil
}

func (u *TransitionUseCase) logTransition(ctx context.Context, kind, stepID string) {
	if u.logger != nil {
		u.logger.Debug(ctx, "running transition", "kind", kind, "step", stepID)
	}
}

func findStep(root *ast.Node, stepID string) (*ast.Node, error) {
	for _, step := range root.Children("steps") {
		if step.ID == stepID {
			return step, nil
		}
	}
	return nil, fmt.Errorf("form: step %q not found in compiled journey", stepID)
}
