// Package graphbuild adapts internal/compile and internal/eval behind the
// ports.GraphBuilder and ports.TransitionEvaluator interfaces, the same role
// the teacher's internal/infrastructure/engine package plays for
// internal/engine's DAG builder and executor: a thin infrastructure shim
// around a pure domain/compiler package, adding logging and event
// publication around each stage.
package graphbuild

import (
	"context"
	"time"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/compile"
	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/eval"
	"github.com/formwright/formengine/internal/ports"
	"github.com/formwright/formengine/internal/registry"
)

// Builder implements ports.GraphBuilder by running internal/compile.Compile
// and wrapping its Result as a ports.CompiledForm.
type Builder struct {
	handlers *registry.ThunkHandlerRegistry
	logger   ports.Logger
	events   ports.EventPublisher
}

func NewBuilder(handlers *registry.ThunkHandlerRegistry, logger ports.Logger, events ports.EventPublisher) *Builder {
	return &Builder{handlers: handlers, logger: logger, events: events}
}

func (b *Builder) Build(ctx context.Context, doc map[string]interface{}) (*ports.CompiledForm, error) {
	start := time.Now()
	if b.logger != nil {
		b.logger.Debug(ctx, "compiling form")
	}

	result, err := compile.Compile(doc, b.handlers)
	if err != nil {
		if b.logger != nil {
			b.logger.Error(ctx, "form compile failed", "error", err)
		}
		publishEvent(ctx, b.events, b.logger, ports.EventFormCompileFailed, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	if b.logger != nil {
		b.logger.Info(ctx, "form compiled", "nodes", result.Nodes.Len(), "duration", time.Since(start))
	}
	publishEvent(ctx, b.events, b.logger, ports.EventFormCompiled, map[string]interface{}{
		"nodes":    result.Nodes.Len(),
		"duration": time.Since(start),
	})

	return &ports.CompiledForm{
		Root:     result.Root,
		Graph:    result.Graph,
		Nodes:    result.Nodes,
		Metadata: result.Metadata,
		IsAsync:  result.IsAsync,
	}, nil
}

var _ ports.GraphBuilder = (*Builder)(nil)

// Evaluator implements ports.TransitionEvaluator over a compiled form.
type Evaluator struct {
	handlers  *registry.ThunkHandlerRegistry
	functions ports.FunctionRegistry
	answers   ports.AnswerStore
	logger    ports.Logger
	events    ports.EventPublisher
}

func NewEvaluator(handlers *registry.ThunkHandlerRegistry, functions ports.FunctionRegistry, answers ports.AnswerStore, logger ports.Logger, events ports.EventPublisher) *Evaluator {
	return &Evaluator{handlers: handlers, functions: functions, answers: answers, logger: logger, events: events}
}

func (e *Evaluator) newContext(ctx context.Context, compiled *ports.CompiledForm, req *ports.Request, sessionID string) *eval.Context {
	return eval.New(ctx, compiled.Nodes, e.handlers, compiled.IsAsync, e.functions, e.answers, req, sessionID)
}

// transitionScope is the @scope binding pushed around every transition
// evaluation: @transitionType (spec §4.6 effect semantics) plus the current
// step's own id and the ids of its structural ancestors (spec §4.3 steps
// 3-4). A compiled form is registered once and then evaluated once per
// transition against whichever step the request names, so "current step" is
// a per-call fact; MetadataRegistry.MarkCurrentStep computes it fresh here
// rather than the registration traverser baking a single step into metadata
// that every later evaluation (of every other step) would share.
func (e *Evaluator) transitionScope(compiled *ports.CompiledForm, step *ast.Node, transitionType form.TransitionKind) map[string]interface{} {
	scope := map[string]interface{}{
		"@transitionType": string(transitionType),
		"@currentStepId":  step.ID,
	}
	if compiled.Metadata == nil {
		return scope
	}
	marked := compiled.Metadata.MarkCurrentStep(step.ID)
	var ancestorIDs []string
	for _, n := range compiled.Nodes.All() {
		if m, ok := marked.Get(n.ID); ok && m.IsAncestorOfStep {
			ancestorIDs = append(ancestorIDs, n.ID)
		}
	}
	scope["@ancestorStepIds"] = ancestorIDs
	return scope
}

func (e *Evaluator) Load(ctx context.Context, compiled *ports.CompiledForm, step *ast.Node, req *ports.Request) (form.RenderContext, error) {
	return e.loadOrAccess(ctx, compiled, step, req, form.TransitionLoad)
}

func (e *Evaluator) Access(ctx context.Context, compiled *ports.CompiledForm, step *ast.Node, req *ports.Request) (form.AccessOutcome, error) {
	sessionID := requestSessionID(req)
	evalCtx := e.newContext(ctx, compiled, req, sessionID)
	evalCtx.PushScope(e.transitionScope(compiled, step, form.TransitionAccess))
	defer evalCtx.PopScope()

	onAccess := step.Child("onAccess")
	if onAccess == nil {
		return form.AccessOutcome{}, nil
	}
	v, err := evalCtx.Resolve(onAccess.ID)
	if err != nil {
		return form.AccessOutcome{}, err
	}
	outcome, ok := v.(*form.AccessOutcome)
	if !ok || outcome == nil {
		return form.AccessOutcome{}, nil
	}
	return *outcome, nil
}

func (e *Evaluator) Action(ctx context.Context, compiled *ports.CompiledForm, step *ast.Node, req *ports.Request) (form.ActionOutcome, error) {
	sessionID := requestSessionID(req)
	evalCtx := e.newContext(ctx, compiled, req, sessionID)
	evalCtx.PushScope(e.transitionScope(compiled, step, form.TransitionAction))
	defer evalCtx.PopScope()

	onAction := step.Child("onAction")
	if onAction == nil {
		return form.ActionOutcome{}, nil
	}
	v, err := evalCtx.Resolve(onAction.ID)
	if err != nil {
		return form.ActionOutcome{}, err
	}
	outcome, ok := v.(*form.ActionOutcome)
	if !ok || outcome == nil {
		return form.ActionOutcome{}, nil
	}
	return *outcome, nil
}

func (e *Evaluator) Submit(ctx context.Context, compiled *ports.CompiledForm, step *ast.Node, req *ports.Request) (form.SubmitOutcome, error) {
	sessionID := requestSessionID(req)
	evalCtx := e.newContext(ctx, compiled, req, sessionID)
	evalCtx.PushScope(e.transitionScope(compiled, step, form.TransitionSubmit))
	defer evalCtx.PopScope()

	onSubmit := step.Child("onSubmission")
	if onSubmit == nil {
		return form.SubmitOutcome{}, nil
	}
	v, err := evalCtx.Resolve(onSubmit.ID)
	if err != nil {
		if e.events != nil {
			publishEvent(ctx, e.events, e.logger, ports.EventTransitionFailed, map[string]interface{}{"step": step.ID, "error": err.Error()})
		}
		return form.SubmitOutcome{}, err
	}
	outcome, ok := v.(*form.SubmitOutcome)
	if !ok || outcome == nil {
		return form.SubmitOutcome{}, nil
	}
	if outcome.HasValidationFailures() {
		publishEvent(ctx, e.events, e.logger, ports.EventValidationFailed, map[string]interface{}{"step": step.ID, "count": len(outcome.ValidationResults)})
	}
	for _, rec := range evalCtx.Effects() {
		publishEvent(ctx, e.events, e.logger, ports.EventEffectExecuted, map[string]interface{}{"step": step.ID, "node": rec.NodeID, "effect": rec.Effect})
	}
	return *outcome, nil
}

func (e *Evaluator) loadOrAccess(ctx context.Context, compiled *ports.CompiledForm, step *ast.Node, req *ports.Request, kind form.TransitionKind) (form.RenderContext, error) {
	sessionID := requestSessionID(req)
	evalCtx := e.newContext(ctx, compiled, req, sessionID)
	evalCtx.PushScope(e.transitionScope(compiled, step, kind))
	defer evalCtx.PopScope()

	onLoad := step.Child("onLoad")
	if onLoad != nil {
		if _, err := evalCtx.Resolve(onLoad.ID); err != nil {
			return form.RenderContext{}, err
		}
	}

	render := form.RenderContext{StepID: step.ID}
	for _, block := range step.Children("blocks") {
		rendered, err := renderBlock(evalCtx, block)
		if err != nil {
			return form.RenderContext{}, err
		}
		render.Blocks = append(render.Blocks, rendered)
	}
	return render, nil
}

func renderBlock(evalCtx *eval.Context, block *ast.Node) (form.RenderedBlock, error) {
	props := make(map[string]interface{})
	for key, raw := range block.Properties {
		if child, ok := raw.(*ast.Node); ok {
			v, err := evalCtx.Resolve(child.ID)
			if err != nil {
				return form.RenderedBlock{}, err
			}
			props[key] = v
			continue
		}
		if key == "blockVariant" || key == "children" {
			continue
		}
		props[key] = raw
	}

	rendered := form.RenderedBlock{
		NodeID:  block.ID,
		Variant: block.StringProp("blockVariant"),
		Props:   props,
	}
	for _, child := range block.Children("children") {
		childBlock, err := renderBlock(evalCtx, child)
		if err != nil {
			return form.RenderedBlock{}, err
		}
		rendered.Children = append(rendered.Children, childBlock)
	}
	return rendered, nil
}

func requestSessionID(req *ports.Request) string {
	if req == nil || req.Data == nil {
		return ""
	}
	if sid, ok := req.Data["sessionId"].(string); ok {
		return sid
	}
	return ""
}

func publishEvent(ctx context.Context, publisher ports.EventPublisher, logger ports.Logger, eventType string, payload map[string]interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, simpleEvent{eventType: eventType, payload: payload}); err != nil && logger != nil {
		logger.Warn(ctx, "failed to publish domain event", "event_type", eventType, "error", err)
	}
}

type simpleEvent struct {
	eventType string
	payload   interface{}
}

func (e simpleEvent) EventType() string { return e.eventType }
func (e simpleEvent) Payload() interface{} { return e.payload }

var _ ports.TransitionEvaluator = (*Evaluator)(nil)
