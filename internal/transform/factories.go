package transform

import (
	"fmt"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/pkg/thunkerr"
)

// expressionFactories maps a JSON `type` discriminator to the builder for that
// expression/predicate/transition node. Several tags (predicate.and/or/xor/not,
// collection) are not spelled out verbatim in the source spec's elided JSON
// examples; their names and property schemes are this package's own choice.
var expressionFactories = map[string]func(*Transformer, map[string]interface{}, string) (interface{}, error){
	"reference":           (*Transformer).buildReference,
	"format":              (*Transformer).buildFormat,
	"pipeline":            (*Transformer).buildPipeline,
	"conditional":         (*Transformer).buildConditional,
	"iterator.filter":     (*Transformer).buildIterateFilter,
	"iterator.map":        (*Transformer).buildIterateMap,
	"iterator.find":       (*Transformer).buildIterateFind,
	"collection":          (*Transformer).buildCollection,
	"predicate.test":      (*Transformer).buildPredicateTest,
	"predicate.and":       (*Transformer).buildPredicateAnd,
	"predicate.or":        (*Transformer).buildPredicateOr,
	"predicate.xor":       (*Transformer).buildPredicateXor,
	"predicate.not":       (*Transformer).buildPredicateNot,
	"function.condition":  (*Transformer).buildFunctionCondition,
	"function.transformer": (*Transformer).buildFunctionTransformer,
	"function.generator":  (*Transformer).buildFunctionGenerator,
	"function.effect":     (*Transformer).buildFunctionEffect,
	"validation":          (*Transformer).buildValidation,
	"next":                (*Transformer).buildNext,
	"throw-error":         (*Transformer).buildThrowError,
	"transition.load":     (*Transformer).buildTransitionLoad,
	"transition.access":   (*Transformer).buildTransitionAccess,
	"transition.action":   (*Transformer).buildTransitionAction,
	"transition.submit":   (*Transformer).buildTransitionSubmit,
}

// --- structural nodes -------------------------------------------------

func (t *Transformer) buildJourney(obj map[string]interface{}, path string) (interface{}, error) {
	steps, err := t.nodeSliceField(obj, "steps", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{
		"id":    obj["id"],
		"steps": steps,
	}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindStructure, ast.SubJourney, props, obj), nil
}

func (t *Transformer) buildStep(obj map[string]interface{}, path string) (interface{}, error) {
	blocks, err := t.nodeSliceField(obj, "blocks", path)
	if err != nil {
		return nil, err
	}
	onLoad, err := t.field(obj, "onLoad", path)
	if err != nil {
		return nil, err
	}
	onAccess, err := t.field(obj, "onAccess", path)
	if err != nil {
		return nil, err
	}
	onAction, err := t.field(obj, "onAction", path)
	if err != nil {
		return nil, err
	}
	onSubmission, err := t.field(obj, "onSubmission", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{
		"id":           obj["id"],
		"blocks":       blocks,
		"onLoad":       onLoad,
		"onAccess":     onAccess,
		"onAction":     onAction,
		"onSubmission": onSubmission,
	}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindStructure, ast.SubStep, props, obj), nil
}

func (t *Transformer) buildBlock(obj map[string]interface{}, path string) (interface{}, error) {
	variant, _ := obj["variant"].(string)
	props := map[string]interface{}{"blockVariant": variant}
	for k, v := range obj {
		if k == "variant" {
			continue
		}
		transformed, err := t.dispatch(v, path+"."+k)
		if err != nil {
			return nil, err
		}
		props[k] = transformed
	}
	sub := ast.SubBlock
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindStructure, sub, props, obj), nil
}

// --- expression nodes ---------------------------------------------------

func (t *Transformer) buildReference(obj map[string]interface{}, path string) (interface{}, error) {
	rawPath, ok := obj["path"].([]interface{})
	if !ok {
		return nil, thunkerr.NewCompileError(thunkerr.CompileInvalidPath, path, "reference.path must be an array", nil, nil)
	}
	segments := make([]interface{}, 0, len(rawPath))
	for i, seg := range rawPath {
		transformed, err := t.dispatch(seg, fmt.Sprintf("%s.path[%d]", path, i))
		if err != nil {
			return nil, err
		}
		segments = append(segments, transformed)
	}
	props := map[string]interface{}{"path": segments}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindExpression, ast.SubReference, props, obj), nil
}

func (t *Transformer) buildFormat(obj map[string]interface{}, path string) (interface{}, error) {
	args, err := t.field(obj, "arguments", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{
		"template":  obj["template"],
		"arguments": args,
	}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindExpression, ast.SubFormat, props, obj), nil
}

func (t *Transformer) buildPipeline(obj map[string]interface{}, path string) (interface{}, error) {
	input, err := t.field(obj, "input", path)
	if err != nil {
		return nil, err
	}
	steps, err := t.nodeSliceField(obj, "steps", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{"input": input, "steps": steps}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindExpression, ast.SubPipeline, props, obj), nil
}

func (t *Transformer) buildConditional(obj map[string]interface{}, path string) (interface{}, error) {
	predicate, err := t.field(obj, "predicate", path)
	if err != nil {
		return nil, err
	}
	thenValue, err := t.field(obj, "thenValue", path)
	if err != nil {
		return nil, err
	}
	elseValue, err := t.field(obj, "elseValue", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{"predicate": predicate, "thenValue": thenValue, "elseValue": elseValue}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindExpression, ast.SubConditional, props, obj), nil
}

// buildIterate is shared by the three iterator variants, which differ only
// in subkind and whether a `transform` key is expected alongside `predicate`.
func (t *Transformer) buildIterate(obj map[string]interface{}, path string, sub ast.Subkind) (interface{}, error) {
	collection, err := t.field(obj, "collection", path)
	if err != nil {
		return nil, err
	}
	predicate, err := t.field(obj, "predicate", path)
	if err != nil {
		return nil, err
	}
	transform, err := t.field(obj, "transform", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{
		"collection": collection,
		"predicate":  predicate,
		"transform":  transform,
	}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindExpression, sub, props, obj), nil
}

func (t *Transformer) buildIterateFilter(obj map[string]interface{}, path string) (interface{}, error) {
	return t.buildIterate(obj, path, ast.SubIterateFilter)
}

func (t *Transformer) buildIterateMap(obj map[string]interface{}, path string) (interface{}, error) {
	return t.buildIterate(obj, path, ast.SubIterateMap)
}

func (t *Transformer) buildIterateFind(obj map[string]interface{}, path string) (interface{}, error) {
	return t.buildIterate(obj, path, ast.SubIterateFind)
}

func (t *Transformer) buildCollection(obj map[string]interface{}, path string) (interface{}, error) {
	source, err := t.field(obj, "source", path)
	if err != nil {
		return nil, err
	}
	template, err := t.field(obj, "template", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{"source": source, "template": template}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindExpression, ast.SubCollection, props, obj), nil
}

func (t *Transformer) buildPredicateTest(obj map[string]interface{}, path string) (interface{}, error) {
	subject, err := t.field(obj, "subject", path)
	if err != nil {
		return nil, err
	}
	condition, err := t.field(obj, "condition", path)
	if err != nil {
		return nil, err
	}
	negate, _ := obj["negate"].(bool)
	props := map[string]interface{}{"subject": subject, "condition": condition, "negate": negate}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindPredicate, ast.SubTest, props, obj), nil
}

func (t *Transformer) buildPredicateCombinator(obj map[string]interface{}, path string, sub ast.Subkind) (interface{}, error) {
	operands, err := t.nodeSliceField(obj, "operands", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{"operands": operands}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindPredicate, sub, props, obj), nil
}

func (t *Transformer) buildPredicateAnd(obj map[string]interface{}, path string) (interface{}, error) {
	return t.buildPredicateCombinator(obj, path, ast.SubAnd)
}

func (t *Transformer) buildPredicateOr(obj map[string]interface{}, path string) (interface{}, error) {
	return t.buildPredicateCombinator(obj, path, ast.SubOr)
}

func (t *Transformer) buildPredicateXor(obj map[string]interface{}, path string) (interface{}, error) {
	return t.buildPredicateCombinator(obj, path, ast.SubXor)
}

func (t *Transformer) buildPredicateNot(obj map[string]interface{}, path string) (interface{}, error) {
	operand, err := t.field(obj, "operand", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{"operand": operand}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindPredicate, ast.SubNot, props, obj), nil
}

func (t *Transformer) buildFunctionNode(obj map[string]interface{}, path string, sub ast.Subkind) (interface{}, error) {
	args, err := t.field(obj, "arguments", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{
		"name":      obj["name"],
		"arguments": args,
	}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindExpression, sub, props, obj), nil
}

func (t *Transformer) buildFunctionCondition(obj map[string]interface{}, path string) (interface{}, error) {
	return t.buildFunctionNode(obj, path, ast.SubFuncCondition)
}

func (t *Transformer) buildFunctionTransformer(obj map[string]interface{}, path string) (interface{}, error) {
	return t.buildFunctionNode(obj, path, ast.SubFuncTransform)
}

func (t *Transformer) buildFunctionGenerator(obj map[string]interface{}, path string) (interface{}, error) {
	return t.buildFunctionNode(obj, path, ast.SubFuncGenerator)
}

func (t *Transformer) buildFunctionEffect(obj map[string]interface{}, path string) (interface{}, error) {
	return t.buildFunctionNode(obj, path, ast.SubFuncEffect)
}

func (t *Transformer) buildValidation(obj map[string]interface{}, path string) (interface{}, error) {
	when, err := t.field(obj, "when", path)
	if err != nil {
		return nil, err
	}
	message, err := t.field(obj, "message", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{
		// fieldId is copied from the JSON and is nil when omitted; the
		// registration traverser then stamps the nearest enclosing field
		// block's `code` onto it while walking (stampValidationFieldID).
		"fieldId": obj["fieldId"],
		"when":    when,
		"message": message,
	}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindExpression, ast.SubValidation, props, obj), nil
}

func (t *Transformer) buildNext(obj map[string]interface{}, path string) (interface{}, error) {
	when, err := t.field(obj, "when", path)
	if err != nil {
		return nil, err
	}
	goto_, err := t.field(obj, "goto", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{"when": when, "goto": goto_}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindExpression, ast.SubNext, props, obj), nil
}

func (t *Transformer) buildThrowError(obj map[string]interface{}, path string) (interface{}, error) {
	when, err := t.field(obj, "when", path)
	if err != nil {
		return nil, err
	}
	message, err := t.field(obj, "message", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{
		"when":    when,
		"status":  obj["status"],
		"message": message,
	}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindExpression, ast.SubThrowError, props, obj), nil
}

// --- transition nodes ----------------------------------------------------

func (t *Transformer) buildTransitionLoad(obj map[string]interface{}, path string) (interface{}, error) {
	effects, err := t.nodeSliceField(obj, "effects", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{"effects": effects}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindTransition, ast.SubLoad, props, obj), nil
}

func (t *Transformer) buildTransitionAccess(obj map[string]interface{}, path string) (interface{}, error) {
	when, err := t.field(obj, "when", path)
	if err != nil {
		return nil, err
	}
	effects, err := t.nodeSliceField(obj, "effects", path)
	if err != nil {
		return nil, err
	}
	redirect, err := t.field(obj, "redirect", path)
	if err != nil {
		return nil, err
	}
	message, err := t.field(obj, "message", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{
		"when":     when,
		"effects":  effects,
		"redirect": redirect,
		"message":  message,
		"status":   obj["status"],
	}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindTransition, ast.SubAccess, props, obj), nil
}

func (t *Transformer) buildTransitionAction(obj map[string]interface{}, path string) (interface{}, error) {
	when, err := t.field(obj, "when", path)
	if err != nil {
		return nil, err
	}
	effects, err := t.nodeSliceField(obj, "effects", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{"when": when, "effects": effects}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindTransition, ast.SubAction, props, obj), nil
}

func (t *Transformer) buildTransitionSubmit(obj map[string]interface{}, path string) (interface{}, error) {
	when, err := t.field(obj, "when", path)
	if err != nil {
		return nil, err
	}
	guards, err := t.nodeSliceField(obj, "guards", path)
	if err != nil {
		return nil, err
	}
	validate, err := t.nodeSliceField(obj, "validate", path)
	if err != nil {
		return nil, err
	}
	onAlways, err := t.nodeSliceField(obj, "onAlwaysEffects", path)
	if err != nil {
		return nil, err
	}
	onValidEffects, err := t.nodeSliceField(obj, "onValidEffects", path)
	if err != nil {
		return nil, err
	}
	onValidNext, err := t.nodeSliceField(obj, "onValidNext", path)
	if err != nil {
		return nil, err
	}
	onInvalidEffects, err := t.nodeSliceField(obj, "onInvalidEffects", path)
	if err != nil {
		return nil, err
	}
	onInvalidNext, err := t.nodeSliceField(obj, "onInvalidNext", path)
	if err != nil {
		return nil, err
	}
	props := map[string]interface{}{
		"when":             when,
		"guards":           guards,
		"validate":         validate,
		"onAlwaysEffects":  onAlways,
		"onValidEffects":   onValidEffects,
		"onValidNext":      onValidNext,
		"onInvalidEffects": onInvalidEffects,
		"onInvalidNext":    onInvalidNext,
	}
	return ast.NewNode(t.nextID(ast.CategoryCompileAST), ast.KindTransition, ast.SubSubmit, props, obj), nil
}
