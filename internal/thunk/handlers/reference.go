package handlers

import (
	"fmt"
	"regexp"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
	"github.com/formwright/formengine/pkg/thunkerr"
)

// safeKeyPattern is the allow-list for a single path segment used to index
// into a map during reference resolution (spec §4.6, §7): plain identifier
// characters only. Dotted/bracket escape attempts fail the pattern;
// `__proto__`, `constructor` and `prototype` do match it, so isSafeKey
// rejects those by name.
var safeKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func isSafeKey(key string) bool {
	if !safeKeyPattern.MatchString(key) {
		return false
	}
	switch key {
	case "__proto__", "constructor", "prototype":
		return false
	}
	return true
}

// ReferenceHandler evaluates a REFERENCE expression by resolving its path
// against one of the pseudo-namespaces (post/query/params/data/answers) or
// the current @scope binding (spec §6).
type ReferenceHandler struct{}

func (ReferenceHandler) Subkind() ast.Subkind { return ast.SubReference }

func (h ReferenceHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	segments, err := resolveAll(ctx, node.Items("path"))
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, thunkerr.NewThunkError(thunkerr.LookupFailed, node.ID, "reference path is empty", nil)
	}

	root, ok := segments[0].(string)
	if !ok {
		return nil, thunkerr.NewTypeMismatch(node.ID, "string (path root)", fmt.Sprintf("%T", segments[0]))
	}

	switch root {
	case "post":
		return degradeSecurityViolation(walkMap(node.ID, ctx.Request().Post, segments[1:]))
	case "query":
		return degradeSecurityViolation(walkMap(node.ID, ctx.Request().Query, segments[1:]))
	case "params":
		return degradeSecurityViolation(walkMap(node.ID, ctx.Request().Params, segments[1:]))
	case "data":
		return degradeSecurityViolation(walkMap(node.ID, ctx.Request().Data, segments[1:]))
	case "@scope":
		return degradeSecurityViolation(walkMap(node.ID, ctx.Scope(), segments[1:]))
	case "answers":
		return h.resolveAnswer(ctx, node, segments[1:])
	default:
		return nil, thunkerr.NewThunkError(thunkerr.LookupFailed, node.ID, fmt.Sprintf("unknown reference namespace %q", root), nil)
	}
}

func (h ReferenceHandler) resolveAnswer(ctx thunk.Context, node *ast.Node, rest []interface{}) (interface{}, error) {
	if len(rest) == 0 {
		return nil, thunkerr.NewThunkError(thunkerr.LookupFailed, node.ID, "answers reference missing field code", nil)
	}
	code, ok := rest[0].(string)
	if !ok {
		return nil, thunkerr.NewTypeMismatch(node.ID, "string (field code)", fmt.Sprintf("%T", rest[0]))
	}
	val, found, err := ctx.Answers().Get(ctx, ctx.SessionID(), code)
	if err != nil {
		return nil, thunkerr.NewThunkError(thunkerr.EvaluationFailed, node.ID, "answer store lookup failed", err)
	}
	if !found {
		return nil, nil
	}
	return degradeSecurityViolation(walkValue(node.ID, val, rest[1:]))
}

// degradeSecurityViolation implements the spec §7 rule that a SECURITY_VIOLATION
// from an unsafe property key evaluates to undefined at the reference node
// itself rather than bubbling as a hard failure.
func degradeSecurityViolation(v interface{}, err error) (interface{}, error) {
	if thunkerr.IsCategory(err, thunkerr.SecurityViolation) {
		return nil, nil
	}
	return v, err
}

// walkMap indexes into a map by a chain of literal string keys.
func walkMap(nodeID string, m map[string]interface{}, keys []interface{}) (interface{}, error) {
	var cur interface{} = m
	return walkValue(nodeID, cur, keys)
}

func walkValue(nodeID string, cur interface{}, keys []interface{}) (interface{}, error) {
	for _, k := range keys {
		key, ok := k.(string)
		if !ok {
			return nil, thunkerr.NewTypeMismatch(nodeID, "string (path segment)", fmt.Sprintf("%T", k))
		}
		if !isSafeKey(key) {
			return nil, thunkerr.NewThunkError(thunkerr.SecurityViolation, nodeID, fmt.Sprintf("unsafe property key %q", key), nil)
		}
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, nil
		}
		cur = m[key]
	}
	return cur, nil
}
