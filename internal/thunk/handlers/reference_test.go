package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwright/formengine/internal/ast"
)

func TestReferenceHandlerResolvesRequestNamespaces(t *testing.T) {
	ctx := newFakeContext()
	ctx.request.Query = map[string]interface{}{"x": "hello"}

	node := newTestNode("ref1", ast.KindExpression, ast.SubReference, map[string]interface{}{
		"path": []interface{}{"query", "x"},
	})

	v, err := ReferenceHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestReferenceHandlerResolvesScopeNamespace(t *testing.T) {
	ctx := newFakeContext()
	ctx.PushScope(map[string]interface{}{"item": "widget"})

	node := newTestNode("ref1", ast.KindExpression, ast.SubReference, map[string]interface{}{
		"path": []interface{}{"@scope", "item"},
	})

	v, err := ReferenceHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, "widget", v)
}

func TestReferenceHandlerResolvesAnswersNamespace(t *testing.T) {
	ctx := newFakeContext()
	ctx.answers = &fakeAnswerStore{values: map[string]interface{}{"email": "a@b.com"}}

	node := newTestNode("ref1", ast.KindExpression, ast.SubReference, map[string]interface{}{
		"path": []interface{}{"answers", "email"},
	})

	v, err := ReferenceHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", v)
}

func TestReferenceHandlerMissingAnswerReturnsNil(t *testing.T) {
	ctx := newFakeContext()
	ctx.answers = &fakeAnswerStore{values: map[string]interface{}{}}

	node := newTestNode("ref1", ast.KindExpression, ast.SubReference, map[string]interface{}{
		"path": []interface{}{"answers", "missing"},
	})

	v, err := ReferenceHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestReferenceHandlerRejectsUnknownNamespace(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("ref1", ast.KindExpression, ast.SubReference, map[string]interface{}{
		"path": []interface{}{"bogus", "x"},
	})

	_, err := ReferenceHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	assert.Error(t, err)
}

func TestReferenceHandlerRejectsEmptyPath(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("ref1", ast.KindExpression, ast.SubReference, map[string]interface{}{
		"path": []interface{}{},
	})

	_, err := ReferenceHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	assert.Error(t, err)
}

func TestReferenceHandlerRejectsUnsafePropertyKey(t *testing.T) {
	ctx := newFakeContext()
	ctx.request.Data = map[string]interface{}{"__proto__": map[string]interface{}{"polluted": true}}

	node := newTestNode("ref1", ast.KindExpression, ast.SubReference, map[string]interface{}{
		"path": []interface{}{"data", "__proto__", "polluted"},
	})

	v, err := ReferenceHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestReferenceHandlerMissingNestedKeyReturnsNil(t *testing.T) {
	ctx := newFakeContext()
	ctx.request.Data = map[string]interface{}{"user": map[string]interface{}{"name": "Ann"}}

	node := newTestNode("ref1", ast.KindExpression, ast.SubReference, map[string]interface{}{
		"path": []interface{}{"data", "user", "age"},
	})

	v, err := ReferenceHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Nil(t, v)
}
