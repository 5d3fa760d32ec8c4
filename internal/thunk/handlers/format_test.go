package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwright/formengine/internal/ast"
)

func TestFormatHandlerSubstitutesArgumentsPositionally(t *testing.T) {
	ctx := newFakeContext()
	argNode := newTestNode("arg1", ast.KindExpression, ast.SubReference, nil)
	ctx.values["arg1"] = "world"

	node := newTestNode("fmt1", ast.KindExpression, ast.SubFormat, map[string]interface{}{
		"template":  "hello %1!",
		"arguments": []interface{}{argNode},
	})

	v, err := FormatHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, "hello world!", v)
}

func TestFormatHandlerEscapesArgumentsNotTemplate(t *testing.T) {
	ctx := newFakeContext()
	argNode := newTestNode("arg1", ast.KindExpression, ast.SubReference, nil)
	ctx.values["arg1"] = "Drugs & alcohol"

	node := newTestNode("fmt1", ast.KindExpression, ast.SubFormat, map[string]interface{}{
		"template":  "<h2>%1</h2>",
		"arguments": []interface{}{argNode},
	})

	v, err := FormatHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, "<h2>Drugs &amp; alcohol</h2>", v)
}

func TestFormatHandlerEscapesScriptInjectionAttempt(t *testing.T) {
	ctx := newFakeContext()
	argNode := newTestNode("arg1", ast.KindExpression, ast.SubReference, nil)
	ctx.values["arg1"] = "<script>x</script>"

	node := newTestNode("fmt1", ast.KindExpression, ast.SubFormat, map[string]interface{}{
		"template":  "<h2>%1</h2>",
		"arguments": []interface{}{argNode},
	})

	v, err := FormatHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, "<h2>&lt;script&gt;x&lt;/script&gt;</h2>", v)
}

func TestFormatHandlerOutOfRangePlaceholderRendersEmpty(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("fmt1", ast.KindExpression, ast.SubFormat, map[string]interface{}{
		"template":  "%1 and %2",
		"arguments": []interface{}{},
	})

	v, err := FormatHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, " and ", v)
}

func TestFormatHandlerWithNoPlaceholdersReturnsTemplateVerbatim(t *testing.T) {
	ctx := newFakeContext()
	node := newTestNode("fmt1", ast.KindExpression, ast.SubFormat, map[string]interface{}{
		"template":  "static text",
		"arguments": []interface{}{},
	})

	v, err := FormatHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, "static text", v)
}

func TestFormatHandlerNullArgumentRendersEmpty(t *testing.T) {
	ctx := newFakeContext()
	argNode := newTestNode("arg1", ast.KindExpression, ast.SubReference, nil)
	ctx.values["arg1"] = nil

	node := newTestNode("fmt1", ast.KindExpression, ast.SubFormat, map[string]interface{}{
		"template":  "[%1]",
		"arguments": []interface{}{argNode},
	})

	v, err := FormatHandler{}.Evaluate(ctx, node, fakeInvoker{}, &fakeHooks{})
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
