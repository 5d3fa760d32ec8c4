package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
)

// FormatHandler evaluates a FORMAT expression: a template string with 1-indexed
// `%N` placeholders substituted by the string form of the Nth evaluated
// argument (spec §4.6, §6, §8 scenario 1). Argument strings are HTML-escaped;
// the template itself is trusted and never escaped.
type FormatHandler struct{}

func (FormatHandler) Subkind() ast.Subkind { return ast.SubFormat }

func (FormatHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	template := node.StringProp("template")
	args, err := resolveAll(ctx, node.Items("arguments"))
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for i := 0; i < len(template); i++ {
		if template[i] != '%' || i+1 >= len(template) {
			b.WriteByte(template[i])
			continue
		}
		j := i + 1
		for j < len(template) && template[j] >= '0' && template[j] <= '9' {
			j++
		}
		if j == i+1 {
			// '%' not followed by a digit: emit verbatim.
			b.WriteByte(template[i])
			continue
		}
		n, _ := strconv.Atoi(template[i+1 : j])
		b.WriteString(escapeArgument(argumentAt(args, n)))
		i = j - 1
	}
	return b.String(), nil
}

// argumentAt returns the 1-indexed Nth argument's string form, or "" when n
// is out of range or the argument is nil.
func argumentAt(args []interface{}, n int) string {
	if n < 1 || n > len(args) {
		return ""
	}
	v := args[n-1]
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeArgument(s string) string {
	return htmlEscaper.Replace(s)
}
