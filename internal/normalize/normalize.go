// Package normalize applies compile-time rewrites to a freshly transformed
// AST before registration. Today this is exactly one rewrite: substituting
// `@self` inside a field-scoped `answers` reference with a deep clone of the
// enclosing field's `code` property (spec §4.2).
package normalize

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/pkg/thunkerr"
)

// Normalizer walks an AST minting fresh IDs for any cloned subtree it
// produces, so no two positions in the normalized tree alias the same node.
type Normalizer struct {
	idGen *ast.IDGenerator
}

func New(idGen *ast.IDGenerator) *Normalizer {
	return &Normalizer{idGen: idGen}
}

// ResolveSelfReferences normalizes root in place and returns it for chaining.
func ResolveSelfReferences(root *ast.Node, idGen *ast.IDGenerator) (*ast.Node, error) {
	n := New(idGen)
	if err := n.walk(root, nil, false); err != nil {
		return nil, err
	}
	return root, nil
}

// fieldFrame tracks the nearest enclosing field block while walking. Whether
// the walk is inside that field's own `code` property (the recursion guard
// for self_inside_code) is passed to walk as its own argument; the
// insideCode field here is never set.
type fieldFrame struct {
	field     *ast.Node
	insideCode bool
}

func (n *Normalizer) walk(node *ast.Node, frame *fieldFrame, insideCode bool) error {
	if node == nil {
		return nil
	}

	nextFrame := frame
	if node.Kind == ast.KindStructure && node.Subkind == ast.SubBlock && node.StringProp("blockVariant") == string(ast.BlockVariantField) {
		nextFrame = &fieldFrame{field: node}
	}

	if node.Kind == ast.KindExpression && node.Subkind == ast.SubReference {
		if err := n.maybeResolveSelf(node, nextFrame, insideCode); err != nil {
			return err
		}
	}

	for key, v := range node.Properties {
		childInsideCode := insideCode
		if nextFrame != nil && node == nextFrame.field && key == "code" {
			childInsideCode = true
		}
		if err := n.walkValue(v, nextFrame, childInsideCode); err != nil {
			return err
		}
	}
	return nil
}

func (n *Normalizer) walkValue(v interface{}, frame *fieldFrame, insideCode bool) error {
	switch val := v.(type) {
	case *ast.Node:
		return n.walk(val, frame, insideCode)
	case []*ast.Node:
		for _, child := range val {
			if err := n.walk(child, frame, insideCode); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		for _, elem := range val {
			if err := n.walkValue(elem, frame, insideCode); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (n *Normalizer) maybeResolveSelf(ref *ast.Node, frame *fieldFrame, insideCode bool) error {
	segments := ref.Items("path")
	if len(segments) < 2 {
		return nil
	}
	root, ok := segments[0].(string)
	if !ok || root != "answers" {
		return nil
	}
	marker, ok := segments[1].(string)
	if !ok || marker != "@self" {
		return nil
	}

	if insideCode {
		return thunkerr.NewCompileError(thunkerr.CompileSelfMisuse, ref.ID, "self_inside_code: @self cannot appear inside the field's own code property", []string{ref.ID}, nil)
	}
	if frame == nil || frame.field == nil {
		return thunkerr.NewCompileError(thunkerr.CompileSelfMisuse, ref.ID, "self_outside_field: @self used outside any enclosing field block", []string{ref.ID}, nil)
	}
	code, hasCode := frame.field.Prop("code")
	if !hasCode || code == nil {
		return thunkerr.NewCompileError(thunkerr.CompileSelfMisuse, ref.ID, "missing_field_code: enclosing field has no code property", []string{ref.ID, frame.field.ID}, nil)
	}

	cloned := n.deepClone(code)
	resolved := make([]interface{}, len(segments))
	copy(resolved, segments)
	resolved[1] = cloned
	ref.Properties["path"] = resolved
	return nil
}

// deepClone copies a property value, minting fresh IDs for any *ast.Node it
// contains so the cloned subtree never aliases the original.
func (n *Normalizer) deepClone(v interface{}) interface{} {
	switch val := v.(type) {
	case *ast.Node:
		props := make(map[string]interface{}, len(val.Properties))
		for k, p := range val.Properties {
			props[k] = n.deepClone(p)
		}
		return ast.NewNode(n.idGen.Next(ast.CategoryCompileAST), val.Kind, val.Subkind, props, val.Raw)
	case []*ast.Node:
		out := make([]*ast.Node, len(val))
		for i, child := range val {
			out[i] = n.deepClone(child).(*ast.Node)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = n.deepClone(elem)
		}
		return out
	default:
		return val
	}
}
