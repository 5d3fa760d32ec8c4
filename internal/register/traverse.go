package register

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/registry"
)

// Result is everything the registration traverser produces for one
// compilation: every real and pseudo node registered by ID, per-node
// metadata, and the binding from a reference node to the pseudo node it
// draws from (consumed by internal/wire to add the DATA_FLOW source edge).
type Result struct {
	Nodes              *registry.NodeRegistry
	Metadata           *registry.MetadataRegistry
	PseudoNodes        []*ast.Node
	ReferencePseudoIDs map[string]string // reference node ID -> pseudo node ID
}

// Register runs the single-walk registration traverser over a normalized AST.
func Register(root *ast.Node, idGen *ast.IDGenerator) (*Result, error) {
	fieldCodes := collectFieldCodes(root)

	r := &Result{
		Nodes:              registry.NewNodeRegistry(),
		Metadata:           registry.NewMetadataRegistry(),
		ReferencePseudoIDs: make(map[string]string),
	}
	pseudoByKey := make(map[ast.PseudoKey]*ast.Node)

	w := &walker{
		result:     r,
		idGen:      idGen,
		fieldCodes: fieldCodes,
		pseudo:     pseudoByKey,
	}
	if err := w.walk(root, walkCtx{}); err != nil {
		return nil, err
	}

	for _, p := range pseudoByKey {
		if err := r.Nodes.Put(p); err != nil {
			return nil, err
		}
		r.Metadata.Set(p.ID, &registry.NodeMetadata{})
		r.PseudoNodes = append(r.PseudoNodes, p)
	}
	return r, nil
}

type walkCtx struct {
	parentID         string
	stepID           string
	attachedToParent bool
	scopeDepth       int
	fieldCode        string
}

type walker struct {
	result     *Result
	idGen      *ast.IDGenerator
	fieldCodes map[string]string
	pseudo     map[ast.PseudoKey]*ast.Node
}

func (w *walker) walk(n *ast.Node, ctx walkCtx) error {
	if n == nil {
		return nil
	}
	if err := w.result.Nodes.Put(n); err != nil {
		return err
	}

	stepID := ctx.stepID
	if n.Kind == ast.KindStructure && n.Subkind == ast.SubStep {
		stepID = n.ID
	}

	w.result.Metadata.Set(n.ID, &registry.NodeMetadata{
		ParentID:         ctx.parentID,
		StepID:           stepID,
		AttachedToParent: ctx.attachedToParent,
		ScopeDepth:       ctx.scopeDepth,
	})

	if n.Kind == ast.KindExpression && n.Subkind == ast.SubReference {
		if err := w.bindPseudoSource(n, stepID); err != nil {
			return err
		}
	}

	if n.Kind == ast.KindExpression && n.Subkind == ast.SubValidation {
		w.stampValidationFieldID(n, ctx.fieldCode)
	}

	fieldCode := ctx.fieldCode
	if n.Kind == ast.KindStructure && n.Subkind == ast.SubBlock && n.StringProp("blockVariant") == string(ast.BlockVariantField) {
		fieldCode = n.StringProp("code")
	}

	childScopeDepth := ctx.scopeDepth
	if n.Kind == ast.KindExpression && n.Subkind == ast.SubCollection {
		childScopeDepth++
	}

	for key, v := range n.Properties {
		childCtx := walkCtx{parentID: n.ID, stepID: stepID, attachedToParent: true, scopeDepth: childScopeDepth, fieldCode: fieldCode}
		if err := w.walkValue(v, childCtx, key); err != nil {
			return err
		}
	}
	return nil
}

// stampValidationFieldID fills in a VALIDATION node's fieldId from the
// nearest enclosing field block's code when the form JSON didn't set one
// explicitly (spec §4.6: the form's own validation objects carry only
// `when`/`message`, never `fieldId`).
func (w *walker) stampValidationFieldID(n *ast.Node, fieldCode string) {
	if existing, ok := n.Prop("fieldId"); ok {
		if s, ok := existing.(string); ok && s != "" {
			return
		}
	}
	n.Properties["fieldId"] = fieldCode
}

func (w *walker) walkValue(v interface{}, ctx walkCtx, key string) error {
	switch val := v.(type) {
	case *ast.Node:
		return w.walk(val, ctx)
	case []*ast.Node:
		for _, child := range val {
			if err := w.walk(child, ctx); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		// Items nested one level deeper (e.g. Format arguments, Reference path
		// segments) are not directly-attached children of the parent node.
		nested := ctx
		nested.attachedToParent = false
		for _, elem := range val {
			if err := w.walkValue(elem, nested, key); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// bindPseudoSource inspects a reference's path root to determine which
// pseudo namespace it draws from, synthesizing (or reusing) the
// corresponding pseudo node and recording the binding for the wirer.
func (w *walker) bindPseudoSource(ref *ast.Node, refStepID string) error {
	segments := ref.Items("path")
	if len(segments) == 0 {
		return nil
	}
	root, ok := segments[0].(string)
	if !ok {
		return nil
	}

	switch root {
	case "post":
		w.bind(ref, ast.SubPseudoPost, "")
	case "query":
		w.bind(ref, ast.SubPseudoQuery, "")
	case "params":
		w.bind(ref, ast.SubPseudoParams, "")
	case "data":
		w.bind(ref, ast.SubPseudoData, "")
	case "answers":
		if len(segments) < 2 {
			w.bind(ref, ast.SubPseudoAnswerRemote, "*")
			return nil
		}
		w.bindAnswer(ref, refStepID, segments)
	}
	return nil
}

func (w *walker) bindAnswer(ref *ast.Node, refStepID string, segments []interface{}) {
	// A dynamic second segment (e.g. a @scope-derived code inside a
	// collection template) cannot be resolved to a specific field at compile
	// time; it is conservatively bound to the wildcard remote-answer pseudo so
	// the graph still carries an AnswerStore dependency edge.
	code, literal := segments[1].(string)
	if !literal {
		w.bind(ref, ast.SubPseudoAnswerRemote, "*")
		return
	}

	owningStep, known := w.fieldCodes[code]
	if known && owningStep == refStepID {
		w.bind(ref, ast.SubPseudoAnswerLocal, code)
		return
	}
	w.bind(ref, ast.SubPseudoAnswerRemote, code)
}

func (w *walker) bind(ref *ast.Node, sub ast.Subkind, key string) {
	pk := ast.PseudoKey{Subkind: sub, Key: key}
	node, ok := w.pseudo[pk]
	if !ok {
		pseudo := &ast.PseudoNode{ID: w.idGen.Next(ast.CategoryCompilePseudo), Subkind: sub, Key: key}
		node = pseudo.Node()
		w.pseudo[pk] = node
	}
	w.result.ReferencePseudoIDs[ref.ID] = node.ID
}
