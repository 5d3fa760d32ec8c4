package ast

// PseudoNode is the synthesized side-channel node representing a request-side
// input (post/query/params/data) or an answer source (local/remote). Pseudo
// nodes are created during registration, never by the transformer.
type PseudoNode struct {
	ID         string
	Subkind    Subkind
	Key        string // field code or request parameter name
	Properties map[string]interface{}
}

// Node adapts a PseudoNode to the generic *Node shape so it can participate
// uniformly in the registry and dependency graph.
func (p *PseudoNode) Node() *Node {
	props := map[string]interface{}{"key": p.Key}
	for k, v := range p.Properties {
		props[k] = v
	}
	return NewNode(p.ID, KindPseudo, p.Subkind, props, nil)
}

// PseudoKey uniquely identifies a pseudo node within its subkind.
type PseudoKey struct {
	Subkind Subkind
	Key     string
}
