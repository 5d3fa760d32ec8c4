// Package wire populates the dependency graph (internal/graph) from a
// registered AST (internal/register.Result). Structural containment becomes
// STRUCTURAL edges, expression/predicate composition becomes DATA_FLOW edges,
// transition gating becomes CONTROL_FLOW edges, and effect ordering becomes
// EFFECT_FLOW edges (spec §4.4).
package wire

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/graph"
	"github.com/formwright/formengine/internal/register"
)

// Wire builds a graph.Graph from a registration Result and returns it sorted.
func Wire(root *ast.Node, result *register.Result) (*graph.Graph, error) {
	g := graph.New()

	for _, n := range result.Nodes.All() {
		g.AddNode(n.ID)
	}

	if err := wireStructural(g, root); err != nil {
		return nil, err
	}
	if err := wireReferenceSources(g, result); err != nil {
		return nil, err
	}
	if err := wireExpressionTrees(g, result); err != nil {
		return nil, err
	}
	if err := wireTransitions(g, result); err != nil {
		return nil, err
	}

	return g, nil
}

// wireStructural adds containment edges across the journey → step → block
// tree. Expression subtrees hung off a structural node (onLoad, a field's
// code, etc.) are NOT structural edges; those are wired as data/control/effect
// flow in the later passes.
func wireStructural(g *graph.Graph, root *ast.Node) error {
	var walk func(parent, n *ast.Node) error
	walk = func(parent, n *ast.Node) error {
		if n == nil {
			return nil
		}
		if parent != nil {
			if err := g.AddEdge(parent.ID, n.ID, graph.EdgeStructural, ""); err != nil {
				return err
			}
		}
		switch n.Subkind {
		case ast.SubJourney:
			for _, step := range n.Children("steps") {
				if err := walk(n, step); err != nil {
					return err
				}
			}
		case ast.SubStep:
			for _, block := range n.Children("blocks") {
				if err := walk(n, block); err != nil {
					return err
				}
			}
		case ast.SubBlock:
			for _, block := range n.Children("blocks") {
				if err := walk(n, block); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(nil, root)
}

// wireReferenceSources adds the DATA_FLOW edge from a synthesized pseudo node
// to the reference expression that draws from it.
func wireReferenceSources(g *graph.Graph, result *register.Result) error {
	for refID, pseudoID := range result.ReferencePseudoIDs {
		if err := g.AddEdge(pseudoID, refID, graph.EdgeDataFlow, ""); err != nil {
			return err
		}
	}
	return nil
}
