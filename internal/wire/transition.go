package wire

import (
	"fmt"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/graph"
	"github.com/formwright/formengine/internal/register"
)

// wireTransitions wires the four transition subkinds: LOAD, ACCESS, ACTION,
// SUBMIT. Gate predicates (`when`, `guards`) become CONTROL_FLOW edges;
// effect lists become sequenced EFFECT_FLOW chains; redirect/message/status
// values become ordinary DATA_FLOW edges.
func wireTransitions(g *graph.Graph, result *register.Result) error {
	for _, n := range result.Nodes.All() {
		var err error
		switch n.Subkind {
		case ast.SubLoad:
			err = wireLoad(g, n)
		case ast.SubAccess:
			err = wireAccess(g, n)
		case ast.SubAction:
			err = wireAction(g, n)
		case ast.SubSubmit:
			err = wireSubmit(g, n)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func wireLoad(g *graph.Graph, n *ast.Node) error {
	return sequenceEffects(g, n.Children("effects"), n.ID, "load-effect")
}

func wireAccess(g *graph.Graph, n *ast.Node) error {
	if when := n.Child("when"); when != nil {
		if err := g.AddEdge(when.ID, n.ID, graph.EdgeControlFlow, "when"); err != nil {
			return err
		}
	}
	if err := sequenceEffects(g, n.Children("effects"), n.ID, "access-effect"); err != nil {
		return err
	}
	for _, key := range []string{"redirect", "message"} {
		if err := addDataDeps(g, n, key); err != nil {
			return err
		}
	}
	return nil
}

func wireAction(g *graph.Graph, n *ast.Node) error {
	if when := n.Child("when"); when != nil {
		if err := g.AddEdge(when.ID, n.ID, graph.EdgeControlFlow, "when"); err != nil {
			return err
		}
	}
	return sequenceEffects(g, n.Children("effects"), n.ID, "action-effect")
}

// wireSubmit wires the onSubmit state machine: the overall `when` and each
// `guards` entry gate the submit node itself; onAlwaysEffects runs first,
// then (per the resolved Open Question) the winning branch's effects, then
// that branch's `next`/throw resolution.
func wireSubmit(g *graph.Graph, n *ast.Node) error {
	if when := n.Child("when"); when != nil {
		if err := g.AddEdge(when.ID, n.ID, graph.EdgeControlFlow, "when"); err != nil {
			return err
		}
	}
	for i, guard := range n.Children("guards") {
		if err := g.AddEdge(guard.ID, n.ID, graph.EdgeControlFlow, fmt.Sprintf("guard[%d]", i)); err != nil {
			return err
		}
	}
	for i, v := range n.Children("validate") {
		if err := g.AddEdge(v.ID, n.ID, graph.EdgeDataFlow, fmt.Sprintf("validate[%d]", i)); err != nil {
			return err
		}
	}

	alwaysLast, err := sequenceEffectsChain(g, n.Children("onAlwaysEffects"), n.ID, "always-effect")
	if err != nil {
		return err
	}

	if err := wireSubmitBranch(g, n, alwaysLast, "onValidEffects", "onValidNext", "valid"); err != nil {
		return err
	}
	if err := wireSubmitBranch(g, n, alwaysLast, "onInvalidEffects", "onInvalidNext", "invalid"); err != nil {
		return err
	}
	return nil
}

func wireSubmitBranch(g *graph.Graph, submit *ast.Node, precedingLast, effectsKey, nextKey, label string) error {
	branchFirst := precedingLast
	last, err := sequenceEffectsChainFrom(g, submit.Children(effectsKey), submit.ID, label+"-effect", precedingLast)
	if err != nil {
		return err
	}
	if last != "" {
		branchFirst = last
	}
	for i, next := range submit.Children(nextKey) {
		if branchFirst != "" {
			if err := g.AddEdge(branchFirst, next.ID, graph.EdgeControlFlow, fmt.Sprintf("%s-next[%d]", label, i)); err != nil {
				return err
			}
		}
		if err := g.AddEdge(next.ID, submit.ID, graph.EdgeDataFlow, fmt.Sprintf("%s-next-result[%d]", label, i)); err != nil {
			return err
		}
	}
	return nil
}

// sequenceEffects chains effect[i] -> effect[i+1] and the final effect ->
// owner, giving every effect list a deterministic evaluation order.
func sequenceEffects(g *graph.Graph, effects []*ast.Node, ownerID, label string) error {
	_, err := sequenceEffectsChain(g, effects, ownerID, label)
	return err
}

// sequenceEffectsChain is sequenceEffects that also returns the ID of the
// last effect in the chain (or "" if empty), so callers can chain a
// subsequent effect list after it.
func sequenceEffectsChain(g *graph.Graph, effects []*ast.Node, ownerID, label string) (string, error) {
	return sequenceEffectsChainFrom(g, effects, ownerID, label, "")
}

func sequenceEffectsChainFrom(g *graph.Graph, effects []*ast.Node, ownerID, label, precedingID string) (string, error) {
	prev := precedingID
	for i, eff := range effects {
		if prev != "" {
			if err := g.AddEdge(prev, eff.ID, graph.EdgeEffectFlow, fmt.Sprintf("%s[%d]", label, i)); err != nil {
				return "", err
			}
		}
		prev = eff.ID
	}
	if len(effects) > 0 {
		if err := g.AddEdge(prev, ownerID, graph.EdgeEffectFlow, label+"-final"); err != nil {
			return "", err
		}
	}
	return prev, nil
}
