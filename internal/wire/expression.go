package wire

import (
	"fmt"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/graph"
	"github.com/formwright/formengine/internal/register"
)

// dataDepKeys lists, per expression/predicate subkind, which properties hold
// the node's static data dependencies (edges point FROM the dependency TO
// this node). Iterator predicate/transform and Collection template are
// deliberately excluded: those are per-item scoped templates re-evaluated
// once per element with fresh @scope bindings, ordered at runtime by
// SortScope rather than the static compile-time graph.
var dataDepKeys = map[ast.Subkind][]string{
	ast.SubFormat:        {"arguments"},
	ast.SubConditional:    {"predicate", "thenValue", "elseValue"},
	ast.SubIterateFilter:  {"collection"},
	ast.SubIterateMap:     {"collection"},
	ast.SubIterateFind:    {"collection"},
	ast.SubCollection:     {"source"},
	ast.SubTest:           {"subject", "condition"},
	ast.SubAnd:            {"operands"},
	ast.SubOr:             {"operands"},
	ast.SubXor:            {"operands"},
	ast.SubNot:            {"operand"},
	ast.SubFuncCondition:  {"arguments"},
	ast.SubFuncTransform:  {"arguments"},
	ast.SubFuncGenerator:  {"arguments"},
	ast.SubFuncEffect:     {"arguments"},
	ast.SubValidation:     {"when", "message"},
	ast.SubNext:           {"when", "goto"},
	ast.SubThrowError:     {"when", "message"},
}

// wireExpressionTrees adds DATA_FLOW edges for ordinary expression
// composition, plus a dedicated sequential wiring for Pipeline (whose steps
// form a chain, not a fan-in).
func wireExpressionTrees(g *graph.Graph, result *register.Result) error {
	for _, n := range result.Nodes.All() {
		if n.Subkind == ast.SubPipeline {
			if err := wirePipeline(g, n); err != nil {
				return err
			}
			continue
		}
		keys, ok := dataDepKeys[n.Subkind]
		if !ok {
			continue
		}
		for _, key := range keys {
			if err := addDataDeps(g, n, key); err != nil {
				return err
			}
		}
	}
	return nil
}

func addDataDeps(g *graph.Graph, n *ast.Node, key string) error {
	for i, item := range n.Items(key) {
		dep, ok := item.(*ast.Node)
		if !ok {
			continue
		}
		if err := g.AddEdge(dep.ID, n.ID, graph.EdgeDataFlow, fmt.Sprintf("%s[%d]", key, i)); err != nil {
			return err
		}
	}
	return nil
}

// wirePipeline chains input → steps[0] → steps[1] → ... → steps[n-1] → the
// pipeline node itself, reflecting that a pipeline's value is whatever its
// last step produces (spec §4.6's "..." pipeline step composition). Each
// step additionally has its `pipelineInput` property stamped with the
// previous step (or the pipeline's own `input`), the running value the
// step's FUNCTION_TRANSFORMER handler folds in ahead of its own arguments.
func wirePipeline(g *graph.Graph, n *ast.Node) error {
	prevID := ""
	input, hasInputNode := n.Prop("input")
	inputNode := n.Child("input")
	if inputNode != nil {
		prevID = inputNode.ID
	}

	steps := n.Children("steps")
	for i, step := range steps {
		switch {
		case prevID != "":
			if err := g.AddEdge(prevID, step.ID, graph.EdgeDataFlow, fmt.Sprintf("pipeline-step[%d]", i)); err != nil {
				return err
			}
			step.Properties["pipelineInput"] = inputNode
			if i > 0 {
				step.Properties["pipelineInput"] = steps[i-1]
			}
		case i == 0 && hasInputNode:
			// input is a literal (not an *ast.Node): no data-flow edge needed,
			// but the first step still folds it in as its running value.
			step.Properties["pipelineInputLiteral"] = input
		}
		prevID = step.ID
	}
	if prevID != "" {
		if err := g.AddEdge(prevID, n.ID, graph.EdgeDataFlow, "pipeline-output"); err != nil {
			return err
		}
	}
	return nil
}
