// Package graph implements the directed multigraph that the wirers populate
// and the evaluator consumes: nodes are AST node IDs, edges are typed by the
// relationship that produced them (spec §4.4). Topological ordering follows
// Kahn's algorithm, adapted from the teacher's internal/engine.Graph to carry
// multiple edge kinds per node pair instead of one.
package graph

import (
	"fmt"
	"sort"

	"github.com/formwright/formengine/pkg/thunkerr"
)

// EdgeType classifies why one node depends on another.
type EdgeType string

const (
	// Structural: parent-child containment (step owns block, journey owns step).
	EdgeStructural EdgeType = "STRUCTURAL"
	// DataFlow: a reference or pseudo-node value feeds an expression.
	EdgeDataFlow EdgeType = "DATA_FLOW"
	// ControlFlow: evaluation of one transition/branch gates another.
	EdgeControlFlow EdgeType = "CONTROL_FLOW"
	// EffectFlow: an effect's ordering dependency on another effect or gate.
	EdgeEffectFlow EdgeType = "EFFECT_FLOW"
)

// Edge is one directed relationship between two node IDs.
type Edge struct {
	From   string
	To     string
	Type   EdgeType
	MetaKey string // disambiguates parallel edges of the same type (e.g. argument index)
}

// Graph is a directed multigraph keyed by node ID. Nodes must be added before
// any edge referencing them.
type Graph struct {
	nodeIDs map[string]struct{}
	edges   map[string][]Edge // from -> outgoing edges
	incoming map[string][]Edge // to -> incoming edges
	seen    map[string]struct{} // dedup key: from|to|type|metaKey
	Levels  [][]string
}

func New() *Graph {
	return &Graph{
		nodeIDs:  make(map[string]struct{}),
		edges:    make(map[string][]Edge),
		incoming: make(map[string][]Edge),
		seen:     make(map[string]struct{}),
	}
}

// AddNode registers a node ID, idempotently.
func (g *Graph) AddNode(id string) {
	g.nodeIDs[id] = struct{}{}
}

// AddEdge adds a typed edge between two already-added nodes. Adding the same
// (from, to, type, metaKey) tuple twice is a no-op, since multiple wirers may
// independently derive the same dependency.
func (g *Graph) AddEdge(from, to string, typ EdgeType, metaKey string) error {
	if _, ok := g.nodeIDs[from]; !ok {
		return fmt.Errorf("graph: unknown source node %q", from)
	}
	if _, ok := g.nodeIDs[to]; !ok {
		return fmt.Errorf("graph: unknown target node %q", to)
	}
	dedupKey := from + "|" + to + "|" + string(typ) + "|" + metaKey
	if _, exists := g.seen[dedupKey]; exists {
		return nil
	}
	g.seen[dedupKey] = struct{}{}

	e := Edge{From: from, To: to, Type: typ, MetaKey: metaKey}
	g.edges[from] = append(g.edges[from], e)
	g.incoming[to] = append(g.incoming[to], e)
	return nil
}

// Dependencies returns the node IDs that `id` depends on (edges pointing into
// id), optionally filtered by edge type. A nil filter returns all types.
func (g *Graph) Dependencies(id string, types ...EdgeType) []string {
	allowed := edgeTypeSet(types)
	var out []string
	for _, e := range g.incoming[id] {
		if allowed == nil || allowed[e.Type] {
			out = append(out, e.From)
		}
	}
	return out
}

// Dependents returns the node IDs that depend on `id`.
func (g *Graph) Dependents(id string, types ...EdgeType) []string {
	allowed := edgeTypeSet(types)
	var out []string
	for _, e := range g.edges[id] {
		if allowed == nil || allowed[e.Type] {
			out = append(out, e.To)
		}
	}
	return out
}

func edgeTypeSet(types []EdgeType) map[EdgeType]bool {
	if len(types) == 0 {
		return nil
	}
	set := make(map[EdgeType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// TopologicalSort computes level-ordered topological layers over every edge
// type combined, erroring with a CompileError on a cycle.
func (g *Graph) TopologicalSort() error {
	levels, err := g.sortScope(g.allIDs())
	if err != nil {
		return err
	}
	g.Levels = levels
	return nil
}

// SortScope computes a topological order restricted to a subset of node IDs
// (their edges among each other only), used when the evaluator re-sorts a
// runtime-added collection-iteration subtree without redoing the whole graph.
func (g *Graph) SortScope(ids []string) ([][]string, error) {
	return g.sortScope(ids)
}

func (g *Graph) sortScope(ids []string) ([][]string, error) {
	scope := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		scope[id] = struct{}{}
	}

	indegree := make(map[string]int, len(ids))
	for _, id := range ids {
		indegree[id] = 0
	}
	for _, id := range ids {
		for _, e := range g.edges[id] {
			if _, ok := scope[e.To]; ok {
				indegree[e.To]++
			}
		}
	}

	var queue []string
	for id, degree := range indegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	processed := 0
	var levels [][]string
	for len(queue) > 0 {
		level := append([]string(nil), queue...)
		sort.Strings(level)
		levels = append(levels, level)

		var next []string
		for _, id := range level {
			processed++
			for _, e := range g.edges[id] {
				if _, ok := scope[e.To]; !ok {
					continue
				}
				indegree[e.To]--
				if indegree[e.To] == 0 {
					next = append(next, e.To)
				}
			}
		}
		sort.Strings(next)
		queue = next
	}

	if processed != len(ids) {
		return nil, thunkerr.NewCompileError(thunkerr.CompileCycle, "", "cyclic dependency detected while sorting evaluation graph", cycleRemainder(indegree), nil)
	}
	return levels, nil
}

func cycleRemainder(indegree map[string]int) []string {
	var remaining []string
	for id, d := range indegree {
		if d > 0 {
			remaining = append(remaining, id)
		}
	}
	sort.Strings(remaining)
	return remaining
}

func (g *Graph) allIDs() []string {
	ids := make([]string, 0, len(g.nodeIDs))
	for id := range g.nodeIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Order returns the flattened topological order (levels concatenated),
// computing it first if TopologicalSort has not yet run.
func (g *Graph) Order() ([]string, error) {
	if g.Levels == nil {
		if err := g.TopologicalSort(); err != nil {
			return nil, err
		}
	}
	var out []string
	for _, level := range g.Levels {
		out = append(out, level...)
	}
	return out, nil
}
