// Package register implements the single-walk registration traverser
// (spec §4.3): it assigns every node an entry in the NodeRegistry, stamps
// parent/step/scope metadata, and synthesizes the pseudo nodes that give
// external-data references (post/query/params/data/answers) a concrete
// dependency-graph source.
package register

import "github.com/formwright/formengine/internal/ast"

// collectFieldCodes walks the structural tree only (journey → steps → field
// blocks) to build a map from field `code` to the ID of its owning STEP node.
// The main traversal uses this to classify an `answers` reference as local
// (same step) or remote (another step) per spec §4.5.
func collectFieldCodes(root *ast.Node) map[string]string {
	codes := make(map[string]string)
	var walkJourney func(n *ast.Node)
	var walkStep func(step *ast.Node)
	var walkBlock func(stepID string, block *ast.Node)

	walkBlock = func(stepID string, block *ast.Node) {
		if block == nil {
			return
		}
		if block.StringProp("blockVariant") == string(ast.BlockVariantField) {
			if code := block.StringProp("code"); code != "" {
				codes[code] = stepID
			}
		}
		for _, child := range block.Children("blocks") {
			walkBlock(stepID, child)
		}
	}

	walkStep = func(step *ast.Node) {
		for _, b := range step.Children("blocks") {
			walkBlock(step.ID, b)
		}
	}

	walkJourney = func(n *ast.Node) {
		if n == nil || n.Kind != ast.KindStructure || n.Subkind != ast.SubJourney {
			return
		}
		for _, step := range n.Children("steps") {
			walkStep(step)
		}
	}

	walkJourney(root)
	return codes
}
