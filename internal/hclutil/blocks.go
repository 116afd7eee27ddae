package hclutil

import (
	"github.com/hashicorp/hcl/v2"
)

// FindDuplicateLabels reports an error diagnostic for every block of the given
// type whose first label repeats an earlier block's label.
func FindDuplicateLabels(blocks hcl.Blocks, blockType string) hcl.Diagnostics {
	var diags hcl.Diagnostics
	seen := make(map[string]*hcl.Block)

	for _, block := range blocks {
		if block.Type != blockType || len(block.Labels) == 0 {
			continue
		}
		label := block.Labels[0]
		if first, ok := seen[label]; ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + blockType + "\" block",
				Detail:   "A \"" + blockType + "\" block named \"" + label + "\" was already declared at " + first.DefRange.String() + ".",
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[label] = block
	}

	return diags
}
