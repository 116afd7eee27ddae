package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
)

// inputBlock is the body of an `input` block.
type inputBlock struct {
	Type        hcl.Expression `hcl:"type,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Description *string        `hcl:"description,optional"`
}
