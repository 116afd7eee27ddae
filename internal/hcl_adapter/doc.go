// Package hcl_adapter implements config.Loader for HCL files.
//
// A configuration is a set of .hcl files whose bodies are merged into the
// root scope. Plain attributes define variables, `input "name" {}` blocks
// declare inputs and `scope "name" {}` blocks open child scopes:
//
//	input "t" {
//	  type    = number
//	  default = 0
//	}
//	t_end = t + 10
//	scope "grid" {
//	  input "n" { default = 64 }
//	  dx = t_end / n
//	}
package hcl_adapter
