/*
Package varpath provides a structured representation for scope-qualified
variable addresses.

The format is a dot-separated sequence of identifiers where every segment but
the last names a child scope and the last segment names the variable,
e.g., `grid.cell.dx`. A single segment addresses a variable in the root scope.
*/
package varpath
