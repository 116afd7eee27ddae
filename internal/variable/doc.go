// Package variable defines the Variable entity: a named value identified by a
// process-unique integer id, optionally defined by an HCL expression over
// other variables.
//
// A Variable is one of three kinds:
//   - constant: its value is fixed when it is declared and it is never re-evaluated
//   - input: read-only, receives its value from outside and may only serve as a root
//   - expression: recomputed from its expression by Evaluate
package variable
