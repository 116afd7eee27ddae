// Package scope implements the hierarchy of variable scopes a configuration
// declares. Each scope owns a set of named variables and an ordered list of
// child scopes; names resolve from the innermost scope outwards.
//
// The root scope also serves as the expression dependency visitor: it maps
// the names an expression reads to the ids of the variables they resolve to.
package scope
