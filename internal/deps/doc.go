// Package deps schedules the re-evaluation of variables after some of their
// inputs changed.
//
// A Map is built once per scope hierarchy. It records, for every variable
// that is not constant, the variables its expression reads (dependsOn) and
// the variables that read it (modifies). MakeUpdateList answers the central
// query: given a set of roots that changed and a set of targets the caller
// wants refreshed, which variables must be re-evaluated, and in which order.
//
// The answer is computed in three passes:
//
//  1. predecessors: everything the targets transitively read;
//  2. followers: the predecessors reachable forward from the roots;
//  3. a counter-based topological sort of the followers.
//
// Expressions that read state outside the hierarchy report the reserved id
// variable.AlwaysDirty. The map rewrites it into an edge to a map-owned
// dummy variable which every Updater includes among its roots, so such
// expressions are refreshed on every update.
//
// An Updater tracks the roots and targets of one consumer and caches the
// computed order until either set changes.
package deps
