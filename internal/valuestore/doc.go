// Package valuestore collects the values delivered by parameters.
//
// It stores the latest value and the latest failure of each variable in
// sync.Maps, so sinks may be called from several updaters at once. Entries
// are keyed by the variable's dotted address.
package valuestore
