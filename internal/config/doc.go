// Package config defines the format-agnostic configuration model: a tree of
// scope definitions holding input declarations and variable expressions,
// along with the Loader interface that produces it.
//
// The config.Model is the single source of truth for the scope package.
// Concrete loaders, such as the HCL one, live in separate packages.
package config
