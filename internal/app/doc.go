// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the lifecycle of one run: load the
// configuration, build the scope hierarchy and its dependency map, apply
// input values, refresh the requested variables and render them. It is
// decoupled from any specific entrypoint like a CLI.
package app
