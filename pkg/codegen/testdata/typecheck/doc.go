// Package typecheck is the package the codegen tests render into before
// type-checking the output.
package typecheck
