// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It holds shared utilities such as the JSON printer the CLI writes
// results with.
package lib
