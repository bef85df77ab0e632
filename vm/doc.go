// Package vm implements the Pyrite object runtime.
//
// This package contains:
//   - the shared, reference-counted object handle and the payload protocol
//   - class objects with frozen, name-keyed dispatch tables
//   - the synchronization cell, with a threaded or single-threaded
//     strategy selected at build time
//   - the built-in value types (bool, int, str, bytes, list) and the
//     protocol operations they register at bootstrap
package vm
