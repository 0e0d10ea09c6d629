// Package ir defines the SPIR-V shaped intermediate representation produced
// by the fragment front end.
//
// The IR is designed to be:
//   - Close to SPIR-V: opcodes and storage classes use SPIR-V numbering
//   - Library scoped: every node is owned by exactly one Library
//   - Deduplicated: types, pointer types and constants are created once
//
// # Structure
//
// A Library holds the arenas for one translated unit:
//   - Types: value types, their pointer types and function signatures
//   - Functions: ordered basic blocks of Ops
//   - Constants and SpecConstants: memoized constant Ops
//   - Globals: module-scope variables with optional initializer functions
//   - EntryPoints: the stage entry points found during translation
//
// Libraries depend on other libraries through a Module, an ordered list that
// is searched first-hit. Lookups always consult the current library before
// its dependencies.
//
// # Ownership
//
// Nodes reference each other with Go pointers. A node created while
// translating a library is appended to that library's arena and records the
// library as its owner. Dependency libraries are never mutated once their
// Translated flag is set.
//
// # References
//
//   - SPIR-V specification: https://www.khronos.org/registry/SPIR-V/
package ir
