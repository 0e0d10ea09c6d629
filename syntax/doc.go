// Package syntax defines the symbol-resolved syntax tree consumed by the
// fragment front end.
//
// The tree is produced by a host-language front end: every expression already
// carries its result type and every member access, call and variable
// reference is bound to the symbol it names. This package only models that
// contract; it does not parse source text.
//
// Symbols (BoundType, Function, Field, GetterSetter, Variable) are shared by
// identity. Two references to the same symbol must use the same pointer, since
// the translator keys its lookup tables on symbol identity.
package syntax
