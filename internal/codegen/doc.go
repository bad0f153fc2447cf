// Package codegen lowers a parsed program to an ir.Module in a single
// pass. There is no separate type checker: every expression is typed the
// first time it is lowered and the type is memoized on the AST node.
//
// Lowering order inside Generate:
//   - struct names, enum names, struct bodies (forward references allowed)
//   - enum members as private constants
//   - extern and function prototypes
//   - function bodies in source order
//
// Errors abort the pass through a panic that Generate recovers into a
// *diag.Error with a resolved position.
package codegen
