// Package ast defines the tree produced by the parser and consumed by code
// generation. Nodes are plain pointers owned by their parent; every node
// carries a Kind, a source.Span and a typed payload in Data.
//
// Sugar is resolved at parse time: compound assignment, pipes, `nw`, `del`,
// ranged `for` and keyword-free calls never reach this package.
package ast
