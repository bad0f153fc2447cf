// Package token defines lexical token kinds for the esc compiler.
// Invariants:
//   - Every keyword has one Kind regardless of the surface (ASCII word or
//     pictograph) that produced it; the parser never sees the difference.
//   - Pictograph aliases for C library functions are Ident tokens whose Text
//     is the C name, not the source bytes.
//   - `true` and `false` are IntLit tokens with values 1 and 0.
//   - Token.Span always covers the source bytes the token was read from.
package token
