package lexer

import (
	"esc/internal/token"
)

// scanIdentOrKeyword сканирует [A-Za-z_][A-Za-z0-9_]* и проверяет через LookupKeyword.
// `true`/`false` становятся IntLit 1/0.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)

	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	if v, ok := token.LookupBoolLiteral(text); ok {
		return token.Token{Kind: token.IntLit, Span: sp, Text: text, Int: v}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
