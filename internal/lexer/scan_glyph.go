package lexer

import (
	"unicode/utf8"

	"esc/internal/diag"
	"esc/internal/token"
)

// scanGlyph reads one pictograph, drops a following U+FE0F and maps it
// through the keyword table, then the alias table.
func (lx *Lexer) scanGlyph() token.Token {
	start := lx.cursor.Mark()
	r, size := utf8.DecodeRune(lx.cursor.Rest())
	lx.cursor.Advance(size)
	if next, nsize := utf8.DecodeRune(lx.cursor.Rest()); nsize > 0 && next == token.VariationSelector16 {
		lx.cursor.Advance(nsize)
	}
	sp := lx.cursor.SpanFrom(start)

	if r == utf8.RuneError && size <= 1 {
		return lx.invalid(diag.LexUnknownChar, sp, "invalid UTF-8 sequence")
	}
	if k, ok := token.LookupGlyph(r); ok {
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}
	if name, ok := token.LookupGlyphAlias(r); ok {
		return token.Token{Kind: token.Ident, Span: sp, Text: name}
	}
	return lx.invalid(diag.LexUnknownChar, sp, "unexpected character")
}
