package lexer

import (
	"strconv"

	"esc/internal/diag"
	"esc/internal/token"
)

// Формы: 123, 0x1F, 1.5. Точка делает литерал вещественным только если за
// ней сразу идёт цифра, поэтому `1..5` остаётся диапазоном.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') {
		lx.cursor.Advance(2)
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		text := lx.text(sp)
		if len(text) == 2 {
			return lx.invalid(diag.LexBadNumber, sp, "expected hex digits after '0x'")
		}
		v, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			return lx.invalid(diag.LexBadNumber, sp, "integer literal out of range")
		}
		return token.Token{Kind: token.IntLit, Span: sp, Text: text, Int: int64(v)} // #nosec G115 -- 0xFFFF... wraps like C
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		text := lx.text(sp)
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return lx.invalid(diag.LexBadNumber, sp, "malformed float literal")
		}
		return token.Token{Kind: token.FloatLit, Span: sp, Text: text, Float: f}
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return lx.invalid(diag.LexBadNumber, sp, "integer literal out of range")
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text, Int: v}
}
