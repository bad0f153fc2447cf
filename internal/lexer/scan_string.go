package lexer

import (
	"strings"

	"esc/internal/diag"
	"esc/internal/token"
)

// Escape: \n \t \\ \" \0 \r. Any other escaped byte stands for itself.
// Raw line breaks inside a literal are kept.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	var sb strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch b {
		case '"':
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp), Str: sb.String()}
		case '\\':
			if lx.cursor.EOF() {
				continue
			}
			sb.WriteByte(unescape(lx.cursor.Bump()))
		default:
			sb.WriteByte(b)
		}
	}
	// EOF без закрывающей кавычки
	return lx.invalid(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string")
}

func unescape(b byte) byte {
	switch b {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case '0':
		return 0
	case 'r':
		return '\r'
	default: // \\ and \" included
		return b
	}
}
