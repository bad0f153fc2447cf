package lexer

import (
	"esc/internal/diag"
	"esc/internal/source"
	"esc/internal/token"
)

// Lexer turns one source file into tokens on demand. Only one token of
// lookahead is ever materialized.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

// State is an opaque snapshot for parser backtracking.
type State struct {
	off  uint32
	look *token.Token
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File { return lx.file }

// Save captures the current position, including the lookahead buffer.
func (lx *Lexer) Save() State {
	st := State{off: lx.cursor.Off}
	if lx.look != nil {
		t := *lx.look
		st.look = &t
	}
	return st
}

// Restore rewinds to a state returned by Save.
func (lx *Lexer) Restore(st State) {
	lx.cursor.Off = st.off
	lx.look = st.look
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	tok := lx.scan()
	tok.Pos = lx.file.LineCol(tok.Span.Start)
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) scan() token.Token {
	lx.skipBlanks()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case ch == '\n':
		return lx.scanNewline()
	case isIdentStartByte(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	case ch >= utf8RuneSelf:
		return lx.scanGlyph()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// skipBlanks eats spaces, tabs, stray '\r' and a trailing line comment.
// The newline that ends a comment is left for scanNewline.
func (lx *Lexer) skipBlanks() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\r':
			lx.cursor.Bump()
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			lx.skipLineComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipLineComment() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}

// scanNewline collapses blank lines, indentation and comment-only lines into
// one Newline token spanning the first line break.
func (lx *Lexer) scanNewline() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '\n' || b == ' ' || b == '\t' || b == '\r':
			lx.cursor.Bump()
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			lx.skipLineComment()
		default:
			return token.Token{Kind: token.Newline, Span: sp, Text: "\n"}
		}
	}
	return token.Token{Kind: token.Newline, Span: sp, Text: "\n"}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

// invalid builds an Invalid token whose Text is the reason.
func (lx *Lexer) invalid(code diag.Code, sp source.Span, msg string) token.Token {
	lx.errLex(code, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: msg}
}
