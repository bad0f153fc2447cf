package parser

import (
	"fmt"
	"strings"

	"esc/internal/diag"
	"esc/internal/lexer"
	"esc/internal/source"
	"esc/internal/token"
)

func (p *Parser) peek() token.Token { return p.lx.Peek() }

func (p *Parser) at(k token.Kind) bool { return p.lx.Peek().Kind == k }

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind == token.Invalid {
		p.failToken(tok)
	}
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// accept eats the next token when it has kind k.
func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect: ожидаем конкретный токен, иначе фатальная ошибка.
func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.fail(diag.SynUnexpectedToken, "expected '%s'", k)
	}
	return p.advance()
}

// skipNewlines eats any run of statement terminators.
func (p *Parser) skipNewlines() {
	for p.at(token.Newline) || p.at(token.Semicolon) {
		p.advance()
	}
}

// expectTerminator requires a newline or ';' unless the statement is
// followed by '}' or the end of input.
func (p *Parser) expectTerminator() {
	switch p.peek().Kind {
	case token.Newline, token.Semicolon:
		p.advance()
		p.skipNewlines()
	case token.RBrace, token.EOF:
	default:
		p.fail(diag.SynExpectTerminator, "expected newline or ';'")
	}
}

// spanFrom covers everything from start to the last consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	if p.lastSpan.End < start.Start {
		return start
	}
	return start.Cover(p.lastSpan)
}

// fail aborts parsing with an error located at the next token.
func (p *Parser) fail(code diag.Code, format string, args ...any) {
	tok := p.peek()
	if tok.Kind == token.Invalid {
		p.failToken(tok)
	}
	err := diag.Errorf(code, tok.Span, format, args...).WithGot(describe(tok))
	panic(bailout{err})
}

// failAt aborts with an error at sp and no offending token.
func (p *Parser) failAt(code diag.Code, sp source.Span, format string, args ...any) {
	panic(bailout{diag.Errorf(code, sp, format, args...)})
}

// failToken turns an Invalid token into the lexer's own error.
func (p *Parser) failToken(tok token.Token) {
	panic(bailout{diag.Errorf(lexCode(tok.Text), tok.Span, "%s", tok.Text)})
}

func lexCode(reason string) diag.Code {
	switch {
	case strings.HasPrefix(reason, "unterminated"):
		return diag.LexUnterminatedString
	case strings.Contains(reason, "literal"), strings.Contains(reason, "digits"):
		return diag.LexBadNumber
	default:
		return diag.LexUnknownChar
	}
}

// describe renders a token for the `(got '...')` suffix.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.Ident, token.IntLit, token.FloatLit:
		return tok.Text
	case token.StringLit:
		return fmt.Sprintf("%q", tok.Str)
	default:
		return tok.Kind.String()
	}
}

// mark is a backtracking point: lexer state plus the last consumed span.
type mark struct {
	lex  lexer.State
	last source.Span
}

func (p *Parser) mark() mark { return mark{lex: p.lx.Save(), last: p.lastSpan} }

func (p *Parser) reset(m mark) {
	p.lx.Restore(m.lex)
	p.lastSpan = m.last
}
