package token

import (
	"esc/internal/source"
)

// Token represents a single source token with its location and literal payload.
type Token struct {
	Kind Kind
	Span source.Span
	Pos  source.LineCol
	// Text is the source slice, except for pictograph aliases (the C name)
	// and Invalid tokens (the lexer's reason).
	Text  string
	Int   int64
	Float float64
	Str   string
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsIdentNamed reports whether the token is the identifier name.
func (t Token) IsIdentNamed(name string) bool {
	return t.Kind == Ident && t.Text == name
}

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }
