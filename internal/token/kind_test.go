package token_test

import (
	"testing"

	"esc/internal/source"
	"esc/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	for _, k := range []token.Kind{token.IntLit, token.FloatLit, token.StringLit} {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	for _, k := range []token.Kind{token.Ident, token.KwNull, token.Plus, token.LParen} {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.KwFn:      "fn",
		token.PipeGt:    "|>",
		token.DotDotEq:  "..=",
		token.DotDotDot: "...",
		token.Newline:   "<nl>",
		token.EOF:       "<eof>",
		token.Invalid:   "<err>",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestTypeKeywords(t *testing.T) {
	for _, k := range []token.Kind{token.KwI8, token.KwU64, token.KwF64, token.KwVoid, token.KwBool} {
		if !k.IsTypeKeyword() {
			t.Fatalf("%v should be a type keyword", k)
		}
	}
	for _, k := range []token.Kind{token.KwFn, token.KwVar, token.Ident} {
		if k.IsTypeKeyword() {
			t.Fatalf("%v must not be a type keyword", k)
		}
	}
}

func TestCompoundOp(t *testing.T) {
	op, ok := token.PercentAssign.CompoundOp()
	if !ok || op != token.Percent {
		t.Fatalf("%%= -> %v,%v", op, ok)
	}
	if _, ok := token.Assign.CompoundOp(); ok {
		t.Fatal("= is not compound")
	}
}
