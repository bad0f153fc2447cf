package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"fn":       KwFn,
		"ret":      KwReturn,
		"return":   KwReturn,
		"el":       KwElse,
		"else":     KwElse,
		"wh":       KwWhile,
		"while":    KwWhile,
		"let":      KwVar,
		"var":      KwVar,
		"fo":       KwFor,
		"for":      KwFor,
		"ma":       KwMatch,
		"en":       KwEnum,
		"df":       KwDefer,
		"nw":       KwNew,
		"ct":       KwComptime,
		"continue": KwContinue,
		"sizeof":   KwSizeof,
		"bool":     KwBool,
		"u64":      KwU64,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	notKw := []string{
		"Fn", "RET", "While",
		"mut", "print", "check", "_",
		"true", "false", // literals, not keywords
		"int", "string",
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}

func TestLookupBoolLiteral(t *testing.T) {
	if v, ok := LookupBoolLiteral("true"); !ok || v != 1 {
		t.Fatalf("true = %d,%v", v, ok)
	}
	if v, ok := LookupBoolLiteral("false"); !ok || v != 0 {
		t.Fatalf("false = %d,%v", v, ok)
	}
	if _, ok := LookupBoolLiteral("True"); ok {
		t.Fatal("True must not be a literal")
	}
}
