package lexer_test

import (
	"fmt"
	"testing"

	"esc/internal/diag"
	"esc/internal/lexer"
	"esc/internal/source"
	"esc/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) messages() []string {
	out := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return out
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.es", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

// collectAllTokens собирает все токены до EOF
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, _ := makeTestLexer(input)
	toks := collectAllTokens(lx)
	got := kinds(toks)
	want = append(want, token.EOF)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %v, want %v (all: %v)", input, i, got[i], want[i], got)
		}
	}
	return toks
}

func TestOperators(t *testing.T) {
	expectKinds(t, "+ - * / % & | ^ ~ !",
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.Amp, token.Pipe, token.Caret, token.Tilde, token.Bang)
	expectKinds(t, "== != < > <= >= && || << >>",
		token.EqEq, token.BangEq, token.Lt, token.Gt, token.LtEq, token.GtEq,
		token.AndAnd, token.OrOr, token.Shl, token.Shr)
	expectKinds(t, "= := += -= *= /= %= -> |>",
		token.Assign, token.ColonAssign, token.PlusAssign, token.MinusAssign,
		token.StarAssign, token.SlashAssign, token.PercentAssign, token.Arrow, token.PipeGt)
	expectKinds(t, ". .. ..= ... , : ? ; ( ) { } [ ]",
		token.Dot, token.DotDot, token.DotDotEq, token.DotDotDot, token.Comma,
		token.Colon, token.Question, token.Semicolon, token.LParen, token.RParen,
		token.LBrace, token.RBrace, token.LBracket, token.RBracket)
}

func TestRangeIsNotFloat(t *testing.T) {
	toks := expectKinds(t, "1..5", token.IntLit, token.DotDot, token.IntLit)
	if toks[0].Int != 1 || toks[2].Int != 5 {
		t.Fatalf("range bounds = %d, %d", toks[0].Int, toks[2].Int)
	}
	toks = expectKinds(t, "1.5", token.FloatLit)
	if toks[0].Float != 1.5 {
		t.Fatalf("float = %v", toks[0].Float)
	}
	expectKinds(t, "x.y", token.Ident, token.Dot, token.Ident)
}

func TestIntegers(t *testing.T) {
	cases := map[string]int64{
		"0":                  0,
		"42":                 42,
		"0x1F":               31,
		"0XfF":               255,
		"9223372036854775807": 9223372036854775807,
		"true":               1,
		"false":              0,
	}
	for src, want := range cases {
		toks := expectKinds(t, src, token.IntLit)
		if toks[0].Int != want {
			t.Errorf("%s = %d, want %d", src, toks[0].Int, want)
		}
	}
}

func TestBadNumbers(t *testing.T) {
	lx, rep := makeTestLexer("0x 99999999999999999999")
	toks := collectAllTokens(lx)
	if toks[0].Kind != token.Invalid || toks[1].Kind != token.Invalid {
		t.Fatalf("kinds = %v", kinds(toks))
	}
	if len(rep.diagnostics) != 2 || rep.diagnostics[0].Code != diag.LexBadNumber {
		t.Fatalf("diagnostics = %v", rep.messages())
	}
}

func TestStrings(t *testing.T) {
	toks := expectKinds(t, `"a\tb\n\"q\"\\\0\r\z"`, token.StringLit)
	if want := "a\tb\n\"q\"\\\x00\rz"; toks[0].Str != want {
		t.Fatalf("decoded = %q, want %q", toks[0].Str, want)
	}
	if toks[0].Text[0] != '"' {
		t.Fatalf("text must keep quotes: %q", toks[0].Text)
	}
}

func TestUnterminatedString(t *testing.T) {
	lx, rep := makeTestLexer(`x = "abc`)
	toks := collectAllTokens(lx)
	last := toks[len(toks)-2]
	if last.Kind != token.Invalid || last.Text != "unterminated string" {
		t.Fatalf("last = %v %q", last.Kind, last.Text)
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnterminatedString {
		t.Fatalf("diagnostics = %v", rep.messages())
	}
}

func TestKeywordsBothSurfaces(t *testing.T) {
	expectKinds(t, "fn ret if el wh brk cont",
		token.KwFn, token.KwReturn, token.KwIf, token.KwElse, token.KwWhile, token.KwBreak, token.KwContinue)
	expectKinds(t, "🔧 ↩ ❓ ❗ 🔁 🛑 ⏩",
		token.KwFn, token.KwReturn, token.KwIf, token.KwElse, token.KwWhile, token.KwBreak, token.KwContinue)
	expectKinds(t, "🔢 💧 🌀 ⬛ ∅ 📏 🔄",
		token.KwI32, token.KwI8, token.KwF64, token.KwVoid, token.KwNull, token.KwSizeof, token.KwAs)
	expectKinds(t, "let var mut", token.KwVar, token.KwVar, token.Ident)
}

func TestVariationSelectorIsDropped(t *testing.T) {
	toks := expectKinds(t, "\u2753\uFE0F x", token.KwIf, token.Ident)
	if toks[1].Text != "x" {
		t.Fatalf("ident = %q", toks[1].Text)
	}
	toks = expectKinds(t, "\u270F\uFE0F(1)", token.Ident, token.LParen, token.IntLit, token.RParen)
	if toks[0].Text != "write" {
		t.Fatalf("alias = %q", toks[0].Text)
	}
}

func TestGlyphAliasBecomesIdent(t *testing.T) {
	toks := expectKinds(t, "\U0001F5A8(\"hi\")", token.Ident, token.LParen, token.StringLit, token.RParen)
	if toks[0].Text != "printf" {
		t.Fatalf("alias text = %q", toks[0].Text)
	}
	if toks[0].Span.Len() != 4 {
		t.Fatalf("alias span must cover the source bytes, got %v", toks[0].Span)
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, rep := makeTestLexer("a $ b 😀")
	toks := collectAllTokens(lx)
	got := kinds(toks)
	want := []token.Kind{token.Ident, token.Invalid, token.Ident, token.Invalid, token.EOF}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("kinds = %v", got)
	}
	if toks[1].Text != "unexpected character" {
		t.Fatalf("reason = %q", toks[1].Text)
	}
	if len(rep.diagnostics) != 2 {
		t.Fatalf("diagnostics = %v", rep.messages())
	}
}

func TestNewlinesCollapse(t *testing.T) {
	src := "a\n\n   \n// note\n\t// more\nb; c\r\nd // tail\n"
	expectKinds(t, src,
		token.Ident, token.Newline, token.Ident, token.Semicolon, token.Ident,
		token.Newline, token.Ident, token.Newline)
}

func TestPositions(t *testing.T) {
	lx, _ := makeTestLexer("x := 1\n  🔢 y\n")
	toks := collectAllTokens(lx)
	type pos struct{ line, col uint32 }
	want := []pos{{1, 1}, {1, 3}, {1, 6}, {1, 7}, {2, 3}, {2, 8}, {2, 9}}
	for i, w := range want {
		if toks[i].Pos.Line != w.line || toks[i].Pos.Col != w.col {
			t.Errorf("token %d (%v) at %d:%d, want %d:%d", i, toks[i].Kind, toks[i].Pos.Line, toks[i].Pos.Col, w.line, w.col)
		}
	}
}

func TestPeekAndRestore(t *testing.T) {
	lx, _ := makeTestLexer("a b c")
	if lx.Peek().Text != "a" {
		t.Fatal("peek a")
	}
	st := lx.Save()
	if lx.Next().Text != "a" || lx.Next().Text != "b" {
		t.Fatal("next a b")
	}
	lx.Restore(st)
	if got := lx.Next().Text; got != "a" {
		t.Fatalf("after restore = %q", got)
	}
	if got := lx.Peek().Text; got != "b" {
		t.Fatalf("peek after restore = %q", got)
	}
	st = lx.Save()
	lx.Next()
	lx.Next()
	lx.Restore(st)
	if got := lx.Next().Text; got != "b" {
		t.Fatalf("restore with lookahead = %q", got)
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("")
	for range 3 {
		if k := lx.Next().Kind; k != token.EOF {
			t.Fatalf("kind = %v", k)
		}
	}
}
