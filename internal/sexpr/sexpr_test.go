package sexpr

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/nalgeon/be"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/parser"
	"esc/internal/source"
	"esc/internal/types"
)

func read(t *testing.T, src string) []*Node {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.el", []byte(src))
	forms, err := Read(fs.Get(id))
	be.Err(t, err, nil)
	return forms
}

func lower(t *testing.T, src string) *ast.Program {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.el", []byte(src))
	prog, err := Parse(fs, id, Options{NoStd: true})
	be.Err(t, err, nil)
	return prog
}

func lowerErr(t *testing.T, src string) *diag.Error {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.el", []byte(src))
	_, err := Parse(fs, id, Options{NoStd: true})
	var de *diag.Error
	be.True(t, errors.As(err, &de))
	return de
}

func bodyOf(t *testing.T, prog *ast.Program, name string) []*ast.Stmt {
	t.Helper()
	d := prog.Lookup(name)
	be.True(t, d != nil)
	return d.Fn().Body.Block().Stmts
}

func TestReadAtoms(t *testing.T) {
	forms := read(t, `(f 42 -7 0x10 2.5 "a\nb" -x ...) ; comment
	sym`)
	be.Equal(t, len(forms), 2)

	items := forms[0].Items
	be.Equal(t, forms[0].Head(), "f")
	be.Equal(t, items[1].Kind, AtomInt)
	be.Equal(t, items[1].Int, int64(42))
	be.Equal(t, items[2].Int, int64(-7))
	be.Equal(t, items[3].Int, int64(16))
	be.Equal(t, items[4].Kind, AtomFloat)
	be.Equal(t, items[4].Float, 2.5)
	be.Equal(t, items[5].Kind, AtomString)
	be.Equal(t, items[5].Str, "a\nb")
	be.True(t, items[6].IsSym("-x"))
	be.True(t, items[7].IsSym("..."))
	be.True(t, forms[1].IsSym("sym"))
	be.Equal(t, forms[1].Head(), "")
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
		msg  string
	}{
		{"(fn main ()", diag.SynBadForm, "unclosed '('"},
		{")", diag.SynBadForm, "unexpected ')'"},
		{`(f "abc`, diag.LexUnterminatedString, "unterminated string"},
		{"(f 12ab)", diag.LexBadNumber, "malformed number '12ab'"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			de := lowerErr(t, tt.src)
			be.Equal(t, de.Code(), tt.code)
			be.Err(t, de, tt.msg)
			be.Equal(t, de.Path, "test.el")
		})
	}
}

func TestLowerDeclarations(t *testing.T) {
	prog := lower(t, `
(ext printf (*u8 ...) i32)
(ext free (*v))
(st Vec2 (x f64) (y f64))
(fn add ((a i32) (b i32)) i32 (+ a b))
(fn main () (printf "%d\n" (add 1 2)) (^ 0))
`)
	be.Equal(t, len(prog.Decls), 5)

	pf := prog.Decls[0].Extern()
	be.Equal(t, pf.Name, "printf")
	be.True(t, pf.Variadic)
	be.Equal(t, pf.Params[0].Type, types.Pointer(types.U8))
	be.Equal(t, pf.Ret, types.I32)

	fr := prog.Decls[1].Extern()
	be.Equal(t, fr.Ret, types.Void)
	be.Equal(t, fr.Params[0].Type, types.VoidPtr)

	st := prog.Decls[2].Struct()
	be.Equal(t, st.Name, "Vec2")
	be.Equal(t, len(st.Fields), 2)
	be.Equal(t, st.FieldIndex("y"), 1)

	add := prog.Decls[3].Fn()
	be.Equal(t, add.Ret, types.I32)
	be.Equal(t, add.Params[1].Name, "b")
	ret, ok := add.Body.Block().Stmts[0].Data.(*ast.ReturnStmt)
	be.True(t, ok)
	be.Equal(t, ret.Value.Data.(*ast.BinaryExpr).Op, ast.OpAdd)

	main := prog.Decls[4].Fn()
	be.Equal(t, main.Ret, types.I32)
	be.Equal(t, len(main.Body.Block().Stmts), 2)
}

func TestLowerAnonymousParams(t *testing.T) {
	prog := lower(t, "(fn sq (i32) i32 (* _p0 _p0))")
	fn := prog.Decls[0].Fn()
	be.Equal(t, fn.Params[0].Name, "_p0")
	be.Equal(t, fn.Params[0].Type, types.I32)
}

func TestLowerStatements(t *testing.T) {
	prog := lower(t, `
(fn main ()
  (= a 1)
  (: b i64 2)
  (! a 3)
  (+= a 4)
  (if (< a 10) (! a 0) (el (! a 1)))
  (@ (> a 0) (-= a 1) (brk))
  (: p *i32)
  (del p)
  (^ a))
`)
	stmts := bodyOf(t, prog, "main")
	be.Equal(t, len(stmts), 9)

	a := stmts[0].Data.(*ast.VarDeclStmt)
	be.Equal(t, a.Name, "a")
	be.True(t, a.Type == nil)

	b := stmts[1].Data.(*ast.VarDeclStmt)
	be.Equal(t, b.Type, types.I64)
	be.Equal(t, b.Init.Data.(*ast.IntLit).Value, int64(2))

	be.Equal(t, stmts[2].Kind, ast.StmtAssign)

	comp := stmts[3].Data.(*ast.AssignStmt)
	be.True(t, comp.Target.IsIdent("a"))
	be.Equal(t, comp.Value.Data.(*ast.BinaryExpr).Op, ast.OpAdd)

	ifs := stmts[4].Data.(*ast.IfStmt)
	be.Equal(t, ifs.Cond.Data.(*ast.BinaryExpr).Op, ast.OpLt)
	be.Equal(t, len(ifs.Then.Block().Stmts), 1)
	be.True(t, ifs.Else != nil)

	wh := stmts[5].Data.(*ast.WhileStmt)
	body := wh.Body.Block().Stmts
	be.Equal(t, len(body), 2)
	be.Equal(t, body[1].Kind, ast.StmtBreak)

	p := stmts[6].Data.(*ast.VarDeclStmt)
	be.Equal(t, p.Type, types.Pointer(types.I32))
	be.True(t, p.Init == nil)

	del := stmts[7].Data.(*ast.ExprStmt).Expr.Data.(*ast.CallExpr)
	be.True(t, del.Callee.IsIdent("free"))

	be.Equal(t, stmts[8].Kind, ast.StmtReturn)
}

func TestLowerExpressions(t *testing.T) {
	prog := lower(t, `
(st P (x i32))
(fn main ()
  (? c 1 2)
  (. p x)
  ([] arr 3)
  (as 1 f64)
  (sz P)
  (nw P)
  (- x)
  (- x 1)
  null)
`)
	stmts := bodyOf(t, prog, "main")
	expr := func(i int) *ast.Expr { return stmts[i].Data.(*ast.ExprStmt).Expr }

	be.Equal(t, expr(0).Kind, ast.ExprTernary)
	be.Equal(t, expr(1).Data.(*ast.FieldExpr).Field, "x")
	be.Equal(t, expr(2).Kind, ast.ExprIndex)
	be.Equal(t, expr(3).Data.(*ast.CastExpr).Target, types.F64)
	be.Equal(t, expr(4).Data.(*ast.SizeofExpr).Target, types.Struct("P"))

	nw := expr(5).Data.(*ast.CastExpr)
	be.Equal(t, nw.Target, types.Pointer(types.Struct("P")))
	be.True(t, nw.Value.Data.(*ast.CallExpr).Callee.IsIdent("malloc"))

	be.Equal(t, expr(6).Data.(*ast.UnaryExpr).Op, ast.OpNeg)
	be.Equal(t, expr(7).Data.(*ast.BinaryExpr).Op, ast.OpSub)
	be.Equal(t, expr(8).Kind, ast.ExprNull)
}

func TestLowerErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"(foo bar)", "unknown declaration 'foo'"},
		{"x", "expected declaration"},
		{"(fn)", "expected declaration"},
		{"(fn f)", "fn needs a name and a parameter list"},
		{"(fn f x)", "expected parameter list"},
		{"(st S (x))", "expected (field type)"},
		{"(fn f () (+= x))", "'+=' takes a target and a value"},
		{"(fn f () ())", "empty list"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			de := lowerErr(t, tt.src)
			be.Equal(t, de.Code(), diag.SynBadForm)
			be.Err(t, de, tt.msg)
			be.True(t, de.HasPos)
		})
	}
}

func TestParseLoadsStd(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.el", []byte("(use math)\n(fn main () (^ (square 3)))\n"))
	loader := parser.NewLoader(fs, parser.LoaderOptions{Fallback: fstest.MapFS{
		"std.es":  {Data: []byte("extern printf(*u8, ...) -> i32\n")},
		"math.es": {Data: []byte("square(x) = x * x\n")},
	}})

	prog, err := Parse(fs, id, Options{Loader: loader})
	be.Err(t, err, nil)

	var names []string
	for _, d := range prog.Decls {
		names = append(names, d.Name())
	}
	be.Equal(t, names, []string{"printf", "square", "main"})
}

func TestParseMissingModule(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.el", []byte("(use nope)\n"))
	_, err := Parse(fs, id, Options{NoStd: true})
	be.Err(t, err, "module 'nope' not found")
}
