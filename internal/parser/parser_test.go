package parser

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/source"
	"esc/internal/types"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ParseSource(source.NewFileSet(), "test.es", []byte(src))
	be.Err(t, err, nil)
	return prog
}

func parseErr(t *testing.T, src string) *diag.Error {
	t.Helper()
	_, err := ParseSource(source.NewFileSet(), "test.es", []byte(src))
	var de *diag.Error
	be.True(t, errors.As(err, &de))
	return de
}

func mainBody(t *testing.T, prog *ast.Program) []*ast.Stmt {
	t.Helper()
	d := prog.Lookup("main")
	be.True(t, d != nil)
	return d.Fn().Body.Block().Stmts
}

func firstExpr(t *testing.T, src string) *ast.Expr {
	t.Helper()
	stmts := mainBody(t, parse(t, src))
	es, ok := stmts[0].Data.(*ast.ExprStmt)
	be.True(t, ok)
	return es.Expr
}

func TestOneLinerFunction(t *testing.T) {
	prog := parse(t, "fact(n) = product(1..=n)\n")
	be.Equal(t, len(prog.Decls), 1)
	fn := prog.Decls[0].Fn()
	be.Equal(t, fn.Name, "fact")
	be.Equal(t, len(fn.Params), 1)
	be.Equal(t, fn.Params[0].Type, types.I32)
	be.Equal(t, fn.Ret, types.I32)

	ret := fn.Body.Block().Stmts[0].Data.(*ast.ReturnStmt)
	call := ret.Value.Data.(*ast.CallExpr)
	be.True(t, call.Callee.IsIdent("product"))
	be.Equal(t, call.Args[0].Data.(*ast.BinaryExpr).Op, ast.OpRangeIncl)
}

func TestTopLevelCallIsStatement(t *testing.T) {
	prog := parse(t, "foo(1)\nbar(2) + 1\n")
	be.Equal(t, len(prog.Decls), 1)
	main := prog.Decls[0].Fn()
	be.True(t, main.Implicit)
	be.Equal(t, main.Ret, types.I32)
	be.Equal(t, len(main.Body.Block().Stmts), 2)
}

func TestReturnTypeInference(t *testing.T) {
	prog := parse(t, `
f() {
	wh 1 {
		if 1 { ret 2 }
	}
}
g() { print(1) }
main() { }
h(x: i64) -> i64 { x * 2 }
`)
	be.Equal(t, prog.Lookup("f").Fn().Ret, types.I32)
	be.Equal(t, prog.Lookup("g").Fn().Ret, types.Void)
	be.Equal(t, prog.Lookup("main").Fn().Ret, types.I32)

	h := prog.Lookup("h").Fn()
	be.Equal(t, h.Ret, types.I64)
	last := h.Body.Block().Stmts[0]
	be.Equal(t, last.Kind, ast.StmtReturn)
}

func TestVoidFunctionKeepsTrailingExpr(t *testing.T) {
	prog := parse(t, "fn g() { print(1) }\n")
	stmts := prog.Lookup("g").Fn().Body.Block().Stmts
	be.Equal(t, stmts[0].Kind, ast.StmtExpr)
}

func TestForDesugar(t *testing.T) {
	cases := []struct {
		src string
		op  ast.BinaryOp
	}{
		{"for i := 1..=5 { print(i) }", ast.OpLe},
		{"fo i := 1..5 { print(i) }", ast.OpLt},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			st := mainBody(t, parse(t, c.src))[0]
			be.Equal(t, st.Kind, ast.StmtFor)
			f := st.Data.(*ast.ForStmt)

			init := f.Init.Data.(*ast.VarDeclStmt)
			be.Equal(t, init.Name, "i")
			be.Equal(t, init.Init.Data.(*ast.IntLit).Value, int64(1))

			cond := f.Cond.Data.(*ast.BinaryExpr)
			be.Equal(t, cond.Op, c.op)
			be.True(t, cond.Left.IsIdent("i"))

			incr := f.Incr.Data.(*ast.AssignStmt)
			be.True(t, incr.Target.IsIdent("i"))
			add := incr.Value.Data.(*ast.BinaryExpr)
			be.Equal(t, add.Op, ast.OpAdd)
			be.Equal(t, add.Right.Data.(*ast.IntLit).Value, int64(1))
		})
	}
}

func TestForRequiresRange(t *testing.T) {
	de := parseErr(t, "for i := 10 { }")
	be.Equal(t, de.Code(), diag.SynForMissingRange)
}

func TestCompoundAssign(t *testing.T) {
	st := mainBody(t, parse(t, "x := 1\nx += 2\n"))[1]
	as := st.Data.(*ast.AssignStmt)
	be.True(t, as.Target.IsIdent("x"))
	bin := as.Value.Data.(*ast.BinaryExpr)
	be.Equal(t, bin.Op, ast.OpAdd)
	be.True(t, bin.Left.IsIdent("x"))
}

func TestPipe(t *testing.T) {
	call := firstExpr(t, "5 |> f").Data.(*ast.CallExpr)
	be.True(t, call.Callee.IsIdent("f"))
	be.Equal(t, len(call.Args), 1)

	call = firstExpr(t, "5 |> g(1) |> h").Data.(*ast.CallExpr)
	be.True(t, call.Callee.IsIdent("h"))
	inner := call.Args[0].Data.(*ast.CallExpr)
	be.True(t, inner.Callee.IsIdent("g"))
	be.Equal(t, len(inner.Args), 2)
	be.Equal(t, inner.Args[0].Data.(*ast.IntLit).Value, int64(5))

	de := parseErr(t, "5 |> 3")
	be.Equal(t, de.Code(), diag.SynPipeTarget)
}

func TestNewAndDelete(t *testing.T) {
	stmts := mainBody(t, parse(t, "p := nw Point\nq := nw Point { x: 1, y: 2 }\ndel p\n"))

	cast := stmts[0].Data.(*ast.VarDeclStmt).Init.Data.(*ast.CastExpr)
	be.Equal(t, cast.Target.String(), "*Point")
	malloc := cast.Value.Data.(*ast.CallExpr)
	be.True(t, malloc.Callee.IsIdent("malloc"))
	be.Equal(t, malloc.Args[0].Kind, ast.ExprSizeof)

	lit := stmts[1].Data.(*ast.VarDeclStmt).Init.Data.(*ast.StructInitExpr)
	be.Equal(t, lit.Struct.Name, "Point")
	be.Equal(t, len(lit.Fields), 2)
	be.Equal(t, lit.Fields[1].Name, "y")

	free := stmts[2].Data.(*ast.ExprStmt).Expr.Data.(*ast.CallExpr)
	be.True(t, free.Callee.IsIdent("free"))
}

func TestStructLiteralDisambiguation(t *testing.T) {
	stmts := mainBody(t, parse(t, "a := P { x: 1 }\nb := P {}\nif c { d }\n"))
	be.Equal(t, stmts[0].Data.(*ast.VarDeclStmt).Init.Kind, ast.ExprStructInit)
	be.Equal(t, stmts[1].Data.(*ast.VarDeclStmt).Init.Kind, ast.ExprStructInit)

	ifs := stmts[2].Data.(*ast.IfStmt)
	be.True(t, ifs.Cond.IsIdent("c"))
	be.Equal(t, len(ifs.Then.Block().Stmts), 1)
}

func TestEmptyBodyAfterCondition(t *testing.T) {
	st := mainBody(t, parse(t, "wh x {}\n"))[0]
	w := st.Data.(*ast.WhileStmt)
	be.True(t, w.Cond.IsIdent("x"))
	be.Equal(t, len(w.Body.Block().Stmts), 0)
}

func TestCallSugar(t *testing.T) {
	stmts := mainBody(t, parse(t, "print 42\ncheck x == 1\nprint(7)\n"))
	for i, want := range []string{"print", "check", "print"} {
		call := stmts[i].Data.(*ast.ExprStmt).Expr.Data.(*ast.CallExpr)
		be.True(t, call.Callee.IsIdent(want))
		be.Equal(t, len(call.Args), 1)
	}
}

func TestLocalDeclForms(t *testing.T) {
	stmts := mainBody(t, parse(t, "let x = 1\nvar mut y := 2\nz : i64 = 3\nw : f64\nv := 4\n"))
	want := []struct {
		name    string
		typ     *types.Type
		hasInit bool
	}{
		{"x", nil, true},
		{"y", nil, true},
		{"z", types.I64, true},
		{"w", types.F64, false},
		{"v", nil, true},
	}
	for i, w := range want {
		d := stmts[i].Data.(*ast.VarDeclStmt)
		be.Equal(t, d.Name, w.name)
		be.Equal(t, d.Type, w.typ)
		be.Equal(t, d.Init != nil, w.hasInit)
	}
	be.True(t, stmts[1].Data.(*ast.VarDeclStmt).Mutable)
}

func TestElseIfChain(t *testing.T) {
	st := mainBody(t, parse(t, "if a { x }\nel if b { y }\nelse { z }\n"))[0]
	outer := st.Data.(*ast.IfStmt)
	be.Equal(t, outer.Else.Kind, ast.StmtIf)
	inner := outer.Else.Data.(*ast.IfStmt)
	be.True(t, inner.Cond.IsIdent("b"))
	be.Equal(t, inner.Else.Kind, ast.StmtBlock)
}

func TestDeclarations(t *testing.T) {
	prog := parse(t, `
Point { x: i32; y: i32 }
struct Node {
	val: i64
	next: *Node
}
extern printf(*u8, ...) -> i32
ext write(i32, *u8, u64) -> i64
enum Color { Red; Green = 5; Blue }
`)
	be.Equal(t, len(prog.Decls), 5)

	pt := prog.Lookup("Point").Struct()
	be.Equal(t, len(pt.Fields), 2)
	be.Equal(t, pt.FieldIndex("y"), 1)

	node := prog.Lookup("Node").Struct()
	be.Equal(t, node.Fields[1].Type.String(), "*Node")

	pf := prog.Lookup("printf").Extern()
	be.True(t, pf.Variadic)
	be.Equal(t, len(pf.Params), 1)
	be.Equal(t, pf.Params[0].Name, "_p0")

	wr := prog.Lookup("write").Extern()
	be.Equal(t, prog.Lookup("write").Signature().String(), "fn(i32, *u8, u64) -> i64")
	be.True(t, !wr.Variadic)

	color := prog.Lookup("Color").Enum()
	var values []int64
	for _, m := range color.Members {
		values = append(values, m.Value)
	}
	be.Equal(t, values, []int64{0, 5, 6})
}

func TestPrecedence(t *testing.T) {
	add := firstExpr(t, "1 + 2 * 3").Data.(*ast.BinaryExpr)
	be.Equal(t, add.Op, ast.OpAdd)
	be.Equal(t, add.Right.Data.(*ast.BinaryExpr).Op, ast.OpMul)

	or := firstExpr(t, "a || b && c").Data.(*ast.BinaryExpr)
	be.Equal(t, or.Op, ast.OpOr)
	be.Equal(t, or.Right.Data.(*ast.BinaryExpr).Op, ast.OpAnd)

	cast := firstExpr(t, "&buf as *u8").Data.(*ast.CastExpr)
	be.Equal(t, cast.Value.Data.(*ast.UnaryExpr).Op, ast.OpAddr)

	cmp := firstExpr(t, "x != 0 && 1 / x > 0").Data.(*ast.BinaryExpr)
	be.Equal(t, cmp.Op, ast.OpAnd)
	be.Equal(t, cmp.Left.Data.(*ast.BinaryExpr).Op, ast.OpNe)
	be.Equal(t, cmp.Right.Data.(*ast.BinaryExpr).Op, ast.OpGt)

	tern := firstExpr(t, "n < 2 ? n : f(n - 1)").Data.(*ast.TernaryExpr)
	be.Equal(t, tern.Cond.Data.(*ast.BinaryExpr).Op, ast.OpLt)
	be.Equal(t, tern.Else.Kind, ast.ExprCall)

	post := firstExpr(t, "a.b[1](2)").Data.(*ast.CallExpr)
	idx := post.Callee.Data.(*ast.IndexExpr)
	be.Equal(t, idx.Object.Data.(*ast.FieldExpr).Field, "b")
}

func TestMatch(t *testing.T) {
	st := mainBody(t, parse(t, "match x {\n\t1 { a }\n\t2 { b }\n\t_ { c }\n}\n"))[0]
	m := st.Data.(*ast.MatchStmt)
	be.True(t, m.Value.IsIdent("x"))
	be.Equal(t, len(m.Cases), 3)
	be.True(t, !m.Cases[0].IsDefault())
	be.True(t, m.Cases[2].IsDefault())
}

func TestDeferAndAsm(t *testing.T) {
	stmts := mainBody(t, parse(t, `df print(1)
asm("nop")
asm("mov $1, $0" : "=r"(out) : "r"(in) : "memory", "cc")
ct 2 + 3
`))
	be.Equal(t, stmts[0].Kind, ast.StmtDefer)
	be.Equal(t, stmts[0].Data.(*ast.DeferStmt).Body.Kind, ast.StmtExpr)

	nop := stmts[1].Data.(*ast.AsmStmt).Asm
	be.Equal(t, nop.Template, "nop")

	full := stmts[2].Data.(*ast.AsmStmt).Asm
	be.Equal(t, len(full.Outputs), 1)
	be.Equal(t, len(full.Inputs), 1)
	be.Equal(t, full.Constraints(), "=r,r,~{memory},~{cc}")

	be.Equal(t, stmts[3].Kind, ast.StmtComptime)
}

func TestFunctionPointerParam(t *testing.T) {
	prog := parse(t, "apply(f: *fn(i32) -> i32, x: i32) = f(x)\n")
	fn := prog.Lookup("apply").Fn()
	be.Equal(t, fn.Params[0].Type.String(), "*fn(i32) -> i32")
	be.True(t, fn.Params[0].Type.IsFuncPointer())
}

func TestArrayType(t *testing.T) {
	d := mainBody(t, parse(t, "buf : [16]u8\n"))[0].Data.(*ast.VarDeclStmt)
	be.Equal(t, d.Type.String(), "[16]u8")
}

func TestPictographSurface(t *testing.T) {
	src := "\U0001F527 add(a: \U0001F522, b: \U0001F522) -> \U0001F522 { \u21a9 a + b }\n"
	prog := parse(t, src)
	fn := prog.Lookup("add").Fn()
	be.Equal(t, fn.Ret, types.I32)
	be.Equal(t, len(fn.Params), 2)
	be.Equal(t, fn.Body.Block().Stmts[0].Kind, ast.StmtReturn)
}

func TestErrors(t *testing.T) {
	de := parseErr(t, "x := )")
	be.Equal(t, de.Error(), "test.es:1:6: error: expected expression (got ')')")
	be.Equal(t, de.Code(), diag.SynExpectExpr)

	de = parseErr(t, "s := \"abc")
	be.Equal(t, de.Code(), diag.LexUnterminatedString)
	be.Err(t, de, "unterminated string")

	de = parseErr(t, "fn f( { }")
	be.Equal(t, de.Code(), diag.SynUnexpectedToken)

	de = parseErr(t, "x := 1 2")
	be.Equal(t, de.Code(), diag.SynExpectTerminator)
}
