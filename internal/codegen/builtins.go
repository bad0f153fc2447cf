package codegen

import (
	"math"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/types"
)

// genBuiltin lowers the calls the language provides without a
// declaration. They are only consulted when no symbol of that name exists.
func (c *Context) genBuiltin(e *ast.Expr, name string, args []*ast.Expr) (ir.Value, bool) {
	switch name {
	case "print":
		return c.genPrint(e, args), true
	case "check":
		return c.genCheck(e, args), true
	case "product", "sum", "count", "min", "max":
		return c.genReduce(e, name, args), true
	}
	return nil, false
}

// printFormat picks the printf conversion from the static type.
func printFormat(t *types.Type) string {
	switch {
	case t.IsInteger() && t.Width == types.Width64:
		return "%lld\n"
	case t.IsFloat():
		return "%f\n"
	case t.IsPointer():
		return "%s\n"
	}
	return "%d\n"
}

func (c *Context) genPrint(e *ast.Expr, args []*ast.Expr) ir.Value {
	if len(args) != 1 {
		fail(e.Span, diag.GenArgumentCount, "print takes exactly 1 argument, got %d", len(args))
	}
	printf := c.lookup("printf")
	if printf == nil || !printf.isFunc() {
		fail(e.Span, diag.GenUndefinedIdent, "print requires printf (use std)")
	}
	v := c.genExpr(args[0])
	t := args[0].Type
	switch {
	case t.IsFloat() && t.Width == types.Width32:
		v = c.coerce(args[0].Span, v, t, types.F64)
	case t.IsInteger() && t.Bits() < 32 && !t.IsUnsigned():
		// varargs go through int, so i8/i16 keep their sign here
		v = c.b.Cast(ir.OpSExt, v, ir.I32)
	case t.IsInteger() && t.Bits() < 32:
		v = c.coerce(args[0].Span, v, t, types.I32)
	}
	format := c.mod.StringConst(printFormat(t))
	e.SetType(printf.typ.Ret)
	return c.b.Call(printf.sig, printf.value, format, v)
}

// genCheck aborts the program with "check failed" when its argument is
// zero. Without printf or exit in scope it traps instead.
func (c *Context) genCheck(e *ast.Expr, args []*ast.Expr) ir.Value {
	if len(args) != 1 {
		fail(e.Span, diag.GenArgumentCount, "check takes exactly 1 argument, got %d", len(args))
	}
	ok := c.cond(args[0])
	pass := c.b.NewBlock("chk.ok")
	failed := c.b.NewBlock("chk.fail")
	c.b.CondBr(ok, pass, failed)

	c.b.SetBlock(failed)
	if printf := c.lookup("printf"); printf != nil && printf.isFunc() {
		c.b.Call(printf.sig, printf.value, c.mod.StringConst("check failed\n"))
	}
	if exit := c.lookup("exit"); exit != nil && exit.isFunc() && len(exit.typ.Params) == 1 {
		code := c.coerce(e.Span, ir.Int(ir.I32, 1), types.I32, exit.typ.Params[0])
		c.b.Call(exit.sig, exit.value, code)
	}
	c.b.Unreachable()

	c.b.SetBlock(pass)
	e.SetType(types.Void)
	return ir.Zero(ir.Void)
}

// genReduce expands product/sum/count/min/max over a range into an i32
// accumulator loop.
func (c *Context) genReduce(e *ast.Expr, name string, args []*ast.Expr) ir.Value {
	if len(args) != 1 {
		fail(e.Span, diag.GenArgumentCount, "%s requires exactly 1 range argument", name)
	}
	rng, isRange := args[0].Data.(*ast.BinaryExpr)
	if !isRange || !rng.Op.IsRange() {
		fail(args[0].Span, diag.GenUnsupported, "%s argument must be a range (start..end or start..=end)", name)
	}

	start := c.genExpr(rng.Left)
	start = c.coerce(rng.Left.Span, start, rng.Left.Type, types.I32)
	end := c.genExpr(rng.Right)
	end = c.coerce(rng.Right.Span, end, rng.Right.Type, types.I32)

	var seed int64
	switch name {
	case "product":
		seed = 1
	case "min":
		seed = math.MaxInt32
	case "max":
		seed = math.MinInt32
	}
	acc := c.b.Alloca(ir.I32)
	iv := c.b.Alloca(ir.I32)
	c.b.Store(ir.Int(ir.I32, seed), acc)
	c.b.Store(start, iv)

	condBlk := c.b.NewBlock("red_cond")
	body := c.b.NewBlock("red_body")
	done := c.b.NewBlock("red_end")
	c.b.Br(condBlk)

	c.b.SetBlock(condBlk)
	i := c.b.Load(ir.I32, iv)
	pred := ir.PredSLT
	if rng.Op == ast.OpRangeIncl {
		pred = ir.PredSLE
	}
	c.b.CondBr(c.b.Cmp(pred, i, end), body, done)

	c.b.SetBlock(body)
	a := c.b.Load(ir.I32, acc)
	i = c.b.Load(ir.I32, iv)
	var next ir.Value
	switch name {
	case "product":
		next = c.b.Binary(ir.OpMul, a, i)
	case "sum":
		next = c.b.Binary(ir.OpAdd, a, i)
	case "count":
		next = c.b.Binary(ir.OpAdd, a, ir.Int(ir.I32, 1))
	case "min":
		next = c.b.Select(c.b.Cmp(ir.PredSLT, i, a), i, a)
	case "max":
		next = c.b.Select(c.b.Cmp(ir.PredSGT, i, a), i, a)
	}
	c.b.Store(next, acc)
	c.b.Store(c.b.Binary(ir.OpAdd, i, ir.Int(ir.I32, 1)), iv)
	c.b.Br(condBlk)

	c.b.SetBlock(done)
	e.SetType(types.I32)
	return c.b.Load(ir.I32, acc)
}
