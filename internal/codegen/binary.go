package codegen

import (
	"math"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/types"
)

var (
	intOps = map[ast.BinaryOp][2]ir.Opcode{ // signed, unsigned
		ast.OpAdd:    {ir.OpAdd, ir.OpAdd},
		ast.OpSub:    {ir.OpSub, ir.OpSub},
		ast.OpMul:    {ir.OpMul, ir.OpMul},
		ast.OpDiv:    {ir.OpSDiv, ir.OpUDiv},
		ast.OpRem:    {ir.OpSRem, ir.OpURem},
		ast.OpBitAnd: {ir.OpAnd, ir.OpAnd},
		ast.OpBitOr:  {ir.OpOr, ir.OpOr},
		ast.OpBitXor: {ir.OpXor, ir.OpXor},
		ast.OpShl:    {ir.OpShl, ir.OpShl},
		ast.OpShr:    {ir.OpAShr, ir.OpLShr},
	}
	floatOps = map[ast.BinaryOp]ir.Opcode{
		ast.OpAdd: ir.OpFAdd,
		ast.OpSub: ir.OpFSub,
		ast.OpMul: ir.OpFMul,
		ast.OpDiv: ir.OpFDiv,
		ast.OpRem: ir.OpFRem,
	}
	intPreds = map[ast.BinaryOp][2]ir.Predicate{ // signed, unsigned
		ast.OpEq: {ir.PredEQ, ir.PredEQ},
		ast.OpNe: {ir.PredNE, ir.PredNE},
		ast.OpLt: {ir.PredSLT, ir.PredULT},
		ast.OpGt: {ir.PredSGT, ir.PredUGT},
		ast.OpLe: {ir.PredSLE, ir.PredULE},
		ast.OpGe: {ir.PredSGE, ir.PredUGE},
	}
	floatPreds = map[ast.BinaryOp]ir.Predicate{
		ast.OpEq: ir.PredOEQ,
		ast.OpNe: ir.PredONE,
		ast.OpLt: ir.PredOLT,
		ast.OpGt: ir.PredOGT,
		ast.OpLe: ir.PredOLE,
		ast.OpGe: ir.PredOGE,
	}
)

func (c *Context) genBinary(e *ast.Expr, bin *ast.BinaryExpr) ir.Value {
	switch {
	case bin.Op.IsLogical():
		return c.genLogical(e, bin)
	case bin.Op.IsRange():
		fail(e.Span, diag.GenUnsupported, "range '%s' is only valid in for loops and reductions", bin.Op)
	}

	l := c.genExpr(bin.Left)
	r := c.genExpr(bin.Right)
	lt, rt := bin.Left.Type, bin.Right.Type

	if lt.IsPointer() && (bin.Op == ast.OpAdd || bin.Op == ast.OpSub) {
		return c.genPointerArith(e, bin.Op, l, r, lt, rt)
	}

	common := types.Arithmetic(lt, rt)
	l = c.coerce(bin.Left.Span, l, lt, common)
	r = c.coerce(bin.Right.Span, r, rt, common)

	if bin.Op.IsComparison() {
		var cmp ir.Value
		switch {
		case common.IsFloat():
			cmp = c.b.Cmp(floatPreds[bin.Op], l, r)
		case common.IsPointer() || common.IsFunc():
			cmp = c.b.Cmp(intPreds[bin.Op][1], l, r)
		default:
			cmp = c.b.Cmp(intPreds[bin.Op][unsignedIdx(common)], l, r)
		}
		e.SetType(types.I32)
		return c.b.Cast(ir.OpZExt, cmp, ir.I32)
	}

	e.SetType(common)
	if common.IsFloat() {
		op, ok := floatOps[bin.Op]
		if !ok {
			fail(e.Span, diag.GenUnsupported, "operator '%s' is not defined on %s", bin.Op, common)
		}
		return c.b.Binary(op, l, r)
	}
	ops, ok := intOps[bin.Op]
	if !ok || !common.IsInteger() {
		fail(e.Span, diag.GenUnsupported, "operator '%s' is not defined on %s", bin.Op, common)
	}
	return c.b.Binary(ops[unsignedIdx(common)], l, r)
}

func unsignedIdx(t *types.Type) int {
	if t.IsUnsigned() {
		return 1
	}
	return 0
}

// genPointerArith: p ± n steps by whole elements; p - q is the element
// distance as i64.
func (c *Context) genPointerArith(e *ast.Expr, op ast.BinaryOp, l, r ir.Value, lt, rt *types.Type) ir.Value {
	elem := c.irType(e.Span, elemType(lt))
	if op == ast.OpSub && (rt.IsPointer() || rt.IsFunc()) {
		li := c.b.Cast(ir.OpPtrToInt, l, ir.I64)
		ri := c.b.Cast(ir.OpPtrToInt, r, ir.I64)
		diff := c.b.Binary(ir.OpSub, li, ri)
		e.SetType(types.I64)
		return c.b.Binary(ir.OpSDiv, diff, ir.Sizeof(elem))
	}
	if !rt.IsInteger() {
		fail(e.Span, diag.GenUnsupported, "cannot offset a pointer by %s", rt)
	}
	idx := r
	if rt.Width < types.Width64 {
		idx = c.b.Cast(ir.OpSExt, idx, ir.I64)
	}
	if op == ast.OpSub {
		idx = c.b.Binary(ir.OpSub, ir.Int(ir.I64, 0), idx)
	}
	e.SetType(lt)
	return c.b.GEP(elem, l, idx)
}

// genLogical short-circuits: the right side runs in its own block and a
// phi merges the result.
func (c *Context) genLogical(e *ast.Expr, bin *ast.BinaryExpr) ir.Value {
	lb := c.cond(bin.Left)
	from := c.b.Block()
	rhs := c.b.NewBlock("sc.rhs")
	end := c.b.NewBlock("sc.end")

	short := ir.Int(ir.I1, 0)
	if bin.Op == ast.OpAnd {
		c.b.CondBr(lb, rhs, end)
	} else {
		short = ir.Int(ir.I1, 1)
		c.b.CondBr(lb, end, rhs)
	}

	c.b.SetBlock(rhs)
	rb := c.cond(bin.Right)
	rhsEnd := c.b.Block()
	c.b.Br(end)

	c.b.SetBlock(end)
	phi := c.b.Phi(ir.I1)
	phi.AddIncoming(short, from)
	phi.AddIncoming(rb, rhsEnd)
	e.SetType(types.I32)
	return c.b.Cast(ir.OpZExt, phi, ir.I32)
}

func (c *Context) genUnary(e *ast.Expr, un *ast.UnaryExpr) ir.Value {
	switch un.Op {
	case ast.OpAddr:
		if fn := c.funcSymbol(un.Operand); fn != nil {
			e.SetType(types.Pointer(fn.typ))
			un.Operand.SetType(fn.typ)
			return fn.value
		}
		addr, t := c.lvalue(un.Operand)
		e.SetType(types.Pointer(t))
		return addr
	case ast.OpDeref:
		p := c.genExpr(un.Operand)
		pt := un.Operand.Type
		if !pt.IsPointer() || pt.Elem.IsVoid() {
			fail(e.Span, diag.GenUnsupported, "cannot dereference %s", pt)
		}
		e.SetType(pt.Elem)
		return c.b.Load(c.irType(e.Span, pt.Elem), p)
	}

	v := c.genExpr(un.Operand)
	t := un.Operand.Type
	switch un.Op {
	case ast.OpNeg:
		e.SetType(t)
		switch {
		case t.IsFloat():
			return c.b.Binary(ir.OpFSub, ir.FloatConst(v.Type(), math.Copysign(0, -1)), v)
		case t.IsInteger():
			return c.b.Binary(ir.OpSub, ir.Zero(v.Type()), v)
		}
	case ast.OpNot:
		var isZero ir.Value
		if t.IsFloat() {
			isZero = c.b.Cmp(ir.PredOEQ, v, ir.Zero(v.Type()))
		} else {
			isZero = c.b.Cmp(ir.PredEQ, v, ir.Zero(v.Type()))
		}
		e.SetType(types.I32)
		return c.b.Cast(ir.OpZExt, isZero, ir.I32)
	case ast.OpBitNot:
		if t.IsInteger() {
			e.SetType(t)
			return c.b.Binary(ir.OpXor, v, ir.Int(v.Type(), -1))
		}
	}
	fail(e.Span, diag.GenUnsupported, "operator '%s' is not defined on %s", un.Op, t)
	return nil
}

// funcSymbol returns the function an identifier names, if any.
func (c *Context) funcSymbol(e *ast.Expr) *symbol {
	if e.Kind != ast.ExprIdent {
		return nil
	}
	sym := c.lookup(e.IdentName())
	if sym == nil || !sym.isFunc() {
		return nil
	}
	return sym
}
