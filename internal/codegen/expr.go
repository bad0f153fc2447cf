package codegen

import (
	"math"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/types"
)

// genExpr lowers e and memoizes its type on the node.
func (c *Context) genExpr(e *ast.Expr) ir.Value {
	switch data := e.Data.(type) {
	case *ast.IntLit:
		if data.Value < math.MinInt32 || data.Value > math.MaxInt32 {
			e.SetType(types.I64)
			return ir.Int(ir.I64, data.Value)
		}
		e.SetType(types.I32)
		return ir.Int(ir.I32, data.Value)
	case *ast.FloatLit:
		e.SetType(types.F64)
		return ir.FloatConst(ir.Double, data.Value)
	case *ast.StringLit:
		e.SetType(types.String)
		return c.mod.StringConst(data.Value)
	case *ast.NullLit:
		e.SetType(types.VoidPtr)
		return ir.Null
	case *ast.Ident:
		return c.genIdent(e, data)
	case *ast.CallExpr:
		return c.genCall(e, data)
	case *ast.BinaryExpr:
		return c.genBinary(e, data)
	case *ast.UnaryExpr:
		return c.genUnary(e, data)
	case *ast.FieldExpr, *ast.IndexExpr:
		addr, t := c.lvalue(e)
		e.SetType(t)
		return c.b.Load(c.irType(e.Span, t), addr)
	case *ast.CastExpr:
		return c.genCast(e, data)
	case *ast.TernaryExpr:
		return c.genTernary(e, data)
	case *ast.SizeofExpr:
		e.SetType(types.I64)
		return ir.Sizeof(c.irType(e.Span, c.resolve(data.Target)))
	case *ast.StructInitExpr:
		return c.genStructInit(e, data)
	case *ast.AsmExpr:
		v, t := c.genAsm(e.Span, data.Asm)
		e.SetType(t)
		return v
	case *ast.ComptimeExpr:
		v := c.fold(data.Value)
		e.SetType(types.I64)
		return ir.Int(ir.I64, v)
	}
	fail(e.Span, diag.GenUnsupported, "unsupported expression %s", e.Kind)
	return nil
}

// genIdent loads a variable. A function name yields the function itself,
// which is how function pointers are made.
func (c *Context) genIdent(e *ast.Expr, id *ast.Ident) ir.Value {
	sym := c.lookup(id.Name)
	if sym == nil {
		fail(e.Span, diag.GenUndefinedIdent, "undefined '%s'", id.Name)
	}
	e.SetType(sym.typ)
	if sym.isFunc() {
		return sym.value
	}
	return c.b.Load(c.irType(e.Span, sym.typ), sym.value)
}

// genCast: pointer to pointer is free, everything else goes through the
// coercion table.
func (c *Context) genCast(e *ast.Expr, cast *ast.CastExpr) ir.Value {
	v := c.genExpr(cast.Value)
	target := c.resolve(cast.Target)
	e.SetType(target)
	from := cast.Value.Type
	if target.IsPointer() && (from.IsPointer() || from.IsFunc()) {
		return v
	}
	return c.coerce(e.Span, v, from, target)
}

// genTernary branches and merges with a phi; the else value is coerced to
// the type of the then value.
func (c *Context) genTernary(e *ast.Expr, t *ast.TernaryExpr) ir.Value {
	cond := c.cond(t.Cond)
	then := c.b.NewBlock("tthen")
	els := c.b.NewBlock("telse")
	merge := c.b.NewBlock("tmerge")
	c.b.CondBr(cond, then, els)

	c.b.SetBlock(then)
	tv := c.genExpr(t.Then)
	thenEnd := c.b.Block()
	c.b.Br(merge)

	c.b.SetBlock(els)
	ev := c.genExpr(t.Else)
	ev = c.coerce(t.Else.Span, ev, t.Else.Type, t.Then.Type)
	elseEnd := c.b.Block()
	c.b.Br(merge)

	c.b.SetBlock(merge)
	e.SetType(t.Then.Type)
	if tv.Type().IsVoid() {
		return tv
	}
	phi := c.b.Phi(tv.Type())
	phi.AddIncoming(tv, thenEnd)
	phi.AddIncoming(ev, elseEnd)
	return phi
}

// genStructInit heap-allocates the struct with malloc and stores the
// listed fields. The literal evaluates to the pointer.
func (c *Context) genStructInit(e *ast.Expr, si *ast.StructInitExpr) ir.Value {
	st := c.resolve(si.Struct)
	sd := c.structOf(st)
	if sd == nil {
		fail(e.Span, diag.GenUnknownStruct, "undefined struct '%s'", st.Name)
	}
	malloc := c.lookup("malloc")
	if malloc == nil || !malloc.isFunc() {
		fail(e.Span, diag.GenMissingMalloc, "struct init requires malloc (use std)")
	}
	size := c.coerce(e.Span, ir.Sizeof(sd.ir), types.I64, firstParam(malloc.typ))
	ptr := c.b.Call(malloc.sig, malloc.value, size)

	for _, f := range si.Fields {
		idx := sd.index(f.Name)
		if idx < 0 {
			fail(f.Span, diag.GenUnknownField, "struct '%s' has no field '%s'", sd.name, f.Name)
		}
		addr := c.b.StructGEP(sd.ir, ptr, idx)
		v := c.genExpr(f.Value)
		c.b.Store(c.coerce(f.Span, v, f.Value.Type, sd.fields[idx]), addr)
	}
	e.SetType(types.Pointer(types.Struct(sd.name)))
	return ptr
}

func firstParam(ft *types.Type) *types.Type {
	if len(ft.Params) == 0 {
		return types.I64
	}
	return ft.Params[0]
}
