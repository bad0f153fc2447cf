package codegen

import (
	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/types"
)

// lvalue returns the address of a place and the type stored there,
// without loading it.
func (c *Context) lvalue(e *ast.Expr) (ir.Value, *types.Type) {
	switch data := e.Data.(type) {
	case *ast.Ident:
		sym := c.lookup(data.Name)
		switch {
		case sym == nil:
			fail(e.Span, diag.GenUndefinedIdent, "undefined '%s'", data.Name)
		case sym.isFunc() || sym.constant:
			fail(e.Span, diag.GenNotAddressable, "'%s' is not assignable", data.Name)
		}
		e.SetType(sym.typ)
		return sym.value, sym.typ

	case *ast.FieldExpr:
		return c.fieldAddr(e, data)

	case *ast.UnaryExpr:
		if data.Op == ast.OpDeref {
			p := c.genExpr(data.Operand)
			pt := data.Operand.Type
			if !pt.IsPointer() || pt.Elem.IsVoid() {
				fail(e.Span, diag.GenUnsupported, "cannot dereference %s", pt)
			}
			return p, pt.Elem
		}

	case *ast.IndexExpr:
		return c.indexAddr(e, data)
	}
	fail(e.Span, diag.GenNotAddressable, "expression is not an lvalue")
	return nil, nil
}

// fieldAddr handles both a struct value (addressed in place) and a
// pointer to struct (loaded, then indexed).
func (c *Context) fieldAddr(e *ast.Expr, f *ast.FieldExpr) (ir.Value, *types.Type) {
	objType := c.infer(f.Object)
	sd := c.structOf(objType)
	if sd == nil {
		fail(e.Span, diag.GenUnknownField, "field access '.%s' on non-struct type %s", f.Field, objType)
	}
	idx := sd.index(f.Field)
	if idx < 0 {
		fail(e.Span, diag.GenUnknownField, "struct '%s' has no field '%s'", sd.name, f.Field)
	}
	var base ir.Value
	if objType.IsPointer() {
		base = c.genExpr(f.Object)
	} else {
		base, _ = c.lvalue(f.Object)
	}
	return c.b.StructGEP(sd.ir, base, idx), sd.fields[idx]
}

// indexAddr: arrays are indexed in place, pointers through their value.
func (c *Context) indexAddr(e *ast.Expr, ix *ast.IndexExpr) (ir.Value, *types.Type) {
	objType := c.infer(ix.Object)
	switch {
	case objType.IsArray():
		base, _ := c.lvalue(ix.Object)
		idx := c.genIndex(ix.Index)
		at := c.irType(e.Span, objType)
		return c.b.GEP(at, base, ir.Int(ir.I32, 0), idx), objType.Elem
	case objType.IsPointer():
		base := c.genExpr(ix.Object)
		idx := c.genIndex(ix.Index)
		elem := elemType(objType)
		return c.b.GEP(c.irType(e.Span, elem), base, idx), elem
	}
	fail(e.Span, diag.GenUnsupported, "cannot index %s", objType)
	return nil, nil
}

func (c *Context) genIndex(e *ast.Expr) ir.Value {
	v := c.genExpr(e)
	if !e.Type.IsInteger() {
		fail(e.Span, diag.GenUnsupported, "index must be an integer, not %s", e.Type)
	}
	return v
}
