package codegen

import (
	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/source"
	"esc/internal/types"
)

func (c *Context) genCall(e *ast.Expr, call *ast.CallExpr) ir.Value {
	switch call.Callee.Kind {
	case ast.ExprIdent:
		name := call.Callee.IdentName()
		sym := c.lookup(name)
		if sym == nil {
			if v, ok := c.genBuiltin(e, name, call.Args); ok {
				return v
			}
			fail(call.Callee.Span, diag.GenUndefinedIdent, "undefined function '%s'", name)
		}
		if sym.isFunc() {
			return c.emitCall(e, name, sym.typ, sym.value, nil, call.Args)
		}
		if ft := funcType(sym.typ); ft != nil {
			fp := c.b.Load(ir.Ptr, sym.value)
			return c.emitCall(e, name, ft, fp, nil, call.Args)
		}
		fail(call.Callee.Span, diag.GenNotFunction, "'%s' is not a function", name)

	case ast.ExprField:
		return c.genMethodCall(e, call)
	}

	// any other callee must evaluate to a function pointer
	fp := c.genExpr(call.Callee)
	ft := funcType(call.Callee.Type)
	if ft == nil {
		fail(call.Callee.Span, diag.GenNotFunction, "cannot call a value of type %s", call.Callee.Type)
	}
	return c.emitCall(e, "function pointer", ft, fp, nil, call.Args)
}

// genMethodCall handles obj.m(args). A struct field named m holding a
// function pointer is called directly; otherwise m is looked up as a free
// function and obj becomes its first argument.
func (c *Context) genMethodCall(e *ast.Expr, call *ast.CallExpr) ir.Value {
	f := call.Callee.Data.(*ast.FieldExpr)
	if sd := c.structOf(c.infer(f.Object)); sd != nil && sd.index(f.Field) >= 0 {
		addr, t := c.lvalue(call.Callee)
		ft := funcType(t)
		if ft == nil {
			fail(call.Callee.Span, diag.GenNotFunction, "field '%s' is not a function pointer", f.Field)
		}
		fp := c.b.Load(ir.Ptr, addr)
		return c.emitCall(e, f.Field, ft, fp, nil, call.Args)
	}

	sym := c.lookup(f.Field)
	if sym == nil || !sym.isFunc() {
		fail(call.Callee.Span, diag.GenNotFunction, "'%s' is not a function (UFCS lookup failed)", f.Field)
	}
	self := c.genExpr(f.Object)
	return c.emitCall(e, f.Field, sym.typ, sym.value, &receiver{self, f.Object}, call.Args)
}

type receiver struct {
	value ir.Value
	expr  *ast.Expr
}

// funcType unwraps fn and *fn types.
func funcType(t *types.Type) *types.Type {
	switch {
	case t.IsFunc():
		return t
	case t.IsFuncPointer():
		return t.Elem
	}
	return nil
}

// emitCall evaluates the arguments left to right, coerces each to its
// parameter type and emits the call. Extra variadic arguments get the C
// default promotion (f32 to f64).
func (c *Context) emitCall(e *ast.Expr, name string, ft *types.Type, callee ir.Value, self *receiver, args []*ast.Expr) ir.Value {
	n := len(args)
	if self != nil {
		n++
	}
	if n < len(ft.Params) || n > len(ft.Params) && !ft.Variadic {
		fail(e.Span, diag.GenArgumentCount, "'%s' expects %d arguments, got %d", name, len(ft.Params), n)
	}

	vals := make([]ir.Value, 0, n)
	pass := func(span source.Span, v ir.Value, t *types.Type) {
		i := len(vals)
		switch {
		case i < len(ft.Params):
			v = c.coerce(span, v, t, ft.Params[i])
		case t.IsFloat() && t.Width == types.Width32:
			v = c.coerce(span, v, t, types.F64)
		}
		vals = append(vals, v)
	}
	if self != nil {
		pass(self.expr.Span, self.value, self.expr.Type)
	}
	for _, a := range args {
		v := c.genExpr(a)
		pass(a.Span, v, a.Type)
	}

	e.SetType(ft.Ret)
	return c.b.Call(c.sigOf(e.Span, ft), callee, vals...)
}
