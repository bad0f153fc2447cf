package codegen

import (
	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/source"
	"esc/internal/types"
)

// genEnum turns every member into a private i32 constant. Members are
// referenced by their bare name.
func (c *Context) genEnum(d *ast.Decl, en *ast.EnumDecl) {
	for _, m := range en.Members {
		if prev := c.lookup(m.Name); prev != nil {
			fail(m.Span, diag.GenDuplicateEnumValue, "enum member '%s' already defined", m.Name)
		}
		g, err := c.mod.AddGlobal(&ir.Global{
			Name:     "enum." + en.Name + "." + m.Name,
			Init:     ir.Int(ir.I32, m.Value),
			Constant: true,
			Linkage:  ir.Private,
		})
		if err != nil {
			fail(d.Span, diag.GenDuplicateEnumValue, "%v", err)
		}
		c.push(symbol{name: m.Name, value: g, typ: types.I32, constant: true})
	}
}

// declareExtern adds a prototype. A second extern with the same name (a
// prelude loaded twice, or a user redeclaring printf) is skipped.
func (c *Context) declareExtern(d *ast.Decl, ex *ast.ExternDecl) {
	if c.lookup(ex.Name) != nil {
		return
	}
	ft := c.resolve(types.Func(ex.Ret, fieldTypes(ex.Params), ex.Variadic))
	sig := c.sigOf(d.Span, ft)
	fn := c.mod.AddFunction(ex.Name, sig)
	c.push(symbol{name: ex.Name, value: fn, typ: ft, sig: sig})
}

// declareFn registers a prototype so calls may precede the definition.
func (c *Context) declareFn(d *ast.Decl, fn *ast.FnDecl) {
	if prev := c.lookup(fn.Name); prev != nil {
		if fn.Implicit {
			fail(d.Span, diag.GenDuplicateFunction,
				"function 'main' already defined; top-level statements form an implicit main")
		}
		fail(d.Span, diag.GenDuplicateFunction, "function '%s' already defined", fn.Name)
	}
	ft := c.resolve(types.Func(fn.Ret, fieldTypes(fn.Params), false))
	sig := c.sigOf(d.Span, ft)
	f := c.mod.AddFunction(fn.Name, sig)
	f.Linkage = ir.External
	for i, p := range fn.Params {
		f.Params[i].Name = "p." + p.Name
	}
	c.push(symbol{name: fn.Name, value: f, typ: ft, sig: sig})
}

func fieldTypes(fields []ast.Field) []*types.Type {
	out := make([]*types.Type, len(fields))
	for i, f := range fields {
		out[i] = f.Type
	}
	return out
}

// genFn emits the body of a declared function. Parameters are spilled to
// stack slots so they can be assigned like locals.
func (c *Context) genFn(fn *ast.FnDecl) {
	sym := c.lookup(fn.Name)
	f := sym.value.(*ir.Function)
	ft := sym.typ

	prevFn, prevName, prevRet := c.fn, c.fnName, c.retType
	prevLoop, prevDefers := c.loop, c.defers
	mark := c.scope()
	defer func() {
		c.fn, c.fnName, c.retType = prevFn, prevName, prevRet
		c.loop, c.defers = prevLoop, prevDefers
		c.closeScope(mark)
	}()

	c.fn, c.fnName, c.retType = f, fn.Name, ft.Ret
	c.loop, c.defers = nil, nil
	c.b.SetFunction(f)

	for i, p := range fn.Params {
		pt := ft.Params[i]
		slot := c.b.Alloca(c.irType(p.Span, pt))
		c.b.Store(f.Params[i], slot)
		c.push(symbol{name: p.Name, value: slot, typ: pt})
	}

	c.genBlock(fn.Body)

	if !c.b.Terminated() {
		c.runDefers()
		c.retZero(fn.Body.Span)
	}
}

// retZero is the implicit fallthrough return: 0, 0.0, null or void.
func (c *Context) retZero(span source.Span) {
	if c.retType.IsVoid() {
		c.b.RetVoid()
		return
	}
	c.b.Ret(ir.Zero(c.irType(span, c.retType)))
}

// runDefers replays the defer stack, innermost first. Each body sees the
// scope it was registered in, even when that block is already closed.
// Defers registered while replaying are ignored.
func (c *Context) runDefers() {
	defers := c.defers
	saved := c.syms
	c.defers = nil
	for i := len(defers) - 1; i >= 0; i-- {
		c.syms = defers[i].syms
		c.genStmt(defers[i].body)
	}
	c.syms = saved
	c.defers = defers
}
