package codegen

import (
	"slices"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/types"
)

// genBlock opens a scope and stops at the first statement that
// terminates the current block.
func (c *Context) genBlock(s *ast.Stmt) {
	mark := c.scope()
	defer c.closeScope(mark)
	for _, st := range s.Block().Stmts {
		c.genStmt(st)
		if c.b.Terminated() {
			break
		}
	}
}

func (c *Context) genStmt(s *ast.Stmt) {
	switch data := s.Data.(type) {
	case *ast.BlockStmt:
		c.genBlock(s)
	case *ast.ReturnStmt:
		c.genReturn(s, data)
	case *ast.ExprStmt:
		c.genExpr(data.Expr)
	case *ast.VarDeclStmt:
		c.genVarDecl(s, data)
	case *ast.AssignStmt:
		v := c.genExpr(data.Value)
		addr, t := c.lvalue(data.Target)
		c.b.Store(c.coerce(s.Span, v, data.Value.Type, t), addr)
	case *ast.IfStmt:
		c.genIf(data)
	case *ast.WhileStmt:
		c.genWhile(data)
	case *ast.ForStmt:
		c.genFor(data)
	case *ast.MatchStmt:
		c.genMatch(data)
	case *ast.DeferStmt:
		c.defers = append(c.defers, deferred{body: data.Body, syms: slices.Clip(slices.Clone(c.syms))})
	case *ast.AsmStmt:
		c.genAsm(s.Span, data.Asm)
	case *ast.ComptimeStmt:
		c.fold(data.Expr)
	default:
		switch s.Kind {
		case ast.StmtBreak:
			if c.loop == nil {
				fail(s.Span, diag.GenOutsideLoop, "'break' outside of loop")
			}
			c.b.Br(c.loop.brk)
		case ast.StmtContinue:
			if c.loop == nil {
				fail(s.Span, diag.GenOutsideLoop, "'continue' outside of loop")
			}
			c.b.Br(c.loop.cont)
		default:
			fail(s.Span, diag.GenUnsupported, "unsupported statement %s", s.Kind)
		}
	}
}

func (c *Context) genReturn(s *ast.Stmt, ret *ast.ReturnStmt) {
	var v ir.Value
	switch {
	case ret.Value != nil && c.retType.IsVoid():
		fail(s.Span, diag.GenUnsupported, "function '%s' returns void", c.fnName)
	case ret.Value != nil:
		v = c.genExpr(ret.Value)
		v = c.coerce(s.Span, v, ret.Value.Type, c.retType)
	case !c.retType.IsVoid():
		fail(s.Span, diag.GenUnsupported, "function '%s' must return %s", c.fnName, c.retType)
	}
	c.runDefers()
	if v == nil {
		c.b.RetVoid()
		return
	}
	c.b.Ret(v)
}

func (c *Context) genVarDecl(s *ast.Stmt, d *ast.VarDeclStmt) {
	var v ir.Value
	var vt *types.Type
	if d.Init != nil {
		v = c.genExpr(d.Init)
		vt = d.Init.Type
	}
	t := c.resolve(d.Type)
	if t == nil {
		t = vt
	}
	if t.IsVoid() {
		fail(s.Span, diag.GenUnsupported, "cannot declare '%s' of type void", d.Name)
	}
	it := c.irType(s.Span, t)
	slot := c.b.Alloca(it)
	if v != nil {
		c.b.Store(c.coerce(s.Span, v, vt, t), slot)
	} else {
		c.b.Store(ir.Zero(it), slot)
	}
	c.push(symbol{name: d.Name, value: slot, typ: t})
}

// cond evaluates e as an i1.
func (c *Context) cond(e *ast.Expr) ir.Value {
	return c.toBool(c.genExpr(e), e.Type)
}

func (c *Context) toBool(v ir.Value, t *types.Type) ir.Value {
	switch {
	case ir.Same(v.Type(), ir.I1):
		return v
	case t.IsFloat():
		return c.b.Cmp(ir.PredONE, v, ir.Zero(v.Type()))
	default:
		return c.b.Cmp(ir.PredNE, v, ir.Zero(v.Type()))
	}
}

// genIf always creates then, else and merge blocks; without an else
// branch the condition jumps straight to merge.
func (c *Context) genIf(st *ast.IfStmt) {
	cond := c.cond(st.Cond)
	then := c.b.NewBlock("then")
	els := c.b.NewBlock("else")
	merge := c.b.NewBlock("merge")

	if st.Else != nil {
		c.b.CondBr(cond, then, els)
	} else {
		c.b.CondBr(cond, then, merge)
	}

	c.b.SetBlock(then)
	c.genBlock(st.Then)
	if !c.b.Terminated() {
		c.b.Br(merge)
	}

	c.b.SetBlock(els)
	if st.Else != nil {
		c.genStmt(st.Else)
	}
	if !c.b.Terminated() {
		c.b.Br(merge)
	}
	c.b.SetBlock(merge)
}

func (c *Context) withLoop(cont, brk *ir.Block, body func()) {
	prev := c.loop
	c.loop = &loopTargets{cont: cont, brk: brk}
	body()
	c.loop = prev
}

func (c *Context) genWhile(st *ast.WhileStmt) {
	condBlk := c.b.NewBlock("whcond")
	body := c.b.NewBlock("whbody")
	end := c.b.NewBlock("whend")

	c.b.Br(condBlk)
	c.b.SetBlock(condBlk)
	c.b.CondBr(c.cond(st.Cond), body, end)

	c.b.SetBlock(body)
	c.withLoop(condBlk, end, func() { c.genBlock(st.Body) })
	if !c.b.Terminated() {
		c.b.Br(condBlk)
	}
	c.b.SetBlock(end)
}

// genFor lowers the desugared counting loop; continue goes to the
// increment, not the condition.
func (c *Context) genFor(st *ast.ForStmt) {
	mark := c.scope()
	defer c.closeScope(mark)

	if st.Init != nil {
		c.genStmt(st.Init)
	}
	condBlk := c.b.NewBlock("fo.cond")
	body := c.b.NewBlock("fo.body")
	incr := c.b.NewBlock("fo.incr")
	end := c.b.NewBlock("fo.end")

	c.b.Br(condBlk)
	c.b.SetBlock(condBlk)
	if st.Cond != nil {
		c.b.CondBr(c.cond(st.Cond), body, end)
	} else {
		c.b.Br(body)
	}

	c.b.SetBlock(body)
	c.withLoop(incr, end, func() { c.genBlock(st.Body) })
	if !c.b.Terminated() {
		c.b.Br(incr)
	}

	c.b.SetBlock(incr)
	if st.Incr != nil {
		c.genStmt(st.Incr)
	}
	c.b.Br(condBlk)
	c.b.SetBlock(end)
}

// genMatch is an equality chain in source order. A default arm ends the
// chain: arms after it are never tested.
func (c *Context) genMatch(st *ast.MatchStmt) {
	v := c.genExpr(st.Value)
	vt := st.Value.Type
	end := c.b.NewBlock("ma.end")

	for _, arm := range st.Cases {
		if arm.IsDefault() {
			c.genBlock(arm.Body)
			if !c.b.Terminated() {
				c.b.Br(end)
			}
			break
		}
		cv := c.genExpr(arm.Value)
		cv = c.coerce(arm.Span, cv, arm.Value.Type, vt)
		pred := ir.PredEQ
		if vt.IsFloat() {
			pred = ir.PredOEQ
		}
		eq := c.b.Cmp(pred, v, cv)
		then := c.b.NewBlock("ma.then")
		next := c.b.NewBlock("ma.next")
		c.b.CondBr(eq, then, next)

		c.b.SetBlock(then)
		c.genBlock(arm.Body)
		if !c.b.Terminated() {
			c.b.Br(end)
		}
		c.b.SetBlock(next)
	}
	if !c.b.Terminated() {
		c.b.Br(end)
	}
	c.b.SetBlock(end)
}
