package ast

// HasReturnValue reports whether any statement nested in s is a
// `return <expr>`. Used to infer an omitted return type.
func HasReturnValue(s *Stmt) bool {
	found := false
	WalkStmts(s, func(st *Stmt) bool {
		if found {
			return false
		}
		if r, ok := st.Data.(*ReturnStmt); ok && r.Value != nil {
			found = true
			return false
		}
		return true
	})
	return found
}

// WalkStmts visits s and every statement nested in it in source order.
// Returning false from fn skips the children of the current statement.
func WalkStmts(s *Stmt, fn func(*Stmt) bool) {
	if s == nil || !fn(s) {
		return
	}
	switch data := s.Data.(type) {
	case *BlockStmt:
		for _, child := range data.Stmts {
			WalkStmts(child, fn)
		}
	case *IfStmt:
		WalkStmts(data.Then, fn)
		WalkStmts(data.Else, fn)
	case *WhileStmt:
		WalkStmts(data.Body, fn)
	case *ForStmt:
		WalkStmts(data.Init, fn)
		WalkStmts(data.Body, fn)
		WalkStmts(data.Incr, fn)
	case *MatchStmt:
		for _, c := range data.Cases {
			WalkStmts(c.Body, fn)
		}
	case *DeferStmt:
		WalkStmts(data.Body, fn)
	}
}

// WalkExprs visits e and its subexpressions depth-first, parents first.
func WalkExprs(e *Expr, fn func(*Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch data := e.Data.(type) {
	case *CallExpr:
		WalkExprs(data.Callee, fn)
		for _, a := range data.Args {
			WalkExprs(a, fn)
		}
	case *BinaryExpr:
		WalkExprs(data.Left, fn)
		WalkExprs(data.Right, fn)
	case *UnaryExpr:
		WalkExprs(data.Operand, fn)
	case *FieldExpr:
		WalkExprs(data.Object, fn)
	case *IndexExpr:
		WalkExprs(data.Object, fn)
		WalkExprs(data.Index, fn)
	case *CastExpr:
		WalkExprs(data.Value, fn)
	case *TernaryExpr:
		WalkExprs(data.Cond, fn)
		WalkExprs(data.Then, fn)
		WalkExprs(data.Else, fn)
	case *StructInitExpr:
		for _, f := range data.Fields {
			WalkExprs(f.Value, fn)
		}
	case *AsmExpr:
		for _, o := range data.Asm.Outputs {
			WalkExprs(o.Value, fn)
		}
		for _, in := range data.Asm.Inputs {
			WalkExprs(in.Value, fn)
		}
	case *ComptimeExpr:
		WalkExprs(data.Value, fn)
	}
}
