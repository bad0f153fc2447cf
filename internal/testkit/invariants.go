package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"esc/internal/ast"
	"esc/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on the
// declarations of prog that come from sf:
// 1) every decl span is non-empty and within the file content
// 2) every statement and expression span is well-formed and contained in
// the span of its declaration
// Declarations loaded from preludes are skipped.
func CheckSpanInvariants(prog *ast.Program, sf *source.File) error {
	if prog == nil || sf == nil {
		return fmt.Errorf("nil program or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("file too large: %w", err)
	}

	for i, d := range prog.Decls {
		if d.Span.File != sf.ID {
			continue
		}
		if d.Span.End <= d.Span.Start {
			return fmt.Errorf("decl[%d] %s: empty span %v", i, d.Name(), d.Span)
		}
		if d.Span.End > size {
			return fmt.Errorf("decl[%d] %s: span %v past end of file (%d)", i, d.Name(), d.Span, size)
		}
		fn := d.Fn()
		if fn == nil {
			continue
		}
		var bad error
		check := func(kind string, s source.Span) {
			if bad != nil {
				return
			}
			switch {
			case s.File != sf.ID:
				bad = fmt.Errorf("decl[%d] %s: %s span in file %d", i, d.Name(), kind, s.File)
			case s.Start > s.End:
				bad = fmt.Errorf("decl[%d] %s: inverted %s span %v", i, d.Name(), kind, s)
			case s.Start < d.Span.Start || s.End > d.Span.End:
				bad = fmt.Errorf("decl[%d] %s: %s span %v outside decl %v", i, d.Name(), kind, s, d.Span)
			}
		}
		ast.WalkStmts(fn.Body, func(st *ast.Stmt) bool {
			check(st.Kind.String(), st.Span)
			for _, e := range stmtExprs(st) {
				ast.WalkExprs(e, func(x *ast.Expr) bool {
					check(x.Kind.String(), x.Span)
					return bad == nil
				})
			}
			return bad == nil
		})
		if bad != nil {
			return bad
		}
	}
	return nil
}

// stmtExprs lists the expressions owned directly by st.
func stmtExprs(st *ast.Stmt) []*ast.Expr {
	switch data := st.Data.(type) {
	case *ast.ReturnStmt:
		return []*ast.Expr{data.Value}
	case *ast.ExprStmt:
		return []*ast.Expr{data.Expr}
	case *ast.VarDeclStmt:
		return []*ast.Expr{data.Init}
	case *ast.AssignStmt:
		return []*ast.Expr{data.Target, data.Value}
	case *ast.IfStmt:
		return []*ast.Expr{data.Cond}
	case *ast.WhileStmt:
		return []*ast.Expr{data.Cond}
	case *ast.ForStmt:
		return []*ast.Expr{data.Cond}
	case *ast.MatchStmt:
		out := []*ast.Expr{data.Value}
		for _, c := range data.Cases {
			out = append(out, c.Value)
		}
		return out
	case *ast.ComptimeStmt:
		return []*ast.Expr{data.Expr}
	case *ast.AsmStmt:
		var out []*ast.Expr
		for _, o := range data.Asm.Outputs {
			out = append(out, o.Value)
		}
		for _, in := range data.Asm.Inputs {
			out = append(out, in.Value)
		}
		return out
	}
	return nil
}
