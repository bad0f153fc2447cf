package codegen

import (
	"fortio.org/safecast"

	"esc/internal/ast"
	"esc/internal/diag"
)

// fold evaluates a comptime expression to a signed 64-bit constant.
// sizeof is measured with the target layout, so the folded value differs
// between native and WASM builds.
func (c *Context) fold(e *ast.Expr) int64 {
	switch data := e.Data.(type) {
	case *ast.IntLit:
		return data.Value
	case *ast.ComptimeExpr:
		return c.fold(data.Value)
	case *ast.UnaryExpr:
		if data.Op == ast.OpNeg {
			return -c.fold(data.Operand)
		}
	case *ast.TernaryExpr:
		if c.fold(data.Cond) != 0 {
			return c.fold(data.Then)
		}
		return c.fold(data.Else)
	case *ast.SizeofExpr:
		size, err := c.opts.Target.Layout(c.structFields).SizeOf(c.resolve(data.Target))
		if err != nil {
			fail(e.Span, diag.GenNotConstant, "sizeof: %v", err)
		}
		n, err := safecast.Conv[int64](size)
		if err != nil {
			fail(e.Span, diag.GenNotConstant, "sizeof: %v", err)
		}
		return n
	case *ast.BinaryExpr:
		return c.foldBinary(e, data)
	}
	fail(e.Span, diag.GenNotConstant, "cannot evaluate expression at compile time")
	return 0
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (c *Context) foldBinary(e *ast.Expr, bin *ast.BinaryExpr) int64 {
	l := c.fold(bin.Left)
	r := c.fold(bin.Right)
	switch bin.Op {
	case ast.OpAdd:
		return l + r
	case ast.OpSub:
		return l - r
	case ast.OpMul:
		return l * r
	case ast.OpDiv, ast.OpRem:
		if r == 0 {
			fail(e.Span, diag.GenNotConstant, "division by zero in compile-time expression")
		}
		if bin.Op == ast.OpDiv {
			return l / r
		}
		return l % r
	case ast.OpShl, ast.OpShr:
		if r < 0 {
			fail(e.Span, diag.GenNotConstant, "negative shift count %d", r)
		}
		if bin.Op == ast.OpShl {
			return l << r
		}
		return l >> r
	case ast.OpBitAnd:
		return l & r
	case ast.OpBitOr:
		return l | r
	case ast.OpBitXor:
		return l ^ r
	case ast.OpEq:
		return b2i(l == r)
	case ast.OpNe:
		return b2i(l != r)
	case ast.OpLt:
		return b2i(l < r)
	case ast.OpGt:
		return b2i(l > r)
	case ast.OpLe:
		return b2i(l <= r)
	case ast.OpGe:
		return b2i(l >= r)
	}
	fail(e.Span, diag.GenNotConstant, "operator %s is not supported at compile time", bin.Op)
	return 0
}
