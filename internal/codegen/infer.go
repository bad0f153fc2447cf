package codegen

import (
	"math"

	"esc/internal/ast"
	"esc/internal/types"
)

// infer predicts the type genExpr will assign to e without emitting any
// code. Field and index lowering need it to decide whether the object is
// addressed or loaded.
func (c *Context) infer(e *ast.Expr) *types.Type {
	if e.Type != nil {
		return e.Type
	}
	switch data := e.Data.(type) {
	case *ast.IntLit:
		if data.Value < math.MinInt32 || data.Value > math.MaxInt32 {
			return types.I64
		}
		return types.I32
	case *ast.FloatLit:
		return types.F64
	case *ast.StringLit:
		return types.String
	case *ast.NullLit:
		return types.VoidPtr
	case *ast.Ident:
		if sym := c.lookup(data.Name); sym != nil {
			return sym.typ
		}
	case *ast.CallExpr:
		return c.inferCall(data)
	case *ast.CastExpr:
		return c.resolve(data.Target)
	case *ast.UnaryExpr:
		inner := c.infer(data.Operand)
		switch data.Op {
		case ast.OpAddr:
			return types.Pointer(inner)
		case ast.OpDeref:
			if inner.IsPointer() {
				return inner.Elem
			}
		case ast.OpNot:
			return types.I32
		default:
			return inner
		}
	case *ast.BinaryExpr:
		if data.Op.IsComparison() || data.Op.IsLogical() {
			return types.I32
		}
		lt, rt := c.infer(data.Left), c.infer(data.Right)
		if lt.IsPointer() && (data.Op == ast.OpAdd || data.Op == ast.OpSub) {
			if data.Op == ast.OpSub && rt.IsPointer() {
				return types.I64
			}
			return lt
		}
		return types.Arithmetic(lt, rt)
	case *ast.FieldExpr:
		if sd := c.structOf(c.infer(data.Object)); sd != nil {
			if i := sd.index(data.Field); i >= 0 {
				return sd.fields[i]
			}
		}
	case *ast.IndexExpr:
		switch ot := c.infer(data.Object); {
		case ot.IsArray():
			return ot.Elem
		case ot.IsPointer():
			return elemType(ot)
		}
	case *ast.TernaryExpr:
		return c.infer(data.Then)
	case *ast.SizeofExpr, *ast.ComptimeExpr:
		return types.I64
	case *ast.StructInitExpr:
		return types.Pointer(c.resolve(data.Struct))
	case *ast.AsmExpr:
		if len(data.Asm.Outputs) > 0 {
			return c.infer(data.Asm.Outputs[0].Value)
		}
		return types.Void
	}
	return types.I32
}

func (c *Context) inferCall(call *ast.CallExpr) *types.Type {
	var name string
	switch call.Callee.Kind {
	case ast.ExprIdent:
		name = call.Callee.IdentName()
	case ast.ExprField:
		name = call.Callee.Data.(*ast.FieldExpr).Field
		if ft := c.infer(call.Callee); ft.IsFuncPointer() {
			return ft.Elem.Ret
		}
	}
	if sym := c.lookup(name); sym != nil {
		switch t := sym.typ; {
		case t.IsFunc():
			return t.Ret
		case t.IsFuncPointer():
			return t.Elem.Ret
		}
	}
	if name == "check" {
		return types.Void
	}
	return types.I32
}
