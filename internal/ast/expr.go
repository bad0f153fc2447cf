package ast

import (
	"strings"

	"esc/internal/source"
	"esc/internal/types"
)

// ExprKind enumerates expression kinds.
type ExprKind uint8

const (
	ExprInt ExprKind = iota
	ExprFloat
	ExprString
	ExprNull
	ExprIdent
	ExprCall
	ExprBinary
	ExprUnary
	ExprField
	ExprIndex
	ExprCast
	ExprTernary
	ExprSizeof
	ExprStructInit
	ExprAsm
	ExprComptime
)

var exprKindNames = [...]string{
	ExprInt:        "Int",
	ExprFloat:      "Float",
	ExprString:     "String",
	ExprNull:       "Null",
	ExprIdent:      "Ident",
	ExprCall:       "Call",
	ExprBinary:     "Binary",
	ExprUnary:      "Unary",
	ExprField:      "Field",
	ExprIndex:      "Index",
	ExprCast:       "Cast",
	ExprTernary:    "Ternary",
	ExprSizeof:     "Sizeof",
	ExprStructInit: "StructInit",
	ExprAsm:        "Asm",
	ExprComptime:   "Comptime",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

// Expr is an expression node. Type is filled by code generation the first
// time the node is lowered and never changes afterwards.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Type *types.Type
	Data ExprData
}

// ExprData is implemented by expression payloads.
type ExprData interface{ exprData() }

type IntLit struct{ Value int64 }
type FloatLit struct{ Value float64 }

// StringLit holds decoded bytes (escapes already applied).
type StringLit struct{ Value string }
type NullLit struct{}

type Ident struct{ Name string }

type CallExpr struct {
	Callee *Expr
	Args   []*Expr
}

type BinaryExpr struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

type UnaryExpr struct {
	Op      UnaryOp
	Operand *Expr
}

type FieldExpr struct {
	Object *Expr
	Field  string
}

type IndexExpr struct {
	Object *Expr
	Index  *Expr
}

type CastExpr struct {
	Value  *Expr
	Target *types.Type
}

type TernaryExpr struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

type SizeofExpr struct {
	Target *types.Type
}

// FieldInit is `name: value` inside a struct literal.
type FieldInit struct {
	Name  string
	Value *Expr
	Span  source.Span
}

// StructInitExpr allocates a T on the heap and yields *T.
type StructInitExpr struct {
	Struct *types.Type
	Fields []FieldInit
}

type AsmExpr struct {
	Asm *InlineAsm
}

type ComptimeExpr struct {
	Value *Expr
}

// AsmOperand binds a constraint to an expression. Output operands must be
// assignable places.
type AsmOperand struct {
	Constraint string
	Value      *Expr
}

// InlineAsm is `asm("tmpl" : outs : ins : clobbers)`.
type InlineAsm struct {
	Template string
	Outputs  []AsmOperand
	Inputs   []AsmOperand
	Clobbers []string
}

// Constraints joins operand constraints as `outs,ins,~{clobber}`.
func (a *InlineAsm) Constraints() string {
	parts := make([]string, 0, len(a.Outputs)+len(a.Inputs)+len(a.Clobbers))
	for _, o := range a.Outputs {
		parts = append(parts, o.Constraint)
	}
	for _, in := range a.Inputs {
		parts = append(parts, in.Constraint)
	}
	for _, c := range a.Clobbers {
		parts = append(parts, "~{"+c+"}")
	}
	return strings.Join(parts, ",")
}

func (*IntLit) exprData()         {}
func (*FloatLit) exprData()       {}
func (*StringLit) exprData()      {}
func (*NullLit) exprData()        {}
func (*Ident) exprData()          {}
func (*CallExpr) exprData()       {}
func (*BinaryExpr) exprData()     {}
func (*UnaryExpr) exprData()      {}
func (*FieldExpr) exprData()      {}
func (*IndexExpr) exprData()      {}
func (*CastExpr) exprData()       {}
func (*TernaryExpr) exprData()    {}
func (*SizeofExpr) exprData()     {}
func (*StructInitExpr) exprData() {}
func (*AsmExpr) exprData()        {}
func (*ComptimeExpr) exprData()   {}

func NewInt(span source.Span, v int64) *Expr {
	return &Expr{Kind: ExprInt, Span: span, Data: &IntLit{Value: v}}
}

func NewFloat(span source.Span, v float64) *Expr {
	return &Expr{Kind: ExprFloat, Span: span, Data: &FloatLit{Value: v}}
}

func NewString(span source.Span, v string) *Expr {
	return &Expr{Kind: ExprString, Span: span, Data: &StringLit{Value: v}}
}

func NewNull(span source.Span) *Expr {
	return &Expr{Kind: ExprNull, Span: span, Data: &NullLit{}}
}

func NewIdent(span source.Span, name string) *Expr {
	return &Expr{Kind: ExprIdent, Span: span, Data: &Ident{Name: name}}
}

func NewCall(span source.Span, callee *Expr, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Span: span, Data: &CallExpr{Callee: callee, Args: args}}
}

func NewBinary(span source.Span, op BinaryOp, left, right *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Span: span, Data: &BinaryExpr{Op: op, Left: left, Right: right}}
}

func NewUnary(span source.Span, op UnaryOp, operand *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Span: span, Data: &UnaryExpr{Op: op, Operand: operand}}
}

func NewField(span source.Span, object *Expr, field string) *Expr {
	return &Expr{Kind: ExprField, Span: span, Data: &FieldExpr{Object: object, Field: field}}
}

func NewIndex(span source.Span, object, index *Expr) *Expr {
	return &Expr{Kind: ExprIndex, Span: span, Data: &IndexExpr{Object: object, Index: index}}
}

func NewCast(span source.Span, value *Expr, target *types.Type) *Expr {
	return &Expr{Kind: ExprCast, Span: span, Data: &CastExpr{Value: value, Target: target}}
}

func NewTernary(span source.Span, cond, then, els *Expr) *Expr {
	return &Expr{Kind: ExprTernary, Span: span, Data: &TernaryExpr{Cond: cond, Then: then, Else: els}}
}

func NewSizeof(span source.Span, target *types.Type) *Expr {
	return &Expr{Kind: ExprSizeof, Span: span, Data: &SizeofExpr{Target: target}}
}

func NewStructInit(span source.Span, st *types.Type, fields []FieldInit) *Expr {
	return &Expr{Kind: ExprStructInit, Span: span, Data: &StructInitExpr{Struct: st, Fields: fields}}
}

func NewComptime(span source.Span, value *Expr) *Expr {
	return &Expr{Kind: ExprComptime, Span: span, Data: &ComptimeExpr{Value: value}}
}

// IdentName returns the name of an identifier expression, or "".
func (e *Expr) IdentName() string {
	if e == nil {
		return ""
	}
	if id, ok := e.Data.(*Ident); ok {
		return id.Name
	}
	return ""
}

// IsIdent reports whether e is the identifier name.
func (e *Expr) IsIdent(name string) bool {
	return e != nil && e.Kind == ExprIdent && e.IdentName() == name
}

// SetType memoizes the inferred type. The first call wins.
func (e *Expr) SetType(t *types.Type) *types.Type {
	if e.Type == nil {
		e.Type = t
	}
	return e.Type
}
