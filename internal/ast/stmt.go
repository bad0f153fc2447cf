package ast

import (
	"esc/internal/source"
	"esc/internal/types"
)

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtReturn
	StmtExpr
	StmtDecl
	StmtAssign
	StmtIf
	StmtWhile
	StmtFor
	StmtBreak
	StmtContinue
	StmtMatch
	StmtDefer
	StmtAsm
	StmtComptime
)

var stmtKindNames = [...]string{
	StmtBlock:    "Block",
	StmtReturn:   "Return",
	StmtExpr:     "Expr",
	StmtDecl:     "Decl",
	StmtAssign:   "Assign",
	StmtIf:       "If",
	StmtWhile:    "While",
	StmtFor:      "For",
	StmtBreak:    "Break",
	StmtContinue: "Continue",
	StmtMatch:    "Match",
	StmtDefer:    "Defer",
	StmtAsm:      "Asm",
	StmtComptime: "Comptime",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Unknown"
}

// Stmt is a statement node. Data is nil for break/continue.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is implemented by statement payloads.
type StmtData interface{ stmtData() }

// BlockStmt is a brace-delimited statement list with its own scope.
type BlockStmt struct {
	Stmts []*Stmt
}

// ReturnStmt returns Value, or nothing when Value is nil.
type ReturnStmt struct {
	Value *Expr
}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	Expr *Expr
}

// VarDeclStmt introduces a local. Type is nil when inferred from Init;
// Init is nil for `x : T`.
type VarDeclStmt struct {
	Name    string
	Type    *types.Type
	Init    *Expr
	Mutable bool
}

// AssignStmt stores Value into the place Target.
type AssignStmt struct {
	Target *Expr
	Value  *Expr
}

// IfStmt has a mandatory Then block; Else is a block, another if, or nil.
type IfStmt struct {
	Cond *Expr
	Then *Stmt
	Else *Stmt
}

type WhileStmt struct {
	Cond *Expr
	Body *Stmt
}

// ForStmt is the desugared counting loop: Init; while Cond { Body; Incr }.
// `continue` jumps to Incr.
type ForStmt struct {
	Init *Stmt
	Cond *Expr
	Incr *Stmt
	Body *Stmt
}

// MatchCase is one arm. Value is nil for the `_` default.
type MatchCase struct {
	Value *Expr
	Body  *Stmt
	Span  source.Span
}

// IsDefault reports whether the arm is `_`.
func (c *MatchCase) IsDefault() bool { return c.Value == nil }

type MatchStmt struct {
	Value *Expr
	Cases []*MatchCase
}

// DeferStmt runs Body on every exit of the enclosing function.
type DeferStmt struct {
	Body *Stmt
}

type AsmStmt struct {
	Asm *InlineAsm
}

type ComptimeStmt struct {
	Expr *Expr
}

func (*BlockStmt) stmtData()    {}
func (*ReturnStmt) stmtData()   {}
func (*ExprStmt) stmtData()     {}
func (*VarDeclStmt) stmtData()  {}
func (*AssignStmt) stmtData()   {}
func (*IfStmt) stmtData()       {}
func (*WhileStmt) stmtData()    {}
func (*ForStmt) stmtData()      {}
func (*MatchStmt) stmtData()    {}
func (*DeferStmt) stmtData()    {}
func (*AsmStmt) stmtData()      {}
func (*ComptimeStmt) stmtData() {}

// NewBlock wraps stmts into a block statement.
func NewBlock(span source.Span, stmts ...*Stmt) *Stmt {
	return &Stmt{Kind: StmtBlock, Span: span, Data: &BlockStmt{Stmts: stmts}}
}

// NewReturn builds `return value`.
func NewReturn(span source.Span, value *Expr) *Stmt {
	return &Stmt{Kind: StmtReturn, Span: span, Data: &ReturnStmt{Value: value}}
}

// NewExprStmt wraps e into a statement.
func NewExprStmt(e *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Span: e.Span, Data: &ExprStmt{Expr: e}}
}

// NewAssign builds `target = value`.
func NewAssign(span source.Span, target, value *Expr) *Stmt {
	return &Stmt{Kind: StmtAssign, Span: span, Data: &AssignStmt{Target: target, Value: value}}
}

// NewVarDecl builds a local declaration.
func NewVarDecl(span source.Span, name string, typ *types.Type, init *Expr) *Stmt {
	return &Stmt{Kind: StmtDecl, Span: span, Data: &VarDeclStmt{Name: name, Type: typ, Init: init}}
}

// Block returns the payload of a block statement or nil.
func (s *Stmt) Block() *BlockStmt {
	if s == nil {
		return nil
	}
	b, _ := s.Data.(*BlockStmt)
	return b
}
