package ast

import (
	"esc/internal/source"
	"esc/internal/types"
)

// DeclKind enumerates top-level declaration kinds.
type DeclKind uint8

const (
	// DeclFn is a function with a body.
	DeclFn DeclKind = iota
	// DeclStruct is a named struct layout.
	DeclStruct
	// DeclExtern is a prototype resolved at link time.
	DeclExtern
	// DeclEnum is a set of named i32 constants.
	DeclEnum
)

func (k DeclKind) String() string {
	switch k {
	case DeclFn:
		return "Fn"
	case DeclStruct:
		return "Struct"
	case DeclExtern:
		return "Extern"
	case DeclEnum:
		return "Enum"
	default:
		return "Unknown"
	}
}

// Program is the declaration list of one compilation, preludes first.
type Program struct {
	Decls []*Decl
}

// Append adds decls to the end of the program.
func (p *Program) Append(decls ...*Decl) {
	p.Decls = append(p.Decls, decls...)
}

// Lookup returns the first declaration named name.
func (p *Program) Lookup(name string) *Decl {
	for _, d := range p.Decls {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// Decl is a top-level declaration. Data holds *FnDecl, *StructDecl,
// *ExternDecl or *EnumDecl according to Kind.
type Decl struct {
	Kind DeclKind
	Span source.Span
	Data DeclData
}

// DeclData is implemented by declaration payloads.
type DeclData interface {
	declData()
	DeclName() string
}

// Field is a named, typed slot: a function parameter or a struct field.
type Field struct {
	Name string
	Type *types.Type
	Span source.Span
}

// FnDecl is a function definition.
type FnDecl struct {
	Name   string
	Params []Field
	Ret    *types.Type
	Body   *Stmt // StmtBlock
	// Implicit marks the synthesized main holding free top-level statements.
	Implicit bool
}

// StructDecl is a struct layout.
type StructDecl struct {
	Name   string
	Fields []Field
}

// ExternDecl is an external function prototype. Param names may be empty.
type ExternDecl struct {
	Name     string
	Params   []Field
	Ret      *types.Type
	Variadic bool
}

// EnumMember is one enumerator with its resolved value.
type EnumMember struct {
	Name  string
	Value int64
	Span  source.Span
}

// EnumDecl is a named group of i32 constants.
type EnumDecl struct {
	Name    string
	Members []EnumMember
}

func (*FnDecl) declData()     {}
func (*StructDecl) declData() {}
func (*ExternDecl) declData() {}
func (*EnumDecl) declData()   {}

func (d *FnDecl) DeclName() string     { return d.Name }
func (d *StructDecl) DeclName() string { return d.Name }
func (d *ExternDecl) DeclName() string { return d.Name }
func (d *EnumDecl) DeclName() string   { return d.Name }

// Name returns the declared name.
func (d *Decl) Name() string {
	if d == nil || d.Data == nil {
		return ""
	}
	return d.Data.DeclName()
}

// Fn returns the function payload or nil.
func (d *Decl) Fn() *FnDecl {
	fn, _ := d.Data.(*FnDecl)
	return fn
}

// Struct returns the struct payload or nil.
func (d *Decl) Struct() *StructDecl {
	st, _ := d.Data.(*StructDecl)
	return st
}

// Extern returns the extern payload or nil.
func (d *Decl) Extern() *ExternDecl {
	ex, _ := d.Data.(*ExternDecl)
	return ex
}

// Enum returns the enum payload or nil.
func (d *Decl) Enum() *EnumDecl {
	en, _ := d.Data.(*EnumDecl)
	return en
}

// Signature returns the function type of a fn or extern declaration.
func (d *Decl) Signature() *types.Type {
	switch data := d.Data.(type) {
	case *FnDecl:
		return types.Func(data.Ret, fieldTypes(data.Params), false)
	case *ExternDecl:
		return types.Func(data.Ret, fieldTypes(data.Params), data.Variadic)
	default:
		return nil
	}
}

func fieldTypes(fields []Field) []*types.Type {
	out := make([]*types.Type, len(fields))
	for i, f := range fields {
		out[i] = f.Type
	}
	return out
}

// FieldIndex returns the index of the named field, or -1.
func (s *StructDecl) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
