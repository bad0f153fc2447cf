package ir

import (
	"fmt"
	"strings"
)

// TypeKind enumerates backend type shapes.
type TypeKind uint8

const (
	TVoid TypeKind = iota
	TInt
	TFloat
	TPtr
	TArray
	TStruct
	TFunc
)

// Type is a backend (LLVM) type. Pointers are opaque, so struct bodies
// never need to reference themselves.
type Type struct {
	Kind TypeKind
	Bits int    // TInt width; TFloat 32 or 64
	Elem *Type  // TArray element
	Len  uint32 // TArray length

	// TStruct. Name is empty for literal (anonymous) structs.
	Name   string
	Fields []*Type
	opaque bool

	// TFunc
	Ret      *Type
	Params   []*Type
	Variadic bool
}

var (
	Void   = &Type{Kind: TVoid}
	I1     = &Type{Kind: TInt, Bits: 1}
	I8     = &Type{Kind: TInt, Bits: 8}
	I16    = &Type{Kind: TInt, Bits: 16}
	I32    = &Type{Kind: TInt, Bits: 32}
	I64    = &Type{Kind: TInt, Bits: 64}
	Float  = &Type{Kind: TFloat, Bits: 32}
	Double = &Type{Kind: TFloat, Bits: 64}
	Ptr    = &Type{Kind: TPtr}
)

// IntType returns the shared iN type for the usual widths.
func IntType(bits int) *Type {
	switch bits {
	case 1:
		return I1
	case 8:
		return I8
	case 16:
		return I16
	case 32:
		return I32
	case 64:
		return I64
	}
	return &Type{Kind: TInt, Bits: bits}
}

func ArrayOf(n uint32, elem *Type) *Type {
	return &Type{Kind: TArray, Len: n, Elem: elem}
}

// LiteralStruct returns the anonymous `{ a, b }` type.
func LiteralStruct(fields ...*Type) *Type {
	return &Type{Kind: TStruct, Fields: fields}
}

func FuncOf(ret *Type, params []*Type, variadic bool) *Type {
	if ret == nil {
		ret = Void
	}
	return &Type{Kind: TFunc, Ret: ret, Params: params, Variadic: variadic}
}

func (t *Type) IsVoid() bool  { return t == nil || t.Kind == TVoid }
func (t *Type) IsInt() bool   { return t != nil && t.Kind == TInt }
func (t *Type) IsFloat() bool { return t != nil && t.Kind == TFloat }
func (t *Type) IsPtr() bool   { return t != nil && t.Kind == TPtr }

// IsOpaque reports whether a named struct has no body yet.
func (t *Type) IsOpaque() bool { return t.Kind == TStruct && t.opaque }

// SetBody fills a named struct created by Module.NamedStruct.
func (t *Type) SetBody(fields ...*Type) {
	t.Fields = fields
	t.opaque = false
}

// Same compares types. Named structs compare by name.
func Same(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TVoid, TPtr:
		return true
	case TInt, TFloat:
		return a.Bits == b.Bits
	case TArray:
		return a.Len == b.Len && Same(a.Elem, b.Elem)
	case TStruct:
		if a.Name != "" || b.Name != "" {
			return a.Name == b.Name
		}
		return sameList(a.Fields, b.Fields)
	case TFunc:
		return a.Variadic == b.Variadic && Same(a.Ret, b.Ret) && sameList(a.Params, b.Params)
	}
	return false
}

func sameList(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Same(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (t *Type) String() string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case TVoid:
		return "void"
	case TInt:
		return fmt.Sprintf("i%d", t.Bits)
	case TFloat:
		if t.Bits == 32 {
			return "float"
		}
		return "double"
	case TPtr:
		return "ptr"
	case TArray:
		return fmt.Sprintf("[%d x %s]", t.Len, t.Elem)
	case TStruct:
		if t.Name != "" {
			return "%" + quoteName(t.Name)
		}
		return t.body()
	case TFunc:
		var sb strings.Builder
		sb.WriteString(t.Ret.String())
		sb.WriteString(" (")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		if t.Variadic {
			if len(t.Params) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("...")
		}
		sb.WriteString(")")
		return sb.String()
	}
	return "?"
}

// body renders the `{ ... }` part of a struct.
func (t *Type) body() string {
	if len(t.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
