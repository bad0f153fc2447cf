package types

import (
	"fmt"
	"strings"
)

// Kind enumerates the closed set of type kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindInt
	KindUint
	KindFloat
	KindPointer
	KindArray
	KindStruct
	KindFunc
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindFunc:
		return "func"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// Type describes a value type. Values are immutable once built; share them
// freely. Struct types carry only a name and are resolved against the
// struct table at use, so a struct may reference itself through a pointer.
type Type struct {
	Kind  Kind
	Width Width  // numeric primitives
	Elem  *Type  // pointee or array element
	Count uint32 // array length
	Name  string // struct name

	Ret      *Type
	Params   []*Type
	Variadic bool
}

var (
	Void = &Type{Kind: KindVoid}
	I8   = &Type{Kind: KindInt, Width: Width8}
	I16  = &Type{Kind: KindInt, Width: Width16}
	I32  = &Type{Kind: KindInt, Width: Width32}
	I64  = &Type{Kind: KindInt, Width: Width64}
	U8   = &Type{Kind: KindUint, Width: Width8}
	U16  = &Type{Kind: KindUint, Width: Width16}
	U32  = &Type{Kind: KindUint, Width: Width32}
	U64  = &Type{Kind: KindUint, Width: Width64}
	F32  = &Type{Kind: KindFloat, Width: Width32}
	F64  = &Type{Kind: KindFloat, Width: Width64}

	// Bool is how `bool` is spelled after lowering.
	Bool = I32
	// String is the type of string literals.
	String = Pointer(U8)
	// VoidPtr is the type of `null`.
	VoidPtr = Pointer(Void)
)

// Pointer returns *elem.
func Pointer(elem *Type) *Type {
	return &Type{Kind: KindPointer, Elem: elem}
}

// Array returns [n]elem.
func Array(n uint32, elem *Type) *Type {
	return &Type{Kind: KindArray, Count: n, Elem: elem}
}

// Struct returns a by-name reference to a struct type.
func Struct(name string) *Type {
	return &Type{Kind: KindStruct, Name: name}
}

// Func returns a function signature type.
func Func(ret *Type, params []*Type, variadic bool) *Type {
	if ret == nil {
		ret = Void
	}
	return &Type{Kind: KindFunc, Ret: ret, Params: params, Variadic: variadic}
}

func (t *Type) IsVoid() bool    { return t == nil || t.Kind == KindVoid }
func (t *Type) IsInteger() bool { return t != nil && (t.Kind == KindInt || t.Kind == KindUint) }
func (t *Type) IsUnsigned() bool {
	return t != nil && t.Kind == KindUint
}
func (t *Type) IsFloat() bool   { return t != nil && t.Kind == KindFloat }
func (t *Type) IsNumeric() bool { return t.IsInteger() || t.IsFloat() }
func (t *Type) IsPointer() bool { return t != nil && t.Kind == KindPointer }
func (t *Type) IsArray() bool   { return t != nil && t.Kind == KindArray }
func (t *Type) IsStruct() bool  { return t != nil && t.Kind == KindStruct }
func (t *Type) IsFunc() bool    { return t != nil && t.Kind == KindFunc }

// IsFuncPointer reports whether t is *fn(...).
func (t *Type) IsFuncPointer() bool {
	return t.IsPointer() && t.Elem.IsFunc()
}

// Bits returns the width of a numeric type and 0 otherwise.
func (t *Type) Bits() int {
	if !t.IsNumeric() {
		return 0
	}
	return int(t.Width)
}

// StructName resolves S and *S to "S"; anything else yields "".
func (t *Type) StructName() string {
	switch {
	case t.IsStruct():
		return t.Name
	case t.IsPointer() && t.Elem.IsStruct():
		return t.Elem.Name
	}
	return ""
}

// Pointee returns the element of a pointer, or nil.
func (t *Type) Pointee() *Type {
	if t.IsPointer() {
		return t.Elem
	}
	return nil
}

// Equal compares types structurally.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt, KindUint, KindFloat:
		return a.Width == b.Width
	case KindPointer:
		return Equal(a.Elem, b.Elem)
	case KindArray:
		return a.Count == b.Count && Equal(a.Elem, b.Elem)
	case KindStruct:
		return a.Name == b.Name
	case KindFunc:
		if a.Variadic != b.Variadic || len(a.Params) != len(b.Params) || !Equal(a.Ret, b.Ret) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	}
	return true
}

func (t *Type) String() string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindInt:
		return fmt.Sprintf("i%d", t.Width)
	case KindUint:
		return fmt.Sprintf("u%d", t.Width)
	case KindFloat:
		return fmt.Sprintf("f%d", t.Width)
	case KindPointer:
		return "*" + t.Elem.String()
	case KindArray:
		return fmt.Sprintf("[%d]%s", t.Count, t.Elem)
	case KindStruct:
		return t.Name
	case KindFunc:
		var sb strings.Builder
		sb.WriteString("fn(")
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
		if !t.Ret.IsVoid() {
			sb.WriteString(" -> ")
			sb.WriteString(t.Ret.String())
		}
		return sb.String()
	}
	return "invalid"
}
