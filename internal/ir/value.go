package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is anything that can appear as an instruction operand.
type Value interface {
	Type() *Type
	// Ident is the operand spelling without its type: %t3, @main, 42.
	Ident() string
}

// Const is a Value usable as a global initializer.
type Const interface {
	Value
	isConst()
}

type ConstInt struct {
	Typ *Type
	V   int64
}

func (c *ConstInt) Type() *Type { return c.Typ }
func (c *ConstInt) Ident() string {
	if c.Typ.Bits == 1 {
		if c.V != 0 {
			return "true"
		}
		return "false"
	}
	return strconv.FormatInt(c.V, 10)
}
func (*ConstInt) isConst() {}

type ConstFloat struct {
	Typ *Type
	V   float64
}

func (c *ConstFloat) Type() *Type { return c.Typ }

// Ident prints the exact bit pattern: LLVM wants float constants as the
// double that the single value widens to.
func (c *ConstFloat) Ident() string {
	v := c.V
	if c.Typ.Bits == 32 {
		v = float64(float32(v))
	}
	return fmt.Sprintf("0x%016X", math.Float64bits(v))
}
func (*ConstFloat) isConst() {}

type ConstNull struct{}

func (ConstNull) Type() *Type   { return Ptr }
func (ConstNull) Ident() string { return "null" }
func (ConstNull) isConst()      {}

// ConstZero is zeroinitializer / undef-free default of Typ.
type ConstZero struct{ Typ *Type }

func (c *ConstZero) Type() *Type { return c.Typ }
func (c *ConstZero) Ident() string {
	switch c.Typ.Kind {
	case TInt:
		return (&ConstInt{Typ: c.Typ}).Ident()
	case TFloat:
		return (&ConstFloat{Typ: c.Typ}).Ident()
	case TPtr:
		return "null"
	}
	return "zeroinitializer"
}
func (*ConstZero) isConst() {}

// ConstSizeof is the target-independent size of Elem in bytes, as i64.
type ConstSizeof struct{ Elem *Type }

func (*ConstSizeof) Type() *Type { return I64 }
func (c *ConstSizeof) Ident() string {
	return fmt.Sprintf("ptrtoint (ptr getelementptr (%s, ptr null, i32 1) to i64)", c.Elem)
}
func (*ConstSizeof) isConst() {}

// ConstBytes is a c"..." byte array.
type ConstBytes struct{ Data []byte }

func (c *ConstBytes) Type() *Type { return ArrayOf(uint32(len(c.Data)), I8) }
func (c *ConstBytes) Ident() string {
	return `c"` + escapeBytes(c.Data) + `"`
}
func (*ConstBytes) isConst() {}

func Int(t *Type, v int64) *ConstInt { return &ConstInt{Typ: t, V: v} }

func FloatConst(t *Type, v float64) *ConstFloat { return &ConstFloat{Typ: t, V: v} }

func Zero(t *Type) *ConstZero { return &ConstZero{Typ: t} }

func Sizeof(t *Type) *ConstSizeof { return &ConstSizeof{Elem: t} }

// Null is the null pointer.
var Null Value = ConstNull{}

// Param is a function argument.
type Param struct {
	Name string
	Typ  *Type
}

func (p *Param) Type() *Type   { return p.Typ }
func (p *Param) Ident() string { return "%" + quoteName(p.Name) }

// Linkage of globals and functions.
type Linkage uint8

const (
	External Linkage = iota
	Internal
	Private
)

func (l Linkage) prefix() string {
	switch l {
	case Internal:
		return "internal "
	case Private:
		return "private "
	}
	return ""
}

// Global is a module-level variable or constant. As a value it is the
// address of its storage.
type Global struct {
	Name     string
	Init     Const
	Constant bool
	Unnamed  bool // unnamed_addr
	Linkage  Linkage
}

func (*Global) Type() *Type        { return Ptr }
func (g *Global) Ident() string    { return "@" + quoteName(g.Name) }
func (g *Global) ValueType() *Type { return g.Init.Type() }

func escapeBytes(data []byte) string {
	var sb strings.Builder
	for _, c := range data {
		if c >= 0x20 && c < 0x7f && c != '"' && c != '\\' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "\\%02X", c)
	}
	return sb.String()
}

// quoteName wraps identifiers that LLVM would not accept bare.
func quoteName(name string) string {
	if name == "" {
		return `""`
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '.', c == '$', c == '-':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return `"` + escapeBytes([]byte(name)) + `"`
		}
	}
	return name
}
