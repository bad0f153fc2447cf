package types

import (
	"fmt"
)

// StructFields resolves a struct name to its field types. The code generator
// supplies it from its struct table.
type StructFields func(name string) ([]*Type, bool)

// Layout computes C-compatible sizes for compile-time evaluation. The values
// match what the backend computes with `getelementptr null, 1` for the same
// pointer width.
type Layout struct {
	PointerSize uint64
	Structs     StructFields
}

// Native is the layout of 64-bit hosts; WASM32 has 4-byte pointers.
func Native(structs StructFields) Layout { return Layout{PointerSize: 8, Structs: structs} }
func WASM32(structs StructFields) Layout { return Layout{PointerSize: 4, Structs: structs} }

// SizeOf returns the allocation size of t.
func (l Layout) SizeOf(t *Type) (uint64, error) {
	size, _, err := l.sizeAlign(t, 0)
	return size, err
}

const maxLayoutDepth = 64

func (l Layout) sizeAlign(t *Type, depth int) (size, align uint64, err error) {
	if depth > maxLayoutDepth {
		return 0, 0, fmt.Errorf("type %s is recursive by value", t)
	}
	switch {
	case t.IsNumeric():
		n := uint64(t.Width) / 8
		return n, n, nil
	case t.IsPointer(), t.IsFunc():
		return l.PointerSize, l.PointerSize, nil
	case t.IsVoid():
		return 1, 1, nil
	case t.IsArray():
		es, ea, err := l.sizeAlign(t.Elem, depth+1)
		if err != nil {
			return 0, 0, err
		}
		return es * uint64(t.Count), ea, nil
	case t.IsStruct():
		if l.Structs == nil {
			return 0, 0, fmt.Errorf("unknown struct '%s'", t.Name)
		}
		fields, ok := l.Structs(t.Name)
		if !ok {
			return 0, 0, fmt.Errorf("unknown struct '%s'", t.Name)
		}
		var off, maxAlign uint64 = 0, 1
		for _, f := range fields {
			fs, fa, err := l.sizeAlign(f, depth+1)
			if err != nil {
				return 0, 0, err
			}
			off = alignTo(off, fa)
			off += fs
			maxAlign = max(maxAlign, fa)
		}
		return alignTo(off, maxAlign), maxAlign, nil
	}
	return 0, 0, fmt.Errorf("type %s has no size", t)
}

func alignTo(n, a uint64) uint64 {
	if a <= 1 {
		return n
	}
	return (n + a - 1) / a * a
}
