package types_test

import (
	"testing"

	"github.com/nalgeon/be"

	"esc/internal/types"
)

func TestString(t *testing.T) {
	cases := map[string]*types.Type{
		"i32":                     types.I32,
		"u8":                      types.U8,
		"f64":                     types.F64,
		"*u8":                     types.String,
		"*void":                   types.VoidPtr,
		"[4]i64":                  types.Array(4, types.I64),
		"Node":                    types.Struct("Node"),
		"**Node":                  types.Pointer(types.Pointer(types.Struct("Node"))),
		"fn(i32, ...) -> i32":     types.Func(types.I32, []*types.Type{types.I32}, true),
		"fn()":                    types.Func(nil, nil, false),
		"*fn(*u8, f32) -> f64":    types.Pointer(types.Func(types.F64, []*types.Type{types.String, types.F32}, false)),
	}
	for want, ty := range cases {
		be.Equal(t, ty.String(), want)
	}
}

func TestEqual(t *testing.T) {
	be.True(t, types.Equal(types.Pointer(types.Struct("A")), types.Pointer(types.Struct("A"))))
	be.True(t, !types.Equal(types.Struct("A"), types.Struct("B")))
	be.True(t, !types.Equal(types.I32, types.U32))
	be.True(t, !types.Equal(types.Array(2, types.I8), types.Array(3, types.I8)))
	be.True(t, types.Equal(types.Bool, types.I32))
}

func TestPredicates(t *testing.T) {
	be.True(t, types.U16.IsInteger())
	be.True(t, types.U16.IsUnsigned())
	be.True(t, !types.I16.IsUnsigned())
	be.True(t, types.F32.IsFloat())
	be.Equal(t, types.F32.Bits(), 32)
	be.Equal(t, types.String.Bits(), 0)
	be.True(t, types.Pointer(types.Func(nil, nil, false)).IsFuncPointer())
	be.Equal(t, types.Pointer(types.Struct("S")).StructName(), "S")
	be.Equal(t, types.Struct("S").StructName(), "S")
	be.Equal(t, types.I32.StructName(), "")
	var none *types.Type
	be.True(t, none.IsVoid())
}

func TestCoercion(t *testing.T) {
	fnTy := types.Func(types.I32, nil, false)
	cases := []struct {
		from, to *types.Type
		want     types.Op
	}{
		{types.I8, types.I32, types.OpZExt},
		{types.I32, types.I64, types.OpZExt}, // zero-extends even for signed
		{types.I64, types.I8, types.OpTrunc},
		{types.I32, types.U32, types.OpNone},
		{types.I32, types.F64, types.OpSIToFP},
		{types.U32, types.F64, types.OpUIToFP},
		{types.F64, types.I32, types.OpFPToSI},
		{types.F64, types.U8, types.OpFPToUI},
		{types.F32, types.F64, types.OpFPExt},
		{types.F64, types.F32, types.OpFPTrunc},
		{types.String, types.VoidPtr, types.OpNone},
		{types.I64, types.String, types.OpIntToPtr},
		{types.String, types.I64, types.OpPtrToInt},
		{fnTy, types.I64, types.OpPtrToInt},
		{types.Struct("S"), types.Struct("S"), types.OpNone},
	}
	for _, tc := range cases {
		got := types.Coercion(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("Coercion(%s, %s) = %q, want %q", tc.from, tc.to, got, tc.want)
		}
	}
	be.Equal(t, types.OpUIToFP.String(), "uitofp")
}

func TestArithmetic(t *testing.T) {
	be.Equal(t, types.Arithmetic(types.I32, types.I64), types.I64)
	be.Equal(t, types.Arithmetic(types.I64, types.I8), types.I64)
	be.Equal(t, types.Arithmetic(types.U32, types.I32), types.U32)
	be.Equal(t, types.Arithmetic(types.I32, types.F32), types.F32)
	be.Equal(t, types.Arithmetic(types.F64, types.I64), types.F64)
	be.Equal(t, types.Arithmetic(types.F32, types.F64), types.F64)
	be.Equal(t, types.Arithmetic(types.F32, types.F32), types.F32)
}

func TestLayout(t *testing.T) {
	structs := map[string][]*types.Type{
		"Pair": {types.I8, types.I64},
		"Node": {types.I32, types.Pointer(types.Struct("Node"))},
		"Wrap": {types.Struct("Pair"), types.Array(3, types.I16)},
		"Loop": {types.Struct("Loop")},
	}
	lookup := func(name string) ([]*types.Type, bool) {
		f, ok := structs[name]
		return f, ok
	}

	native := types.Native(lookup)
	wasm := types.WASM32(lookup)
	cases := []struct {
		ty           *types.Type
		native, wasm uint64
	}{
		{types.I8, 1, 1},
		{types.F64, 8, 8},
		{types.String, 8, 4},
		{types.Array(10, types.I32), 40, 40},
		{types.Struct("Pair"), 16, 16},
		{types.Struct("Node"), 16, 8},
		{types.Struct("Wrap"), 24, 24},
	}
	for _, tc := range cases {
		got, err := native.SizeOf(tc.ty)
		be.Err(t, err, nil)
		be.Equal(t, got, tc.native)
		got, err = wasm.SizeOf(tc.ty)
		be.Err(t, err, nil)
		be.Equal(t, got, tc.wasm)
	}

	_, err := native.SizeOf(types.Struct("Loop"))
	be.Err(t, err, "recursive")
	_, err = native.SizeOf(types.Struct("Missing"))
	be.Err(t, err, "unknown struct")
}
