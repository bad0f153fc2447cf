package codegen

import "esc/internal/types"

// Target is the output flavour.
type Target uint8

const (
	Native Target = iota
	WASM
)

const wasmTriple = "wasm32-unknown-unknown"

func (t Target) String() string {
	if t == WASM {
		return "wasm"
	}
	return "native"
}

// Triple returns the LLVM triple. Native builds leave it empty unless
// overridden, so clang picks the host.
func (t Target) Triple(override string) string {
	if override != "" {
		return override
	}
	if t == WASM {
		return wasmTriple
	}
	return ""
}

// Layout returns the size model used by compile-time sizeof.
func (t Target) Layout(structs types.StructFields) types.Layout {
	if t == WASM {
		return types.WASM32(structs)
	}
	return types.Native(structs)
}
