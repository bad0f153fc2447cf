package buildpipeline

import (
	"fmt"

	"esc/internal/codegen"
	"esc/internal/diag"
	"esc/internal/ir"
)

// ValidateEntrypoint ensures a native module defines main. WASM modules
// export everything and need no entry point.
func ValidateEntrypoint(mod *ir.Module, target codegen.Target) error {
	if mod == nil {
		return fmt.Errorf("missing compiled module")
	}
	if target == codegen.WASM {
		return nil
	}
	main := mod.Function("main")
	if main == nil {
		return diag.NewError(diag.LinkFailed, "no main function and no top-level statements", "")
	}
	if main.IsDecl() {
		return diag.NewError(diag.LinkFailed, "main is declared extern but never defined", "")
	}
	return nil
}
