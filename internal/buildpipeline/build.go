// Package buildpipeline orchestrates the compilation process.
package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"esc/internal/codegen"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/source"
	"esc/internal/toolchain"
)

// Backend is the subset of the toolchain a build drives.
type Backend interface {
	Require(names ...string) error
	Optimize(ctx context.Context, llPath, outPath string, level int) error
	Compile(ctx context.Context, llPath, objPath, triple string) error
	LinkNative(ctx context.Context, objPath, outPath string) error
	LinkWASM(ctx context.Context, objPath, outPath string) error
}

var _ Backend = (*toolchain.Toolchain)(nil)

// BuildRequest configures output generation for a compilation.
type BuildRequest struct {
	CompileRequest
	// Output defaults to a.out, or a.wasm for the WASM target.
	Output   string
	OptLevel int
	// EmitIR writes <Output>.ll and stops before the backend.
	EmitIR  bool
	KeepTmp bool
	// Toolchain defaults to toolchain.New with default options.
	Toolchain Backend
	// Tools are the executable names checked before the backend runs.
	Tools toolchain.Tools
}

// BuildResult captures build artefacts and timings.
type BuildResult struct {
	OutputPath string
	IRPath     string
	TmpDir     string
	Timings    Timings
	Module     *ir.Module
	// Files holds every source read, for rendering positioned errors.
	Files *source.FileSet
}

// DefaultOutput is the output name used when none is given.
func DefaultOutput(target codegen.Target) string {
	if target == codegen.WASM {
		return "a.wasm"
	}
	return "a.out"
}

// Build compiles req and runs the backend: optimize, object file, link.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	reqCopy := *req
	req = &reqCopy
	if ctx == nil {
		ctx = context.Background()
	}
	if req.Output == "" {
		req.Output = DefaultOutput(req.Target)
	}
	if req.Toolchain == nil {
		req.Toolchain = toolchain.New(toolchain.Options{Tools: req.Tools})
	}

	compileRes, err := Compile(ctx, &req.CompileRequest)
	result.Timings = compileRes.Timings
	result.Module = compileRes.Module
	result.Files = compileRes.Files
	if err != nil {
		return result, err
	}
	files := req.files()

	if err := ValidateEntrypoint(compileRes.Module, req.Target); err != nil {
		emitStage(req.Progress, files, StageBuild, StatusError, err, 0)
		return result, err
	}

	text := compileRes.Module.String()
	if req.EmitIR {
		result.IRPath = IRPath(req.Output)
		if err := os.WriteFile(result.IRPath, []byte(text), 0o600); err != nil {
			err = diag.NewError(diag.IOLoadFileError, fmt.Sprintf("failed to write IR: %v", err), "")
			emitStage(req.Progress, files, StageBuild, StatusError, err, 0)
			return result, err
		}
		emitStage(req.Progress, files, StageBuild, StatusDone, nil, 0)
		return result, nil
	}

	tmpDir, err := os.MkdirTemp("", "esc-build-")
	if err != nil {
		return result, fmt.Errorf("failed to create tmp dir: %w", err)
	}
	result.TmpDir = tmpDir
	if !req.KeepTmp {
		defer func() {
			// временная директория больше не нужна
			_ = os.RemoveAll(tmpDir)
		}()
	}

	llPath := filepath.Join(tmpDir, "out.ll")
	if err := os.WriteFile(llPath, []byte(text), 0o600); err != nil {
		return result, fmt.Errorf("failed to write LLVM IR: %w", err)
	}

	tools := req.Tools.Resolved()
	required := []string{tools.Clang}
	if req.OptLevel > 0 {
		required = append(required, tools.Opt)
	}
	if req.Target == codegen.WASM {
		required = append(required, tools.WasmLD)
	} else {
		required = append(required, tools.CC)
	}
	if err := req.Toolchain.Require(required...); err != nil {
		emitStage(req.Progress, files, StageBuild, StatusError, err, 0)
		return result, err
	}

	if req.OptLevel > 0 {
		optStart := time.Now()
		emitStage(req.Progress, files, StageOptimize, StatusWorking, nil, 0)
		optPath := filepath.Join(tmpDir, "out.opt.ll")
		if err := req.Toolchain.Optimize(ctx, llPath, optPath, req.OptLevel); err != nil {
			emitStage(req.Progress, files, StageOptimize, StatusError, err, 0)
			return result, err
		}
		llPath = optPath
		result.Timings.Set(StageOptimize, time.Since(optStart))
		emitStage(req.Progress, files, StageOptimize, StatusDone, nil, result.Timings.Duration(StageOptimize))
	}

	buildStart := time.Now()
	emitStage(req.Progress, files, StageBuild, StatusWorking, nil, 0)
	objPath := filepath.Join(tmpDir, "out.o")
	if err := req.Toolchain.Compile(ctx, llPath, objPath, compileRes.Module.Triple); err != nil {
		emitStage(req.Progress, files, StageBuild, StatusError, err, 0)
		return result, err
	}
	result.Timings.Set(StageBuild, time.Since(buildStart))
	emitStage(req.Progress, files, StageBuild, StatusDone, nil, result.Timings.Duration(StageBuild))

	linkStart := time.Now()
	emitStage(req.Progress, files, StageLink, StatusWorking, nil, 0)
	if req.Target == codegen.WASM {
		err = req.Toolchain.LinkWASM(ctx, objPath, req.Output)
	} else {
		err = req.Toolchain.LinkNative(ctx, objPath, req.Output)
	}
	if err != nil {
		emitStage(req.Progress, files, StageLink, StatusError, err, 0)
		return result, err
	}
	result.Timings.Set(StageLink, time.Since(linkStart))
	emitStage(req.Progress, files, StageLink, StatusDone, nil, result.Timings.Duration(StageLink))

	result.OutputPath = req.Output
	return result, nil
}

// IRPath is where --emit-ir writes the module for output.
func IRPath(output string) string {
	return output + ".ll"
}
