package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"esc/internal/ast"
	"esc/internal/codegen"
	"esc/internal/diag"
	"esc/internal/ir"
	"esc/internal/parser"
	"esc/internal/sexpr"
	"esc/internal/source"
	"esc/prelude"
)

// Preprocessor rewrites source text before it is lexed. The macro, codebook
// and manifest expanders plug in here; the pipeline itself only needs the
// identity.
type Preprocessor interface {
	Preprocess(path string, src []byte) ([]byte, error)
}

// PreprocessFunc adapts a function to Preprocessor.
type PreprocessFunc func(path string, src []byte) ([]byte, error)

func (f PreprocessFunc) Preprocess(path string, src []byte) ([]byte, error) { return f(path, src) }

// Identity returns the source unchanged.
var Identity Preprocessor = PreprocessFunc(func(_ string, src []byte) ([]byte, error) { return src, nil })

// SexprExt selects the s-expression front-end.
const SexprExt = ".el"

// CompileRequest configures parsing and code generation for one input.
type CompileRequest struct {
	Path string
	// Source is used instead of reading Path when non-nil.
	Source []byte

	Target codegen.Target
	Triple string

	// NoStd skips the implicit `use std`. WASM builds never load it.
	NoStd        bool
	PreludePaths []string
	Preprocessor Preprocessor

	Progress ProgressSink
	// Display is the file name used in progress events; Path when empty.
	Display string
}

// CompileResult captures compilation artefacts and stage timings.
type CompileResult struct {
	Files   *source.FileSet
	Program *ast.Program
	Module  *ir.Module
	Timings Timings
}

func (req *CompileRequest) files() []string {
	if req.Display != "" {
		return []string{req.Display}
	}
	return []string{req.Path}
}

func (req *CompileRequest) noStd() bool {
	return req.NoStd || req.Target == codegen.WASM
}

// Parse reads, preprocesses and parses req.Path with the front-end its
// extension selects. Preludes are resolved through the configured search
// paths, then the embedded copies.
func Parse(ctx context.Context, req *CompileRequest) (*source.FileSet, *ast.Program, error) {
	if req == nil {
		return nil, nil, fmt.Errorf("missing compile request")
	}
	if req.Path == "" {
		return nil, nil, fmt.Errorf("missing input path")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	pre := req.Preprocessor
	if pre == nil {
		pre = Identity
	}

	src := req.Source
	if src == nil {
		// #nosec G304 -- the input path is what the user asked to compile
		data, err := os.ReadFile(req.Path)
		if err != nil {
			return nil, nil, diag.NewError(diag.IOLoadFileError, fmt.Sprintf("cannot read %s: %v", req.Path, err), "")
		}
		src = data
	}
	src, err := pre.Preprocess(req.Path, src)
	if err != nil {
		return nil, nil, fmt.Errorf("preprocess %s: %w", req.Path, err)
	}

	fs := source.NewFileSet()
	content, flags := source.Normalize(src)
	id := fs.Add(req.Path, content, flags)
	loader := parser.NewLoader(fs, parser.LoaderOptions{
		Paths:      req.PreludePaths,
		Fallback:   prelude.FS(),
		Preprocess: pre.Preprocess,
	})

	var prog *ast.Program
	if filepath.Ext(req.Path) == SexprExt {
		prog, err = sexpr.Parse(fs, id, sexpr.Options{NoStd: req.noStd(), Loader: loader})
	} else {
		prog, err = parser.ParseFile(fs, id, parser.Options{NoStd: req.noStd(), Loader: loader})
	}
	if err != nil {
		return fs, nil, err
	}
	return fs, prog, nil
}

// Compile runs parsing, code generation and verification.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing compile request")
	}
	files := req.files()
	emitQueued(req.Progress, files)

	parseStart := time.Now()
	emitStage(req.Progress, files, StageParse, StatusWorking, nil, 0)
	fs, prog, err := Parse(ctx, req)
	result.Files = fs
	if err != nil {
		emitStage(req.Progress, files, StageParse, StatusError, err, 0)
		return result, err
	}
	result.Program = prog
	result.Timings.Set(StageParse, time.Since(parseStart))
	emitStage(req.Progress, files, StageParse, StatusDone, nil, result.Timings.Duration(StageParse))

	if err := ctx.Err(); err != nil {
		return result, err
	}

	lowerStart := time.Now()
	emitStage(req.Progress, files, StageLower, StatusWorking, nil, 0)
	mod, err := codegen.Generate(fs, prog, codegen.Options{
		Target:     req.Target,
		Triple:     req.Triple,
		ModuleName: req.Path,
	})
	if err != nil {
		emitStage(req.Progress, files, StageLower, StatusError, err, 0)
		return result, err
	}
	result.Module = mod
	result.Timings.Set(StageLower, time.Since(lowerStart))
	emitStage(req.Progress, files, StageLower, StatusDone, nil, result.Timings.Duration(StageLower))
	return result, nil
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}

func emitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}
