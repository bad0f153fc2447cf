package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nalgeon/be"

	"esc/internal/codegen"
	"esc/internal/diag"
)

type fakeBackend struct {
	mu      sync.Mutex
	calls   []string
	triple  string
	failOn  string
	missing bool
}

func (f *fakeBackend) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if name == f.failOn {
		return diag.NewError(diag.LinkFailed, name+" failed: boom", "boom")
	}
	return nil
}

func (f *fakeBackend) Require(names ...string) error {
	if f.missing {
		return diag.NewError(diag.LinkToolMissing, names[0]+" not found", "")
	}
	return f.record("require:" + strings.Join(names, ","))
}

func (f *fakeBackend) Optimize(_ context.Context, llPath, outPath string, level int) error {
	if err := f.record("optimize"); err != nil {
		return err
	}
	data, err := os.ReadFile(llPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0o600)
}

func (f *fakeBackend) Compile(_ context.Context, llPath, objPath, triple string) error {
	f.triple = triple
	if err := f.record("compile:" + filepath.Base(llPath)); err != nil {
		return err
	}
	return os.WriteFile(objPath, []byte("obj"), 0o600)
}

func (f *fakeBackend) LinkNative(_ context.Context, objPath, outPath string) error {
	if err := f.record("link-native"); err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte("exe"), 0o600)
}

func (f *fakeBackend) LinkWASM(_ context.Context, objPath, outPath string) error {
	if err := f.record("link-wasm"); err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte("wasm"), 0o600)
}

func request(src string) CompileRequest {
	return CompileRequest{Path: "main.es", Source: []byte(src)}
}

func TestCompileWithStdPrelude(t *testing.T) {
	req := request("print(1)\n")
	res, err := Compile(context.Background(), &req)
	be.Err(t, err, nil)
	be.True(t, res.Module.Function("printf") != nil)
	be.True(t, res.Module.Function("main") != nil)
	be.True(t, res.Timings.Has(StageParse))
	be.True(t, res.Timings.Has(StageLower))
}

func TestCompileNoStd(t *testing.T) {
	req := request("print(1)\n")
	req.NoStd = true
	_, err := Compile(context.Background(), &req)
	be.Err(t, err, "print requires printf")
}

func TestCompileWASMSkipsStd(t *testing.T) {
	req := request("add(a: i32, b: i32) -> i32 { ret a + b }\n")
	req.Target = codegen.WASM
	res, err := Compile(context.Background(), &req)
	be.Err(t, err, nil)
	be.True(t, res.Module.Function("printf") == nil)
	be.Equal(t, res.Module.Triple, "wasm32-unknown-unknown")
}

func TestCompileSexprFrontEnd(t *testing.T) {
	req := CompileRequest{
		Path:   "main.el",
		Source: []byte("(fn main () (^ (+ 1 2)))\n"),
		NoStd:  true,
	}
	res, err := Compile(context.Background(), &req)
	be.Err(t, err, nil)
	be.True(t, res.Module.Function("main") != nil)
}

func TestCompilePreprocessor(t *testing.T) {
	req := request("RESULT\n")
	req.NoStd = true
	req.Preprocessor = PreprocessFunc(func(_ string, src []byte) ([]byte, error) {
		return []byte(strings.ReplaceAll(string(src), "RESULT", "main() -> i32 { ret 7 }")), nil
	})
	res, err := Compile(context.Background(), &req)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(res.Module.String(), "ret i32 7"))
}

func TestCompileMissingFile(t *testing.T) {
	req := CompileRequest{Path: filepath.Join(t.TempDir(), "nope.es")}
	_, err := Compile(context.Background(), &req)
	var derr *diag.Error
	be.True(t, errors.As(err, &derr))
	be.Equal(t, derr.Code(), diag.IOLoadFileError)
}

func TestCompileEvents(t *testing.T) {
	var events []Event
	req := request("x := 1\n")
	req.NoStd = true
	req.Progress = FuncSink(func(e Event) {
		if e.File != "" {
			events = append(events, e)
		}
	})
	_, err := Compile(context.Background(), &req)
	be.Err(t, err, nil)

	var got []string
	for _, e := range events {
		got = append(got, string(e.Stage)+":"+string(e.Status))
	}
	be.Equal(t, got, []string{
		"parse:queued",
		"parse:working",
		"parse:done",
		"lower:working",
		"lower:done",
	})
	be.Equal(t, events[0].File, "main.es")
}

func TestCompileErrorEvent(t *testing.T) {
	var last Event
	req := request("x := nope\n")
	req.NoStd = true
	req.Progress = FuncSink(func(e Event) { last = e })
	_, err := Compile(context.Background(), &req)
	be.Err(t, err, "undefined 'nope'")
	be.Equal(t, last.Stage, StageLower)
	be.Equal(t, last.Status, StatusError)
}

func TestBuildNative(t *testing.T) {
	dir := t.TempDir()
	backend := &fakeBackend{}
	res, err := Build(context.Background(), &BuildRequest{
		CompileRequest: request("print(1)\n"),
		Output:         filepath.Join(dir, "prog"),
		OptLevel:       2,
		Toolchain:      backend,
	})
	be.Err(t, err, nil)
	be.Equal(t, backend.calls, []string{
		"require:clang,opt,cc",
		"optimize",
		"compile:out.opt.ll",
		"link-native",
	})
	be.Equal(t, backend.triple, "")
	be.Equal(t, res.OutputPath, filepath.Join(dir, "prog"))

	_, statErr := os.Stat(res.TmpDir)
	be.True(t, os.IsNotExist(statErr))
	be.True(t, res.Timings.Has(StageOptimize))
	be.True(t, res.Timings.Has(StageLink))
}

func TestBuildWASM(t *testing.T) {
	dir := t.TempDir()
	backend := &fakeBackend{}
	req := request("sq(x: i32) -> i32 { ret x * x }\n")
	req.Target = codegen.WASM
	res, err := Build(context.Background(), &BuildRequest{
		CompileRequest: req,
		Output:         filepath.Join(dir, "sq.wasm"),
		Toolchain:      backend,
		KeepTmp:        true,
	})
	be.Err(t, err, nil)
	be.Equal(t, backend.calls, []string{
		"require:clang,wasm-ld",
		"compile:out.ll",
		"link-wasm",
	})
	be.Equal(t, backend.triple, "wasm32-unknown-unknown")

	_, statErr := os.Stat(filepath.Join(res.TmpDir, "out.ll"))
	be.Err(t, statErr, nil)
	be.Err(t, os.RemoveAll(res.TmpDir), nil)
}

func TestBuildEmitIR(t *testing.T) {
	dir := t.TempDir()
	backend := &fakeBackend{}
	out := filepath.Join(dir, "prog")
	res, err := Build(context.Background(), &BuildRequest{
		CompileRequest: request("print(1)\n"),
		Output:         out,
		EmitIR:         true,
		Toolchain:      backend,
	})
	be.Err(t, err, nil)
	be.Equal(t, res.IRPath, out+".ll")
	be.Equal(t, len(backend.calls), 0)

	data, err := os.ReadFile(res.IRPath)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(string(data), "define i32 @main("))
}

func TestBuildFailures(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		backend *fakeBackend
		want    string
	}{
		{"missing main", "helper() -> i32 { ret 1 }\n", &fakeBackend{}, "no main function"},
		{"missing tool", "print(1)\n", &fakeBackend{missing: true}, "clang not found"},
		{"link error", "print(1)\n", &fakeBackend{failOn: "link-native"}, "link-native failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(context.Background(), &BuildRequest{
				CompileRequest: request(tt.src),
				Output:         filepath.Join(t.TempDir(), "prog"),
				Toolchain:      tt.backend,
			})
			be.Err(t, err, tt.want)
		})
	}
}

func TestDefaultOutput(t *testing.T) {
	be.Equal(t, DefaultOutput(codegen.Native), "a.out")
	be.Equal(t, DefaultOutput(codegen.WASM), "a.wasm")
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.es")
	bad := filepath.Join(dir, "bad.es")
	be.Err(t, os.WriteFile(good, []byte("print(1)\n"), 0o600), nil)
	be.Err(t, os.WriteFile(bad, []byte("print(\n"), 0o600), nil)

	results, err := CheckFiles(context.Background(), []string{good, bad}, CompileRequest{}, 2)
	be.Err(t, err, nil)
	be.Equal(t, len(results), 2)
	be.Equal(t, results[0].Path, good)
	be.Err(t, results[0].Err, nil)
	be.True(t, results[1].Err != nil)
	be.Equal(t, Failed(results), 1)
}

func TestDisplayNames(t *testing.T) {
	dir := t.TempDir()
	got := DisplayNames([]string{
		filepath.Join(dir, "b.es"),
		filepath.Join(dir, "sub", "a.es"),
		filepath.Join(dir, "b.es"),
		"",
	}, dir)
	be.Equal(t, got, []string{"b.es", "sub/a.es"})
	be.Equal(t, DisplayName("/elsewhere/x.es", dir), "/elsewhere/x.es")
}

func TestTimingsReport(t *testing.T) {
	var tm Timings
	tm.Set(StageLink, 3)
	tm.Set(StageParse, 1)
	r := tm.Report()
	be.Equal(t, len(r.Phases), 2)
	be.Equal(t, r.Phases[0].Name, "parse")
	be.Equal(t, r.Phases[1].Name, "link")
}
