package toolchain

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"esc/internal/diag"
)

type recorder struct {
	calls []string
	fail  map[string]string // tool -> stderr
}

func (r *recorder) run(_ context.Context, name string, args ...string) (string, error) {
	r.calls = append(r.calls, name+" "+strings.Join(args, " "))
	if msg, ok := r.fail[name]; ok {
		return msg, errors.New("exit status 1")
	}
	return "", nil
}

func fake(opts Options, r *recorder) *Toolchain {
	tc := New(opts)
	tc.run = r.run
	tc.look = func(name string) (string, error) { return name, nil }
	return tc
}

func TestCompileCommand(t *testing.T) {
	r := &recorder{}
	tc := fake(Options{}, r)
	be.Err(t, tc.Compile(context.Background(), "out.ll", "out.o", ""), nil)
	be.Equal(t, r.calls, []string{"clang -c -x ir out.ll -o out.o"})

	r.calls = nil
	be.Err(t, tc.Compile(context.Background(), "out.ll", "out.o", "wasm32-unknown-unknown"), nil)
	be.Equal(t, r.calls, []string{"clang -c -x ir --target=wasm32-unknown-unknown out.ll -o out.o"})
}

func TestCompileFallsBackToLLC(t *testing.T) {
	var out strings.Builder
	r := &recorder{fail: map[string]string{"clang": "error: bad IR"}}
	tc := fake(Options{Stdout: &out}, r)
	be.Err(t, tc.Compile(context.Background(), "a.ll", "a.o", "wasm32-unknown-unknown"), nil)
	be.Equal(t, len(r.calls), 2)
	be.Equal(t, r.calls[1], "llc -mtriple=wasm32-unknown-unknown -filetype=obj a.ll -o a.o")
	be.True(t, strings.Contains(out.String(), "fell back to llc"))
}

func TestCompileFailureCarriesStderr(t *testing.T) {
	r := &recorder{fail: map[string]string{"clang": "error: bad IR\nline 2", "llc": "llc: boom"}}
	tc := fake(Options{Stdout: &strings.Builder{}}, r)
	err := tc.Compile(context.Background(), "a.ll", "a.o", "x86_64-pc-linux-gnu")
	var de *diag.Error
	be.True(t, errors.As(err, &de))
	be.Equal(t, de.Code(), diag.LinkCompileFailed)
	be.Equal(t, de.Diag.Message, "llc failed: llc: boom")
}

func TestOptimize(t *testing.T) {
	r := &recorder{}
	tc := fake(Options{}, r)
	be.Err(t, tc.Optimize(context.Background(), "in.ll", "out.ll", 0), nil)
	be.Equal(t, len(r.calls), 0)

	be.Err(t, tc.Optimize(context.Background(), "in.ll", "out.ll", 2), nil)
	be.Equal(t, r.calls, []string{"opt -passes=default<O2> -S in.ll -o out.ll"})

	r = &recorder{fail: map[string]string{"opt": "opt: unknown pass"}}
	tc = fake(Options{}, r)
	err := tc.Optimize(context.Background(), "in.ll", "out.ll", 9)
	be.Err(t, err, "opt failed: opt: unknown pass")
	be.True(t, strings.Contains(r.calls[0], "default<O3>"))
}

func TestLinkNative(t *testing.T) {
	r := &recorder{}
	tc := fake(Options{}, r)
	be.Err(t, tc.LinkNative(context.Background(), "a.o", "a.out"), nil)
	be.Equal(t, r.calls, []string{"cc a.o -o a.out -lc -lm"})

	r = &recorder{}
	tc = fake(Options{Tools: Tools{CC: "gcc"}, LDFlags: []string{"-static"}}, r)
	be.Err(t, tc.LinkNative(context.Background(), "a.o", "a.out"), nil)
	be.Equal(t, r.calls, []string{"gcc a.o -o a.out -static"})
}

func TestLinkWASM(t *testing.T) {
	r := &recorder{}
	tc := fake(Options{}, r)
	be.Err(t, tc.LinkWASM(context.Background(), "a.o", "a.wasm"), nil)
	be.Equal(t, r.calls, []string{
		"wasm-ld --no-entry --export-all --initial-memory=2097152 --max-memory=16777216 a.o -o a.wasm",
	})

	tc = fake(Options{InitialMemory: 1000}, &recorder{})
	be.Err(t, tc.LinkWASM(context.Background(), "a.o", "a.wasm"), "multiple of 65536")

	tc = fake(Options{InitialMemory: 4 << 20, MaxMemory: 2 << 20}, &recorder{})
	be.Err(t, tc.LinkWASM(context.Background(), "a.o", "a.wasm"), "exceeds max memory")
}

func TestPrintCommands(t *testing.T) {
	var out strings.Builder
	tc := fake(Options{PrintCommands: true, Stdout: &out}, &recorder{})
	be.Err(t, tc.LinkNative(context.Background(), "x.o", "x"), nil)
	be.Equal(t, out.String(), "cc x.o -o x -lc -lm\n")
}

func TestRequire(t *testing.T) {
	tc := New(Options{})
	tc.look = func(name string) (string, error) {
		if name == "wasm-ld" {
			return "", exec.ErrNotFound
		}
		return name, nil
	}
	be.Err(t, tc.Require("clang"), nil)
	err := tc.Require("clang", "wasm-ld")
	var de *diag.Error
	be.True(t, errors.As(err, &de))
	be.Equal(t, de.Code(), diag.LinkToolMissing)
	be.Err(t, err, "wasm-ld not found")
}
