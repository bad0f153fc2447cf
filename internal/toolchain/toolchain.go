// Package toolchain runs the external LLVM tools that turn textual IR into
// an object file, a native executable or a WASM module. Nothing here links
// against LLVM; every step is a subprocess.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"esc/internal/diag"
)

// Tools names the executables. Empty fields take the defaults.
type Tools struct {
	Clang  string
	LLC    string
	Opt    string
	WasmLD string
	CC     string
}

// Resolved fills empty names with the defaults.
func (t Tools) Resolved() Tools {
	if t.Clang == "" {
		t.Clang = "clang"
	}
	if t.LLC == "" {
		t.LLC = "llc"
	}
	if t.Opt == "" {
		t.Opt = "opt"
	}
	if t.WasmLD == "" {
		t.WasmLD = "wasm-ld"
	}
	if t.CC == "" {
		t.CC = "cc"
	}
	return t
}

const (
	wasmPage = 64 * 1024

	DefaultInitialMemory uint64 = 2 << 20
	DefaultMaxMemory     uint64 = 16 << 20
)

// DefaultLDFlags are appended to every native link.
var DefaultLDFlags = []string{"-lc", "-lm"}

type Options struct {
	Tools   Tools
	LDFlags []string

	// WASM linear memory, in bytes; both must be multiples of 64 KiB.
	InitialMemory uint64
	MaxMemory     uint64

	// PrintCommands echoes every command line to Stdout before running it.
	PrintCommands bool
	Stdout        io.Writer
}

// runFunc executes one command and returns its captured stderr.
type runFunc func(ctx context.Context, name string, args ...string) (string, error)

// Toolchain is safe for concurrent use; it holds no per-build state.
type Toolchain struct {
	opts Options
	run  runFunc
	look func(string) (string, error)
}

func New(opts Options) *Toolchain {
	opts.Tools = opts.Tools.Resolved()
	if opts.LDFlags == nil {
		opts.LDFlags = DefaultLDFlags
	}
	if opts.InitialMemory == 0 {
		opts.InitialMemory = DefaultInitialMemory
	}
	if opts.MaxMemory == 0 {
		opts.MaxMemory = DefaultMaxMemory
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Toolchain{opts: opts, run: runCommand, look: exec.LookPath}
}

// Require checks that every named tool is on PATH.
func (t *Toolchain) Require(names ...string) error {
	for _, name := range names {
		if _, err := t.look(name); err != nil {
			return diag.NewError(diag.LinkToolMissing,
				fmt.Sprintf("%s not found; install with: sudo apt-get update && sudo apt-get install -y clang llvm lld", name), "")
		}
	}
	return nil
}

// Optimize runs the preset pipeline `default<O<level>>` over llPath and
// writes the result to outPath. Level 0 is a copy-free no-op.
func (t *Toolchain) Optimize(ctx context.Context, llPath, outPath string, level int) error {
	if level <= 0 {
		return nil
	}
	if level > 3 {
		level = 3
	}
	passes := "-passes=default<O" + strconv.Itoa(level) + ">"
	return t.exec(ctx, diag.LinkOptFailed, t.opts.Tools.Opt, passes, "-S", llPath, "-o", outPath)
}

// Compile turns textual IR into an object file. clang is tried first; if
// it fails, llc is used with the same triple (or the host triple).
func (t *Toolchain) Compile(ctx context.Context, llPath, objPath, triple string) error {
	args := []string{"-c", "-x", "ir"}
	if triple != "" {
		args = append(args, "--target="+triple)
	}
	args = append(args, llPath, "-o", objPath)
	clangErr := t.exec(ctx, diag.LinkCompileFailed, t.opts.Tools.Clang, args...)
	if clangErr == nil {
		return nil
	}

	llc, lookErr := t.look(t.opts.Tools.LLC)
	if lookErr != nil {
		return clangErr
	}
	if triple == "" {
		triple = t.HostTriple(ctx)
	}
	llcArgs := []string{"-filetype=obj", llPath, "-o", objPath}
	if triple != "" {
		llcArgs = append([]string{"-mtriple=" + triple}, llcArgs...)
	}
	if err := t.exec(ctx, diag.LinkCompileFailed, llc, llcArgs...); err != nil {
		return err
	}
	t.note("note: clang IR compile failed; fell back to llc")
	return nil
}

// LinkNative links objPath against the C runtime.
func (t *Toolchain) LinkNative(ctx context.Context, objPath, outPath string) error {
	args := append([]string{objPath, "-o", outPath}, t.opts.LDFlags...)
	return t.exec(ctx, diag.LinkFailed, t.opts.Tools.CC, args...)
}

// LinkWASM produces a module with every function exported and no entry
// point.
func (t *Toolchain) LinkWASM(ctx context.Context, objPath, outPath string) error {
	initial, maximum := t.opts.InitialMemory, t.opts.MaxMemory
	if initial%wasmPage != 0 || maximum%wasmPage != 0 {
		return diag.NewError(diag.LinkFailed,
			fmt.Sprintf("wasm memory must be a multiple of %d bytes (initial %d, max %d)", wasmPage, initial, maximum), "")
	}
	if initial > maximum {
		return diag.NewError(diag.LinkFailed,
			fmt.Sprintf("wasm initial memory %d exceeds max memory %d", initial, maximum), "")
	}
	return t.exec(ctx, diag.LinkFailed, t.opts.Tools.WasmLD,
		"--no-entry",
		"--export-all",
		"--initial-memory="+strconv.FormatUint(initial, 10),
		"--max-memory="+strconv.FormatUint(maximum, 10),
		objPath, "-o", outPath)
}

// HostTriple asks clang for the default target; empty when unavailable.
func (t *Toolchain) HostTriple(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, t.opts.Tools.Clang, "-dumpmachine").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func (t *Toolchain) exec(ctx context.Context, code diag.Code, name string, args ...string) error {
	if t.opts.PrintCommands {
		t.note(name + " " + strings.Join(args, " "))
	}
	stderr, err := t.run(ctx, name, args...)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", name, ctx.Err())
	}
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = err.Error()
	}
	return diag.NewError(code, fmt.Sprintf("%s failed: %s", name, firstLine(msg)), msg)
}

func (t *Toolchain) note(line string) {
	// вывод команд вспомогательный, ошибки записи не критичны
	_, _ = fmt.Fprintln(t.opts.Stdout, line)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	var stderr strings.Builder
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}
