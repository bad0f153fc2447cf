package testkit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"esc/internal/buildpipeline"
	"esc/internal/codegen"
	"esc/internal/toolchain"
)

// ErrNeedsToolchain is returned for cases with a stdout assertion when
// clang or a C linker is not installed.
var ErrNeedsToolchain = errors.New("case needs clang and cc on PATH")

// Runner compiles cases and checks their assertions.
type Runner struct {
	// TmpDir receives linked programs for stdout cases.
	TmpDir string
	// PreludePaths are searched before the embedded preludes.
	PreludePaths []string
}

// ToolchainAvailable reports whether stdout cases can be linked and run.
func ToolchainAvailable() bool {
	tools := toolchain.Tools{}.Resolved()
	for _, name := range []string{tools.Clang, tools.CC} {
		if _, err := exec.LookPath(name); err != nil {
			return false
		}
	}
	return true
}

// Check compiles c and verifies every assertion. The first failed
// assertion is reported with its Markdown line.
func (r *Runner) Check(ctx context.Context, c Case) error {
	req := buildpipeline.CompileRequest{
		Path:         c.Filename(),
		Source:       []byte(c.Input),
		PreludePaths: r.PreludePaths,
	}
	if c.WASM() {
		req.Target = codegen.WASM
	}
	res, compileErr := buildpipeline.Compile(ctx, &req)

	var irText string
	if res.Module != nil {
		irText = res.Module.String()
	}
	for _, a := range c.Assertions {
		var err error
		switch a.Type {
		case AssertError:
			err = checkError(compileErr, a.Content)
		case AssertIR:
			err = firstError(compileErr, func() error { return checkLines(irText, a.Content, true) })
		case AssertIRAbsent:
			err = firstError(compileErr, func() error { return checkLines(irText, a.Content, false) })
		case AssertStdout:
			err = firstError(compileErr, func() error { return r.checkStdout(ctx, c, a.Content) })
		}
		if err != nil {
			if errors.Is(err, ErrNeedsToolchain) {
				return err
			}
			return fmt.Errorf("line %d: %s: %w", a.Line, a.Type, err)
		}
	}
	return nil
}

func firstError(compileErr error, check func() error) error {
	if compileErr != nil {
		return fmt.Errorf("unexpected compile error: %w", compileErr)
	}
	return check()
}

func checkError(err error, want string) error {
	if err == nil {
		return fmt.Errorf("compiled successfully, want error containing %q", want)
	}
	if !strings.Contains(err.Error(), want) {
		return fmt.Errorf("error %q does not contain %q", err.Error(), want)
	}
	return nil
}

func checkLines(text, want string, present bool) error {
	for line := range strings.SplitSeq(want, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(text, line) != present {
			if present {
				return fmt.Errorf("missing %q in:\n%s", line, text)
			}
			return fmt.Errorf("unexpected %q in:\n%s", line, text)
		}
	}
	return nil
}

func (r *Runner) checkStdout(ctx context.Context, c Case, want string) error {
	if c.WASM() || !ToolchainAvailable() {
		return ErrNeedsToolchain
	}
	dir := r.TmpDir
	if dir == "" {
		var err error
		dir, err = os.MkdirTemp("", "esc-case-")
		if err != nil {
			return err
		}
		defer func() { _ = os.RemoveAll(dir) }()
	}
	out := filepath.Join(dir, "case.out")
	_, err := buildpipeline.Build(ctx, &buildpipeline.BuildRequest{
		CompileRequest: buildpipeline.CompileRequest{
			Path:         c.Filename(),
			Source:       []byte(c.Input),
			PreludePaths: r.PreludePaths,
		},
		Output: out,
		Toolchain: toolchain.New(toolchain.Options{
			Stdout: &bytes.Buffer{},
		}),
	})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	// #nosec G204 -- программа только что собрана из тестового случая
	cmd := exec.CommandContext(ctx, out)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	got := strings.TrimRight(stdout.String(), "\n")
	if got != want {
		return fmt.Errorf("stdout = %q, want %q", got, want)
	}
	return nil
}
