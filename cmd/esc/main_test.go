package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/spf13/cobra"

	"esc/internal/codegen"
	"esc/internal/config"
)

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// execute runs the real command tree. Flags keep their values between
// calls, so each test passes every flag it relies on.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "esc"}
	pf := cmd.PersistentFlags()
	pf.Bool("no-std", false, "")
	pf.Bool("keep-tmp", false, "")
	pf.Bool("print-commands", false, "")
	pf.Bool("quiet", false, "")
	pf.String("ui", "auto", "")
	addBuildFlags(cmd)
	return cmd
}

func TestReadUIMode(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uiMode
	}{
		{"", uiModeAuto},
		{"auto", uiModeAuto},
		{" ON ", uiModeOn},
		{"off", uiModeOff},
	} {
		got, err := readUIMode(tc.in)
		be.Err(t, err, nil)
		be.Equal(t, got, tc.want)
	}
	_, err := readUIMode("sometimes")
	be.Err(t, err, "invalid --ui value")
}

func TestShouldUseTUIExplicit(t *testing.T) {
	be.True(t, shouldUseTUI(uiModeOn))
	be.True(t, !shouldUseTUI(uiModeOff))
}

func TestQuietDisablesTUI(t *testing.T) {
	cmd := testCommand()
	be.Err(t, cmd.PersistentFlags().Set("ui", "on"), nil)
	be.Err(t, cmd.PersistentFlags().Set("quiet", "true"), nil)
	tui, err := useTUI(cmd)
	be.Err(t, err, nil)
	be.True(t, !tui)
}

func TestResolveColor(t *testing.T) {
	on, err := resolveColor("on", false)
	be.Err(t, err, nil)
	be.True(t, on)

	off, err := resolveColor("off", true)
	be.Err(t, err, nil)
	be.True(t, !off)

	auto, err := resolveColor("auto", true)
	be.Err(t, err, nil)
	be.True(t, auto)

	_, err = resolveColor("rainbow", true)
	be.Err(t, err, "invalid --color value")
}

func TestReadBuildSettings(t *testing.T) {
	cmd := testCommand()
	be.Err(t, cmd.ParseFlags([]string{"-o", "prog", "-O2", "--wasm", "--keep-tmp"}), nil)
	s, err := readBuildSettings(cmd)
	be.Err(t, err, nil)
	be.Equal(t, s.output, "prog")
	be.Equal(t, s.optLevel, 2)
	be.True(t, s.wasm)
	be.True(t, s.keepTmp)
	be.True(t, !s.emitIR)
}

func TestReadBuildSettingsRejectsLevel(t *testing.T) {
	cmd := testCommand()
	be.Err(t, cmd.ParseFlags([]string{"-O7"}), nil)
	_, err := readBuildSettings(cmd)
	be.Err(t, err, "invalid optimization level -O7")
}

func TestCompileRequestFromManifest(t *testing.T) {
	m := &config.Manifest{Config: config.Config{
		Prelude: config.PreludeConfig{Paths: []string{"/opt/lib"}, NoStd: true},
	}}
	cmd := testCommand()
	req, err := compileRequest(cmd, "main.es", codegen.WASM, m)
	be.Err(t, err, nil)
	be.True(t, req.NoStd)
	be.Equal(t, req.PreludePaths, []string{"/opt/lib"})
	be.Equal(t, req.Target, codegen.WASM)

	// явный флаг сильнее файла
	be.Err(t, cmd.PersistentFlags().Set("no-std", "false"), nil)
	req, err = compileRequest(cmd, "main.es", codegen.Native, m)
	be.Err(t, err, nil)
	be.True(t, !req.NoStd)
}

func TestToolchainOptions(t *testing.T) {
	opts := toolchainOptions(nil, true, nil)
	be.True(t, opts.PrintCommands)
	be.Equal(t, opts.Tools.CC, "")

	m := &config.Manifest{Config: config.Config{
		Native: config.NativeConfig{CC: "gcc", LDFlags: []string{"-lm"}},
		WASM:   config.WASMConfig{InitialMemory: 65536, MaxMemory: 131072},
	}}
	opts = toolchainOptions(m, false, nil)
	be.Equal(t, opts.Tools.CC, "gcc")
	be.Equal(t, opts.LDFlags, []string{"-lm"})
	be.Equal(t, opts.InitialMemory, uint64(65536))
	be.Equal(t, opts.MaxMemory, uint64(131072))
}

func TestManifestDiscoveredFromInputDir(t *testing.T) {
	dir := t.TempDir()
	manifest := "[native]\ncc = \"clang\"\n"
	be.Err(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(manifest), 0o600), nil)
	sub := filepath.Join(dir, "src")
	be.Err(t, os.MkdirAll(sub, 0o755), nil)

	m, err := loadManifest(filepath.Join(sub, "main.es"))
	be.Err(t, err, nil)
	be.True(t, m != nil)
	be.Equal(t, m.Config.Native.CC, "clang")
}

func TestIRCommand(t *testing.T) {
	path := writeSource(t, "main.es", "print(42)\n")
	stdout, _, err := execute(t, "ir", "--wasm=false", "--color", "off", path)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stdout, "define i32 @main()"))
}

func TestCheckCommandReportsFailures(t *testing.T) {
	good := writeSource(t, "good.es", "print(1)\n")
	bad := writeSource(t, "bad.es", "print(nope)\n")
	stdout, stderr, err := execute(t, "check", "--format", "pretty", "--color", "off", "--quiet=false", good, bad)
	be.Err(t, err, "1 of 2 file(s) failed")
	be.True(t, strings.Contains(stdout, "ok "))
	be.True(t, strings.Contains(stderr, "undefined 'nope'"))
}

func TestTokenizeJSON(t *testing.T) {
	path := writeSource(t, "tok.es", "x := 1\n")
	stdout, _, err := execute(t, "tokenize", "--format", "json", "--color", "off", path)
	be.Err(t, err, nil)

	var tokens []struct {
		Kind string `json:"kind"`
		Line uint32 `json:"line"`
	}
	be.Err(t, json.Unmarshal([]byte(stdout), &tokens), nil)
	be.True(t, len(tokens) >= 4)
	be.Equal(t, tokens[0].Line, uint32(1))
	be.Equal(t, tokens[len(tokens)-1].Kind, "<eof>")
}

func TestTokenizeUnknownFormat(t *testing.T) {
	path := writeSource(t, "tok.es", "x := 1\n")
	_, _, err := execute(t, "tokenize", "--format", "xml", path)
	be.Err(t, err, "unknown format")
}

func TestMissingInput(t *testing.T) {
	_, _, err := execute(t, "ir", "--wasm=false", filepath.Join(t.TempDir(), "absent.es"))
	be.Err(t, err, "cannot read")
}

func TestReportErrorUsesFiles(t *testing.T) {
	path := writeSource(t, "bad.es", "print(nope)\n")
	_, _, err := execute(t, "ir", "--wasm=false", "--color", "off", path)
	be.True(t, err != nil)

	var buf bytes.Buffer
	colorEnabled = false
	reportError(&buf, err)
	out := buf.String()
	be.True(t, strings.Contains(out, "bad.es:1:7:"))
	be.True(t, strings.Contains(out, "print(nope)"))
	be.True(t, strings.Contains(out, " | "))
}

func TestCheckShortFormat(t *testing.T) {
	bad := writeSource(t, "bad.es", "print(nope)\n")
	_, stderr, err := execute(t, "check", "--format", "short", "--color", "off", bad)
	be.Err(t, err, "1 of 1 file(s) failed")
	be.True(t, strings.HasPrefix(stderr, "error "))
	be.True(t, strings.Contains(stderr, "bad.es:1:7 undefined 'nope'"))
}

func TestCheckJSONFormat(t *testing.T) {
	good := writeSource(t, "good.es", "print(1)\n")
	bad := writeSource(t, "bad.es", "print(nope)\n")
	stdout, _, err := execute(t, "check", "--format", "json", "--color", "off", good, bad)
	be.Err(t, err, "1 of 2 file(s) failed")

	var out struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Phase    string `json:"phase"`
			Location struct {
				StartLine uint32 `json:"start_line"`
				StartCol  uint32 `json:"start_col"`
			} `json:"location"`
		} `json:"diagnostics"`
	}
	be.Err(t, json.Unmarshal([]byte(stdout), &out), nil)
	be.Equal(t, out.Count, 1)
	be.Equal(t, out.Diagnostics[0].Phase, "codegen")
	be.Equal(t, out.Diagnostics[0].Location.StartLine, uint32(1))
	be.Equal(t, out.Diagnostics[0].Location.StartCol, uint32(7))
}

func TestParseCommandWithTimings(t *testing.T) {
	path := writeSource(t, "main.es", "x := 1\n")
	stdout, stderr, err := execute(t, "parse", "--format", "pretty", "--timings", path)
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("timings", "false") })
	be.Err(t, err, nil)
	be.True(t, stdout != "")
	be.True(t, strings.Contains(stderr, "timings:"))
	be.True(t, strings.Contains(stderr, "parse"))
}
