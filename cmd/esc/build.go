// Package main implements the esc CLI.
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"esc/internal/buildpipeline"
	"esc/internal/config"
	"esc/internal/toolchain"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] file.es",
	Short: "Compile a source file to an executable or WASM module",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output", "o", "", "output path (default a.out, or a.wasm with --wasm)")
	f.IntP("opt-level", "O", 0, "optimization level 0-3")
	f.Bool("wasm", false, "target wasm32")
	f.Bool("emit-ir", false, "write <output>.ll and skip the backend")
}

// buildSettings are the flag values of one build, merged with esc.toml.
type buildSettings struct {
	output        string
	optLevel      int
	wasm          bool
	emitIR        bool
	keepTmp       bool
	printCommands bool
}

func readBuildSettings(cmd *cobra.Command) (buildSettings, error) {
	var s buildSettings
	var err error
	if s.output, err = cmd.Flags().GetString("output"); err != nil {
		return s, err
	}
	if s.optLevel, err = cmd.Flags().GetInt("opt-level"); err != nil {
		return s, err
	}
	if s.optLevel < 0 || s.optLevel > 3 {
		return s, fmt.Errorf("invalid optimization level -O%d (expected 0-3)", s.optLevel)
	}
	if s.wasm, err = cmd.Flags().GetBool("wasm"); err != nil {
		return s, err
	}
	if s.emitIR, err = cmd.Flags().GetBool("emit-ir"); err != nil {
		return s, err
	}
	pf := cmd.Root().PersistentFlags()
	if s.keepTmp, err = pf.GetBool("keep-tmp"); err != nil {
		return s, err
	}
	if s.printCommands, err = pf.GetBool("print-commands"); err != nil {
		return s, err
	}
	return s, nil
}

// toolchainOptions applies [native] and [wasm] from the manifest.
func toolchainOptions(m *config.Manifest, printCommands bool, echo io.Writer) toolchain.Options {
	opts := toolchain.Options{PrintCommands: printCommands, Stdout: echo}
	if m == nil {
		return opts
	}
	opts.Tools.CC = m.Config.Native.CC
	if len(m.Config.Native.LDFlags) > 0 {
		opts.LDFlags = m.Config.Native.LDFlags
	}
	opts.InitialMemory = m.Config.WASM.InitialMemory
	opts.MaxMemory = m.Config.WASM.MaxMemory
	return opts
}

func newBuildRequest(cmd *cobra.Command, path string) (*buildpipeline.BuildRequest, error) {
	settings, err := readBuildSettings(cmd)
	if err != nil {
		return nil, err
	}
	manifest, err := loadManifest(path)
	if err != nil {
		return nil, err
	}
	creq, err := compileRequest(cmd, path, targetFor(settings.wasm), manifest)
	if err != nil {
		return nil, err
	}
	opts := toolchainOptions(manifest, settings.printCommands, cmd.ErrOrStderr())
	return &buildpipeline.BuildRequest{
		CompileRequest: creq,
		Output:         settings.output,
		OptLevel:       settings.optLevel,
		EmitIR:         settings.emitIR,
		KeepTmp:        settings.keepTmp,
		Toolchain:      toolchain.New(opts),
		Tools:          opts.Tools,
	}, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	req, err := newBuildRequest(cmd, args[0])
	if err != nil {
		return err
	}
	tui, err := useTUI(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var res buildpipeline.BuildResult
	if tui {
		title := "esc build " + req.Display
		res, err = runBuildWithUI(ctx, cmd.OutOrStdout(), title, []string{req.Display}, req)
	} else {
		res, err = buildpipeline.Build(ctx, req)
	}
	if err != nil {
		return withFiles(err, res.Files)
	}

	if req.KeepTmp && res.TmpDir != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "kept %s\n", res.TmpDir)
	}
	if !quiet(cmd) {
		if res.IRPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", res.IRPath)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", res.OutputPath)
		}
	}
	return printTimings(cmd, res.Timings)
}
