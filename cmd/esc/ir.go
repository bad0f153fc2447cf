package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esc/internal/buildpipeline"
)

var irCmd = &cobra.Command{
	Use:   "ir [flags] file.es",
	Short: "Print the verified LLVM IR of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runIR,
}

func init() {
	irCmd.Flags().Bool("wasm", false, "target wasm32")
}

func runIR(cmd *cobra.Command, args []string) error {
	wasm, err := cmd.Flags().GetBool("wasm")
	if err != nil {
		return fmt.Errorf("failed to get wasm flag: %w", err)
	}
	manifest, err := loadManifest(args[0])
	if err != nil {
		return err
	}
	req, err := compileRequest(cmd, args[0], targetFor(wasm), manifest)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := buildpipeline.Compile(ctx, &req)
	if err != nil {
		return withFiles(err, res.Files)
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), res.Module.String()); err != nil {
		return err
	}
	return printTimings(cmd, res.Timings)
}
