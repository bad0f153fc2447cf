package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"esc/internal/buildpipeline"
	"esc/internal/diag"
	"esc/internal/diagfmt"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] files...",
	Short: "Parse and lower files without invoking the backend",
	Long:  `Check runs the front-end and code generator over every file in parallel and reports the first error of each`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("wasm", false, "check for the wasm32 target")
	checkCmd.Flags().IntP("jobs", "j", 0, "max parallel files (0=auto)")
	checkCmd.Flags().String("format", "pretty", "error format (pretty|short|json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	wasm, err := cmd.Flags().GetBool("wasm")
	if err != nil {
		return fmt.Errorf("failed to get wasm flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format %q (expected pretty|short|json)", format)
	}
	// esc.toml ищется от первого файла
	manifest, err := loadManifest(args[0])
	if err != nil {
		return err
	}
	base, err := compileRequest(cmd, args[0], targetFor(wasm), manifest)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := buildpipeline.CheckFiles(ctx, args, base, jobs)
	if err != nil {
		return err
	}

	if format == "json" {
		if err := writeCheckJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	}
	var total buildpipeline.Timings
	for _, r := range results {
		if r.Err != nil {
			switch format {
			case "short":
				fmt.Fprintln(cmd.ErrOrStderr(), shortError(r))
			case "pretty":
				diagfmt.Error(cmd.ErrOrStderr(), r.Err, r.Files, errorOpts())
			}
			continue
		}
		for _, stage := range buildpipeline.Stages {
			if r.Timings.Has(stage) {
				total.Set(stage, total.Duration(stage)+r.Timings.Duration(stage))
			}
		}
		if !quiet(cmd) && format != "json" {
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", displayName(r.Path))
		}
	}
	if failed := buildpipeline.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
	}
	return printTimings(cmd, total)
}

func resultBag(r buildpipeline.CheckResult) *diag.Bag {
	bag := diag.NewBag(1)
	bag.AddError(r.Err)
	return bag
}

// shortError is the one-line `severity code path:line:col message` form.
func shortError(r buildpipeline.CheckResult) string {
	if line := diag.FormatShortDiagnostics(resultBag(r).Items(), r.Files); line != "" {
		return line
	}
	return r.Err.Error()
}

// writeCheckJSON writes one document holding the errors of every file.
func writeCheckJSON(w io.Writer, results []buildpipeline.CheckResult) error {
	opts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         diagfmt.PathModeRelative,
		IncludeNotes:     true,
	}
	out := diagfmt.DiagnosticsOutput{Diagnostics: []diagfmt.DiagnosticJSON{}}
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		part := diagfmt.BuildDiagnosticsOutput(resultBag(r), r.Files, opts)
		out.Diagnostics = append(out.Diagnostics, part.Diagnostics...)
	}
	out.Count = len(out.Diagnostics)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
