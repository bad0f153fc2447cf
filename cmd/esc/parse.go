package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esc/internal/buildpipeline"
	"esc/internal/codegen"
	"esc/internal/diagfmt"
	"esc/internal/observ"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.es",
	Short: "Print the syntax tree of a source file",
	Long:  `Parse reads a .es or .el file, resolves its preludes and dumps the resulting program`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if err := checkFormat(format); err != nil {
		return err
	}
	manifest, err := loadManifest(args[0])
	if err != nil {
		return err
	}
	req, err := compileRequest(cmd, args[0], codegen.Native, manifest)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timer := observ.NewTimer()
	doneParse := timer.Track("parse")
	fs, prog, err := buildpipeline.Parse(ctx, &req)
	if err != nil {
		return withFiles(err, fs)
	}
	doneParse(fmt.Sprintf("%d file(s)", fs.Len()))

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatASTJSON(out, prog, fs)
	case "msgpack":
		err = diagfmt.FormatASTMsgpack(out, prog, fs)
	default:
		err = diagfmt.FormatASTPretty(out, prog, fs)
	}
	if err != nil {
		return err
	}
	return printReport(cmd, timer.Report())
}
