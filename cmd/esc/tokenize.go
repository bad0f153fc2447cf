package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"esc/internal/diag"
	"esc/internal/diagfmt"
	"esc/internal/lexer"
	"esc/internal/observ"
	"esc/internal/source"
	"esc/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.es",
	Short: "Print the token stream of a source file",
	Long:  `Tokenize lexes a file and prints every token, including invalid ones, without stopping at the first error`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	tokenizeCmd.Flags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if err := checkFormat(format); err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	timer := observ.NewTimer()
	doneLoad := timer.Track("load")
	fs := source.NewFileSet()
	id, err := fs.Load(filePath)
	if err != nil {
		return diag.NewError(diag.IOLoadFileError, fmt.Sprintf("cannot read %s: %v", filePath, err), "")
	}
	doneLoad("")
	bag := diag.NewBag(maxDiagnostics)
	doneLex := timer.Track("lex")
	tokens := lexAll(fs.Get(id), diag.BagReporter{Bag: bag})
	doneLex(fmt.Sprintf("%d tokens", len(tokens)))

	// Диагностику в stderr, токены в stdout
	if bag.Len() > 0 {
		opts := errorOpts()
		opts.Context = 1
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, opts)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(out, tokens)
	case "msgpack":
		err = diagfmt.FormatTokensMsgpack(out, tokens)
	default:
		err = diagfmt.FormatTokensPretty(out, tokens, fs)
	}
	if err != nil {
		return err
	}
	if bag.HasErrors() {
		return fmt.Errorf("%s: %d lexical error(s)", filePath, bag.Len())
	}
	return printReport(cmd, timer.Report())
}

// lexAll returns every token up to and including EOF.
func lexAll(f *source.File, r diag.Reporter) []token.Token {
	lx := lexer.New(f, lexer.Options{Reporter: r})
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func checkFormat(format string) error {
	switch format {
	case "pretty", "json", "msgpack":
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected pretty|json|msgpack)", format)
	}
}
