package lexer

import (
	"esc/internal/diag"
	"esc/internal/source"
)

type Options struct {
	// Reporter may be nil. Invalid tokens are produced either way; the
	// reporter only lets tools like `esc tokenize` list every problem.
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
