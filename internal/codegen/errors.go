package codegen

import (
	"esc/internal/diag"
	"esc/internal/source"
)

// bailout unwinds to Generate on the first fatal error.
type bailout struct{ err *diag.Error }

func fail(span source.Span, code diag.Code, format string, args ...any) {
	panic(bailout{diag.Errorf(code, span, format, args...)})
}
