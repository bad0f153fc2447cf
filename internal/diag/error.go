package diag

import (
	"fmt"
	"strings"

	"esc/internal/source"
)

// Error is the fatal error every compilation phase returns. It wraps a
// Diagnostic; Path and Pos are filled once the span is resolved against a
// FileSet.
type Error struct {
	Diag   Diagnostic
	Path   string
	Pos    source.LineCol
	HasPos bool
}

// Errorf builds an unresolved error for span.
func Errorf(code Code, span source.Span, format string, args ...any) *Error {
	return &Error{Diag: Diagnostic{
		Severity: SevError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Primary:  span,
	}}
}

// NewError builds an error that has no source location (tool failures).
func NewError(code Code, msg, detail string) *Error {
	return &Error{Diag: Diagnostic{
		Severity: SevError,
		Code:     code,
		Message:  msg,
		Detail:   detail,
	}}
}

// WithGot sets the offending token text.
func (e *Error) WithGot(got string) *Error {
	e.Diag.Got = got
	return e
}

// WithDetail attaches bulky context (IR dump, stderr).
func (e *Error) WithDetail(detail string) *Error {
	e.Diag.Detail = detail
	return e
}

// Resolve fills Path and Pos from fs. It is a no-op when already resolved.
func (e *Error) Resolve(fs *source.FileSet) *Error {
	if e == nil || e.HasPos || fs == nil {
		return e
	}
	if fs.Get(e.Diag.Primary.File) == nil {
		return e
	}
	e.Path, e.Pos = fs.Position(e.Diag.Primary)
	e.HasPos = true
	return e
}

// Error renders `file:line:col: error: msg (got 'tok')`.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.HasPos {
		fmt.Fprintf(&sb, "%s:%d:%d: ", e.Path, e.Pos.Line, e.Pos.Col)
	}
	sb.WriteString(e.Diag.Severity.String())
	sb.WriteString(": ")
	sb.WriteString(e.Diag.Text())
	return sb.String()
}

// Code returns the diagnostic code.
func (e *Error) Code() Code { return e.Diag.Code }
