package diag

import (
	"esc/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Got is the offending token text for syntax errors, rendered as "(got '...')".
	Got   string
	Notes []Note
	// Detail carries bulky context such as an IR dump or tool stderr.
	Detail string
}

// Text returns the message with the "got" suffix applied.
func (d Diagnostic) Text() string {
	if d.Got == "" {
		return d.Message
	}
	return d.Message + " (got '" + d.Got + "')"
}
