// Package diag defines the diagnostic model shared by all pipeline phases.
//
// The compiler is fatal-first: every phase stops at its first problem and
// returns a *Error that wraps one Diagnostic. Callers recover the structured
// form with errors.As and render it through internal/diagfmt.
//
// # Data model
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier grouped by phase (see codes.go):
//     LEX 1000+, SYN 2000+, GEN 3000+, VER 4000+, LNK 5000+, IO 6000+.
//   - Message – human oriented text; keep it short.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Got – offending token text for syntax errors.
//   - Detail – bulky context (IR dump for verifier failures, stderr of a tool).
//
// Bag collects the errors of several independent compilations (`esc check`)
// in a deterministic order.
package diag
