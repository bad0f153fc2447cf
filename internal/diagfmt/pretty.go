package diagfmt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"esc/internal/diag"
	"esc/internal/source"
)

type palette struct {
	err, warn, info, note, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <sev>[<CODE>]: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeDiagnostic(w, p, d, fs, true, opts)
	}
}

// Error renders err. A positioned *diag.Error gets the source snippet;
// tool failures and plain errors print as a single line.
func Error(w io.Writer, err error, fs *source.FileSet, opts PrettyOpts) {
	if err == nil {
		return
	}
	p := newPalette(opts.Color)
	var de *diag.Error
	if !errors.As(err, &de) {
		fmt.Fprintf(w, "%s %s\n", p.err.Sprint("error:"), err.Error())
		return
	}
	if !de.HasPos && fs != nil && fs.Get(de.Diag.Primary.File) != nil && !de.Diag.Primary.Empty() {
		de = de.Resolve(fs)
	}
	writeDiagnostic(w, p, de.Diag, fs, de.HasPos, opts)
}

func writeDiagnostic(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, located bool, opts PrettyOpts) {
	var file *source.File
	if located && fs != nil {
		file = fs.Get(d.Primary.File)
	}

	sev := p.severity(d.Severity).Sprintf("%s[%s]:", d.Severity, d.Code.ID())
	if file == nil {
		fmt.Fprintf(w, "%s %s\n", sev, d.Text())
	} else {
		start := file.LineCol(d.Primary.Start)
		loc := fmt.Sprintf("%s:%d:%d:", formatPath(file.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col)
		fmt.Fprintf(w, "%s %s %s\n", p.path.Sprint(loc), sev, d.Text())
		writeSnippet(w, p, file, d.Primary, opts.Context)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := file
			if fs != nil {
				nf = fs.Get(n.Span.File)
			}
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				continue
			}
			pos := nf.LineCol(n.Span.Start)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
				formatPath(nf.Path, opts.PathMode, opts.BaseDir), pos.Line, pos.Col, n.Msg)
		}
	}
	if opts.ShowDetail && d.Detail != "" {
		for line := range strings.SplitSeq(strings.TrimRight(d.Detail, "\n"), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

// writeSnippet prints the primary line (plus context lines above) and a
// caret run under the span. Widths go through runewidth so wide glyphs
// and pictographs keep the caret aligned.
func writeSnippet(w io.Writer, p palette, file *source.File, span source.Span, context int) {
	start := file.LineCol(span.Start)
	end := file.LineCol(span.End)

	first := start.Line
	if ctxLines, err := safecast.Conv[uint32](context); err == nil && ctxLines > 0 {
		first = 1
		if start.Line > ctxLines {
			first = start.Line - ctxLines
		}
	}
	gutterWidth := len(fmt.Sprint(start.Line))

	for ln := first; ln <= start.Line; ln++ {
		text := expandTabs(file.GetLine(ln))
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), text)
	}

	line := file.GetLine(start.Line)
	col := min(int(start.Col)-1, len(line))
	prefix := runewidth.StringWidth(expandTabs(line[:col]))

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		stop := min(int(end.Col)-1, len(line))
		width = max(runewidth.StringWidth(expandTabs(line[col:stop])), 1)
	} else if end.Line > start.Line {
		width = max(runewidth.StringWidth(expandTabs(line[col:])), 1)
	}
	marks := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", prefix), p.caret.Sprint(marks))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
