package sexpr

import (
	"strconv"

	"esc/internal/diag"
	"esc/internal/source"
)

// AtomKind classifies leaf nodes.
type AtomKind uint8

const (
	AtomSymbol AtomKind = iota
	AtomInt
	AtomFloat
	AtomString
)

// Node is either an atom or a parenthesized list.
type Node struct {
	List  bool
	Items []*Node

	Kind  AtomKind
	Text  string // raw source text of an atom
	Int   int64
	Float float64
	Str   string // decoded string literal

	Span source.Span
}

// IsSym reports whether n is the symbol s.
func (n *Node) IsSym(s string) bool {
	return !n.List && n.Kind == AtomSymbol && n.Text == s
}

// Head returns the leading symbol of a list form, or "".
func (n *Node) Head() string {
	if !n.List || len(n.Items) == 0 || n.Items[0].List || n.Items[0].Kind != AtomSymbol {
		return ""
	}
	return n.Items[0].Text
}

type reader struct {
	file *source.File
	off  uint32
}

// Read splits the file into top-level forms.
func Read(file *source.File) ([]*Node, error) {
	r := &reader{file: file}
	var forms []*Node
	for {
		r.skip()
		if r.eof() {
			return forms, nil
		}
		n, err := r.form()
		if err != nil {
			return nil, err
		}
		forms = append(forms, n)
	}
}

func (r *reader) eof() bool { return int(r.off) >= len(r.file.Content) }

func (r *reader) peek() byte { return r.file.Content[r.off] }

func (r *reader) span(start uint32) source.Span {
	return source.Span{File: r.file.ID, Start: start, End: r.off}
}

// skip eats whitespace and `;` comments.
func (r *reader) skip() {
	for !r.eof() {
		switch r.peek() {
		case ' ', '\t', '\n', '\r':
			r.off++
		case ';':
			for !r.eof() && r.peek() != '\n' {
				r.off++
			}
		default:
			return
		}
	}
}

func (r *reader) form() (*Node, error) {
	start := r.off
	switch c := r.peek(); {
	case c == '(':
		r.off++
		list := &Node{List: true}
		for {
			r.skip()
			if r.eof() {
				return nil, diag.Errorf(diag.SynBadForm, r.span(start), "unclosed '('")
			}
			if r.peek() == ')' {
				r.off++
				list.Span = r.span(start)
				return list, nil
			}
			item, err := r.form()
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
	case c == ')':
		r.off++
		return nil, diag.Errorf(diag.SynBadForm, r.span(start), "unexpected ')'")
	case c == '"':
		return r.str()
	default:
		return r.atom()
	}
}

func (r *reader) str() (*Node, error) {
	start := r.off
	r.off++
	var buf []byte
	for {
		if r.eof() {
			return nil, diag.Errorf(diag.LexUnterminatedString, r.span(start), "unterminated string")
		}
		c := r.peek()
		r.off++
		switch {
		case c == '"':
			sp := r.span(start)
			return &Node{Kind: AtomString, Text: string(r.file.Content[sp.Start:sp.End]), Str: string(buf), Span: sp}, nil
		case c == '\\' && !r.eof():
			e := r.peek()
			r.off++
			switch e {
			case 'n':
				buf = append(buf, '\n')
			case 't':
				buf = append(buf, '\t')
			case 'r':
				buf = append(buf, '\r')
			case '0':
				buf = append(buf, 0)
			default:
				buf = append(buf, e)
			}
		default:
			buf = append(buf, c)
		}
	}
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '"':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// atom reads a number or a symbol. Anything that is not whitespace, a
// paren or a quote belongs to the symbol.
func (r *reader) atom() (*Node, error) {
	start := r.off
	for !r.eof() && !isDelim(r.peek()) {
		r.off++
	}
	sp := r.span(start)
	text := string(r.file.Content[sp.Start:sp.End])
	n := &Node{Kind: AtomSymbol, Text: text, Span: sp}

	body := text
	if len(body) > 1 && body[0] == '-' {
		body = body[1:]
	}
	if body == "" || !isDigit(body[0]) {
		return n, nil
	}
	if v, err := strconv.ParseInt(text, 0, 64); err == nil {
		n.Kind, n.Int = AtomInt, v
		return n, nil
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		n.Kind, n.Float = AtomFloat, v
		return n, nil
	}
	return nil, diag.Errorf(diag.LexBadNumber, sp, "malformed number '%s'", text)
}
