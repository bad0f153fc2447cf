package parser

import (
	"errors"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/lexer"
	"esc/internal/source"
	"esc/internal/token"
	"esc/internal/types"
)

type Options struct {
	// NoStd disables the implicit `use std`.
	NoStd bool
	// Loader resolves `use` statements. Nil means `use` is an error.
	Loader *Loader
	// Reporter receives lexer problems as they are seen; the parser
	// itself stops at the first error either way.
	Reporter diag.Reporter
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
	prelude  bool
	// noStructLit is set while parsing statement headers.
	noStructLit bool
}

// bailout is the panic payload used to unwind on the first error.
type bailout struct{ err error }

// ParseFile parses a whole program: the std prelude (unless disabled),
// modules pulled in with `use`, then the file's own declarations. Free
// top-level statements are collected into an implicit `main`.
func ParseFile(fs *source.FileSet, id source.FileID, opts Options) (prog *ast.Program, err error) {
	file := fs.Get(id)
	if file == nil {
		return nil, errors.New("parser: unknown file")
	}
	p := newParser(file, opts, false)
	defer p.handleBailout(fs, &err)

	out := &ast.Program{}
	if !opts.NoStd && opts.Loader != nil {
		decls, lerr := opts.Loader.Load("std", source.Span{File: id})
		if lerr != nil {
			return nil, lerr
		}
		out.Append(decls...)
	}
	p.parseTop(out)
	return out, nil
}

// ParseSource is a convenience wrapper that registers src as a virtual
// file and parses it without a prelude.
func ParseSource(fs *source.FileSet, name string, src []byte) (*ast.Program, error) {
	id := fs.AddVirtual(name, src)
	return ParseFile(fs, id, Options{NoStd: true})
}

func parsePrelude(fs *source.FileSet, id source.FileID, opts Options) (decls []*ast.Decl, err error) {
	p := newParser(fs.Get(id), opts, true)
	defer p.handleBailout(fs, &err)
	prog := &ast.Program{}
	p.parseTop(prog)
	return prog.Decls, nil
}

func newParser(file *source.File, opts Options, prelude bool) *Parser {
	return &Parser{
		lx:       lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		file:     file,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
		prelude:  prelude,
	}
}

func (p *Parser) handleBailout(fs *source.FileSet, err *error) {
	r := recover()
	if r == nil {
		return
	}
	b, ok := r.(bailout)
	if !ok {
		panic(r)
	}
	var de *diag.Error
	if errors.As(b.err, &de) {
		de.Resolve(fs)
	}
	*err = b.err
}

// parseTop is the top-level loop. In prelude mode free statements are an
// error, so only declarations and `use` are accepted.
func (p *Parser) parseTop(prog *ast.Program) {
	var free []*ast.Stmt
	p.skipNewlines()
	for !p.at(token.EOF) {
		switch {
		case p.at(token.KwUse):
			p.parseUse(prog)
		case p.at(token.KwFn), p.at(token.KwStruct), p.at(token.KwExtern), p.at(token.KwEnum):
			prog.Append(p.parseDecl())
		case p.at(token.Ident) && p.looksLikeDecl():
			prog.Append(p.parseDecl())
		case p.prelude:
			p.fail(diag.SynUnexpectedToken, "expected declaration")
		default:
			free = append(free, p.parseStmt())
		}
		p.skipNewlines()
	}
	if len(free) == 0 {
		return
	}
	span := free[0].Span.Cover(free[len(free)-1].Span)
	prog.Append(&ast.Decl{
		Kind: ast.DeclFn,
		Span: span,
		Data: &ast.FnDecl{
			Name:     "main",
			Ret:      types.I32,
			Body:     ast.NewBlock(span, free...),
			Implicit: true,
		},
	})
}

func (p *Parser) parseUse(prog *ast.Program) {
	start := p.advance().Span
	name := p.expect(token.Ident)
	p.expectTerminator()
	if p.opts.Loader == nil {
		p.failAt(diag.SynModuleNotFound, start.Cover(name.Span), "module '%s' not found", name.Text)
	}
	decls, err := p.opts.Loader.Load(name.Text, start.Cover(name.Span))
	if err != nil {
		panic(bailout{err})
	}
	prog.Append(decls...)
}

// looksLikeDecl decides whether a top-level identifier starts a
// keyword-free declaration: `Name {` is a struct, `name(...)` is a
// function only when the balanced group is followed by `=`, `->` or `{`.
func (p *Parser) looksLikeDecl() bool {
	st := p.mark()
	defer p.reset(st)

	p.advance()
	switch p.peek().Kind {
	case token.LBrace:
		return true
	case token.LParen:
	default:
		return false
	}
	p.advance()
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		}
		p.advance()
	}
	switch p.peek().Kind {
	case token.Assign, token.Arrow, token.LBrace:
		return true
	default:
		return false
	}
}
