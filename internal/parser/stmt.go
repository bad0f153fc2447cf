package parser

import (
	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/token"
)

func (p *Parser) parseBlock() *ast.Stmt {
	start := p.expect(token.LBrace).Span
	p.skipNewlines()
	var stmts []*ast.Stmt
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		stmts = append(stmts, p.parseStmt())
		p.skipNewlines()
	}
	p.expect(token.RBrace)
	return ast.NewBlock(p.spanFrom(start), stmts...)
}

func (p *Parser) parseStmt() *ast.Stmt {
	tok := p.peek()
	switch tok.Kind {
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwMatch:
		return p.parseMatch()
	case token.KwBreak, token.KwContinue:
		p.advance()
		p.expectTerminator()
		kind := ast.StmtBreak
		if tok.Kind == token.KwContinue {
			kind = ast.StmtContinue
		}
		return &ast.Stmt{Kind: kind, Span: tok.Span}
	case token.KwDelete:
		// del e  =>  free(e)
		p.advance()
		arg := p.parseExpr()
		call := ast.NewCall(p.spanFrom(tok.Span), ast.NewIdent(tok.Span, "free"), arg)
		p.expectTerminator()
		return ast.NewExprStmt(call)
	case token.KwDefer:
		p.advance()
		body := p.parseStmt()
		return &ast.Stmt{Kind: ast.StmtDefer, Span: tok.Span.Cover(body.Span), Data: &ast.DeferStmt{Body: body}}
	case token.KwAsm:
		a := p.parseAsm()
		st := &ast.Stmt{Kind: ast.StmtAsm, Span: p.spanFrom(tok.Span), Data: &ast.AsmStmt{Asm: a}}
		p.expectTerminator()
		return st
	case token.KwComptime:
		p.advance()
		e := p.parseExpr()
		st := &ast.Stmt{Kind: ast.StmtComptime, Span: p.spanFrom(tok.Span), Data: &ast.ComptimeStmt{Expr: e}}
		p.expectTerminator()
		return st
	case token.KwVar:
		return p.parseVar()
	case token.Ident:
		if st := p.tryCallSugar(); st != nil {
			return st
		}
		if st := p.tryLocalDecl(); st != nil {
			return st
		}
	}
	return p.parseSimpleStmt()
}

func (p *Parser) parseReturn() *ast.Stmt {
	start := p.advance().Span
	var value *ast.Expr
	switch p.peek().Kind {
	case token.Newline, token.Semicolon, token.RBrace, token.EOF:
	default:
		value = p.parseExpr()
	}
	st := ast.NewReturn(p.spanFrom(start), value)
	p.expectTerminator()
	return st
}

// parseIf parses `if c { } [el if ... | el { }]`.
func (p *Parser) parseIf() *ast.Stmt {
	start := p.expect(token.KwIf).Span
	cond := p.parseCond()
	then := p.parseBlock()
	p.skipNewlines()
	var els *ast.Stmt
	if p.accept(token.KwElse) {
		if p.at(token.KwIf) {
			els = p.parseIf()
		} else {
			els = p.parseBlock()
		}
	}
	p.skipNewlines()
	return &ast.Stmt{
		Kind: ast.StmtIf,
		Span: p.spanFrom(start),
		Data: &ast.IfStmt{Cond: cond, Then: then, Else: els},
	}
}

func (p *Parser) parseWhile() *ast.Stmt {
	start := p.expect(token.KwWhile).Span
	cond := p.parseCond()
	body := p.parseBlock()
	p.skipNewlines()
	return &ast.Stmt{
		Kind: ast.StmtWhile,
		Span: p.spanFrom(start),
		Data: &ast.WhileStmt{Cond: cond, Body: body},
	}
}

// parseFor desugars `for i := a..b { }` (or `..=`) into
//
//	init: i := a
//	cond: i < b   (i <= b)
//	incr: i = i + 1
func (p *Parser) parseFor() *ast.Stmt {
	start := p.expect(token.KwFor).Span
	iter := p.expect(token.Ident)
	p.expect(token.ColonAssign)
	rng := p.parseCond()
	bin, ok := rng.Data.(*ast.BinaryExpr)
	if !ok || !bin.Op.IsRange() {
		p.failAt(diag.SynForMissingRange, rng.Span, "expected range in for loop")
	}
	body := p.parseBlock()
	p.skipNewlines()

	sp := iter.Span
	cmp := ast.OpLt
	if bin.Op == ast.OpRangeIncl {
		cmp = ast.OpLe
	}
	return &ast.Stmt{
		Kind: ast.StmtFor,
		Span: p.spanFrom(start),
		Data: &ast.ForStmt{
			Init: ast.NewVarDecl(sp, iter.Text, nil, bin.Left),
			Cond: ast.NewBinary(rng.Span, cmp, ast.NewIdent(sp, iter.Text), bin.Right),
			Incr: ast.NewAssign(sp, ast.NewIdent(sp, iter.Text),
				ast.NewBinary(sp, ast.OpAdd, ast.NewIdent(sp, iter.Text), ast.NewInt(sp, 1))),
			Body: body,
		},
	}
}

// parseMatch parses `match e { v { } ... _ { } }`.
func (p *Parser) parseMatch() *ast.Stmt {
	start := p.expect(token.KwMatch).Span
	value := p.parseCond()
	p.expect(token.LBrace)
	p.skipNewlines()
	var cases []*ast.MatchCase
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		cstart := p.peek().Span
		var cv *ast.Expr
		if p.peek().IsIdentNamed("_") {
			p.advance()
		} else {
			cv = p.parseCond()
		}
		body := p.parseBlock()
		cases = append(cases, &ast.MatchCase{Value: cv, Body: body, Span: p.spanFrom(cstart)})
		p.skipNewlines()
	}
	p.expect(token.RBrace)
	p.skipNewlines()
	return &ast.Stmt{
		Kind: ast.StmtMatch,
		Span: p.spanFrom(start),
		Data: &ast.MatchStmt{Value: value, Cases: cases},
	}
}

// parseVar parses `var [mut] x := e`, `var x = e`, `var x : T [= e]`
// (`let` is the same keyword).
func (p *Parser) parseVar() *ast.Stmt {
	start := p.expect(token.KwVar).Span
	mutable := false
	if p.peek().IsIdentNamed("mut") {
		p.advance()
		mutable = true
	}
	name := p.expect(token.Ident)
	var st *ast.Stmt
	switch {
	case p.accept(token.ColonAssign), p.accept(token.Assign):
		init := p.parseExpr()
		st = ast.NewVarDecl(p.spanFrom(start), name.Text, nil, init)
	case p.accept(token.Colon):
		typ := p.parseType()
		var init *ast.Expr
		if p.accept(token.Assign) {
			init = p.parseExpr()
		}
		st = ast.NewVarDecl(p.spanFrom(start), name.Text, typ, init)
	default:
		p.fail(diag.SynUnexpectedToken, "expected ':=' or ':' after 'var'")
	}
	st.Data.(*ast.VarDeclStmt).Mutable = mutable
	p.expectTerminator()
	return st
}

// tryCallSugar rewrites `print e` and `check e` into calls.
func (p *Parser) tryCallSugar() *ast.Stmt {
	tok := p.peek()
	if tok.Text != "print" && tok.Text != "check" {
		return nil
	}
	saved := p.mark()
	p.advance()
	switch p.peek().Kind {
	case token.ColonAssign, token.Colon, token.Assign, token.LParen,
		token.Newline, token.Semicolon, token.EOF, token.RBrace:
		p.reset(saved)
		return nil
	}
	arg := p.parseExpr()
	call := ast.NewCall(p.spanFrom(tok.Span), ast.NewIdent(tok.Span, tok.Text), arg)
	p.expectTerminator()
	return ast.NewExprStmt(call)
}

// tryLocalDecl handles keyword-free `x := e`, `x : T = e` and `x : T`.
func (p *Parser) tryLocalDecl() *ast.Stmt {
	saved := p.mark()
	name := p.advance()
	var st *ast.Stmt
	switch {
	case p.accept(token.ColonAssign):
		init := p.parseExpr()
		st = ast.NewVarDecl(p.spanFrom(name.Span), name.Text, nil, init)
	case p.accept(token.Colon):
		typ := p.parseType()
		var init *ast.Expr
		if p.accept(token.Assign) {
			init = p.parseExpr()
		}
		st = ast.NewVarDecl(p.spanFrom(name.Span), name.Text, typ, init)
	default:
		p.reset(saved)
		return nil
	}
	p.expectTerminator()
	return st
}

// parseSimpleStmt parses an expression statement or an assignment; the
// compound forms `x op= v` become `x = x op v`.
func (p *Parser) parseSimpleStmt() *ast.Stmt {
	start := p.peek().Span
	target := p.parseExpr()

	if p.accept(token.Assign) {
		value := p.parseExpr()
		st := ast.NewAssign(p.spanFrom(start), target, value)
		p.expectTerminator()
		return st
	}
	if op, ok := p.peek().Kind.CompoundOp(); ok {
		p.advance()
		rhs := p.parseExpr()
		sp := p.spanFrom(start)
		value := ast.NewBinary(sp, binaryOps[op], target, rhs)
		st := ast.NewAssign(sp, target, value)
		p.expectTerminator()
		return st
	}

	st := ast.NewExprStmt(target)
	p.expectTerminator()
	return st
}

// parseCond parses an expression in a header position (`if`, `while`,
// `for`, `match`) where `Name {` always opens the body.
func (p *Parser) parseCond() *ast.Expr {
	prev := p.noStructLit
	p.noStructLit = true
	defer func() { p.noStructLit = prev }()
	return p.parseExpr()
}

