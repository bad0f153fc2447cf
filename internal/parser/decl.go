package parser

import (
	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/token"
	"esc/internal/types"
)

func (p *Parser) parseDecl() *ast.Decl {
	switch p.peek().Kind {
	case token.KwFn:
		return p.parseFn(true)
	case token.KwStruct:
		return p.parseStruct(true)
	case token.KwExtern:
		return p.parseExtern()
	case token.KwEnum:
		return p.parseEnum()
	case token.Ident:
		st := p.mark()
		p.advance()
		isStruct := p.at(token.LBrace)
		p.reset(st)
		if isStruct {
			return p.parseStruct(false)
		}
		return p.parseFn(false)
	default:
		p.fail(diag.SynUnexpectedToken, "expected declaration")
		return nil
	}
}

// parseFn parses
//
//	fn name(params) [-> T] { body }
//	fn name(params) [-> T] = expr
//
// The keyword is optional and the parameter list may be omitted entirely.
func (p *Parser) parseFn(hasKw bool) *ast.Decl {
	start := p.peek().Span
	if hasKw {
		p.expect(token.KwFn)
	}
	name := p.expect(token.Ident)
	isMain := name.Text == "main"

	var params []ast.Field
	if p.accept(token.LParen) {
		params, _ = p.parseParams(false)
		p.expect(token.RParen)
	}

	var ret *types.Type
	if p.accept(token.Arrow) {
		ret = p.parseType()
	}

	var body *ast.Stmt
	if p.accept(token.Assign) {
		val := p.parseExpr()
		body = ast.NewBlock(val.Span, ast.NewReturn(val.Span, val))
		p.expectTerminator()
		if ret == nil {
			ret = types.I32
		}
	} else {
		body = p.parseBlock()
		if ret == nil {
			switch {
			case isMain, ast.HasReturnValue(body):
				ret = types.I32
			default:
				ret = types.Void
			}
		}
	}

	// хвостовое выражение становится возвращаемым значением
	if !ret.IsVoid() && !isMain {
		if blk := body.Block(); len(blk.Stmts) > 0 {
			last := blk.Stmts[len(blk.Stmts)-1]
			if es, ok := last.Data.(*ast.ExprStmt); ok {
				blk.Stmts[len(blk.Stmts)-1] = ast.NewReturn(last.Span, es.Expr)
			}
		}
	}

	return &ast.Decl{
		Kind: ast.DeclFn,
		Span: p.spanFrom(start),
		Data: &ast.FnDecl{Name: name.Text, Params: params, Ret: ret, Body: body},
	}
}

// parseStruct parses `struct Name { field: T; ... }`.
func (p *Parser) parseStruct(hasKw bool) *ast.Decl {
	start := p.peek().Span
	if hasKw {
		p.expect(token.KwStruct)
	}
	name := p.expect(token.Ident)
	p.expect(token.LBrace)
	p.skipNewlines()

	var fields []ast.Field
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fstart := p.peek().Span
		fname := p.expect(token.Ident)
		p.expect(token.Colon)
		ftype := p.parseType()
		fields = append(fields, ast.Field{Name: fname.Text, Type: ftype, Span: p.spanFrom(fstart)})
		p.accept(token.Comma)
		p.skipNewlines()
	}
	p.expect(token.RBrace)

	return &ast.Decl{
		Kind: ast.DeclStruct,
		Span: p.spanFrom(start),
		Data: &ast.StructDecl{Name: name.Text, Fields: fields},
	}
}

// parseExtern parses `extern name(T, ...) [-> T]`.
func (p *Parser) parseExtern() *ast.Decl {
	start := p.expect(token.KwExtern).Span
	name := p.expect(token.Ident)
	p.expect(token.LParen)
	params, variadic := p.parseParams(true)
	p.expect(token.RParen)
	ret := types.Void
	if p.accept(token.Arrow) {
		ret = p.parseType()
	}
	span := p.spanFrom(start)
	p.expectTerminator()

	return &ast.Decl{
		Kind: ast.DeclExtern,
		Span: span,
		Data: &ast.ExternDecl{Name: name.Text, Params: params, Ret: ret, Variadic: variadic},
	}
}

// parseEnum parses `enum Name { A; B = 5; C }`. Values auto-increment from
// the previous member.
func (p *Parser) parseEnum() *ast.Decl {
	start := p.expect(token.KwEnum).Span
	name := p.expect(token.Ident)
	p.expect(token.LBrace)
	p.skipNewlines()

	var members []ast.EnumMember
	var next int64
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		mname := p.expect(token.Ident)
		if p.accept(token.Assign) {
			neg := p.accept(token.Minus)
			num := p.expect(token.IntLit)
			next = num.Int
			if neg {
				next = -next
			}
		}
		members = append(members, ast.EnumMember{Name: mname.Text, Value: next, Span: p.spanFrom(mname.Span)})
		next++
		p.accept(token.Comma)
		p.skipNewlines()
	}
	p.expect(token.RBrace)

	return &ast.Decl{
		Kind: ast.DeclEnum,
		Span: p.spanFrom(start),
		Data: &ast.EnumDecl{Name: name.Text, Members: members},
	}
}
