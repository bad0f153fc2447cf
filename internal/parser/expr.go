package parser

import (
	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/source"
	"esc/internal/token"
	"esc/internal/types"
)

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.Plus:     ast.OpAdd,
	token.Minus:    ast.OpSub,
	token.Star:     ast.OpMul,
	token.Slash:    ast.OpDiv,
	token.Percent:  ast.OpRem,
	token.Amp:      ast.OpBitAnd,
	token.Pipe:     ast.OpBitOr,
	token.Caret:    ast.OpBitXor,
	token.Shl:      ast.OpShl,
	token.Shr:      ast.OpShr,
	token.EqEq:     ast.OpEq,
	token.BangEq:   ast.OpNe,
	token.Lt:       ast.OpLt,
	token.Gt:       ast.OpGt,
	token.LtEq:     ast.OpLe,
	token.GtEq:     ast.OpGe,
	token.AndAnd:   ast.OpAnd,
	token.OrOr:     ast.OpOr,
	token.DotDot:   ast.OpRange,
	token.DotDotEq: ast.OpRangeIncl,
}

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.Minus: ast.OpNeg,
	token.Bang:  ast.OpNot,
	token.Tilde: ast.OpBitNot,
	token.Amp:   ast.OpAddr,
	token.Star:  ast.OpDeref,
}

// binaryPrec returns the binding power of a binary operator, or -1.
// Ranges bind loosest and associate to the right.
func binaryPrec(k token.Kind) int {
	switch k {
	case token.DotDot, token.DotDotEq:
		return 1
	case token.OrOr:
		return 2
	case token.AndAnd:
		return 3
	case token.Pipe:
		return 4
	case token.Caret:
		return 5
	case token.Amp:
		return 6
	case token.EqEq, token.BangEq:
		return 7
	case token.Lt, token.Gt, token.LtEq, token.GtEq:
		return 8
	case token.Shl, token.Shr:
		return 9
	case token.Plus, token.Minus:
		return 10
	case token.Star, token.Slash, token.Percent:
		return 11
	default:
		return -1
	}
}

// parseExpr parses a full expression: binary chain, optional ternary,
// then any number of `|>` stages.
func (p *Parser) parseExpr() *ast.Expr {
	e := p.parseBinary(1)
	if p.accept(token.Question) {
		then := p.parseExpr()
		p.expect(token.Colon)
		els := p.parseExpr()
		e = ast.NewTernary(e.Span.Cover(els.Span), e, then, els)
	}
	for p.accept(token.PipeGt) {
		rhs := p.parseBinary(1)
		switch data := rhs.Data.(type) {
		case *ast.CallExpr:
			// x |> f(a)  =>  f(x, a)
			data.Args = append([]*ast.Expr{e}, data.Args...)
			rhs.Span = e.Span.Cover(rhs.Span)
			e = rhs
		case *ast.Ident:
			e = ast.NewCall(e.Span.Cover(rhs.Span), rhs, e)
		default:
			p.failAt(diag.SynPipeTarget, rhs.Span, "pipe target must be a function or call")
		}
	}
	return e
}

func (p *Parser) parseBinary(minPrec int) *ast.Expr {
	left := p.parseCast()
	for {
		k := p.peek().Kind
		prec := binaryPrec(k)
		if prec < minPrec {
			return left
		}
		p.advance()
		next := prec + 1
		if k == token.DotDot || k == token.DotDotEq {
			next = prec
		}
		right := p.parseBinary(next)
		left = ast.NewBinary(left.Span.Cover(right.Span), binaryOps[k], left, right)
	}
}

// parseCast handles `e as T`, which binds tighter than any binary operator
// but looser than unary prefixes: `&buf as *u8` is `(&buf) as *u8`.
func (p *Parser) parseCast() *ast.Expr {
	e := p.parseUnary()
	for p.accept(token.KwAs) {
		target := p.parseType()
		e = ast.NewCast(p.spanFrom(e.Span), e, target)
	}
	return e
}

func (p *Parser) parseUnary() *ast.Expr {
	tok := p.peek()
	if op, ok := unaryOps[tok.Kind]; ok {
		p.advance()
		operand := p.parseUnary()
		return ast.NewUnary(tok.Span.Cover(operand.Span), op, operand)
	}
	if tok.Kind == token.KwComptime {
		p.advance()
		operand := p.parseUnary()
		return ast.NewComptime(tok.Span.Cover(operand.Span), operand)
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(left *ast.Expr) *ast.Expr {
	for {
		switch p.peek().Kind {
		case token.LParen:
			p.advance()
			args := p.parseArgs()
			p.expect(token.RParen)
			left = ast.NewCall(p.spanFrom(left.Span), left, args...)
		case token.Dot:
			p.advance()
			name := p.expect(token.Ident)
			left = ast.NewField(p.spanFrom(left.Span), left, name.Text)
		case token.LBracket:
			p.advance()
			idx := p.parseNested()
			p.expect(token.RBracket)
			left = ast.NewIndex(p.spanFrom(left.Span), left, idx)
		default:
			return left
		}
	}
}

// parseArgs parses call arguments; newlines around arguments are allowed.
func (p *Parser) parseArgs() []*ast.Expr {
	var args []*ast.Expr
	if p.at(token.RParen) {
		return nil
	}
	for {
		p.skipNewlines()
		args = append(args, p.parseNested())
		p.skipNewlines()
		if !p.accept(token.Comma) {
			return args
		}
	}
}

// parseNested parses an expression inside brackets, where struct literals
// are allowed again.
func (p *Parser) parseNested() *ast.Expr {
	prev := p.noStructLit
	p.noStructLit = false
	defer func() { p.noStructLit = prev }()
	return p.parseExpr()
}

func (p *Parser) parsePrimary() *ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return ast.NewInt(tok.Span, tok.Int)
	case token.FloatLit:
		p.advance()
		return ast.NewFloat(tok.Span, tok.Float)
	case token.StringLit:
		p.advance()
		return ast.NewString(tok.Span, tok.Str)
	case token.KwNull:
		p.advance()
		return ast.NewNull(tok.Span)
	case token.Ident:
		p.advance()
		if !p.noStructLit && p.at(token.LBrace) && p.looksLikeStructInit() {
			return p.parseStructInit(types.Struct(tok.Text), tok.Span)
		}
		return ast.NewIdent(tok.Span, tok.Text)
	case token.LParen:
		p.advance()
		e := p.parseNested()
		p.expect(token.RParen)
		return e
	case token.KwSizeof:
		p.advance()
		var target *types.Type
		if p.accept(token.LParen) {
			target = p.parseType()
			p.expect(token.RParen)
		} else {
			target = p.parseType()
		}
		return ast.NewSizeof(p.spanFrom(tok.Span), target)
	case token.KwNew:
		return p.parseNew()
	case token.KwAsm:
		a := p.parseAsm()
		return &ast.Expr{Kind: ast.ExprAsm, Span: p.spanFrom(tok.Span), Data: &ast.AsmExpr{Asm: a}}
	default:
		p.fail(diag.SynExpectExpr, "expected expression")
		return nil
	}
}

// parseNew desugars
//
//	nw T          =>  malloc(sizeof T) as *T
//	nw T { .. }   =>  struct literal
func (p *Parser) parseNew() *ast.Expr {
	start := p.expect(token.KwNew).Span
	typ := p.parseType()
	if p.at(token.LBrace) {
		return p.parseStructInit(typ, start)
	}
	sp := p.spanFrom(start)
	call := ast.NewCall(sp, ast.NewIdent(start, "malloc"), ast.NewSizeof(sp, typ))
	return ast.NewCast(sp, call, types.Pointer(typ))
}

// looksLikeStructInit: `{` followed by `}` or `ident :`.
func (p *Parser) looksLikeStructInit() bool {
	st := p.mark()
	defer p.reset(st)
	p.advance()
	p.skipNewlines()
	if p.at(token.RBrace) {
		return true
	}
	if !p.at(token.Ident) {
		return false
	}
	p.advance()
	return p.at(token.Colon)
}

func (p *Parser) parseStructInit(typ *types.Type, start source.Span) *ast.Expr {
	p.expect(token.LBrace)
	p.skipNewlines()
	var fields []ast.FieldInit
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		name := p.expect(token.Ident)
		p.expect(token.Colon)
		value := p.parseNested()
		fields = append(fields, ast.FieldInit{Name: name.Text, Value: value, Span: name.Span.Cover(value.Span)})
		p.accept(token.Comma)
		p.skipNewlines()
	}
	p.expect(token.RBrace)
	return ast.NewStructInit(p.spanFrom(start), typ, fields)
}

// parseAsm parses
//
//	asm("tmpl")
//	asm("tmpl" : "=r"(out), ... : "r"(in), ... : "clobber", ...)
func (p *Parser) parseAsm() *ast.InlineAsm {
	p.expect(token.KwAsm)
	p.expect(token.LParen)
	a := &ast.InlineAsm{Template: p.expect(token.StringLit).Str}
	if p.accept(token.Colon) {
		a.Outputs = p.parseAsmOperands()
		if p.accept(token.Colon) {
			a.Inputs = p.parseAsmOperands()
			if p.accept(token.Colon) {
				for p.at(token.StringLit) {
					a.Clobbers = append(a.Clobbers, p.advance().Str)
					if !p.accept(token.Comma) {
						break
					}
				}
			}
		}
	}
	p.expect(token.RParen)
	return a
}

func (p *Parser) parseAsmOperands() []ast.AsmOperand {
	var ops []ast.AsmOperand
	for p.at(token.StringLit) {
		c := p.advance().Str
		p.expect(token.LParen)
		e := p.parseNested()
		p.expect(token.RParen)
		ops = append(ops, ast.AsmOperand{Constraint: c, Value: e})
		if !p.accept(token.Comma) {
			break
		}
	}
	return ops
}
