package parser

import (
	"strconv"

	"esc/internal/ast"
	"esc/internal/diag"
	"esc/internal/token"
	"esc/internal/types"
)

var primitiveTypes = map[token.Kind]*types.Type{
	token.KwI8:   types.I8,
	token.KwI16:  types.I16,
	token.KwI32:  types.I32,
	token.KwI64:  types.I64,
	token.KwU8:   types.U8,
	token.KwU16:  types.U16,
	token.KwU32:  types.U32,
	token.KwU64:  types.U64,
	token.KwF32:  types.F32,
	token.KwF64:  types.F64,
	token.KwVoid: types.Void,
	token.KwBool: types.Bool,
}

// parseType разбирает тип:
//
//	i8..u64 f32 f64 void bool | *T | *fn(T, ...) -> R | [N]T | Name
func (p *Parser) parseType() *types.Type {
	tok := p.peek()
	if t, ok := primitiveTypes[tok.Kind]; ok {
		p.advance()
		return t
	}
	switch tok.Kind {
	case token.Star:
		p.advance()
		if p.accept(token.KwFn) {
			return types.Pointer(p.parseFnType())
		}
		return types.Pointer(p.parseType())
	case token.LBracket:
		p.advance()
		size := p.expect(token.IntLit)
		p.expect(token.RBracket)
		if size.Int < 0 || size.Int > 1<<31 {
			p.failAt(diag.SynExpectType, size.Span, "invalid array length %d", size.Int)
		}
		return types.Array(uint32(size.Int), p.parseType())
	case token.Ident:
		p.advance()
		return types.Struct(tok.Text)
	default:
		p.fail(diag.SynExpectType, "expected type")
		return nil
	}
}

// parseFnType parses `(T, ...) -> R` after `fn` inside a pointer type.
func (p *Parser) parseFnType() *types.Type {
	p.expect(token.LParen)
	params, variadic := p.parseParams(true)
	p.expect(token.RParen)
	ret := types.Void
	if p.accept(token.Arrow) {
		ret = p.parseType()
	}
	ptypes := make([]*types.Type, len(params))
	for i, f := range params {
		ptypes[i] = f.Type
	}
	return types.Func(ret, ptypes, variadic)
}

// isTypeStart reports whether the next token can only begin a type.
func (p *Parser) isTypeStart() bool {
	k := p.peek().Kind
	return k.IsTypeKeyword() || k == token.Star || k == token.LBracket
}

// parseParams parses a parameter list up to (not including) ')'.
// With allowAnon a bare type or bare name is an unnamed parameter of that
// type (extern prototypes, function pointer types); otherwise a bare name
// is an i32 parameter.
func (p *Parser) parseParams(allowAnon bool) ([]ast.Field, bool) {
	var params []ast.Field
	if p.at(token.RParen) {
		return nil, false
	}
	anon := 0
	anonName := func() string {
		name := "_p" + strconv.Itoa(anon)
		anon++
		return name
	}
	for {
		if p.accept(token.DotDotDot) {
			return params, true
		}
		start := p.peek().Span
		switch {
		case allowAnon && p.isTypeStart():
			typ := p.parseType()
			params = append(params, ast.Field{Name: anonName(), Type: typ, Span: p.spanFrom(start)})
		default:
			name := p.expect(token.Ident)
			switch {
			case p.accept(token.Colon):
				typ := p.parseType()
				params = append(params, ast.Field{Name: name.Text, Type: typ, Span: p.spanFrom(start)})
			case allowAnon:
				params = append(params, ast.Field{Name: anonName(), Type: types.Struct(name.Text), Span: name.Span})
			default:
				params = append(params, ast.Field{Name: name.Text, Type: types.I32, Span: name.Span})
			}
		}
		if !p.accept(token.Comma) {
			return params, false
		}
	}
}
