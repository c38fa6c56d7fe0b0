package parser

import (
	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/token"
)

func (p *Parser) parseItem() (ast.ItemID, bool) {
	switch p.peek().Kind {
	case token.KwStruct:
		return p.parseStruct()
	case token.KwEnum:
		return p.parseEnum()
	case token.KwUnion:
		p.err(diag.E0UnsupportedUnion, "unions are not accepted in v0")
		return ast.NoItemID, false
	default:
		if p.isFnStart() {
			return p.parseFn()
		}
		p.err(diag.E0SynUnexpectedToken, "expected a function, struct, or enum declaration")
		return ast.NoItemID, false
	}
}

// isFnStart reports whether the upcoming tokens can begin a top-level
// declaration: a type (the function's return type) followed eventually by
// a name. parseFn itself reports a diagnostic if '(' doesn't follow.
func (p *Parser) isFnStart() bool {
	return p.looksLikeDeclStart() || p.peek().Kind == token.KwVoid
}

func (p *Parser) parseFn() (ast.ItemID, bool) {
	start := p.peek().Span
	result, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	if !p.at(token.LParen) {
		p.err(diag.E0SynUnexpectedToken, "expected '(' to begin function parameter list")
		return ast.NoItemID, false
	}
	params, ok := p.parseParams()
	if !ok {
		return ast.NoItemID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoItemID, false
	}
	sp := start.Cover(p.b.Stmts.Get(body).Span)
	return p.b.Items.New(ast.Item{
		Kind: ast.ItemFn, Span: sp, Name: name, Params: params, Result: result, Body: body,
	}), true
}

func (p *Parser) parseParams() ([]ast.Param, bool) {
	p.advance() // '('
	var params []ast.Param
	if !p.at(token.RParen) {
		for {
			pstart := p.peek().Span
			typ, ok := p.parseType()
			if !ok {
				return nil, false
			}
			name, ok := p.parseIdent()
			if !ok {
				return nil, false
			}
			params = append(params, ast.Param{Name: name, Type: typ, Span: pstart.Cover(p.lastSpan)})
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(token.RParen, diag.E0SynUnclosedDelimiter, "expected ')' after parameter list"); !ok {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseStruct() (ast.ItemID, bool) {
	start := p.advance().Span // 'struct'
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.LBrace, diag.E0SynUnexpectedToken, "expected '{' after struct name"); !ok {
		return ast.NoItemID, false
	}
	var fields []ast.Field
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fstart := p.peek().Span
		ftyp, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		fname, ok := p.parseIdent()
		if !ok {
			return ast.NoItemID, false
		}
		if _, ok := p.expect(token.Semicolon, diag.E0SynUnexpectedToken, "expected ';' after struct field"); !ok {
			return ast.NoItemID, false
		}
		fields = append(fields, ast.Field{Name: fname, Type: ftyp, Span: fstart.Cover(p.lastSpan)})
	}
	rb, ok := p.expect(token.RBrace, diag.E0SynUnclosedDelimiter, "expected '}' to close struct")
	if !ok {
		return ast.NoItemID, false
	}
	return p.b.Items.New(ast.Item{Kind: ast.ItemStruct, Span: start.Cover(rb.Span), Name: name, Fields: fields}), true
}

func (p *Parser) parseEnum() (ast.ItemID, bool) {
	start := p.advance().Span // 'enum'
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.LBrace, diag.E0SynUnexpectedToken, "expected '{' after enum name"); !ok {
		return ast.NoItemID, false
	}
	var variants []ast.StringID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		v, ok := p.parseIdent()
		if !ok {
			return ast.NoItemID, false
		}
		variants = append(variants, v)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	rb, ok := p.expect(token.RBrace, diag.E0SynUnclosedDelimiter, "expected '}' to close enum")
	if !ok {
		return ast.NoItemID, false
	}
	return p.b.Items.New(ast.Item{Kind: ast.ItemEnum, Span: start.Cover(rb.Span), Name: name, Variants: variants}), true
}
