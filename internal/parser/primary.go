package parser

import (
	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/token"
)

// parsePrimary parses literals, identifiers, parenthesized groups, and
// the surface safety intrinsics (borrow, mut_borrow, release_borrow,
// move, alloc), which read like calls but are elaborated to their own
// Core node kind rather than ExprCall once desugaring runs.
func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprIntLit, Span: tok.Span, Text: tok.Text}), true

	case token.StringLit:
		p.advance()
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprStringLit, Span: tok.Span, Text: tok.Text}), true

	case token.KwTrue:
		p.advance()
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprBoolLit, Span: tok.Span, Bool: true}), true

	case token.KwFalse:
		p.advance()
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprBoolLit, Span: tok.Span, Bool: false}), true

	case token.Ident:
		p.advance()
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprIdent, Span: tok.Span, Name: p.in.Intern(tok.Text)}), true

	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		rp, ok := p.expect(token.RParen, diag.E0SynUnclosedDelimiter, "expected ')' after parenthesized expression")
		if !ok {
			return ast.NoExprID, false
		}
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprGroup, Span: tok.Span.Cover(rp.Span), Target: inner}), true

	case token.KwBorrow:
		return p.parseIntrinsicUnary(ast.ExprBorrow)
	case token.KwMutBorrow:
		return p.parseIntrinsicUnary(ast.ExprMutBorrow)
	case token.KwReleaseBorrow:
		return p.parseIntrinsicUnary(ast.ExprReleaseBorrow)
	case token.KwMove:
		return p.parseIntrinsicUnary(ast.ExprMove)

	case token.KwAlloc:
		return p.parseAlloc()

	default:
		p.err(diag.E0SynExpectExpression, "expected an expression")
		return ast.NoExprID, false
	}
}

// parseIntrinsicUnary parses `kw '(' expr ')'` for borrow/mut_borrow/
// release_borrow/move, storing the operand place in Target.
func (p *Parser) parseIntrinsicUnary(kind ast.ExprKind) (ast.ExprID, bool) {
	start := p.advance().Span // the keyword
	if _, ok := p.expect(token.LParen, diag.E0SynUnexpectedToken, "expected '(' after intrinsic"); !ok {
		return ast.NoExprID, false
	}
	target, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	rp, ok := p.expect(token.RParen, diag.E0SynUnclosedDelimiter, "expected ')' after intrinsic operand")
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.New(ast.Expr{Kind: kind, Span: start.Cover(rp.Span), Target: target}), true
}

// parseAlloc parses `alloc '(' Type [',' expr] ')'`; without the count it
// is a scalar alloc. The first argument is a type, not a value, so it
// cannot share parseArgList with ordinary calls.
func (p *Parser) parseAlloc() (ast.ExprID, bool) {
	start := p.advance().Span // 'alloc'
	if _, ok := p.expect(token.LParen, diag.E0SynUnexpectedToken, "expected '(' after 'alloc'"); !ok {
		return ast.NoExprID, false
	}
	elemType, ok := p.parseType()
	if !ok {
		return ast.NoExprID, false
	}
	var count ast.ExprID
	if p.at(token.Comma) {
		p.advance()
		count, ok = p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
	}
	rp, ok := p.expect(token.RParen, diag.E0SynUnclosedDelimiter, "expected ')' after alloc count")
	if !ok {
		return ast.NoExprID, false
	}
	return p.b.Exprs.New(ast.Expr{
		Kind: ast.ExprAlloc, Span: start.Cover(rp.Span), AllocElem: elemType, AllocCount: count,
	}), true
}
