package parser

import (
	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/token"
)

// parseExpr parses a full expression, assignment included.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.ExprID, bool) {
	lhs, ok := p.parseLogicalOr()
	if !ok {
		return ast.NoExprID, false
	}
	if p.at(token.Assign) {
		p.advance()
		rhs, ok := p.parseAssignment()
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.b.Exprs.Get(lhs).Span.Cover(p.b.Exprs.Get(rhs).Span)
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprBinary, Span: sp, BinOp: ast.BinAssign, Lhs: lhs, Rhs: rhs}), true
	}
	return lhs, true
}

type binLevel struct {
	ops map[token.Kind]ast.BinOp
	next func(*Parser) (ast.ExprID, bool)
}

func (p *Parser) parseLogicalOr() (ast.ExprID, bool) {
	return p.parseBinLevel(map[token.Kind]ast.BinOp{token.PipePipe: ast.BinOr}, (*Parser).parseLogicalAnd)
}

func (p *Parser) parseLogicalAnd() (ast.ExprID, bool) {
	return p.parseBinLevel(map[token.Kind]ast.BinOp{token.AmpAmp: ast.BinAnd}, (*Parser).parseBitOr)
}

func (p *Parser) parseBitOr() (ast.ExprID, bool) {
	return p.parseBinLevel(map[token.Kind]ast.BinOp{token.Pipe: ast.BinBitOr}, (*Parser).parseBitXor)
}

func (p *Parser) parseBitXor() (ast.ExprID, bool) {
	return p.parseBinLevel(map[token.Kind]ast.BinOp{token.Caret: ast.BinBitXor}, (*Parser).parseBitAnd)
}

func (p *Parser) parseBitAnd() (ast.ExprID, bool) {
	return p.parseBinLevel(map[token.Kind]ast.BinOp{token.Amp: ast.BinBitAnd}, (*Parser).parseEquality)
}

func (p *Parser) parseEquality() (ast.ExprID, bool) {
	return p.parseBinLevel(map[token.Kind]ast.BinOp{token.EqEq: ast.BinEq, token.BangEq: ast.BinNe}, (*Parser).parseRelational)
}

func (p *Parser) parseRelational() (ast.ExprID, bool) {
	return p.parseBinLevel(map[token.Kind]ast.BinOp{
		token.Lt: ast.BinLt, token.LtEq: ast.BinLe, token.Gt: ast.BinGt, token.GtEq: ast.BinGe,
	}, (*Parser).parseShift)
}

func (p *Parser) parseShift() (ast.ExprID, bool) {
	return p.parseBinLevel(map[token.Kind]ast.BinOp{token.Shl: ast.BinShl, token.Shr: ast.BinShr}, (*Parser).parseAdditive)
}

func (p *Parser) parseAdditive() (ast.ExprID, bool) {
	return p.parseBinLevel(map[token.Kind]ast.BinOp{token.Plus: ast.BinAdd, token.Minus: ast.BinSub}, (*Parser).parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (ast.ExprID, bool) {
	return p.parseBinLevel(map[token.Kind]ast.BinOp{
		token.Star: ast.BinMul, token.Slash: ast.BinDiv, token.Percent: ast.BinMod,
	}, (*Parser).parseUnary)
}

func (p *Parser) parseBinLevel(ops map[token.Kind]ast.BinOp, next func(*Parser) (ast.ExprID, bool)) (ast.ExprID, bool) {
	lhs, ok := next(p)
	if !ok {
		return ast.NoExprID, false
	}
	for {
		op, matched := ops[p.peek().Kind]
		if !matched {
			return lhs, true
		}
		p.advance()
		rhs, ok := next(p)
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.b.Exprs.Get(lhs).Span.Cover(p.b.Exprs.Get(rhs).Span)
		lhs = p.b.Exprs.New(ast.Expr{Kind: ast.ExprBinary, Span: sp, BinOp: op, Lhs: lhs, Rhs: rhs})
	}
}

func (p *Parser) parseUnary() (ast.ExprID, bool) {
	start := p.peek().Span
	switch {
	case p.at(token.Minus):
		p.advance()
		operand, ok := p.parsePrimaryPostfix()
		if !ok {
			return ast.NoExprID, false
		}
		sp := start.Cover(p.b.Exprs.Get(operand).Span)
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprUnary, Span: sp, UnOp: ast.UnNeg, Operand: operand}), true
	case p.at(token.Bang):
		p.advance()
		operand, ok := p.parsePrimaryPostfix()
		if !ok {
			return ast.NoExprID, false
		}
		sp := start.Cover(p.b.Exprs.Get(operand).Span)
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprUnary, Span: sp, UnOp: ast.UnNot, Operand: operand}), true
	case p.at(token.Caret):
		p.advance()
		operand, ok := p.parsePrimaryPostfix()
		if !ok {
			return ast.NoExprID, false
		}
		sp := start.Cover(p.b.Exprs.Get(operand).Span)
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprUnary, Span: sp, UnOp: ast.UnBitNot, Operand: operand}), true
	case p.at(token.Amp):
		p.advance()
		operand, ok := p.parsePrimaryPostfix()
		if !ok {
			return ast.NoExprID, false
		}
		sp := start.Cover(p.b.Exprs.Get(operand).Span)
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprAddrOf, Span: sp, Target: operand}), true
	case p.at(token.Star):
		p.advance()
		operand, ok := p.parsePrimaryPostfix()
		if !ok {
			return ast.NoExprID, false
		}
		sp := start.Cover(p.b.Exprs.Get(operand).Span)
		return p.b.Exprs.New(ast.Expr{Kind: ast.ExprDeref, Span: sp, Target: operand}), true
	default:
		return p.parsePrimaryPostfix()
	}
}

func (p *Parser) parsePrimaryPostfix() (ast.ExprID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		switch {
		case p.at(token.LBracket):
			p.advance()
			idx, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			rb, ok := p.expect(token.RBracket, diag.E0SynUnclosedDelimiter, "expected ']' after index expression")
			if !ok {
				return ast.NoExprID, false
			}
			sp := p.b.Exprs.Get(expr).Span.Cover(rb.Span)
			expr = p.b.Exprs.New(ast.Expr{Kind: ast.ExprIndex, Span: sp, Base: expr, Index: idx})

		case p.at(token.Dot):
			p.advance()
			var name source.StringID
			if p.at(token.KwView) {
				// `view` is a keyword, but `.view()` is the slice accessor.
				p.advance()
				name = p.in.Intern("view")
			} else {
				var ok bool
				name, ok = p.parseIdent()
				if !ok {
					return ast.NoExprID, false
				}
			}
			sp := p.b.Exprs.Get(expr).Span.Cover(p.lastSpan)
			expr = p.b.Exprs.New(ast.Expr{Kind: ast.ExprField, Span: sp, Base: expr, Name: name})

		case p.at(token.LParen):
			args, rparenSpan, ok := p.parseArgList()
			if !ok {
				return ast.NoExprID, false
			}
			sp := p.b.Exprs.Get(expr).Span.Cover(rparenSpan)
			expr = p.b.Exprs.New(ast.Expr{Kind: ast.ExprCall, Span: sp, Callee: expr, Args: args})

		default:
			return expr, true
		}
	}
}

// parseArgList parses a parenthesized, comma-separated argument list and
// returns the closing paren's span for the caller to cover.
func (p *Parser) parseArgList() ([]ast.ExprID, source.Span, bool) {
	p.advance() // '('
	var args []ast.ExprID
	if !p.at(token.RParen) {
		for {
			arg, ok := p.parseExpr()
			if !ok {
				return nil, source.Span{}, false
			}
			args = append(args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	rp, ok := p.expect(token.RParen, diag.E0SynUnclosedDelimiter, "expected ')' after argument list")
	if !ok {
		return nil, source.Span{}, false
	}
	return args, rp.Span, true
}
