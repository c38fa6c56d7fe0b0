package parser

import (
	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/token"
)

// looksLikeDeclStart reports whether the upcoming tokens begin a C-style
// declaration ("Type name [= expr];") rather than an expression statement.
// own/view/mut/raw/void are unambiguous; a bare identifier is only a
// declaration when followed by another identifier, or by '*' then an
// identifier (the pointer-type spelling "T* name").
func (p *Parser) looksLikeDeclStart() bool {
	switch p.peek().Kind {
	case token.KwOwn, token.KwView, token.KwMut, token.KwRaw, token.KwVoid:
		return true
	case token.Ident:
		switch p.peekAt(1).Kind {
		case token.Ident:
			return true
		case token.Star:
			return p.peekAt(2).Kind == token.Ident
		}
		return false
	default:
		return false
	}
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwUnsafe:
		return p.parseUnsafe()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwLet:
		return p.parseLet()
	case token.KwBreak:
		sp := p.advance().Span
		semi, ok := p.expect(token.Semicolon, diag.E0SynUnexpectedToken, "expected ';' after 'break'")
		if !ok {
			return ast.NoStmtID, false
		}
		return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtBreak, Span: sp.Cover(semi.Span)}), true
	case token.KwContinue:
		sp := p.advance().Span
		semi, ok := p.expect(token.Semicolon, diag.E0SynUnexpectedToken, "expected ';' after 'continue'")
		if !ok {
			return ast.NoStmtID, false
		}
		return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtContinue, Span: sp.Cover(semi.Span)}), true
	case token.Semicolon:
		sp := p.advance().Span
		return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtBlock, Span: sp}), true
	case token.KwGoto:
		p.err(diag.E0UnsupportedGoto, "'goto' is not accepted in v0")
		return ast.NoStmtID, false
	case token.KwFloat, token.KwDouble:
		p.err(diag.E0UnsupportedFloat, "floating-point types are not accepted in v0")
		return ast.NoStmtID, false
	default:
		if p.looksLikeDeclStart() {
			return p.parseDecl()
		}
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() (ast.StmtID, bool) {
	start := p.advance().Span // '{'
	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		s, ok := p.parseStmt()
		if !ok {
			p.resyncStmt()
			continue
		}
		stmts = append(stmts, s)
	}
	rb, ok := p.expect(token.RBrace, diag.E0SynUnclosedDelimiter, "expected '}' to close block")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtBlock, Span: start.Cover(rb.Span), Stmts: stmts}), true
}

func (p *Parser) resyncStmt() {
	for !p.at(token.EOF) && !p.at(token.RBrace) {
		if p.at(token.Semicolon) {
			p.advance()
			return
		}
		p.advance()
	}
}

func (p *Parser) parseUnsafe() (ast.StmtID, bool) {
	start := p.advance().Span // 'unsafe'
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	sp := start.Cover(p.b.Stmts.Get(body).Span)
	return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtUnsafe, Span: sp, Stmts: []ast.StmtID{body}}), true
}

func (p *Parser) parseIf() (ast.StmtID, bool) {
	start := p.advance().Span // 'if'
	if _, ok := p.expect(token.LParen, diag.E0SynUnexpectedToken, "expected '(' after 'if'"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.E0SynUnclosedDelimiter, "expected ')' after if condition"); !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	var els ast.StmtID
	end := p.b.Stmts.Get(then).Span
	if p.at(token.KwElse) {
		p.advance()
		els, ok = p.parseStmt()
		if !ok {
			return ast.NoStmtID, false
		}
		end = p.b.Stmts.Get(els).Span
	}
	return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtIf, Span: start.Cover(end), Cond: cond, Then: then, Else: els}), true
}

func (p *Parser) parseWhile() (ast.StmtID, bool) {
	start := p.advance().Span // 'while'
	if _, ok := p.expect(token.LParen, diag.E0SynUnexpectedToken, "expected '(' after 'while'"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.E0SynUnclosedDelimiter, "expected ')' after while condition"); !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	sp := start.Cover(p.b.Stmts.Get(body).Span)
	return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtWhile, Span: sp, Cond: cond, Body: body}), true
}

// parseFor parses the classic three-clause C for loop; Aegis Core
// desugars it into a While.
func (p *Parser) parseFor() (ast.StmtID, bool) {
	start := p.advance().Span // 'for'
	if _, ok := p.expect(token.LParen, diag.E0SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		return ast.NoStmtID, false
	}

	var init ast.StmtID
	if p.at(token.Semicolon) {
		p.advance()
	} else if p.looksLikeDeclStart() {
		var ok bool
		init, ok = p.parseDecl()
		if !ok {
			return ast.NoStmtID, false
		}
	} else {
		var ok bool
		init, ok = p.parseExprStmt()
		if !ok {
			return ast.NoStmtID, false
		}
	}

	var cond ast.ExprID
	if !p.at(token.Semicolon) {
		var ok bool
		cond, ok = p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.E0SynUnexpectedToken, "expected ';' after for condition"); !ok {
		return ast.NoStmtID, false
	}

	var post ast.StmtID
	if !p.at(token.RParen) {
		postExpr, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		post = p.b.Stmts.New(ast.Stmt{Kind: ast.StmtExpr, Span: p.b.Exprs.Get(postExpr).Span, ExprValue: postExpr})
	}
	if _, ok := p.expect(token.RParen, diag.E0SynUnclosedDelimiter, "expected ')' after for clauses"); !ok {
		return ast.NoStmtID, false
	}

	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	sp := start.Cover(p.b.Stmts.Get(body).Span)
	return p.b.Stmts.New(ast.Stmt{
		Kind: ast.StmtFor, Span: sp, ForInit: init, Cond: cond, ForPost: post, Body: body,
	}), true
}

func (p *Parser) parseReturn() (ast.StmtID, bool) {
	start := p.advance().Span // 'return'
	var value ast.ExprID
	if !p.at(token.Semicolon) {
		var ok bool
		value, ok = p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.E0SynUnexpectedToken, "expected ';' after return statement")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtReturn, Span: start.Cover(semi.Span), ExprValue: value}), true
}

// parseLet parses the `let` surface form, which the desugarer treats
// identically to a C-style declaration.
func (p *Parser) parseLet() (ast.StmtID, bool) {
	start := p.advance().Span // 'let'
	isMut := false
	if p.at(token.KwMut) {
		p.advance()
		isMut = true
	}
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoStmtID, false
	}
	var typ ast.TypeID
	if p.at(token.Colon) {
		p.advance()
		typ, ok = p.parseType()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	var init ast.ExprID
	if p.at(token.Assign) {
		p.advance()
		init, ok = p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.E0SynUnexpectedToken, "expected ';' after let binding")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.New(ast.Stmt{
		Kind: ast.StmtLet, Span: start.Cover(semi.Span), LetName: name, LetType: typ, LetInit: init, LetMut: isMut,
	}), true
}

// parseDecl parses "Type name [= expr];".
func (p *Parser) parseDecl() (ast.StmtID, bool) {
	start := p.peek().Span
	typ, ok := p.parseType()
	if !ok {
		return ast.NoStmtID, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoStmtID, false
	}
	var init ast.ExprID
	if p.at(token.Assign) {
		p.advance()
		init, ok = p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.E0SynUnexpectedToken, "expected ';' after declaration")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.b.Stmts.New(ast.Stmt{
		// C-style declarations are mutable by default, the same as in C;
		// only the `let` surface form (parseLet) defaults to immutable and
		// requires an explicit `mut` to allow reassignment.
		Kind: ast.StmtLet, Span: start.Cover(semi.Span), LetName: name, LetType: typ, LetInit: init, LetMut: true,
	}), true
}

func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.E0SynUnexpectedToken, "expected ';' after expression statement")
	if !ok {
		return ast.NoStmtID, false
	}
	sp := p.b.Exprs.Get(expr).Span.Cover(semi.Span)
	return p.b.Stmts.New(ast.Stmt{Kind: ast.StmtExpr, Span: sp, ExprValue: expr}), true
}
