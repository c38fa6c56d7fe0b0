package parser

import (
	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/token"
)

var scalarNames = map[string]ast.ScalarKind{
	"u8": ast.ScalarU8, "u16": ast.ScalarU16, "u32": ast.ScalarU32, "u64": ast.ScalarU64,
	"i8": ast.ScalarI8, "i16": ast.ScalarI16, "i32": ast.ScalarI32, "i64": ast.ScalarI64,
	"usize": ast.ScalarUsize, "isize": ast.ScalarIsize, "bool": ast.ScalarBool,
}

// isTypeStarter reports whether the current token can begin a type, used
// to disambiguate a C-style declaration statement from an expression
// statement that happens to start with an identifier.
func (p *Parser) isTypeStarter() bool {
	switch p.peek().Kind {
	case token.KwVoid, token.KwOwn, token.KwView, token.KwMut, token.KwRaw, token.LBracket:
		return true
	case token.Ident:
		return true
	}
	return false
}

// parseType parses one type expression: scalars and struct/enum
// names, own<T>/own<[T]>, view<T>, [T;N], and the pointer forms T*/mut
// T*/raw T*.
func (p *Parser) parseType() (ast.TypeID, bool) {
	start := p.peek().Span

	uniqueness := token.EOF // KwMut, KwRaw, or EOF meaning "shared" (plain '*')
	if p.atAny(token.KwMut, token.KwRaw) {
		uniqueness = p.advance().Kind
	}

	base, ok := p.parseBaseType()
	if !ok {
		return ast.NoTypeID, false
	}

	if p.at(token.Star) {
		p.advance()
		kind := ast.TypePtrShared
		switch uniqueness {
		case token.KwMut:
			kind = ast.TypePtrUnique
		case token.KwRaw:
			kind = ast.TypePtrRaw
		}
		sp := start.Cover(p.lastSpan)
		return p.b.Types.New(ast.TypeExpr{Kind: kind, Span: sp, Elem: base}), true
	}
	if uniqueness != token.EOF {
		p.err(diag.E0SynExpectType, "'mut'/'raw' must prefix a pointer type ending in '*'")
		return ast.NoTypeID, false
	}
	return base, true
}

func (p *Parser) parseBaseType() (ast.TypeID, bool) {
	start := p.peek().Span
	switch {
	case p.at(token.KwVoid):
		p.advance()
		return p.b.Types.New(ast.TypeExpr{Kind: ast.TypeVoid, Span: start}), true

	case p.at(token.KwOwn):
		p.advance()
		if _, ok := p.expect(token.Lt, diag.E0SynExpectType, "expected '<' after 'own'"); !ok {
			return ast.NoTypeID, false
		}
		if p.at(token.LBracket) {
			p.advance()
			elem, ok := p.parseType()
			if !ok {
				return ast.NoTypeID, false
			}
			if _, ok := p.expect(token.RBracket, diag.E0SynExpectType, "expected ']' in 'own<[T]>'"); !ok {
				return ast.NoTypeID, false
			}
			gt, ok := p.expect(token.Gt, diag.E0SynExpectType, "expected '>' after 'own<[T]'")
			if !ok {
				return ast.NoTypeID, false
			}
			return p.b.Types.New(ast.TypeExpr{Kind: ast.TypeOwnSlice, Span: start.Cover(gt.Span), Elem: elem}), true
		}
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		gt, ok := p.expect(token.Gt, diag.E0SynExpectType, "expected '>' after 'own<T>'")
		if !ok {
			return ast.NoTypeID, false
		}
		return p.b.Types.New(ast.TypeExpr{Kind: ast.TypeOwn, Span: start.Cover(gt.Span), Elem: elem}), true

	case p.at(token.KwView):
		p.advance()
		if _, ok := p.expect(token.Lt, diag.E0SynExpectType, "expected '<' after 'view'"); !ok {
			return ast.NoTypeID, false
		}
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		gt, ok := p.expect(token.Gt, diag.E0SynExpectType, "expected '>' after 'view<T>'")
		if !ok {
			return ast.NoTypeID, false
		}
		return p.b.Types.New(ast.TypeExpr{Kind: ast.TypeView, Span: start.Cover(gt.Span), Elem: elem}), true

	case p.at(token.LBracket):
		p.advance()
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		if _, ok := p.expect(token.Semicolon, diag.E0SynExpectType, "expected ';' in array type '[T;N]'"); !ok {
			return ast.NoTypeID, false
		}
		lenTok, ok := p.expect(token.IntLit, diag.E0SynExpectType, "expected a compile-time length in array type")
		if !ok {
			return ast.NoTypeID, false
		}
		n := parseUintLiteral(lenTok.Text)
		rb, ok := p.expect(token.RBracket, diag.E0SynExpectType, "expected ']' after array length")
		if !ok {
			return ast.NoTypeID, false
		}
		return p.b.Types.New(ast.TypeExpr{Kind: ast.TypeArray, Span: start.Cover(rb.Span), Elem: elem, ArrayLen: n}), true

	case p.at(token.Ident):
		tok := p.advance()
		if tok.Text == "addr" {
			return p.b.Types.New(ast.TypeExpr{Kind: ast.TypeAddr, Span: tok.Span}), true
		}
		if sk, ok := scalarNames[tok.Text]; ok {
			return p.b.Types.New(ast.TypeExpr{Kind: ast.TypeScalar, Span: tok.Span, Scalar: sk}), true
		}
		return p.b.Types.New(ast.TypeExpr{Kind: ast.TypeName, Span: tok.Span, Name: p.in.Intern(tok.Text)}), true

	default:
		p.err(diag.E0SynExpectType, "expected a type")
		return ast.NoTypeID, false
	}
}

// parseUintLiteral parses the digits of an IntLit lexeme, ignoring
// separators and base prefixes; overflow saturates rather than panicking
// since array lengths are validated against usize range by the checker.
func parseUintLiteral(text string) uint64 {
	base := uint64(10)
	i := 0
	if len(text) > 1 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			base, i = 16, 2
		case 'o', 'O':
			base, i = 8, 2
		case 'b', 'B':
			base, i = 2, 2
		}
	}
	var v uint64
	for ; i < len(text); i++ {
		c := text[i]
		if c == '_' {
			continue
		}
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			continue
		}
		if v > (^uint64(0)-d)/base {
			return ^uint64(0)
		}
		v = v*base + d
	}
	return v
}
