// Package parser is a recursive-descent parser from a token.Token stream
// to an ast tree for Aegis C's surface grammar. Node IDs are assigned
// in source order as each construct is recognized, so identical input
// produces a byte-identical tree across runs.
package parser

import (
	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/lexer"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/token"
)

// Options configures one parse.
type Options struct {
	MaxErrors uint
}

// Result is the parsed file plus the diagnostics accumulated while
// building it.
type Result struct {
	File ast.FileID
	Bag  *diag.Bag
}

// Parser holds the state for parsing a single file.
type Parser struct {
	lx       *lexer.Lexer
	b        *ast.Builder
	in       *source.Interner
	file     ast.FileID
	bag      *diag.Bag
	opts     Options
	lastSpan source.Span
	buf      []token.Token // lookahead queue, front is buf[0]
}

// ParseFile parses one file's token stream into b, interning identifier
// text with in. Diagnostics go to bag.
func ParseFile(file *source.File, b *ast.Builder, in *source.Interner, bag *diag.Bag, opts Options) Result {
	lx := lexer.New(file, bag)
	p := &Parser{lx: lx, b: b, in: in, bag: bag, opts: opts}
	start := p.peek().Span
	p.file = b.Files.New(start)

	for !p.at(token.EOF) {
		id, ok := p.parseItem()
		if ok {
			p.b.PushItem(p.file, id)
		} else {
			p.resyncTop()
		}
	}
	end := p.lastSpan
	f := b.Files.Get(p.file)
	f.Span = start.Cover(end)
	return Result{File: p.file, Bag: bag}
}

func (p *Parser) fill(n int) {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.lx.Next())
	}
}

func (p *Parser) peek() token.Token {
	p.fill(0)
	return p.buf[0]
}

// peekAt returns the token n positions ahead of the current one (0 is peek()).
func (p *Parser) peekAt(n int) token.Token {
	p.fill(n)
	return p.buf[n]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	p.buf = p.buf[1:]
	if t.Kind != token.EOF && t.Kind != token.Invalid {
		p.lastSpan = t.Span
	}
	return t
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atAny(ks ...token.Kind) bool {
	cur := p.peek().Kind
	for _, k := range ks {
		if cur == k {
			return true
		}
	}
	return false
}

func (p *Parser) errSpan() source.Span {
	sp := p.peek().Span
	if sp.Start == sp.End && p.lastSpan.End > 0 && sp.Start == 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return sp
}

// err reports a plain syntax diagnostic without a suggestion or note,
// since E0xxx rejections are well-formed with neither (only semantic
// classes 1-6 require them; see diag.Diagnostic.WellFormed).
func (p *Parser) err(code diag.Code, msg string) {
	if p.bag == nil {
		return
	}
	if p.opts.MaxErrors > 0 && uint(p.bag.Len()) >= p.opts.MaxErrors {
		return
	}
	p.bag.Add(diag.NewError(code, p.errSpan(), msg))
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.errSpan()}, false
}

func (p *Parser) parseIdent() (source.StringID, bool) {
	if !p.at(token.Ident) {
		p.err(diag.E0SynExpectIdentifier, "expected an identifier")
		return source.NoStringID, false
	}
	tok := p.advance()
	return p.in.Intern(tok.Text), true
}

// resyncTop skips tokens until a plausible top-level restart point so one
// malformed item doesn't cascade into spurious diagnostics for the rest
// of the file.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) {
		if p.atAny(token.Semicolon) {
			p.advance()
			return
		}
		if p.atAny(token.KwVoid, token.KwStruct, token.KwEnum) {
			return
		}
		p.advance()
	}
}
