// Package lexer tokenizes Aegis C source into a token.Token stream,
// reporting E0Lex* diagnostics for malformed input without aborting the
// scan; the pipeline keeps going after a lexical error.
package lexer

import (
	"golang.org/x/text/unicode/norm"

	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/token"
)

// Lexer scans one file's worth of tokens on demand.
type Lexer struct {
	file   *source.File
	cursor Cursor
	bag    *diag.Bag
	look   *token.Token
}

// New returns a lexer over file, reporting diagnostics into bag (which may
// be nil, in which case lexical errors are swallowed).
func New(file *source.File, bag *diag.Bag) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), bag: bag}
}

// Next returns the next significant token. Past EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		t := *lx.look
		lx.look = nil
		return t
	}
	lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All drains the lexer into a slice, always ending with one EOF token.
func All(file *source.File, bag *diag.Bag) []token.Token {
	lx := New(file, bag)
	var out []token.Token
	for {
		t := lx.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// skipTrivia consumes whitespace and comments; the v0 front end has no
// formatter pass, so this trivia is discarded rather than attached to
// the following token.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isSpace(b) {
			lx.cursor.Bump()
			continue
		}
		if b == '/' {
			b0, b1, ok := lx.cursor.Peek2()
			if ok && b0 == '/' && b1 == '/' {
				for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
					lx.cursor.Bump()
				}
				continue
			}
			if ok && b0 == '/' && b1 == '*' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				for !lx.cursor.EOF() {
					if b2, b3, ok2 := lx.cursor.Peek2(); ok2 && b2 == '*' && b3 == '/' {
						lx.cursor.Bump()
						lx.cursor.Bump()
						break
					}
					lx.cursor.Bump()
				}
				continue
			}
		}
		break
	}
}

func (lx *Lexer) report(d diag.Diagnostic) {
	if lx.bag != nil {
		lx.bag.Add(d)
	}
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	raw := string(lx.file.Content[sp.Start:sp.End])

	if k, ok := token.LookupKeyword(raw); ok {
		return token.Token{Kind: k, Span: sp, Text: raw}
	}
	// Identifiers are NFC-normalized before they reach the symbol table so
	// two visually identical spellings in different Unicode forms resolve
	// to the same binding.
	text := norm.NFC.String(raw)
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanNumber scans the unsigned-integer literal grammar used by Aegis C's
// scalar types: decimal, 0x, 0o, 0b, with '_' digit separators. There are
// no floating-point literals; float/double are rejected-construct keywords
// handled by the parser, not the lexer.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		switch lx.cursor.Peek() {
		case 'x', 'X':
			lx.cursor.Bump()
			for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			return lx.emitNumber(start)
		case 'o', 'O':
			lx.cursor.Bump()
			for (lx.cursor.Peek() >= '0' && lx.cursor.Peek() <= '7') || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			return lx.emitNumber(start)
		case 'b', 'B':
			lx.cursor.Bump()
			for lx.cursor.Peek() == '0' || lx.cursor.Peek() == '1' || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			return lx.emitNumber(start)
		}
	}
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' {
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.NewError(diag.E0LexBadNumber, sp,
			"floating-point literals are not accepted; Aegis C v0 has no floating-point scalar type"))
	}
	return lx.emitNumber(start)
}

func (lx *Lexer) emitNumber(start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		if b == '\\' {
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
			continue
		}
		if b == '\n' {
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.NewError(diag.E0LexUnterminatedString, sp, "unterminated string literal"))
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanOperatorOrPunct scans punctuation and operators, longest match first.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	switch {
	case lx.cursor.try2('-', '>'):
		return emit(token.Arrow)
	case lx.cursor.try2('&', '&'):
		return emit(token.AmpAmp)
	case lx.cursor.try2('|', '|'):
		return emit(token.PipePipe)
	case lx.cursor.try2('=', '='):
		return emit(token.EqEq)
	case lx.cursor.try2('!', '='):
		return emit(token.BangEq)
	case lx.cursor.try2('<', '='):
		return emit(token.LtEq)
	case lx.cursor.try2('>', '='):
		return emit(token.GtEq)
	case lx.cursor.try2('<', '<'):
		return emit(token.Shl)
	case lx.cursor.try2('>', '>'):
		return emit(token.Shr)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '%':
		return emit(token.Percent)
	case '=':
		return emit(token.Assign)
	case '!':
		return emit(token.Bang)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case '&':
		return emit(token.Amp)
	case '|':
		return emit(token.Pipe)
	case '^':
		return emit(token.Caret)
	case ':':
		return emit(token.Colon)
	case ';':
		return emit(token.Semicolon)
	case ',':
		return emit(token.Comma)
	case '.':
		return emit(token.Dot)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	default:
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.NewError(diag.E0LexUnknownChar, sp, "unknown character"))
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
}
