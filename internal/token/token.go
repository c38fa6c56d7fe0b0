package token

import "github.com/geeknik/aegis-c-compiler/internal/source"

// Token is a single lexical token: its kind, source span, and the
// original (NFC-normalized for identifiers) text.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is an integer or string literal.
func (t Token) IsLiteral() bool {
	return t.Kind == IntLit || t.Kind == StringLit || t.Kind == KwTrue || t.Kind == KwFalse
}
