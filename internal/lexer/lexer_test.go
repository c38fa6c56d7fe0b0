package lexer_test

import (
	"testing"

	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/lexer"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/token"
)

func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddFile("test.agc", []byte(input))
	bag := diag.NewBag(0)
	return lexer.New(fs.Get(id), bag), bag
}

func expectKinds(t *testing.T, input string, want []token.Kind) {
	t.Helper()
	lx, _ := makeTestLexer(input)
	var got []token.Kind
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		got = append(got, tok.Kind)
	}
	if len(got) != len(want) {
		t.Fatalf("%q: got %d tokens %v, want %d %v", input, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d: got %v, want %v", input, i, got[i], want[i])
		}
	}
}

func TestKeywordsAndPunct(t *testing.T) {
	expectKinds(t, "let x = 1;", []token.Kind{
		token.KwLet, token.Ident, token.Assign, token.IntLit, token.Semicolon,
	})
	expectKinds(t, "own<T>", []token.Kind{token.KwOwn, token.Lt, token.Ident, token.Gt})
	expectKinds(t, "mut T* p", []token.Kind{token.KwMut, token.Ident, token.Star, token.Ident})
}

func TestNumberBases(t *testing.T) {
	for _, in := range []string{"0", "42", "0x2A", "0o52", "0b101010", "1_000"} {
		lx, bag := makeTestLexer(in)
		tok := lx.Next()
		if tok.Kind != token.IntLit {
			t.Fatalf("%q: got kind %v, want IntLit", in, tok.Kind)
		}
		if bag.HasErrors() {
			t.Fatalf("%q: unexpected errors", in)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	lx, bag := makeTestLexer(`"hello`)
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("got kind %v, want Invalid", tok.Kind)
	}
	if !bag.HasErrors() {
		t.Fatal("expected E0LexUnterminatedString to be reported")
	}
}

func TestUnknownChar(t *testing.T) {
	lx, bag := makeTestLexer("$")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("got kind %v, want Invalid", tok.Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.E0LexUnknownChar {
		t.Fatalf("expected exactly one E0LexUnknownChar diagnostic, got %v", bag.Items())
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	expectKinds(t, "// line comment\nlet x = 1; /* block */ let y = 2;", []token.Kind{
		token.KwLet, token.Ident, token.Assign, token.IntLit, token.Semicolon,
		token.KwLet, token.Ident, token.Assign, token.IntLit, token.Semicolon,
	})
}

func TestFloatRejected(t *testing.T) {
	lx, bag := makeTestLexer("1.5")
	lx.Next()
	if bag.Len() == 0 || bag.Items()[0].Code != diag.E0LexBadNumber {
		t.Fatalf("expected E0LexBadNumber for a floating literal, got %v", bag.Items())
	}
}

func TestAll(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddFile("test.agc", []byte("let x = 1;"))
	toks := lexer.All(fs.Get(id), nil)
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatal("All must end with an EOF token")
	}
}
