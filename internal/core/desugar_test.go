package core_test

import (
	"strings"
	"testing"

	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/core"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/parser"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

func desugarString(t *testing.T, src string) (*core.Program, *source.Interner, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddFile("test.agc", []byte(src))
	b := ast.NewBuilder(ast.Hints{})
	in := source.NewInterner()
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), b, in, bag, parser.Options{})
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected parse diagnostics: %+v", res.Bag.Items())
	}
	types := typesys.NewInterner()
	prog := core.Desugar(b, in, types, bag, res.File)
	return prog, in, bag
}

func TestDesugarForBecomesWhile(t *testing.T) {
	src := `void f() { own<[u8]> buf = alloc(u8, 16); view<u8> v = buf.view(); for (usize i = 0; i < v.len; i = i + 1) { v[i] = 0; } }`
	prog, _, bag := desugarString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected desugar diagnostics: %+v", bag.Items())
	}
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(prog.Items))
	}
	fn := prog.ItemArena.Get(prog.Items[0])
	body := prog.Stmts.Get(fn.Body)
	if body.Kind != core.StmtBlock {
		t.Fatalf("expected block body, got %v", body.Kind)
	}
	foundWhile := false
	for _, sid := range body.Stmts {
		if s := prog.Stmts.Get(sid); s.Kind == core.StmtWhile {
			foundWhile = true
		}
		if s := prog.Stmts.Get(sid); s.Kind == core.StmtBlock {
			for _, inner := range s.Stmts {
				if prog.Stmts.Get(inner).Kind == core.StmtWhile {
					foundWhile = true
				}
			}
		}
	}
	if !foundWhile {
		t.Fatalf("expected a desugared while loop somewhere in the body")
	}
}

func TestDesugarMintsDistinctBindings(t *testing.T) {
	src := `void f() { own<[u8]> a = alloc(u8, 4); own<[u8]> b = alloc(u8, 8); }`
	prog, _, bag := desugarString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	fn := prog.ItemArena.Get(prog.Items[0])
	body := prog.Stmts.Get(fn.Body)
	var bindings []int
	for _, sid := range body.Stmts {
		s := prog.Stmts.Get(sid)
		if s.Kind == core.StmtLet {
			bindings = append(bindings, int(s.LetBinding))
		}
	}
	if len(bindings) != 2 || bindings[0] == bindings[1] {
		t.Fatalf("expected two distinct binding ids, got %v", bindings)
	}
}

func TestDesugarBorrowIntrinsicsMintBorrowIDs(t *testing.T) {
	src := `void f() { own<[u8]> a = alloc(u8, 4); mut u8* p = mut_borrow(a); mut u8* q = mut_borrow(a); }`
	prog, _, bag := desugarString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if prog.Borrows.Len() < 3 { // reserved 0 + two mut_borrow sites
		t.Fatalf("expected at least 2 minted borrows, table len=%d", prog.Borrows.Len())
	}
}

func TestDesugarIsDeterministic(t *testing.T) {
	src := `void f() { own<[u8]> buf = alloc(u8, 16); view<u8> v = buf.view(); for (usize i = 0; i < v.len; i = i + 1) { v[i] = 0; } }`
	prog1, in1, _ := desugarString(t, src)
	prog2, in2, _ := desugarString(t, src)
	out1 := core.Print(prog1, in1)
	out2 := core.Print(prog2, in2)
	if out1 != out2 {
		t.Fatalf("desugar output not deterministic:\n%s\n---\n%s", out1, out2)
	}
	if !strings.Contains(out1, "(fn f") {
		t.Fatalf("expected printed core to contain the function, got: %s", out1)
	}
}
