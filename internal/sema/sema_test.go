package sema_test

import (
	"testing"

	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/core"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/parser"
	"github.com/geeknik/aegis-c-compiler/internal/sema"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// checkString runs the full front-to-checker pipeline on src and returns
// the checker's diagnostics. Parse diagnostics are folded in so a
// malformed literal test input fails loudly instead of silently checking
// nothing.
func checkString(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.AddFile("scenario.agc", []byte(src))
	b := ast.NewBuilder(ast.Hints{})
	in := source.NewInterner()
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(fid), b, in, bag, parser.Options{})
	if bag.HasErrors() {
		t.Fatalf("unexpected parse diagnostics: %+v", bag.Items())
	}
	types := typesys.NewInterner()
	prog := core.Desugar(b, in, types, bag, res.File)
	if bag.HasErrors() {
		t.Fatalf("unexpected desugar diagnostics: %+v", bag.Items())
	}
	sema.Check(prog, types, in, bag)
	return bag.Items()
}

func classOf(t *testing.T, d diag.Diagnostic) int {
	t.Helper()
	return d.Code.Class()
}

// TestAcceptZeroFillLoop: a bounds-checked induction-variable loop that
// zeroes a whole allocation must be diagnostic-free.
func TestAcceptZeroFillLoop(t *testing.T) {
	src := `void f() { own<[u8]> buf = alloc(u8, 16); view<u8> v = buf.view(); for (usize i = 0; i < v.len; i = i + 1) { v[i] = 0; } }`
	diags := checkString(t, src)
	if len(diags) != 0 {
		t.Fatalf("expected 0 diagnostics, got %+v", diags)
	}
}

// TestRejectUseAfterMove: a.view() after move(a) must be exactly one
// E1xxx diagnostic.
func TestRejectUseAfterMove(t *testing.T) {
	src := `void f() { own<[u8]> a = alloc(u8, 4); own<[u8]> b = move(a); view<u8> v = a.view(); }`
	diags := checkString(t, src)
	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %+v", diags)
	}
	if classOf(t, diags[0]) != 1 {
		t.Fatalf("expected an E1xxx diagnostic, got %s", diags[0].Code.ID())
	}
}

// TestRejectAliasedMutableBorrow: two mut_borrow(a) calls must be
// exactly one E2xxx diagnostic.
func TestRejectAliasedMutableBorrow(t *testing.T) {
	src := `void f() { own<[u8]> a = alloc(u8, 4); mut u8* p = mut_borrow(a); mut u8* q = mut_borrow(a); }`
	diags := checkString(t, src)
	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %+v", diags)
	}
	if classOf(t, diags[0]) != 2 {
		t.Fatalf("expected an E2xxx diagnostic, got %s", diags[0].Code.ID())
	}
}

// TestRejectOutOfBoundsConstantIndex: v[5] on a 2-element allocation
// must be exactly one E4xxx diagnostic.
func TestRejectOutOfBoundsConstantIndex(t *testing.T) {
	src := `void f() { own<[u8]> a = alloc(u8, 2); view<u8> v = a.view(); u8 x = v[5]; }`
	diags := checkString(t, src)
	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %+v", diags)
	}
	if classOf(t, diags[0]) != 4 {
		t.Fatalf("expected an E4xxx diagnostic, got %s", diags[0].Code.ID())
	}
}

// TestRejectUninitializedRead: reading x before it is written must be
// exactly one E5xxx diagnostic.
func TestRejectUninitializedRead(t *testing.T) {
	src := `void f() { u32 x; u32 y = x + 1; }`
	diags := checkString(t, src)
	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %+v", diags)
	}
	if classOf(t, diags[0]) != 5 {
		t.Fatalf("expected an E5xxx diagnostic, got %s", diags[0].Code.ID())
	}
}

// TestRejectRawDerefOutsideUnsafe: dereferencing a raw pointer outside an
// unsafe block is rejected with E6xxx even when no other obligation applies.
func TestRejectRawDerefOutsideUnsafe(t *testing.T) {
	src := `void f(raw u8* p) { u8 x = *p; }`
	diags := checkString(t, src)
	found := false
	for _, d := range diags {
		if d.Code == diag.E6RawDerefOutsideUnsafe {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected E6RawDerefOutsideUnsafe, got %+v", diags)
	}
}

// TestAcceptRawDerefInsideUnsafe: the same dereference inside an unsafe
// block must not raise E6RawDerefOutsideUnsafe (it may still be rejected
// on provenance grounds, since v0 never lets user code mint alloc_cap).
func TestAcceptRawDerefInsideUnsafe(t *testing.T) {
	src := `void f(raw u8* p) { unsafe { u8 x = *p; } }`
	diags := checkString(t, src)
	for _, d := range diags {
		if d.Code == diag.E6RawDerefOutsideUnsafe {
			t.Fatalf("did not expect E6RawDerefOutsideUnsafe inside unsafe, got %+v", diags)
		}
	}
}

// TestAcceptScopedBorrowThenMutate: a shared borrow that ends at its
// enclosing block's close must not conflict with a later mutable borrow
// of the same allocation.
func TestAcceptScopedBorrowThenMutate(t *testing.T) {
	src := `void f() { own<[u8]> a = alloc(u8, 4); { u8* p = borrow(a); } mut u8* q = mut_borrow(a); }`
	diags := checkString(t, src)
	if len(diags) != 0 {
		t.Fatalf("expected 0 diagnostics, got %+v", diags)
	}
}

// TestRejectMoveOfBorrowedAllocation: moving an owning binding out from
// under a still-live borrow of its allocation must be exactly one E1xxx
// diagnostic, and the borrow's ledger entry must not be silently retired
// by the move.
func TestRejectMoveOfBorrowedAllocation(t *testing.T) {
	src := `void f() { own<[u8]> a = alloc(u8, 4); u8* p = borrow(a); own<[u8]> b = move(a); }`
	diags := checkString(t, src)
	found := false
	for _, d := range diags {
		if d.Code == diag.E1MoveOfBorrowed {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected E1MoveOfBorrowed, got %+v", diags)
	}
}
