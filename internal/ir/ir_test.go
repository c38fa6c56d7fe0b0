package ir_test

import (
	"testing"

	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/core"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/ir"
	"github.com/geeknik/aegis-c-compiler/internal/parser"
	"github.com/geeknik/aegis-c-compiler/internal/sema"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// lowerString runs the full lex/parse/desugar/check/lower pipeline on src
// and fails the test if any phase before lowering produced a diagnostic —
// lowering only ever runs on a diagnostic-free Core unit, so a test
// fixture that doesn't satisfy that is a broken fixture, not a lowering
// bug.
func lowerString(t *testing.T, src string) *ir.Module {
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
	if bag.HasErrors() {
		t.Fatalf("unexpected checker diagnostics: %+v", bag.Items())
	}
	return ir.Lower(prog, types, in)
}

func countKind(f *ir.Func, kind ir.InstrKind) int {
	n := 0
	for _, b := range f.Blocks {
		for _, instr := range b.Instrs {
			if instr.Kind == kind {
				n++
			}
		}
	}
	return n
}

// TestZeroFillLoopLowersAllocAndDrop: a zero-fill loop over an owning
// buffer lowers to one alloc, bounds_narrow on every indexed store, and
// a drop when the owning binding's scope closes.
func TestZeroFillLoopLowersAllocAndDrop(t *testing.T) {
	src := `void f() { own<[u8]> buf = alloc(u8, 16); view<u8> v = buf.view(); for (usize i = 0; i < v.len; i = i + 1) { v[i] = 0; } }`
	mod := lowerString(t, src)
	if len(mod.Funcs) != 1 {
		t.Fatalf("expected 1 lowered function, got %d", len(mod.Funcs))
	}
	f := &mod.Funcs[0]
	if countKind(f, ir.InstrAlloc) != 1 {
		t.Fatalf("expected exactly 1 alloc instruction, got %d", countKind(f, ir.InstrAlloc))
	}
	if countKind(f, ir.InstrDrop) != 1 {
		t.Fatalf("expected exactly 1 drop instruction, got %d", countKind(f, ir.InstrDrop))
	}
	if countKind(f, ir.InstrBoundsNarrow) == 0 {
		t.Fatalf("expected at least 1 bounds_narrow instruction from the indexed store")
	}
	if countKind(f, ir.InstrStore) == 0 {
		t.Fatalf("expected at least 1 store instruction from v[i] = 0")
	}
}

// TestIfMergeInsertsPhi covers a binding reassigned differently on each
// arm of an if/else: the merge block must carry a phi for it.
func TestIfMergeInsertsPhi(t *testing.T) {
	src := `i32 f(bool cond) { i32 x = 0; if (cond) { x = 1; } else { x = 2; } return x; }`
	mod := lowerString(t, src)
	f := &mod.Funcs[0]
	if countKind(f, ir.InstrPhi) == 0 {
		t.Fatalf("expected at least 1 phi instruction at the if/else merge")
	}
}

// TestEveryBlockTerminated is a structural well-formedness check every
// lowered function must satisfy regardless of its source shape.
func TestEveryBlockTerminated(t *testing.T) {
	src := `void f() { own<u8> a = alloc(u8); mut u8* p = mut_borrow(a); release_borrow(p); }`
	mod := lowerString(t, src)
	for _, f := range mod.Funcs {
		for _, b := range f.Blocks {
			if !b.Terminated() {
				t.Fatalf("function %s block bb%d has no terminator", "f", b.ID)
			}
		}
	}
}

// TestMultiFunctionCallLowersCallee exercises a two-function program so
// Call lowering's FnRef-to-callee-name resolution gets coverage beyond a
// single function body.
func TestMultiFunctionCallLowersCallee(t *testing.T) {
	src := `i32 inc(i32 x) { return x + 1; } i32 f() { return inc(1); }`
	mod := lowerString(t, src)
	if len(mod.Funcs) != 2 {
		t.Fatalf("expected 2 lowered functions, got %d", len(mod.Funcs))
	}
	var calls int
	for _, f := range mod.Funcs {
		calls += countKind(&f, ir.InstrCall)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 call instruction across the module, got %d", calls)
	}
}

// TestStructFieldLowersGep covers Field access lowering through a
// declared struct, as distinct from the `.len` slice-length accessor.
func TestStructFieldLowersGep(t *testing.T) {
	src := `struct Point { i32 x; i32 y; } i32 f(Point p) { return p.y; }`
	mod := lowerString(t, src)
	f := &mod.Funcs[0]
	found := false
	for _, b := range f.Blocks {
		for _, instr := range b.Instrs {
			if instr.Kind == ir.InstrGep && instr.Gep.IsField && !instr.Gep.IsLen && instr.Gep.FieldIndex == 1 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected a gep with field index 1 for p.y")
	}
}
