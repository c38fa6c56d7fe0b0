// Package sema is the type and effect checker: it walks Aegis
// Core, assigns a semantic type to every expression, and enforces moves,
// borrow exclusivity, lifetimes, initialization, and provenance. A
// well-typed, diagnostic-free Core tree is the only input IR lowering
// ever runs on.
package sema

import (
	"strconv"

	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/core"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/ident"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// Checker holds the shared, read-only tables a check of one translation
// unit needs; State is threaded through explicitly as the per-path value
// that branches clone and merges join.
type Checker struct {
	prog  *core.Program
	types *typesys.Interner
	in    *source.Interner
	bag   *diag.Bag

	allocLen     map[ident.AllocID]uint64
	structFields map[source.StringID][]core.StructField
}

// Check walks every function in prog and reports diagnostics to bag. It
// never stops early: desugar and the checker both drain the whole unit
// to maximize diagnostic yield. This is the
// sequential entry point; internal/driver's concurrent checking path
// uses StructFields + NewChecker + CheckItem directly instead, one
// Checker per function body (the borrow ledger and init map are
// function-local, so nothing below needs locking).
func Check(prog *core.Program, types *typesys.Interner, in *source.Interner, bag *diag.Bag) {
	fields := StructFields(prog)
	for _, id := range prog.Items {
		it := prog.ItemArena.Get(id)
		if it == nil || it.Kind != core.ItemFn {
			continue
		}
		c := NewChecker(prog, types, in, fields)
		c.CheckItem(it, bag)
	}
}

// StructFields collects every declared struct's field list, keyed by
// its name, so Field-expression checking can resolve a field without
// re-scanning prog.Items on every lookup. Safe to build once and share
// read-only across concurrently-running Checkers, since no Checker
// ever writes to it.
func StructFields(prog *core.Program) map[source.StringID][]core.StructField {
	fields := make(map[source.StringID][]core.StructField)
	for _, id := range prog.Items {
		it := prog.ItemArena.Get(id)
		if it != nil && it.Kind == core.ItemStruct {
			fields[it.Name] = it.Fields
		}
	}
	return fields
}

// NewChecker builds a Checker for one function body. structFields is
// shared, read-only state a caller computes once via StructFields;
// allocLen is always a fresh map, since two Checkers running
// concurrently on different functions must never share one.
func NewChecker(prog *core.Program, types *typesys.Interner, in *source.Interner, structFields map[source.StringID][]core.StructField) *Checker {
	return &Checker{
		prog: prog, types: types, in: in,
		allocLen:     make(map[ident.AllocID]uint64),
		structFields: structFields,
	}
}

// CheckItem checks one top-level function, reporting to bag. Each call
// should use a Checker returned by its own NewChecker call — a Checker
// is not safe to reuse across concurrent CheckItem calls because it
// carries its bag as instance state for the duration of the call.
func (c *Checker) CheckItem(it *core.Item, bag *diag.Bag) {
	c.bag = bag
	c.checkFn(it)
}

func (c *Checker) checkFn(it *core.Item) {
	st := newState()
	for _, p := range it.Params {
		info, _ := c.prog.Bindings.Get(p)
		bs := bindingState{Init: Init}
		if info.Type.IsValid() {
			if t, ok := c.types.Lookup(info.Type); ok && (t.Kind == typesys.KindOwn || t.Kind == typesys.KindOwnSlice) {
				// A parameter typed own<…> owns fresh storage from the
				// caller's perspective; model it as its own allocation so
				// drop-at-scope-exit and move tracking apply uniformly.
				bs.Alloc = ident.StaticAllocID
			}
		}
		st.env[p] = bs
	}
	c.checkStmt(st, it.Body)
}

// report builds a well-formed diagnostic: a primary span/message, the
// related notes and the single suggestion every class 1-6 diagnostic
// requires (diag.Diagnostic.WellFormed).
func (c *Checker) report(code diag.Code, primary source.Span, msg string, notes []diag.Note, sug diag.Suggestion) {
	d := diag.NewError(code, primary, msg)
	for _, n := range notes {
		d = d.WithNote(n.Span, n.Msg)
	}
	d = d.WithSuggestion(sug)
	c.bag.Add(d)
}

// checkStmt checks one statement against st, mutating it in place to
// reflect the statement's effect on the Environment and borrow ledger.
func (c *Checker) checkStmt(st *state, id core.StmtID) {
	s := c.prog.Stmts.Get(id)
	if s == nil {
		return
	}
	switch s.Kind {
	case core.StmtBlock:
		c.checkBlock(st, s)

	case core.StmtUnsafe:
		st.unsafeDepth++
		c.checkBlock(st, s)
		st.unsafeDepth--

	case core.StmtLet:
		bs := bindingState{Init: Uninit}
		if s.LetInit.IsValid() {
			ty, origin := c.checkExpr(st, s.LetInit)
			c.consume(st, s.LetInit, ty, origin)
			bs.Init = Init
			if src, ok := st.env[origin]; origin.IsValid() && ok {
				bs.Alloc = src.Alloc
				bs.Borrow = src.Borrow
			} else if alloc := c.directAllocOf(st, s.LetInit); alloc.IsValid() {
				bs.Alloc = alloc
			} else if alloc, borrow, ok := c.directBorrowOf(st, s.LetInit); ok {
				bs.Alloc = alloc
				bs.Borrow = borrow
			} else if alloc, ok := c.allocOfPlace(st, s.LetInit); ok {
				bs.Alloc = alloc
			}
		}
		st.env[s.LetBinding] = bs

	case core.StmtExprStmt:
		ty, origin := c.checkExpr(st, s.ExprValue)
		c.consume(st, s.ExprValue, ty, origin)

	case core.StmtIf:
		c.checkExpr(st, s.Cond)
		thenSt := st.clone()
		c.checkStmt(thenSt, s.Then)
		elseSt := st.clone()
		if s.Else.IsValid() {
			c.checkStmt(elseSt, s.Else)
		}
		*st = *join(thenSt, elseSt)

	case core.StmtWhile:
		c.bindInductionVariable(st, s.Cond)
		c.checkExpr(st, s.Cond)
		bodySt := st.clone()
		c.checkStmt(bodySt, s.Body)
		*st = *join(st.clone(), bodySt)

	case core.StmtReturn:
		if s.ExprValue.IsValid() {
			ty, origin := c.checkExpr(st, s.ExprValue)
			c.consume(st, s.ExprValue, ty, origin)
			c.checkNoDanglingReturn(st, s.ExprValue, origin)
		}

	case core.StmtBreak, core.StmtContinue, core.StmtErrorStmt:
		// No environment effect.
	}
}

// checkBlock checks a block's statements in order, then applies drop
// order: bindings declared directly in this block are
// dropped in reverse declaration order at its close.
func (c *Checker) checkBlock(st *state, s *core.Stmt) {
	var declared []ident.BindingID
	for _, child := range s.Stmts {
		if cs := c.prog.Stmts.Get(child); cs != nil && cs.Kind == core.StmtLet {
			declared = append(declared, cs.LetBinding)
		}
		c.checkStmt(st, child)
	}
	for i := len(declared) - 1; i >= 0; i-- {
		c.dropBinding(st, declared[i])
	}
}

func (c *Checker) dropBinding(st *state, id ident.BindingID) {
	bs, ok := st.env[id]
	if !ok || bs.Moved || bs.Init != Init {
		delete(st.env, id)
		return
	}
	if bs.Borrow.IsValid() {
		// This binding is itself a borrow pointer, not an owner: its
		// borrow's lifetime ends at this scope's close, so
		// it is released from the ledger rather than checked against it.
		if ledger := st.ledger[bs.Alloc]; len(ledger) > 0 {
			out := ledger[:0]
			for _, b := range ledger {
				if b != bs.Borrow {
					out = append(out, b)
				}
			}
			st.ledger[bs.Alloc] = out
		}
	} else if bs.Alloc.IsValid() {
		if borrows := st.ledger[bs.Alloc]; len(borrows) > 0 {
			info, _ := c.prog.Bindings.Get(id)
			c.report(diag.E1DropWhileBorrowed, info.Span,
				"cannot drop a value while it is still borrowed",
				[]diag.Note{{Span: info.Span, Msg: "owner goes out of scope here"}},
				diag.SuggestNarrowBorrowScope)
		}
	}
	delete(st.env, id)
}

// consume applies rule 1 (moves): reading a non-Copy value out of a
// place that resolved directly to a binding (origin) transitions that
// binding to Moved.
func (c *Checker) consume(st *state, exprID core.ExprID, ty typesys.TypeID, origin ident.BindingID) {
	if !origin.IsValid() {
		return
	}
	if isCopy(c.types, ty) {
		return
	}
	bs := st.env[origin]
	e := c.prog.Exprs.Get(exprID)
	bs.Moved = true
	if e != nil {
		bs.MovedAt = e.Span
	}
	st.env[origin] = bs
}

func (c *Checker) directAllocOf(st *state, exprID core.ExprID) ident.AllocID {
	e := c.prog.Exprs.Get(exprID)
	if e == nil {
		return ident.NoAllocID
	}
	if e.Kind == core.Alloc {
		return e.Alloc
	}
	return ident.NoAllocID
}

// directBorrowOf reports the allocation and borrow id a BorrowShared or
// BorrowMut expression directly produces, so the binding it initializes
// can carry that provenance forward for later deref/release/drop checks.
func (c *Checker) directBorrowOf(st *state, exprID core.ExprID) (ident.AllocID, ident.BorrowID, bool) {
	e := c.prog.Exprs.Get(exprID)
	if e == nil || (e.Kind != core.BorrowShared && e.Kind != core.BorrowMut) {
		return ident.NoAllocID, ident.NoBorrowID, false
	}
	alloc, ok := c.allocOfPlace(st, e.Operand)
	if !ok {
		if operand := c.prog.Exprs.Get(e.Operand); operand != nil && operand.Kind == core.Var {
			if bs, ok2 := st.env[operand.Binding]; ok2 {
				alloc = bs.Alloc
			}
		}
	}
	return alloc, e.Borrow, true
}

// checkNoDanglingReturn rejects returning a pointer whose lifetime is
// tied to this function's own scopes.
func (c *Checker) checkNoDanglingReturn(st *state, exprID core.ExprID, origin ident.BindingID) {
	if !origin.IsValid() {
		return
	}
	bs, ok := st.env[origin]
	if !ok || !bs.Borrow.IsValid() {
		return
	}
	e := c.prog.Exprs.Get(exprID)
	info, _ := c.prog.Borrows.Get(bs.Borrow)
	c.report(diag.E3ReturnPointerToLocal, e.Span,
		"returning a pointer borrowed from a local binding",
		[]diag.Note{{Span: info.Span, Msg: "borrow created here"}},
		diag.SuggestIntroduceExplicitMove)
}

// bindInductionVariable recognizes the `i < X.len` loop-guard shape and
// records that i is bounded by X's allocation, so
// Index(X, i) inside the loop body can discharge its bounds obligation.
func (c *Checker) bindInductionVariable(st *state, condID core.ExprID) {
	cond := c.prog.Exprs.Get(condID)
	if cond == nil || cond.Kind != core.BinOp || cond.BinOp != ast.BinLt {
		return
	}
	lhs := c.prog.Exprs.Get(cond.Lhs)
	rhs := c.prog.Exprs.Get(cond.Rhs)
	if lhs == nil || rhs == nil || lhs.Kind != core.Var || rhs.Kind != core.Field {
		return
	}
	if c.in.MustLookup(rhs.FieldName) != "len" {
		return
	}
	if alloc, ok := c.allocOfPlace(st, rhs.Base); ok {
		st.inductionBound[lhs.Binding] = alloc
	}
}

// allocOfPlace resolves the allocation a place expression traces to,
// following the `.view()` accessor on an own<[T]> binding.
func (c *Checker) allocOfPlace(st *state, exprID core.ExprID) (ident.AllocID, bool) {
	e := c.prog.Exprs.Get(exprID)
	if e == nil {
		return ident.NoAllocID, false
	}
	switch e.Kind {
	case core.Var:
		bs, ok := st.env[e.Binding]
		if !ok || !bs.Alloc.IsValid() {
			return ident.NoAllocID, false
		}
		return bs.Alloc, true
	case core.Move:
		// Ownership transfers through a move; the moved-to binding traces
		// to the same allocation the moved-from binding did.
		return c.allocOfPlace(st, e.Operand)
	case core.Call:
		callee := c.prog.Exprs.Get(e.Callee)
		if callee == nil || callee.Kind != core.Field {
			return ident.NoAllocID, false
		}
		if c.in.MustLookup(callee.FieldName) != "view" {
			return ident.NoAllocID, false
		}
		return c.allocOfPlace(st, callee.Base)
	default:
		return ident.NoAllocID, false
	}
}

func parseLiteralUint(text string) (uint64, bool) {
	n, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
