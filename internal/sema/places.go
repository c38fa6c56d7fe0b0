package sema

import (
	"github.com/geeknik/aegis-c-compiler/internal/core"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/ident"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// checkCall checks a call's callee and arguments, consuming each non-Copy
// argument per rule 1, and resolves the call's result type: a FnRef
// callee resolves against the function's declared Result, a `.view()`
// accessor callee on an own<[T]> receiver resolves to view<T> here, any
// other field callee only has its receiver checked, and anything else is
// an unknown-shaped call whose result type cannot be determined.
func (c *Checker) checkCall(st *state, e *core.Expr) (typesys.TypeID, ident.BindingID) {
	callee := c.prog.Exprs.Get(e.Callee)
	var resultTy typesys.TypeID = typesys.NoTypeID
	if callee != nil && callee.Kind == core.FnRef {
		if fnID, ok := c.prog.Functions[callee.FnName]; ok {
			if fn := c.prog.ItemArena.Get(fnID); fn != nil {
				resultTy = fn.Result
			}
		}
	} else if callee != nil && callee.Kind == core.Field {
		switch c.in.MustLookup(callee.FieldName) {
		case "view":
			baseTy, _ := c.checkExpr(st, callee.Base)
			if t, ok := c.types.Lookup(baseTy); ok && t.Kind == typesys.KindOwnSlice {
				resultTy = c.types.View(t.Elem)
			}
		default:
			c.checkExpr(st, callee.Base)
		}
	} else if callee != nil {
		c.checkExpr(st, e.Callee)
	}
	for _, argID := range e.Args {
		ty, origin := c.checkExpr(st, argID)
		c.consume(st, argID, ty, origin)
	}
	return resultTy, ident.NoBindingID
}

// checkDeref enforces rule 4's proof obligations for a dereference of
// e.Operand: liveness (the borrow's lifetime still encloses this use) and
// provenance (the pointer traces to a known allocation), and reports a
// raw pointer dereference outside `unsafe {}`. Mutability is not checked:
// a store through a shared pointer is not rejected. Bounds is Index's
// obligation, not Deref's, and is handled there.
func (c *Checker) checkDeref(st *state, e *core.Expr, origin ident.BindingID) {
	if !origin.IsValid() {
		return
	}
	if info, ok := c.prog.Bindings.Get(origin); ok {
		if t, ok := c.types.Lookup(info.Type); ok && t.Kind == typesys.KindPtrRaw && st.unsafeDepth == 0 {
			c.report(diag.E6RawDerefOutsideUnsafe, e.Span,
				"raw pointer dereference outside an unsafe block",
				[]diag.Note{{Span: info.Span, Msg: "raw pointer declared here"}},
				diag.SuggestConvertToView)
		}
	}
	bs, ok := st.env[origin]
	if !ok || !bs.Borrow.IsValid() {
		if !ok || !bs.Alloc.IsValid() {
			c.report(diag.E4UntraceableProvenance, e.Span,
				"dereferenced pointer is not traceable to an allocation",
				[]diag.Note{{Span: e.Span, Msg: "no borrow or allocation backs this pointer"}},
				diag.SuggestConvertToView)
		}
		return
	}
	info, _ := c.prog.Borrows.Get(bs.Borrow)
	live := false
	for _, b := range st.ledger[bs.Alloc] {
		if b == bs.Borrow {
			live = true
			break
		}
	}
	if !live {
		c.report(diag.E3DerefAfterLifetimeEnd, e.Span,
			"dereference after the borrow's lifetime has ended",
			[]diag.Note{{Span: info.Span, Msg: "borrow was released or its scope closed here"}},
			diag.SuggestNarrowBorrowScope)
	}
}

// checkIndex discharges Index(Base,Index)'s bounds obligation: either
// the subscript is a literal provably less than the
// allocation's recorded length (recordAllocLen), or it is a binding
// bindInductionVariable already proved is bounded by that same
// allocation. Anything else cannot be proven in v0 and is rejected.
func (c *Checker) checkIndex(st *state, e *core.Expr) (typesys.TypeID, ident.BindingID) {
	baseTy, _ := c.checkExpr(st, e.Base)
	idxTy, idxOrigin := c.checkExpr(st, e.Index)
	c.consume(st, e.Index, idxTy, idxOrigin)

	alloc, hasAlloc := c.allocOfPlace(st, e.Base)
	proven := false
	if hasAlloc {
		if idxExpr := c.prog.Exprs.Get(e.Index); idxExpr != nil && idxExpr.Kind == core.Literal && idxExpr.LitKind == core.LitInt {
			if n, ok := parseLiteralUint(idxExpr.Text); ok {
				if length, ok := c.allocLen[alloc]; ok && n < length {
					proven = true
				}
			}
		} else if idxExpr != nil && idxExpr.Kind == core.Var {
			if bound, ok := st.inductionBound[idxExpr.Binding]; ok && bound == alloc {
				proven = true
			}
		}
	}
	if !proven {
		c.report(diag.E4IndexNotProvablyInRange, e.Span,
			"cannot prove this index is within bounds",
			[]diag.Note{{Span: e.Span, Msg: "neither a literal bound nor a proven induction variable covers this subscript"}},
			diag.SuggestRewriteAsIndexedSlice)
	}
	if t, ok := c.types.Lookup(baseTy); ok {
		return t.Elem, ident.NoBindingID
	}
	return typesys.NoTypeID, ident.NoBindingID
}

// checkField resolves a struct field access's type from the struct's
// registered field list, with the builtin `.len` accessor on an
// own<[T]>/view<T> receiver special-cased to usize (`.view()` itself is
// a call and is handled by checkCall).
func (c *Checker) checkField(st *state, e *core.Expr) (typesys.TypeID, ident.BindingID) {
	baseTy, _ := c.checkExpr(st, e.Base)
	name := c.in.MustLookup(e.FieldName)
	if t, ok := c.types.Lookup(baseTy); ok {
		switch t.Kind {
		case typesys.KindOwnSlice, typesys.KindView, typesys.KindArray:
			if name == "len" {
				return c.types.Builtins.Usize, ident.NoBindingID
			}
		case typesys.KindStruct:
			if fields, ok := c.structFields[t.Name]; ok {
				for _, f := range fields {
					if c.in.MustLookup(f.Name) == name {
						return f.Type, ident.NoBindingID
					}
				}
			}
		}
	}
	return typesys.NoTypeID, ident.NoBindingID
}

// checkAssignPlace validates an assignment's target: the place must be a
// binding (not a bare literal/temporary), must not be currently borrowed
// (rule 2/3's mutation-while-borrowed case), and — when it resolves
// through a dereference — that dereference's liveness and provenance
// checks apply (its mutability is not checked).
func (c *Checker) checkAssignPlace(st *state, placeID core.ExprID, valueTy typesys.TypeID) {
	place := c.prog.Exprs.Get(placeID)
	if place == nil {
		return
	}
	switch place.Kind {
	case core.Var:
		bs, ok := st.env[place.Binding]
		if ok && bs.Alloc.IsValid() && len(st.ledger[bs.Alloc]) > 0 {
			c.report(diag.E2MutationWhileBorrowed, place.Span,
				"cannot assign to a value while it is borrowed",
				[]diag.Note{{Span: place.Span, Msg: "an active borrow references this binding"}},
				diag.SuggestNarrowBorrowScope)
		}
		info, _ := c.prog.Bindings.Get(place.Binding)
		if !info.Mutable && ok && bs.Init == Init {
			c.report(diag.E2MutBorrowOfImmutable, place.Span,
				"cannot assign to an immutable binding",
				[]diag.Note{{Span: info.Span, Msg: "declared without mut here"}},
				diag.SuggestIntroduceExplicitMove)
		}
		bs.Init = Init
		st.env[place.Binding] = bs
	case core.Deref:
		_, origin := c.checkExpr(st, place.Operand)
		c.checkDeref(st, place, origin)
	case core.Index, core.Field:
		c.checkExpr(st, placeID)
	default:
		c.report(diag.E2NonAddressablePlace, place.Span,
			"expression is not a valid assignment target",
			[]diag.Note{{Span: place.Span, Msg: "this form has no addressable storage"}},
			diag.SuggestIntroduceExplicitMove)
	}
}

// recordAllocLen records an Alloc node's compile-time-literal element
// count, when it has one, so checkIndex can discharge a literal
// subscript's bounds obligation against it.
func (c *Checker) recordAllocLen(e *core.Expr) {
	if !e.AllocCount.IsValid() {
		return
	}
	countExpr := c.prog.Exprs.Get(e.AllocCount)
	if countExpr == nil || countExpr.Kind != core.Literal || countExpr.LitKind != core.LitInt {
		return
	}
	if n, ok := parseLiteralUint(countExpr.Text); ok {
		c.allocLen[e.Alloc] = n
	}
}

// checkBorrow implements rules 2/3: a shared borrow requires no active
// Unique borrow of the same allocation; a mutable borrow requires no
// active borrow at all. On success the new borrow is appended to the
// ledger and threaded onto the resulting pointer binding's state so a
// later deref/release can find it.
func (c *Checker) checkBorrow(st *state, e *core.Expr, kind ident.BorrowKind) (typesys.TypeID, ident.BindingID) {
	_, origin := c.checkExpr(st, e.Operand)
	alloc, _ := c.allocOfPlace(st, e.Operand)
	if !alloc.IsValid() && origin.IsValid() {
		if bs, ok := st.env[origin]; ok {
			alloc = bs.Alloc
		}
	}

	// The owner's own mutability (rule 3's "x declared mutable") only
	// constrains ownership-level storage, and every alloc() result is
	// owned storage capable of a Unique borrow regardless of the LetMut
	// flag, which v0's C-style declaration grammar has no syntax to set
	// for own<…> bindings in the first place; LetMut instead gates direct
	// reassignment through checkAssignPlace.
	existing := st.ledger[alloc]
	if kind == ident.BorrowUnique {
		if len(existing) > 0 {
			prior, _ := c.prog.Borrows.Get(existing[len(existing)-1])
			c.report(diag.E2ConflictingUniqueBorrow, e.Span,
				"cannot take a mutable borrow while another borrow is active",
				[]diag.Note{{Span: prior.Span, Msg: "conflicting borrow taken here"}},
				diag.SuggestNarrowBorrowScope)
		}
	} else {
		for _, b := range existing {
			info, _ := c.prog.Borrows.Get(b)
			if info.Kind == ident.BorrowUnique {
				c.report(diag.E2ConflictingSharedBorrow, e.Span,
					"cannot take a shared borrow while a mutable borrow is active",
					[]diag.Note{{Span: info.Span, Msg: "mutable borrow taken here"}},
					diag.SuggestNarrowBorrowScope)
				break
			}
		}
	}
	if alloc.IsValid() {
		st.ledger[alloc] = append(st.ledger[alloc], e.Borrow)
	}

	elemTy := typesys.NoTypeID
	if origin.IsValid() {
		if info, ok := c.prog.Bindings.Get(origin); ok {
			if t, ok := c.types.Lookup(info.Type); ok {
				switch t.Kind {
				case typesys.KindOwn, typesys.KindOwnSlice:
					elemTy = t.Elem
				default:
					elemTy = info.Type
				}
			}
		}
	}
	var resultTy typesys.TypeID
	if kind == ident.BorrowUnique {
		resultTy = c.types.PtrUnique(elemTy)
	} else {
		resultTy = c.types.PtrShared(elemTy)
	}
	return resultTy, ident.NoBindingID
}

// checkReleaseBorrow resolves the operand's currently live borrow and
// removes it from the ledger (rule 9's explicit early-release form);
// releasing a place with no active borrow is an error.
func (c *Checker) checkReleaseBorrow(st *state, e *core.Expr) {
	_, origin := c.checkExpr(st, e.Operand)
	if !origin.IsValid() {
		c.report(diag.E2ReleaseBorrowInvalid, e.Span,
			"no active borrow to release",
			[]diag.Note{{Span: e.Span, Msg: "this place does not currently hold a live borrow"}},
			diag.SuggestNarrowBorrowScope)
		return
	}
	bs, ok := st.env[origin]
	if !ok || !bs.Borrow.IsValid() || !bs.Alloc.IsValid() {
		c.report(diag.E2ReleaseBorrowInvalid, e.Span,
			"no active borrow to release",
			[]diag.Note{{Span: e.Span, Msg: "this place does not currently hold a live borrow"}},
			diag.SuggestNarrowBorrowScope)
		return
	}
	ledger := st.ledger[bs.Alloc]
	out := ledger[:0]
	found := false
	for _, b := range ledger {
		if b == bs.Borrow {
			found = true
			continue
		}
		out = append(out, b)
	}
	st.ledger[bs.Alloc] = out
	if !found {
		c.report(diag.E2ReleaseBorrowInvalid, e.Span,
			"no active borrow to release",
			[]diag.Note{{Span: e.Span, Msg: "this borrow was already released"}},
			diag.SuggestNarrowBorrowScope)
		return
	}
	bs.Borrow = ident.NoBorrowID
	st.env[origin] = bs
}
