package sema

import (
	"github.com/geeknik/aegis-c-compiler/internal/core"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/ident"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// checkExpr type-checks and effect-checks one Core expression against
// st, mutating st for any move/borrow/init effect the expression has.
// The second return value is the binding the expression resolves to as
// a *place* (Var, or a transparent accessor over one) when one exists,
// so callers like checkStmt's StmtLet/consume can attribute moves and
// provenance to the right binding; it is ident.NoBindingID otherwise.
func (c *Checker) checkExpr(st *state, id core.ExprID) (ty typesys.TypeID, origin ident.BindingID) {
	e := c.prog.Exprs.Get(id)
	if e == nil {
		return typesys.NoTypeID, ident.NoBindingID
	}
	// IR lowering consumes Core annotated by the checker; stamping the
	// resolved type back onto the node is what makes that annotation
	// observable outside the checker's own state.
	defer func() { e.Type = ty }()
	switch e.Kind {
	case core.Literal:
		switch e.LitKind {
		case core.LitInt:
			return c.types.Builtins.I32, ident.NoBindingID
		case core.LitBool:
			return c.types.Builtins.Bool, ident.NoBindingID
		default:
			return typesys.NoTypeID, ident.NoBindingID
		}

	case core.Var:
		bs, ok := st.env[e.Binding]
		info, _ := c.prog.Bindings.Get(e.Binding)
		if !ok {
			return info.Type, ident.NoBindingID
		}
		if bs.Moved {
			c.report(diag.E1UseAfterMove, e.Span, "use of a moved value",
				[]diag.Note{{Span: bs.MovedAt, Msg: "value was moved here"}},
				diag.SuggestIntroduceExplicitMove)
		} else if bs.Init == Uninit {
			c.report(diag.E5ReadOfUninit, e.Span, "read of an uninitialized binding",
				[]diag.Note{{Span: info.Span, Msg: "declared here without an initializer"}},
				diag.SuggestIntroduceExplicitMove)
		} else if bs.Init == MaybeInit {
			c.report(diag.E5ReadOfMaybeInit, e.Span, "read of a possibly-uninitialized binding",
				[]diag.Note{{Span: info.Span, Msg: "not initialized on every preceding control-flow path"}},
				diag.SuggestIntroduceExplicitMove)
		}
		return info.Type, e.Binding

	case core.Call:
		return c.checkCall(st, e)

	case core.UnOp:
		ty, origin := c.checkExpr(st, e.Operand)
		c.consume(st, e.Operand, ty, origin)
		return ty, ident.NoBindingID

	case core.BinOp:
		lty, lorigin := c.checkExpr(st, e.Lhs)
		c.consume(st, e.Lhs, lty, lorigin)
		rty, rorigin := c.checkExpr(st, e.Rhs)
		c.consume(st, e.Rhs, rty, rorigin)
		return lty, ident.NoBindingID

	case core.Deref:
		ty, origin := c.checkExpr(st, e.Operand)
		c.checkDeref(st, e, origin)
		if t, ok := c.types.Lookup(ty); ok {
			return t.Elem, ident.NoBindingID
		}
		return typesys.NoTypeID, ident.NoBindingID

	case core.Index:
		return c.checkIndex(st, e)

	case core.Field:
		return c.checkField(st, e)

	case core.Assign:
		valTy, valOrigin := c.checkExpr(st, e.Value)
		c.consume(st, e.Value, valTy, valOrigin)
		c.checkAssignPlace(st, e.Place, valTy)
		return valTy, ident.NoBindingID

	case core.Alloc:
		c.recordAllocLen(e)
		elemTy := e.AllocElem
		if e.AllocCount.IsValid() {
			ty, origin := c.checkExpr(st, e.AllocCount)
			c.consume(st, e.AllocCount, ty, origin)
			return c.types.OwnSlice(elemTy), ident.NoBindingID
		}
		return c.types.Own(elemTy), ident.NoBindingID

	case core.BorrowShared:
		return c.checkBorrow(st, e, ident.BorrowShared)

	case core.BorrowMut:
		return c.checkBorrow(st, e, ident.BorrowUnique)

	case core.ReleaseBorrow:
		c.checkReleaseBorrow(st, e)
		return typesys.NoTypeID, ident.NoBindingID

	case core.Move:
		ty, origin := c.checkExpr(st, e.Operand)
		if origin.IsValid() {
			bs := st.env[origin]
			if bs.Moved {
				c.report(diag.E1UseAfterMove, e.Span, "cannot move a value that was already moved",
					[]diag.Note{{Span: bs.MovedAt, Msg: "value was moved here"}},
					diag.SuggestIntroduceExplicitMove)
			} else if bs.Alloc.IsValid() && len(st.ledger[bs.Alloc]) > 0 {
				c.report(diag.E1MoveOfBorrowed, e.Span, "cannot move a value while it is borrowed",
					[]diag.Note{{Span: e.Span, Msg: "an active borrow references this value"}},
					diag.SuggestNarrowBorrowScope)
			}
			bs.Moved = true
			bs.MovedAt = e.Span
			st.env[origin] = bs
		}
		return ty, ident.NoBindingID

	case core.PtrOffset, core.BoundsNarrow:
		// IR-lowering-only node shapes; Core never constructs these from
		// surface syntax directly.
		return typesys.NoTypeID, ident.NoBindingID

	default:
		return typesys.NoTypeID, ident.NoBindingID
	}
}
