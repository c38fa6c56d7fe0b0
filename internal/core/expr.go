// Package core is Aegis Core: the desugared tree the checker and IR
// lowering consume. Unlike internal/ast, Core has no surface sugar left
// in it — for-loops are while-loops, C-style declarations are lets, and
// the borrow/move intrinsics are their own node kinds rather than calls.
// It is also where the checker's four ID spaces (internal/ident) first
// get minted, in the deterministic pre-order Desugar walks.
package core

import (
	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/ident"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// ExprKind enumerates the Core expression node set.
type ExprKind uint8

const (
	Literal ExprKind = iota
	Var
	FnRef // reference to a top-level function by name, used only as a Call callee
	Call
	UnOp
	BinOp
	Deref
	Index
	Field
	Assign
	Alloc
	BorrowShared
	BorrowMut
	ReleaseBorrow
	Move
	PtrOffset
	BoundsNarrow
	ErrorExpr // unsupported construct; desugar recorded a diagnostic already
)

// LitKind tags which literal form a Literal node carries.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitBool
	LitString
)

// ExprID names one node in the Exprs arena. NoExprID is invalid.
type ExprID uint32

const NoExprID ExprID = 0

func (id ExprID) IsValid() bool { return id != NoExprID }

// Expr is one Core expression node. Its shape mirrors ast.Expr's
// tagged-union style: one flat struct, fields reused across kinds where
// the role lines up (Base/Index for both Index and PtrOffset, Operand
// for every single-operand form).
type Expr struct {
	Kind ExprKind
	Span source.Span

	LitKind LitKind // Literal
	Text    string  // Literal (LitInt/LitString raw text)
	Bool    bool    // Literal (LitBool)

	Binding ident.BindingID // Var
	FnName  source.StringID // FnRef

	Callee ExprID // Call
	Args   []ExprID

	UnOp    ast.UnOp // UnOp
	BinOp   ast.BinOp // BinOp
	Lhs     ExprID    // BinOp
	Rhs     ExprID    // BinOp
	Operand ExprID     // UnOp, BorrowShared/BorrowMut/Move place, ReleaseBorrow place

	Base      ExprID           // Index, Field, PtrOffset, BoundsNarrow receiver/pointer
	Index     ExprID           // Index subscript, PtrOffset offset
	FieldName source.StringID  // Field

	Place ExprID // Assign
	Value ExprID // Assign

	AllocElem  typesys.TypeID // Alloc
	AllocCount ExprID         // Alloc; NoExprID for a scalar (non-slice) alloc
	Alloc      ident.AllocID  // Alloc

	Borrow ident.BorrowID // BorrowShared, BorrowMut, ReleaseBorrow

	NarrowStart ExprID // BoundsNarrow
	NarrowLen   ExprID // BoundsNarrow

	Type typesys.TypeID // filled in by the checker; NoTypeID until then
}

// Exprs is the arena backing every ExprID in one desugared unit.
type Exprs struct {
	arena *ast.Arena[Expr]
}

func NewExprs(capHint uint) *Exprs {
	return &Exprs{arena: ast.NewArena[Expr](capHint)}
}

func (e *Exprs) New(n Expr) ExprID {
	return ExprID(e.arena.Allocate(n))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.arena.Get(uint32(id))
}

func (e *Exprs) Len() uint32 { return e.arena.Len() }
