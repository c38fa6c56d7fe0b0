package ast

import "github.com/geeknik/aegis-c-compiler/internal/source"

// ExprKind tags the variant an Expr node carries. Aegis C's expression
// grammar is small enough that one flat struct with per-kind fields
// reads more plainly than a payload-per-kind arena.
type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprIntLit
	ExprStringLit
	ExprBoolLit
	ExprCall
	ExprBinary
	ExprUnary
	ExprGroup
	ExprIndex
	ExprField
	ExprAddrOf
	ExprDeref
	ExprAlloc
	ExprBorrow
	ExprMutBorrow
	ExprReleaseBorrow
	ExprMove
	ExprError // unrecognized construct; carries no further meaning
)

type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
	BinAssign
)

type UnOp uint8

const (
	UnNeg UnOp = iota
	UnNot
	UnBitNot
)

// Expr is one parse-tree expression node.
type Expr struct {
	Kind ExprKind
	Span source.Span

	Name StringID // ExprIdent, ExprField (field name)
	Text string    // ExprIntLit, ExprStringLit raw lexeme
	Bool bool      // ExprBoolLit

	Callee ExprID
	Args   []ExprID

	BinOp BinOp
	UnOp  UnOp
	Lhs   ExprID
	Rhs   ExprID // binary rhs, or assignment value
	Operand ExprID

	Base  ExprID // ExprIndex, ExprField receiver
	Index ExprID // ExprIndex subscript

	AllocElem  TypeID // ExprAlloc element type
	AllocCount ExprID // ExprAlloc element count; NoExprID for a scalar alloc

	Target ExprID // ExprBorrow/ExprMutBorrow/ExprReleaseBorrow/ExprMove operand place
}

// Exprs is the arena backing every ExprID in one file.
type Exprs struct {
	arena *Arena[Expr]
}

func NewExprs(capHint uint) *Exprs {
	return &Exprs{arena: NewArena[Expr](capHint)}
}

func (e *Exprs) New(n Expr) ExprID {
	return ExprID(e.arena.Allocate(n))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.arena.Get(uint32(id))
}

func (e *Exprs) Len() uint32 { return e.arena.Len() }
