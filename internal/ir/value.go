package ir

import "github.com/geeknik/aegis-c-compiler/internal/typesys"

// OperandKind distinguishes an SSA value reference from an immediate
// constant.
type OperandKind uint8

const (
	OperandInvalid OperandKind = iota
	OperandConst
	OperandValue
)

// ConstKind tags which field of Const holds the literal.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstBool
)

// Const is an immediate value baked into the instruction stream, carrying
// the literal's raw source text the way mir.Const does so printing never
// needs to re-derive a base from a parsed integer.
type Const struct {
	Kind ConstKind
	Type typesys.TypeID
	Text string
	Bool bool
}

// Operand is a use site: either a previously-defined SSA value or a
// constant. Every instruction field that isn't itself a Dst is an
// Operand.
type Operand struct {
	Kind  OperandKind
	Value ValueID
	Const Const
}

func valueOperand(v ValueID) Operand { return Operand{Kind: OperandValue, Value: v} }
