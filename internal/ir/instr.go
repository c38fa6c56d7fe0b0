package ir

import (
	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/ident"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// InstrKind enumerates AegisIR's instruction set: alloc/drop/
// load/store/gep/bounds_narrow/phi/call plus the scalar arithmetic and
// comparison ops BinOp/UnOp lower to.
type InstrKind uint8

const (
	InstrAlloc InstrKind = iota
	InstrDrop
	InstrLoad
	InstrStore
	InstrGep
	InstrBoundsNarrow
	InstrPhi
	InstrCall
	InstrArith
	InstrCmp
	InstrUnary
)

// Instr is one AegisIR instruction: a tagged union with one Kind
// selector and one embedded struct field per kind, the rest left zero.
// Dst is the SSA value this instruction
// defines; NoValueID for instructions with no result (InstrStore,
// InstrDrop).
type Instr struct {
	Kind InstrKind
	Dst  ValueID

	Alloc        AllocInstr
	Drop         DropInstr
	Load         LoadInstr
	Store        StoreInstr
	Gep          GepInstr
	BoundsNarrow BoundsNarrowInstr
	Phi          PhiInstr
	Call         CallInstr
	Arith        ArithInstr
	Cmp          CmpInstr
	Unary        UnaryInstr
}

// AllocInstr materializes one Core Alloc node: a fresh allocation with
// its own AllocID, scalar unless Count is present.
type AllocInstr struct {
	Alloc    ident.AllocID
	ElemType typesys.TypeID
	Count    Operand
	HasCount bool
}

// DropInstr releases the storage an owning binding held, emitted at
// scope exit in reverse declaration order.
type DropInstr struct {
	Alloc ident.AllocID
}

// LoadInstr reads through a pointer operand, carrying the effect record
// the checker's provenance/bounds proof discharged.
type LoadInstr struct {
	Addr   Operand
	Effect Effect
}

// StoreInstr writes Value through Addr; same effect-record contract as
// LoadInstr.
type StoreInstr struct {
	Addr   Operand
	Value  Operand
	Effect Effect
}

// GepInstr projects a base pointer by a constant field offset or a
// dynamic index (exactly one of FieldIndex/Index is meaningful,
// selected by IsField) — the address computation Index and Field lower
// to before the bounds_narrow that follows it.
type GepInstr struct {
	Base       Operand
	IsField    bool
	FieldIndex uint32
	Index      Operand
	IsLen      bool // Field lowered from the `.len` slice-length accessor, not a real struct field
}

// BoundsNarrowInstr attaches a narrowed [start, start+len) range to a
// pointer value. Lowering emits this unconditionally after every Gep
// that came from Core's Index — by the time lowering runs the checker
// has already proven the access in range, so there is no companion
// runtime check instruction.
type BoundsNarrowInstr struct {
	Base  Operand
	Start Operand
	Len   Operand
}

// PhiEdge is one incoming value of a PhiInstr, keyed by the predecessor
// block it comes from.
type PhiEdge struct {
	Block BlockID
	Value Operand
}

// PhiInstr merges values from multiple predecessor blocks at a
// control-flow join: the same clone-at-branch/join-at-merge scheme
// applied to SSA values instead of ownership state.
type PhiInstr struct {
	Incoming []PhiEdge
}

// CallInstr invokes a named function; effect records of the call's own
// loads/stores are attached to the instructions inside the callee, not
// composed here — CallInstr itself only threads through the argument
// operands a capability chain may reference.
type CallInstr struct {
	Callee    source.StringID
	Args      []Operand
	HasResult bool
}

// ArithInstr is a scalar binary arithmetic/bitwise op (+ - * / % & | ^
// << >>).
type ArithInstr struct {
	Op  ast.BinOp
	Lhs Operand
	Rhs Operand
}

// CmpInstr is a scalar comparison op (== != < <= > >=) producing a bool
// value.
type CmpInstr struct {
	Op  ast.BinOp
	Lhs Operand
	Rhs Operand
}

// UnaryInstr is a scalar unary op (- ! ~).
type UnaryInstr struct {
	Op      ast.UnOp
	Operand Operand
}
