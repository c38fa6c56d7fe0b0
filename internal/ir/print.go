package ir

import (
	"fmt"
	"strings"

	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/source"
)

// Print renders mod as a deterministic, block-structured listing for
// `--emit ir`, the same S-expression-adjacent register-listing style
// internal/core.Print and internal/ast.Print use for their own phases.
func Print(mod *Module, in *source.Interner) string {
	var sb strings.Builder
	sb.WriteString("(ir\n")
	for i := range mod.Funcs {
		printFunc(&sb, in, &mod.Funcs[i])
	}
	sb.WriteString(")\n")
	return sb.String()
}

func printFunc(sb *strings.Builder, in *source.Interner, f *Func) {
	fmt.Fprintf(sb, "  (fn %s\n", in.MustLookup(f.Name))
	for i := range f.Blocks {
		printBlock(sb, in, &f.Blocks[i])
	}
	sb.WriteString("  )\n")
}

func printBlock(sb *strings.Builder, in *source.Interner, b *Block) {
	fmt.Fprintf(sb, "    bb%d:\n", b.ID)
	for _, instr := range b.Instrs {
		sb.WriteString("      ")
		printInstr(sb, in, instr)
		sb.WriteString("\n")
	}
	sb.WriteString("      ")
	printTerm(sb, b.Term)
	sb.WriteString("\n")
}

func printOperand(sb *strings.Builder, op Operand) {
	switch op.Kind {
	case OperandValue:
		fmt.Fprintf(sb, "v%d", op.Value)
	case OperandConst:
		if op.Const.Kind == ConstBool {
			fmt.Fprintf(sb, "%t", op.Const.Bool)
		} else {
			sb.WriteString(op.Const.Text)
		}
	default:
		sb.WriteString("_")
	}
}

func printInstr(sb *strings.Builder, in *source.Interner, instr Instr) {
	if instr.Dst.IsValid() {
		fmt.Fprintf(sb, "v%d = ", instr.Dst)
	}
	switch instr.Kind {
	case InstrAlloc:
		fmt.Fprintf(sb, "alloc a%d", instr.Alloc.Alloc)
		if instr.Alloc.HasCount {
			sb.WriteString(" count=")
			printOperand(sb, instr.Alloc.Count)
		}
	case InstrDrop:
		fmt.Fprintf(sb, "drop a%d", instr.Drop.Alloc)
	case InstrLoad:
		sb.WriteString("load ")
		printOperand(sb, instr.Load.Addr)
		printEffect(sb, instr.Load.Effect)
	case InstrStore:
		sb.WriteString("store ")
		printOperand(sb, instr.Store.Addr)
		sb.WriteString(", ")
		printOperand(sb, instr.Store.Value)
		printEffect(sb, instr.Store.Effect)
	case InstrGep:
		sb.WriteString("gep ")
		printOperand(sb, instr.Gep.Base)
		switch {
		case instr.Gep.IsLen:
			sb.WriteString(", .len")
		case instr.Gep.IsField:
			fmt.Fprintf(sb, ", field %d", instr.Gep.FieldIndex)
		default:
			sb.WriteString(", ")
			printOperand(sb, instr.Gep.Index)
		}
	case InstrBoundsNarrow:
		sb.WriteString("bounds_narrow ")
		printOperand(sb, instr.BoundsNarrow.Base)
		sb.WriteString(", start=")
		printOperand(sb, instr.BoundsNarrow.Start)
		sb.WriteString(", len=")
		printOperand(sb, instr.BoundsNarrow.Len)
	case InstrPhi:
		sb.WriteString("phi [")
		for i, e := range instr.Phi.Incoming {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "bb%d: ", e.Block)
			printOperand(sb, e.Value)
		}
		sb.WriteString("]")
	case InstrCall:
		fmt.Fprintf(sb, "call %s(", in.MustLookup(instr.Call.Callee))
		for i, a := range instr.Call.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			printOperand(sb, a)
		}
		sb.WriteString(")")
	case InstrArith:
		printOperand(sb, instr.Arith.Lhs)
		fmt.Fprintf(sb, " %s ", binOpSymbol(instr.Arith.Op))
		printOperand(sb, instr.Arith.Rhs)
	case InstrCmp:
		printOperand(sb, instr.Cmp.Lhs)
		fmt.Fprintf(sb, " %s ", binOpSymbol(instr.Cmp.Op))
		printOperand(sb, instr.Cmp.Rhs)
	case InstrUnary:
		fmt.Fprintf(sb, "unop %s ", unOpSymbol(instr.Unary.Op))
		printOperand(sb, instr.Unary.Operand)
	}
}

func printEffect(sb *strings.Builder, eff Effect) {
	capName := "shared"
	if eff.Kind == CapUnique {
		capName = "unique"
	}
	fmt.Fprintf(sb, " ; a%d/%s", eff.Alloc, capName)
	if eff.RangeKnown {
		fmt.Fprintf(sb, " [%d..%d)", eff.RangeStart, eff.RangeStart+eff.RangeLen)
	}
}

func printTerm(sb *strings.Builder, t Terminator) {
	switch t.Kind {
	case TermReturn:
		sb.WriteString("ret")
		if t.Return.HasValue {
			sb.WriteString(" ")
			printOperand(sb, t.Return.Value)
		}
	case TermGoto:
		fmt.Fprintf(sb, "goto bb%d", t.Goto.Target)
	case TermIf:
		sb.WriteString("if ")
		printOperand(sb, t.If.Cond)
		fmt.Fprintf(sb, " then bb%d else bb%d", t.If.Then, t.If.Else)
	case TermUnreachable:
		sb.WriteString("unreachable")
	default:
		sb.WriteString("(unterminated)")
	}
}

func binOpSymbol(op ast.BinOp) string {
	switch op {
	case ast.BinAdd:
		return "+"
	case ast.BinSub:
		return "-"
	case ast.BinMul:
		return "*"
	case ast.BinDiv:
		return "/"
	case ast.BinMod:
		return "%"
	case ast.BinEq:
		return "=="
	case ast.BinNe:
		return "!="
	case ast.BinLt:
		return "<"
	case ast.BinLe:
		return "<="
	case ast.BinGt:
		return ">"
	case ast.BinGe:
		return ">="
	case ast.BinAnd:
		return "&&"
	case ast.BinOr:
		return "||"
	case ast.BinBitAnd:
		return "&"
	case ast.BinBitOr:
		return "|"
	case ast.BinBitXor:
		return "^"
	case ast.BinShl:
		return "<<"
	case ast.BinShr:
		return ">>"
	case ast.BinAssign:
		return "="
	default:
		return "?"
	}
}

func unOpSymbol(op ast.UnOp) string {
	switch op {
	case ast.UnNeg:
		return "-"
	case ast.UnNot:
		return "!"
	case ast.UnBitNot:
		return "~"
	default:
		return "?"
	}
}
