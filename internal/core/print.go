package core

import (
	"fmt"
	"strings"

	"github.com/geeknik/aegis-c-compiler/internal/source"
)

// Print renders prog as a deterministic S-expression-like tree for
// `--emit core`, the same style as internal/ast.Print but naming
// bindings/allocations/borrows by their minted ids so a reader can see
// the identifier assignment desugar performed.
func Print(prog *Program, in *source.Interner) string {
	var sb strings.Builder
	sb.WriteString("(core\n")
	for _, it := range prog.Items {
		printItem(&sb, prog, in, it, 1)
	}
	sb.WriteString(")\n")
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("  ")
	}
}

func printItem(sb *strings.Builder, prog *Program, in *source.Interner, id ItemID, depth int) {
	it := prog.ItemArena.Get(id)
	if it == nil {
		return
	}
	indent(sb, depth)
	switch it.Kind {
	case ItemFn:
		fmt.Fprintf(sb, "(fn %s\n", in.MustLookup(it.Name))
		printStmt(sb, prog, in, it.Body, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case ItemStruct:
		fmt.Fprintf(sb, "(struct %s)\n", in.MustLookup(it.Name))
	case ItemEnum:
		fmt.Fprintf(sb, "(enum %s)\n", in.MustLookup(it.Name))
	default:
		sb.WriteString("(error)\n")
	}
}

func printStmt(sb *strings.Builder, prog *Program, in *source.Interner, id StmtID, depth int) {
	s := prog.Stmts.Get(id)
	if s == nil {
		indent(sb, depth)
		sb.WriteString("(nil)\n")
		return
	}
	indent(sb, depth)
	switch s.Kind {
	case StmtBlock, StmtUnsafe:
		tag := "block"
		if s.Kind == StmtUnsafe {
			tag = "unsafe"
		}
		fmt.Fprintf(sb, "(%s lt%d\n", tag, s.Lifetime)
		for _, child := range s.Stmts {
			printStmt(sb, prog, in, child, depth+1)
		}
		indent(sb, depth)
		sb.WriteString(")\n")
	case StmtLet:
		fmt.Fprintf(sb, "(let b%d\n", s.LetBinding)
		if s.LetInit.IsValid() {
			printExpr(sb, prog, in, s.LetInit, depth+1)
		}
		indent(sb, depth)
		sb.WriteString(")\n")
	case StmtExprStmt:
		sb.WriteString("(expr\n")
		printExpr(sb, prog, in, s.ExprValue, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case StmtIf:
		sb.WriteString("(if\n")
		printExpr(sb, prog, in, s.Cond, depth+1)
		printStmt(sb, prog, in, s.Then, depth+1)
		if s.Else.IsValid() {
			printStmt(sb, prog, in, s.Else, depth+1)
		}
		indent(sb, depth)
		sb.WriteString(")\n")
	case StmtWhile:
		sb.WriteString("(while\n")
		printExpr(sb, prog, in, s.Cond, depth+1)
		printStmt(sb, prog, in, s.Body, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case StmtReturn:
		if s.ExprValue.IsValid() {
			sb.WriteString("(return\n")
			printExpr(sb, prog, in, s.ExprValue, depth+1)
			indent(sb, depth)
			sb.WriteString(")\n")
		} else {
			sb.WriteString("(return)\n")
		}
	case StmtBreak:
		sb.WriteString("(break)\n")
	case StmtContinue:
		sb.WriteString("(continue)\n")
	default:
		sb.WriteString("(error)\n")
	}
}

func printExpr(sb *strings.Builder, prog *Program, in *source.Interner, id ExprID, depth int) {
	e := prog.Exprs.Get(id)
	if e == nil {
		indent(sb, depth)
		sb.WriteString("(nil)\n")
		return
	}
	indent(sb, depth)
	switch e.Kind {
	case Literal:
		switch e.LitKind {
		case LitInt:
			fmt.Fprintf(sb, "(lit %s)\n", e.Text)
		case LitString:
			fmt.Fprintf(sb, "(lit %q)\n", e.Text)
		case LitBool:
			fmt.Fprintf(sb, "(lit %t)\n", e.Bool)
		}
	case Var:
		fmt.Fprintf(sb, "(var b%d)\n", e.Binding)
	case FnRef:
		fmt.Fprintf(sb, "(fnref %s)\n", in.MustLookup(e.FnName))
	case Call:
		fmt.Fprintf(sb, "(call args=%d)\n", len(e.Args))
	case UnOp:
		fmt.Fprintf(sb, "(unop %d\n", e.UnOp)
		printExpr(sb, prog, in, e.Operand, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case BinOp:
		fmt.Fprintf(sb, "(binop %d\n", e.BinOp)
		printExpr(sb, prog, in, e.Lhs, depth+1)
		printExpr(sb, prog, in, e.Rhs, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case Deref:
		sb.WriteString("(deref\n")
		printExpr(sb, prog, in, e.Operand, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case Index:
		sb.WriteString("(index\n")
		printExpr(sb, prog, in, e.Base, depth+1)
		printExpr(sb, prog, in, e.Index, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case Field:
		fmt.Fprintf(sb, "(field %s\n", in.MustLookup(e.FieldName))
		printExpr(sb, prog, in, e.Base, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case Assign:
		sb.WriteString("(assign\n")
		printExpr(sb, prog, in, e.Place, depth+1)
		printExpr(sb, prog, in, e.Value, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case Alloc:
		fmt.Fprintf(sb, "(alloc a%d)\n", e.Alloc)
	case BorrowShared:
		fmt.Fprintf(sb, "(borrow-shared bw%d\n", e.Borrow)
		printExpr(sb, prog, in, e.Operand, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case BorrowMut:
		fmt.Fprintf(sb, "(borrow-mut bw%d\n", e.Borrow)
		printExpr(sb, prog, in, e.Operand, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case ReleaseBorrow:
		sb.WriteString("(release-borrow\n")
		printExpr(sb, prog, in, e.Operand, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case Move:
		sb.WriteString("(move\n")
		printExpr(sb, prog, in, e.Operand, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case PtrOffset:
		sb.WriteString("(ptr-offset\n")
		printExpr(sb, prog, in, e.Base, depth+1)
		printExpr(sb, prog, in, e.Index, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	case BoundsNarrow:
		sb.WriteString("(bounds-narrow\n")
		printExpr(sb, prog, in, e.Base, depth+1)
		printExpr(sb, prog, in, e.NarrowStart, depth+1)
		printExpr(sb, prog, in, e.NarrowLen, depth+1)
		indent(sb, depth)
		sb.WriteString(")\n")
	default:
		sb.WriteString("(error)\n")
	}
}
