package ast

import (
	"fmt"
	"strings"

	"github.com/geeknik/aegis-c-compiler/internal/source"
)

// Print renders file as a deterministic S-expression-like tree, used by
// `--emit ast`. Output depends only on the tree's content, never on map
// or arena iteration order, so repeated runs over identical input produce
// byte-identical text.
func Print(b *Builder, in *source.Interner, file FileID) string {
	var sb strings.Builder
	f := b.Files.Get(file)
	if f == nil {
		return ""
	}
	sb.WriteString("(file\n")
	for _, it := range f.Items {
		printItem(&sb, b, in, it, 1)
	}
	sb.WriteString(")\n")
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("  ")
	}
}

func printItem(sb *strings.Builder, b *Builder, in *source.Interner, id ItemID, depth int) {
	it := b.Items.Get(id)
	if it == nil {
		return
	}
	indent(sb, depth)
	switch it.Kind {
	case ItemFn:
		fmt.Fprintf(sb, "(fn %s\n", in.MustLookup(it.Name))
		printStmt(sb, b, in, it.Body, depth+1)
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

func printStmt(sb *strings.Builder, b *Builder, in *source.Interner, id StmtID, depth int) {
	s := b.Stmts.Get(id)
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
		fmt.Fprintf(sb, "(%s\n", tag)
		for _, child := range s.Stmts {
			printStmt(sb, b, in, child, depth+1)
		}
		indent(sb, depth)
		sb.WriteString(")\n")
	case StmtLet:
		fmt.Fprintf(sb, "(let %s)\n", in.MustLookup(s.LetName))
	case StmtReturn:
		sb.WriteString("(return)\n")
	case StmtIf:
		sb.WriteString("(if)\n")
	case StmtWhile:
		sb.WriteString("(while)\n")
	case StmtFor:
		sb.WriteString("(for)\n")
	case StmtExpr:
		sb.WriteString("(expr)\n")
	case StmtBreak:
		sb.WriteString("(break)\n")
	case StmtContinue:
		sb.WriteString("(continue)\n")
	default:
		sb.WriteString("(error)\n")
	}
}
