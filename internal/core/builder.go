package core

import (
	"github.com/geeknik/aegis-c-compiler/internal/ident"
	"github.com/geeknik/aegis-c-compiler/internal/source"
)

// Program is one desugared translation unit: its top-level items plus
// the four ID-space tables desugar populated while building them. The
// checker and IR lowering both read straight out of these tables rather
// than threading their own copies.
type Program struct {
	Items []ItemID

	Exprs *Exprs
	Stmts *Stmts
	ItemArena *Items

	Bindings  *ident.Bindings
	Allocs    *ident.Allocs
	Lifetimes *ident.Lifetimes
	Borrows   *ident.Borrows

	// Functions maps a top-level function's name to its ItemID, so a Call
	// through a FnRef callee can look up its declared result type.
	Functions map[source.StringID]ItemID
}
