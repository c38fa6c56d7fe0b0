package core

import (
	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/ident"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// ItemKind enumerates the top-level declaration forms desugar produces.
type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemStruct
	ItemEnum
	ItemErrorDecl
)

// StructField is one struct field's name and semantic type.
type StructField struct {
	Name source.StringID
	Type typesys.TypeID
	Span source.Span
}

// Item is one Core top-level declaration.
type Item struct {
	Kind ItemKind
	Span source.Span
	Name source.StringID

	Params []ident.BindingID // ItemFn; each already registered in Bindings
	Result typesys.TypeID    // ItemFn
	Body   StmtID            // ItemFn

	Fields   []StructField     // ItemStruct
	Variants []source.StringID // ItemEnum
}

// ItemID names one node in the Items arena. NoItemID is invalid.
type ItemID uint32

const NoItemID ItemID = 0

func (id ItemID) IsValid() bool { return id != NoItemID }

type Items struct {
	arena *ast.Arena[Item]
}

func NewItems(capHint uint) *Items {
	return &Items{arena: ast.NewArena[Item](capHint)}
}

func (it *Items) New(n Item) ItemID {
	return ItemID(it.arena.Allocate(n))
}

func (it *Items) Get(id ItemID) *Item {
	return it.arena.Get(uint32(id))
}

func (it *Items) Len() uint32 { return it.arena.Len() }
