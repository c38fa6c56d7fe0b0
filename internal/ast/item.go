package ast

import "github.com/geeknik/aegis-c-compiler/internal/source"

// ItemKind tags top-level declarations: functions and the struct/enum
// aggregate type declarations.
type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemStruct
	ItemEnum
	ItemError
)

// Param is one function parameter: a name and its declared type.
type Param struct {
	Name StringID
	Type TypeID
	Span source.Span
}

// Field is one struct field: a name and its declared type.
type Field struct {
	Name StringID
	Type TypeID
	Span source.Span
}

type Item struct {
	Kind ItemKind
	Span source.Span
	Name StringID

	Params []Param // ItemFn
	Result TypeID  // ItemFn; TypeVoid id for a void return
	Body   StmtID  // ItemFn

	Fields []Field // ItemStruct

	Variants []StringID // ItemEnum
}

type Items struct {
	arena *Arena[Item]
}

func NewItems(capHint uint) *Items {
	return &Items{arena: NewArena[Item](capHint)}
}

func (it *Items) New(n Item) ItemID {
	return ItemID(it.arena.Allocate(n))
}

func (it *Items) Get(id ItemID) *Item {
	return it.arena.Get(uint32(id))
}

func (it *Items) Len() uint32 { return it.arena.Len() }
