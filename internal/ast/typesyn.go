package ast

import "github.com/geeknik/aegis-c-compiler/internal/source"

// TypeExprKind tags the surface type syntax: scalars, own<T>,
// own<[T]>, view<T>, T*, mut T*, raw T*, [T;N], addr, and named
// struct/enum references.
type TypeExprKind uint8

const (
	TypeVoid TypeExprKind = iota
	TypeScalar
	TypeAddr
	TypeOwn
	TypeOwnSlice
	TypeView
	TypePtrShared
	TypePtrUnique
	TypePtrRaw
	TypeArray
	TypeName // struct/enum reference by identifier
)

// ScalarKind enumerates the primitive integer/bool scalars.
// There is no floating-point scalar in v0.
type ScalarKind uint8

const (
	ScalarU8 ScalarKind = iota
	ScalarU16
	ScalarU32
	ScalarU64
	ScalarI8
	ScalarI16
	ScalarI32
	ScalarI64
	ScalarUsize
	ScalarIsize
	ScalarBool
)

// TypeExpr is one parsed type expression.
type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span

	Scalar ScalarKind // TypeScalar

	Elem TypeID // TypeOwn, TypeOwnSlice, TypeView, TypePtr*, TypeArray element

	ArrayLen uint64 // TypeArray length N from [T;N]

	Name StringID // TypeName struct/enum identifier
}

type Types struct {
	arena *Arena[TypeExpr]
}

func NewTypes(capHint uint) *Types {
	return &Types{arena: NewArena[TypeExpr](capHint)}
}

func (t *Types) New(n TypeExpr) TypeID {
	return TypeID(t.arena.Allocate(n))
}

func (t *Types) Get(id TypeID) *TypeExpr {
	return t.arena.Get(uint32(id))
}

func (t *Types) Len() uint32 { return t.arena.Len() }
