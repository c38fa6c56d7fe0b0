// Package typesys is the semantic type system the checker reasons over,
// as distinct from internal/ast's surface type syntax: own<T>/view<T>/T*
// resolved to concrete element types, arrays resolved to a fixed length,
// and struct/enum names resolved to one canonical TypeID regardless of
// how many times they're spelled out in source. Grounded on the
// teacher's types.Interner structural-hash-interning design.
package typesys

import "github.com/geeknik/aegis-c-compiler/internal/source"

// Kind tags the shape of a Type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid          // only valid as a function result
	KindBool
	KindScalar // sized integer, see Width/Signed
	KindAddr   // raw address-of-static result, unsafe-only
	KindOwn    // own<T>
	KindOwnSlice
	KindView // view<T>, a (ptr,len) read window
	KindPtrShared
	KindPtrUnique
	KindPtrRaw
	KindArray // [T;N]
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindScalar:
		return "scalar"
	case KindAddr:
		return "addr"
	case KindOwn:
		return "own"
	case KindOwnSlice:
		return "own-slice"
	case KindView:
		return "view"
	case KindPtrShared:
		return "ptr-shared"
	case KindPtrUnique:
		return "ptr-unique"
	case KindPtrRaw:
		return "ptr-raw"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// Width tags the bit width of a scalar. WSize marks usize/isize, whose
// concrete width is target-defined and opaque to the checker.
type Width uint8

const (
	WNone Width = iota
	W8
	W16
	W32
	W64
	WSize
)

// TypeID names one interned Type. NoTypeID is the zero/invalid id.
type TypeID uint32

const NoTypeID TypeID = 0

func (id TypeID) IsValid() bool { return id != NoTypeID }

// Type is a compact structural descriptor. Struct/Enum identity is
// nominal (carried by Name, resolved once per declaration); everything
// else is structural (two own<u8> anywhere in a unit intern to the same
// TypeID).
type Type struct {
	Kind Kind

	Width  Width // KindScalar
	Signed bool  // KindScalar

	Elem TypeID // KindOwn, KindOwnSlice, KindView, KindPtr*, KindArray

	Len uint64 // KindArray element count N from [T;N]

	Name source.StringID // KindStruct, KindEnum
}

// Builtins caches the TypeIDs of every type with no structural
// parameters, so callers don't re-intern u8/bool/void on every lookup.
type Builtins struct {
	Void  TypeID
	Bool  TypeID
	Addr  TypeID
	U8    TypeID
	U16   TypeID
	U32   TypeID
	U64   TypeID
	I8    TypeID
	I16   TypeID
	I32   TypeID
	I64   TypeID
	Usize TypeID
	Isize TypeID
}

// ScalarByWidthSigned returns the builtin scalar TypeID for the given
// width and signedness.
func (b Builtins) ScalarByWidthSigned(w Width, signed bool) TypeID {
	switch {
	case w == WSize && signed:
		return b.Isize
	case w == WSize:
		return b.Usize
	case w == W8 && signed:
		return b.I8
	case w == W8:
		return b.U8
	case w == W16 && signed:
		return b.I16
	case w == W16:
		return b.U16
	case w == W32 && signed:
		return b.I32
	case w == W32:
		return b.U32
	case w == W64 && signed:
		return b.I64
	case w == W64:
		return b.U64
	default:
		return NoTypeID
	}
}
