package typesys

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/geeknik/aegis-c-compiler/internal/source"
)

// typeKey is the comparable projection of a Type used as the interning
// map key. Every field that participates in structural equality lives
// here; Type itself stays a plain descriptor so callers can read fields
// off it directly.
type typeKey struct {
	kind   Kind
	width  Width
	signed bool
	elem   TypeID
	ln     uint64
	name   source.StringID
}

func keyOf(t Type) typeKey {
	return typeKey{kind: t.Kind, width: t.Width, signed: t.Signed, elem: t.Elem, ln: t.Len, name: t.Name}
}

// Interner hash-conses Types so structurally identical types (two
// own<u8> spelled in different functions, say) always resolve to the
// same TypeID, making TypeID equality a valid substitute for deep
// structural comparison everywhere in the checker and IR.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	Builtins Builtins
}

// NewInterner builds an Interner with every builtin scalar, bool, void,
// and addr already interned.
func NewInterner() *Interner {
	in := &Interner{
		types: make([]Type, 1, 64), // index 0 reserved for NoTypeID
		index: make(map[typeKey]TypeID, 64),
	}
	in.Builtins = Builtins{
		Void:  in.internRaw(Type{Kind: KindVoid}),
		Bool:  in.internRaw(Type{Kind: KindBool}),
		Addr:  in.internRaw(Type{Kind: KindAddr}),
		U8:    in.internRaw(Type{Kind: KindScalar, Width: W8}),
		U16:   in.internRaw(Type{Kind: KindScalar, Width: W16}),
		U32:   in.internRaw(Type{Kind: KindScalar, Width: W32}),
		U64:   in.internRaw(Type{Kind: KindScalar, Width: W64}),
		I8:    in.internRaw(Type{Kind: KindScalar, Width: W8, Signed: true}),
		I16:   in.internRaw(Type{Kind: KindScalar, Width: W16, Signed: true}),
		I32:   in.internRaw(Type{Kind: KindScalar, Width: W32, Signed: true}),
		I64:   in.internRaw(Type{Kind: KindScalar, Width: W64, Signed: true}),
		Usize: in.internRaw(Type{Kind: KindScalar, Width: WSize}),
		Isize: in.internRaw(Type{Kind: KindScalar, Width: WSize, Signed: true}),
	}
	return in
}

// Intern returns the canonical TypeID for t, allocating a new entry only
// if an identical Type hasn't been interned yet.
func (in *Interner) Intern(t Type) TypeID {
	k := keyOf(t)
	if id, ok := in.index[k]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	k := keyOf(t)
	if id, ok := in.index[k]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("type table overflow: %w", err))
	}
	id := TypeID(slot)
	in.types = append(in.types, t)
	in.index[k] = id
	return id
}

// Lookup returns the Type descriptor for id and whether id is valid.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if !id.IsValid() || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics if id isn't a valid, previously interned TypeID.
// Reserved for callers holding an invariant that id came from this
// Interner (e.g. printing an already-checked IR).
func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic("typesys: invalid TypeID")
	}
	return t
}

// Own interns own<elem>.
func (in *Interner) Own(elem TypeID) TypeID { return in.Intern(Type{Kind: KindOwn, Elem: elem}) }

// OwnSlice interns own<[elem]>.
func (in *Interner) OwnSlice(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindOwnSlice, Elem: elem})
}

// View interns view<elem>.
func (in *Interner) View(elem TypeID) TypeID { return in.Intern(Type{Kind: KindView, Elem: elem}) }

// PtrShared interns T* (shared pointer to elem).
func (in *Interner) PtrShared(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindPtrShared, Elem: elem})
}

// PtrUnique interns mut T* (unique pointer to elem).
func (in *Interner) PtrUnique(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindPtrUnique, Elem: elem})
}

// PtrRaw interns raw T* (raw pointer to elem).
func (in *Interner) PtrRaw(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindPtrRaw, Elem: elem})
}

// Array interns [elem;n].
func (in *Interner) Array(elem TypeID, n uint64) TypeID {
	return in.Intern(Type{Kind: KindArray, Elem: elem, Len: n})
}

// Struct interns (or looks up) the nominal struct type named by name.
// Two calls with the same name always return the same TypeID: struct
// identity is nominal, not structural.
func (in *Interner) Struct(name source.StringID) TypeID {
	return in.Intern(Type{Kind: KindStruct, Name: name})
}

// Enum interns (or looks up) the nominal enum type named by name.
func (in *Interner) Enum(name source.StringID) TypeID {
	return in.Intern(Type{Kind: KindEnum, Name: name})
}

// Len returns the number of interned types, including the reserved
// NoTypeID slot at index 0.
func (in *Interner) Len() int { return len(in.types) }
