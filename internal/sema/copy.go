package sema

import "github.com/geeknik/aegis-c-compiler/internal/typesys"

// isCopy reports whether a value of type t is Copy:
// scalars and bool are; own<…>, mut T*, and view<T> are not; T* (shared)
// is.
func isCopy(types *typesys.Interner, id typesys.TypeID) bool {
	t, ok := types.Lookup(id)
	if !ok {
		return true
	}
	switch t.Kind {
	case typesys.KindScalar, typesys.KindBool, typesys.KindAddr, typesys.KindPtrShared, typesys.KindPtrRaw:
		return true
	default:
		return false
	}
}
