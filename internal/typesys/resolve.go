package typesys

import "github.com/geeknik/aegis-c-compiler/internal/ast"

// Resolve converts one surface ast.TypeExpr into its canonical semantic
// TypeID, interning structural types (own/view/ptr/array) and looking up
// nominal types (struct/enum) by name. Struct and enum declarations
// themselves are registered once via Interner.Struct/Enum before any
// reference is resolved, so every reference to "Point" resolves to the
// same TypeID regardless of how many times it's spelled in source.
func Resolve(in *Interner, types *ast.Types, id ast.TypeID) TypeID {
	te := types.Get(id)
	switch te.Kind {
	case ast.TypeVoid:
		return in.Builtins.Void
	case ast.TypeScalar:
		return resolveScalar(in, te.Scalar)
	case ast.TypeAddr:
		return in.Builtins.Addr
	case ast.TypeOwn:
		return in.Own(Resolve(in, types, te.Elem))
	case ast.TypeOwnSlice:
		return in.OwnSlice(Resolve(in, types, te.Elem))
	case ast.TypeView:
		return in.View(Resolve(in, types, te.Elem))
	case ast.TypePtrShared:
		return in.PtrShared(Resolve(in, types, te.Elem))
	case ast.TypePtrUnique:
		return in.PtrUnique(Resolve(in, types, te.Elem))
	case ast.TypePtrRaw:
		return in.PtrRaw(Resolve(in, types, te.Elem))
	case ast.TypeArray:
		return in.Array(Resolve(in, types, te.Elem), te.ArrayLen)
	case ast.TypeName:
		// The declaration pass has already interned this name as either
		// a struct or an enum; callers that need to disambiguate an
		// unresolved forward reference use ResolveNamed instead.
		return in.Intern(Type{Kind: KindStruct, Name: te.Name})
	default:
		return NoTypeID
	}
}

func resolveScalar(in *Interner, s ast.ScalarKind) TypeID {
	switch s {
	case ast.ScalarU8:
		return in.Builtins.U8
	case ast.ScalarU16:
		return in.Builtins.U16
	case ast.ScalarU32:
		return in.Builtins.U32
	case ast.ScalarU64:
		return in.Builtins.U64
	case ast.ScalarI8:
		return in.Builtins.I8
	case ast.ScalarI16:
		return in.Builtins.I16
	case ast.ScalarI32:
		return in.Builtins.I32
	case ast.ScalarI64:
		return in.Builtins.I64
	case ast.ScalarUsize:
		return in.Builtins.Usize
	case ast.ScalarIsize:
		return in.Builtins.Isize
	case ast.ScalarBool:
		return in.Builtins.Bool
	default:
		return NoTypeID
	}
}
