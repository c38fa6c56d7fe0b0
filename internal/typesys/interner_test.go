package typesys

import (
	"testing"

	"github.com/geeknik/aegis-c-compiler/internal/source"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	if in.Builtins.Void == NoTypeID || in.Builtins.Bool == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	void, ok := in.Lookup(in.Builtins.Void)
	if !ok || void.Kind != KindVoid {
		t.Fatalf("expected void kind, got %+v", void)
	}
}

func TestInternerDeduplicatesStructuralTypes(t *testing.T) {
	in := NewInterner()
	own1 := in.Own(in.Builtins.U8)
	own2 := in.Own(in.Builtins.U8)
	if own1 != own2 {
		t.Fatalf("own<u8> should be deduplicated, got %d and %d", own1, own2)
	}
}

func TestPointerMutabilityAffectsIdentity(t *testing.T) {
	in := NewInterner()
	shared := in.PtrShared(in.Builtins.I32)
	unique := in.PtrUnique(in.Builtins.I32)
	raw := in.PtrRaw(in.Builtins.I32)
	if shared == unique || shared == raw || unique == raw {
		t.Fatalf("shared/unique/raw pointers to the same element must differ")
	}
}

func TestArrayLengthAffectsIdentity(t *testing.T) {
	in := NewInterner()
	a4 := in.Array(in.Builtins.U8, 4)
	a8 := in.Array(in.Builtins.U8, 8)
	if a4 == a8 {
		t.Fatalf("[u8;4] and [u8;8] must be distinct types")
	}
}

func TestStructIdentityIsNominal(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	name := strs.Intern("Point")
	a := in.Struct(name)
	b := in.Struct(name)
	if a != b {
		t.Fatalf("two references to the same struct name must resolve to one TypeID")
	}
}
