package ir

import "github.com/geeknik/aegis-c-compiler/internal/ident"

// CapKind is the capability a load/store's effect record requires,
// mirroring the Shared/Unique split ghost-capability descriptor that
// attaches to every safe pointer value.
type CapKind uint8

const (
	CapShared CapKind = iota
	CapUnique
)

// Effect is the region/capability record required on every load and
// store: which allocation the access touches and the capability kind.
// Lowering never sets RangeKnown, so no narrowed range is recorded:
// RangeStart/RangeLen stay zero and the region is always the whole
// allocation.
type Effect struct {
	Alloc      ident.AllocID
	Kind       CapKind
	RangeKnown bool
	RangeStart uint64
	RangeLen   uint64
}
