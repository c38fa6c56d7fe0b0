package ident

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// AllocInfo describes one storage region: its element type, whether it's
// a slice allocation (own<[T]>, carries a runtime-visible length) or a
// scalar one, and where it was introduced (used in "owner dropped here"
// / "allocated here" related-span notes).
type AllocInfo struct {
	ElemType typesys.TypeID
	Slice    bool
	Span     source.Span
}

// Allocs is the dense table every AllocID indexes into. Index
// StaticAllocID is reserved at construction for storage that outlives
// every invocation (globals, string literal backing storage).
type Allocs struct {
	infos []AllocInfo
}

func NewAllocs(capHint uint) *Allocs {
	a := &Allocs{infos: make([]AllocInfo, 1, capHint+2)} // index 0 reserved
	a.infos = append(a.infos, AllocInfo{})                // index 1 == StaticAllocID
	return a
}

func (a *Allocs) New(info AllocInfo) AllocID {
	slot, err := safecast.Conv[uint32](len(a.infos))
	if err != nil {
		panic(fmt.Errorf("allocation table overflow: %w", err))
	}
	id := AllocID(slot)
	a.infos = append(a.infos, info)
	return id
}

func (a *Allocs) Get(id AllocID) (AllocInfo, bool) {
	if !id.IsValid() || int(id) >= len(a.infos) {
		return AllocInfo{}, false
	}
	return a.infos[id], true
}

func (a *Allocs) Len() int { return len(a.infos) }
