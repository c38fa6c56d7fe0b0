package ident

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// BindingInfo is everything the checker's Environment needs about
// one binding besides its per-path ownership state, which lives in the
// checker's own tables since it varies across control-flow paths.
type BindingInfo struct {
	Name    source.StringID
	Type    typesys.TypeID
	Mutable bool
	Span    source.Span
}

// Bindings is the dense table every BindingID indexes into, populated by
// desugar as it mints ids for parameters and let-declarations.
type Bindings struct {
	infos []BindingInfo
}

func NewBindings(capHint uint) *Bindings {
	return &Bindings{infos: make([]BindingInfo, 1, capHint+1)} // index 0 reserved
}

func (bs *Bindings) New(info BindingInfo) BindingID {
	slot, err := safecast.Conv[uint32](len(bs.infos))
	if err != nil {
		panic(fmt.Errorf("binding table overflow: %w", err))
	}
	id := BindingID(slot)
	bs.infos = append(bs.infos, info)
	return id
}

func (bs *Bindings) Get(id BindingID) (BindingInfo, bool) {
	if !id.IsValid() || int(id) >= len(bs.infos) {
		return BindingInfo{}, false
	}
	return bs.infos[id], true
}

func (bs *Bindings) Len() int { return len(bs.infos) }
