package ident

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/geeknik/aegis-c-compiler/internal/source"
)

// BorrowKind distinguishes a shared borrow (many may coexist) from a
// unique borrow (excludes every other borrow of the same allocation).
type BorrowKind uint8

const (
	BorrowShared BorrowKind = iota
	BorrowUnique
)

// BorrowInfo is the static-time record of one borrow site; the ledger
// that tracks which borrows are *currently live* is the checker's own
// per-path state, since liveness varies with control flow while this
// table just answers "what was this borrow" for diagnostics.
type BorrowInfo struct {
	Alloc    AllocID
	Kind     BorrowKind
	Lifetime LifetimeID
	Span     source.Span
}

// Borrows is the dense table every BorrowID indexes into.
type Borrows struct {
	infos []BorrowInfo
}

func NewBorrows(capHint uint) *Borrows {
	return &Borrows{infos: make([]BorrowInfo, 1, capHint+1)} // index 0 reserved
}

func (b *Borrows) New(info BorrowInfo) BorrowID {
	slot, err := safecast.Conv[uint32](len(b.infos))
	if err != nil {
		panic(fmt.Errorf("borrow table overflow: %w", err))
	}
	id := BorrowID(slot)
	b.infos = append(b.infos, info)
	return id
}

func (b *Borrows) Get(id BorrowID) (BorrowInfo, bool) {
	if !id.IsValid() || int(id) >= len(b.infos) {
		return BorrowInfo{}, false
	}
	return b.infos[id], true
}

func (b *Borrows) Len() int { return len(b.infos) }
