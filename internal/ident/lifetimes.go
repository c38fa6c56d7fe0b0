package ident

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/geeknik/aegis-c-compiler/internal/source"
)

// LifetimeInfo is one node in the lifetime tree: every lexical scope
// (function body, block, unsafe block) mints one, parented to the
// lifetime of its immediately enclosing scope.
type LifetimeInfo struct {
	Parent LifetimeID
	Span   source.Span
}

// Lifetimes is the tree every LifetimeID indexes into. Index
// StaticLifetimeID is reserved as the root every other lifetime
// outlives.
type Lifetimes struct {
	infos []LifetimeInfo
}

func NewLifetimes(capHint uint) *Lifetimes {
	lt := &Lifetimes{infos: make([]LifetimeInfo, 1, capHint+2)} // index 0 reserved
	lt.infos = append(lt.infos, LifetimeInfo{Parent: NoLifetimeID})
	return lt
}

// New mints a fresh lifetime nested under parent.
func (lt *Lifetimes) New(parent LifetimeID, span source.Span) LifetimeID {
	slot, err := safecast.Conv[uint32](len(lt.infos))
	if err != nil {
		panic(fmt.Errorf("lifetime table overflow: %w", err))
	}
	id := LifetimeID(slot)
	lt.infos = append(lt.infos, LifetimeInfo{Parent: parent, Span: span})
	return id
}

func (lt *Lifetimes) Get(id LifetimeID) (LifetimeInfo, bool) {
	if !id.IsValid() || int(id) >= len(lt.infos) {
		return LifetimeInfo{}, false
	}
	return lt.infos[id], true
}

// Outlives reports whether a is an ancestor of (or equal to) b in the
// lifetime tree, i.e. a's scope encloses b's — the liveness proof
// obligation reduces to this walk.
func (lt *Lifetimes) Outlives(a, b LifetimeID) bool {
	if a == StaticLifetimeID {
		return true
	}
	for cur := b; cur.IsValid(); {
		if cur == a {
			return true
		}
		info, ok := lt.Get(cur)
		if !ok {
			return false
		}
		cur = info.Parent
	}
	return false
}

func (lt *Lifetimes) Len() int { return len(lt.infos) }
