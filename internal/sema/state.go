package sema

import (
	"github.com/geeknik/aegis-c-compiler/internal/ident"
	"github.com/geeknik/aegis-c-compiler/internal/source"
)

// InitState is the three-point lattice: Uninit → Init (write),
// with MaybeInit as the join of a branch that initializes a place and one
// that doesn't.
type InitState uint8

const (
	Uninit InitState = iota
	MaybeInit
	Init
)

func joinInit(a, b InitState) InitState {
	if a == b {
		return a
	}
	return MaybeInit
}

// bindingState is the per-path record the Environment keeps for
// one binding: its initialization state, whether it has been moved out
// of, and — for pointer-typed bindings — the borrow and allocation it
// was derived from, so a later dereference or release_borrow can find
// its way back to the ledger.
type bindingState struct {
	Init    InitState
	Moved   bool
	MovedAt source.Span

	Alloc  ident.AllocID // provenance: the allocation this place traces to
	Borrow ident.BorrowID // the live borrow (if any) this pointer carries
}

func (b bindingState) clone() bindingState { return b }

// state is the checker's full per-path snapshot: the Environment plus the
// borrow ledger (allocation id -> active borrow ids), cloned at branches
// and joined at merges: a single pass over structured control flow
// suffices for v0, no general dataflow framework needed.
type state struct {
	env    map[ident.BindingID]bindingState
	ledger map[ident.AllocID][]ident.BorrowID

	// inductionBound records, for a binding known to be a loop induction
	// variable bounded above by an allocation's runtime length (the
	// `for (usize i = 0; i < v.len; i = i+1)` shape),
	// which allocation bounds it — so Index(v, i) can discharge its
	// bounds obligation without full range inference.
	inductionBound map[ident.BindingID]ident.AllocID

	unsafeDepth int
}

func newState() *state {
	return &state{
		env:            make(map[ident.BindingID]bindingState),
		ledger:         make(map[ident.AllocID][]ident.BorrowID),
		inductionBound: make(map[ident.BindingID]ident.AllocID),
	}
}

func (s *state) clone() *state {
	c := &state{
		env:            make(map[ident.BindingID]bindingState, len(s.env)),
		ledger:         make(map[ident.AllocID][]ident.BorrowID, len(s.ledger)),
		inductionBound: make(map[ident.BindingID]ident.AllocID, len(s.inductionBound)),
		unsafeDepth:    s.unsafeDepth,
	}
	for k, v := range s.env {
		c.env[k] = v.clone()
	}
	for k, v := range s.ledger {
		cp := make([]ident.BorrowID, len(v))
		copy(cp, v)
		c.ledger[k] = cp
	}
	for k, v := range s.inductionBound {
		c.inductionBound[k] = v
	}
	return c
}

func borrowSliceEqual(a, b []ident.BorrowID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// join merges two post-branch states at a control-flow merge point (the
// "meet" of the initialization lattice, extended to moves and the
// borrow ledger). Both inputs must have been cloned from the same parent
// state, so every key present in one is present in the other.
func join(a, b *state) *state {
	out := newState()
	out.unsafeDepth = a.unsafeDepth
	for id, as := range a.env {
		bs, ok := b.env[id]
		if !ok {
			bs = as
		}
		merged := bindingState{
			Init:  joinInit(as.Init, bs.Init),
			Moved: as.Moved || bs.Moved,
		}
		if as.Moved && !bs.Moved {
			merged.MovedAt = as.MovedAt
		} else if bs.Moved {
			merged.MovedAt = bs.MovedAt
		}
		if as.Alloc == bs.Alloc {
			merged.Alloc = as.Alloc
		}
		if as.Borrow == bs.Borrow {
			merged.Borrow = as.Borrow
		}
		out.env[id] = merged
	}
	allocIDs := make(map[ident.AllocID]struct{}, len(a.ledger)+len(b.ledger))
	for id := range a.ledger {
		allocIDs[id] = struct{}{}
	}
	for id := range b.ledger {
		allocIDs[id] = struct{}{}
	}
	for id := range allocIDs {
		av, bv := a.ledger[id], b.ledger[id]
		if borrowSliceEqual(av, bv) {
			out.ledger[id] = av
		} else {
			// Conservative: a borrow only survives the merge if both
			// paths agree it's still live.
			var kept []ident.BorrowID
			bset := make(map[ident.BorrowID]bool, len(bv))
			for _, id := range bv {
				bset[id] = true
			}
			for _, id := range av {
				if bset[id] {
					kept = append(kept, id)
				}
			}
			out.ledger[id] = kept
		}
	}
	for id, aAlloc := range a.inductionBound {
		if bAlloc, ok := b.inductionBound[id]; ok && bAlloc == aAlloc {
			out.inductionBound[id] = aAlloc
		}
	}
	return out
}
