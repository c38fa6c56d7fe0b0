package diag

import "sort"

// Bag is an ordered, capped collection of diagnostics accumulated across
// phases. Bags never enforce cross-goroutine
// synchronization themselves — the driver merges per-function bags after
// concurrent checking completes (see internal/driver).
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag returns an empty bag capped at max entries. A max <= 0 means
// unbounded.
func NewBag(max int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, 16), max: max}
}

// Add appends d unless the bag is at capacity. Reports whether it was added.
func (b *Bag) Add(d Diagnostic) bool {
	if b == nil {
		return false
	}
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Len returns the number of diagnostics currently held.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Items returns the diagnostics in insertion order. Callers must not
// mutate the returned slice.
func (b *Bag) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

// HasErrors reports whether any diagnostic reaches SevError.
func (b *Bag) HasErrors() bool {
	if b == nil {
		return false
	}
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// Merge appends other's diagnostics onto b, growing the cap if needed.
// Used by the driver to combine per-function bags from concurrent checking
// into one deterministic stream regardless of how concurrent checking
// interleaved.
func (b *Bag) Merge(other *Bag) {
	if b == nil || other == nil {
		return
	}
	total := len(b.items) + len(other.items)
	if b.max > 0 && total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, then start offset, then end offset,
// then severity (errors first), then code — the total order that makes
// the diagnostic stream deterministic regardless of which goroutine
// produced which entry.
func (b *Bag) Sort() {
	if b == nil {
		return
	}
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
