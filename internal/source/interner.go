package source

// StringID is an interned string handle, dense and monotonic within one
// Interner. Interning keeps identifier comparisons to an integer compare
// throughout the pipeline.
type StringID uint32

// NoStringID marks the absence of an interned string.
const NoStringID StringID = 0

// IsValid reports whether the id refers to an interned string.
func (id StringID) IsValid() bool { return id != NoStringID }

// Interner deduplicates strings (mainly identifiers) into dense IDs.
type Interner struct {
	strs []string
	ids  map[string]StringID
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{
		strs: []string{""},
		ids:  make(map[string]StringID),
	}
}

// Intern returns the StringID for s, allocating a fresh one if s was not
// seen before by this interner.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := StringID(len(in.strs))
	in.strs = append(in.strs, s)
	in.ids[s] = id
	return id
}

// Lookup returns the string for id.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if in == nil || !id.IsValid() || int(id) >= len(in.strs) {
		return "", false
	}
	return in.strs[id], true
}

// MustLookup returns the string for id, or "" if unknown.
func (in *Interner) MustLookup(id StringID) string {
	s, _ := in.Lookup(id)
	return s
}
