package source

import "fmt"

// Span identifies a half-open byte range [Start, End) within a single file.
// Spans are opaque to the checker and IR lowering; only diagnostics and the
// pretty-printers interpret them.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool { return s.Start == s.End }

// Len returns the number of bytes covered by the span.
func (s Span) Len() uint32 { return s.End - s.Start }

// Cover returns the smallest span that contains both s and other. If the
// spans belong to different files, s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}
