package diag

import "github.com/geeknik/aegis-c-compiler/internal/source"

// Suggestion enumerates the fixed set of actionable fixes a diagnostic may
// point at. Every rejection carries exactly one.
type Suggestion uint8

const (
	SuggestNone Suggestion = iota
	SuggestConvertToView
	SuggestNarrowBorrowScope
	SuggestIntroduceExplicitMove
	SuggestRewriteAsIndexedSlice
)

func (s Suggestion) String() string {
	switch s {
	case SuggestConvertToView:
		return "convert to view<T>"
	case SuggestNarrowBorrowScope:
		return "narrow the scope of the borrow"
	case SuggestIntroduceExplicitMove:
		return "introduce an explicit move"
	case SuggestRewriteAsIndexedSlice:
		return "rewrite the pointer walk as an indexed slice access"
	}
	return ""
}

// Note is a related (span, message) pair attached to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one compiler-emitted finding: a stable code, a primary
// span and message, zero or more related notes, and (for rejections)
// exactly one suggestion.
type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Primary    source.Span
	Notes      []Note
	Suggestion Suggestion
}

// WithNote appends a related span/message pair.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithSuggestion attaches the single actionable suggestion for the diagnostic.
func (d Diagnostic) WithSuggestion(s Suggestion) Diagnostic {
	d.Suggestion = s
	return d
}

// New builds a diagnostic with the given severity, code, primary span and
// message.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

// NewError is a convenience for New(SevError, ...).
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WellFormed reports whether the diagnostic satisfies the well-formedness
// property: a valid E?xxx (or ICE) code, a primary span, and for
// semantic rejections (class 1-6) at least one related note and exactly
// one suggestion.
func (d Diagnostic) WellFormed() bool {
	if d.Code == UnknownCode {
		return false
	}
	class := d.Code.Class()
	if class >= 1 && class <= 6 {
		if len(d.Notes) == 0 {
			return false
		}
		if d.Suggestion == SuggestNone {
			return false
		}
	}
	return true
}
