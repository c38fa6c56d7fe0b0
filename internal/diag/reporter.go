package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/geeknik/aegis-c-compiler/internal/source"
)

// PrettyOpts configures the human-readable renderer.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	dimColor  = color.New(color.Faint)
)

func sevColor(s Severity) *color.Color {
	switch s {
	case SevError:
		return errColor
	case SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

// Pretty renders bag (assumed already Sort()ed) as human-readable text:
//
//	<path>:<line>:<col>: error[E2001]: message
//	    source line
//	           ^^^^
//	  note: <path>:<line>:<col>: related message
//	    related source line
//	    ^^^^
//	  suggestion: suggested fix
//
// Notes are printed only when opts.ShowNotes is set.
// Column carets are aligned with go-runewidth so multi-byte and wide
// source runes still line up under the span they annotate.
func Pretty(w io.Writer, bag *Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	color.NoColor = !opts.Color
	for _, d := range bag.Items() {
		renderOne(w, d, fs, opts)
	}
}

func renderOne(w io.Writer, d Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	loc := formatLoc(fs, d.Primary)
	sc := sevColor(d.Severity)
	fmt.Fprintf(w, "%s: %s[%s]: %s\n", loc, sc.Sprint(d.Severity.String()), d.Code.ID(), d.Message)
	renderSnippet(w, fs, d.Primary)
	if opts.ShowNotes {
		for _, n := range d.Notes {
			nloc := formatLoc(fs, n.Span)
			fmt.Fprintf(w, "  %s %s: %s\n", dimColor.Sprint("note:"), nloc, n.Msg)
			renderSnippet(w, fs, n.Span)
		}
	}
	if d.Suggestion != SuggestNone {
		fmt.Fprintf(w, "  %s %s\n", dimColor.Sprint("suggestion:"), d.Suggestion.String())
	}
}

func formatLoc(fs *source.FileSet, sp source.Span) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	pos := f.Position(sp.Start)
	return fmt.Sprintf("%s:%d:%d", f.Path, pos.Line, pos.Col)
}

func renderSnippet(w io.Writer, fs *source.FileSet, sp source.Span) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	pos := f.Position(sp.Start)
	line := f.LineText(pos.Line)
	if line == nil {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)
	prefixWidth := runewidth.StringWidth(string(line[:min(int(pos.Col-1), len(line))]))
	underlineLen := int(sp.Len())
	if underlineLen < 1 {
		underlineLen = 1
	}
	fmt.Fprintf(w, "    %s%s\n", spaces(prefixWidth), repeat('^', underlineLen))
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func repeat(r byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = r
	}
	return string(b)
}
