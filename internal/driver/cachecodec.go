package driver

import (
	"bytes"
	"crypto/sha256"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/source"
)

func spanFrom(file, start, end uint32) source.Span {
	return source.Span{File: source.FileID(file), Start: start, End: end}
}

func sha256Sum(content []byte) [32]byte {
	return sha256.Sum256(content)
}

// diagSnapshot is the msgpack-serializable shape of one diag.Diagnostic.
// diag.Diagnostic's own fields are already plain data, but keeping a
// dedicated snapshot type here (rather than encoding diag.Diagnostic
// directly) means a future field diag adds doesn't silently change the
// cache's on-disk schema out from under cache.schemaVersion.
type diagSnapshot struct {
	Severity   uint8
	Code       uint16
	Message    string
	File       uint32
	Start      uint32
	End        uint32
	Notes      []noteSnapshot
	Suggestion uint8
}

type noteSnapshot struct {
	File  uint32
	Start uint32
	End   uint32
	Msg   string
}

func encodeDiagnostics(bag *diag.Bag) ([]byte, error) {
	items := bag.Items()
	snaps := make([]diagSnapshot, len(items))
	for i, d := range items {
		notes := make([]noteSnapshot, len(d.Notes))
		for j, n := range d.Notes {
			notes[j] = noteSnapshot{File: uint32(n.Span.File), Start: n.Span.Start, End: n.Span.End, Msg: n.Msg}
		}
		snaps[i] = diagSnapshot{
			Severity:   uint8(d.Severity),
			Code:       uint16(d.Code),
			Message:    d.Message,
			File:       uint32(d.Primary.File),
			Start:      d.Primary.Start,
			End:        d.Primary.End,
			Notes:      notes,
			Suggestion: uint8(d.Suggestion),
		}
	}
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(snaps); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeDiagnostics(data []byte) (*diag.Bag, error) {
	var snaps []diagSnapshot
	if len(data) > 0 {
		if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&snaps); err != nil {
			return nil, err
		}
	}
	bag := diag.NewBag(0)
	for _, s := range snaps {
		d := diag.Diagnostic{
			Severity:   diag.Severity(s.Severity),
			Code:       diag.Code(s.Code),
			Message:    s.Message,
			Primary:    spanFrom(s.File, s.Start, s.End),
			Suggestion: diag.Suggestion(s.Suggestion),
		}
		for _, n := range s.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: spanFrom(n.File, n.Start, n.End), Msg: n.Msg})
		}
		bag.Add(d)
	}
	return bag, nil
}
