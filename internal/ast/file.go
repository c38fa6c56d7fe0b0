package ast

import "github.com/geeknik/aegis-c-compiler/internal/source"

// File is one parsed translation unit: its top-level item declarations in
// source order.
type File struct {
	Span  source.Span
	Items []ItemID
}

type Files struct {
	arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{arena: NewArena[File](capHint)}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.arena.Allocate(File{Span: sp}))
}

func (f *Files) Get(id FileID) *File {
	return f.arena.Get(uint32(id))
}
