package source

import "crypto/sha256"

// FileID uniquely identifies a source file within a FileSet.
type FileID uint32

// NoFileID marks the absence of a file reference.
const NoFileID FileID = 0

// IsValid reports whether the id refers to a registered file.
func (id FileID) IsValid() bool { return id != NoFileID }

// File captures the content and line index of a single translation unit.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offset of the start of each line; LineIdx[0] == 0
	Hash    [32]byte
}

// LineCol is a 1-based human-readable position.
type LineCol struct {
	Line uint32
	Col  uint32
}

// FileSet owns every source file loaded during one compiler invocation.
// A fresh FileSet is created per invocation: there is no shared
// mutable state between runs.
type FileSet struct {
	files []File // index 0 is the NoFileID sentinel
}

// NewFileSet returns an empty file set.
func NewFileSet() *FileSet {
	return &FileSet{files: []File{{}}}
}

// AddFile registers content under path and returns its FileID.
func (fs *FileSet) AddFile(path string, content []byte) FileID {
	id := FileID(len(fs.files))
	f := File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: indexLines(content),
		Hash:    sha256.Sum256(content),
	}
	fs.files = append(fs.files, f)
	return id
}

// Get returns the file registered under id, or nil if id is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if fs == nil || !id.IsValid() || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

func indexLines(content []byte) []uint32 {
	idx := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i+1))
		}
	}
	return idx
}

// Position converts a byte offset into a 1-based line/column pair.
func (f *File) Position(offset uint32) LineCol {
	if f == nil || len(f.LineIdx) == 0 {
		return LineCol{Line: 1, Col: 1}
	}
	lo, hi := 0, len(f.LineIdx)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.LineIdx[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := uint32(lo + 1)
	col := offset - f.LineIdx[lo] + 1
	return LineCol{Line: line, Col: col}
}

// LineText returns the raw bytes of the given 1-based line, without its
// trailing newline.
func (f *File) LineText(line uint32) []byte {
	if f == nil || line == 0 || int(line) > len(f.LineIdx) {
		return nil
	}
	start := f.LineIdx[line-1]
	var end uint32
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line] - 1
	} else {
		end = uint32(len(f.Content))
	}
	if end > uint32(len(f.Content)) {
		end = uint32(len(f.Content))
	}
	if start > end {
		return nil
	}
	return f.Content[start:end]
}
