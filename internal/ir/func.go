package ir

import (
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// Func is one lowered function body: a CFG of basic blocks in SSA form.
type Func struct {
	ID     FuncID
	Name   source.StringID
	Span   source.Span
	Result typesys.TypeID
	Params []ValueID

	Blocks []Block
	Entry  BlockID

	nextValue ValueID
	nextBlock BlockID
}

// newValue mints the next dense ValueID for this function.
func (f *Func) newValue() ValueID {
	f.nextValue++
	return f.nextValue
}

// newBlock appends and returns a fresh, unterminated Block.
func (f *Func) newBlock() *Block {
	f.nextBlock++
	f.Blocks = append(f.Blocks, Block{ID: f.nextBlock})
	return &f.Blocks[len(f.Blocks)-1]
}

// block returns a pointer to the block with the given id, or nil.
func (f *Func) block(id BlockID) *Block {
	for i := range f.Blocks {
		if f.Blocks[i].ID == id {
			return &f.Blocks[i]
		}
	}
	return nil
}
