// Package ast holds the parse tree for Aegis C's surface grammar: a
// restricted C subset extended with own<T>/view<T>/mut/raw pointer
// syntax and the borrow/move/alloc intrinsics.
package ast

import "github.com/geeknik/aegis-c-compiler/internal/source"

type (
	FileID uint32
	ItemID uint32
	StmtID uint32
	ExprID uint32
	TypeID uint32
)

const (
	NoFileID FileID = 0
	NoItemID ItemID = 0
	NoStmtID StmtID = 0
	NoExprID ExprID = 0
	NoTypeID TypeID = 0
)

func (id FileID) IsValid() bool { return id != NoFileID }
func (id ItemID) IsValid() bool { return id != NoItemID }
func (id StmtID) IsValid() bool { return id != NoStmtID }
func (id ExprID) IsValid() bool { return id != NoExprID }
func (id TypeID) IsValid() bool { return id != NoTypeID }

// StringID re-exports the interner's handle so ast fields read naturally.
type StringID = source.StringID
