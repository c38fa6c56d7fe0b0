package ast

import "github.com/geeknik/aegis-c-compiler/internal/source"

// StmtKind tags the statement forms: blocks, let-bindings, the
// classic C control constructs, and the unsafe{} capability scope.
type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtLet
	StmtExpr
	StmtIf
	StmtWhile
	StmtFor
	StmtReturn
	StmtBreak
	StmtContinue
	StmtUnsafe
	StmtError
)

type Stmt struct {
	Kind StmtKind
	Span source.Span

	Stmts []StmtID // StmtBlock, StmtUnsafe body

	LetName StringID // StmtLet
	LetType TypeID   // NoTypeID if elided
	LetInit ExprID   // NoExprID if uninitialized
	LetMut  bool

	ExprValue ExprID // StmtExpr, StmtReturn (NoExprID for bare return)

	Cond ExprID  // StmtIf, StmtWhile, StmtFor
	Then StmtID  // StmtIf
	Else StmtID  // StmtIf; NoStmtID if absent

	Body StmtID // StmtWhile, StmtFor

	ForInit StmtID // StmtFor; NoStmtID if absent
	ForPost StmtID // StmtFor; NoStmtID if absent
}

type Stmts struct {
	arena *Arena[Stmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{arena: NewArena[Stmt](capHint)}
}

func (s *Stmts) New(n Stmt) StmtID {
	return StmtID(s.arena.Allocate(n))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.arena.Get(uint32(id))
}

func (s *Stmts) Len() uint32 { return s.arena.Len() }
