package core

import (
	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/ident"
	"github.com/geeknik/aegis-c-compiler/internal/source"
)

// StmtKind enumerates the Core statement forms. Block/If/While/Return/
// UnsafeBlock are the core node set; Let and ExprStmt are
// the statement-level scaffolding a working tree needs but the node-set
// bullet list (which only enumerates expressions) doesn't spell out.
type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtLet
	StmtExprStmt
	StmtIf
	StmtWhile
	StmtReturn
	StmtBreak
	StmtContinue
	StmtUnsafe
	StmtErrorStmt
)

// Stmt is one Core statement node.
type Stmt struct {
	Kind StmtKind
	Span source.Span

	Stmts    []StmtID        // StmtBlock, StmtUnsafe
	Lifetime ident.LifetimeID // StmtBlock, StmtUnsafe: the scope's own lifetime

	LetBinding ident.BindingID // StmtLet
	LetInit    ExprID          // StmtLet; NoExprID if declared without an initializer

	ExprValue ExprID // StmtExprStmt, StmtReturn (NoExprID for a bare return)

	Cond ExprID // StmtIf, StmtWhile
	Then StmtID // StmtIf
	Else StmtID // StmtIf; NoStmtID if absent

	Body StmtID // StmtWhile
}

// StmtID names one node in the Stmts arena. NoStmtID is invalid.
type StmtID uint32

const NoStmtID StmtID = 0

func (id StmtID) IsValid() bool { return id != NoStmtID }

type Stmts struct {
	arena *ast.Arena[Stmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{arena: ast.NewArena[Stmt](capHint)}
}

func (s *Stmts) New(n Stmt) StmtID {
	return StmtID(s.arena.Allocate(n))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.arena.Get(uint32(id))
}

func (s *Stmts) Len() uint32 { return s.arena.Len() }
