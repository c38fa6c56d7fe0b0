package core

import (
	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/ident"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// Desugar walks one parsed file in source order and produces its Aegis
// Core Program, minting binding/allocation/lifetime/borrow ids as it
// goes; fresh identifier assignment is deterministic. Desugar
// never fails fatally: unrecognized ast nodes become Error nodes and the
// walk continues, so a single malformed construct never cascades.
func Desugar(ab *ast.Builder, in *source.Interner, types *typesys.Interner, bag *diag.Bag, file ast.FileID) *Program {
	d := &desugarer{
		ab: ab, in: in, types: types, bag: bag,
		prog: &Program{
			Exprs:     NewExprs(1 << 8),
			Stmts:     NewStmts(1 << 8),
			ItemArena: NewItems(1 << 6),
			Bindings:  ident.NewBindings(1 << 6),
			Allocs:    ident.NewAllocs(1 << 5),
			Lifetimes: ident.NewLifetimes(1 << 5),
			Borrows:   ident.NewBorrows(1 << 5),
			Functions: make(map[source.StringID]ItemID),
		},
		fnNames: make(map[source.StringID]struct{}),
	}
	f := ab.Files.Get(file)
	if f == nil {
		return d.prog
	}
	// Pre-scan function names so a call to a function declared later in
	// the file still resolves instead of reading as an undeclared
	// identifier.
	for _, it := range f.Items {
		if item := ab.Items.Get(it); item != nil && item.Kind == ast.ItemFn {
			d.fnNames[item.Name] = struct{}{}
		}
	}
	for _, it := range f.Items {
		id := d.convertItem(it)
		if id.IsValid() {
			d.prog.Items = append(d.prog.Items, id)
		}
	}
	return d.prog
}

type desugarer struct {
	ab    *ast.Builder
	in    *source.Interner
	types *typesys.Interner
	bag   *diag.Bag
	prog  *Program

	scopes    []map[source.StringID]ident.BindingID
	lifetimes []ident.LifetimeID
	fnNames   map[source.StringID]struct{}
}

func (d *desugarer) pushScope() {
	d.scopes = append(d.scopes, make(map[source.StringID]ident.BindingID))
}

func (d *desugarer) popScope() {
	d.scopes = d.scopes[:len(d.scopes)-1]
}

func (d *desugarer) declare(name source.StringID, id ident.BindingID) {
	d.scopes[len(d.scopes)-1][name] = id
}

func (d *desugarer) resolve(name source.StringID) (ident.BindingID, bool) {
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if id, ok := d.scopes[i][name]; ok {
			return id, true
		}
	}
	return ident.NoBindingID, false
}

func (d *desugarer) currentLifetime() ident.LifetimeID {
	if len(d.lifetimes) == 0 {
		return ident.StaticLifetimeID
	}
	return d.lifetimes[len(d.lifetimes)-1]
}

func (d *desugarer) pushLifetime(span source.Span) ident.LifetimeID {
	lt := d.prog.Lifetimes.New(d.currentLifetime(), span)
	d.lifetimes = append(d.lifetimes, lt)
	return lt
}

func (d *desugarer) popLifetime() {
	d.lifetimes = d.lifetimes[:len(d.lifetimes)-1]
}

func (d *desugarer) resolveType(id ast.TypeID) typesys.TypeID {
	if !id.IsValid() {
		return typesys.NoTypeID
	}
	return typesys.Resolve(d.types, d.ab.Types, id)
}

func (d *desugarer) convertItem(id ast.ItemID) ItemID {
	it := d.ab.Items.Get(id)
	if it == nil {
		return NoItemID
	}
	switch it.Kind {
	case ast.ItemFn:
		d.pushScope()
		params := make([]ident.BindingID, 0, len(it.Params))
		for _, p := range it.Params {
			ty := d.resolveType(p.Type)
			bID := d.prog.Bindings.New(ident.BindingInfo{Name: p.Name, Type: ty, Mutable: true, Span: p.Span})
			d.declare(p.Name, bID)
			params = append(params, bID)
		}
		result := d.resolveType(it.Result)
		body := d.convertStmt(it.Body)
		d.popScope()
		fnID := d.prog.ItemArena.New(Item{
			Kind: ItemFn, Span: it.Span, Name: it.Name, Params: params, Result: result, Body: body,
		})
		d.prog.Functions[it.Name] = fnID
		return fnID
	case ast.ItemStruct:
		fields := make([]StructField, 0, len(it.Fields))
		for _, f := range it.Fields {
			fields = append(fields, StructField{Name: f.Name, Type: d.resolveType(f.Type), Span: f.Span})
		}
		d.types.Struct(it.Name) // registers the nominal type once
		return d.prog.ItemArena.New(Item{Kind: ItemStruct, Span: it.Span, Name: it.Name, Fields: fields})
	case ast.ItemEnum:
		d.types.Enum(it.Name)
		return d.prog.ItemArena.New(Item{Kind: ItemEnum, Span: it.Span, Name: it.Name, Variants: it.Variants})
	default:
		d.bag.Add(diag.NewError(diag.E0UnsupportedConstruct, it.Span, "declaration form is not accepted in v0").
			WithNote(it.Span, "desugar cannot classify this declaration").
			WithSuggestion(diag.SuggestRewriteAsIndexedSlice))
		return d.prog.ItemArena.New(Item{Kind: ItemErrorDecl, Span: it.Span})
	}
}

func (d *desugarer) convertStmt(id ast.StmtID) StmtID {
	s := d.ab.Stmts.Get(id)
	if s == nil {
		return NoStmtID
	}
	switch s.Kind {
	case ast.StmtBlock:
		lt := d.pushLifetime(s.Span)
		d.pushScope()
		stmts := d.convertStmtList(s.Stmts)
		d.popScope()
		d.popLifetime()
		return d.prog.Stmts.New(Stmt{Kind: StmtBlock, Span: s.Span, Stmts: stmts, Lifetime: lt})

	case ast.StmtUnsafe:
		lt := d.pushLifetime(s.Span)
		d.pushScope()
		stmts := d.convertStmtList(s.Stmts)
		d.popScope()
		d.popLifetime()
		return d.prog.Stmts.New(Stmt{Kind: StmtUnsafe, Span: s.Span, Stmts: stmts, Lifetime: lt})

	case ast.StmtLet:
		ty := d.resolveType(s.LetType)
		bID := d.prog.Bindings.New(ident.BindingInfo{Name: s.LetName, Type: ty, Mutable: s.LetMut, Span: s.Span})
		var init ExprID = NoExprID
		if s.LetInit.IsValid() {
			init = d.convertExpr(s.LetInit)
		}
		d.declare(s.LetName, bID)
		return d.prog.Stmts.New(Stmt{Kind: StmtLet, Span: s.Span, LetBinding: bID, LetInit: init})

	case ast.StmtExpr:
		v := d.convertExpr(s.ExprValue)
		return d.prog.Stmts.New(Stmt{Kind: StmtExprStmt, Span: s.Span, ExprValue: v})

	case ast.StmtIf:
		cond := d.convertExpr(s.Cond)
		then := d.convertStmt(s.Then)
		var els StmtID = NoStmtID
		if s.Else.IsValid() {
			els = d.convertStmt(s.Else)
		}
		return d.prog.Stmts.New(Stmt{Kind: StmtIf, Span: s.Span, Cond: cond, Then: then, Else: els})

	case ast.StmtWhile:
		cond := d.convertExpr(s.Cond)
		body := d.convertStmt(s.Body)
		return d.prog.Stmts.New(Stmt{Kind: StmtWhile, Span: s.Span, Cond: cond, Body: body})

	case ast.StmtFor:
		return d.desugarFor(s)

	case ast.StmtReturn:
		var v ExprID = NoExprID
		if s.ExprValue.IsValid() {
			v = d.convertExpr(s.ExprValue)
		}
		return d.prog.Stmts.New(Stmt{Kind: StmtReturn, Span: s.Span, ExprValue: v})

	case ast.StmtBreak:
		return d.prog.Stmts.New(Stmt{Kind: StmtBreak, Span: s.Span})

	case ast.StmtContinue:
		return d.prog.Stmts.New(Stmt{Kind: StmtContinue, Span: s.Span})

	default:
		return d.prog.Stmts.New(Stmt{Kind: StmtErrorStmt, Span: s.Span})
	}
}

func (d *desugarer) convertStmtList(ids []ast.StmtID) []StmtID {
	var out []StmtID
	for _, id := range ids {
		conv := d.convertStmt(id)
		if conv.IsValid() {
			out = append(out, conv)
		}
	}
	return out
}

// desugarFor rewrites `for (init; cond; step) body` to
// `{ init; while (cond) { body; step; } }`, minting one lifetime
// for the outer scope (so `init`'s bindings are visible to cond/body/
// step but die at the loop's closing brace) and a nested one for the
// while's own body block.
func (d *desugarer) desugarFor(s *ast.Stmt) StmtID {
	outerLT := d.pushLifetime(s.Span)
	d.pushScope()

	var initStmt StmtID = NoStmtID
	if s.ForInit.IsValid() {
		initStmt = d.convertStmt(s.ForInit)
	}
	var cond ExprID = NoExprID
	if s.Cond.IsValid() {
		cond = d.convertExpr(s.Cond)
	}
	bodyStmt := d.convertStmt(s.Body)
	var postStmt StmtID = NoStmtID
	if s.ForPost.IsValid() {
		postStmt = d.convertStmt(s.ForPost)
	}

	innerLT := d.pushLifetime(s.Span)
	var innerStmts []StmtID
	if bodyStmt.IsValid() {
		innerStmts = append(innerStmts, bodyStmt)
	}
	if postStmt.IsValid() {
		innerStmts = append(innerStmts, postStmt)
	}
	whileBody := d.prog.Stmts.New(Stmt{Kind: StmtBlock, Span: s.Span, Stmts: innerStmts, Lifetime: innerLT})
	d.popLifetime()

	whileStmt := d.prog.Stmts.New(Stmt{Kind: StmtWhile, Span: s.Span, Cond: cond, Body: whileBody})

	var outer []StmtID
	if initStmt.IsValid() {
		outer = append(outer, initStmt)
	}
	outer = append(outer, whileStmt)

	d.popScope()
	d.popLifetime()
	return d.prog.Stmts.New(Stmt{Kind: StmtBlock, Span: s.Span, Stmts: outer, Lifetime: outerLT})
}

func (d *desugarer) convertExpr(id ast.ExprID) ExprID {
	e := d.ab.Exprs.Get(id)
	if e == nil {
		return NoExprID
	}
	switch e.Kind {
	case ast.ExprIdent:
		bID, ok := d.resolve(e.Name)
		if !ok {
			if _, isFn := d.fnNames[e.Name]; isFn {
				return d.prog.Exprs.New(Expr{Kind: FnRef, Span: e.Span, FnName: e.Name})
			}
			d.bag.Add(diag.NewError(diag.E0SynUnexpectedToken, e.Span, "use of an undeclared identifier").
				WithNote(e.Span, "no enclosing declaration binds this name").
				WithSuggestion(diag.SuggestIntroduceExplicitMove))
			return d.prog.Exprs.New(Expr{Kind: ErrorExpr, Span: e.Span})
		}
		return d.prog.Exprs.New(Expr{Kind: Var, Span: e.Span, Binding: bID})

	case ast.ExprIntLit:
		return d.prog.Exprs.New(Expr{Kind: Literal, Span: e.Span, LitKind: LitInt, Text: e.Text})
	case ast.ExprStringLit:
		return d.prog.Exprs.New(Expr{Kind: Literal, Span: e.Span, LitKind: LitString, Text: e.Text})
	case ast.ExprBoolLit:
		return d.prog.Exprs.New(Expr{Kind: Literal, Span: e.Span, LitKind: LitBool, Bool: e.Bool})

	case ast.ExprCall:
		callee := d.convertExpr(e.Callee)
		args := make([]ExprID, len(e.Args))
		for i, a := range e.Args {
			args[i] = d.convertExpr(a)
		}
		return d.prog.Exprs.New(Expr{Kind: Call, Span: e.Span, Callee: callee, Args: args})

	case ast.ExprBinary:
		if e.BinOp == ast.BinAssign {
			place := d.convertExpr(e.Lhs)
			value := d.convertExpr(e.Rhs)
			return d.prog.Exprs.New(Expr{Kind: Assign, Span: e.Span, Place: place, Value: value})
		}
		lhs := d.convertExpr(e.Lhs)
		rhs := d.convertExpr(e.Rhs)
		return d.prog.Exprs.New(Expr{Kind: BinOp, Span: e.Span, BinOp: e.BinOp, Lhs: lhs, Rhs: rhs})

	case ast.ExprUnary:
		operand := d.convertExpr(e.Operand)
		return d.prog.Exprs.New(Expr{Kind: UnOp, Span: e.Span, UnOp: e.UnOp, Operand: operand})

	case ast.ExprGroup:
		return d.convertExpr(e.Target)

	case ast.ExprIndex:
		base := d.convertExpr(e.Base)
		idx := d.convertExpr(e.Index)
		return d.prog.Exprs.New(Expr{Kind: Index, Span: e.Span, Base: base, Index: idx})

	case ast.ExprField:
		base := d.convertExpr(e.Base)
		return d.prog.Exprs.New(Expr{Kind: Field, Span: e.Span, Base: base, FieldName: e.Name})

	case ast.ExprAddrOf:
		place := d.convertExpr(e.Target)
		bID := d.prog.Borrows.New(ident.BorrowInfo{Kind: ident.BorrowShared, Lifetime: d.currentLifetime(), Span: e.Span})
		return d.prog.Exprs.New(Expr{Kind: BorrowShared, Span: e.Span, Operand: place, Borrow: bID})

	case ast.ExprDeref:
		operand := d.convertExpr(e.Target)
		return d.prog.Exprs.New(Expr{Kind: Deref, Span: e.Span, Operand: operand})

	case ast.ExprAlloc:
		elemTy := d.resolveType(e.AllocElem)
		slice := e.AllocCount.IsValid()
		var count ExprID = NoExprID
		if slice {
			count = d.convertExpr(e.AllocCount)
		}
		aID := d.prog.Allocs.New(ident.AllocInfo{ElemType: elemTy, Slice: slice, Span: e.Span})
		return d.prog.Exprs.New(Expr{Kind: Alloc, Span: e.Span, AllocElem: elemTy, AllocCount: count, Alloc: aID})

	case ast.ExprBorrow:
		place := d.convertExpr(e.Target)
		bID := d.prog.Borrows.New(ident.BorrowInfo{Kind: ident.BorrowShared, Lifetime: d.currentLifetime(), Span: e.Span})
		return d.prog.Exprs.New(Expr{Kind: BorrowShared, Span: e.Span, Operand: place, Borrow: bID})

	case ast.ExprMutBorrow:
		place := d.convertExpr(e.Target)
		bID := d.prog.Borrows.New(ident.BorrowInfo{Kind: ident.BorrowUnique, Lifetime: d.currentLifetime(), Span: e.Span})
		return d.prog.Exprs.New(Expr{Kind: BorrowMut, Span: e.Span, Operand: place, Borrow: bID})

	case ast.ExprReleaseBorrow:
		place := d.convertExpr(e.Target)
		// Which borrow this releases isn't known until the checker walks
		// the binding's live borrow; Borrow stays NoBorrowID here and the
		// checker resolves it from Operand's current ledger entry.
		return d.prog.Exprs.New(Expr{Kind: ReleaseBorrow, Span: e.Span, Operand: place})

	case ast.ExprMove:
		place := d.convertExpr(e.Target)
		return d.prog.Exprs.New(Expr{Kind: Move, Span: e.Span, Operand: place})

	case ast.ExprError:
		return d.prog.Exprs.New(Expr{Kind: ErrorExpr, Span: e.Span})

	default:
		d.bag.Add(diag.NewError(diag.E0UnsupportedConstruct, e.Span, "expression form is not accepted in v0").
			WithNote(e.Span, "desugar cannot classify this expression").
			WithSuggestion(diag.SuggestRewriteAsIndexedSlice))
		return d.prog.Exprs.New(Expr{Kind: ErrorExpr, Span: e.Span})
	}
}
