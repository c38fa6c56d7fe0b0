package ir

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/core"
	"github.com/geeknik/aegis-c-compiler/internal/ident"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// lowerer holds the tables shared across every function lowered from one
// Core translation unit — read-only, the same split checker.Checker
// draws between shared tables and per-path state.
type lowerer struct {
	prog         *core.Program
	types        *typesys.Interner
	in           *source.Interner
	structFields map[source.StringID][]core.StructField
}

// Lower translates a well-typed, diagnostic-free Core program into
// AegisIR. Callers are expected to only invoke this after a
// sema.Check pass produced an empty diag.Bag — Lower
// itself never rejects a program, it assumes every access it lowers was
// already proven safe.
func Lower(prog *core.Program, types *typesys.Interner, in *source.Interner) *Module {
	l := &lowerer{
		prog: prog, types: types, in: in,
		structFields: make(map[source.StringID][]core.StructField),
	}
	for _, id := range prog.Items {
		it := prog.ItemArena.Get(id)
		if it != nil && it.Kind == core.ItemStruct {
			l.structFields[it.Name] = it.Fields
		}
	}
	mod := &Module{}
	var next FuncID
	for _, id := range prog.Items {
		it := prog.ItemArena.Get(id)
		if it == nil || it.Kind != core.ItemFn {
			continue
		}
		next++
		mod.Funcs = append(mod.Funcs, l.lowerFn(next, it))
	}
	return mod
}

// fnLowerer is the per-function analogue of sema's state: env maps each
// live binding to its current SSA value, cloned at branches and merged
// with phi insertion at joins, the standard structured-control-flow
// SSA construction.
type fnLowerer struct {
	l   *lowerer
	f   *Func
	cur *Block

	env     map[ident.BindingID]Operand
	allocOf map[ident.BindingID]ident.AllocID
}

func (l *lowerer) lowerFn(id FuncID, it *core.Item) Func {
	f := &Func{ID: id, Name: it.Name, Span: it.Span, Result: it.Result}
	entry := f.newBlock()
	f.Entry = entry.ID

	fl := &fnLowerer{
		l: l, f: f, cur: entry,
		env:     make(map[ident.BindingID]Operand),
		allocOf: make(map[ident.BindingID]ident.AllocID),
	}
	var declared []ident.BindingID
	for _, p := range it.Params {
		v := f.newValue()
		fl.env[p] = valueOperand(v)
		f.Params = append(f.Params, v)
		if info, ok := l.prog.Bindings.Get(p); ok {
			if t, ok := l.types.Lookup(info.Type); ok && (t.Kind == typesys.KindOwn || t.Kind == typesys.KindOwnSlice) {
				fl.allocOf[p] = ident.StaticAllocID
			}
		}
		declared = append(declared, p)
	}
	fl.lowerStmt(it.Body)
	if !fl.cur.Terminated() {
		fl.cur.Term = Terminator{Kind: TermReturn}
	}
	return *f
}

func (fl *fnLowerer) emitResult(mk func(v ValueID) Instr) Operand {
	v := fl.f.newValue()
	fl.cur.Instrs = append(fl.cur.Instrs, mk(v))
	return valueOperand(v)
}

func (fl *fnLowerer) emit(i Instr) {
	fl.cur.Instrs = append(fl.cur.Instrs, i)
}

func cloneEnv(env map[ident.BindingID]Operand) map[ident.BindingID]Operand {
	out := make(map[ident.BindingID]Operand, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}

// lowerStmt lowers one Core statement, threading fl.cur/fl.env forward.
func (fl *fnLowerer) lowerStmt(id core.StmtID) {
	s := fl.l.prog.Stmts.Get(id)
	if s == nil {
		return
	}
	switch s.Kind {
	case core.StmtBlock, core.StmtUnsafe:
		fl.lowerBlock(s)

	case core.StmtLet:
		var op Operand
		if s.LetInit.IsValid() {
			op = fl.lowerExpr(s.LetInit)
			if alloc, ok := fl.allocOfExpr(s.LetInit); ok {
				fl.allocOf[s.LetBinding] = alloc
			}
		}
		fl.env[s.LetBinding] = op

	case core.StmtExprStmt:
		fl.lowerExpr(s.ExprValue)

	case core.StmtIf:
		fl.lowerIf(s)

	case core.StmtWhile:
		fl.lowerWhile(s)

	case core.StmtReturn:
		var ret ReturnTerm
		if s.ExprValue.IsValid() {
			ret.HasValue = true
			ret.Value = fl.lowerExpr(s.ExprValue)
		}
		if !fl.cur.Terminated() {
			fl.cur.Term = Terminator{Kind: TermReturn, Return: ret}
		}

	case core.StmtBreak, core.StmtContinue, core.StmtErrorStmt:
		// Nothing is lowered for these: break and continue emit no
		// instruction and no terminator.
	}
}

// lowerBlock lowers a block's statements in order, then emits drop
// instructions in reverse declaration order for every binding this
// block owns an allocation for.
func (fl *fnLowerer) lowerBlock(s *core.Stmt) {
	var declared []ident.BindingID
	for _, child := range s.Stmts {
		if cs := fl.l.prog.Stmts.Get(child); cs != nil && cs.Kind == core.StmtLet {
			declared = append(declared, cs.LetBinding)
		}
		fl.lowerStmt(child)
	}
	if fl.cur.Terminated() {
		return
	}
	for i := len(declared) - 1; i >= 0; i-- {
		b := declared[i]
		if alloc, ok := fl.allocOf[b]; ok {
			fl.emit(Instr{Kind: InstrDrop, Drop: DropInstr{Alloc: alloc}})
		}
		delete(fl.allocOf, b)
	}
}

func (fl *fnLowerer) lowerIf(s *core.Stmt) {
	f := fl.f
	cond := fl.lowerExpr(s.Cond)
	thenBlock := f.newBlock()
	elseBlock := f.newBlock()
	fl.cur.Term = Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: thenBlock.ID, Else: elseBlock.ID}}

	baseEnv := fl.env

	fl.cur = thenBlock
	fl.env = cloneEnv(baseEnv)
	fl.lowerStmt(s.Then)
	thenEnd, thenEnv := fl.cur, fl.env

	fl.cur = elseBlock
	fl.env = cloneEnv(baseEnv)
	if s.Else.IsValid() {
		fl.lowerStmt(s.Else)
	}
	elseEnd, elseEnv := fl.cur, fl.env

	if !thenEnd.Terminated() && !elseEnd.Terminated() {
		merge := f.newBlock()
		thenEnd.Term = Terminator{Kind: TermGoto, Goto: GotoTerm{Target: merge.ID}}
		elseEnd.Term = Terminator{Kind: TermGoto, Goto: GotoTerm{Target: merge.ID}}
		fl.cur = merge
		fl.env = fl.mergeEnvs(merge, thenEnd.ID, thenEnv, elseEnd.ID, elseEnv)
		return
	}
	// One arm diverged (return/break/continue): the other arm's end state
	// is the only surviving path, no phi needed.
	switch {
	case !thenEnd.Terminated():
		fl.cur, fl.env = thenEnd, thenEnv
	case !elseEnd.Terminated():
		fl.cur, fl.env = elseEnd, elseEnv
	default:
		// Both arms diverged. Any statement lowered after this point is
		// unreachable and is
		// appended to a fresh, never-linked-to block so it doesn't corrupt
		// the terminated one.
		fl.cur = f.newBlock()
		fl.env = baseEnv
	}
}

// mergeEnvs builds one phi per binding whose value differs between the
// two incoming branches, the join half of the clone/join pattern
// applied to SSA values instead of ownership state.
func (fl *fnLowerer) mergeEnvs(merge *Block, aBlock BlockID, a map[ident.BindingID]Operand, bBlock BlockID, b map[ident.BindingID]Operand) map[ident.BindingID]Operand {
	out := make(map[ident.BindingID]Operand, len(a))
	for k, av := range a {
		bv, ok := b[k]
		if !ok || operandsEqual(av, bv) {
			out[k] = av
			continue
		}
		v := fl.f.newValue()
		merge.Instrs = append(merge.Instrs, Instr{Kind: InstrPhi, Dst: v, Phi: PhiInstr{Incoming: []PhiEdge{
			{Block: aBlock, Value: av},
			{Block: bBlock, Value: bv},
		}}})
		out[k] = valueOperand(v)
	}
	return out
}

func operandsEqual(a, b Operand) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == OperandValue {
		return a.Value == b.Value
	}
	return a.Const == b.Const
}

// lowerWhile lowers a Core while-loop into a header block carrying one
// phi per binding live at loop entry, a body block that back-edges to
// the header, and an exit block. Every binding live before the loop
// gets a header phi unconditionally; this is more conservative than a
// precise def-use analysis would be, but sound, in the same spirit as
// a simple structured-control-flow pass over a general dataflow
// framework.
func (fl *fnLowerer) lowerWhile(s *core.Stmt) {
	f := fl.f
	preheader := fl.cur
	preheaderEnv := fl.env

	header := f.newBlock()
	preheader.Term = Terminator{Kind: TermGoto, Goto: GotoTerm{Target: header.ID}}

	headerEnv := make(map[ident.BindingID]Operand, len(preheaderEnv))
	phiAt := make(map[ident.BindingID]int)
	for b, op := range preheaderEnv {
		v := f.newValue()
		phiAt[b] = len(header.Instrs)
		header.Instrs = append(header.Instrs, Instr{Kind: InstrPhi, Dst: v, Phi: PhiInstr{Incoming: []PhiEdge{
			{Block: preheader.ID, Value: op},
		}}})
		headerEnv[b] = valueOperand(v)
	}

	fl.cur = header
	fl.env = headerEnv
	cond := fl.lowerExpr(s.Cond)
	headerEnd := fl.cur

	body := f.newBlock()
	exit := f.newBlock()
	headerEnd.Term = Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: body.ID, Else: exit.ID}}

	fl.cur = body
	fl.env = cloneEnv(headerEnv)
	fl.lowerStmt(s.Body)
	bodyEnd, bodyEnv := fl.cur, fl.env
	if !bodyEnd.Terminated() {
		bodyEnd.Term = Terminator{Kind: TermGoto, Goto: GotoTerm{Target: header.ID}}
		for b, at := range phiAt {
			if v, ok := bodyEnv[b]; ok {
				instr := &header.Instrs[at]
				instr.Phi.Incoming = append(instr.Phi.Incoming, PhiEdge{Block: bodyEnd.ID, Value: v})
			}
		}
	}

	fl.cur = exit
	fl.env = headerEnv
}

func (fl *fnLowerer) allocOfExpr(exprID core.ExprID) (ident.AllocID, bool) {
	e := fl.l.prog.Exprs.Get(exprID)
	if e == nil {
		return ident.NoAllocID, false
	}
	switch e.Kind {
	case core.Alloc:
		return e.Alloc, true
	case core.Var:
		a, ok := fl.allocOf[e.Binding]
		return a, ok
	case core.Move:
		return fl.allocOfExpr(e.Operand)
	default:
		return ident.NoAllocID, false
	}
}

func (fl *fnLowerer) effectOf(exprID core.ExprID, kind CapKind) Effect {
	alloc, _ := fl.allocOfExpr(exprID)
	return Effect{Alloc: alloc, Kind: kind}
}

func isComparisonOp(op ast.BinOp) bool {
	switch op {
	case ast.BinEq, ast.BinNe, ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		return true
	default:
		return false
	}
}

func intConstOperand(n uint64) Operand {
	return Operand{Kind: OperandConst, Const: Const{Kind: ConstInt, Text: itoa(n)}}
}

// itoa avoids pulling in strconv for a single call site; loop lengths
// are always small.
func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func (l *lowerer) fieldIndex(baseType typesys.TypeID, fieldName source.StringID) uint32 {
	t, ok := l.types.Lookup(baseType)
	if !ok {
		return 0
	}
	fields := l.structFields[t.Name]
	for i, f := range fields {
		if f.Name == fieldName {
			idx, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("field index overflow: %w", err))
			}
			return idx
		}
	}
	return 0
}
