package ir

import "github.com/geeknik/aegis-c-compiler/internal/core"

// lowerExpr lowers one Core expression to the SSA operand that stands
// for its value, emitting whatever instructions producing that operand
// requires into fl.cur.
func (fl *fnLowerer) lowerExpr(id core.ExprID) Operand {
	e := fl.l.prog.Exprs.Get(id)
	if e == nil {
		return Operand{}
	}
	switch e.Kind {
	case core.Literal:
		switch e.LitKind {
		case core.LitInt:
			return Operand{Kind: OperandConst, Const: Const{Kind: ConstInt, Type: e.Type, Text: e.Text}}
		case core.LitBool:
			return Operand{Kind: OperandConst, Const: Const{Kind: ConstBool, Type: e.Type, Bool: e.Bool}}
		default:
			return Operand{}
		}

	case core.Var:
		if op, ok := fl.env[e.Binding]; ok {
			return op
		}
		return Operand{}

	case core.FnRef:
		// Only meaningful as a Call callee; lowerCall reads FnName off the
		// Core node directly rather than through this path.
		return Operand{}

	case core.Call:
		return fl.lowerCall(e)

	case core.UnOp:
		operand := fl.lowerExpr(e.Operand)
		return fl.emitResult(func(v ValueID) Instr {
			return Instr{Kind: InstrUnary, Dst: v, Unary: UnaryInstr{Op: e.UnOp, Operand: operand}}
		})

	case core.BinOp:
		lhs := fl.lowerExpr(e.Lhs)
		rhs := fl.lowerExpr(e.Rhs)
		if isComparisonOp(e.BinOp) {
			return fl.emitResult(func(v ValueID) Instr {
				return Instr{Kind: InstrCmp, Dst: v, Cmp: CmpInstr{Op: e.BinOp, Lhs: lhs, Rhs: rhs}}
			})
		}
		return fl.emitResult(func(v ValueID) Instr {
			return Instr{Kind: InstrArith, Dst: v, Arith: ArithInstr{Op: e.BinOp, Lhs: lhs, Rhs: rhs}}
		})

	case core.Deref:
		addr := fl.lowerExpr(e.Operand)
		eff := fl.effectOf(e.Operand, CapShared)
		return fl.emitResult(func(v ValueID) Instr {
			return Instr{Kind: InstrLoad, Dst: v, Load: LoadInstr{Addr: addr, Effect: eff}}
		})

	case core.Index:
		addr, eff := fl.lowerIndexAddr(e)
		return fl.emitResult(func(v ValueID) Instr {
			return Instr{Kind: InstrLoad, Dst: v, Load: LoadInstr{Addr: addr, Effect: eff}}
		})

	case core.Field:
		addr, eff := fl.lowerFieldAddr(e)
		return fl.emitResult(func(v ValueID) Instr {
			return Instr{Kind: InstrLoad, Dst: v, Load: LoadInstr{Addr: addr, Effect: eff}}
		})

	case core.Assign:
		val := fl.lowerExpr(e.Value)
		fl.lowerAssignPlace(e.Place, val)
		return val

	case core.Alloc:
		var count Operand
		hasCount := e.AllocCount.IsValid()
		if hasCount {
			count = fl.lowerExpr(e.AllocCount)
		}
		alloc := e.Alloc
		elem := e.AllocElem
		return fl.emitResult(func(v ValueID) Instr {
			return Instr{Kind: InstrAlloc, Dst: v, Alloc: AllocInstr{Alloc: alloc, ElemType: elem, Count: count, HasCount: hasCount}}
		})

	case core.BorrowShared, core.BorrowMut:
		// Borrows attach a capability descriptor to an SSA value,
		// they emit no instructions of their own.
		return fl.lowerExpr(e.Operand)

	case core.ReleaseBorrow:
		fl.lowerExpr(e.Operand)
		return Operand{}

	case core.Move:
		return fl.lowerExpr(e.Operand)

	case core.PtrOffset:
		base := fl.lowerExpr(e.Base)
		offset := fl.lowerExpr(e.Index)
		return fl.emitResult(func(v ValueID) Instr {
			return Instr{Kind: InstrGep, Dst: v, Gep: GepInstr{Base: base, Index: offset}}
		})

	case core.BoundsNarrow:
		base := fl.lowerExpr(e.Base)
		start := fl.lowerExpr(e.NarrowStart)
		length := fl.lowerExpr(e.NarrowLen)
		return fl.emitResult(func(v ValueID) Instr {
			return Instr{Kind: InstrBoundsNarrow, Dst: v, BoundsNarrow: BoundsNarrowInstr{Base: base, Start: start, Len: length}}
		})

	default:
		return Operand{}
	}
}

// lowerIndexAddr computes the narrowed address Core's Index(base, i)
// resolves to: a gep by i followed by an unconditional bounds_narrow.
// No runtime bounds check is emitted — by the time lowering runs the
// checker has already proven the access in range.
func (fl *fnLowerer) lowerIndexAddr(e *core.Expr) (Operand, Effect) {
	base := fl.lowerExpr(e.Base)
	idx := fl.lowerExpr(e.Index)
	gep := fl.emitResult(func(v ValueID) Instr {
		return Instr{Kind: InstrGep, Dst: v, Gep: GepInstr{Base: base, Index: idx}}
	})
	narrowed := fl.emitResult(func(v ValueID) Instr {
		return Instr{Kind: InstrBoundsNarrow, Dst: v, BoundsNarrow: BoundsNarrowInstr{Base: gep, Start: idx, Len: intConstOperand(1)}}
	})
	return narrowed, fl.effectOf(e.Base, CapShared)
}

func (fl *fnLowerer) lowerFieldAddr(e *core.Expr) (Operand, Effect) {
	base := fl.lowerExpr(e.Base)
	if fl.l.in.MustLookup(e.FieldName) == "len" {
		// The `.len` accessor on own<[T]>/view<T> reads slice length
		// metadata, not a declared struct field (mirrors the checker's own
		// special-case in bindInductionVariable).
		g := fl.emitResult(func(v ValueID) Instr {
			return Instr{Kind: InstrGep, Dst: v, Gep: GepInstr{Base: base, IsField: true, IsLen: true}}
		})
		return g, fl.effectOf(e.Base, CapShared)
	}
	baseExpr := fl.l.prog.Exprs.Get(e.Base)
	var fieldIdx uint32
	if baseExpr != nil {
		fieldIdx = fl.l.fieldIndex(baseExpr.Type, e.FieldName)
	}
	gep := fl.emitResult(func(v ValueID) Instr {
		return Instr{Kind: InstrGep, Dst: v, Gep: GepInstr{Base: base, IsField: true, FieldIndex: fieldIdx}}
	})
	return gep, fl.effectOf(e.Base, CapShared)
}

func (fl *fnLowerer) lowerCall(e *core.Expr) Operand {
	callee := fl.l.prog.Exprs.Get(e.Callee)
	var callInstr CallInstr
	if callee != nil && callee.Kind == core.FnRef {
		callInstr.Callee = callee.FnName
	}
	for _, a := range e.Args {
		callInstr.Args = append(callInstr.Args, fl.lowerExpr(a))
	}
	callInstr.HasResult = e.Type.IsValid()
	return fl.emitResult(func(v ValueID) Instr {
		return Instr{Kind: InstrCall, Dst: v, Call: callInstr}
	})
}

// lowerAssignPlace stores val through the address place resolves to,
// or — for a bare Var place — simply rebinds the SSA value the rest of
// the function reads for that binding.
func (fl *fnLowerer) lowerAssignPlace(placeID core.ExprID, val Operand) {
	place := fl.l.prog.Exprs.Get(placeID)
	if place == nil {
		return
	}
	switch place.Kind {
	case core.Var:
		fl.env[place.Binding] = val

	case core.Deref:
		addr := fl.lowerExpr(place.Operand)
		eff := fl.effectOf(place.Operand, CapUnique)
		fl.emit(Instr{Kind: InstrStore, Store: StoreInstr{Addr: addr, Value: val, Effect: eff}})

	case core.Index:
		addr, eff := fl.lowerIndexAddr(place)
		eff.Kind = CapUnique
		fl.emit(Instr{Kind: InstrStore, Store: StoreInstr{Addr: addr, Value: val, Effect: eff}})

	case core.Field:
		addr, eff := fl.lowerFieldAddr(place)
		eff.Kind = CapUnique
		fl.emit(Instr{Kind: InstrStore, Store: StoreInstr{Addr: addr, Value: val, Effect: eff}})
	}
}
