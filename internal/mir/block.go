package mir

import "lilycore/internal/types"

// Block is one basic block: a name, a limit-id (the VM's per-call-frame
// BlockFrame slot index, spec.md §3 "Stack and frames"), and an ordered
// instruction list. Every block must end with jmp, jmp_cond, ret, or
// unreachable (spec.md §3 invariant), enforced by Function.Verify.
type Block struct {
	Name    string
	LimitID int
	Insts   []*Inst
}

func newBlock(name string, limitID int) *Block {
	return &Block{Name: name, LimitID: limitID}
}

func (b *Block) append(i *Inst) *Inst {
	b.Insts = append(b.Insts, i)
	return i
}

// Terminated reports whether b already ends with a terminator, mirroring
// the check vslc's src/ir/validate.go performs before appending to a
// block (a block may not have code after its exit).
func (b *Block) Terminated() bool {
	if len(b.Insts) == 0 {
		return false
	}
	switch b.Insts[len(b.Insts)-1].Kind {
	case KJmp, KJmpCond, KRet, KUnreachable:
		return true
	}
	return false
}

// --- Arithmetic / comparison builders -------------------------------

func (b *Block) CreateIAdd(t *types.CheckedDataType, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KIAdd, Type: t, Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateISub(t *types.CheckedDataType, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KISub, Type: t, Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateIMul(t *types.CheckedDataType, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KIMul, Type: t, Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateIDiv(t *types.CheckedDataType, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KIDiv, Type: t, Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateIRem(t *types.CheckedDataType, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KIRem, Type: t, Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateINeg(t *types.CheckedDataType, v *Inst) *Inst {
	return b.append(&Inst{Kind: KINeg, Type: t, Operands: []*Inst{v}})
}

func (b *Block) CreateFAdd(lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KFAdd, Type: types.New(types.KF64), Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateFSub(lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KFSub, Type: types.New(types.KF64), Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateFMul(lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KFMul, Type: types.New(types.KF64), Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateFDiv(lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KFDiv, Type: types.New(types.KF64), Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateFRem(lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KFRem, Type: types.New(types.KF64), Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateFNeg(v *Inst) *Inst {
	return b.append(&Inst{Kind: KFNeg, Type: types.New(types.KF64), Operands: []*Inst{v}})
}

var icmpKinds = map[string]Kind{"==": KICmpEq, "!=": KICmpNe, "<=": KICmpLe, "<": KICmpLt, ">=": KICmpGe, ">": KICmpGt}
var fcmpKinds = map[string]Kind{"==": KFCmpEq, "!=": KFCmpNe, "<=": KFCmpLe, "<": KFCmpLt, ">=": KFCmpGe, ">": KFCmpGt}

func (b *Block) CreateICmp(op string, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: icmpKinds[op], Type: types.New(types.KBool), Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateFCmp(op string, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: fcmpKinds[op], Type: types.New(types.KBool), Operands: []*Inst{lhs, rhs}})
}

// --- Bitops ----------------------------------------------------------

func (b *Block) CreateAnd(t *types.CheckedDataType, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KAnd, Type: t, Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateOr(t *types.CheckedDataType, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KOr, Type: t, Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateXor(t *types.CheckedDataType, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KXor, Type: t, Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateShl(t *types.CheckedDataType, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KShl, Type: t, Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateShr(t *types.CheckedDataType, lhs, rhs *Inst) *Inst {
	return b.append(&Inst{Kind: KShr, Type: t, Operands: []*Inst{lhs, rhs}})
}
func (b *Block) CreateNot(v *Inst) *Inst {
	return b.append(&Inst{Kind: KNot, Type: types.New(types.KBool), Operands: []*Inst{v}})
}

// --- Memory ------------------------------------------------------------

func (b *Block) CreateAlloc(t *types.CheckedDataType) *Inst {
	return b.append(&Inst{Kind: KAlloc, Type: t})
}
func (b *Block) CreateLoad(t *types.CheckedDataType, addr *Inst) *Inst {
	return b.append(&Inst{Kind: KLoad, Type: t, Base: addr})
}
func (b *Block) CreateStore(addr, val *Inst) *Inst {
	return b.append(&Inst{Kind: KStore, Type: types.Unit(), Base: addr, Operands: []*Inst{val}})
}
func (b *Block) CreateGetField(t *types.CheckedDataType, base *Inst, field string) *Inst {
	return b.append(&Inst{Kind: KGetField, Type: t, Base: base, Name: field})
}
func (b *Block) CreateGetPtr(t *types.CheckedDataType, base, idx *Inst) *Inst {
	return b.append(&Inst{Kind: KGetPtr, Type: t, Base: base, Index: idx})
}
func (b *Block) CreateGetArray(t *types.CheckedDataType, base, idx *Inst) *Inst {
	return b.append(&Inst{Kind: KGetArray, Type: t, Base: base, Index: idx})
}
func (b *Block) CreateGetList(t *types.CheckedDataType, base, idx *Inst) *Inst {
	return b.append(&Inst{Kind: KGetList, Type: t, Base: base, Index: idx})
}
func (b *Block) CreateGetSlice(t *types.CheckedDataType, base, lo, hi *Inst) *Inst {
	return b.append(&Inst{Kind: KGetSlice, Type: t, Base: base, Operands: []*Inst{lo, hi}})
}

// --- Sum-type producers --------------------------------------------------

func (b *Block) CreateRef(t *types.CheckedDataType, v *Inst) *Inst {
	return b.append(&Inst{Kind: KRef, Type: t, Operands: []*Inst{v}})
}
func (b *Block) CreateOptSome(t *types.CheckedDataType, v *Inst) *Inst {
	return b.append(&Inst{Kind: KOptSome, Type: t, Operands: []*Inst{v}})
}
func (b *Block) CreateOptNone(t *types.CheckedDataType) *Inst {
	return b.append(&Inst{Kind: KOptNone, Type: t})
}
func (b *Block) CreateErrOk(t *types.CheckedDataType, v *Inst) *Inst {
	return b.append(&Inst{Kind: KErrOk, Type: t, Operands: []*Inst{v}})
}
func (b *Block) CreateErrErr(t *types.CheckedDataType, v *Inst) *Inst {
	return b.append(&Inst{Kind: KErrErr, Type: t, Operands: []*Inst{v}})
}

// --- Calls ----------------------------------------------------------

func (b *Block) CreateCall(t *types.CheckedDataType, name string, args []*Inst) *Inst {
	return b.append(&Inst{Kind: KCall, Type: t, Name: name, Args: args})
}
func (b *Block) CreateBuiltinCall(t *types.CheckedDataType, name string, args []*Inst) *Inst {
	return b.append(&Inst{Kind: KBuiltinCall, Type: t, Name: name, Args: args})
}
func (b *Block) CreateSysCall(t *types.CheckedDataType, name string, args []*Inst) *Inst {
	return b.append(&Inst{Kind: KSysCall, Type: t, Name: name, Args: args})
}

// --- Control flow -----------------------------------------------------

// CreateJmp appends an unconditional jump and terminates b.
func (b *Block) CreateJmp(target string) *Inst {
	return b.append(&Inst{Kind: KJmp, Type: types.Unit(), Then: target})
}

// CreateJmpCond appends a conditional jump and terminates b.
func (b *Block) CreateJmpCond(cond *Inst, thenB, elseB string) *Inst {
	return b.append(&Inst{Kind: KJmpCond, Type: types.Unit(), Operands: []*Inst{cond}, Then: thenB, Else: elseB})
}

// CreateRet appends a return and terminates b.
func (b *Block) CreateRet(val *Inst) *Inst {
	return b.append(&Inst{Kind: KRet, Type: types.Unit(), RetVal: val})
}

// CreateSwitch appends a multi-way branch and terminates b.
func (b *Block) CreateSwitch(scrutinee *Inst, cases []SwitchCase, def string) *Inst {
	return b.append(&Inst{Kind: KSwitch, Type: types.Unit(), Operands: []*Inst{scrutinee}, Cases: cases, Else: def})
}

// CreateUnreachable appends the fatal sentinel spec.md §7 "VM taxonomy"
// names for inconsistent IR.
func (b *Block) CreateUnreachable() *Inst {
	return b.append(&Inst{Kind: KUnreachable, Type: types.Unit()})
}

// --- Bindings ---------------------------------------------------------

// CreateReg wraps inner in a named register binding (spec.md §4.5 "Non-
// terminator instructions may be nested inside a reg").
func (b *Block) CreateReg(name string, inner *Inst) *Inst {
	return b.append(&Inst{Kind: KReg, Type: inner.Type, Name: name, Inner: inner})
}
func (b *Block) CreateVar(t *types.CheckedDataType, name string) *Inst {
	return b.append(&Inst{Kind: KVar, Type: t, Name: name})
}
func (b *Block) CreateArg(t *types.CheckedDataType, name string) *Inst {
	return b.append(&Inst{Kind: KArg, Type: t, Name: name})
}

// CreateConst references a named constant, resolved at run time by
// scanning the stack for a matching instance (spec.md §4.5 "Constants are
// referred to by name and resolved by scanning the stack").
func (b *Block) CreateConst(t *types.CheckedDataType, name string) *Inst {
	return b.append(&Inst{Kind: KConst, Type: t, Name: name})
}

// CreateVal appends a literal value producer.
func (b *Block) CreateVal(t *types.CheckedDataType, data interface{}) *Inst {
	return b.append(&Inst{Kind: KVal, Type: t, Data: data})
}

// --- Misc --------------------------------------------------------------

func (b *Block) CreateTry(t *types.CheckedDataType, v *Inst) *Inst {
	return b.append(&Inst{Kind: KTry, Type: t, Operands: []*Inst{v}})
}
func (b *Block) CreateTryPtr(t *types.CheckedDataType, v *Inst) *Inst {
	return b.append(&Inst{Kind: KTryPtr, Type: t, Operands: []*Inst{v}})
}
func (b *Block) CreateIncTrace(v *Inst) *Inst {
	return b.append(&Inst{Kind: KIncTrace, Type: v.Type, Operands: []*Inst{v}})
}
func (b *Block) CreateTrunc(t *types.CheckedDataType, v *Inst) *Inst {
	return b.append(&Inst{Kind: KTrunc, Type: t, Operands: []*Inst{v}})
}
func (b *Block) CreateBitcast(t *types.CheckedDataType, v *Inst) *Inst {
	return b.append(&Inst{Kind: KBitcast, Type: t, Operands: []*Inst{v}})
}
func (b *Block) CreateAsm(text string) *Inst {
	return b.append(&Inst{Kind: KAsm, Type: types.Unit(), AsmText: text})
}
