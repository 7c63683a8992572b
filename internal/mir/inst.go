// Package mir implements the mid-level IR described in spec.md §4.5: a
// control-flow graph of blocks holding typed instructions, produced by the
// analyzer (lowering itself is an external collaborator, spec.md §1) and
// consumed read-only by the VM.
//
// vslc's nearest equivalent is its src/ir/lir package: Module/Function/
// Block/Value with a builder-method-per-instruction-kind API
// (Block.CreateAdd, CreateBranch, CreateReturn, ...). This package keeps
// that builder shape but generalizes lir's two-datatype (Int/Float) value
// lattice to the tagged, kind-split instruction set spec.md §3 "MIR
// Instruction" describes, and its flat Value struct (see checked.Expr's
// Kind+payload shape) instead of lir's per-kind struct hierarchy — the
// instruction set here is too wide (40+ kinds) for a struct-per-kind
// approach to stay readable.
package mir

import "lilycore/internal/types"

// Kind tags a mir.Inst.
type Kind uint8

const (
	KBlockHeader Kind = iota
	KVal

	// Arithmetic, split signed/unsigned per spec.md §4.5 ("no uadd vs
	// iadd; the value kind at run time selects the arithmetic") — here
	// split at MIR-construction time by the operand's checked kind so the
	// VM's dispatch table can stay a flat array.
	KIAdd
	KISub
	KIMul
	KIDiv
	KIRem
	KINeg
	KFAdd
	KFSub
	KFMul
	KFDiv
	KFRem
	KFNeg

	// Comparisons.
	KICmpEq
	KICmpNe
	KICmpLe
	KICmpLt
	KICmpGe
	KICmpGt
	KFCmpEq
	KFCmpNe
	KFCmpLe
	KFCmpLt
	KFCmpGe
	KFCmpGt

	// Bitops.
	KAnd
	KOr
	KXor
	KShl
	KShr
	KNot

	// Memory.
	KLoad
	KStore
	KAlloc
	KGetField
	KGetPtr
	KGetArray
	KGetList
	KGetSlice

	// Sum-type producers.
	KRef
	KOptSome
	KOptNone
	KErrOk
	KErrErr

	// Calls.
	KCall
	KBuiltinCall
	KSysCall

	// Control flow.
	KJmp
	KJmpCond
	KRet
	KSwitch
	KUnreachable

	// Bindings.
	KReg
	KVar
	KArg
	KConst

	// Exception-ish / misc.
	KTry
	KTryPtr
	KIncTrace
	KTrunc
	KBitcast
	KAsm

	KFunProto
)

var kindNames = map[Kind]string{
	KBlockHeader: "block", KVal: "val",
	KIAdd: "iadd", KISub: "isub", KIMul: "imul", KIDiv: "idiv", KIRem: "irem", KINeg: "ineg",
	KFAdd: "fadd", KFSub: "fsub", KFMul: "fmul", KFDiv: "fdiv", KFRem: "frem", KFNeg: "fneg",
	KICmpEq: "icmp_eq", KICmpNe: "icmp_ne", KICmpLe: "icmp_le", KICmpLt: "icmp_lt", KICmpGe: "icmp_ge", KICmpGt: "icmp_gt",
	KFCmpEq: "fcmp_eq", KFCmpNe: "fcmp_ne", KFCmpLe: "fcmp_le", KFCmpLt: "fcmp_lt", KFCmpGe: "fcmp_ge", KFCmpGt: "fcmp_gt",
	KAnd: "and", KOr: "or", KXor: "xor", KShl: "shl", KShr: "shr", KNot: "not",
	KLoad: "load", KStore: "store", KAlloc: "alloc", KGetField: "getfield", KGetPtr: "getptr",
	KGetArray: "getarray", KGetList: "getlist", KGetSlice: "getslice",
	KRef: "ref", KOptSome: "opt_some", KOptNone: "opt_none", KErrOk: "ok", KErrErr: "err",
	KCall: "call", KBuiltinCall: "builtin_call", KSysCall: "sys_call",
	KJmp: "jmp", KJmpCond: "jmp_cond", KRet: "ret", KSwitch: "switch", KUnreachable: "unreachable",
	KReg: "reg", KVar: "var", KArg: "arg", KConst: "const",
	KTry: "try", KTryPtr: "try_ptr", KIncTrace: "inctrace", KTrunc: "trunc", KBitcast: "bitcast", KAsm: "asm",
	KFunProto: "fun_proto",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Inst is one MIR instruction: spec.md §3 calls this "a tagged variant".
// Every field not relevant to Kind is left zero; the flat-struct shape
// mirrors checked.Expr/checked.Stmt rather than lir's struct-per-kind
// hierarchy, see the package doc comment.
type Inst struct {
	Kind Kind
	Type *types.CheckedDataType

	// Name binding: reg/var/arg/const name, block-header name, called
	// function name, field/case name.
	Name string

	// Block header.
	LimitID int
	Insts   []*Inst

	// Arithmetic / comparison / bitops / unary: operands, in order.
	Operands []*Inst

	// reg: the single nested non-terminator instruction whose result is
	// this reg's value (spec.md §4.5 "Non-terminator instructions may be
	// nested inside a reg").
	Inner *Inst

	// Literal payload (val, const).
	Data interface{}

	// Control flow.
	Then    string // jmp / jmp_cond target block names.
	Else    string
	Cases   []SwitchCase // switch.
	RetVal  *Inst        // ret.

	// call/builtin_call/sys_call.
	Args []*Inst

	// getfield/getptr/getarray/getlist/getslice.
	Base  *Inst
	Index *Inst

	// asm.
	AsmText string
}

// SwitchCase is one arm of a switch instruction, selected by a constant
// integer or string tag matching Value.
type SwitchCase struct {
	Value  interface{}
	Target string
}

// NewBlockHeader constructs a block-header instruction, used only as the
// Block's own bookkeeping (Block.Insts holds the body, not a leading
// header instruction) — kept for callers that want to serialize a block
// as a flat instruction stream.
func NewBlockHeader(name string, limitID int) *Inst {
	return &Inst{Kind: KBlockHeader, Name: name, LimitID: limitID}
}
