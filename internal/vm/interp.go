package vm

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"lilycore/internal/config"
	"lilycore/internal/mir"
	"lilycore/internal/types"
)

// ErrUnreachable is raised when the VM hits a KUnreachable instruction or
// an instruction kind it does not recognize — inconsistent IR, spec.md §7
// "VM taxonomy".
var ErrUnreachable = errors.New("vm: unreachable")

// VM is the stack-based interpreter (spec.md §4.6). One VM executes one
// mir.Module; Run begins at the module's "main" function.
type VM struct {
	Module        *mir.Module
	Stack         *Stack
	CheckOverflow bool
	HeapObjects   int
	maxHeap       int

	frame *StackFrame // top of the call-frame chain.
}

// New creates a VM configured from opts (spec.md §6 "VM configuration").
func New(mod *mir.Module, opts config.Options) *VM {
	return &VM{
		Module:        mod,
		Stack:         NewStack(int(opts.MaxStackCapacity)),
		CheckOverflow: opts.CheckOverflow,
		maxHeap:       int(opts.MaxHeapObjects),
	}
}

// Run executes the module's entry function to completion and returns its
// result value.
func (vm *VM) Run() (*Value, error) {
	entry := vm.Module.Entry()
	if entry == nil {
		return nil, fmt.Errorf("vm: module has no %q function", mir.EntryFunctionName)
	}
	return vm.call(entry, nil)
}

// call implements attach_stack_frame (spec.md §4.6 "Stack frames across
// calls"): links a new frame to the current one, runs the callee's entry
// block, and on return detaches and yields the return value to the
// caller.
func (vm *VM) call(fn *mir.Function, args []*Value) (*Value, error) {
	begin := vm.Stack.Len()
	for _, a := range args {
		if err := vm.Stack.Push(a); err != nil {
			return nil, err
		}
	}
	frame := newStackFrame(fn.Name, args, begin, len(fn.Blocks()))
	frame.Next = vm.frame
	vm.frame = frame

	entry := fn.Entry()
	if entry == nil {
		return nil, fmt.Errorf("vm: function %q has no entry block", fn.Name)
	}
	frame.enterBlock(entry.Name, entry.LimitID, vm.Stack.Len())

	cur := entry
	for {
		done, next, err := vm.runBlock(fn, cur)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		cur = next
	}

	ret := frame.ReturnValue
	if ret == nil {
		ret = Unit()
	}
	vm.frame = frame.Next
	vm.Stack.Truncate(begin)
	if err := vm.Stack.Push(ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// runBlock executes every instruction of b in order. It returns done=true
// once a ret has set the frame's return value (the call loop should stop),
// otherwise it returns the next block to run (a jmp/jmp_cond target).
func (vm *VM) runBlock(fn *mir.Function, b *mir.Block) (done bool, next *mir.Block, err error) {
	frame := vm.frame
	for _, inst := range b.Insts {
		v, runErr := vm.runInst(fn, frame, inst)
		if runErr != nil {
			return false, nil, runErr
		}
		switch inst.Kind {
		case mir.KJmp:
			target := fn.Block(inst.Then)
			vm.cleanBlockStack(frame)
			frame.enterBlock(target.Name, target.LimitID, vm.Stack.Len())
			return false, target, nil
		case mir.KJmpCond:
			condVal := v
			targetName := inst.Else
			if condVal.B {
				targetName = inst.Then
			}
			target := fn.Block(targetName)
			vm.cleanBlockStack(frame)
			frame.enterBlock(target.Name, target.LimitID, vm.Stack.Len())
			return false, target, nil
		case mir.KRet:
			frame.ReturnValue = v
			vm.cleanBlockStack(frame)
			return true, nil, nil
		case mir.KUnreachable:
			return false, nil, ErrUnreachable
		}
	}
	return false, nil, fmt.Errorf("vm: block %q of function %q fell through without a terminator", b.Name, fn.Name)
}

// cleanBlockStack implements spec.md §4.6 "clean_block_stack": pop and
// free values until the stack length equals the current block frame's
// begin, then mark it exited.
func (vm *VM) cleanBlockStack(frame *StackFrame) {
	bf := frame.CurrentBlockFrame()
	if bf == nil {
		return
	}
	vm.Stack.Truncate(bf.Begin)
	bf.End = vm.Stack.Len()
}

// runInst dispatches a single non-terminator (and terminator, for its
// operand side-effects) instruction (spec.md §4.6 "Dispatch").
func (vm *VM) runInst(fn *mir.Function, frame *StackFrame, inst *mir.Inst) (*Value, error) {
	switch inst.Kind {
	case mir.KVal:
		return vm.runVal(inst)
	case mir.KReg:
		v, err := vm.runInst(fn, frame, inst.Inner)
		if err != nil {
			return nil, err
		}
		if bf := frame.CurrentBlockFrame(); bf != nil {
			bf.Regs[inst.Name] = vm.Stack.Len()
		}
		if err := vm.Stack.Push(v); err != nil {
			return nil, err
		}
		return v, nil
	case mir.KArg:
		for i, p := range fn.Params {
			if p.Name == inst.Name && i < len(frame.Params) {
				return frame.Params[i], nil
			}
		}
		return nil, fmt.Errorf("vm: unknown argument %q", inst.Name)
	case mir.KVar:
		if bf := frame.CurrentBlockFrame(); bf != nil {
			if idx, ok := bf.Vars[inst.Name]; ok {
				return vm.Stack.At(idx), nil
			}
			v := Undef()
			if err := vm.Stack.Push(v); err != nil {
				return nil, err
			}
			bf.Vars[inst.Name] = vm.Stack.Len() - 1
			return v, nil
		}
		return Undef(), nil
	case mir.KConst:
		if v, ok := vm.Stack.FindInstanceByName(inst.Name, frame.Begin); ok {
			return v, nil
		}
		return nil, fmt.Errorf("vm: unresolved constant %q", inst.Name)
	case mir.KIAdd, mir.KISub, mir.KIMul, mir.KIDiv, mir.KIRem, mir.KINeg:
		return vm.runIntArith(fn, frame, inst)
	case mir.KFAdd, mir.KFSub, mir.KFMul, mir.KFDiv, mir.KFRem, mir.KFNeg:
		return vm.runFloatArith(fn, frame, inst)
	case mir.KICmpEq, mir.KICmpNe, mir.KICmpLe, mir.KICmpLt, mir.KICmpGe, mir.KICmpGt:
		return vm.runIntCmp(fn, frame, inst)
	case mir.KFCmpEq, mir.KFCmpNe, mir.KFCmpLe, mir.KFCmpLt, mir.KFCmpGe, mir.KFCmpGt:
		return vm.runFloatCmp(fn, frame, inst)
	case mir.KAnd, mir.KOr, mir.KXor, mir.KShl, mir.KShr:
		return vm.runBitop(fn, frame, inst)
	case mir.KNot:
		v, err := vm.evalOperand(fn, frame, inst.Operands[0])
		if err != nil {
			return nil, err
		}
		return Bool(!v.B), nil
	case mir.KJmp, mir.KJmpCond:
		if inst.Kind == mir.KJmp {
			return Unit(), nil
		}
		return vm.evalOperand(fn, frame, inst.Operands[0])
	case mir.KRet:
		if inst.RetVal == nil {
			return Unit(), nil
		}
		return vm.evalOperand(fn, frame, inst.RetVal)
	case mir.KUnreachable:
		return nil, ErrUnreachable
	case mir.KCall:
		return vm.runCall(fn, frame, inst)
	case mir.KOptSome, mir.KRef, mir.KErrOk, mir.KErrErr:
		v, err := vm.evalOperand(fn, frame, inst.Operands[0])
		if err != nil {
			return nil, err
		}
		return Ref(v), nil
	case mir.KOptNone:
		return Nil(), nil
	default:
		return nil, fmt.Errorf("%w: instruction kind %s not implemented by this VM", ErrUnreachable, inst.Kind)
	}
}

func (vm *VM) runVal(inst *mir.Inst) (*Value, error) {
	switch d := inst.Data.(type) {
	case bool:
		return Bool(d), nil
	case int64:
		return Int(scalarKindOf(inst.Type), d), nil
	case uint64:
		return Uint(scalarKindOf(inst.Type), d), nil
	case float64:
		return Float(d), nil
	case string:
		return NewString(d), nil
	default:
		return Unit(), nil
	}
}

// evalOperand runs inst if it hasn't produced a value on the stack yet;
// non-reg operands are re-evaluated each reference (they are pure
// producers — constants, vals, arg reads).
func (vm *VM) evalOperand(fn *mir.Function, frame *StackFrame, inst *mir.Inst) (*Value, error) {
	if inst == nil {
		return Unit(), nil
	}
	if inst.Kind == mir.KReg {
		if bf := frame.CurrentBlockFrame(); bf != nil {
			if idx, ok := bf.Regs[inst.Name]; ok {
				if v := vm.Stack.At(idx); v != nil {
					return v, nil
				}
			}
		}
	}
	return vm.runInst(fn, frame, inst)
}

func scalarKindOf(t *types.CheckedDataType) Kind {
	if t == nil {
		return KI32
	}
	switch t.Kind.String() {
	case "Int8":
		return KI8
	case "Int16":
		return KI16
	case "Int64":
		return KI64
	case "Isize":
		return KIsize
	case "Uint8":
		return KU8
	case "Uint16":
		return KU16
	case "Uint32":
		return KU32
	case "Uint64":
		return KU64
	case "Usize":
		return KUsize
	default:
		return KI32
	}
}

// intWidth reports the bit width k's arithmetic must be performed and
// truncated at (spec.md §4.6 "switch on lhs kind").
func intWidth(k Kind) int {
	switch k {
	case KI8, KU8:
		return 8
	case KI16, KU16:
		return 16
	case KI32, KU32:
		return 32
	default:
		return 64
	}
}

func isUnsignedKind(k Kind) bool {
	switch k {
	case KU8, KU16, KU32, KU64, KUsize:
		return true
	}
	return false
}

// signedBounds returns the inclusive [min, max] a width-bit signed value
// may hold.
func signedBounds(width int) (int64, int64) {
	if width >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	max := int64(1)<<uint(width-1) - 1
	return -max - 1, max
}

// unsignedMax returns the largest value a width-bit unsigned value may
// hold.
func unsignedMax(width int) uint64 {
	if width >= 64 {
		return math.MaxUint64
	}
	return uint64(1)<<uint(width) - 1
}

// wrapSigned truncates v to width bits and sign-extends back to int64,
// the two's-complement wraparound check_overflow=false requires.
func wrapSigned(v int64, width int) int64 {
	if width >= 64 {
		return v
	}
	mask := int64(1)<<uint(width) - 1
	v &= mask
	if sign := int64(1) << uint(width-1); v&sign != 0 {
		v -= mask + 1
	}
	return v
}

// wrapUnsigned truncates v to width bits.
func wrapUnsigned(v uint64, width int) uint64 {
	if width >= 64 {
		return v
	}
	return v & (uint64(1)<<uint(width) - 1)
}

// runIntArith pops rhs, pops lhs (here: evaluates operands in order,
// mirroring pop-rhs-then-lhs semantics since operands are stored
// lhs-first), switches on lhs' kind to select its bit width and
// signedness, and computes the result with a plain (wrapping) or
// overflow-checked operator depending on CheckOverflow (spec.md §4.6
// "Arithmetic handlers").
func (vm *VM) runIntArith(fn *mir.Function, frame *StackFrame, inst *mir.Inst) (*Value, error) {
	lhs, err := vm.evalOperand(fn, frame, inst.Operands[0])
	if err != nil {
		return nil, err
	}
	width := intWidth(lhs.Kind)
	unsigned := isUnsignedKind(lhs.Kind)

	if inst.Kind == mir.KINeg {
		if unsigned {
			return nil, fmt.Errorf("vm: cannot negate unsigned value %d", lhs.U)
		}
		min, _ := signedBounds(width)
		if vm.CheckOverflow && lhs.I == min {
			return nil, fmt.Errorf("vm: integer overflow negating %d", lhs.I)
		}
		return Int(lhs.Kind, wrapSigned(-lhs.I, width)), nil
	}
	rhs, err := vm.evalOperand(fn, frame, inst.Operands[1])
	if err != nil {
		return nil, err
	}

	if unsigned {
		return vm.runUintArith(inst.Kind, lhs.Kind, lhs.U, rhs.U, width)
	}
	return vm.runSintArith(inst.Kind, lhs.Kind, lhs.I, rhs.I, width)
}

func (vm *VM) runSintArith(kind mir.Kind, valKind Kind, a, b int64, width int) (*Value, error) {
	min, max := signedBounds(width)
	var res int64
	switch kind {
	case mir.KIAdd:
		sum, _ := bits.Add64(uint64(a), uint64(b), 0)
		res = wrapSigned(int64(sum), width)
		if vm.CheckOverflow && (a >= 0) == (b >= 0) && (res >= 0) != (a >= 0) {
			return nil, fmt.Errorf("vm: integer overflow in %d + %d", a, b)
		}
	case mir.KISub:
		res = wrapSigned(a-b, width)
		if vm.CheckOverflow && (a >= 0) != (b >= 0) && (res >= 0) != (a >= 0) {
			return nil, fmt.Errorf("vm: integer overflow in %d - %d", a, b)
		}
	case mir.KIMul:
		raw := a * b
		res = wrapSigned(raw, width)
		if vm.CheckOverflow && a != 0 && (raw/a != b || raw < min || raw > max) {
			return nil, fmt.Errorf("vm: integer overflow in %d * %d", a, b)
		}
	case mir.KIDiv:
		if b == 0 {
			return nil, fmt.Errorf("vm: division by zero")
		}
		res = wrapSigned(a/b, width)
	case mir.KIRem:
		if b == 0 {
			return nil, fmt.Errorf("vm: division by zero")
		}
		res = wrapSigned(a%b, width)
	}
	return Int(valKind, res), nil
}

func (vm *VM) runUintArith(kind mir.Kind, valKind Kind, a, b uint64, width int) (*Value, error) {
	max := unsignedMax(width)
	var res uint64
	switch kind {
	case mir.KIAdd:
		raw := a + b
		res = wrapUnsigned(raw, width)
		if vm.CheckOverflow && (raw < a || raw > max) {
			return nil, fmt.Errorf("vm: integer overflow in %d + %d", a, b)
		}
	case mir.KISub:
		res = wrapUnsigned(a-b, width)
		if vm.CheckOverflow && a < b {
			return nil, fmt.Errorf("vm: integer overflow in %d - %d", a, b)
		}
	case mir.KIMul:
		raw := a * b
		res = wrapUnsigned(raw, width)
		if vm.CheckOverflow && a != 0 && (raw/a != b || raw > max) {
			return nil, fmt.Errorf("vm: integer overflow in %d * %d", a, b)
		}
	case mir.KIDiv:
		if b == 0 {
			return nil, fmt.Errorf("vm: division by zero")
		}
		res = wrapUnsigned(a/b, width)
	case mir.KIRem:
		if b == 0 {
			return nil, fmt.Errorf("vm: division by zero")
		}
		res = wrapUnsigned(a%b, width)
	}
	return Uint(valKind, res), nil
}

func (vm *VM) runFloatArith(fn *mir.Function, frame *StackFrame, inst *mir.Inst) (*Value, error) {
	lhs, err := vm.evalOperand(fn, frame, inst.Operands[0])
	if err != nil {
		return nil, err
	}
	if inst.Kind == mir.KFNeg {
		return Float(-lhs.F), nil
	}
	rhs, err := vm.evalOperand(fn, frame, inst.Operands[1])
	if err != nil {
		return nil, err
	}
	switch inst.Kind {
	case mir.KFAdd:
		return Float(lhs.F + rhs.F), nil
	case mir.KFSub:
		return Float(lhs.F - rhs.F), nil
	case mir.KFMul:
		return Float(lhs.F * rhs.F), nil
	case mir.KFDiv:
		return Float(lhs.F / rhs.F), nil
	case mir.KFRem:
		// frem respects IEEE-754 semantics via math.Mod, not Go's `%`
		// (spec.md §4.6 "frem uses a dedicated mod helper").
		return Float(math.Mod(lhs.F, rhs.F)), nil
	}
	return nil, ErrUnreachable
}

func (vm *VM) runIntCmp(fn *mir.Function, frame *StackFrame, inst *mir.Inst) (*Value, error) {
	lhs, err := vm.evalOperand(fn, frame, inst.Operands[0])
	if err != nil {
		return nil, err
	}
	rhs, err := vm.evalOperand(fn, frame, inst.Operands[1])
	if err != nil {
		return nil, err
	}
	if isUnsignedKind(lhs.Kind) {
		a, b := lhs.U, rhs.U
		switch inst.Kind {
		case mir.KICmpEq:
			return Bool(a == b), nil
		case mir.KICmpNe:
			return Bool(a != b), nil
		case mir.KICmpLe:
			return Bool(a <= b), nil
		case mir.KICmpLt:
			return Bool(a < b), nil
		case mir.KICmpGe:
			return Bool(a >= b), nil
		case mir.KICmpGt:
			return Bool(a > b), nil
		}
		return nil, ErrUnreachable
	}
	a, b := lhs.I, rhs.I
	switch inst.Kind {
	case mir.KICmpEq:
		return Bool(a == b), nil
	case mir.KICmpNe:
		return Bool(a != b), nil
	case mir.KICmpLe:
		return Bool(a <= b), nil
	case mir.KICmpLt:
		return Bool(a < b), nil
	case mir.KICmpGe:
		return Bool(a >= b), nil
	case mir.KICmpGt:
		return Bool(a > b), nil
	}
	return nil, ErrUnreachable
}

func (vm *VM) runFloatCmp(fn *mir.Function, frame *StackFrame, inst *mir.Inst) (*Value, error) {
	lhs, err := vm.evalOperand(fn, frame, inst.Operands[0])
	if err != nil {
		return nil, err
	}
	rhs, err := vm.evalOperand(fn, frame, inst.Operands[1])
	if err != nil {
		return nil, err
	}
	a, b := lhs.F, rhs.F
	switch inst.Kind {
	case mir.KFCmpEq:
		return Bool(a == b), nil
	case mir.KFCmpNe:
		return Bool(a != b), nil
	case mir.KFCmpLe:
		return Bool(a <= b), nil
	case mir.KFCmpLt:
		return Bool(a < b), nil
	case mir.KFCmpGe:
		return Bool(a >= b), nil
	case mir.KFCmpGt:
		return Bool(a > b), nil
	}
	return nil, ErrUnreachable
}

func (vm *VM) runBitop(fn *mir.Function, frame *StackFrame, inst *mir.Inst) (*Value, error) {
	lhs, err := vm.evalOperand(fn, frame, inst.Operands[0])
	if err != nil {
		return nil, err
	}
	rhs, err := vm.evalOperand(fn, frame, inst.Operands[1])
	if err != nil {
		return nil, err
	}
	width := intWidth(lhs.Kind)
	if isUnsignedKind(lhs.Kind) {
		a, b := lhs.U, rhs.U
		switch inst.Kind {
		case mir.KAnd:
			return Uint(lhs.Kind, wrapUnsigned(a&b, width)), nil
		case mir.KOr:
			return Uint(lhs.Kind, wrapUnsigned(a|b, width)), nil
		case mir.KXor:
			return Uint(lhs.Kind, wrapUnsigned(a^b, width)), nil
		case mir.KShl:
			return Uint(lhs.Kind, wrapUnsigned(a<<uint(b), width)), nil
		case mir.KShr:
			return Uint(lhs.Kind, wrapUnsigned(a>>uint(b), width)), nil
		}
		return nil, ErrUnreachable
	}
	a, b := lhs.I, rhs.I
	switch inst.Kind {
	case mir.KAnd:
		return Int(lhs.Kind, wrapSigned(a&b, width)), nil
	case mir.KOr:
		return Int(lhs.Kind, wrapSigned(a|b, width)), nil
	case mir.KXor:
		return Int(lhs.Kind, wrapSigned(a^b, width)), nil
	case mir.KShl:
		return Int(lhs.Kind, wrapSigned(a<<uint(b), width)), nil
	case mir.KShr:
		return Int(lhs.Kind, wrapSigned(a>>uint(b), width)), nil
	}
	return nil, ErrUnreachable
}

// runCall evaluates args then dispatches to the named function via
// attach_stack_frame (spec.md §4.6 "Stack frames across calls").
func (vm *VM) runCall(fn *mir.Function, frame *StackFrame, inst *mir.Inst) (*Value, error) {
	callee := vm.Module.Function(inst.Name)
	if callee == nil {
		return nil, fmt.Errorf("vm: call to unknown function %q", inst.Name)
	}
	args := make([]*Value, len(inst.Args))
	for i, a := range inst.Args {
		v, err := vm.evalOperand(fn, frame, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return vm.call(callee, args)
}
