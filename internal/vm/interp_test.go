package vm

import (
	"testing"

	"lilycore/internal/config"
	"lilycore/internal/mir"
	"lilycore/internal/types"
)

func newTestVM(mod *mir.Module) *VM {
	opts := config.Default()
	opts.CheckOverflow = true
	return New(mod, opts)
}

// TestRunReturnsConstant builds a one-block main function that returns the
// literal 42 and checks the VM evaluates it end to end.
func TestRunReturnsConstant(t *testing.T) {
	mod := mir.NewModule("prog")
	main := mir.NewFunction(mir.EntryFunctionName, nil, types.New(types.KI32))
	b := main.CreateBlock("entry")
	b.CreateRet(b.CreateVal(types.New(types.KI32), int64(42)))
	mod.AddFunction(main)

	v, err := newTestVM(mod).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != KI32 || v.I != 42 {
		t.Fatalf("expected i32 42, got %+v", v)
	}
}

// TestRunAddition builds main() that returns 1 + 2 via iadd.
func TestRunAddition(t *testing.T) {
	mod := mir.NewModule("prog")
	main := mir.NewFunction(mir.EntryFunctionName, nil, types.New(types.KI32))
	b := main.CreateBlock("entry")
	lhs := b.CreateVal(types.New(types.KI32), int64(1))
	rhs := b.CreateVal(types.New(types.KI32), int64(2))
	sum := b.CreateIAdd(types.New(types.KI32), lhs, rhs)
	b.CreateRet(sum)
	mod.AddFunction(main)

	v, err := newTestVM(mod).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.I != 3 {
		t.Fatalf("expected 3, got %d", v.I)
	}
}

// TestRunIMulOverflowDetected checks that check_overflow catches a
// multiplication that wraps.
func TestRunIMulOverflowDetected(t *testing.T) {
	mod := mir.NewModule("prog")
	main := mir.NewFunction(mir.EntryFunctionName, nil, types.New(types.KI64))
	b := main.CreateBlock("entry")
	lhs := b.CreateVal(types.New(types.KI64), int64(1)<<40)
	rhs := b.CreateVal(types.New(types.KI64), int64(1)<<40)
	prod := b.CreateIMul(types.New(types.KI64), lhs, rhs)
	b.CreateRet(prod)
	mod.AddFunction(main)

	if _, err := newTestVM(mod).Run(); err == nil {
		t.Fatalf("expected an overflow error")
	}
}

// TestRunIAddI32OverflowDetected checks the boundary case of i32 max + 1:
// the sum stays well inside int64 range, so overflow must be detected by
// the 32-bit width the operands carry, not by a 64-bit-wide add.
func TestRunIAddI32OverflowDetected(t *testing.T) {
	mod := mir.NewModule("prog")
	main := mir.NewFunction(mir.EntryFunctionName, nil, types.New(types.KI32))
	b := main.CreateBlock("entry")
	lhs := b.CreateVal(types.New(types.KI32), int64(1<<31-1))
	rhs := b.CreateVal(types.New(types.KI32), int64(1))
	sum := b.CreateIAdd(types.New(types.KI32), lhs, rhs)
	b.CreateRet(sum)
	mod.AddFunction(main)

	if _, err := newTestVM(mod).Run(); err == nil {
		t.Fatalf("expected an i32 overflow error for i32 max + 1")
	}
}

// TestRunIAddI32WrapsWithoutOverflowCheck checks that with check_overflow
// disabled, i32 max + 1 wraps to i32 min rather than producing the
// unwrapped int64 sum 2147483648.
func TestRunIAddI32WrapsWithoutOverflowCheck(t *testing.T) {
	mod := mir.NewModule("prog")
	main := mir.NewFunction(mir.EntryFunctionName, nil, types.New(types.KI32))
	b := main.CreateBlock("entry")
	lhs := b.CreateVal(types.New(types.KI32), int64(1<<31-1))
	rhs := b.CreateVal(types.New(types.KI32), int64(1))
	sum := b.CreateIAdd(types.New(types.KI32), lhs, rhs)
	b.CreateRet(sum)
	mod.AddFunction(main)

	opts := config.Default()
	opts.CheckOverflow = false
	v, err := New(mod, opts).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.I != -(1 << 31) {
		t.Fatalf("expected i32 wraparound to -2147483648, got %d", v.I)
	}
}

// TestRunUintArithUsesUnsignedField checks that arithmetic on a u8
// operand reads Value.U (not the unused I field, which is 0 for unsigned
// values) and wraps at 8 bits.
func TestRunUintArithUsesUnsignedField(t *testing.T) {
	mod := mir.NewModule("prog")
	main := mir.NewFunction(mir.EntryFunctionName, nil, types.New(types.KU8))
	b := main.CreateBlock("entry")
	lhs := b.CreateVal(types.New(types.KU8), uint64(250))
	rhs := b.CreateVal(types.New(types.KU8), uint64(10))
	sum := b.CreateIAdd(types.New(types.KU8), lhs, rhs)
	b.CreateRet(sum)
	mod.AddFunction(main)

	opts := config.Default()
	opts.CheckOverflow = false
	v, err := New(mod, opts).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.U != 4 {
		t.Fatalf("expected u8 wraparound 250+10 mod 256 = 4, got %d", v.U)
	}
}

// TestRunUintSubUnderflowDetected checks that a u8 subtraction going
// negative is reported as an overflow when check_overflow is enabled.
func TestRunUintSubUnderflowDetected(t *testing.T) {
	mod := mir.NewModule("prog")
	main := mir.NewFunction(mir.EntryFunctionName, nil, types.New(types.KU8))
	b := main.CreateBlock("entry")
	lhs := b.CreateVal(types.New(types.KU8), uint64(0))
	rhs := b.CreateVal(types.New(types.KU8), uint64(1))
	sub := b.CreateISub(types.New(types.KU8), lhs, rhs)
	b.CreateRet(sub)
	mod.AddFunction(main)

	if _, err := newTestVM(mod).Run(); err == nil {
		t.Fatalf("expected an unsigned underflow error")
	}
}

// TestRunJmpCondTakesThenBranch builds:
//
//	entry: jmp_cond true, then, else
//	then:  ret 1
//	else:  ret 0
//
// and checks control flow lands on then.
func TestRunJmpCondTakesThenBranch(t *testing.T) {
	mod := mir.NewModule("prog")
	main := mir.NewFunction(mir.EntryFunctionName, nil, types.New(types.KI32))
	entry := main.CreateBlock("entry")
	thenB := main.CreateBlock("then")
	elseB := main.CreateBlock("else")

	cond := entry.CreateVal(types.New(types.KBool), true)
	entry.CreateJmpCond(cond, thenB.Name, elseB.Name)
	thenB.CreateRet(thenB.CreateVal(types.New(types.KI32), int64(1)))
	elseB.CreateRet(elseB.CreateVal(types.New(types.KI32), int64(0)))
	mod.AddFunction(main)

	v, err := newTestVM(mod).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.I != 1 {
		t.Fatalf("expected the then-branch's 1, got %d", v.I)
	}
}

// TestRunMultiBlockJmpChain drives an unconditional jmp chain across
// three blocks (entry -> loop -> exit) and checks control reaches exit.
func TestRunMultiBlockJmpChain(t *testing.T) {
	mod := mir.NewModule("prog")
	main := mir.NewFunction(mir.EntryFunctionName, nil, types.Unit())
	entry := main.CreateBlock("entry")
	loop := main.CreateBlock("loop")
	exit := main.CreateBlock("exit")

	entry.CreateJmp(loop.Name)
	loop.CreateJmp(exit.Name)
	exit.CreateRet(nil)
	mod.AddFunction(main)

	if _, err := newTestVM(mod).Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestRunCallLinksFrames checks that a call into a helper function
// evaluates its args, links a new stack frame, and returns control (and
// the return value) to the caller.
func TestRunCallLinksFrames(t *testing.T) {
	mod := mir.NewModule("prog")

	helper := mir.NewFunction("double", []mir.Param{{Name: "x", Type: types.New(types.KI32)}}, types.New(types.KI32))
	hb := helper.CreateBlock("entry")
	arg := hb.CreateArg(types.New(types.KI32), "x")
	hb.CreateRet(hb.CreateIAdd(types.New(types.KI32), arg, arg))
	mod.AddFunction(helper)

	main := mir.NewFunction(mir.EntryFunctionName, nil, types.New(types.KI32))
	mb := main.CreateBlock("entry")
	five := mb.CreateVal(types.New(types.KI32), int64(5))
	call := mb.CreateCall(types.New(types.KI32), "double", []*mir.Inst{five})
	mb.CreateRet(call)
	mod.AddFunction(main)

	v, err := newTestVM(mod).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.I != 10 {
		t.Fatalf("expected 10, got %d", v.I)
	}
}

// TestRunUnreachableIsFatal checks that hitting an unreachable
// instruction aborts execution with ErrUnreachable.
func TestRunUnreachableIsFatal(t *testing.T) {
	mod := mir.NewModule("prog")
	main := mir.NewFunction(mir.EntryFunctionName, nil, types.Unit())
	b := main.CreateBlock("entry")
	b.CreateUnreachable()
	mod.AddFunction(main)

	_, err := newTestVM(mod).Run()
	if err == nil {
		t.Fatalf("expected ErrUnreachable")
	}
}

// TestRunMissingEntryFunction checks Run reports an error rather than
// panicking when the module has no main.
func TestRunMissingEntryFunction(t *testing.T) {
	mod := mir.NewModule("prog")
	if _, err := newTestVM(mod).Run(); err == nil {
		t.Fatalf("expected an error for a module without main")
	}
}
