package mir

import (
	"testing"

	"lilycore/internal/types"
)

func TestFunctionBlockOrderAndLimitID(t *testing.T) {
	fn := NewFunction("add", []Param{{Name: "a", Type: types.New(types.KI32)}}, types.New(types.KI32))
	entry := fn.CreateBlock("entry")
	if entry.LimitID != 0 {
		t.Fatalf("expected limit id 0, got %d", entry.LimitID)
	}
	exit := fn.CreateBlock("exit")
	if exit.LimitID != 1 {
		t.Fatalf("expected limit id 1, got %d", exit.LimitID)
	}
	if fn.Entry() != entry {
		t.Fatalf("expected entry() to return the first block")
	}
	if len(fn.Blocks()) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(fn.Blocks()))
	}
}

func TestVerifyCatchesUnterminatedBlock(t *testing.T) {
	fn := NewFunction("f", nil, types.Unit())
	fn.CreateBlock("entry")
	if err := fn.Verify(); err == nil {
		t.Fatalf("expected an error for an unterminated block")
	}
}

func TestVerifyPassesOnTerminatedBlock(t *testing.T) {
	fn := NewFunction("f", nil, types.Unit())
	b := fn.CreateBlock("entry")
	b.CreateRet(b.CreateVal(types.Unit(), nil))
	if err := fn.Verify(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestModuleRequiresEntryFunction(t *testing.T) {
	m := NewModule("prog")
	fn := NewFunction("helper", nil, types.Unit())
	b := fn.CreateBlock("entry")
	b.CreateRet(nil)
	m.AddFunction(fn)
	if err := m.Verify(); err == nil {
		t.Fatalf("expected an error: no main function present")
	}

	main := NewFunction(EntryFunctionName, nil, types.New(types.KI32))
	mb := main.CreateBlock("entry")
	mb.CreateRet(mb.CreateVal(types.New(types.KI32), int64(0)))
	m.AddFunction(main)
	if err := m.Verify(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Entry() != main {
		t.Fatalf("expected Entry() to return main")
	}
}

func TestArithmeticBuildersSetOperands(t *testing.T) {
	fn := NewFunction("f", nil, types.New(types.KI32))
	b := fn.CreateBlock("entry")
	lhs := b.CreateVal(types.New(types.KI32), int64(1))
	rhs := b.CreateVal(types.New(types.KI32), int64(2))
	sum := b.CreateIAdd(types.New(types.KI32), lhs, rhs)
	if sum.Kind != KIAdd || len(sum.Operands) != 2 {
		t.Fatalf("unexpected iadd shape: %+v", sum)
	}
	b.CreateRet(sum)
	if !b.Terminated() {
		t.Fatalf("expected block to be terminated after ret")
	}
}

func TestRegWrapsInnerInstruction(t *testing.T) {
	fn := NewFunction("f", nil, types.Unit())
	b := fn.CreateBlock("entry")
	inner := b.CreateVal(types.New(types.KBool), true)
	reg := b.CreateReg("r0", inner)
	if reg.Kind != KReg || reg.Inner != inner || reg.Type != inner.Type {
		t.Fatalf("unexpected reg shape: %+v", reg)
	}
}
