package sig

import (
	"testing"

	"lilycore/internal/types"
)

func TestAddFunctionDedup(t *testing.T) {
	r := &FunctionRegistry{}
	args := map[string]*types.CheckedDataType{"T": types.New(types.KI32)}

	e1, added1 := r.AddFunction([]*types.CheckedDataType{types.New(types.KI32)}, args, "pkg.identity")
	if !added1 {
		t.Fatal("expected first AddFunction to report added=true")
	}
	e2, added2 := r.AddFunction([]*types.CheckedDataType{types.New(types.KI32)}, args, "pkg.identity")
	if added2 {
		t.Fatal("expected second AddFunction with an equal signature to report added=false")
	}
	if e1 != e2 {
		t.Fatal("expected the existing entry to be reused")
	}
	if r.Original() != e1 {
		t.Fatal("expected Original to be the first signature added")
	}

	args2 := map[string]*types.CheckedDataType{"T": types.New(types.KF64)}
	_, added3 := r.AddFunction([]*types.CheckedDataType{types.New(types.KF64)}, args2, "pkg.identity")
	if !added3 {
		t.Fatal("expected a distinct generic instantiation to be added as a new signature")
	}
	if len(r.All()) != 2 {
		t.Fatalf("expected 2 signatures, got %d", len(r.All()))
	}
}
