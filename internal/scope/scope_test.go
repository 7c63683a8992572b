package scope

import (
	"testing"

	"lilycore/internal/checked"
	"lilycore/internal/types"
)

func TestPushDuplicateDetection(t *testing.T) {
	s := New(nil, 1, TagModule)
	c := &checked.Constant{Type: types.New(types.KF64)}
	if ok := s.PushConstant("PI", c); !ok {
		t.Fatal("expected first push to succeed")
	}
	if ok := s.PushConstant("PI", c); ok {
		t.Fatal("expected duplicate push to fail")
	}
}

func TestSearchWalksParentChain(t *testing.T) {
	root := New(nil, 1, TagModule)
	fn := New(root, 2, TagFunction)
	block := New(fn, 3, TagBlock)

	root.PushConstant("PI", &checked.Constant{Type: types.New(types.KF64)})
	fn.PushParam("x", &checked.Param{Name: "x", Type: types.New(types.KI32)})
	block.PushVariable("y", &checked.Variable{Name: "y", Type: types.New(types.KI32)})

	if _, _, ok := block.SearchConstant("PI"); !ok {
		t.Error("expected constant declared in root to resolve from nested block")
	}
	if _, _, ok := block.SearchParam("x"); !ok {
		t.Error("expected parameter declared in fn to resolve from nested block")
	}
	if resp := block.SearchIdentifier("y"); resp.Kind != FoundVariable {
		t.Errorf("expected y to resolve as a variable, got kind %d", resp.Kind)
	}
	if resp := block.SearchIdentifier("nope"); resp.Found() {
		t.Error("expected lookup of an undeclared name to fail")
	}
}

func TestGetCurrentFun(t *testing.T) {
	root := New(nil, 1, TagModule)
	fn := New(root, 2, TagFunction)
	block := New(fn, 3, TagBlock)
	nested := New(block, 4, TagBlock)

	if got := nested.GetCurrentFun(); got != fn {
		t.Errorf("expected GetCurrentFun to climb to the function scope, got %v", got)
	}
	if got := root.GetCurrentFun(); got != nil {
		t.Error("expected no enclosing function from the module scope")
	}
}

func TestSetHasReturnPropagatesThroughBlocks(t *testing.T) {
	fn := New(nil, 1, TagFunction)
	block := New(fn, 2, TagBlock)
	nested := New(block, 3, TagBlock)

	SetHasReturn(nested)

	if !nested.HasReturn() || !block.HasReturn() || !fn.HasReturn() {
		t.Error("expected has_return to propagate up through block scopes to the owning function")
	}
}
