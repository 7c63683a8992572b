package types

import "testing"

func TestCloneEqual(t *testing.T) {
	cases := []*CheckedDataType{
		New(KBool),
		New(KI32),
		{Kind: KArraySized, Len: 4, Elem: New(KI32)},
		{Kind: KTuple, Tuple: []*CheckedDataType{New(KI32), New(KF64)}},
		{Kind: KPtr, Inner: New(KI64)},
		{Kind: KCompilerGeneric, GenericName: "T"},
	}
	for _, dt := range cases {
		if !Equal(dt.Clone(), dt) {
			t.Errorf("eq(clone(t), t) failed for %s", dt.Kind)
		}
	}
}

func TestResolveComposition(t *testing.T) {
	generic := &CheckedDataType{Kind: KCompilerGeneric, GenericName: "T"}
	wrapped := &CheckedDataType{Kind: KOptional, Elem: generic}

	m1 := map[string]*CheckedDataType{"T": {Kind: KCompilerGeneric, GenericName: "U"}}
	m2 := map[string]*CheckedDataType{"U": New(KI32)}

	step := Resolve(Resolve(wrapped, m1), m2)

	composed := map[string]*CheckedDataType{"T": New(KI32)}
	direct := Resolve(wrapped, composed)

	if !Equal(step, direct) {
		t.Errorf("Resolve composition law violated: got %s want %s", step.Elem.Kind, direct.Elem.Kind)
	}
}

func TestContainsGeneric(t *testing.T) {
	if !ContainsGeneric(&CheckedDataType{Kind: KList, Elem: Unknown()}) {
		t.Error("expected list of unknown to contain a generic leaf")
	}
	if ContainsGeneric(New(KI32)) {
		t.Error("expected concrete i32 to contain no generic leaf")
	}
}

func TestDirectCustom(t *testing.T) {
	c := &Custom{GlobalName: "pkg.Rec"}
	wrapped := &CheckedDataType{Kind: KPtr, Inner: &CheckedDataType{Kind: KRefMut, Inner: &CheckedDataType{Kind: KCustom, Custom: c}}}
	got := DirectCustom(wrapped)
	if got == nil || got.GlobalName != "pkg.Rec" {
		t.Errorf("DirectCustom did not unwrap to the custom type, got %v", got)
	}
	if DirectCustom(New(KI32)) != nil {
		t.Error("expected DirectCustom(i32) to be nil")
	}
}

func TestUpdateLockedPanics(t *testing.T) {
	dt := New(KUnknown)
	dt.Lock()
	defer func() {
		if recover() == nil {
			t.Error("expected Update on a locked type to panic")
		}
	}()
	Update(dt, New(KI32))
}
