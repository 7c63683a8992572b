// Package vm implements the stack-based interpreter described in spec.md
// §4.6: an explicit operand stack, a linked chain of call frames, each
// frame carrying an array of block frames, executing mir.Inst via a
// switch-based dispatch table.
//
// Grounded on vslc's src/util/stack.go linked-list Stack (generalized here
// into the fixed-capacity array spec.md §3 "Stack and frames" describes),
// and on _examples/original_source/src/core/lily/interpreter/vm.c for the
// value tagged-union shape, refcounted object lifecycle, check_overflow-
// gated arithmetic, and clean_block_stack/clean_frame/attach_stack_frame
// control-flow discipline (see SPEC_FULL.md "Supplemented features").
package vm

import "fmt"

// Kind tags a Value (spec.md §3 "VM values").
type Kind uint8

const (
	KBool Kind = iota
	KI8
	KI16
	KI32
	KI64
	KIsize
	KU8
	KU16
	KU32
	KU64
	KUsize
	KF64
	KNil
	KUndef
	KUnit
	KBytes
	KCStr
	KString
	KArray
	KList
	KInstance
)

// Object is the payload shared by every refcounted Kind (bytes, cstr,
// string, array, list, instance); scalars are value-typed and never
// refcounted (spec.md §3 "Instances carry a ref-count; scalars are
// value-typed").
type Object struct {
	refs int

	Bytes []byte
	Str   string
	Elems []*Value // array/list.

	// Instance payload: a named record/enum value.
	InstanceName string
	InstanceData interface{}
}

// Value is the VM's tagged union (spec.md §3 "VM values"). Scalars are
// stored directly; object-kinded values carry a pointer to a refcounted
// Object.
type Value struct {
	Kind Kind

	B   bool
	I   int64  // i8..isize, stored sign-extended.
	U   uint64 // u8..usize.
	F   float64
	Obj *Object
}

func Bool(b bool) *Value  { return &Value{Kind: KBool, B: b} }
func Unit() *Value        { return &Value{Kind: KUnit} }
func Nil() *Value         { return &Value{Kind: KNil} }
func Undef() *Value       { return &Value{Kind: KUndef} }
func Int(k Kind, v int64) *Value  { return &Value{Kind: k, I: v} }
func Uint(k Kind, v uint64) *Value { return &Value{Kind: k, U: v} }
func Float(v float64) *Value      { return &Value{Kind: KF64, F: v} }

// NewString creates a refcounted string object with refcount 1.
func NewString(s string) *Value {
	return &Value{Kind: KString, Obj: &Object{refs: 1, Str: s}}
}

// NewArray creates a refcounted array object with refcount 1.
func NewArray(elems []*Value) *Value {
	return &Value{Kind: KArray, Obj: &Object{refs: 1, Elems: elems}}
}

// NewList creates a refcounted list object with refcount 1.
func NewList(elems []*Value) *Value {
	return &Value{Kind: KList, Obj: &Object{refs: 1, Elems: elems}}
}

// NewInstance creates a refcounted instance object with refcount 1.
func NewInstance(name string, data interface{}) *Value {
	return &Value{Kind: KInstance, Obj: &Object{refs: 1, InstanceName: name, InstanceData: data}}
}

// IsObject reports whether v carries a refcounted Object payload.
func (v *Value) IsObject() bool {
	return v != nil && v.Obj != nil
}

// Ref bumps the refcount of an object-kinded value and returns v itself,
// mirroring vm.c's ref__Value (spec.md §3 "every producer returns a fresh
// handle (or bumps a ref)").
func Ref(v *Value) *Value {
	if v.IsObject() {
		v.Obj.refs++
	}
	return v
}

// Free decrements the refcount of an object-kinded value, dropping its
// payload once it reaches zero (spec.md §4.6 "Objects... are dropped only
// when their refcount hits zero"). Scalars are a no-op.
func Free(v *Value) {
	if v == nil || !v.IsObject() {
		return
	}
	v.Obj.refs--
	if v.Obj.refs <= 0 {
		v.Obj.Elems = nil
		v.Obj.Bytes = nil
		v.Obj.Str = ""
		v.Obj.InstanceData = nil
	}
}

func (v *Value) String() string {
	if v == nil {
		return "<nil value>"
	}
	switch v.Kind {
	case KBool:
		return fmt.Sprintf("%v", v.B)
	case KI8, KI16, KI32, KI64, KIsize:
		return fmt.Sprintf("%d", v.I)
	case KU8, KU16, KU32, KU64, KUsize:
		return fmt.Sprintf("%d", v.U)
	case KF64:
		return fmt.Sprintf("%g", v.F)
	case KNil:
		return "nil"
	case KUndef:
		return "undef"
	case KUnit:
		return "()"
	case KString:
		return v.Obj.Str
	case KInstance:
		return fmt.Sprintf("%s{...}", v.Obj.InstanceName)
	default:
		return fmt.Sprintf("<%d>", v.Kind)
	}
}
