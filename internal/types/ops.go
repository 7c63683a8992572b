package types

import "errors"

// Errors returned by the type lattice's own operations (spec.md §4.1
// "Errors"). The analyzer attaches file/location context to these when it
// turns them into diagnostics (see internal/diag).
var (
	ErrCannotUseAnyInSafeMode     = errors.New("cannot use any in safe mode")
	ErrDataTypeDontMatch          = errors.New("data types don't match")
	ErrImpossibleToGetReturnDataType = errors.New("impossible to get return data type for this set of argument types")
)

// IsGuaranteed reports whether t definitely reduces to kind k once any
// wrapping mut/ptr/ref/trace indirection is stripped is NOT applied here —
// unlike DirectCustom, IsGuaranteed looks at t's own kind directly, matching
// spec.md §4.1: "is_guaranteed(t, kind) — the type definitely reduces to
// kind".
func IsGuaranteed(t *CheckedDataType, k Kind) bool {
	if t == nil {
		return false
	}
	return t.Kind == k
}

// DirectCustom strips mut/ptr/ptr-mut/ref/ref-mut/trace/trace-mut wrappers
// until it reaches a custom type, returning nil if t never bottoms out on
// one.
func DirectCustom(t *CheckedDataType) *Custom {
	for t != nil {
		switch t.Kind {
		case KMut, KPtr, KPtrMut, KRef, KRefMut, KTrace, KTraceMut:
			t = t.Inner
		case KCustom:
			return t.Custom
		default:
			return nil
		}
	}
	return nil
}

// Update mutates t in place to become a clone of src's payload, used to
// bind an unknown or compiler-generic leaf to a concrete type once it has
// been inferred. Update panics on a locked type: once a declaration has
// finished checking its types must never be mutated again (spec.md §3
// invariant "a declaration's checked flag flips exactly once").
func Update(t *CheckedDataType, src *CheckedDataType) {
	if t == nil || src == nil {
		return
	}
	if t.locked {
		panic("types: Update called on a locked CheckedDataType")
	}
	loc := t.Loc
	*t = *src
	t.locked = false // t was unlocked on entry (panic above); *src may carry its own lock bit, which must not leak into t.
	t.Loc = loc
}

// ContainsGeneric reports whether t contains any generic, compiler-generic
// or unknown leaf, recursively.
func ContainsGeneric(t *CheckedDataType) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KCompilerGeneric, KUnknown:
		return true
	case KArraySized, KArrayUnsized, KArrayDynamic, KList, KOptional:
		return ContainsGeneric(t.Elem)
	case KTuple:
		for _, e := range t.Tuple {
			if ContainsGeneric(e) {
				return true
			}
		}
		return false
	case KResult:
		if ContainsGeneric(t.ResultOk) {
			return true
		}
		for _, e := range t.ResultErrs {
			if ContainsGeneric(e) {
				return true
			}
		}
		return false
	case KPtr, KPtrMut, KRef, KRefMut, KTrace, KTraceMut, KMut:
		return ContainsGeneric(t.Inner)
	case KCustom:
		if t.Custom.DeclKind == CustomGeneric {
			return true
		}
		for _, e := range t.Custom.GenericArgs {
			if ContainsGeneric(e) {
				return true
			}
		}
		return false
	case KLambda:
		for _, p := range t.Fn.Params {
			if ContainsGeneric(p) {
				return true
			}
		}
		return ContainsGeneric(t.Fn.Return)
	default:
		return false
	}
}

// Resolve produces a fully substituted clone of t given a map from
// generic-name to concrete type (spec.md §4.1 "resolve generic"). Resolve
// composes: Resolve(Resolve(t, m1), m2) == Resolve(t, compose(m2, m1)) when
// both maps are consistent (spec.md §8 round-trip law), because every leaf
// substitution is independent and order of composition does not change the
// final binding for any one generic name.
func Resolve(t *CheckedDataType, m map[string]*CheckedDataType) *CheckedDataType {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KCompilerGeneric:
		if bound, ok := m[t.GenericName]; ok {
			return bound.Clone()
		}
		return t.Clone()
	case KArraySized, KArrayUnsized, KArrayDynamic, KList, KOptional:
		c := t.Clone()
		c.Elem = Resolve(t.Elem, m)
		return c
	case KTuple:
		c := t.Clone()
		c.Tuple = resolveSlice(t.Tuple, m)
		return c
	case KResult:
		c := t.Clone()
		c.ResultOk = Resolve(t.ResultOk, m)
		c.ResultErrs = resolveSlice(t.ResultErrs, m)
		return c
	case KPtr, KPtrMut, KRef, KRefMut, KTrace, KTraceMut, KMut:
		c := t.Clone()
		c.Inner = Resolve(t.Inner, m)
		return c
	case KCustom:
		c := t.Clone()
		cc := *t.Custom
		cc.GenericArgs = resolveSlice(t.Custom.GenericArgs, m)
		c.Custom = &cc
		return c
	case KLambda:
		c := t.Clone()
		fn := &Lambda{Params: resolveSlice(t.Fn.Params, m), Return: Resolve(t.Fn.Return, m)}
		c.Fn = fn
		return c
	default:
		return t.Clone()
	}
}

func resolveSlice(ts []*CheckedDataType, m map[string]*CheckedDataType) []*CheckedDataType {
	if ts == nil {
		return nil
	}
	out := make([]*CheckedDataType, len(ts))
	for i, e := range ts {
		out[i] = Resolve(e, m)
	}
	return out
}

// LookupChoice implements the conditional-compiler-choice lookup described
// in spec.md §4.1: given concrete argument types, return the matching
// return type or ErrImpossibleToGetReturnDataType.
func LookupChoice(choice *CompilerChoice, argKey string) (*CheckedDataType, error) {
	if choice == nil {
		return nil, ErrImpossibleToGetReturnDataType
	}
	idx, ok := choice.IDs[argKey]
	if !ok || idx < 0 || idx >= len(choice.Candidates) {
		return nil, ErrImpossibleToGetReturnDataType
	}
	return choice.Candidates[idx], nil
}
