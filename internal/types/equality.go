package types

// Equal implements structural equality over the checked data type lattice,
// tuple/array/generic-aware as spec.md §4.1 requires. Locations never
// participate in equality.
func Equal(a, b *CheckedDataType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KCIntK, KCFloat:
		return a.CABIWidth == b.CABIWidth
	case KArraySized:
		return a.Len == b.Len && Equal(a.Elem, b.Elem)
	case KArrayUnsized, KArrayDynamic, KList, KOptional:
		return Equal(a.Elem, b.Elem)
	case KStr, KBytes:
		return a.Len == b.Len
	case KTuple:
		return equalSlice(a.Tuple, b.Tuple)
	case KResult:
		return Equal(a.ResultOk, b.ResultOk) && equalSlice(a.ResultErrs, b.ResultErrs)
	case KPtr, KPtrMut, KRef, KRefMut, KTrace, KTraceMut, KMut:
		return Equal(a.Inner, b.Inner)
	case KCustom:
		return equalCustom(a.Custom, b.Custom)
	case KCompilerGeneric:
		return a.GenericName == b.GenericName
	case KLambda:
		return equalLambda(a.Fn, b.Fn)
	case KCompilerChoice, KCondCompilerChoice:
		return equalSlice(a.Choice.Candidates, b.Choice.Candidates)
	default:
		// Primitives with no payload: kind equality is sufficient.
		return true
	}
}

func equalSlice(a, b []*CheckedDataType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalCustom(a, b *Custom) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.GlobalName != b.GlobalName {
		return false
	}
	return equalSlice(a.GenericArgs, b.GenericArgs)
}

func equalLambda(a, b *Lambda) bool {
	if a == nil || b == nil {
		return a == b
	}
	return equalSlice(a.Params, b.Params) && Equal(a.Return, b.Return)
}
