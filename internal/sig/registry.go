// Package sig implements the signature registry described in spec.md
// §4.3: per-declaration sets of concrete type signatures created during
// monomorphization, deduplicated by a deterministic serialized name.
//
// vslc has no generics, so it has no direct analog to monomorphization;
// the naming discipline this package relies on — "prefix + deterministic
// suffix, looked up before allocating a new one" — is lifted from vslc's
// src/util/label.go (NewLabel) and src/ir/lir's Create* naming
// (fmt.Sprintf("%s%d", prefix, id)), generalized from a numeric counter
// suffix to a generic-argument-derived suffix.
package sig

import (
	"strings"

	"lilycore/internal/types"
)

// FunctionSignature is one concrete instantiation of a function
// declaration (spec.md §4.3 "For functions").
type FunctionSignature struct {
	Types       []*types.CheckedDataType // params then return.
	GenericArgs map[string]*types.CheckedDataType
	GlobalName  string
}

// TypeSignature is one concrete instantiation of a type declaration
// (spec.md §4.3 "For types").
type TypeSignature struct {
	GlobalName  string
	GenericArgs map[string]*types.CheckedDataType
	Serialized  string
}

// FunctionRegistry deduplicates FunctionSignature entries for a single
// function declaration.
type FunctionRegistry struct {
	byName  map[string]int
	entries []*FunctionSignature
}

// TypeRegistry deduplicates TypeSignature entries for a single type
// declaration.
type TypeRegistry struct {
	byName  map[string]int
	entries []*TypeSignature
}

// Serialize computes the deterministic global name spec.md §4.3
// prescribes: "<global>__<arg1>_<arg2>…".
func Serialize(global string, genericArgs []*types.CheckedDataType) string {
	if len(genericArgs) == 0 {
		return global
	}
	parts := make([]string, len(genericArgs))
	for i, t := range genericArgs {
		parts[i] = describeType(t)
	}
	return global + "__" + strings.Join(parts, "_")
}

func describeType(t *types.CheckedDataType) string {
	if t == nil {
		return "?"
	}
	if t.Kind == types.KCustom && t.Custom != nil {
		return t.Custom.GlobalName
	}
	return t.Kind.String()
}

// AddFunction adds sig to r if no signature with an equal serialized name
// already exists; returns (entry, added). added is false when the caller
// should reuse the existing entry instead (spec.md §4.3, §8 invariant on
// add_signature).
func (r *FunctionRegistry) AddFunction(types_ []*types.CheckedDataType, args map[string]*types.CheckedDataType, global string) (*FunctionSignature, bool) {
	if r.byName == nil {
		r.byName = make(map[string]int)
	}
	name := Serialize(global, genericArgList(args))
	if i, ok := r.byName[name]; ok {
		return r.entries[i], false
	}
	e := &FunctionSignature{Types: types_, GenericArgs: args, GlobalName: name}
	r.byName[name] = len(r.entries)
	r.entries = append(r.entries, e)
	return e, true
}

// Original returns the first signature added to r — the function's
// original (generic) signature per spec.md §3 invariant.
func (r *FunctionRegistry) Original() *FunctionSignature {
	if len(r.entries) == 0 {
		return nil
	}
	return r.entries[0]
}

// All returns every signature added to r, in insertion order.
func (r *FunctionRegistry) All() []*FunctionSignature {
	return r.entries
}

// AddType adds a type signature to r, deduplicated the same way AddFunction
// is.
func (r *TypeRegistry) AddType(global string, args map[string]*types.CheckedDataType) (*TypeSignature, bool) {
	if r.byName == nil {
		r.byName = make(map[string]int)
	}
	serial := Serialize(global, genericArgList(args))
	if i, ok := r.byName[serial]; ok {
		return r.entries[i], false
	}
	e := &TypeSignature{GlobalName: global, GenericArgs: args, Serialized: serial}
	r.byName[serial] = len(r.entries)
	r.entries = append(r.entries, e)
	return e, true
}

func (r *TypeRegistry) All() []*TypeSignature {
	return r.entries
}

// genericArgList produces a stable ordering over a generic-arg map for
// serialization: the map's values, ordered by generic name. AddFunction
// and AddType use it to build every serialized name they store.
func genericArgList(m map[string]*types.CheckedDataType) []*types.CheckedDataType {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Stable sort without pulling in "sort" for a handful of entries:
	// insertion sort is fine, signatures rarely carry more than a few
	// generic parameters.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	out := make([]*types.CheckedDataType, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}
