package analyzer

import "lilycore/internal/types"

// BuiltinSignature describes one entry in the fixed builtin/sys function
// tables spec.md §4.4 "Call (builtin / sys)" dispatches against.
type BuiltinSignature struct {
	Params  []types.Kind
	Return  types.Kind
	Variadic bool
}

// BuiltinTable is the process-wide, read-only-after-init registry of
// `builtin.*` functions, generalizing vslc's fixed runtime-call surface
// (vslc's backend hardcodes a handful of runtime helper calls such as
// string concatenation; this table generalizes that idea into a lookup
// table instead of ad hoc backend special-casing).
type BuiltinTable struct {
	fns map[string]BuiltinSignature
}

// SysTable is the analogous table for `sys.*` functions (syscalls / OS
// surface), kept distinct per spec.md's "import-sys-required" diagnostic
// being separate from "import-builtin-required".
type SysTable struct {
	fns map[string]BuiltinSignature
}

// DefaultBuiltinTable returns the builtin surface a freshly analyzed
// package sees: print/len/alloc-adjacent helpers a self-hosted language
// runtime typically exposes.
func DefaultBuiltinTable() *BuiltinTable {
	return &BuiltinTable{fns: map[string]BuiltinSignature{
		"print":   {Params: []types.Kind{types.KStr}, Return: types.KUnit},
		"println": {Params: []types.Kind{types.KStr}, Return: types.KUnit},
		"len":     {Params: []types.Kind{types.KAny}, Return: types.KUsize},
		"panic":   {Params: []types.Kind{types.KStr}, Return: types.KNever},
		"assert":  {Params: []types.Kind{types.KBool, types.KStr}, Return: types.KUnit},
	}}
}

// DefaultSysTable returns the sys surface: OS-facing calls.
func DefaultSysTable() *SysTable {
	return &SysTable{fns: map[string]BuiltinSignature{
		"exit":  {Params: []types.Kind{types.KI32}, Return: types.KNever},
		"write": {Params: []types.Kind{types.KI32, types.KBytes}, Return: types.KIsize},
		"read":  {Params: []types.Kind{types.KI32, types.KBytes}, Return: types.KIsize},
	}}
}

func (t *BuiltinTable) Lookup(name string) (BuiltinSignature, bool) {
	s, ok := t.fns[name]
	return s, ok
}

func (t *SysTable) Lookup(name string) (BuiltinSignature, bool) {
	s, ok := t.fns[name]
	return s, ok
}
