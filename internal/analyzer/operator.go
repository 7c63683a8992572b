package analyzer

import (
	"strings"

	"lilycore/internal/checked"
	"lilycore/internal/types"
)

// validOperatorTokens is the closed set of overloadable operator names
// spec.md §4.4 requires membership in ("name must be a valid operator
// token"), mirrored from the arithmetic/comparison/logical operator set
// §4.4 "Binary" already names.
var validOperatorTokens = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&&": true, "||": true,
}

// IsValidOperatorToken reports whether name may be overloaded.
func IsValidOperatorToken(name string) bool {
	return validOperatorTokens[name]
}

// OperatorRegistry is the process-wide table of user-defined operator
// overloads, keyed by (name, parameter-types) per spec.md §4.4 "Function"
// declaration checking: "a unique (name, parameter-types) entry must be
// inserted into the operator registry".
type OperatorRegistry struct {
	entries map[string]*checked.Function
}

func NewOperatorRegistry() *OperatorRegistry {
	return &OperatorRegistry{entries: make(map[string]*checked.Function)}
}

func operatorKey(name string, params []*types.CheckedDataType) string {
	var b strings.Builder
	b.WriteString(name)
	for _, p := range params {
		b.WriteByte('|')
		b.WriteString(describeForKey(p))
	}
	return b.String()
}

func describeForKey(t *types.CheckedDataType) string {
	if t == nil {
		return "?"
	}
	if t.Kind == types.KCustom && t.Custom != nil {
		return t.Custom.GlobalName
	}
	return t.Kind.String()
}

// Add inserts fn under (name, paramTypes); returns false if an entry with
// the same key already exists (spec.md's "duplicate-operator" diagnostic).
func (r *OperatorRegistry) Add(name string, paramTypes []*types.CheckedDataType, fn *checked.Function) bool {
	key := operatorKey(name, paramTypes)
	if _, ok := r.entries[key]; ok {
		return false
	}
	r.entries[key] = fn
	return true
}

// Lookup resolves an operator-overload call by (name, argument types).
func (r *OperatorRegistry) Lookup(name string, argTypes []*types.CheckedDataType) (*checked.Function, bool) {
	fn, ok := r.entries[operatorKey(name, argTypes)]
	return fn, ok
}
