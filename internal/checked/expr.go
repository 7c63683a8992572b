package checked

import (
	"lilycore/internal/ast"
	"lilycore/internal/types"
)

// ExprKind tags a checked expression the way vslc's NodeType tags a parse
// node; CallKind below further distinguishes an Identifier/Call expr by
// what it resolved to, as spec.md §4.4 "Identifier" requires ("variables,
// constants, parameters, enums, and enum variants each produce a distinct
// call-kind").
type ExprKind uint8

const (
	EIdentifier ExprKind = iota
	EIntLit
	EFloatLit
	EStringLit
	EBoolLit
	ENilLit
	ENoneLit
	EArith
	ECompare
	ELogical
	EAssignOp
	EChain
	ECallFun
	ECallBuiltin
	ECallSys
	ECallLen
	ECallRecord
	ECallVariant
	EArrayLit
	EListLit
	ETupleLit
	ECast
	EPathAccess
	EUnaryNot
	EUnaryNeg
	EUnaryDeref
	EUnaryRef
	ELambda
	EUnknownPlaceholder // produced on a failed sub-check, spec.md §7 "Recovery".
)

// CallKind distinguishes what an EIdentifier or ECallFun expression
// resolved to.
type CallKind uint8

const (
	CallNone CallKind = iota
	CallVariable
	CallConstant
	CallParameter
	CallFunction
	CallEnum
	CallEnumVariant
)

// Expr is a checked expression: spec.md §3 invariant "every checked
// expression has a non-null data type". Type is never nil once Check
// returns; it may be types.KUnknown mid-inference.
type Expr struct {
	Kind ExprKind
	Type *types.CheckedDataType
	Node *ast.Node

	// Operator / literal payload.
	Op   string
	Data interface{}

	Children []*Expr

	// Identifier / call resolution.
	Call       CallKind
	Target     Decl
	FieldIndex int
	ScopeID    uint32

	// Call-site generic resolution (spec.md §4.4 "Call (function)").
	GenericArgs map[string]*types.CheckedDataType
	Signature   *Signature
}
