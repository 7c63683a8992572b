package checked

import (
	"lilycore/internal/ast"
	"lilycore/internal/types"
)

// PatternKind tags a checked pattern (spec.md §4.4 "Pattern checking").
type PatternKind uint8

const (
	PArray PatternKind = iota
	PList
	PListHeadTail
	PTuple
	PRecordCall
	PVariantCall
	PAs
	PName
	PWildcard
	PAutoComplete
	PRange
	PError
	PLiteral
)

// Pattern is a checked pattern. Captures is write-only within a single
// case and is flushed to the surrounding scope once the case body begins
// (spec.md §4.4, §9 "Pattern capture maps").
type Pattern struct {
	Kind PatternKind
	Type *types.CheckedDataType
	Node *ast.Node

	Data     interface{} // literal value, bound name, etc.
	Children []*Pattern

	// Array/list sizing.
	MinLen      int
	AutoComplete bool

	// Range endpoints.
	RangeLo, RangeHi *Expr

	// Record/variant-call/error resolution.
	Target     Decl
	FieldNames []string

	Captures map[string]*types.CheckedDataType
}

// ToExpr lowers an irrefutable pattern to a boolean predicate expression
// over scrutinee, for switch compilation (spec.md §4.4 "Pattern-to-
// expression lowering"). auto_complete and name patterns lower to the
// constant `true`.
func (p *Pattern) ToExpr(scrutinee *Expr) *Expr {
	truth := &Expr{Kind: EBoolLit, Type: types.New(types.KBool), Data: true}
	if p == nil {
		return truth
	}
	switch p.Kind {
	case PName, PAutoComplete, PWildcard:
		return truth
	case PLiteral:
		return &Expr{
			Kind:     ECompare,
			Type:     types.New(types.KBool),
			Op:       "=",
			Children: []*Expr{scrutinee, {Kind: literalExprKind(p.Data), Type: p.Type, Data: p.Data}},
		}
	case PRange:
		lo := &Expr{Kind: ECompare, Type: types.New(types.KBool), Op: ">=", Children: []*Expr{scrutinee, p.RangeLo}}
		hi := &Expr{Kind: ECompare, Type: types.New(types.KBool), Op: "<=", Children: []*Expr{scrutinee, p.RangeHi}}
		return &Expr{Kind: ELogical, Type: types.New(types.KBool), Op: "&&", Children: []*Expr{lo, hi}}
	case PArray, PTuple:
		conj := truth
		for i, child := range p.Children {
			elemAccess := &Expr{Kind: EPathAccess, Type: child.Type, FieldIndex: i, Children: []*Expr{scrutinee}}
			cond := child.ToExpr(elemAccess)
			conj = &Expr{Kind: ELogical, Type: types.New(types.KBool), Op: "&&", Children: []*Expr{conj, cond}}
		}
		return conj
	case PVariantCall:
		tagCheck := &Expr{Kind: ECompare, Type: types.New(types.KBool), Op: "=tag=", Target: p.Target, Children: []*Expr{scrutinee}}
		conj := tagCheck
		for i, child := range p.Children {
			access := &Expr{Kind: EPathAccess, Type: child.Type, FieldIndex: i, Children: []*Expr{scrutinee}}
			cond := child.ToExpr(access)
			conj = &Expr{Kind: ELogical, Type: types.New(types.KBool), Op: "&&", Children: []*Expr{conj, cond}}
		}
		return conj
	case PAs:
		return p.Children[0].ToExpr(scrutinee)
	default:
		return truth
	}
}

func literalExprKind(v interface{}) ExprKind {
	switch v.(type) {
	case int64, int:
		return EIntLit
	case float64:
		return EFloatLit
	case string:
		return EStringLit
	case bool:
		return EBoolLit
	default:
		return EIntLit
	}
}
