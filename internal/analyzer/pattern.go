package analyzer

import (
	"lilycore/internal/ast"
	"lilycore/internal/checked"
	"lilycore/internal/diag"
	"lilycore/internal/scope"
	"lilycore/internal/types"
)

// checkPattern implements spec.md §4.4 "Pattern checking": every pattern
// takes the expected (scrutinee-derived) type and a write-only capture
// map that is flushed to the surrounding scope once the case body begins.
func (a *Analyzer) checkPattern(c *checkCtx, n *ast.Node, sc *scope.Scope, expected *types.CheckedDataType, captures map[string]*types.CheckedDataType) *checked.Pattern {
	if n == nil {
		return &checked.Pattern{Kind: checked.PWildcard, Type: expected}
	}
	switch n.Kind {
	case ast.KindPatName:
		nm := name(n)
		captures[nm] = expected
		return &checked.Pattern{Kind: checked.PName, Type: expected, Node: n, Data: nm}
	case ast.KindPatWildcard:
		return &checked.Pattern{Kind: checked.PWildcard, Type: expected, Node: n}
	case ast.KindPatAutoComplete:
		return &checked.Pattern{Kind: checked.PAutoComplete, Type: expected, Node: n, AutoComplete: true}
	case ast.KindPatLiteral:
		lit := a.checkExpr(c, child(n, 0), sc, expected, false)
		if expected != nil && !types.Equal(lit.Type, expected) {
			a.Sink.Errorf(diag.DataTypeDontMatch, a.Pkg.File, loc(n), "pattern literal type does not match scrutinee")
		}
		return &checked.Pattern{Kind: checked.PLiteral, Type: lit.Type, Node: n, Data: lit.Data}
	case ast.KindPatRange:
		lo := a.checkExpr(c, child(n, 0), sc, expected, false)
		hi := a.checkExpr(c, child(n, 1), sc, expected, false)
		if !isIntKind(lo.Type.Kind) || !types.Equal(lo.Type, hi.Type) {
			a.Sink.Errorf(diag.DataTypeDontMatch, a.Pkg.File, loc(n), "range pattern endpoints must share the scrutinee's integer type")
		}
		return &checked.Pattern{Kind: checked.PRange, Type: lo.Type, Node: n, RangeLo: lo, RangeHi: hi}
	case ast.KindPatAs:
		inner := a.checkPattern(c, child(n, 1), sc, expected, captures)
		if inner.Kind != checked.PAutoComplete {
			a.Sink.Errorf(diag.UnsupportedConstruct, a.Pkg.File, loc(n), "'as' pattern's inner pattern must be auto-complete")
		}
		nm := name(child(n, 0))
		captures[nm] = expected
		return &checked.Pattern{Kind: checked.PAs, Type: expected, Node: n, Data: nm, Children: []*checked.Pattern{inner}}
	case ast.KindPatArray, ast.KindPatList:
		return a.checkArrayPattern(c, n, sc, expected, captures)
	case ast.KindPatListHeadTail:
		return a.checkListHeadTailPattern(c, n, sc, expected, captures)
	case ast.KindPatTuple:
		return a.checkTuplePattern(c, n, sc, expected, captures)
	case ast.KindPatRecordCall, ast.KindPatVariantCall:
		return a.checkStructuralCallPattern(c, n, sc, expected, captures)
	case ast.KindPatError:
		return a.checkErrorPattern(c, n, sc, expected, captures)
	default:
		a.Sink.Errorf(diag.UnsupportedConstruct, a.Pkg.File, loc(n), "unsupported pattern kind %s", n.Kind)
		return &checked.Pattern{Kind: checked.PWildcard, Type: expected, Node: n}
	}
}

func (a *Analyzer) checkArrayPattern(c *checkCtx, n *ast.Node, sc *scope.Scope, expected *types.CheckedDataType, captures map[string]*types.CheckedDataType) *checked.Pattern {
	elemT := types.Unknown()
	if expected != nil && expected.Elem != nil {
		elemT = expected.Elem
	}
	children := make([]*checked.Pattern, 0, len(n.Children))
	autoComplete := false
	for _, ch := range n.Children {
		if ch.Kind == ast.KindPatAutoComplete {
			autoComplete = true
			continue
		}
		children = append(children, a.checkPattern(c, ch, sc, elemT, captures))
	}
	if expected != nil && expected.Kind == types.KArraySized && !autoComplete && expected.Len != len(children) {
		a.Sink.Errorf(diag.ExpectedSizedArrayWithTheSameSize, a.Pkg.File, loc(n), "expected array pattern of size %d, got %d", expected.Len, len(children))
	}
	return &checked.Pattern{Kind: checked.PArray, Type: expected, Node: n, Children: children, MinLen: len(children), AutoComplete: autoComplete}
}

func (a *Analyzer) checkListHeadTailPattern(c *checkCtx, n *ast.Node, sc *scope.Scope, expected *types.CheckedDataType, captures map[string]*types.CheckedDataType) *checked.Pattern {
	elemT := types.Unknown()
	if expected != nil && expected.Elem != nil {
		elemT = expected.Elem
	}
	children := make([]*checked.Pattern, len(n.Children))
	for i, ch := range n.Children {
		children[i] = a.checkPattern(c, ch, sc, elemT, captures)
	}
	return &checked.Pattern{Kind: checked.PListHeadTail, Type: expected, Node: n, Children: children}
}

func (a *Analyzer) checkTuplePattern(c *checkCtx, n *ast.Node, sc *scope.Scope, expected *types.CheckedDataType, captures map[string]*types.CheckedDataType) *checked.Pattern {
	children := make([]*checked.Pattern, len(n.Children))
	for i, ch := range n.Children {
		var elemExpected *types.CheckedDataType
		if expected != nil && i < len(expected.Tuple) {
			elemExpected = expected.Tuple[i]
		}
		children[i] = a.checkPattern(c, ch, sc, elemExpected, captures)
	}
	return &checked.Pattern{Kind: checked.PTuple, Type: expected, Node: n, Children: children}
}

// checkStructuralCallPattern covers record-call and variant-call patterns
// (spec.md §4.4 "Tuple/record-call/variant-call"): field names are recorded
// as written and each sub-pattern is checked against an unknown type. Field
// names are not resolved against the record or variant, so unknown field
// names and arity mismatches are not reported.
func (a *Analyzer) checkStructuralCallPattern(c *checkCtx, n *ast.Node, sc *scope.Scope, expected *types.CheckedDataType, captures map[string]*types.CheckedDataType) *checked.Pattern {
	kind := checked.PRecordCall
	if n.Kind == ast.KindPatVariantCall {
		kind = checked.PVariantCall
	}
	fieldNames := make([]string, 0, len(n.Children)-1)
	children := make([]*checked.Pattern, 0, len(n.Children)-1)
	for _, fieldNode := range n.Children[1:] {
		fieldNames = append(fieldNames, name(fieldNode))
		children = append(children, a.checkPattern(c, child(fieldNode, 0), sc, types.Unknown(), captures))
	}
	return &checked.Pattern{Kind: kind, Type: expected, Node: n, FieldNames: fieldNames, Children: children}
}

func (a *Analyzer) checkErrorPattern(c *checkCtx, n *ast.Node, sc *scope.Scope, expected *types.CheckedDataType, captures map[string]*types.CheckedDataType) *checked.Pattern {
	errName := name(child(n, 0))
	var inner *checked.Pattern
	if child(n, 1) != nil {
		inner = a.checkPattern(c, child(n, 1), sc, types.Unknown(), captures)
	}
	var children []*checked.Pattern
	if inner != nil {
		children = []*checked.Pattern{inner}
	}
	return &checked.Pattern{Kind: checked.PError, Type: expected, Node: n, Data: errName, Children: children}
}

// totalCases computes total_cases(type) for exhaustiveness checking
// (spec.md §4.4 "Match exhaustiveness"): 2 for bool/result/optional,
// variant count for enums, otherwise 1 (a universal wildcard suffices).
func totalCases(t *types.CheckedDataType, enumVariantCount func(*types.CheckedDataType) int) int {
	if t == nil {
		return 1
	}
	switch t.Kind {
	case types.KBool, types.KResult, types.KOptional:
		return 2
	case types.KCustom:
		if t.Custom != nil && t.Custom.DeclKind == types.CustomEnum {
			return enumVariantCount(t)
		}
		return 1
	default:
		return 1
	}
}
