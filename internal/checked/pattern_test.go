package checked

import (
	"testing"

	"lilycore/internal/types"
)

func boolConst(v bool) *Expr {
	return &Expr{Kind: EBoolLit, Type: types.New(types.KBool), Data: v}
}

// TestPatternToExprNilLowersToTrue checks the documented base case: a nil
// pattern (an irrefutable catch-all) lowers to the literal `true`.
func TestPatternToExprNilLowersToTrue(t *testing.T) {
	var p *Pattern
	got := p.ToExpr(boolConst(false))
	if got.Kind != EBoolLit || got.Data != true {
		t.Fatalf("expected literal true, got %+v", got)
	}
}

// TestPatternToExprNameAutoCompleteWildcardAreTrivialTrue checks that
// name/auto-complete/wildcard patterns never constrain the scrutinee.
func TestPatternToExprNameAutoCompleteWildcardAreTrivialTrue(t *testing.T) {
	scrutinee := &Expr{Kind: EIdentifier, Type: types.New(types.KI32)}
	for _, kind := range []PatternKind{PName, PAutoComplete, PWildcard} {
		p := &Pattern{Kind: kind}
		got := p.ToExpr(scrutinee)
		if got.Kind != EBoolLit || got.Data != true {
			t.Fatalf("kind %d: expected literal true, got %+v", kind, got)
		}
	}
}

// TestPatternToExprLiteralComparesAgainstScrutinee checks a literal
// pattern lowers to an equality comparison carrying the literal's kind
// and value, inferred via literalExprKind.
func TestPatternToExprLiteralComparesAgainstScrutinee(t *testing.T) {
	scrutinee := &Expr{Kind: EIdentifier, Type: types.New(types.KI32)}
	p := &Pattern{Kind: PLiteral, Type: types.New(types.KI32), Data: int64(7)}

	got := p.ToExpr(scrutinee)
	if got.Kind != ECompare || got.Op != "=" {
		t.Fatalf("expected an `=` comparison, got %+v", got)
	}
	if len(got.Children) != 2 || got.Children[0] != scrutinee {
		t.Fatalf("expected the scrutinee as the left operand, got %+v", got.Children)
	}
	lit := got.Children[1]
	if lit.Kind != EIntLit || lit.Data != int64(7) {
		t.Fatalf("expected an int literal 7, got %+v", lit)
	}
}

// TestPatternToExprRangeBuildsInclusiveBounds checks a range pattern
// lowers to (scrutinee >= lo) && (scrutinee <= hi).
func TestPatternToExprRangeBuildsInclusiveBounds(t *testing.T) {
	scrutinee := &Expr{Kind: EIdentifier, Type: types.New(types.KI32)}
	lo := &Expr{Kind: EIntLit, Data: int64(1)}
	hi := &Expr{Kind: EIntLit, Data: int64(10)}
	p := &Pattern{Kind: PRange, RangeLo: lo, RangeHi: hi}

	got := p.ToExpr(scrutinee)
	if got.Kind != ELogical || got.Op != "&&" || len(got.Children) != 2 {
		t.Fatalf("expected a conjunction, got %+v", got)
	}
	left, right := got.Children[0], got.Children[1]
	if left.Op != ">=" || right.Op != "<=" {
		t.Fatalf("expected >= then <=, got %q then %q", left.Op, right.Op)
	}
}

// TestPatternToExprArrayConjoinsElementPatterns checks an array pattern
// with N children folds into N path-access element checks conjoined with
// &&, each indexed by the child's position.
func TestPatternToExprArrayConjoinsElementPatterns(t *testing.T) {
	scrutinee := &Expr{Kind: EIdentifier, Type: types.New(types.KArraySized)}
	p := &Pattern{
		Kind: PArray,
		Children: []*Pattern{
			{Kind: PLiteral, Type: types.New(types.KI32), Data: int64(1)},
			{Kind: PLiteral, Type: types.New(types.KI32), Data: int64(2)},
		},
	}

	got := p.ToExpr(scrutinee)
	if got.Kind != ELogical || got.Op != "&&" {
		t.Fatalf("expected a top-level conjunction, got %+v", got)
	}
	// The second conjunct should access field index 1 off the scrutinee.
	secondCond := got.Children[1]
	access := secondCond.Children[0]
	if access.Kind != EPathAccess || access.FieldIndex != 1 {
		t.Fatalf("expected element index 1 access, got %+v", access)
	}
}

// TestPatternToExprAsUnwrapsToInnerPattern checks an `as`-pattern
// delegates to its single child without adding a condition of its own.
func TestPatternToExprAsUnwrapsToInnerPattern(t *testing.T) {
	scrutinee := &Expr{Kind: EIdentifier, Type: types.New(types.KI32)}
	inner := &Pattern{Kind: PLiteral, Type: types.New(types.KI32), Data: int64(3)}
	p := &Pattern{Kind: PAs, Children: []*Pattern{inner}}

	got := p.ToExpr(scrutinee)
	want := inner.ToExpr(scrutinee)
	if got.Kind != want.Kind || got.Op != want.Op {
		t.Fatalf("expected delegation to inner.ToExpr, got %+v want %+v", got, want)
	}
}

func TestLiteralExprKind(t *testing.T) {
	cases := []struct {
		v    interface{}
		want ExprKind
	}{
		{int64(1), EIntLit},
		{1, EIntLit},
		{float64(1.5), EFloatLit},
		{"s", EStringLit},
		{true, EBoolLit},
		{nil, EIntLit},
	}
	for _, c := range cases {
		if got := literalExprKind(c.v); got != c.want {
			t.Errorf("literalExprKind(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}
