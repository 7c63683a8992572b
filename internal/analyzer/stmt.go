package analyzer

import (
	"fmt"
	"strings"

	"lilycore/internal/ast"
	"lilycore/internal/checked"
	"lilycore/internal/diag"
	"lilycore/internal/scope"
	"lilycore/internal/types"
)

// checkBlock checks every statement of n in order, warning on unreachable
// code after a returning statement and on unused non-unit expression
// statements (spec.md §4.4 "Function-body checking").
func (a *Analyzer) checkBlock(c *checkCtx, n *ast.Node, sc *scope.Scope) *checked.Block {
	b := &checked.Block{ScopeID: sc.ID}
	returned := false
	for _, stmtNode := range n.Children {
		if returned {
			a.Sink.Warnf(diag.UnreachableCodeWarning, a.Pkg.File, loc(stmtNode), "unreachable code after return")
		}
		st := a.checkStmt(c, stmtNode, sc)
		b.Stmts = append(b.Stmts, st)
		if st.Kind == checked.SExpr && st.Expr != nil && st.Expr.Type != nil && st.Expr.Type.Kind != types.KUnit {
			a.Sink.Warnf(diag.UnusedExpressionWarning, a.Pkg.File, loc(stmtNode), "unused non-unit expression")
		}
		if st.Kind == checked.SReturn {
			returned = true
		}
	}
	b.HasReturn = sc.HasReturn()
	return b
}

// checkStmt dispatches on the AST statement kind (spec.md §4.4 "Statement
// checking").
func (a *Analyzer) checkStmt(c *checkCtx, n *ast.Node, sc *scope.Scope) *checked.Stmt {
	switch n.Kind {
	case ast.KindBlock:
		child := a.NewScope(sc, scope.TagBlock)
		return &checked.Stmt{Kind: checked.SBlock, Node: n, Block: a.checkBlock(c, n, child)}
	case ast.KindIf:
		return a.checkIf(c, n, sc)
	case ast.KindWhile:
		return a.checkWhile(c, n, sc)
	case ast.KindFor:
		return a.checkFor(c, n, sc)
	case ast.KindMatch:
		return a.checkMatchOrSwitch(c, n, sc, false)
	case ast.KindSwitch:
		return a.checkMatchOrSwitch(c, n, sc, true)
	case ast.KindTryCatch:
		return a.checkTryCatch(c, n, sc)
	case ast.KindUnsafe:
		return a.checkUnsafeBlock(c, n, sc)
	case ast.KindDefer:
		inner := a.checkStmt(c, child(n, 0), sc)
		return &checked.Stmt{Kind: checked.SDefer, Node: n, Deferred: inner}
	case ast.KindDrop:
		return a.checkDrop(c, n, sc)
	case ast.KindRaise:
		return a.checkRaise(c, n, sc)
	case ast.KindReturn:
		return a.checkReturn(c, n, sc)
	case ast.KindVarDecl:
		return a.checkVarDecl(c, n, sc)
	case ast.KindBreak:
		if sc.GetCurrentFun() == nil {
		}
		return &checked.Stmt{Kind: checked.SBreak, Node: n}
	case ast.KindNext:
		return &checked.Stmt{Kind: checked.SNext, Node: n}
	default:
		e := a.checkExpr(c, n, sc, nil, false)
		return &checked.Stmt{Kind: checked.SExpr, Node: n, Expr: e}
	}
}

func (a *Analyzer) checkIf(c *checkCtx, n *ast.Node, sc *scope.Scope) *checked.Stmt {
	cond := a.checkExpr(c, child(n, 0), sc, types.New(types.KBool), false)
	if cond.Type.Kind != types.KBool {
		a.Sink.Errorf(diag.ExpectedBool, a.Pkg.File, loc(n), "if condition must be bool")
	}
	thenScope := a.NewScope(sc, scope.TagBlock)
	then := a.checkBlock(c, child(n, 1), thenScope)

	var elseBlock *checked.Block
	if elseNode := child(n, 2); elseNode != nil {
		elseScope := a.NewScope(sc, scope.TagBlock)
		elseBlock = a.checkBlock(c, elseNode, elseScope)
	}
	if then.HasReturn && (elseBlock == nil || elseBlock.HasReturn) && elseBlock != nil {
		scope.SetHasReturn(sc)
	}
	return &checked.Stmt{Kind: checked.SIf, Node: n, Cond: cond, Then: then, Else: elseBlock}
}

func (a *Analyzer) checkWhile(c *checkCtx, n *ast.Node, sc *scope.Scope) *checked.Stmt {
	cond := a.checkExpr(c, child(n, 0), sc, types.New(types.KBool), false)
	if cond.Type.Kind != types.KBool {
		a.Sink.Errorf(diag.ExpectedBool, a.Pkg.File, loc(n), "while condition must be bool")
	}
	bodyScope := a.NewScope(sc, scope.TagBlock)
	body := a.checkBlock(c, child(n, 1), bodyScope)
	return &checked.Stmt{Kind: checked.SWhile, Node: n, Cond: cond, Then: body}
}

// checkFor checks a for loop with capture destructuring — identifier or
// tuple (spec.md §4.4 "Statement checking").
func (a *Analyzer) checkFor(c *checkCtx, n *ast.Node, sc *scope.Scope) *checked.Stmt {
	captureNode := child(n, 0)
	iterable := a.checkExpr(c, child(n, 1), sc, nil, false)
	elemType := iterable.Type
	if iterable.Type != nil && iterable.Type.Elem != nil {
		elemType = iterable.Type.Elem
	}

	bodyScope := a.NewScope(sc, scope.TagBlock)
	var names []string
	if captureNode != nil && captureNode.Kind == ast.KindTupleLit {
		for i, memberNode := range captureNode.Children {
			nm := name(memberNode)
			names = append(names, nm)
			var memberType *types.CheckedDataType = types.Unknown()
			if elemType != nil && i < len(elemType.Tuple) {
				memberType = elemType.Tuple[i]
			}
			bodyScope.AddCapturedVariable(nm, &checked.CapturedVariable{Name: nm, Type: memberType})
		}
	} else if captureNode != nil {
		nm := name(captureNode)
		names = []string{nm}
		bodyScope.AddCapturedVariable(nm, &checked.CapturedVariable{Name: nm, Type: elemType})
	}

	body := a.checkBlock(c, child(n, 2), bodyScope)
	return &checked.Stmt{Kind: checked.SFor, Node: n, Iterable: iterable, CaptureNames: names, Then: body}
}

// checkMatchOrSwitch implements match/switch checking with exhaustiveness
// tracking (spec.md §4.4 "Match exhaustiveness", "Match-vs-switch
// selection"). forceSwitch is set when the AST already committed to
// switch lowering (primitive scrutinee); the analyzer otherwise decides
// based on the scrutinee's type.
func (a *Analyzer) checkMatchOrSwitch(c *checkCtx, n *ast.Node, sc *scope.Scope, forceSwitch bool) *checked.Stmt {
	scrutinee := a.checkExpr(c, child(n, 0), sc, nil, false)
	isSwitch := forceSwitch || isSwitchable(scrutinee.Type)

	var cases []*checked.MatchCase
	nbCases := 0
	seen := map[string]bool{}
	for _, caseNode := range n.Children[1:] {
		captures := map[string]*types.CheckedDataType{}
		patNode := child(caseNode, 0)
		caseScope := a.NewScope(sc, scope.TagMatchCase)

		var pat *checked.Pattern
		isElse := patNode == nil || patNode.Kind == ast.KindPatWildcard
		if !isElse {
			pat = a.checkPattern(c, patNode, sc, scrutinee.Type, captures)
			key := patternKey(pat)
			if seen[key] {
				a.Sink.Errorf(diag.DuplicateCase, a.Pkg.File, loc(caseNode), "duplicate case")
			}
			seen[key] = true
		}
		for nm, t := range captures {
			caseScope.PushVariable(nm, &checked.Variable{Name: nm, Type: t})
		}

		bodyNode := child(caseNode, 1)
		body := a.checkBlock(c, bodyNode, caseScope)

		if isElse {
			nbCases = totalCases(scrutinee.Type, a.enumVariantCount)
		} else {
			nbCases++
		}
		cases = append(cases, &checked.MatchCase{Pattern: pat, Body: body, IsElse: isElse})
	}

	total := totalCases(scrutinee.Type, a.enumVariantCount)
	if nbCases < total {
		a.Sink.Errorf(diag.NonExhaustivePatterns, a.Pkg.File, loc(n), "non-exhaustive patterns: %d of %d cases covered", nbCases, total)
	}

	return &checked.Stmt{Kind: checked.SMatch, Node: n, Scrutinee: scrutinee, Cases: cases, IsSwitch: isSwitch}
}

func isSwitchable(t *types.CheckedDataType) bool {
	if t == nil {
		return false
	}
	if t.Kind == types.KBool {
		return true
	}
	if isIntKind(t.Kind) {
		return true
	}
	return t.Kind == types.KCustom && t.Custom != nil && t.Custom.DeclKind == types.CustomEnum
}

func (a *Analyzer) enumVariantCount(t *types.CheckedDataType) int {
	if t == nil || t.Kind != types.KCustom || t.Custom == nil {
		return 1
	}
	td := a.lookupTypeDeclByScope(t.Custom.ScopeID)
	if td == nil {
		return 1
	}
	if n := len(td.Variants); n > 0 {
		return n
	}
	return 1
}

func (a *Analyzer) lookupTypeDeclByScope(scopeID uint32) *checked.TypeDecl {
	a.typeDeclsMu.Lock()
	defer a.typeDeclsMu.Unlock()
	return a.typeDecls[scopeID]
}

// patternKey produces a string deduplication key for a case pattern, used
// to detect DuplicateCase (spec.md §4.4 "Match-vs-switch selection").
// Identical syntactic patterns (same kind, same literal/bound data)
// collide; structurally distinct patterns of the same kind do not.
func patternKey(p *checked.Pattern) string {
	if p == nil {
		return "_"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d:", p.Kind)
	switch v := p.Data.(type) {
	case string:
		b.WriteString(v)
	case int64:
		fmt.Fprintf(&b, "%d", v)
	case bool:
		fmt.Fprintf(&b, "%v", v)
	}
	for _, ch := range p.Children {
		b.WriteByte(',')
		b.WriteString(patternKey(ch))
	}
	return b.String()
}

func (a *Analyzer) checkTryCatch(c *checkCtx, n *ast.Node, sc *scope.Scope) *checked.Stmt {
	trySc := a.NewScope(sc, scope.TagTry)
	tryBody := a.checkBlock(c.withTry(), child(n, 0), trySc)

	catchName := name(child(n, 1))
	trySc.SetCatchName(catchName)
	catchSc := a.NewScope(sc, scope.TagBlock)
	catchSc.PushVariable(catchName, &checked.Variable{Name: catchName, Type: types.Unknown()})
	catchBody := a.checkBlock(c, child(n, 2), catchSc)

	return &checked.Stmt{Kind: checked.STryCatch, Node: n, Try: tryBody, CatchName: catchName, Catch: catchBody, Raises: trySc.Raises()}
}

func (a *Analyzer) checkUnsafeBlock(c *checkCtx, n *ast.Node, sc *scope.Scope) *checked.Stmt {
	bodyScope := a.NewScope(sc, scope.TagBlock)
	body := a.checkBlock(c.withSafeMode(false), child(n, 0), bodyScope)
	return &checked.Stmt{Kind: checked.SUnsafe, Node: n, Body: body}
}

// checkDrop only allows dropping droppable custom types or pointers
// (spec.md §4.4 "drop", §7 "DataTypeCannotBeDropped").
func (a *Analyzer) checkDrop(c *checkCtx, n *ast.Node, sc *scope.Scope) *checked.Stmt {
	target := a.checkExpr(c, child(n, 0), sc, nil, false)
	switch target.Type.Kind {
	case types.KCustom, types.KPtr, types.KPtrMut:
	default:
		a.Sink.Errorf(diag.DataTypeCannotBeDropped, a.Pkg.File, loc(n), "%s cannot be dropped", target.Type.Kind)
	}
	return &checked.Stmt{Kind: checked.SDrop, Node: n, Target: target}
}

// checkRaise records the error type on the enclosing function's raise
// set; if inside try, also records it on the try's scope (spec.md §4.4
// "raise").
func (a *Analyzer) checkRaise(c *checkCtx, n *ast.Node, sc *scope.Scope) *checked.Stmt {
	errName := name(child(n, 0))
	var errType *types.CheckedDataType
	var errDecl *checked.ErrorDecl
	if ed, _, ok := sc.SearchError(errName); ok {
		errDecl = ed
		errType = ed.Inner
	} else {
		a.Sink.Errorf(diag.UnknownIdentifier, a.Pkg.File, loc(n), "unknown error %q", errName)
	}

	var value *checked.Expr
	if valNode := child(n, 1); valNode != nil {
		value = a.checkExpr(c, valNode, sc, errType, false)
	}

	if c.fn != nil && errDecl != nil {
		if c.fn.Raises == nil {
			c.fn.Raises = make(map[string]*checked.ErrorDecl)
		}
		c.fn.Raises[errName] = errDecl
	}
	if c.inTry {
		if try := sc.GetCurrentTry(); try != nil && errDecl != nil {
			try.AddRaise(errName, errDecl)
		}
	}
	return &checked.Stmt{Kind: checked.SRaise, Node: n, ErrorType: errType, Value: value}
}

// checkReturn unifies the expression type with the function's return
// type and sets has_return (spec.md §4.4 "return"). Deferred statements
// are not re-emitted before the return.
func (a *Analyzer) checkReturn(c *checkCtx, n *ast.Node, sc *scope.Scope) *checked.Stmt {
	var expected *types.CheckedDataType
	if c.fn != nil {
		expected = c.fn.Return
	}
	var val *checked.Expr
	if valNode := child(n, 0); valNode != nil {
		val = a.checkExpr(c, valNode, sc, expected, false)
	} else {
		val = &checked.Expr{Kind: checked.EIdentifier, Type: types.Unit()}
	}
	if c.fn != nil {
		if c.fn.Return == nil || c.fn.Return.Kind == types.KUnknown {
			types.Update(c.fn.Return, val.Type)
		} else if !types.Equal(c.fn.Return, val.Type) {
			a.Sink.Errorf(diag.DataTypeDontMatchWithInferred, a.Pkg.File, loc(n), "return type does not match function's declared return type")
		}
	}
	scope.SetHasReturn(sc)
	return &checked.Stmt{Kind: checked.SReturn, Node: n, ReturnValue: val}
}

func (a *Analyzer) checkVarDecl(c *checkCtx, n *ast.Node, sc *scope.Scope) *checked.Stmt {
	varName := name(child(n, 0))
	var declared *types.CheckedDataType
	var mutable bool
	if m, ok := n.Data.(bool); ok {
		mutable = m
	}
	if typeNode := child(n, 1); typeNode != nil {
		declared = resolveCastDestType(name(typeNode))
	}
	init := a.checkExpr(c, child(n, 2), sc, declared, false)
	if declared == nil {
		declared = init.Type
	} else if !types.Equal(declared, init.Type) {
		a.Sink.Errorf(diag.DataTypeDontMatch, a.Pkg.File, loc(n), "initializer type does not match declared type of %q", varName)
	}
	v := &checked.Variable{Name: varName, Type: declared, Mutable: mutable}
	if !sc.PushVariable(varName, v) {
		a.Sink.Errorf(diag.DuplicateConstant, a.Pkg.File, loc(n), "duplicate variable %q in this scope", varName)
	}
	return &checked.Stmt{Kind: checked.SVarDecl, Node: n, VarName: varName, VarType: declared, Init: init, Mutable: mutable}
}
