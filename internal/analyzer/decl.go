package analyzer

import (
	"lilycore/internal/ast"
	"lilycore/internal/checked"
	"lilycore/internal/diag"
	"lilycore/internal/scope"
	"lilycore/internal/types"
)

// childrenOf lets callers range over a possibly-nil container node's
// children without a nil check at every call site.
func childrenOf(n *ast.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	return n.Children
}

// checkConstant checks a constant's data type then its expression against
// it (spec.md §4.4 "Declaration checking... Constant").
func (a *Analyzer) checkConstant(k *checked.Constant, sc *scope.Scope) {
	if k.IsChecked() {
		return
	}
	defer k.MarkChecked()

	n := k.Node
	var declared *types.CheckedDataType
	if typeNode := child(n, 1); typeNode != nil {
		declared = resolveCastDestType(name(typeNode))
	}
	c := a.rootCtx(nil)
	expr := a.checkExpr(c, child(n, 2), sc, declared, false)
	if declared == nil {
		declared = expr.Type
	} else if !types.Equal(declared, expr.Type) {
		a.Sink.Errorf(diag.DataTypeDontMatch, a.Pkg.File, loc(n), "constant %q initializer type mismatch", k.ShortName)
	}
	k.Type = declared
	k.Expr = expr
	k.Type.Lock()
}

// checkFunctionDecl implements spec.md §4.4 "Function" declaration
// checking: main-function rules, operator registration, signature
// push-before-body (so recursive calls resolve), body checking, then
// locking every reachable checked type.
func (a *Analyzer) checkFunctionDecl(f *checked.Function, sc *scope.Scope) {
	if f.IsChecked() {
		return
	}
	defer f.MarkChecked()

	n := f.Node
	// Children convention: [0]=name, [1]=generic params, [2]=params,
	// [3]=return type (optional), [4]=body block.
	for _, gpNode := range childrenOf(child(n, 1)) {
		f.GenericParams = append(f.GenericParams, &checked.GenericParam{Name: name(gpNode)})
	}

	fnScope := a.NewScope(sc, scope.TagFunction)
	for _, gp := range f.GenericParams {
		fnScope.PushGeneric(gp.Name, &checked.GenericParam{Name: gp.Name})
	}

	for _, paramNode := range childrenOf(child(n, 2)) {
		p := &checked.Param{Name: name(paramNode), Mutable: paramMutable(paramNode)}
		if typeNode := child(paramNode, 0); typeNode != nil {
			p.Type = resolveCastDestType(name(typeNode))
		} else {
			p.Type = types.Unknown()
		}
		f.Params = append(f.Params, p)
		fnScope.PushParam(p.Name, p)
	}

	if retNode := child(n, 3); retNode != nil {
		f.Return = resolveCastDestType(name(retNode))
	} else {
		f.Return = types.Unknown()
	}

	a.checkMainRules(f)
	a.checkOperatorRules(f)

	// Push the original (generic) signature before body checking so
	// recursive calls resolve (spec.md §4.4 "Signature is pushed before
	// body checking so recursive calls resolve").
	original := &checked.Signature{GlobalName: f.GlobalName}
	f.Signatures = append(f.Signatures, original)
	a.FuncRegistry(f.GlobalName).AddFunction(nil, nil, f.GlobalName)

	c := a.rootCtx(f)
	bodyNode := child(n, 4)
	if bodyNode != nil {
		f.Body = a.checkBlock(c, bodyNode, fnScope)
	} else {
		f.Body = &checked.Block{ScopeID: fnScope.ID}
	}

	// If the body did not emit a return, synthesize one from the trailing
	// expression (if any) and unify its type with the declared return; if
	// none remains, default to unit (spec.md §4.4 "Function-body
	// checking").
	if !f.Body.HasReturn {
		if nstmts := len(f.Body.Stmts); nstmts > 0 && f.Body.Stmts[nstmts-1].Kind == checked.SExpr {
			trailing := f.Body.Stmts[nstmts-1].Expr
			if f.Return.Kind == types.KUnknown {
				types.Update(f.Return, trailing.Type)
			} else if !types.Equal(f.Return, trailing.Type) {
				a.Sink.Errorf(diag.DataTypeDontMatchWithInferred, a.Pkg.File, loc(n), "%q: trailing expression does not match declared return type", f.ShortName)
			}
		} else if f.Return.Kind == types.KUnknown {
			types.Update(f.Return, types.Unit())
		}
	}

	// Finalize the original signature's return/param types and refresh
	// its global name if used compiler generics remain (spec.md §4.4
	// "used-compiler-generic slots cause the first signature's global
	// name to be refreshed with mangled suffixes").
	paramTypes := make([]*types.CheckedDataType, len(f.Params))
	for i, p := range f.Params {
		paramTypes[i] = p.Type
	}
	original.ParamTypes = paramTypes
	original.ReturnType = f.Return
	if len(f.UsedCompilerGenerics) > 0 {
		original.GlobalName = mangleWithGenerics(f.GlobalName, f.UsedCompilerGenerics)
	}

	lockFunctionTypes(f)
}

func paramMutable(n *ast.Node) bool {
	if n == nil {
		return false
	}
	m, _ := n.Data.(bool)
	return m
}

// mangleWithGenerics refreshes the original signature's global name once
// the function is known to have used compiler-generic slots; sig.Serialize
// remains the canonical mangler for concrete call-site instantiations, this
// only marks the unspecialized declaration as carrying generics.
func mangleWithGenerics(global string, gens []*types.CheckedDataType) string {
	return sigSuffixed(global, gens)
}

func sigSuffixed(global string, gens []*types.CheckedDataType) string {
	if len(gens) == 0 {
		return global
	}
	out := global + "__generic"
	for range gens {
		out += "_g"
	}
	return out
}

// checkMainRules enforces spec.md §4.4's main-function invariants: no
// generic params, no explicit params, return type in {unit, cvoid, i32},
// and not recursive.
func (a *Analyzer) checkMainRules(f *checked.Function) {
	if !f.IsMain {
		return
	}
	if len(f.GenericParams) > 0 {
		a.Sink.Errorf(diag.GenericParamsNotExpectedInMain, a.Pkg.File, loc(f.Node), "main must not declare generic parameters")
	}
	if len(f.Params) > 0 {
		a.Sink.Errorf(diag.NoExplicitParamsExpectedInMain, a.Pkg.File, loc(f.Node), "main must not declare explicit parameters")
	}
	if f.Return != nil && f.Return.Kind != types.KUnknown && f.Return.Kind != types.KUnit && f.Return.Kind != types.KI32 && f.Return.Kind != types.KCIntK {
		a.Sink.Errorf(diag.ReturnDataTypeNotExpectedForMain, a.Pkg.File, loc(f.Node), "main must return unit, cvoid or i32")
	}
}

// checkOperatorRules validates and registers operator-overload functions
// (spec.md §4.4 "If operator, name must be a valid operator token and a
// unique (name, parameter-types) entry must be inserted into the operator
// registry").
func (a *Analyzer) checkOperatorRules(f *checked.Function) {
	if !f.IsOperator {
		return
	}
	if !IsValidOperatorToken(f.ShortName) {
		a.Sink.Errorf(diag.OperatorIsNotValid, a.Pkg.File, loc(f.Node), "%q is not a valid operator token", f.ShortName)
		return
	}
	if f.Return == nil || f.Return.Kind == types.KUnit {
		a.Sink.Errorf(diag.OperatorMustHaveReturn, a.Pkg.File, loc(f.Node), "operator %q must have a return type", f.ShortName)
	}
	for _, p := range f.Params {
		if p.Type != nil && (p.Type.Kind == types.KCompilerGeneric || p.Type.Kind == types.KUnknown) {
			a.Sink.Errorf(diag.CannotHaveCompilerDefinedDTAsParameter, a.Pkg.File, loc(f.Node), "operator parameters cannot be compiler-inferred")
		}
	}
	paramTypes := make([]*types.CheckedDataType, len(f.Params))
	for i, p := range f.Params {
		paramTypes[i] = p.Type
	}
	if !a.Operators.Add(f.ShortName, paramTypes, f) {
		a.Sink.Errorf(diag.DuplicateOperatorEntry, a.Pkg.File, loc(f.Node), "duplicate operator entry for %q with this parameter signature", f.ShortName)
	}
}

// lockFunctionTypes locks f's parameter types and its return type. The
// lock is shallow (see types.Lock): types nested inside them, and types
// of expressions in the body, are not locked.
func lockFunctionTypes(f *checked.Function) {
	for _, p := range f.Params {
		p.Type.Lock()
	}
	if f.Return != nil {
		f.Return.Lock()
	}
}

// checkTypeDecl checks records/enums/aliases (spec.md §4.4 "Declaration
// checking... Records/enums/errors... Alias").
func (a *Analyzer) checkTypeDecl(t *checked.TypeDecl, sc *scope.Scope) {
	if t.IsChecked() {
		return
	}
	defer t.MarkChecked()

	n := t.Node
	for _, gpNode := range childrenOf(child(n, 1)) {
		t.GenericParams = append(t.GenericParams, &checked.GenericParam{Name: name(gpNode)})
	}

	switch t.Kind {
	case checked.TypeAlias:
		a.checkAliasDecl(t, sc)
		return
	case checked.TypeRecord:
		a.checkRecordFields(t, sc, child(n, 2))
	case checked.TypeEnum:
		a.checkEnumVariants(t, sc, child(n, 2))
	}

	detectInfiniteContainment(a, t)
}

func (a *Analyzer) checkRecordFields(t *checked.TypeDecl, sc *scope.Scope, fieldsNode *ast.Node) {
	fieldScope := a.NewScope(sc, scope.TagRecord)
	a.registerTypeDecl(fieldScope.ID, t)
	for i, fieldNode := range childrenOf(fieldsNode) {
		fname := name(fieldNode)
		ft := resolveCastDestType(name(child(fieldNode, 0)))
		t.Fields = append(t.Fields, &checked.Field{Name: fname, Type: ft, Index: i})
		fieldScope.PushVariable(fname, &checked.Variable{Name: fname, Type: ft})
	}
}

func (a *Analyzer) checkEnumVariants(t *checked.TypeDecl, sc *scope.Scope, variantsNode *ast.Node) {
	variantScope := a.NewScope(sc, scope.TagEnum)
	a.registerTypeDecl(variantScope.ID, t)
	for i, variantNode := range childrenOf(variantsNode) {
		vname := name(variantNode)
		v := &checked.Variant{Name: vname, Index: i}
		for _, valueNode := range childrenOf(variantNode) {
			v.Values = append(v.Values, resolveCastDestType(name(valueNode)))
		}
		t.Variants = append(t.Variants, v)
		if !variantScope.PushVariant(vname, v) {
			a.Sink.Errorf(diag.DuplicateVariant, a.Pkg.File, loc(variantNode), "duplicate variant %q", vname)
		}
	}
}

// checkAliasDecl requires generic-param consistency between the alias and
// the aliased type (spec.md §4.4 "Alias").
func (a *Analyzer) checkAliasDecl(t *checked.TypeDecl, sc *scope.Scope) {
	n := t.Node
	aliased := resolveCastDestType(name(child(n, 2)))
	if aliasedCustom := types.DirectCustom(aliased); aliasedCustom != nil {
		if len(aliasedCustom.GenericArgs) != len(t.GenericParams) {
			a.Sink.Errorf(diag.DuplicateAlias, a.Pkg.File, loc(n), "alias %q generic parameter count does not match aliased type", t.ShortName)
		}
	}
	t.AliasOf = aliased
}

func (a *Analyzer) checkErrorDecl(e *checked.ErrorDecl, sc *scope.Scope) {
	if e.IsChecked() {
		return
	}
	defer e.MarkChecked()
	n := e.Node
	for _, gpNode := range childrenOf(child(n, 1)) {
		e.GenericParams = append(e.GenericParams, &checked.GenericParam{Name: name(gpNode)})
	}
	if innerNode := child(n, 2); innerNode != nil {
		e.Inner = resolveCastDestType(name(innerNode))
	}
}

// detectInfiniteContainment walks a record/enum's direct field/variant
// types for unbounded direct containment (spec.md §4.4 "walk them to
// detect infinite direct containment"). A custom type reference inside a
// pointer/array/list/optional/tuple/trace is marked recursive instead of
// infinite.
func detectInfiniteContainment(a *Analyzer, t *checked.TypeDecl) {
	var payloadTypes []*types.CheckedDataType
	for _, f := range t.Fields {
		payloadTypes = append(payloadTypes, f.Type)
	}
	for _, v := range t.Variants {
		payloadTypes = append(payloadTypes, v.Values...)
	}
	var refersToSelf func(x *types.CheckedDataType) bool
	refersToSelf = func(x *types.CheckedDataType) bool {
		if x == nil {
			return false
		}
		if x.Kind == types.KCustom {
			return x.Custom != nil && x.Custom.GlobalName == t.GlobalName
		}
		for _, e := range x.Tuple {
			if refersToSelf(e) {
				return true
			}
		}
		return refersToSelf(x.Inner) || refersToSelf(x.Elem)
	}
	for _, pt := range payloadTypes {
		if pt == nil {
			continue
		}
		if pt.Kind == types.KCustom && pt.Custom != nil && pt.Custom.GlobalName == t.GlobalName {
			a.Sink.Errorf(diag.InfiniteDataType, a.Pkg.File, loc(t.Node), "%q directly contains itself", t.ShortName)
		}
		if isIndirection(pt.Kind) && refersToSelf(pt) {
			t.Recursive = true
		}
	}
}

func isIndirection(k types.Kind) bool {
	switch k {
	case types.KPtr, types.KPtrMut, types.KArraySized, types.KArrayUnsized, types.KArrayDynamic,
		types.KList, types.KOptional, types.KTuple, types.KTrace, types.KTraceMut:
		return true
	}
	return false
}
