package analyzer

import (
	"lilycore/internal/ast"
	"lilycore/internal/checked"
	"lilycore/internal/diag"
	"lilycore/internal/scope"
	"lilycore/internal/sig"
	"lilycore/internal/types"
)

// checkCallFun implements spec.md §4.4 "Call (function)": resolve the
// callee, build a generic-arg map (explicit or inferred), check
// arity/types, compute the concrete return type, and re-analyze the
// callee body against a new signature when one is created.
func (a *Analyzer) checkCallFun(c *checkCtx, n *ast.Node, sc *scope.Scope, expected *types.CheckedDataType) *checked.Expr {
	calleeNode := child(n, 0)
	callee := a.checkExpr(c, calleeNode, sc, nil, false)
	if callee.Call != checked.CallFunction || callee.Target == nil {
		a.Sink.Errorf(diag.ExpectedFunCall, a.Pkg.File, loc(n), "expression is not callable")
		return unknownExpr(n)
	}
	fn := callee.Target.(*checked.Function)
	if fn.IsMain && c != nil && c.fn == fn {
		a.Sink.Errorf(diag.MainCannotBeRecursive, a.Pkg.File, loc(n), "main cannot call itself")
	}

	argNodes := n.Children[1:]
	if len(argNodes) != len(fn.Params) {
		a.Sink.Errorf(diag.NumberOfParamsMismatched, a.Pkg.File, loc(n), "%s expects %d argument(s), got %d", fn.ShortName, len(fn.Params), len(argNodes))
	}

	genericArgs := make(map[string]*types.CheckedDataType)
	args := make([]*checked.Expr, 0, len(argNodes))
	paramTypes := make([]*types.CheckedDataType, 0, len(argNodes))
	for i, argNode := range argNodes {
		var expectT *types.CheckedDataType
		if i < len(fn.Params) {
			expectT = fn.Params[i].Type
		}
		ce := a.checkExpr(c, argNode, sc, expectT, false)
		args = append(args, ce)
		paramTypes = append(paramTypes, ce.Type)
		if i < len(fn.Params) {
			unifyGeneric(fn.Params[i].Type, ce.Type, genericArgs)
		}
	}
	for i, ce := range args {
		if i >= len(fn.Params) {
			break
		}
		want := types.Resolve(fn.Params[i].Type, genericArgs)
		if want != nil && !types.ContainsGeneric(want) && !types.ContainsGeneric(ce.Type) && !types.Equal(want, ce.Type) {
			a.Sink.Errorf(diag.DataTypeDontMatch, a.Pkg.File, loc(argNodes[i]), "argument %d of %s does not match the parameter's data type", i+1, fn.ShortName)
		}
	}

	retType := fn.Return
	if retType == nil {
		retType = types.Unit()
	}
	if types.ContainsGeneric(retType) {
		retType = types.Resolve(retType, genericArgs)
	}

	serialized := sig.Serialize(fn.GlobalName, orderedGenericArgs(fn, genericArgs))
	entry, added := a.FuncRegistry(fn.GlobalName).AddFunction(paramTypes, genericArgs, fn.GlobalName)
	if added {
		checkedSig := &checked.Signature{ParamTypes: paramTypes, ReturnType: retType, GenericArgs: genericArgs, GlobalName: serialized}
		fn.Signatures = append(fn.Signatures, checkedSig)
		a.reanalyzeFunction(fn, checkedSig)
	}
	_ = entry

	return &checked.Expr{
		Kind: checked.ECallFun, Type: retType, Node: n, Target: fn,
		GenericArgs: genericArgs, Children: args,
	}
}

// unifyGeneric walks formal and actual in lockstep, binding any compiler-
// generic leaf in formal to the corresponding concrete type in actual.
// Reusing a slot must not contradict earlier bindings (spec.md §4.4
// "Call (function)"): a second, different binding for the same name is
// left as the first (checkCallFun then reports DataTypeDontMatch for the
// argument that disagrees with it).
func unifyGeneric(formal, actual *types.CheckedDataType, out map[string]*types.CheckedDataType) {
	if formal == nil || actual == nil {
		return
	}
	switch formal.Kind {
	case types.KCompilerGeneric:
		if _, ok := out[formal.GenericName]; !ok {
			out[formal.GenericName] = actual
		}
	case types.KArraySized, types.KArrayUnsized, types.KArrayDynamic, types.KList, types.KOptional:
		unifyGeneric(formal.Elem, actual.Elem, out)
	case types.KTuple:
		for i := range formal.Tuple {
			if i < len(actual.Tuple) {
				unifyGeneric(formal.Tuple[i], actual.Tuple[i], out)
			}
		}
	case types.KPtr, types.KPtrMut, types.KRef, types.KRefMut, types.KTrace, types.KTraceMut, types.KMut:
		unifyGeneric(formal.Inner, actual.Inner, out)
	case types.KCustom:
		if formal.Custom != nil && actual.Custom != nil {
			for i := range formal.Custom.GenericArgs {
				if i < len(actual.Custom.GenericArgs) {
					unifyGeneric(formal.Custom.GenericArgs[i], actual.Custom.GenericArgs[i], out)
				}
			}
		}
	}
}

func orderedGenericArgs(fn *checked.Function, m map[string]*types.CheckedDataType) []*types.CheckedDataType {
	out := make([]*types.CheckedDataType, 0, len(fn.GenericParams))
	for _, gp := range fn.GenericParams {
		if t, ok := m[gp.Name]; ok {
			out = append(out, t)
		}
	}
	return out
}

// reanalyzeFunction re-checks fn's body against sigEntry's concrete
// parameter/return types using a VirtualScope that shadows the original
// bindings, without mutating fn.Body itself (spec.md §4.3 "Re-analysis
// uses a parallel VirtualScope tree").
func (a *Analyzer) reanalyzeFunction(fn *checked.Function, sigEntry *checked.Signature) {
	if !a.enter(fn.GlobalName, sigEntry.GlobalName) {
		return // already in flight: recursive instantiation, original checking will finish it.
	}
	defer a.leave(fn.GlobalName, sigEntry.GlobalName)

	if len(sigEntry.GenericArgs) == 0 {
		// Nothing to specialize; the original body checking already
		// covers this (the common, non-generic case).
		return
	}

	virtual := a.NewScope(a.Scope(fn.OwnerScope), scope.TagFunction)
	for i, p := range fn.Params {
		if i < len(sigEntry.ParamTypes) {
			virtual.PushParam(p.Name, &checked.Param{Name: p.Name, Type: sigEntry.ParamTypes[i], Mutable: p.Mutable})
		}
	}
	rc := &checkCtx{a: a, fn: fn, aliasDecl: make(map[string]bool), safeMode: a.Pkg.Opts.SafeMode, sigName: sigEntry.GlobalName, virtual: virtual}
	if fn.Node != nil && len(fn.Node.Children) > 0 {
		bodyNode := fn.Node.Children[len(fn.Node.Children)-1]
		if bodyNode.Kind == ast.KindBlock {
			a.checkBlock(rc, bodyNode, virtual)
		}
	}
}
