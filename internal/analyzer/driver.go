package analyzer

import (
	"lilycore/internal/ast"
	"lilycore/internal/checked"
	"lilycore/internal/config"
	"lilycore/internal/diag"
	"lilycore/internal/scope"
	"lilycore/internal/types"
)

// Result is everything Run produces for one package: the checked module
// tree and the module-level scope new declarations resolve identifiers
// against.
type Result struct {
	Module *checked.ModuleDecl
	Scope  *scope.Scope
}

// Run drives the three passes spec.md §4.4 names over prog, a KindProgram
// AST root whose children are KindModule nodes. Diagnostics are emitted to
// sink; Run never returns an error itself — failures are always
// diagnostics, per spec.md §7 "Recovery".
func Run(prog *ast.Node, pkg *config.PackageContext, sink *diag.Sink) *Result {
	a := New(pkg, sink)
	root := a.NewScope(nil, scope.TagModule)

	// Step 0 (imports): a stub, reserved for cross-package resolution
	// (spec.md §4.4 "a stub in current sources").
	a.stepImports(prog)

	mod := &checked.ModuleDecl{
		Base:    checked.Base{ShortName: pkg.GlobalName, GlobalName: pkg.GlobalName, Node: prog},
		ScopeID: root.ID,
	}

	// Step 1: push declarations.
	a.pushModuleBody(prog, mod, root)

	// Step 2: check declarations.
	a.checkModuleBody(mod, root)

	return &Result{Module: mod, Scope: root}
}

func (a *Analyzer) stepImports(prog *ast.Node) {
	// Reserved: cross-package import resolution is out of scope for a
	// single-package analysis run (spec.md §4.4 Step 0).
	_ = prog
}

func loc(n *ast.Node) types.Loc {
	if n == nil {
		return types.Loc{}
	}
	return types.Loc{
		File: n.Loc.File, StartLine: n.Loc.StartLine, StartCol: n.Loc.StartCol,
		EndLine: n.Loc.EndLine, EndCol: n.Loc.EndCol, StartByte: n.Loc.StartByte, EndByte: n.Loc.EndByte,
	}
}

func name(n *ast.Node) string {
	if n == nil {
		return ""
	}
	if s, ok := n.Data.(string); ok {
		return s
	}
	return ""
}

func child(n *ast.Node, i int) *ast.Node {
	if n == nil || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// globalName mangles a short name under a module, matching spec.md §4.4
// "global name `<module>.<short>`".
func globalName(module, short string) string {
	if module == "" {
		return short
	}
	return module + "." + short
}

// pushModuleBody walks prog's declarations (spec.md §4.4 Step 1),
// installing a checked shell and scope container entry for each, and
// recursing into nested KindModuleDecl children. A duplicate name within
// the same container kind emits DuplicateX and the later declaration is
// dropped from that container (spec.md "abort that container's
// insertion").
func (a *Analyzer) pushModuleBody(n *ast.Node, mod *checked.ModuleDecl, sc *scope.Scope) {
	for _, decl := range n.Children {
		switch decl.Kind {
		case ast.KindModule:
			a.pushModuleBody(decl, mod, sc)
		case ast.KindConstDecl:
			a.pushConstant(decl, mod, sc)
		case ast.KindFunDecl:
			a.pushFunction(decl, mod, sc)
		case ast.KindRecordDecl:
			a.pushTypeDecl(decl, mod, sc, checked.TypeRecord)
		case ast.KindEnumDecl:
			a.pushTypeDecl(decl, mod, sc, checked.TypeEnum)
		case ast.KindAliasDecl:
			a.pushTypeDecl(decl, mod, sc, checked.TypeAlias)
		case ast.KindErrorDecl:
			a.pushError(decl, mod, sc)
		case ast.KindClassDecl:
			a.pushObject(decl, mod, sc, checked.ObjectClass)
		case ast.KindTraitDecl:
			a.pushObject(decl, mod, sc, checked.ObjectTrait)
		case ast.KindModuleDecl:
			a.pushNestedModule(decl, mod, sc)
		}
	}
}

func (a *Analyzer) pushConstant(n *ast.Node, mod *checked.ModuleDecl, sc *scope.Scope) {
	short := name(child(n, 0))
	c := &checked.Constant{Base: checked.Base{
		ShortName: short, GlobalName: globalName(mod.GlobalName, short), Node: n, OwnerScope: sc.ID,
	}}
	if !sc.PushConstant(short, c) {
		a.Sink.Errorf(diag.DuplicateConstant, a.Pkg.File, loc(n), "duplicate constant %q", short)
		return
	}
	mod.Decls = append(mod.Decls, c)
}

func (a *Analyzer) pushFunction(n *ast.Node, mod *checked.ModuleDecl, sc *scope.Scope) {
	short := name(child(n, 0))
	f := &checked.Function{Base: checked.Base{
		ShortName: short, GlobalName: globalName(mod.GlobalName, short), Node: n, OwnerScope: sc.ID,
	}}
	f.IsMain = short == "main"
	if !sc.PushFun(short, f) {
		a.Sink.Errorf(diag.DuplicateFunction, a.Pkg.File, loc(n), "duplicate function %q", short)
		return
	}
	if f.IsMain {
		if a.Pkg.MainIsFound {
			a.Sink.Errorf(diag.DuplicateFunction, a.Pkg.File, loc(n), "duplicate main function")
		}
		a.Pkg.MainIsFound = true
	}
	mod.Decls = append(mod.Decls, f)
}

func (a *Analyzer) pushTypeDecl(n *ast.Node, mod *checked.ModuleDecl, sc *scope.Scope, kind checked.TypeDeclKind) {
	short := name(child(n, 0))
	t := &checked.TypeDecl{Base: checked.Base{
		ShortName: short, GlobalName: globalName(mod.GlobalName, short), Node: n, OwnerScope: sc.ID,
	}, Kind: kind}

	var ok bool
	var diagKind diag.Kind
	switch kind {
	case checked.TypeRecord:
		ok, diagKind = sc.PushRecord(short, t), diag.DuplicateRecord
	case checked.TypeEnum:
		ok, diagKind = sc.PushEnum(short, t), diag.DuplicateEnum
	case checked.TypeAlias:
		ok, diagKind = sc.PushAlias(short, t), diag.DuplicateAlias
	}
	if !ok {
		a.Sink.Errorf(diagKind, a.Pkg.File, loc(n), "duplicate type declaration %q", short)
		return
	}
	mod.Decls = append(mod.Decls, t)
}

func (a *Analyzer) pushError(n *ast.Node, mod *checked.ModuleDecl, sc *scope.Scope) {
	short := name(child(n, 0))
	e := &checked.ErrorDecl{Base: checked.Base{
		ShortName: short, GlobalName: globalName(mod.GlobalName, short), Node: n, OwnerScope: sc.ID,
	}}
	if !sc.PushError(short, e) {
		a.Sink.Errorf(diag.DuplicateError, a.Pkg.File, loc(n), "duplicate error %q", short)
		return
	}
	mod.Decls = append(mod.Decls, e)
}

func (a *Analyzer) pushObject(n *ast.Node, mod *checked.ModuleDecl, sc *scope.Scope, kind checked.ObjectDeclKind) {
	short := name(child(n, 0))
	o := &checked.ObjectDecl{Base: checked.Base{
		ShortName: short, GlobalName: globalName(mod.GlobalName, short), Node: n, OwnerScope: sc.ID,
	}, Kind: kind}

	var ok bool
	diagKind := diag.DuplicateClass
	if kind == checked.ObjectTrait {
		ok, diagKind = sc.PushTrait(short, o), diag.DuplicateTrait
	} else {
		ok = sc.PushClass(short, o)
	}
	if !ok {
		a.Sink.Errorf(diagKind, a.Pkg.File, loc(n), "duplicate declaration %q", short)
		return
	}
	mod.Decls = append(mod.Decls, o)
}

func (a *Analyzer) pushNestedModule(n *ast.Node, mod *checked.ModuleDecl, sc *scope.Scope) {
	short := name(child(n, 0))
	childScope := a.NewScope(sc, scope.TagModule)
	nested := &checked.ModuleDecl{Base: checked.Base{
		ShortName: short, GlobalName: globalName(mod.GlobalName, short), Node: n, OwnerScope: sc.ID,
	}, ScopeID: childScope.ID}
	if !sc.PushModule(short, nested) {
		a.Sink.Errorf(diag.DuplicateModule, a.Pkg.File, loc(n), "duplicate module %q", short)
		return
	}
	mod.Decls = append(mod.Decls, nested)
	a.pushModuleBody(n, nested, childScope)
}

// checkModuleBody is Step 2: traverse checked decls and run each one's
// check_* routine. Declarations are checked in push order; a function
// whose signature is entirely concrete is checked once here, while
// compiler-generic signatures are deferred to first call site (spec.md
// §4.3 "the function body is re-analyzed against that signature").
func (a *Analyzer) checkModuleBody(mod *checked.ModuleDecl, sc *scope.Scope) {
	for _, d := range mod.Decls {
		switch v := d.(type) {
		case *checked.Constant:
			a.checkConstant(v, sc)
		case *checked.Function:
			a.checkFunctionDecl(v, sc)
		case *checked.TypeDecl:
			a.checkTypeDecl(v, sc)
		case *checked.ErrorDecl:
			a.checkErrorDecl(v, sc)
		case *checked.ObjectDecl:
			// Class/trait bodies exercise attribute access and trait
			// implementation, left as an open question (see DESIGN.md);
			// the shell above still supports name resolution and
			// duplicate detection.
		case *checked.ModuleDecl:
			a.checkModuleBody(v, a.Scope(v.ScopeID))
		}
	}
	if !a.Pkg.MainIsFound && a.Pkg.Status == config.StatusMain {
		a.Sink.Errorf(diag.ExpectedMainFunction, a.Pkg.File, types.Loc{}, "no main function found in executable package")
	}
}
