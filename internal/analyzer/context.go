// Package analyzer implements the semantic analyzer described in spec.md
// §4.4: a three-pass driver (imports stub, push declarations, check
// declarations) over an AST, producing checked.Decl trees (MIR lowering
// is not done here), reporting every failure as a diag.Diagnostic rather than
// aborting (spec.md §7 "Recovery").
//
// vslc has no direct analog to a full semantic pass (its own analysis is
// folded into parsing and backend lowering), so this package's shape is
// grounded on vslc's general "driver holds shared state, workers report
// through a channel" pattern (src/main.go's staged run(), src/util/
// perror.go's error channel) generalized to the three named passes and
// the richer declaration/expression/statement/pattern checking spec.md
// §4.4 specifies.
package analyzer

import (
	"sync"
	"sync/atomic"

	"lilycore/internal/checked"
	"lilycore/internal/config"
	"lilycore/internal/diag"
	"lilycore/internal/scope"
	"lilycore/internal/sig"
)

// Analyzer carries every piece of state spec.md §5 "Shared resources"
// describes as process-wide and read-only after initialization (operator
// and builtin/sys registries), plus the per-package mutable state (scope
// id counter, diagnostic sink, signature registries).
type Analyzer struct {
	Sink *diag.Sink
	Pkg  *config.PackageContext

	Operators *OperatorRegistry
	Builtins  *BuiltinTable
	Sys       *SysTable

	nextScopeID uint32
	scopesMu    sync.Mutex
	scopes      map[uint32]*scope.Scope // every scope created this run, indexed by id (spec.md §4.2 "ids are how MIR later refers back to scopes").

	typeDeclsMu sync.Mutex
	typeDecls   map[uint32]*checked.TypeDecl // record/enum/alias TypeDecl indexed by the scope id they own, for path-access and exhaustiveness lookups.

	funcSigsMu sync.Mutex
	funcSigs   map[string]*sig.FunctionRegistry // keyed by Function.GlobalName.
	typeSigsMu sync.Mutex
	typeSigs   map[string]*sig.TypeRegistry // keyed by TypeDecl.GlobalName.

	// history is the per-thread re-entry guard spec.md §4.4 names: a
	// chain of (declaration, signature) pairs currently being checked,
	// consulted before re-analyzing a declaration to detect direct or
	// mutual recursion into the *same* concrete signature.
	historyMu sync.Mutex
	history   map[string]map[string]bool // global name -> set of signature names in flight.
}

// New creates an Analyzer ready to run all three passes over one package.
func New(pkg *config.PackageContext, sink *diag.Sink) *Analyzer {
	return &Analyzer{
		Sink:      sink,
		Pkg:       pkg,
		Operators: NewOperatorRegistry(),
		Builtins:  DefaultBuiltinTable(),
		Sys:       DefaultSysTable(),
		funcSigs:  make(map[string]*sig.FunctionRegistry),
		typeSigs:  make(map[string]*sig.TypeRegistry),
		history:   make(map[string]map[string]bool),
		scopes:    make(map[uint32]*scope.Scope),
		typeDecls: make(map[uint32]*checked.TypeDecl),
	}
}

// registerTypeDecl indexes t by the scope id that owns its fields/
// variants, so later path-access and exhaustiveness checks can recover
// the declaration from a *types.Custom reference alone.
func (a *Analyzer) registerTypeDecl(scopeID uint32, t *checked.TypeDecl) {
	a.typeDeclsMu.Lock()
	a.typeDecls[scopeID] = t
	a.typeDeclsMu.Unlock()
}

// NewScope allocates a scope id and wraps it in a *scope.Scope, matching
// spec.md §4.2 "The scope id is a monotonically-assigned 32-bit counter
// per analysis run". The scope is indexed by id for later lookup (e.g. by
// a nested module's checked.ModuleDecl.ScopeID, or eventually by MIR).
func (a *Analyzer) NewScope(parent *scope.Scope, tag scope.Tag) *scope.Scope {
	id := atomic.AddUint32(&a.nextScopeID, 1)
	s := scope.New(parent, id, tag)
	a.scopesMu.Lock()
	a.scopes[id] = s
	a.scopesMu.Unlock()
	return s
}

// Scope looks up a previously created scope by id.
func (a *Analyzer) Scope(id uint32) *scope.Scope {
	a.scopesMu.Lock()
	defer a.scopesMu.Unlock()
	return a.scopes[id]
}

// FuncRegistry returns (creating if necessary) the signature registry for
// the function declaration named by globalName.
func (a *Analyzer) FuncRegistry(globalName string) *sig.FunctionRegistry {
	a.funcSigsMu.Lock()
	defer a.funcSigsMu.Unlock()
	r, ok := a.funcSigs[globalName]
	if !ok {
		r = &sig.FunctionRegistry{}
		a.funcSigs[globalName] = r
	}
	return r
}

// TypeRegistry returns (creating if necessary) the signature registry for
// the type declaration named by globalName.
func (a *Analyzer) TypeRegistry(globalName string) *sig.TypeRegistry {
	a.typeSigsMu.Lock()
	defer a.typeSigsMu.Unlock()
	r, ok := a.typeSigs[globalName]
	if !ok {
		r = &sig.TypeRegistry{}
		a.typeSigs[globalName] = r
	}
	return r
}

// enter records that globalName/sigName is now being checked, returning
// false if it is already in flight (a recursive re-entry spec.md §4.4
// calls out: "re-entry is detected by a per-thread history chain that
// also carries the specific signature being checked").
func (a *Analyzer) enter(globalName, sigName string) bool {
	a.historyMu.Lock()
	defer a.historyMu.Unlock()
	set, ok := a.history[globalName]
	if !ok {
		set = make(map[string]bool)
		a.history[globalName] = set
	}
	if set[sigName] {
		return false
	}
	set[sigName] = true
	return true
}

func (a *Analyzer) leave(globalName, sigName string) {
	a.historyMu.Lock()
	defer a.historyMu.Unlock()
	if set, ok := a.history[globalName]; ok {
		delete(set, sigName)
	}
}

// checkCtx is the per-goroutine analysis context threaded explicitly
// through every check* call, carrying the things spec.md §5 says are
// tracked per recursion chain (history is global on Analyzer; in_try and
// alias_decl belong here since they are call-stack-scoped, not
// declaration-scoped): whether the current statement nest is inside a
// try block, and the alias declaration currently being expanded (guards
// against alias cycles).
type checkCtx struct {
	a         *Analyzer
	fn        *checked.Function // enclosing function, nil inside a constant initializer.
	inTry     bool
	aliasDecl map[string]bool // alias global names currently being expanded.
	safeMode  bool
	sigName   string // "" for the original signature, else the instantiation being re-analyzed.
	virtual   *scope.Scope // non-nil during re-analysis (spec.md §4.3 "VirtualScope").
}

func (a *Analyzer) rootCtx(fn *checked.Function) *checkCtx {
	return &checkCtx{a: a, fn: fn, aliasDecl: make(map[string]bool), safeMode: a.Pkg.Opts.SafeMode}
}

func (c *checkCtx) withTry() *checkCtx {
	n := *c
	n.inTry = true
	return &n
}

func (c *checkCtx) withSafeMode(v bool) *checkCtx {
	n := *c
	n.safeMode = v
	return &n
}
