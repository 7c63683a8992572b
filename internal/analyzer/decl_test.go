package analyzer

import (
	"testing"

	"lilycore/internal/ast"
	"lilycore/internal/checked"
	"lilycore/internal/config"
	"lilycore/internal/diag"
	"lilycore/internal/types"
)

// intLit builds an ast.KindIntLit leaf carrying v, matching checkIntLit's
// n.Data.(int64) expectation.
func intLit(v int64) *ast.Node {
	return &ast.Node{Kind: ast.KindIntLit, Data: v}
}

// ident builds a bare name-carrying leaf, used for declaration names and
// declared-type references (name() reads n.Data.(string)).
func ident(s string) *ast.Node {
	return &ast.Node{Kind: ast.KindIdentifier, Data: s}
}

// runOn wraps prog (a KindProgram root whose children are KindModule
// nodes) through analyzer.Run against a fresh single-package context.
// Status defaults to library so declaration-only fixtures that never
// declare main don't trip the "executable needs a main" check; tests
// exercising that rule use runOnStatus directly.
func runOn(t *testing.T, prog *ast.Node) (*Result, *diag.Sink) {
	t.Helper()
	return runOnStatus(t, prog, config.StatusLibrary)
}

func runOnStatus(t *testing.T, prog *ast.Node, status config.Status) (*Result, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink(4)
	pkg := config.NewPackageContext("test.lily", "test", config.Default(), status)
	res := Run(prog, pkg, sink)
	sink.Close()
	return res, sink
}

// TestCheckConstantInfersTypeFromInitializer builds `val answer = 42` with
// no declared type and checks the constant's type is inferred as i32 and
// its expression is fully checked.
func TestCheckConstantInfersTypeFromInitializer(t *testing.T) {
	constDecl := &ast.Node{Kind: ast.KindConstDecl, Children: []*ast.Node{
		ident("answer"), // [0] name
		nil,             // [1] declared type (absent)
		intLit(42),      // [2] initializer
	}}
	mod := &ast.Node{Kind: ast.KindModule, Children: []*ast.Node{constDecl}}
	prog := &ast.Node{Kind: ast.KindProgram, Children: []*ast.Node{mod}}

	res, sink := runOn(t, prog)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	if len(res.Module.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(res.Module.Decls))
	}
	c, ok := res.Module.Decls[0].(*checked.Constant)
	if !ok {
		t.Fatalf("expected *checked.Constant, got %T", res.Module.Decls[0])
	}
	if !c.IsChecked() {
		t.Fatalf("expected constant to be marked checked")
	}
	if c.Type.Kind != types.KI32 {
		t.Fatalf("expected inferred type i32, got %s", c.Type.Kind)
	}
	if c.Expr == nil || c.Expr.Kind != checked.EIntLit {
		t.Fatalf("expected an int literal expression, got %+v", c.Expr)
	}
}

// TestCheckConstantDeclaredTypeMismatchReportsError declares `val x: f32 =
// 42` (an int literal against a declared f32) and checks a
// DataTypeDontMatch diagnostic is raised rather than silently accepted.
func TestCheckConstantDeclaredTypeMismatchReportsError(t *testing.T) {
	constDecl := &ast.Node{Kind: ast.KindConstDecl, Children: []*ast.Node{
		ident("x"),
		ident("f32"),
		intLit(42),
	}}
	mod := &ast.Node{Kind: ast.KindModule, Children: []*ast.Node{constDecl}}
	prog := &ast.Node{Kind: ast.KindProgram, Children: []*ast.Node{mod}}

	_, sink := runOn(t, prog)
	if !sink.HasErrors() {
		t.Fatalf("expected a type-mismatch error")
	}
}

// TestCheckFunctionDeclBuildsSignatureAndReturn builds:
//
//	fun main() -> i32 { return 42 }
//
// and checks the function is registered, its return type resolved to
// i32, its body holds a single checked return statement, and main's
// required-presence rule is satisfied (no ExpectedMainFunction error).
func TestCheckFunctionDeclBuildsSignatureAndReturn(t *testing.T) {
	retStmt := &ast.Node{Kind: ast.KindReturn, Children: []*ast.Node{intLit(42)}}
	body := &ast.Node{Kind: ast.KindBlock, Children: []*ast.Node{retStmt}}
	funDecl := &ast.Node{Kind: ast.KindFunDecl, Children: []*ast.Node{
		ident("main"), // [0] name
		nil,           // [1] generic params
		nil,           // [2] params
		ident("i32"),  // [3] return type
		body,          // [4] body
	}}
	mod := &ast.Node{Kind: ast.KindModule, Children: []*ast.Node{funDecl}}
	prog := &ast.Node{Kind: ast.KindProgram, Children: []*ast.Node{mod}}

	res, sink := runOn(t, prog)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	if len(res.Module.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(res.Module.Decls))
	}
	f, ok := res.Module.Decls[0].(*checked.Function)
	if !ok {
		t.Fatalf("expected *checked.Function, got %T", res.Module.Decls[0])
	}
	if !f.IsMain {
		t.Fatalf("expected IsMain to be set for a function named main")
	}
	if f.Return.Kind != types.KI32 {
		t.Fatalf("expected return type i32, got %s", f.Return.Kind)
	}
	if f.Body == nil || len(f.Body.Stmts) != 1 || f.Body.Stmts[0].Kind != checked.SReturn {
		t.Fatalf("expected a single checked return statement, got %+v", f.Body)
	}
	if len(f.Signatures) != 1 {
		t.Fatalf("expected the original signature to be registered, got %d", len(f.Signatures))
	}
}

// TestCheckFunctionDeclMainWithParamsReportsError checks spec.md's
// main-function invariant: main must not declare explicit parameters.
func TestCheckFunctionDeclMainWithParamsReportsError(t *testing.T) {
	param := &ast.Node{Kind: ast.KindParam, Children: []*ast.Node{ident("i32")}, Data: "n"}
	body := &ast.Node{Kind: ast.KindBlock}
	funDecl := &ast.Node{Kind: ast.KindFunDecl, Children: []*ast.Node{
		ident("main"),
		nil,
		{Kind: ast.KindParam, Children: []*ast.Node{param}},
		nil,
		body,
	}}
	mod := &ast.Node{Kind: ast.KindModule, Children: []*ast.Node{funDecl}}
	prog := &ast.Node{Kind: ast.KindProgram, Children: []*ast.Node{mod}}

	_, sink := runOn(t, prog)
	if !sink.HasErrors() {
		t.Fatalf("expected an error for main declaring explicit parameters")
	}
}

// TestCheckModuleBodyWithoutMainReportsError checks that an executable
// package with no main function is flagged.
func TestCheckModuleBodyWithoutMainReportsError(t *testing.T) {
	constDecl := &ast.Node{Kind: ast.KindConstDecl, Children: []*ast.Node{
		ident("answer"), nil, intLit(1),
	}}
	mod := &ast.Node{Kind: ast.KindModule, Children: []*ast.Node{constDecl}}
	prog := &ast.Node{Kind: ast.KindProgram, Children: []*ast.Node{mod}}

	_, sink := runOnStatus(t, prog, config.StatusMain)
	if !sink.HasErrors() {
		t.Fatalf("expected ExpectedMainFunction error for an executable package without main")
	}
}

// TestCheckTypeDeclRecordFieldsAreIndexed builds a record with two fields
// and checks they are checked in declaration order with ascending
// indices (spec.md §4.4 "Records/enums/errors").
func TestCheckTypeDeclRecordFieldsAreIndexed(t *testing.T) {
	fieldX := &ast.Node{Kind: ast.KindField, Data: "x", Children: []*ast.Node{ident("i32")}}
	fieldY := &ast.Node{Kind: ast.KindField, Data: "y", Children: []*ast.Node{ident("i32")}}
	fields := &ast.Node{Kind: ast.KindField, Children: []*ast.Node{fieldX, fieldY}}
	recordDecl := &ast.Node{Kind: ast.KindRecordDecl, Children: []*ast.Node{
		ident("Point"), nil, fields,
	}}
	mod := &ast.Node{Kind: ast.KindModule, Children: []*ast.Node{recordDecl}}
	prog := &ast.Node{Kind: ast.KindProgram, Children: []*ast.Node{mod}}

	res, sink := runOn(t, prog)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	td, ok := res.Module.Decls[0].(*checked.TypeDecl)
	if !ok {
		t.Fatalf("expected *checked.TypeDecl, got %T", res.Module.Decls[0])
	}
	if len(td.Fields) != 2 || td.Fields[0].Name != "x" || td.Fields[0].Index != 0 ||
		td.Fields[1].Name != "y" || td.Fields[1].Index != 1 {
		t.Fatalf("unexpected fields: %+v", td.Fields)
	}
}

// TestCheckErrorDeclWithInnerPayload builds `error Failure(i32)` and
// checks the inner payload type resolves.
func TestCheckErrorDeclWithInnerPayload(t *testing.T) {
	errDecl := &ast.Node{Kind: ast.KindErrorDecl, Children: []*ast.Node{
		ident("Failure"), nil, ident("i32"),
	}}
	mod := &ast.Node{Kind: ast.KindModule, Children: []*ast.Node{errDecl}}
	prog := &ast.Node{Kind: ast.KindProgram, Children: []*ast.Node{mod}}

	res, sink := runOn(t, prog)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	e, ok := res.Module.Decls[0].(*checked.ErrorDecl)
	if !ok {
		t.Fatalf("expected *checked.ErrorDecl, got %T", res.Module.Decls[0])
	}
	if e.Inner == nil || e.Inner.Kind != types.KI32 {
		t.Fatalf("expected inner payload i32, got %+v", e.Inner)
	}
}

// TestDuplicateConstantReportsError checks that a second constant pushed
// under the same short name is rejected rather than silently shadowing
// the first (spec.md §4.4 "abort that container's insertion").
func TestDuplicateConstantReportsError(t *testing.T) {
	first := &ast.Node{Kind: ast.KindConstDecl, Children: []*ast.Node{ident("x"), nil, intLit(1)}}
	second := &ast.Node{Kind: ast.KindConstDecl, Children: []*ast.Node{ident("x"), nil, intLit(2)}}
	mod := &ast.Node{Kind: ast.KindModule, Children: []*ast.Node{first, second}}
	prog := &ast.Node{Kind: ast.KindProgram, Children: []*ast.Node{mod}}

	res, sink := runOn(t, prog)
	if !sink.HasErrors() {
		t.Fatalf("expected a duplicate-constant error")
	}
	if len(res.Module.Decls) != 1 {
		t.Fatalf("expected the duplicate to be dropped from the module, got %d decls", len(res.Module.Decls))
	}
}
