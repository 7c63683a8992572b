// Package checked defines the checked IR data model described in spec.md
// §3: "CheckedDecl", the post-analysis declaration, plus the checked
// expression/pattern/statement nodes each declaration's body is built from.
//
// vslc's nearest equivalent is the implicit Symbol/SymTab pair referenced
// from src/ir/validate.go (f.Entry.Locals, f.Nparams, f.DataTyp): a
// function's checked identity bundled with its local scope. This package
// generalizes that one flat Symbol into the full per-kind CheckedDecl
// variant set spec.md names.
package checked

import (
	"lilycore/internal/ast"
	"lilycore/internal/types"
)

// Visibility controls whether a declaration is visible outside its owning
// module.
type Visibility uint8

const (
	Private Visibility = iota
	Public
)

// Base carries the fields common to every CheckedDecl variant.
type Base struct {
	ShortName  string
	GlobalName string // "<module>.<short>", assigned during Step 1 (push declarations).
	Vis        Visibility
	Node       *ast.Node // the originating AST node; never mutated.
	OwnerScope uint32    // scope id of the scope this decl was pushed into.
	Checked    bool      // flips exactly once; see spec.md §3 invariant.
}

// Decl is implemented by every checked declaration variant.
type Decl interface {
	Name() string
	Global() string
	IsChecked() bool
	MarkChecked()
}

func (b *Base) Name() string     { return b.ShortName }
func (b *Base) Global() string   { return b.GlobalName }
func (b *Base) IsChecked() bool  { return b.Checked }
func (b *Base) MarkChecked()     { b.Checked = true }

// GenericParam is a user-written generic parameter, distinct from a
// compiler generic (spec.md GLOSSARY).
type GenericParam struct {
	Name string
}

// Param is a function or lambda parameter.
type Param struct {
	Name    string
	Type    *types.CheckedDataType
	Mutable bool
}

// Variable is a local variable binding (spec.md §4.4 "variable" statement).
type Variable struct {
	Name    string
	Type    *types.CheckedDataType
	Mutable bool
}

// CapturedVariable is a variable captured by a `for`/match/try-catch
// binding (spec.md §4.2 "add_captured_variable").
type CapturedVariable struct {
	Name string
	Type *types.CheckedDataType
}

// Field is a record/class field.
type Field struct {
	Name  string
	Type  *types.CheckedDataType
	Index int // compiler field index, used by path-access lowering.
}

// Variant is one case of an enum declaration.
type Variant struct {
	Name   string
	Values []*types.CheckedDataType // associated payload types, empty for a bare tag.
	Index  int
}

// Constant is a top-level `val` declaration.
type Constant struct {
	Base
	Type *types.CheckedDataType
	Expr *Expr
}

// Function is a checked function declaration (spec.md §3, §4.4).
type Function struct {
	Base
	GenericParams []*GenericParam
	Params        []*Param
	Return        *types.CheckedDataType
	Body          *Block

	Signatures []*Signature // first entry is the original (generic) signature.

	Deps   map[string]struct{} // other global names this function calls.
	Raises map[string]*ErrorDecl

	UsedCompilerGenerics []*types.CheckedDataType

	IsOperator bool
	IsMain     bool
	Recursive  bool
}

// Signature is one concrete instantiation of Function (spec.md §4.3).
type Signature struct {
	ParamTypes []*types.CheckedDataType
	ReturnType *types.CheckedDataType
	GenericArgs map[string]*types.CheckedDataType
	GlobalName string // deterministic serialized name, "<global>__<arg1>_<arg2>...".
}

// ModuleDecl is a (possibly nested) module/package declaration.
type ModuleDecl struct {
	Base
	ScopeID uint32
	Decls   []Decl
}

// TypeDeclKind distinguishes alias/enum/record bodies.
type TypeDeclKind uint8

const (
	TypeRecord TypeDeclKind = iota
	TypeEnum
	TypeAlias
)

// TypeDecl is a checked record/enum/alias declaration.
type TypeDecl struct {
	Base
	Kind          TypeDeclKind
	GenericParams []*GenericParam
	Fields        []*Field   // record.
	Variants      []*Variant // enum.
	AliasOf       *types.CheckedDataType
	Signatures    []*types.Custom // pushed generic-arg instantiations; spec.md §4.3 "For types".
	Recursive     bool
}

// ObjectDeclKind distinguishes class/enum-object/record-object/trait
// bodies.
type ObjectDeclKind uint8

const (
	ObjectClass ObjectDeclKind = iota
	ObjectEnumObject
	ObjectRecordObject
	ObjectTrait
)

// ObjectDecl is a checked class/enum-object/record-object/trait
// declaration. Per spec.md §9 Open Questions, class attribute access,
// enum-object patterns and trait implementations are intentionally left as
// holes: the analyzer records the declaration shell (so name resolution
// and duplicate detection still work) but does not check object bodies;
// they are skipped without a diagnostic.
type ObjectDecl struct {
	Base
	Kind          ObjectDeclKind
	GenericParams []*GenericParam
	Fields        []*Field
}

// ErrorDecl is a checked `error` declaration.
type ErrorDecl struct {
	Base
	GenericParams []*GenericParam
	Inner         *types.CheckedDataType // payload carried by a raised value of this error; nil for a bare tag.
}
