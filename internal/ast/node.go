// Package ast models the parser's output: the untyped surface-syntax tree
// the analyzer consumes and never mutates (spec.md §6 "AST input"). The
// lexer and parser that produce this tree are external collaborators, out
// of scope for this module (spec.md §1); this package only carries the
// shape the analyzer depends on.
//
// The shape is lifted almost directly from vslc's src/ir/nodetype.go
// Node struct — vslc's own parse tree plays exactly the role spec.md
// assigns to the AST input collaborator, down to the tagged-kind +
// Line/Pos + Data + Children layout. Line/Pos is generalized into Loc per
// spec.md §6's "stable source locations (file, start/end line/column,
// byte offsets)".
package ast

// Kind tags the surface syntax a Node represents.
type Kind uint16

const (
	KindProgram Kind = iota
	KindModule

	// Declarations.
	KindConstDecl
	KindFunDecl
	KindRecordDecl
	KindEnumDecl
	KindAliasDecl
	KindClassDecl
	KindTraitDecl
	KindErrorDecl
	KindModuleDecl
	KindParam
	KindGenericParam
	KindField
	KindVariant

	// Statements.
	KindBlock
	KindIf
	KindWhile
	KindFor
	KindMatch
	KindSwitch
	KindTryCatch
	KindUnsafe
	KindDefer
	KindDrop
	KindRaise
	KindReturn
	KindVarDecl
	KindExprStmt
	KindBreak
	KindNext

	// Expressions.
	KindIdentifier
	KindBinary
	KindUnary
	KindCall
	KindBuiltinCall
	KindSysCall
	KindLenCall
	KindRecordCall
	KindVariantCall
	KindArrayLit
	KindListLit
	KindTupleLit
	KindCast
	KindPathAccess
	KindIntLit
	KindFloatLit
	KindStringLit
	KindBoolLit
	KindNilLit
	KindNoneLit
	KindChain // x |> f(...)
	KindLambda

	// Patterns.
	KindPatArray
	KindPatList
	KindPatListHeadTail
	KindPatTuple
	KindPatRecordCall
	KindPatVariantCall
	KindPatAs
	KindPatName
	KindPatWildcard
	KindPatAutoComplete
	KindPatRange
	KindPatError
	KindPatLiteral
)

// Loc is a stable source location: file, start/end line/column, and byte
// offsets (spec.md §6).
type Loc struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	StartByte int
	EndByte   int
}

// Node is one node of the parsed syntax tree. The analyzer stores
// references to Node values inside checked decls; it never writes through
// them (spec.md §6).
type Node struct {
	Kind     Kind
	Loc      Loc
	Data     interface{} // literal value, identifier name, operator token, etc.
	Children []*Node
}

// String renders a short, print-friendly description of n, in the spirit
// of vslc's Node.String().
func (n *Node) String() string {
	if n == nil {
		return "<nil node>"
	}
	if n.Data == nil {
		return n.Kind.String()
	}
	return n.Kind.String() + ":" + toText(n.Data)
}

func toText(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt_Stringer:
		return x.String()
	default:
		return "?"
	}
}

type fmt_Stringer interface{ String() string }

// String returns the name of Kind k.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "KindUnknown"
}

var kindNames = [...]string{
	KindProgram: "Program", KindModule: "Module",
	KindConstDecl: "ConstDecl", KindFunDecl: "FunDecl", KindRecordDecl: "RecordDecl",
	KindEnumDecl: "EnumDecl", KindAliasDecl: "AliasDecl", KindClassDecl: "ClassDecl",
	KindTraitDecl: "TraitDecl", KindErrorDecl: "ErrorDecl", KindModuleDecl: "ModuleDecl",
	KindParam: "Param", KindGenericParam: "GenericParam", KindField: "Field", KindVariant: "Variant",
	KindBlock: "Block", KindIf: "If", KindWhile: "While", KindFor: "For",
	KindMatch: "Match", KindSwitch: "Switch", KindTryCatch: "TryCatch", KindUnsafe: "Unsafe",
	KindDefer: "Defer", KindDrop: "Drop", KindRaise: "Raise", KindReturn: "Return",
	KindVarDecl: "VarDecl", KindExprStmt: "ExprStmt", KindBreak: "Break", KindNext: "Next",
	KindIdentifier: "Identifier", KindBinary: "Binary", KindUnary: "Unary", KindCall: "Call",
	KindBuiltinCall: "BuiltinCall", KindSysCall: "SysCall", KindLenCall: "LenCall",
	KindRecordCall: "RecordCall", KindVariantCall: "VariantCall", KindArrayLit: "ArrayLit",
	KindListLit: "ListLit", KindTupleLit: "TupleLit", KindCast: "Cast", KindPathAccess: "PathAccess",
	KindIntLit: "IntLit", KindFloatLit: "FloatLit", KindStringLit: "StringLit", KindBoolLit: "BoolLit",
	KindNilLit: "NilLit", KindNoneLit: "NoneLit", KindChain: "Chain", KindLambda: "Lambda",
	KindPatArray: "PatArray", KindPatList: "PatList", KindPatListHeadTail: "PatListHeadTail",
	KindPatTuple: "PatTuple", KindPatRecordCall: "PatRecordCall", KindPatVariantCall: "PatVariantCall",
	KindPatAs: "PatAs", KindPatName: "PatName", KindPatWildcard: "PatWildcard",
	KindPatAutoComplete: "PatAutoComplete", KindPatRange: "PatRange", KindPatError: "PatError",
	KindPatLiteral: "PatLiteral",
}
