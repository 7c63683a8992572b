// Package types implements the checked data type lattice: the closed set of
// data types produced by the analyzer, their equality, subsumption and
// generic-resolution operations.
//
// The lattice is modeled the way vslc's src/ir/lir/types package models LIR
// data types: a small closed enum with a String() table, generalized here
// from vslc's {Int, Float, String, VaList, Unknown} set to the full checked
// data type kind set.
package types

import "fmt"

// Kind identifies the tag of a CheckedDataType.
type Kind uint8

const (
	KBool Kind = iota
	KByte
	KChar
	KI8
	KI16
	KI32
	KI64
	KIsize
	KU8
	KU16
	KU32
	KU64
	KUsize
	KF32
	KF64
	KUnit
	KNever
	KAny
	KCIntK  // C-ABI integer, width carried in CABIWidth.
	KCFloat // C-ABI float, width carried in CABIWidth.

	KArraySized
	KArrayUnsized
	KArrayDynamic
	KList
	KTuple
	KResult
	KOptional
	KStr
	KBytes
	KCStr

	KPtr
	KPtrMut
	KRef
	KRefMut
	KTrace
	KTraceMut
	KMut

	KCustom // record/enum/alias/class/trait/error; see Custom field.

	KCompilerGeneric
	KCompilerChoice
	KCondCompilerChoice

	KUnknown
	KLambda
)

var kindNames = [...]string{
	KBool:               "Bool",
	KByte:                "Byte",
	KChar:                "Char",
	KI8:                  "Int8",
	KI16:                 "Int16",
	KI32:                 "Int32",
	KI64:                 "Int64",
	KIsize:               "Isize",
	KU8:                  "Uint8",
	KU16:                 "Uint16",
	KU32:                 "Uint32",
	KU64:                 "Uint64",
	KUsize:               "Usize",
	KF32:                 "Float32",
	KF64:                 "Float64",
	KUnit:                "Unit",
	KNever:                "Never",
	KAny:                  "Any",
	KCIntK:                "CInt",
	KCFloat:               "CFloat",
	KArraySized:           "ArraySized",
	KArrayUnsized:         "ArrayUnsized",
	KArrayDynamic:         "ArrayDynamic",
	KList:                 "List",
	KTuple:                "Tuple",
	KResult:               "Result",
	KOptional:             "Optional",
	KStr:                  "Str",
	KBytes:                "Bytes",
	KCStr:                 "CStr",
	KPtr:                  "Ptr",
	KPtrMut:               "PtrMut",
	KRef:                  "Ref",
	KRefMut:               "RefMut",
	KTrace:                "Trace",
	KTraceMut:             "TraceMut",
	KMut:                  "Mut",
	KCustom:               "Custom",
	KCompilerGeneric:      "CompilerGeneric",
	KCompilerChoice:       "CompilerChoice",
	KCondCompilerChoice:   "ConditionalCompilerChoice",
	KUnknown:              "Unknown",
	KLambda:               "Lambda",
}

// String returns a print friendly name of Kind k, in the spirit of vslc's
// types.DataType.String().
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// CustomDeclKind distinguishes the different custom-type declaration shapes.
type CustomDeclKind uint8

const (
	CustomRecord CustomDeclKind = iota
	CustomEnum
	CustomAlias
	CustomClass
	CustomTrait
	CustomError
	CustomGeneric
)

// Loc is a detachable source location, carried on a CheckedDataType only
// until the type is interned (Clone detaches it); locations are not part of
// structural equality.
type Loc struct {
	File       string
	StartLine  int
	StartCol   int
	EndLine    int
	EndCol     int
	StartByte  int
	EndByte    int
}

// Custom carries the payload for KCustom: a reference to a user declared
// record/enum/alias/class/trait/error/generic.
type Custom struct {
	ScopeID      uint32
	AccessScope  uint32
	ShortName    string
	GlobalName   string
	GenericArgs  []*CheckedDataType // nil if not generic.
	Recursive    bool
	DeclKind     CustomDeclKind
}

// CompilerChoice holds the candidate set for an overload family together
// with an id-map used for return-type dispatch (spec.md §4.1 "Conditional
// compiler choice").
type CompilerChoice struct {
	Candidates []*CheckedDataType
	IDs        map[string]int
}

// Lambda carries a function-valued type's parameter and return types.
type Lambda struct {
	Params []*CheckedDataType
	Return *CheckedDataType
}

// CheckedDataType is the tagged variant described in spec.md §3.
type CheckedDataType struct {
	Kind Kind

	// Primitive-family payload.
	CABIWidth int // only meaningful for KCIntK / KCFloat.

	// Container payloads.
	Elem   *CheckedDataType   // array/list/optional element type.
	Len    int                // sized array length; str/bytes fixed length.
	Tuple  []*CheckedDataType // tuple member types.
	ResultOk   *CheckedDataType
	ResultErrs []*CheckedDataType

	// Pointer-family payload.
	Inner *CheckedDataType // ptr/ptr-mut/ref/ref-mut/trace/trace-mut/mut.

	// Custom payload.
	Custom *Custom

	// Compiler-generic payload: a lazily bound name.
	GenericName string
	Bound       *CheckedDataType // nil until resolved.

	// Compiler-choice / conditional-compiler-choice payload.
	Choice *CompilerChoice

	// Lambda payload.
	Fn *Lambda

	Loc    *Loc
	locked bool
}

// New constructs a CheckedDataType of a primitive kind with no payload.
func New(k Kind) *CheckedDataType {
	return &CheckedDataType{Kind: k}
}

// NewCABI constructs a C-ABI integer or float type of the given bit width.
func NewCABI(k Kind, width int) *CheckedDataType {
	return &CheckedDataType{Kind: k, CABIWidth: width}
}

// Unit is the canonical unit type, returned by functions and statements with
// no meaningful value.
func Unit() *CheckedDataType { return New(KUnit) }

// Unknown allocates an inference placeholder. It must be resolved before the
// enclosing function is finalized (spec.md §3 invariant).
func Unknown() *CheckedDataType { return New(KUnknown) }

// IsLocked reports whether t has been locked by Lock.
func (t *CheckedDataType) IsLocked() bool {
	return t != nil && t.locked
}
