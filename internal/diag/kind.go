// Package diag implements the analyzer's diagnostic sink and per-package
// context described in spec.md §6-7: a single emit helper, a kind-tagged
// diagnostic carrying file/location/notes, and the package-wide counters
// and tables the analyzer reads and writes while checking a package.
//
// vslc's nearest equivalent is its util.Perror channel-fed error collector
// (src/util/perror.go): worker goroutines send plain `error` values to a
// buffered listener that the main thread drains at the end of a pass. This
// package generalizes that flat `[]error` buffer into the kind-tagged,
// location-carrying Diagnostic spec.md §6-7 describes, and keeps vslc's
// channel-based collection shape for the parallel analysis path.
package diag

// Kind enumerates the analyzer's diagnostic taxonomy (spec.md §7).
type Kind uint16

const (
	UnknownIdentifier Kind = iota
	DuplicateConstant
	DuplicateFunction
	DuplicateRecord
	DuplicateEnum
	DuplicateAlias
	DuplicateError
	DuplicateClass
	DuplicateTrait
	DuplicateModule
	DuplicateGeneric
	DuplicateParam
	DuplicateVariant
	DuplicateOperator
	DuplicateCase

	DataTypeDontMatch
	DataTypeDontMatchWithInferred
	ExpectedBool
	ExpectedDataType
	ExpectedMutableVariable
	ExpectedCustomDataType
	ExpectedFunCall
	ExpectedMethodParent
	ExpectedObjectParent
	ExpectedObjectDeclAsParent

	TooManyParams
	NumberOfParamsMismatched

	ImportBuiltinRequired
	ImportSysRequired
	BadBuiltinFunction
	BadSysFunction

	MainFunctionNotCallable
	MainCannotBeRecursive
	ExpectedMainFunction
	NoExplicitParamsExpectedInMain
	ReturnDataTypeNotExpectedForMain
	GenericParamsNotExpectedInMain

	OperatorIsNotValid
	OperatorMustHaveReturn
	CannotHaveCompilerDefinedDTAsParameter
	DuplicateOperatorEntry

	ComptimeCastOverflow
	InfiniteDataType
	FieldIsNotFound
	BreakNotExpectedInThisContext
	NextNotExpectedInThisContext

	DataTypeCannotBeDropped
	KindOfExprNotAllowedToDrop
	CannotCastToAnyInSafeMode
	BadLiteralCast
	UnknownCast

	NonExhaustivePatterns
	DuplicateCaseDiag
	ExpectedSizedArrayWithTheSameSize

	CannotUseAnyInSafeMode
	ImpossibleToGetReturnDataType

	UnsupportedConstruct

	UnreachableCodeWarning
	UnusedExpressionWarning
	UnusedCaseWarning
)

var kindNames = map[Kind]string{
	UnknownIdentifier:             "UnknownIdentifier",
	DuplicateConstant:             "DuplicateConstant",
	DuplicateFunction:             "DuplicateFunction",
	DuplicateRecord:               "DuplicateRecord",
	DuplicateEnum:                 "DuplicateEnum",
	DuplicateAlias:                "DuplicateAlias",
	DuplicateError:                "DuplicateError",
	DuplicateClass:                "DuplicateClass",
	DuplicateTrait:                "DuplicateTrait",
	DuplicateModule:               "DuplicateModule",
	DuplicateGeneric:              "DuplicateGeneric",
	DuplicateParam:                "DuplicateParam",
	DuplicateVariant:              "DuplicateVariant",
	DuplicateOperator:             "DuplicateOperator",
	DuplicateCase:                 "DuplicateCase",
	DataTypeDontMatch:             "DataTypeDontMatch",
	DataTypeDontMatchWithInferred: "DataTypeDontMatchWithInferred",
	ExpectedBool:                  "ExpectedBool",
	ExpectedDataType:              "ExpectedDataType",
	ExpectedMutableVariable:       "ExpectedMutableVariable",
	ExpectedCustomDataType:        "ExpectedCustomDataType",
	ExpectedFunCall:               "ExpectedFunCall",
	ExpectedMethodParent:          "ExpectedMethodParent",
	ExpectedObjectParent:          "ExpectedObjectParent",
	ExpectedObjectDeclAsParent:    "ExpectedObjectDeclAsParent",
	TooManyParams:                 "TooManyParams",
	NumberOfParamsMismatched:      "NumberOfParamsMismatched",
	ImportBuiltinRequired:         "ImportBuiltinRequired",
	ImportSysRequired:             "ImportSysRequired",
	BadBuiltinFunction:            "BadBuiltinFunction",
	BadSysFunction:                "BadSysFunction",
	MainFunctionNotCallable:       "MainFunctionNotCallable",
	MainCannotBeRecursive:         "MainCannotBeRecursive",
	ExpectedMainFunction:          "ExpectedMainFunction",
	NoExplicitParamsExpectedInMain:   "NoExplicitParamsExpectedInMain",
	ReturnDataTypeNotExpectedForMain: "ThisReturnDataTypeIsNotExpectedForAMainFunction",
	GenericParamsNotExpectedInMain:   "GenericParamsNotExpectedInMain",
	OperatorIsNotValid:              "OperatorIsNotValid",
	OperatorMustHaveReturn:          "OperatorMustHaveReturn",
	CannotHaveCompilerDefinedDTAsParameter: "CannotHaveCompilerDefinedDTAsParameter",
	DuplicateOperatorEntry:          "DuplicateOperatorEntry",
	ComptimeCastOverflow:            "ComptimeCastOverflow",
	InfiniteDataType:                "InfiniteDataType",
	FieldIsNotFound:                 "FieldIsNotFound",
	BreakNotExpectedInThisContext:   "BreakNotExpectedInThisContext",
	NextNotExpectedInThisContext:    "NextNotExpectedInThisContext",
	DataTypeCannotBeDropped:         "DataTypeCannotBeDropped",
	KindOfExprNotAllowedToDrop:      "KindOfExprNotAllowedToDrop",
	CannotCastToAnyInSafeMode:       "CannotCastToAnyInSafeMode",
	BadLiteralCast:                  "BadLiteralCast",
	UnknownCast:                     "UnknownCast",
	NonExhaustivePatterns:           "NonExhaustivePatterns",
	DuplicateCaseDiag:               "DuplicateCase",
	ExpectedSizedArrayWithTheSameSize: "ExpectedSizedArrayWithTheSameSize",
	CannotUseAnyInSafeMode:          "CannotUseAnyInSafeMode",
	ImpossibleToGetReturnDataType:   "ImpossibleToGetReturnDataType",
	UnsupportedConstruct:            "UnsupportedConstruct",
	UnreachableCodeWarning:          "UnreachableCodeAfterReturn",
	UnusedExpressionWarning:         "UnusedNonUnitExpression",
	UnusedCaseWarning:               "UnusedSwitchCase",
}

// String returns the diagnostic kind's name, as it would be shown to a
// user (spec.md §6 "kind (enumerated — e.g. DataTypeDontMatch, ...)").
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UnknownDiagnosticKind"
}

// IsWarning reports whether k is one of the warning kinds rather than an
// error (spec.md §7 "Warnings").
func (k Kind) IsWarning() bool {
	return k == UnreachableCodeWarning || k == UnusedExpressionWarning || k == UnusedCaseWarning
}
