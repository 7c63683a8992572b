package config

// Status classifies how a package is being compiled (spec.md §6 "Package
// context... status (one of {main, library, sub-package})").
type Status uint8

const (
	StatusMain Status = iota
	StatusLibrary
	StatusSubPackage
)

// PackageContext is the read/write struct threaded through analysis of a
// single package, exactly enumerating spec.md §6's "Package context"
// field list. It generalizes vslc's ad hoc globals (vslc analyzes a
// single translation unit and keeps equivalent state as package-level
// vars in its analysis files) into one struct passed by reference.
type PackageContext struct {
	File       string // file handle / path, for diagnostic messages.
	GlobalName string // the package's mangled global name prefix.

	Opts Options

	Status      Status
	MainIsFound bool
	IsExe       bool

	ErrorCount   int
	WarningCount int

	UsedBuiltins map[string]bool
	UsedSys      map[string]bool
}

// NewPackageContext creates a PackageContext ready for analysis of the
// named file.
func NewPackageContext(file, globalName string, opts Options, status Status) *PackageContext {
	return &PackageContext{
		File:         file,
		GlobalName:   globalName,
		Opts:         opts,
		Status:       status,
		UsedBuiltins: make(map[string]bool),
		UsedSys:      make(map[string]bool),
	}
}

// RecordBuiltin marks name as a used builtin function (spec.md §6
// "used-builtin/sys sets updated when a call selects one").
func (p *PackageContext) RecordBuiltin(name string) { p.UsedBuiltins[name] = true }

// RecordSys marks name as a used sys function.
func (p *PackageContext) RecordSys(name string) { p.UsedSys[name] = true }

// IncError increments the package's error counter (spec.md §5 "The
// diagnostic counter is per package").
func (p *PackageContext) IncError() { p.ErrorCount++ }

// IncWarning increments the package's warning counter.
func (p *PackageContext) IncWarning() { p.WarningCount++ }

// HasErrors reports whether any error has been recorded against this
// package, matching spec.md §5's "after step 2, a nonzero counter
// terminates the process".
func (p *PackageContext) HasErrors() bool { return p.ErrorCount > 0 }
