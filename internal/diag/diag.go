package diag

import (
	"fmt"

	"github.com/pkg/errors"

	"lilycore/internal/types"
)

// Diagnostic is a single analyzer finding, carrying everything spec.md §6
// says a diagnostic must: a kind, the source file it was raised against,
// the offending location, a human message, and optional notes pointing at
// related locations (e.g. "first declared here").
type Diagnostic struct {
	Kind    Kind
	File    string
	Loc     types.Loc
	Message string
	Notes   []Note
	cause   error
}

// Note is a secondary location attached to a Diagnostic, e.g. the site of
// a prior conflicting declaration.
type Note struct {
	Loc     types.Loc
	Message string
}

// Error satisfies the error interface so a Diagnostic can be threaded
// through github.com/pkg/errors-wrapped call chains the way vslc threads
// plain errors through util.Perror.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Loc.StartLine, d.Loc.StartCol, d.Kind, d.Message)
}

// Cause satisfies github.com/pkg/errors' causer interface, so
// errors.Cause(d) unwraps to whatever underlying error (if any) produced
// this diagnostic.
func (d *Diagnostic) Cause() error { return d.cause }

// Sink collects diagnostics raised while checking a package, mirroring the
// counting and "first N errors" discipline of vslc's util.Perror: a
// fixed-capacity channel fed by worker goroutines, drained once all
// declarations in a pass have been checked.
//
// Sink is safe to feed from multiple goroutines via Emit, matching the
// per-file parallel checking spec.md §9 describes ("in parallel, one
// goroutine per file").
type Sink struct {
	ch       chan *Diagnostic
	errors   []*Diagnostic
	warnings []*Diagnostic
	done     chan struct{}
}

// NewSink creates a Sink with room for cap buffered diagnostics before
// Emit blocks; callers should size cap to roughly the number of files
// being checked concurrently.
func NewSink(cap int) *Sink {
	s := &Sink{
		ch:   make(chan *Diagnostic, cap),
		done: make(chan struct{}),
	}
	go s.collect()
	return s
}

func (s *Sink) collect() {
	for d := range s.ch {
		if d.Kind.IsWarning() {
			s.warnings = append(s.warnings, d)
		} else {
			s.errors = append(s.errors, d)
		}
	}
	close(s.done)
}

// Emit raises a diagnostic. Safe for concurrent use.
func (s *Sink) Emit(d *Diagnostic) {
	s.ch <- d
}

// Errorf raises an error-kind diagnostic built from a format string, wrapped
// with github.com/pkg/errors so the Sink's consumer can recover a stack
// trace via errors.Cause if the message started life as a wrapped error.
func (s *Sink) Errorf(kind Kind, file string, loc types.Loc, format string, args ...interface{}) {
	s.Emit(&Diagnostic{
		Kind:    kind,
		File:    file,
		Loc:     loc,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.Errorf(format, args...),
	})
}

// Warnf raises a warning-kind diagnostic.
func (s *Sink) Warnf(kind Kind, file string, loc types.Loc, format string, args ...interface{}) {
	s.Emit(&Diagnostic{Kind: kind, File: file, Loc: loc, Message: fmt.Sprintf(format, args...)})
}

// Close stops accepting diagnostics and waits for the collector goroutine
// to drain the channel. Close must be called exactly once, after every
// Emit has returned.
func (s *Sink) Close() {
	close(s.ch)
	<-s.done
}

// Errors returns every error-kind diagnostic collected so far. Must be
// called after Close.
func (s *Sink) Errors() []*Diagnostic { return s.errors }

// Warnings returns every warning-kind diagnostic collected so far. Must be
// called after Close.
func (s *Sink) Warnings() []*Diagnostic { return s.warnings }

// HasErrors reports whether any error-kind diagnostic was collected,
// matching spec.md §9's "a package with 1+ error diagnostics does not
// proceed to codegen".
func (s *Sink) HasErrors() bool { return len(s.errors) > 0 }
