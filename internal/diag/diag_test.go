package diag

import (
	"bytes"
	"testing"

	"lilycore/internal/types"
)

func TestSinkCollectsErrorsAndWarnings(t *testing.T) {
	s := NewSink(4)
	s.Errorf(UnknownIdentifier, "a.lily", types.Loc{StartLine: 1, StartCol: 2}, "unknown identifier %q", "x")
	s.Warnf(UnreachableCodeWarning, "a.lily", types.Loc{StartLine: 5, StartCol: 1}, "code after return")
	s.Close()

	if len(s.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %d", len(s.Errors()))
	}
	if len(s.Warnings()) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(s.Warnings()))
	}
	if !s.HasErrors() {
		t.Fatal("expected HasErrors to be true")
	}
}

func TestReportFormatsDiagnostics(t *testing.T) {
	s := NewSink(2)
	s.Errorf(DataTypeDontMatch, "b.lily", types.Loc{StartLine: 3, StartCol: 4}, "expected i32, found bool")
	s.Close()

	var buf bytes.Buffer
	Report(&buf, s)
	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("b.lily:3:4")) {
		t.Fatalf("expected report to contain the diagnostic location, got: %s", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("1 error(s), 0 warning(s)")) {
		t.Fatalf("expected report to contain the summary line, got: %s", out)
	}
}

func TestKindStringAndIsWarning(t *testing.T) {
	if DataTypeDontMatch.String() != "DataTypeDontMatch" {
		t.Fatalf("unexpected kind name: %s", DataTypeDontMatch.String())
	}
	if !UnusedCaseWarning.IsWarning() {
		t.Fatal("expected UnusedCaseWarning to be classified as a warning")
	}
	if DataTypeDontMatch.IsWarning() {
		t.Fatal("expected DataTypeDontMatch to not be classified as a warning")
	}
}
