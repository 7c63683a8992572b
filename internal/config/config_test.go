package config

import "testing"

func TestDefaultIsSafeAndOverflowChecked(t *testing.T) {
	opt := Default()
	if !opt.SafeMode {
		t.Error("expected default options to have safe mode on")
	}
	if !opt.CheckOverflow {
		t.Error("expected default options to have overflow checking on")
	}
	if opt.MaxStackCapacity != DefaultMaxStackCapacity {
		t.Errorf("expected default stack capacity %d, got %d", DefaultMaxStackCapacity, opt.MaxStackCapacity)
	}
}

func TestPackageContextCounters(t *testing.T) {
	pc := NewPackageContext("a.lily", "a", Default(), StatusMain)
	pc.IncError()
	pc.IncError()
	pc.IncWarning()
	pc.RecordBuiltin("print")

	if pc.ErrorCount != 2 || pc.WarningCount != 1 {
		t.Fatalf("unexpected counters: errors=%d warnings=%d", pc.ErrorCount, pc.WarningCount)
	}
	if !pc.HasErrors() {
		t.Fatal("expected HasErrors to be true")
	}
	if !pc.UsedBuiltins["print"] {
		t.Fatal("expected print to be recorded as a used builtin")
	}
}
