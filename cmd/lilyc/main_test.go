package main

import (
	"bytes"
	"os"
	"testing"

	"lilycore/internal/config"
	"lilycore/internal/mir"
	"lilycore/internal/types"
)

func testOptions(src string) config.Options {
	opt := config.Default()
	opt.Src = src
	return opt
}

func TestModuleNameOf(t *testing.T) {
	cases := map[string]string{
		"prog.lily":          "prog",
		"/a/b/prog.lily":     "prog",
		"/a/b/prog":          "prog",
		"rel/path/prog.lily": "prog",
	}
	for in, want := range cases {
		if got := moduleNameOf(in); got != want {
			t.Errorf("moduleNameOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunReportsMissingFrontEnd(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "*.lily")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	prevFrontEnd := FrontEnd
	FrontEnd = nil
	defer func() { FrontEnd = prevFrontEnd }()

	opt := testOptions(f.Name())
	if err := run(opt); err == nil {
		t.Fatalf("expected an error when no front end is registered")
	}
}

func TestDumpMIRWritesFunctionAndBlockNames(t *testing.T) {
	mod := mir.NewModule("demo")
	fn := mir.NewFunction(mir.EntryFunctionName, nil, types.New(types.KI32))
	b := fn.CreateBlock("entry")
	b.CreateRet(b.CreateVal(types.New(types.KI32), int64(0)))
	mod.AddFunction(fn)

	out := filepathJoin(t.TempDir(), "out.mir")
	opt := testOptions("")
	opt.Out = out

	if err := dumpMIR(opt, mod); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("could not read dumped MIR: %v", err)
	}
	if !bytes.Contains(data, []byte("fn main:")) || !bytes.Contains(data, []byte("entry:")) {
		t.Fatalf("unexpected MIR dump contents: %s", data)
	}
}

func filepathJoin(dir, name string) string {
	return dir + string(os.PathSeparator) + name
}
