// Package config implements the VM/analyzer configuration surface spec.md
// §6 names ("VM configuration": heap/stack capacity, check_overflow) plus
// the analyzer-facing toggles SPEC_FULL.md's ambient stack adds (thread
// count, safe mode, verbosity).
//
// This generalizes vslc's util.Options + ParseArgs (src/util/args.go):
// the same hand-rolled flat struct and manual argv scan, with vslc's
// target-architecture/vendor/OS fields dropped (native codegen is out of
// scope here, see DESIGN.md) and the VM's capacity/safety fields added.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Default capacities, named after vslc's DEFAULT_MAX_STACK_CAPACITY
// (src/util/stack.go) generalized to the VM's operand stack and heap.
const (
	DefaultMaxStackCapacity = 1 << 16
	DefaultMaxHeapObjects   = 1 << 20
	maxThreads              = 64
)

// Options is the compiler/VM's full configuration surface, threaded
// through the analyzer and interpreter the way vslc threads Options
// through its pipeline stages.
type Options struct {
	Src     string // path to source file.
	Out     string // path to output MIR file, if dumping.
	Threads int    // thread-count setting; the analyzer runs on one goroutine, cmd/lilyc uses it only to size the diagnostic sink.

	Verbose bool // print compiler statistics to stdout.
	DumpMIR bool // dump MIR and exit instead of interpreting it.

	// SafeMode toggles the analyzer's stricter compile-time checks
	// (spec.md §4.4 "cannot cast to any in safe mode") and is the
	// package status default: true unless explicitly disabled.
	SafeMode bool

	// MaxStackCapacity is the VM operand stack's fixed capacity (spec.md
	// §4.6, §6 "Heap capacity and stack capacity").
	MaxStackCapacity uint
	// MaxHeapObjects bounds the VM's reference-counted heap.
	MaxHeapObjects uint
	// CheckOverflow toggles overflow-checked arithmetic (spec.md §6
	// "check_overflow boolean toggling overflow-checked arithmetic").
	CheckOverflow bool
}

// Default returns the configuration the CLI starts from before flags are
// applied: safe mode on, overflow checking on, default capacities.
func Default() Options {
	return Options{
		SafeMode:         true,
		CheckOverflow:    true,
		MaxStackCapacity: DefaultMaxStackCapacity,
		MaxHeapObjects:   DefaultMaxHeapObjects,
	}
}

const appVersion = "lilyc 1.0"

// ParseArgs parses os.Args[1:] into Options, matching vslc's ParseArgs:
// a manual scan recognizing one flag at a time, consuming a following
// argument where the flag takes one, with the final bare argument taken
// as the source path.
func ParseArgs() (Options, error) {
	opt := Default()
	args := os.Args[1:]
	if len(args) == 0 {
		return opt, nil
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-vb":
			opt.Verbose = true
		case "-dump-mir":
			opt.DumpMIR = true
		case "-unsafe":
			opt.SafeMode = false
		case "-no-overflow-check":
			opt.CheckOverflow = false
		case "-o":
			v, err := nextArg(args, &i)
			if err != nil {
				return opt, err
			}
			opt.Out = v
		case "-t":
			v, err := nextArg(args, &i)
			if err != nil {
				return opt, err
			}
			t, err := strconv.Atoi(v)
			if err != nil {
				return opt, fmt.Errorf("expected integer thread count, got: %s", v)
			}
			if t <= 0 || t > maxThreads {
				return opt, fmt.Errorf("thread count must be in range [1, %d]", maxThreads)
			}
			opt.Threads = t
		case "-stack-capacity":
			v, err := nextArg(args, &i)
			if err != nil {
				return opt, err
			}
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return opt, fmt.Errorf("expected integer stack capacity, got: %s", v)
			}
			opt.MaxStackCapacity = uint(n)
		case "-heap-capacity":
			v, err := nextArg(args, &i)
			if err != nil {
				return opt, err
			}
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return opt, fmt.Errorf("expected integer heap capacity, got: %s", v)
			}
			opt.MaxHeapObjects = uint(n)
		default:
			if strings.HasPrefix(args[i], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i])
			}
			opt.Src = args[i]
		}
	}
	return opt, nil
}

func nextArg(args []string, i *int) (string, error) {
	if *i+1 >= len(args) {
		return "", fmt.Errorf("got flag %s but no argument", args[*i])
	}
	if strings.HasPrefix(args[*i+1], "-") {
		return "", fmt.Errorf("expected argument to %s, got new flag %s", args[*i], args[*i+1])
	}
	*i++
	return args[*i], nil
}

// printHelp prints usage, tabwriter-aligned as vslc's printHelp does.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits.")
	_, _ = fmt.Fprintln(w, "-o\tPath to write MIR output to.")
	_, _ = fmt.Fprintf(w, "-t\tAnalyzer thread count. Must be in range [1, %d].\n", maxThreads)
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print compiler statistics to stdout.")
	_, _ = fmt.Fprintln(w, "-dump-mir\tDump MIR and exit instead of interpreting it.")
	_, _ = fmt.Fprintln(w, "-unsafe\tDisable safe-mode analyzer checks (e.g. casts to any).")
	_, _ = fmt.Fprintln(w, "-no-overflow-check\tDisable overflow-checked arithmetic in the VM.")
	_, _ = fmt.Fprintf(w, "-stack-capacity\tVM operand stack capacity. Defaults to %d.\n", DefaultMaxStackCapacity)
	_, _ = fmt.Fprintf(w, "-heap-capacity\tVM heap object capacity. Defaults to %d.\n", DefaultMaxHeapObjects)
	_ = w.Flush()
}
