package mir

import "fmt"

// EntryFunctionName is the name the VM looks up to begin execution
// (spec.md §6 "MIR output → VM input... The entry function is named
// main").
const EntryFunctionName = "main"

// Module is an ordered map of functions keyed by name (spec.md §6), the
// MIR→VM contract's top-level container. Grounded on lir.Module
// (src/ir/lir/module.go) — same name-keyed function map, generalized from
// lir's mutex-guarded concurrent construction (the analyzer lowering step
// that builds MIR is assumed single-threaded here, spec.md §5 "Scheduling
// model") to a plain non-synchronized builder.
type Module struct {
	Name string

	order     []string
	functions map[string]*Function
}

// NewModule creates an empty MIR module.
func NewModule(name string) *Module {
	return &Module{Name: name, functions: make(map[string]*Function)}
}

// AddFunction inserts fn, keyed by its name. A duplicate name is a
// lowering bug, not a user error — it panics rather than returning a
// diagnostic (MIR construction happens after all analyzer diagnostics are
// already resolved, spec.md §5 "MIR is produced once and then consumed
// read-only by the VM").
func (m *Module) AddFunction(fn *Function) {
	if _, exists := m.functions[fn.Name]; exists {
		panic(fmt.Sprintf("mir: duplicate function name %q", fn.Name))
	}
	m.functions[fn.Name] = fn
	m.order = append(m.order, fn.Name)
}

// Function looks up a function by name.
func (m *Module) Function(name string) *Function {
	return m.functions[name]
}

// Functions returns every function in insertion order.
func (m *Module) Functions() []*Function {
	out := make([]*Function, len(m.order))
	for i, name := range m.order {
		out[i] = m.functions[name]
	}
	return out
}

// Entry returns the module's entry function, named EntryFunctionName.
func (m *Module) Entry() *Function {
	return m.functions[EntryFunctionName]
}

// Verify checks every function's block-termination invariant.
func (m *Module) Verify() error {
	for _, name := range m.order {
		if err := m.functions[name].Verify(); err != nil {
			return err
		}
	}
	if m.Entry() == nil {
		return fmt.Errorf("mir: module %q has no %q entry function", m.Name, EntryFunctionName)
	}
	return nil
}
