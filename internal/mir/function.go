package mir

import (
	"fmt"

	"lilycore/internal/types"
)

// Param is one parameter slot of a Function, mirroring lir's Param
// (src/ir/lir/function.go) generalized to the checked type lattice.
type Param struct {
	Name string
	Type *types.CheckedDataType
}

// Function is an ordered map of blocks keyed by block name (spec.md §4.5
// "each function's insts is an ordered map keyed by block name"), plus its
// params and return type. Grounded on lir.Function's name/params/blocks
// shape (src/ir/lir/function.go), generalized from lir's fixed Int/Float
// return type to the full checked data type lattice.
type Function struct {
	Name       string
	Params     []Param
	ReturnType *types.CheckedDataType

	order  []string
	blocks map[string]*Block
}

// NewFunction creates an empty function. Blocks are added with CreateBlock.
func NewFunction(name string, params []Param, ret *types.CheckedDataType) *Function {
	return &Function{
		Name: name, Params: params, ReturnType: ret,
		blocks: make(map[string]*Block),
	}
}

// CreateBlock appends a new named block, its limit-id assigned as the
// block's position in the function (matching the VM's StackFrame
// BlockFrame-array-indexed-by-limit-id scheme, spec.md §3 "Stack and
// frames").
func (f *Function) CreateBlock(name string) *Block {
	if _, exists := f.blocks[name]; exists {
		panic(fmt.Sprintf("mir: duplicate block name %q in function %q", name, f.Name))
	}
	b := newBlock(name, len(f.order))
	f.blocks[name] = b
	f.order = append(f.order, name)
	return b
}

// Block looks up a block by name.
func (f *Function) Block(name string) *Block {
	return f.blocks[name]
}

// Blocks returns every block in insertion order.
func (f *Function) Blocks() []*Block {
	out := make([]*Block, len(f.order))
	for i, name := range f.order {
		out[i] = f.blocks[name]
	}
	return out
}

// Entry returns the function's first block, its entry point.
func (f *Function) Entry() *Block {
	if len(f.order) == 0 {
		return nil
	}
	return f.blocks[f.order[0]]
}

// Verify checks that every block ends with a terminator (spec.md §3
// invariant "the analyzer guarantees every block ends with jmp, jmp_cond,
// ret, or unreachable"), matching vslc's own pre-codegen block validation
// in src/ir/validate.go.
func (f *Function) Verify() error {
	for _, name := range f.order {
		if !f.blocks[name].Terminated() {
			return fmt.Errorf("mir: block %q of function %q has no terminator", name, f.Name)
		}
	}
	return nil
}
