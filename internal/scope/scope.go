// Package scope implements the lexical scope graph described in spec.md
// §4.2: a tree of scopes with typed containers (constants, functions,
// types, variants, parameters, captures, generics) supporting insertion
// with duplicate detection and name resolution up the parent chain.
//
// vslc resolves identifiers by walking a util.Stack of *SymTab pointers
// (src/ir/validate.go's GetEntry) pushed one per enclosing function/block.
// This package generalizes that single flat SymTab into the richer
// per-kind container set spec.md describes, keeping vslc's "walk up until
// found" search shape.
package scope

import "lilycore/internal/checked"

// Tag names the declaration or statement that owns a Scope.
type Tag uint8

const (
	TagModule Tag = iota
	TagFunction
	TagBlock
	TagRecord
	TagEnum
	TagClass
	TagTrait
	TagObject
	TagMatchCase
	TagTry
)

// Scope is one node of the scope graph. Ordered maps preserve insertion
// order so diagnostics and exhaustive-case reporting can be deterministic,
// the same property vslc gets implicitly from Go's slice-backed Node
// traversal.
type Scope struct {
	ID     uint32
	Parent *Scope
	Tag    Tag

	constants  orderedMap[*checked.Constant]
	funs       orderedMap[*checked.Function]
	records    orderedMap[*checked.TypeDecl]
	enums      orderedMap[*checked.TypeDecl]
	variants   orderedMap[*checked.Variant]
	aliases    orderedMap[*checked.TypeDecl]
	errors     orderedMap[*checked.ErrorDecl]
	classes    orderedMap[*checked.ObjectDecl]
	recObjects orderedMap[*checked.ObjectDecl]
	enumObjects orderedMap[*checked.ObjectDecl]
	traits     orderedMap[*checked.ObjectDecl]
	modules    orderedMap[*checked.ModuleDecl]
	generics   orderedMap[*checked.GenericParam]
	captures   orderedMap[*checked.CapturedVariable]
	params     orderedMap[*checked.Param]
	variables  orderedMap[*checked.Variable]

	hasReturn bool
	raises    map[string]*checked.ErrorDecl // nil unless this scope is a try-block.
	catchName string
}

// orderedMap is a minimal insertion-ordered map, generalizing the role
// vslc's flat map-backed SymTab played for a single container kind.
type orderedMap[V any] struct {
	index map[string]int
	order []string
	vals  []V
}

func (m *orderedMap[V]) init() {
	if m.index == nil {
		m.index = make(map[string]int)
	}
}

// push inserts name -> v. It returns false if name already exists in this
// container, matching vslc's duplicate-identifier convention of reporting
// the name already being bound rather than clobbering it.
func (m *orderedMap[V]) push(name string, v V) bool {
	m.init()
	if _, ok := m.index[name]; ok {
		return false
	}
	m.index[name] = len(m.order)
	m.order = append(m.order, name)
	m.vals = append(m.vals, v)
	return true
}

func (m *orderedMap[V]) get(name string) (V, bool) {
	m.init()
	if i, ok := m.index[name]; ok {
		return m.vals[i], true
	}
	var zero V
	return zero, false
}

func (m *orderedMap[V]) all() []V {
	return m.vals
}

// New creates a scope as a child of parent (nil for the root/package
// scope), tagging it with the declaration or statement that owns it.
func New(parent *Scope, id uint32, tag Tag) *Scope {
	return &Scope{ID: id, Parent: parent, Tag: tag}
}
