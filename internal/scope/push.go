package scope

import "lilycore/internal/checked"

// Each Push* returns true if name was newly inserted, false if a
// same-kind name already existed in this scope — the analyzer emits a
// duplicate-X diagnostic in the false case (spec.md §4.2 "push_<kind>").
// This is the same "try-insert, tell caller if it collided" shape as
// vslc's GetEntry-adjacent SymTab; vslc's own SymTab is not exported in
// source, so this package defines it fresh per spec.md's container list.

func (s *Scope) PushConstant(name string, c *checked.Constant) bool {
	return s.constants.push(name, c)
}

func (s *Scope) PushFun(name string, f *checked.Function) bool {
	return s.funs.push(name, f)
}

func (s *Scope) PushRecord(name string, t *checked.TypeDecl) bool {
	return s.records.push(name, t)
}

func (s *Scope) PushEnum(name string, t *checked.TypeDecl) bool {
	return s.enums.push(name, t)
}

func (s *Scope) PushVariant(name string, v *checked.Variant) bool {
	return s.variants.push(name, v)
}

func (s *Scope) PushAlias(name string, t *checked.TypeDecl) bool {
	return s.aliases.push(name, t)
}

func (s *Scope) PushError(name string, e *checked.ErrorDecl) bool {
	return s.errors.push(name, e)
}

func (s *Scope) PushClass(name string, o *checked.ObjectDecl) bool {
	return s.classes.push(name, o)
}

func (s *Scope) PushRecordObject(name string, o *checked.ObjectDecl) bool {
	return s.recObjects.push(name, o)
}

func (s *Scope) PushEnumObject(name string, o *checked.ObjectDecl) bool {
	return s.enumObjects.push(name, o)
}

func (s *Scope) PushTrait(name string, o *checked.ObjectDecl) bool {
	return s.traits.push(name, o)
}

func (s *Scope) PushModule(name string, m *checked.ModuleDecl) bool {
	return s.modules.push(name, m)
}

func (s *Scope) PushGeneric(name string, g *checked.GenericParam) bool {
	return s.generics.push(name, g)
}

func (s *Scope) AddCapturedVariable(name string, c *checked.CapturedVariable) bool {
	return s.captures.push(name, c)
}

func (s *Scope) PushParam(name string, p *checked.Param) bool {
	return s.params.push(name, p)
}

func (s *Scope) PushVariable(name string, v *checked.Variable) bool {
	return s.variables.push(name, v)
}

// SetCatchName records the bound identifier of a try/catch statement's
// error value (spec.md §4.2 "set_catch_name").
func (s *Scope) SetCatchName(name string) {
	s.catchName = name
}

// SetHasReturn propagates the "this scope unconditionally returns" bit up
// through block-like parent scopes (spec.md §4.2 "set_has_return").
func SetHasReturn(s *Scope) {
	for cur := s; cur != nil; cur = cur.Parent {
		cur.hasReturn = true
		if cur.Tag != TagBlock {
			break
		}
	}
}

// HasReturn reports whether this exact scope has been marked as
// unconditionally returning.
func (s *Scope) HasReturn() bool {
	return s.hasReturn
}
