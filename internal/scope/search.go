package scope

import "lilycore/internal/checked"

// ResponseKind tags what SearchIdentifier found, modeled as a sum type per
// spec.md §9 "Scope response union": a single not-found variant plus
// per-kind success variants carrying a direct reference to the resolved
// declaration and the scope id it was found in.
type ResponseKind uint8

const (
	NotFound ResponseKind = iota
	FoundVariable
	FoundParameter
	FoundConstant
	FoundFunction
	FoundRecord
	FoundEnum
	FoundVariant
	FoundAlias
	FoundError
	FoundClass
	FoundRecordObject
	FoundEnumObject
	FoundTrait
	FoundModule
	FoundGeneric
	FoundCapture
)

// Response is the result of SearchIdentifier.
type Response struct {
	Kind    ResponseKind
	ScopeID uint32
	Value   interface{} // one of *checked.{Variable,Param,Constant,Function,TypeDecl,Variant,ErrorDecl,ObjectDecl,ModuleDecl,GenericParam,CapturedVariable}
}

// Found reports whether the lookup succeeded.
func (r Response) Found() bool { return r.Kind != NotFound }

// searchX walks s and its parent chain for name in a single container,
// returning (value, scopeID, true) on success, matching vslc's GetEntry
// walk over util.Stack.

func searchIn[V any](s *Scope, name string, get func(*Scope) (V, bool)) (V, uint32, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := get(cur); ok {
			return v, cur.ID, true
		}
	}
	var zero V
	return zero, 0, false
}

func (s *Scope) SearchVariable(name string) (*checked.Variable, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.Variable, bool) { return c.variables.get(name) })
}

func (s *Scope) SearchParam(name string) (*checked.Param, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.Param, bool) { return c.params.get(name) })
}

func (s *Scope) SearchConstant(name string) (*checked.Constant, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.Constant, bool) { return c.constants.get(name) })
}

func (s *Scope) SearchFun(name string) (*checked.Function, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.Function, bool) { return c.funs.get(name) })
}

func (s *Scope) SearchRecord(name string) (*checked.TypeDecl, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.TypeDecl, bool) { return c.records.get(name) })
}

func (s *Scope) SearchEnum(name string) (*checked.TypeDecl, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.TypeDecl, bool) { return c.enums.get(name) })
}

func (s *Scope) SearchVariant(name string) (*checked.Variant, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.Variant, bool) { return c.variants.get(name) })
}

func (s *Scope) SearchAlias(name string) (*checked.TypeDecl, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.TypeDecl, bool) { return c.aliases.get(name) })
}

func (s *Scope) SearchError(name string) (*checked.ErrorDecl, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.ErrorDecl, bool) { return c.errors.get(name) })
}

func (s *Scope) SearchClass(name string) (*checked.ObjectDecl, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.ObjectDecl, bool) { return c.classes.get(name) })
}

func (s *Scope) SearchModule(name string) (*checked.ModuleDecl, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.ModuleDecl, bool) { return c.modules.get(name) })
}

func (s *Scope) SearchGeneric(name string) (*checked.GenericParam, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.GenericParam, bool) { return c.generics.get(name) })
}

func (s *Scope) SearchCapture(name string) (*checked.CapturedVariable, uint32, bool) {
	return searchIn(s, name, func(c *Scope) (*checked.CapturedVariable, bool) { return c.captures.get(name) })
}

// SearchIdentifier is the unified lookup described in spec.md §4.2: it
// dispatches by the first container matching name, in priority order
// (local bindings before outer declarations), and returns a Response
// tagged with the kind it found.
//
// Priority mirrors vslc's own lookup order in GetEntry: nearer-scope
// variables/parameters shadow further-out declarations, and the walk
// stops at the first hit rather than collecting every container's
// candidate.
func (s *Scope) SearchIdentifier(name string) Response {
	if v, id, ok := s.SearchVariable(name); ok {
		return Response{FoundVariable, id, v}
	}
	if v, id, ok := s.SearchParam(name); ok {
		return Response{FoundParameter, id, v}
	}
	if v, id, ok := s.SearchCapture(name); ok {
		return Response{FoundCapture, id, v}
	}
	if v, id, ok := s.SearchConstant(name); ok {
		return Response{FoundConstant, id, v}
	}
	if v, id, ok := s.SearchFun(name); ok {
		return Response{FoundFunction, id, v}
	}
	if v, id, ok := s.SearchEnum(name); ok {
		return Response{FoundEnum, id, v}
	}
	if v, id, ok := s.SearchVariant(name); ok {
		return Response{FoundVariant, id, v}
	}
	if v, id, ok := s.SearchRecord(name); ok {
		return Response{FoundRecord, id, v}
	}
	if v, id, ok := s.SearchAlias(name); ok {
		return Response{FoundAlias, id, v}
	}
	if v, id, ok := s.SearchError(name); ok {
		return Response{FoundError, id, v}
	}
	if v, id, ok := s.SearchClass(name); ok {
		return Response{FoundClass, id, v}
	}
	if v, id, ok := s.SearchModule(name); ok {
		return Response{FoundModule, id, v}
	}
	if v, id, ok := s.SearchGeneric(name); ok {
		return Response{FoundGeneric, id, v}
	}
	return Response{Kind: NotFound}
}

// GetCurrentFun climbs to the nearest enclosing function declaration scope.
func (s *Scope) GetCurrentFun() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Tag == TagFunction {
			return cur
		}
	}
	return nil
}

// GetCurrentObject climbs to the nearest enclosing class/trait/object
// scope.
func (s *Scope) GetCurrentObject() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Tag == TagClass || cur.Tag == TagTrait || cur.Tag == TagObject {
			return cur
		}
	}
	return nil
}

// GetCurrentTry climbs to the nearest enclosing try scope, used by raise
// statements to additionally record the raised error on the try's raise
// set (spec.md §4.4 "raise").
func (s *Scope) GetCurrentTry() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Tag == TagTry {
			return cur
		}
	}
	return nil
}

// AddRaise records err on this scope's raise set, lazily allocating it.
func (s *Scope) AddRaise(name string, err *checked.ErrorDecl) {
	if s.raises == nil {
		s.raises = make(map[string]*checked.ErrorDecl)
	}
	s.raises[name] = err
}

// Raises returns this scope's raise set, or nil if none has been recorded.
func (s *Scope) Raises() map[string]*checked.ErrorDecl {
	return s.raises
}

// CatchName returns the bound identifier of this try/catch scope's error
// value.
func (s *Scope) CatchName() string {
	return s.catchName
}
