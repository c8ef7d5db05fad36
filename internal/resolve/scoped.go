package resolve

import (
	"sort"
	"strings"

	"syntex/internal/ast"
	"syntex/internal/ext"
	"syntex/internal/source"
)

// Scoped honours Extension.Scope: an extension registered for `a` is visible
// in `a` and every module below it. Lookup walks from the invocation's
// module outwards to the crate root; the innermost definition wins.
type Scoped struct {
	idAllocator
	strings *source.Interner
	scopes  map[string]map[source.StringID]*ext.Extension
}

func NewScoped(exts []*ext.Extension) *Scoped {
	s := &Scoped{
		strings: source.NewInterner(),
		scopes:  make(map[string]map[source.StringID]*ext.Extension),
	}
	for _, e := range exts {
		m := s.scopes[e.Scope]
		if m == nil {
			m = make(map[source.StringID]*ext.Extension)
			s.scopes[e.Scope] = m
		}
		m[s.strings.Intern(e.Name)] = e
	}
	return s
}

func (s *Scoped) FindExtension(scope, name string) (*ext.Extension, bool) {
	id, ok := s.strings.Find(name)
	if !ok {
		return nil, false
	}
	for {
		if e, ok := s.scopes[scope][id]; ok {
			return e, true
		}
		if scope == "" {
			return nil, false
		}
		scope = parentScope(scope)
	}
}

func parentScope(scope string) string {
	i := strings.LastIndex(scope, "::")
	if i < 0 {
		return ""
	}
	return scope[:i]
}

func (s *Scoped) FindAttrInvocation(scope string, attrs []*ast.Attribute) int {
	return findAttrInvocation(s, scope, attrs)
}

func (s *Scoped) Resolve(scope string, path ast.Path) (*ext.Extension, error) {
	return resolvePath(s, scope, path)
}

// Names lists every registered name regardless of scope.
func (s *Scoped) Names() []string {
	seen := make(map[string]struct{})
	for _, m := range s.scopes {
		for id := range m {
			seen[s.strings.MustLookup(id)] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
