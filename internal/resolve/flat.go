package resolve

import (
	"sort"

	"syntex/internal/ast"
	"syntex/internal/ext"
	"syntex/internal/source"
)

// Flat resolves by name only; the invocation's module is ignored.
type Flat struct {
	idAllocator
	strings *source.Interner
	exts    map[source.StringID]*ext.Extension
}

func NewFlat(exts []*ext.Extension) *Flat {
	f := &Flat{
		strings: source.NewInterner(),
		exts:    make(map[source.StringID]*ext.Extension, len(exts)),
	}
	for _, e := range exts {
		f.exts[f.strings.Intern(e.Name)] = e
	}
	return f
}

func (f *Flat) FindExtension(_ string, name string) (*ext.Extension, bool) {
	id, ok := f.strings.Find(name)
	if !ok {
		return nil, false
	}
	e, ok := f.exts[id]
	return e, ok
}

func (f *Flat) FindAttrInvocation(scope string, attrs []*ast.Attribute) int {
	return findAttrInvocation(f, scope, attrs)
}

func (f *Flat) Resolve(scope string, path ast.Path) (*ext.Extension, error) {
	return resolvePath(f, scope, path)
}

func (f *Flat) Names() []string {
	out := make([]string, 0, len(f.exts))
	for id := range f.exts {
		out = append(out, f.strings.MustLookup(id))
	}
	sort.Strings(out)
	return out
}
