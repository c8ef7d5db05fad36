package ast

import (
	"strings"

	"syntex/internal/source"
)

type PathSegment struct {
	Ident    Ident
	Generics []Ty
}

// Path is a possibly qualified name, `a::b::<T>::c`.
type Path struct {
	Global   bool // leading `::`
	Segments []PathSegment
	Span     source.Span
}

// SimplePath builds an unqualified path from names.
func SimplePath(sp source.Span, names ...string) Path {
	segs := make([]PathSegment, len(names))
	for i, n := range names {
		segs[i] = PathSegment{Ident: NewIdent(n, sp)}
	}
	return Path{Segments: segs, Span: sp}
}

// IsBareName reports whether the path is a single segment without generics
// or a leading separator, the only form an extension name may take.
func (p Path) IsBareName() bool {
	return !p.Global && len(p.Segments) == 1 && len(p.Segments[0].Generics) == 0
}

// IsEmpty is true for the zero path.
func (p Path) IsEmpty() bool { return len(p.Segments) == 0 }

// Last returns the final segment's identifier.
func (p Path) Last() Ident {
	if len(p.Segments) == 0 {
		return Ident{}
	}
	return p.Segments[len(p.Segments)-1].Ident
}

func (p Path) String() string {
	var b strings.Builder
	if p.Global {
		b.WriteString("::")
	}
	for i, seg := range p.Segments {
		if i > 0 {
			b.WriteString("::")
		}
		b.WriteString(seg.Ident.Name)
		if len(seg.Generics) > 0 {
			b.WriteString("::<..>")
		}
	}
	return b.String()
}
