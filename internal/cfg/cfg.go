// Package cfg evaluates conditional-compilation predicates and builds the
// cfg / cfg_attr attributes the expander attaches to generated nodes.
package cfg

import (
	"fmt"
	"sort"

	"syntex/internal/ast"
	"syntex/internal/diag"
	"syntex/internal/source"
)

const (
	AttrName     = "cfg"
	AttrAttrName = "cfg_attr"
)

// Error is a malformed predicate or attribute.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Set is the collection of active configuration options: bare words such as
// `test` and key/value pairs such as `feature = "serde"`.
type Set struct {
	words map[string]struct{}
	pairs map[string]map[string]struct{}
}

func NewSet() *Set {
	return &Set{
		words: make(map[string]struct{}),
		pairs: make(map[string]map[string]struct{}),
	}
}

// Add registers one option. Only words and `name = "string"` are allowed.
func (s *Set) Add(m *ast.MetaItem) error {
	switch m.Kind {
	case ast.MetaWord:
		s.words[m.Name] = struct{}{}
		return nil
	case ast.MetaNameValue:
		v, ok := m.ValueStr()
		if !ok {
			return &Error{Code: diag.CfgMalformedPredicate, Span: m.Span, Msg: fmt.Sprintf("cfg option `%s` must have a string value", m.Name)}
		}
		vals := s.pairs[m.Name]
		if vals == nil {
			vals = make(map[string]struct{})
			s.pairs[m.Name] = vals
		}
		vals[v] = struct{}{}
		return nil
	default:
		return &Error{Code: diag.CfgMalformedPredicate, Span: m.Span, Msg: fmt.Sprintf("cfg option `%s` cannot be a list", m.Name)}
	}
}

// Len is the number of active options.
func (s *Set) Len() int {
	n := len(s.words)
	for _, vals := range s.pairs {
		n += len(vals)
	}
	return n
}

// Items returns the options as meta items in a stable order.
func (s *Set) Items() []*ast.MetaItem {
	out := make([]*ast.MetaItem, 0, s.Len())
	for w := range s.words {
		out = append(out, ast.MetaWordItem(w, source.Dummy))
	}
	for name, vals := range s.pairs {
		for v := range vals {
			out = append(out, ast.MetaNameValueItem(name, ast.Lit{Kind: ast.LitStr, Value: v}, source.Dummy))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Matches evaluates a predicate: a word, `name = "value"`, or a combination
// with all(..), any(..) and not(..).
func (s *Set) Matches(pred *ast.MetaItem) (bool, error) {
	switch pred.Kind {
	case ast.MetaWord:
		_, ok := s.words[pred.Name]
		return ok, nil
	case ast.MetaNameValue:
		v, ok := pred.ValueStr()
		if !ok {
			return false, &Error{Code: diag.CfgMalformedPredicate, Span: pred.Span, Msg: fmt.Sprintf("cfg predicate `%s` must compare against a string", pred.Name)}
		}
		_, ok = s.pairs[pred.Name][v]
		return ok, nil
	}
	switch pred.Name {
	case "all":
		for _, sub := range pred.List {
			ok, err := s.Matches(sub)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case "any":
		for _, sub := range pred.List {
			ok, err := s.Matches(sub)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case "not":
		if len(pred.List) != 1 {
			return false, &Error{Code: diag.CfgMalformedPredicate, Span: pred.Span, Msg: "expected 1 cfg-pattern in `not`"}
		}
		ok, err := s.Matches(pred.List[0])
		return !ok, err
	default:
		return false, &Error{Code: diag.CfgUnknownOperator, Span: pred.Span, Msg: fmt.Sprintf("invalid predicate `%s`", pred.Name)}
	}
}

// IsCfg reports whether a is a `#[cfg(..)]` attribute.
func IsCfg(a *ast.Attribute) bool { return a.Name() == AttrName }

// Predicate extracts the single predicate of `#[cfg(PRED)]`.
func Predicate(a *ast.Attribute) (*ast.MetaItem, error) {
	if a.Meta.Kind != ast.MetaList || len(a.Meta.List) != 1 {
		return nil, &Error{Code: diag.CfgMalformedPredicate, Span: a.Span, Msg: "`cfg` expects exactly one predicate"}
	}
	return a.Meta.List[0], nil
}

// SplitAttr decomposes `#[cfg_attr(COND, SPEC)]`. ok is false for other
// attributes; err is set for a cfg_attr of the wrong shape.
func SplitAttr(a *ast.Attribute) (cond, spec *ast.MetaItem, ok bool, err error) {
	if a.Name() != AttrAttrName {
		return nil, nil, false, nil
	}
	if a.Meta.Kind != ast.MetaList || len(a.Meta.List) != 2 {
		return nil, nil, false, &Error{Code: diag.CfgMalformedAttr, Span: a.Span, Msg: "expected `#[cfg_attr(<cfg pattern>, <attr>)]`"}
	}
	return a.Meta.List[0], a.Meta.List[1], true, nil
}

// Attr builds `#[cfg(COND)]`.
func Attr(cond *ast.MetaItem, sp source.Span) *ast.Attribute {
	return &ast.Attribute{Meta: ast.MetaListItem(AttrName, sp, cond), Span: sp}
}

// AttrAttr builds `#[cfg_attr(COND, SPEC)]`.
func AttrAttr(cond, spec *ast.MetaItem, sp source.Span) *ast.Attribute {
	return &ast.Attribute{Meta: ast.MetaListItem(AttrAttrName, sp, cond, spec), Span: sp}
}
