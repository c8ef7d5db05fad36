// Package treeio is the wire format between a parser, the expander and a
// printer: a crate plus the source text its spans point into, encoded with
// msgpack.
package treeio

import (
	"syntex/internal/ast"
	"syntex/internal/hygiene"
	"syntex/internal/source"
)

// SchemaVersion is bumped whenever the node layout below changes.
const SchemaVersion uint16 = 1

// Ext is the file extension of encoded trees.
const Ext = ".stx"

// File is the top-level record of a tree file.
type File struct {
	Schema  uint16       `msgpack:"schema"`
	Tool    string       `msgpack:"tool,omitempty"`
	Crate   *crate       `msgpack:"crate"`
	Sources []sourceFile `msgpack:"sources,omitempty"`
}

// sourceFile is the text behind FileID i+1.
type sourceFile struct {
	Path    string `msgpack:"path"`
	Content []byte `msgpack:"content"`
}

type crate struct {
	Name  string  `msgpack:"name"`
	Attrs []*attr `msgpack:"attrs,omitempty"`
	Items []*node `msgpack:"items,omitempty"`
	Span  span    `msgpack:"span"`
}

type span struct {
	_msgpack struct{} `msgpack:",as_array"`
	File     uint32
	Start    uint32
	End      uint32
	Expn     uint32
}

type ident struct {
	_msgpack struct{} `msgpack:",as_array"`
	Name     string
	Ctxt     []uint32
	Span     span
}

type path struct {
	Global   bool      `msgpack:"g,omitempty"`
	Segments []segment `msgpack:"s"`
	Span     span      `msgpack:"sp"`
}

type segment struct {
	Ident    ident   `msgpack:"i"`
	Generics []*node `msgpack:"g,omitempty"`
}

type meta struct {
	Name string  `msgpack:"n"`
	Kind uint8   `msgpack:"k,omitempty"`
	List []*meta `msgpack:"l,omitempty"`
	Lit  *lit    `msgpack:"v,omitempty"`
	Span span    `msgpack:"s"`
}

type attr struct {
	Style uint8 `msgpack:"st,omitempty"`
	Meta  *meta `msgpack:"m"`
	Span  span  `msgpack:"s"`
}

type lit struct {
	_msgpack struct{} `msgpack:",as_array"`
	Kind     uint8
	Value    string
}

type mac struct {
	Path  path    `msgpack:"p"`
	Args  []*node `msgpack:"a,omitempty"` // token trees
	Delim uint8   `msgpack:"d"`
	Span  span    `msgpack:"s"`
}

// node is the wire form of every tree node: expressions, patterns, types,
// statements, blocks, items and their parts, token trees. K selects the
// variant, the other fields are used as each variant needs them.
type node struct {
	K     kind    `msgpack:"k"`
	ID    uint32  `msgpack:"i,omitempty"`
	Span  span    `msgpack:"s"`
	Name  *ident  `msgpack:"n,omitempty"`
	Str   string  `msgpack:"t,omitempty"` // operator, punctuation
	Num   uint32  `msgpack:"u,omitempty"` // invocation id, delimiter, token kind, statement style
	Vis   uint8   `msgpack:"vis,omitempty"`
	Flag  bool    `msgpack:"f,omitempty"` // mutable, semicolon
	Lit   *lit    `msgpack:"v,omitempty"`
	Attrs []*attr `msgpack:"a,omitempty"`
	Path  *path   `msgpack:"p,omitempty"`
	Mac   *mac    `msgpack:"m,omitempty"`
	Kids  []*node `msgpack:"c,omitempty"` // fixed positions, nil allowed
	List  []*node `msgpack:"l,omitempty"` // sequences
}

type kind uint8

const (
	kInvalid kind = iota

	kLitExpr
	kPathExpr
	kCallExpr
	kBinaryExpr
	kUnaryExpr
	kBlockExpr
	kTupleExpr
	kIfExpr
	kMacExpr
	kPlaceholderExpr
	kErrExpr

	kIdentPat
	kWildPat
	kLitPat
	kTuplePat
	kPathPat
	kMacPat
	kPlaceholderPat

	kPathTy
	kRefTy
	kTupleTy
	kInferTy
	kMacTy
	kPlaceholderTy

	kLetStmt
	kExprStmt
	kItemStmt
	kMacStmt
	kPlaceholderStmt

	kBlock
	kParam
	kField
	kVariant

	kFnItem
	kStructItem
	kEnumItem
	kConstItem
	kTypeItem
	kUseItem
	kModItem
	kTraitDecl
	kImplDecl
	kMacItem
	kPlaceholderItem

	kTraitMethod
	kTraitConst
	kTraitType
	kTraitMac
	kTraitPlaceholder

	kImplMethod
	kImplConst
	kImplType
	kImplMac
	kImplPlaceholder

	kToken
	kDelimited
)

func fromSpan(sp source.Span) span {
	return span{File: uint32(sp.File), Start: sp.Start, End: sp.End, Expn: uint32(sp.Expn)}
}

func (s span) toSpan() source.Span {
	return source.Span{File: source.FileID(s.File), Start: s.Start, End: s.End, Expn: source.ExpnID(s.Expn)}
}

func fromIdent(id ast.Ident) ident {
	var ctxt []uint32
	if len(id.Ctxt) > 0 {
		ctxt = make([]uint32, len(id.Ctxt))
		for i, m := range id.Ctxt {
			ctxt[i] = uint32(m)
		}
	}
	return ident{Name: id.Name, Ctxt: ctxt, Span: fromSpan(id.Span)}
}

func (id ident) toIdent() ast.Ident {
	var chain hygiene.Chain
	if len(id.Ctxt) > 0 {
		chain = make(hygiene.Chain, len(id.Ctxt))
		for i, m := range id.Ctxt {
			chain[i] = hygiene.Mark(m)
		}
	}
	return ast.Ident{Name: id.Name, Ctxt: chain, Span: id.Span.toSpan()}
}
