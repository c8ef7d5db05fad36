package format

import (
	"strconv"

	"syntex/internal/ast"
)

// Options controls rendering.
type Options struct {
	IndentWidth int
	UseTabs     bool
	// Marks appends the hygiene chain to every identifier: `x#2#5`.
	Marks bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	w   *lineWriter
	opt Options
}

func newPrinter(opt Options) *printer {
	opt = opt.withDefaults()
	return &printer{w: newLineWriter(opt), opt: opt}
}

// Crate renders the whole tree: crate-level attributes, then each item
// separated by a blank line.
func Crate(c *ast.Crate, opt Options) []byte {
	p := newPrinter(opt)
	if c == nil {
		return nil
	}
	for _, a := range c.Attrs {
		p.attr(a)
		p.w.Newline()
	}
	for i, it := range c.Items {
		if i > 0 || len(c.Attrs) > 0 {
			p.w.BlankLine()
		}
		p.item(it)
		p.w.Newline()
	}
	return p.w.Bytes()
}

// Item renders a single item.
func Item(it *ast.Item, opt Options) string {
	p := newPrinter(opt)
	p.item(it)
	return string(p.w.Bytes())
}

// Expr renders a single expression on one line where possible.
func Expr(e ast.Expr, opt Options) string {
	p := newPrinter(opt)
	p.expr(e)
	return string(p.w.Bytes())
}

// Stmt renders a single statement.
func Stmt(s ast.Stmt, opt Options) string {
	p := newPrinter(opt)
	p.stmt(s)
	return string(p.w.Bytes())
}

// Fragment renders an expansion result, one node per line for sequence kinds.
func Fragment(fr ast.Fragment, opt Options) string {
	p := newPrinter(opt)
	switch f := fr.(type) {
	case *ast.OptExprFragment:
		if f.Expr != nil {
			p.expr(f.Expr)
		}
	case *ast.ExprFragment:
		p.expr(f.Expr)
	case *ast.PatFragment:
		p.pat(f.Pat)
	case *ast.TyFragment:
		p.ty(f.Ty)
	case *ast.StmtsFragment:
		for _, s := range f.Stmts {
			p.stmt(s)
			p.w.Newline()
		}
	case *ast.ItemsFragment:
		for _, it := range f.Items {
			p.item(it)
			p.w.Newline()
		}
	case *ast.TraitItemsFragment:
		for _, it := range f.Items {
			p.traitItem(it)
			p.w.Newline()
		}
	case *ast.ImplItemsFragment:
		for _, it := range f.Items {
			p.implItem(it)
			p.w.Newline()
		}
	}
	return string(p.w.Bytes())
}

func (p *printer) ident(id ast.Ident) {
	if p.opt.Marks {
		p.w.WriteString(id.String())
		return
	}
	p.w.WriteString(id.Name)
}

func (p *printer) path(pth ast.Path, turbofish bool) {
	if pth.Global {
		p.w.WriteString("::")
	}
	for i, seg := range pth.Segments {
		if i > 0 {
			p.w.WriteString("::")
		}
		p.ident(seg.Ident)
		if len(seg.Generics) == 0 {
			continue
		}
		if turbofish {
			p.w.WriteString("::")
		}
		p.w.WriteString("<")
		for j, g := range seg.Generics {
			if j > 0 {
				p.w.WriteString(", ")
			}
			p.ty(g)
		}
		p.w.WriteString(">")
	}
}

func (p *printer) placeholder(inv ast.InvocationID) {
	p.w.WriteString("$invocation(" + strconv.FormatUint(uint64(inv), 10) + ")")
}

func (p *printer) attr(a *ast.Attribute) {
	p.w.WriteString(a.String())
}

// outerAttrs prints each attribute on its own line.
func (p *printer) outerAttrs(attrs []*ast.Attribute) {
	for _, a := range attrs {
		p.attr(a)
		p.w.Newline()
	}
}

// inlineAttrs prints attributes before an expression or field on the same line.
func (p *printer) inlineAttrs(attrs []*ast.Attribute) {
	for _, a := range attrs {
		p.attr(a)
		p.w.Space()
	}
}

func (p *printer) mac(m *ast.Mac) {
	p.path(m.Path, false)
	p.w.WriteString("!")
	if m.Delim == ast.DelimBrace {
		p.w.Space()
	}
	p.w.WriteString(m.Delim.Open())
	p.tokens(m.Args)
	p.w.WriteString(m.Delim.Close())
}

// tokens follows ast.TokensString spacing but honours Marks.
func (p *printer) tokens(tts []ast.TokenTree) {
	for i, tt := range tts {
		switch t := tt.(type) {
		case *ast.Token:
			if i > 0 && !(t.Kind == ast.TokPunct && (t.Punct == "," || t.Punct == ";")) {
				p.w.WriteString(" ")
			}
			if t.Kind == ast.TokIdent {
				p.ident(t.Ident)
			} else {
				p.w.WriteString(t.Text())
			}
		case *ast.Delimited:
			if i > 0 {
				p.w.WriteString(" ")
			}
			p.w.WriteString(t.Delim.Open())
			p.tokens(t.Trees)
			p.w.WriteString(t.Delim.Close())
		}
	}
}
