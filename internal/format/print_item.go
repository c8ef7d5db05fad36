package format

import "syntex/internal/ast"

func (p *printer) vis(v ast.Visibility) {
	if v == ast.VisPublic {
		p.w.WriteString("pub ")
	}
}

func (p *printer) item(it *ast.Item) {
	p.outerAttrs(it.Attrs)
	p.vis(it.Vis)
	switch k := it.Kind.(type) {
	case *ast.FnItem:
		p.fnSig(it.Name, k.Decl)
		p.w.Space()
		p.block(k.Body)
	case *ast.StructItem:
		p.w.WriteString("struct ")
		p.ident(it.Name)
		p.fields(k.Fields, true)
	case *ast.EnumItem:
		p.w.WriteString("enum ")
		p.ident(it.Name)
		p.w.WriteString(" {")
		p.w.Newline()
		p.w.IndentPush()
		for _, v := range k.Variants {
			p.outerAttrs(v.Attrs)
			p.ident(v.Name)
			if len(v.Fields) > 0 {
				p.fields(v.Fields, false)
			}
			p.w.WriteString(",")
			p.w.Newline()
		}
		p.w.IndentPop()
		p.w.WriteString("}")
	case *ast.ConstItem:
		p.w.WriteString("const ")
		p.ident(it.Name)
		p.typed(k.Ty)
		p.w.WriteString(" = ")
		p.expr(k.Value)
		p.w.WriteString(";")
	case *ast.TypeItem:
		p.w.WriteString("type ")
		p.ident(it.Name)
		p.w.WriteString(" = ")
		p.ty(k.Ty)
		p.w.WriteString(";")
	case *ast.UseItem:
		p.w.WriteString("use ")
		p.path(k.Path, false)
		p.w.WriteString(";")
	case *ast.ModItem:
		p.w.WriteString("mod ")
		p.ident(it.Name)
		p.w.WriteString(" {")
		p.w.Newline()
		p.w.IndentPush()
		for i, sub := range k.Items {
			if i > 0 {
				p.w.BlankLine()
			}
			p.item(sub)
			p.w.Newline()
		}
		p.w.IndentPop()
		p.w.WriteString("}")
	case *ast.TraitDecl:
		p.w.WriteString("trait ")
		p.ident(it.Name)
		p.w.WriteString(" {")
		p.w.Newline()
		p.w.IndentPush()
		for _, ti := range k.Items {
			p.traitItem(ti)
			p.w.Newline()
		}
		p.w.IndentPop()
		p.w.WriteString("}")
	case *ast.ImplDecl:
		p.w.WriteString("impl ")
		if k.Trait != nil {
			p.path(*k.Trait, false)
			p.w.WriteString(" for ")
		}
		p.ty(k.Self)
		p.w.WriteString(" {")
		p.w.Newline()
		p.w.IndentPush()
		for _, ii := range k.Items {
			p.implItem(ii)
			p.w.Newline()
		}
		p.w.IndentPop()
		p.w.WriteString("}")
	case *ast.MacItem:
		p.macItem(k.Mac, it.Name)
	case *ast.PlaceholderItem:
		p.placeholder(k.Inv)
	}
}

// macItem prints `name! ident (..);`; brace-delimited invocations take no `;`.
func (p *printer) macItem(m *ast.Mac, name ast.Ident) {
	p.path(m.Path, false)
	p.w.WriteString("!")
	if !name.IsInvalid() {
		p.w.WriteString(" ")
		p.ident(name)
	}
	if m.Delim == ast.DelimBrace || !name.IsInvalid() {
		p.w.Space()
	}
	p.w.WriteString(m.Delim.Open())
	p.tokens(m.Args)
	p.w.WriteString(m.Delim.Close())
	if m.Delim != ast.DelimBrace {
		p.w.WriteString(";")
	}
}

func (p *printer) fnSig(name ast.Ident, d ast.FnDecl) {
	p.w.WriteString("fn ")
	p.ident(name)
	p.w.WriteString("(")
	for i, prm := range d.Params {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.pat(prm.Pat)
		p.typed(prm.Ty)
	}
	p.w.WriteString(")")
	if d.Ret != nil {
		p.w.WriteString(" -> ")
		p.ty(d.Ret)
	}
}

// typed prints `: T` when t is present.
func (p *printer) typed(t ast.Ty) {
	if t == nil {
		return
	}
	p.w.WriteString(": ")
	p.ty(t)
}

// fields prints a struct or variant body. A nil list on a struct is a unit
// struct; tuple fields have no names.
func (p *printer) fields(fs []*ast.Field, isStruct bool) {
	if fs == nil {
		if isStruct {
			p.w.WriteString(";")
		}
		return
	}
	if len(fs) > 0 && fs[0].Name.IsInvalid() {
		p.w.WriteString("(")
		for i, f := range fs {
			if i > 0 {
				p.w.WriteString(", ")
			}
			p.inlineAttrs(f.Attrs)
			p.vis(f.Vis)
			p.ty(f.Ty)
		}
		p.w.WriteString(")")
		if isStruct {
			p.w.WriteString(";")
		}
		return
	}
	if len(fs) == 0 {
		p.w.WriteString(" {}")
		return
	}
	p.w.WriteString(" {")
	p.w.Newline()
	p.w.IndentPush()
	for _, f := range fs {
		p.outerAttrs(f.Attrs)
		p.vis(f.Vis)
		p.ident(f.Name)
		p.typed(f.Ty)
		p.w.WriteString(",")
		p.w.Newline()
	}
	p.w.IndentPop()
	p.w.WriteString("}")
}

func (p *printer) traitItem(it *ast.TraitItem) {
	p.outerAttrs(it.Attrs)
	switch k := it.Kind.(type) {
	case *ast.TraitMethod:
		p.fnSig(it.Name, k.Decl)
		if k.Body == nil {
			p.w.WriteString(";")
			return
		}
		p.w.Space()
		p.block(k.Body)
	case *ast.TraitConst:
		p.w.WriteString("const ")
		p.ident(it.Name)
		p.typed(k.Ty)
		if k.Default != nil {
			p.w.WriteString(" = ")
			p.expr(k.Default)
		}
		p.w.WriteString(";")
	case *ast.TraitType:
		p.w.WriteString("type ")
		p.ident(it.Name)
		p.w.WriteString(";")
	case *ast.TraitMac:
		p.macItem(k.Mac, ast.Ident{})
	case *ast.TraitPlaceholder:
		p.placeholder(k.Inv)
	}
}

func (p *printer) implItem(it *ast.ImplItem) {
	p.outerAttrs(it.Attrs)
	p.vis(it.Vis)
	switch k := it.Kind.(type) {
	case *ast.ImplMethod:
		p.fnSig(it.Name, k.Decl)
		p.w.Space()
		p.block(k.Body)
	case *ast.ImplConst:
		p.w.WriteString("const ")
		p.ident(it.Name)
		p.typed(k.Ty)
		p.w.WriteString(" = ")
		p.expr(k.Value)
		p.w.WriteString(";")
	case *ast.ImplType:
		p.w.WriteString("type ")
		p.ident(it.Name)
		p.w.WriteString(" = ")
		p.ty(k.Ty)
		p.w.WriteString(";")
	case *ast.ImplMac:
		p.macItem(k.Mac, ast.Ident{})
	case *ast.ImplPlaceholder:
		p.placeholder(k.Inv)
	}
}
