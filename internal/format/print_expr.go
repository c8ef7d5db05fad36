package format

import "syntex/internal/ast"

func (p *printer) expr(e ast.Expr) {
	if e == nil {
		return
	}
	p.inlineAttrs(ast.ExprAttrs(e))
	switch x := e.(type) {
	case *ast.LitExpr:
		p.w.WriteString(x.Lit.Source())
	case *ast.PathExpr:
		p.path(x.Path, true)
	case *ast.CallExpr:
		p.operand(x.Fn)
		p.w.WriteString("(")
		p.exprList(x.Args)
		p.w.WriteString(")")
	case *ast.BinaryExpr:
		p.operand(x.Left)
		p.w.WriteString(" " + x.Op + " ")
		p.operand(x.Right)
	case *ast.UnaryExpr:
		p.w.WriteString(x.Op)
		p.operand(x.Operand)
	case *ast.BlockExpr:
		p.block(x.Block)
	case *ast.TupleExpr:
		p.w.WriteString("(")
		p.exprList(x.Elems)
		if len(x.Elems) == 1 {
			p.w.WriteString(",")
		}
		p.w.WriteString(")")
	case *ast.IfExpr:
		p.w.WriteString("if ")
		p.expr(x.Cond)
		p.w.Space()
		p.block(x.Then)
		if x.Else != nil {
			p.w.WriteString(" else ")
			p.expr(x.Else)
		}
	case *ast.MacExpr:
		p.mac(x.Mac)
	case *ast.PlaceholderExpr:
		p.placeholder(x.Inv)
	case *ast.ErrExpr:
		p.w.WriteString("$error")
	}
}

// operand wraps compound operands so the printed precedence is unambiguous.
func (p *printer) operand(e ast.Expr) {
	switch e.(type) {
	case *ast.BinaryExpr, *ast.UnaryExpr, *ast.IfExpr:
		p.w.WriteString("(")
		p.expr(e)
		p.w.WriteString(")")
	default:
		p.expr(e)
	}
}

func (p *printer) exprList(es []ast.Expr) {
	first := true
	for _, e := range es {
		if e == nil {
			continue
		}
		if !first {
			p.w.WriteString(", ")
		}
		first = false
		p.expr(e)
	}
}

func (p *printer) block(b *ast.Block) {
	if b == nil || len(b.Stmts) == 0 {
		p.w.WriteString("{}")
		return
	}
	p.w.WriteString("{")
	p.w.Newline()
	p.w.IndentPush()
	for _, s := range b.Stmts {
		p.stmt(s)
		p.w.Newline()
	}
	p.w.IndentPop()
	p.w.WriteString("}")
}

func (p *printer) stmt(s ast.Stmt) {
	switch x := s.(type) {
	case *ast.LetStmt:
		p.inlineAttrs(x.Attrs)
		p.w.WriteString("let ")
		p.pat(x.Pat)
		p.typed(x.Ty)
		if x.Init != nil {
			p.w.WriteString(" = ")
			p.expr(x.Init)
		}
		p.w.WriteString(";")
	case *ast.ExprStmt:
		p.expr(x.Expr)
		if x.Semi {
			p.w.WriteString(";")
		}
	case *ast.ItemStmt:
		p.item(x.Item)
	case *ast.MacStmt:
		p.inlineAttrs(x.Attrs)
		p.mac(x.Mac)
		if x.Style == ast.MacStmtSemicolon {
			p.w.WriteString(";")
		}
	case *ast.PlaceholderStmt:
		p.placeholder(x.Inv)
		if x.Semi {
			p.w.WriteString(";")
		}
	}
}

func (p *printer) pat(pt ast.Pat) {
	switch x := pt.(type) {
	case *ast.IdentPat:
		if x.Mutable {
			p.w.WriteString("mut ")
		}
		p.ident(x.Name)
	case *ast.WildPat:
		p.w.WriteString("_")
	case *ast.LitPat:
		p.w.WriteString(x.Lit.Source())
	case *ast.TuplePat:
		p.w.WriteString("(")
		for i, el := range x.Elems {
			if i > 0 {
				p.w.WriteString(", ")
			}
			p.pat(el)
		}
		if len(x.Elems) == 1 {
			p.w.WriteString(",")
		}
		p.w.WriteString(")")
	case *ast.PathPat:
		p.path(x.Path, true)
	case *ast.MacPat:
		p.mac(x.Mac)
	case *ast.PlaceholderPat:
		p.placeholder(x.Inv)
	}
}

func (p *printer) ty(t ast.Ty) {
	switch x := t.(type) {
	case *ast.PathTy:
		p.path(x.Path, false)
	case *ast.RefTy:
		p.w.WriteString("&")
		if x.Mutable {
			p.w.WriteString("mut ")
		}
		p.ty(x.Elem)
	case *ast.TupleTy:
		p.w.WriteString("(")
		for i, el := range x.Elems {
			if i > 0 {
				p.w.WriteString(", ")
			}
			p.ty(el)
		}
		if len(x.Elems) == 1 {
			p.w.WriteString(",")
		}
		p.w.WriteString(")")
	case *ast.InferTy:
		p.w.WriteString("_")
	case *ast.MacTy:
		p.mac(x.Mac)
	case *ast.PlaceholderTy:
		p.placeholder(x.Inv)
	}
}
