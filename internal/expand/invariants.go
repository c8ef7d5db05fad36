package expand

import (
	"fmt"

	"syntex/internal/ast"
	"syntex/internal/diag"
	"syntex/internal/source"
)

// checker walks the final tree: no placeholder may survive, and no node id
// handed out by this run may appear twice.
type checker struct {
	ast.FoldBase
	assigned map[ast.NodeID]struct{}
	seen     map[ast.NodeID]struct{}
	err      string
	span     source.Span
}

func (x *expander) checkInvariants(c *ast.Crate) error {
	ch := &checker{assigned: x.assigned, seen: make(map[ast.NodeID]struct{})}
	ch.Self = ch
	ast.WalkCrate(ch, c)
	if ch.err == "" {
		return nil
	}
	return x.fatal(ErrInvariant, diag.ExpInvariant, ch.span, ch.err)
}

func (ch *checker) fail(n ast.Node, msg string) {
	if ch.err == "" {
		ch.err = msg
		ch.span = n.NodeSpan()
	}
}

func (ch *checker) placeholder(n ast.Node) {
	if id, ok := ast.IsPlaceholder(n); ok {
		ch.fail(n, fmt.Sprintf("placeholder of invocation #%d left in the expanded tree", id))
	}
}

func (ch *checker) FoldNodeID(id ast.NodeID) ast.NodeID {
	if _, ours := ch.assigned[id]; !ours {
		return id
	}
	if _, dup := ch.seen[id]; dup && ch.err == "" {
		ch.err = fmt.Sprintf("node id %d assigned twice", id)
	}
	ch.seen[id] = struct{}{}
	return id
}

func (ch *checker) FoldExpr(e ast.Expr) ast.Expr {
	ch.placeholder(e)
	return ast.WalkExpr(ch, e)
}

func (ch *checker) FoldPat(p ast.Pat) ast.Pat {
	ch.placeholder(p)
	return ast.WalkPat(ch, p)
}

func (ch *checker) FoldTy(t ast.Ty) ast.Ty {
	ch.placeholder(t)
	return ast.WalkTy(ch, t)
}

func (ch *checker) FoldStmt(s ast.Stmt) []ast.Stmt {
	ch.placeholder(s)
	return ast.WalkStmt(ch, s)
}

func (ch *checker) FoldItem(it *ast.Item) []*ast.Item {
	ch.placeholder(it)
	return []*ast.Item{ast.WalkItem(ch, it)}
}

func (ch *checker) FoldTraitItem(it *ast.TraitItem) []*ast.TraitItem {
	ch.placeholder(it)
	return []*ast.TraitItem{ast.WalkTraitItem(ch, it)}
}

func (ch *checker) FoldImplItem(it *ast.ImplItem) []*ast.ImplItem {
	ch.placeholder(it)
	return []*ast.ImplItem{ast.WalkImplItem(ch, it)}
}
