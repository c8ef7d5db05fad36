package expand

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"syntex/internal/ast"
	"syntex/internal/cfg"
	"syntex/internal/diag"
	"syntex/internal/ext"
	"syntex/internal/hygiene"
	"syntex/internal/resolve"
	"syntex/internal/trace"
)

// dispatch expands one invocation. final reports that the fragment needs
// no further collection (pass-through and error results).
func (x *expander) dispatch(inv *Invocation) (fr ast.Fragment, final bool, err error) {
	if inv.Depth > x.cfg.RecursionLimit {
		msg := fmt.Sprintf("recursion limit reached while expanding `%s`", inv.Display())
		diag.ReportError(x.reporter, diag.ExpRecursionLimit, inv.Span, msg).
			WithNote(inv.Span, "consider raising the limit with --recursion-limit (currently "+strconv.Itoa(x.cfg.RecursionLimit)+")").
			Emit()
		return nil, false, &FatalError{Code: diag.ExpRecursionLimit, Span: inv.Span, Msg: msg, Err: ErrRecursionLimit}
	}
	trace.Point(x.tracer, trace.ScopeInvocation, inv.Display(), fmt.Sprintf("#%d depth %d", inv.ID, inv.Depth))
	if inv.Origin == OriginAttr {
		return x.dispatchAttr(inv)
	}
	return x.dispatchBang(inv)
}

// enter mints the invocation's mark and expansion record and installs them
// in the extension context until the returned func runs.
func (x *expander) enter(inv *Invocation, callee string, format hygiene.Format) (ext.ExpansionData, func()) {
	mark := x.marks.Fresh()
	x.stats.Marks++
	expn := x.expns.Push(hygiene.ExpnInfo{Mark: mark, CallSite: inv.Span, Callee: callee, Format: format})
	data := ext.ExpansionData{Mark: mark, Depth: inv.Depth, Module: inv.Scope, Expn: expn, Callee: callee}
	prev := x.cx.Enter(data)
	return data, func() { x.cx.Leave(prev) }
}

// protect runs an extension. A panicking extension is reported as an
// extension error instead of tearing the run down.
func (x *expander) protect(inv *Invocation, name string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			x.error(diag.ExpExtensionError, inv.Span, fmt.Sprintf("extension `%s` panicked: %v", name, r)).Emit()
			ok = false
		}
	}()
	fn()
	return true
}

func (x *expander) failed(inv *Invocation) ast.Fragment {
	x.stats.Failed++
	return inv.Kind.Dummy(inv.Span)
}

func (x *expander) dispatchBang(inv *Invocation) (ast.Fragment, bool, error) {
	x.stats.Bang++
	x.checkBangAttrs(inv)
	e, err := x.res.Resolve(inv.scopeKey(), inv.Mac.Path)
	if err != nil {
		return x.unresolved(inv, err), true, nil
	}
	name := e.Name
	switch {
	case e.Kind.IsAttr():
		x.error(diag.ExpAttrOnlyExtension, inv.Span, fmt.Sprintf("`%s` can only be used in attributes", name)).Emit()
		return x.failed(inv), true, nil
	case e.Kind == ext.KindFunctionLike && inv.Ident != nil:
		x.error(diag.ExpUnexpectedIdent, inv.Span,
			fmt.Sprintf("extension %s! expects no ident argument, given '%s'", name, inv.Ident.Name)).Emit()
		return x.failed(inv), true, nil
	case e.Kind == ext.KindIdentTagged && inv.Ident == nil:
		x.error(diag.ExpMissingIdent, inv.Span, fmt.Sprintf("extension %s! expects an ident argument", name)).Emit()
		return x.failed(inv), true, nil
	}
	x.stats.Hit(name, inv.Depth)

	data, leave := x.enter(inv, name, hygiene.FormatBang)
	var res ext.Result
	ok := x.protect(inv, name, func() {
		if e.Kind == ext.KindIdentTagged {
			res = e.IdentTagged.Expand(x.cx, inv.Span, *inv.Ident, inv.Mac.Args)
			return
		}
		res = e.FunctionLike.Expand(x.cx, inv.Span, inv.Mac.Args)
	})
	leave()
	if !ok {
		return x.failed(inv), true, nil
	}

	fr, ok := makeFragment(inv.Kind, res)
	if !ok {
		what := inv.Kind.Name()
		x.error(diag.ExpResultKindMismatch, inv.Span,
			fmt.Sprintf("non-%s extension in %s position: %s", what, what, name)).Emit()
		return x.failed(inv), true, nil
	}
	if hasHole(fr) {
		x.error(diag.ExpResultKindMismatch, inv.Span,
			fmt.Sprintf("extension %s returned a nil node in %s position", name, inv.Kind.Name())).Emit()
		return x.failed(inv), true, nil
	}
	return newMarker(data.Mark, data.Expn, x.cfg.Monotonic).fragment(fr), false, nil
}

// checkBangAttrs warns about extension attributes written on a call-form
// invocation. They stay on the node as written and are never run.
func (x *expander) checkBangAttrs(inv *Invocation) {
	for _, a := range inv.Attrs {
		name := a.Name()
		if name != deriveAttr {
			e, ok := x.res.FindExtension(inv.scopeKey(), name)
			if !ok || !e.Kind.IsAttr() {
				continue
			}
		}
		sp := a.Span
		if sp.IsDummy() {
			sp = inv.Span
		}
		x.warn(diag.ExpIgnoredAttr, sp,
			fmt.Sprintf("attribute `#[%s]` on `%s` is not expanded", name, inv.Display())).
			WithNote(inv.Span, "attribute extensions apply to items, not to invocations").
			Emit()
	}
}

// unresolved handles a bang invocation no extension answers.
func (x *expander) unresolved(inv *Invocation, err error) ast.Fragment {
	if x.cfg.Policy == PolicyPermissive {
		x.stats.PassedThrough++
		trace.Point(x.tracer, trace.ScopeInvocation, inv.Display(), "passed through")
		return inv.Orig
	}
	x.stats.Failed++
	var rerr *resolve.Error
	if !errors.As(err, &rerr) {
		x.error(diag.ExpUnresolvedExtension, inv.Span, err.Error()).Emit()
		return inv.Kind.Dummy(inv.Span)
	}
	code := diag.ExpUnresolvedExtension
	if rerr.Kind == resolve.ErrMalformedPath {
		code = diag.ExpMalformedInvocation
	}
	rb := x.error(code, inv.Span, rerr.Error())
	if len(rerr.Suggestions) > 0 {
		rb = rb.WithNote(inv.Mac.Path.Span, fmt.Sprintf("did you mean `%s!`?", rerr.Suggestions[0]))
	}
	for _, s := range rerr.Suggestions {
		rb = rb.WithFix("replace with `"+s+"!`", diag.FixEdit{Span: inv.Mac.Path.Span, NewText: s})
	}
	rb.Emit()
	return inv.Kind.Dummy(inv.Span)
}

func (x *expander) dispatchAttr(inv *Invocation) (ast.Fragment, bool, error) {
	x.stats.Attr++
	name := inv.Spec.Name
	if name == deriveAttr {
		x.stats.Hit(deriveAttr, inv.Depth)
		_, leave := x.enter(inv, deriveAttr, hygiene.FormatAttr)
		fr := x.expandDerive(inv)
		leave()
		return fr, false, nil
	}

	e, ok := x.res.FindExtension(inv.scopeKey(), name)
	if !ok || !e.Kind.IsAttr() {
		return nil, false, x.fatal(ErrInvariant, diag.ExpInvariant, inv.Span,
			fmt.Sprintf("attribute `%s` was collected but no longer resolves", name))
	}
	x.stats.Hit(name, inv.Depth)

	data, leave := x.enter(inv, name, hygiene.FormatAttr)
	defer leave()
	if e.Kind == ext.KindDecorator {
		nodes := append([]ast.Annotatable{inv.Item}, x.callDecorator(inv, e, inv.Spec, inv.Item)...)
		return singleFragment(inv.Kind, nodes...), false, nil
	}

	var out []ast.Annotatable
	if !x.protect(inv, name, func() { out = e.Modifier.Expand(x.cx, inv.Span, inv.Spec, inv.Item) }) {
		x.stats.Failed++
		return singleFragment(inv.Kind, inv.Item), false, nil
	}
	if len(out) != 1 || out[0] == nil {
		return nil, false, x.fatal(ErrModifierArity, diag.ExpModifierArity, inv.Span,
			fmt.Sprintf("modifier `%s` must produce exactly one node, produced %d", name, len(out)))
	}
	if got := ast.AnnotatableKind(out[0]); got != inv.Kind {
		x.error(diag.ExpResultKindMismatch, inv.Span,
			fmt.Sprintf("modifier `%s` produced a %s in %s position", name, got.Name(), inv.Kind.Name())).Emit()
		x.stats.Failed++
		return singleFragment(inv.Kind, inv.Item), false, nil
	}
	node := out[0]
	if replaces(inv.Item, node) {
		node = newMarker(data.Mark, data.Expn, x.cfg.Monotonic).annotatable(node)
	}
	return singleFragment(inv.Kind, node), false, nil
}

// callDecorator runs a decorator and returns its marked siblings. Siblings
// of a conditional invocation carry `#[cfg(C)]`.
func (x *expander) callDecorator(inv *Invocation, e *ext.Extension, meta *ast.MetaItem, item ast.Annotatable) []ast.Annotatable {
	var out []ast.Annotatable
	push := func(a ast.Annotatable) { out = append(out, a) }
	if !x.protect(inv, e.Name, func() { e.Decorator.Expand(x.cx, inv.Span, meta, item, push) }) {
		x.stats.Failed++
		return nil
	}
	data := x.cx.Current()
	m := newMarker(data.Mark, data.Expn, x.cfg.Monotonic)
	siblings := make([]ast.Annotatable, 0, len(out))
	for _, a := range out {
		if a == nil {
			continue
		}
		if got := ast.AnnotatableKind(a); got != inv.Kind {
			x.error(diag.ExpResultKindMismatch, inv.Span,
				fmt.Sprintf("decorator `%s` produced a %s in %s position", e.Name, got.Name(), inv.Kind.Name())).Emit()
			continue
		}
		a = m.annotatable(a)
		if inv.Cond != nil {
			a = a.WithAttributes(append(slices.Clone(a.Attributes()), cfg.Attr(inv.Cond, inv.Span)))
		}
		siblings = append(siblings, a)
	}
	return siblings
}
