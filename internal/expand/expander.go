package expand

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"syntex/internal/ast"
	"syntex/internal/cfg"
	"syntex/internal/diag"
	"syntex/internal/ext"
	"syntex/internal/hygiene"
	"syntex/internal/observ"
	"syntex/internal/resolve"
	"syntex/internal/source"
	"syntex/internal/trace"
)

// Result is the outcome of a run. Crate is nil only when Run returns a
// FatalError.
type Result struct {
	Crate       *ast.Crate
	Diagnostics *diag.Bag
	Expns       *hygiene.ExpnTable
	Stats       observ.ExpansionStats
	Timings     observ.Report
}

type expander struct {
	cfg          Config
	res          resolve.Resolver
	reporter     *diag.CountingReporter
	cfgSet       *cfg.Set
	cx           *ext.ExtCtxt
	expns        *hygiene.ExpnTable
	marks        hygiene.Counter
	nextInv      ast.InvocationID
	customDerive bool
	assigned     map[ast.NodeID]struct{}
	stats        observ.ExpansionStats

	tracer trace.Tracer
	span   uint64
}

// Run expands every invocation in crate using the extensions of reg and
// returns the expanded copy. The registry is frozen by the call.
//
// Recoverable problems are reported to Result.Diagnostics. With
// PolicyStrict any error diagnostic makes Run return ErrExpansionFailed
// alongside the result. Recursion-limit overflow, a modifier that does not
// return exactly one node, and internal inconsistencies abort the run with a
// *FatalError.
func Run(ctx context.Context, crate *ast.Crate, reg *ext.Registry, conf Config) (*Result, error) {
	conf = conf.normalized()
	if reg == nil {
		reg = ext.NewRegistry()
	}
	reg.Freeze()

	bag := diag.NewBag(conf.MaxDiagnostics)
	x := &expander{
		cfg:      conf,
		res:      conf.Resolver,
		reporter: &diag.CountingReporter{Next: diag.NewDedupReporter(diag.BagReporter{Bag: bag})},
		cfgSet:   cfg.NewSet(),
		expns:    &hygiene.ExpnTable{},
		tracer:   trace.FromContext(ctx),
	}
	for _, m := range slices.Concat(conf.Cfg, reg.Cfg()) {
		if err := x.cfgSet.Add(m); err != nil {
			x.reportCfgError(err, m.Span)
		}
	}
	if x.res == nil {
		x.res = resolve.New(conf.Resolution, reg)
	}
	x.cx = ext.NewExtCtxt(conf.CrateName, x.reporter, x.cfgSet, x.expns)
	res := &Result{Diagnostics: bag, Expns: x.expns}

	timer := observ.NewTimer()
	run := trace.Begin(x.tracer, trace.ScopePass, "expand", trace.CurrentSpan(ctx).SpanID)
	x.span = run.ID()
	defer func() {
		res.Stats = x.stats
		res.Timings = timer.Report()
		run.WithExtra("invocations", strconv.Itoa(x.stats.Invocations)).End("")
	}()

	crate = withCrateAttrs(crate, reg.Attrs())
	x.customDerive = conf.CustomDerive || hasFeature(crate.Attrs, "custom_derive")

	stop := timer.Start("pre-passes")
	for _, p := range reg.PrePasses() {
		crate = x.runPass(p, crate)
	}
	stop(strconv.Itoa(len(reg.PrePasses())) + " passes")

	stop = timer.Start("expand")
	out, err := x.expandCrate(crate)
	stop(strconv.Itoa(x.stats.Invocations) + " invocations")
	if err != nil {
		return res, err
	}

	stop = timer.Start("squash")
	out = squashDerives(out)
	stop("")

	stop = timer.Start("post-passes")
	for _, p := range reg.PostPasses() {
		out = x.runPass(p, out)
	}
	stop(strconv.Itoa(len(reg.PostPasses())) + " passes")

	stop = timer.Start("checks")
	err = x.checkInvariants(out)
	stop("")
	if err != nil {
		return res, err
	}

	res.Crate = out
	if conf.Policy == PolicyStrict && bag.HasErrors() {
		return res, fmt.Errorf("%w: %d error(s)", ErrExpansionFailed, bag.ErrorCount())
	}
	return res, nil
}

func (x *expander) runPass(p ext.Pass, crate *ast.Crate) *ast.Crate {
	sp := trace.Begin(x.tracer, trace.ScopePass, p.Name, x.span)
	out := p.Run(crate)
	sp.End("")
	if out == nil {
		return crate
	}
	return out
}

// expandCrate expands the crate's items as the root fragment.
func (x *expander) expandCrate(crate *ast.Crate) (*ast.Crate, error) {
	root := &ast.ItemsFragment{Items: crate.Items}
	fr, err := x.expandFragment(root)
	if err != nil {
		return nil, err
	}
	out := *crate
	out.Items = fr.(*ast.ItemsFragment).Items
	return &out, nil
}

type expansion struct {
	id   ast.InvocationID
	frag ast.Fragment
}

// expandFragment runs the scheduler: breadth-first over depths, then
// substitution deepest-first with the root folded last.
func (x *expander) expandFragment(root ast.Fragment) (ast.Fragment, error) {
	root, queue := x.collect(root, 0, nil)

	var levels [][]expansion
	for depth := 0; len(queue) > 0; depth++ {
		sp := trace.Begin(x.tracer, trace.ScopeDepth, "depth:"+strconv.Itoa(depth), x.span)
		var next []*Invocation
		level := make([]expansion, 0, len(queue))
		for _, inv := range queue {
			if x.cfg.SingleStep && depth > 0 {
				level = append(level, expansion{id: inv.ID, frag: inv.Orig})
				continue
			}
			fr, final, err := x.dispatch(inv)
			if err != nil {
				sp.End("fatal")
				return nil, err
			}
			if !final {
				var nested []*Invocation
				fr, nested = x.collect(fr, depth+1, inv.Scope)
				next = append(next, nested...)
			}
			level = append(level, expansion{id: inv.ID, frag: fr})
		}
		levels = append(levels, level)
		sp.WithExtra("invocations", strconv.Itoa(len(queue))).End("")
		queue = next
	}

	p := newPlaceholderExpander()
	for i := len(levels) - 1; i >= 0; i-- {
		for _, e := range levels[i] {
			p.add(e.id, e.frag.Fold(p))
		}
	}
	out := root.Fold(p)
	if p.err != nil {
		return nil, x.fatal(ErrInvariant, diag.ExpInvariant, source.Dummy, p.err.Error())
	}
	if id, ok := p.leftover(); ok {
		return nil, x.fatal(ErrInvariant, diag.ExpInvariant, source.Dummy,
			fmt.Sprintf("result of invocation #%d was never substituted", id))
	}
	return out, nil
}

func (x *expander) nextInvocationID() ast.InvocationID {
	x.nextInv++
	return x.nextInv
}

// nextNodeID hands out ids in monotonic mode. Exhaustion is reported once
// and leaves the remaining nodes without ids.
func (x *expander) nextNodeID() ast.NodeID {
	id, err := x.res.NextNodeID()
	if err != nil {
		if errors.Is(err, resolve.ErrNodeIDsExhausted) && x.cfg.Monotonic {
			x.cfg.Monotonic = false
			x.error(diag.ExpInvariant, source.Dummy, err.Error())
		}
		return ast.DummyNodeID
	}
	if x.assigned == nil {
		x.assigned = make(map[ast.NodeID]struct{})
	}
	x.assigned[id] = struct{}{}
	return id
}

// fatal reports the condition and returns the error that aborts the run.
func (x *expander) fatal(sentinel error, code diag.Code, sp source.Span, msg string) *FatalError {
	diag.ReportError(x.reporter, code, sp, msg).Emit()
	return &FatalError{Code: code, Span: sp, Msg: msg, Err: sentinel}
}

// error reports at sp with the backtrace of the expansion sp came from.
func (x *expander) error(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return x.cx.Report(diag.SevError, code, sp, msg)
}

func (x *expander) warn(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return x.cx.Report(diag.SevWarning, code, sp, msg)
}

func (x *expander) reportCfgError(err error, fallback source.Span) {
	var ce *cfg.Error
	if errors.As(err, &ce) {
		sp := ce.Span
		if sp.IsDummy() {
			sp = fallback
		}
		x.error(ce.Code, sp, ce.Msg).Emit()
		return
	}
	x.error(diag.CfgMalformedPredicate, fallback, err.Error()).Emit()
}

func withCrateAttrs(crate *ast.Crate, extra []*ast.Attribute) *ast.Crate {
	if len(extra) == 0 {
		return crate
	}
	c := *crate
	c.Attrs = append(append([]*ast.Attribute(nil), extra...), crate.Attrs...)
	return &c
}

// hasFeature reports a crate attribute `#![feature(.., name, ..)]`.
func hasFeature(attrs []*ast.Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name() != "feature" || a.Meta.Kind != ast.MetaList {
			continue
		}
		for _, m := range a.Meta.List {
			if m.IsWord() && m.Name == name {
				return true
			}
		}
	}
	return false
}

// Expand is Run without tracing, returning only the tree and the error.
func Expand(crate *ast.Crate, reg *ext.Registry, conf Config) (*ast.Crate, *diag.Bag, error) {
	res, err := Run(context.Background(), crate, reg, conf)
	if res == nil {
		return nil, nil, err
	}
	return res.Crate, res.Diagnostics, err
}
