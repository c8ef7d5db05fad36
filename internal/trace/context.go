package trace

import "context"

// state is what a context carries: the tracer and the innermost open span.
// Both travel in one value so a lookup is a single ctx.Value walk.
type state struct {
	tracer Tracer
	span   SpanContext
}

type stateKey struct{}

func load(ctx context.Context) state {
	if ctx != nil {
		if s, ok := ctx.Value(stateKey{}).(state); ok {
			return s
		}
	}
	return state{tracer: Nop}
}

// FromContext returns the tracer stored in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return load(ctx).tracer
}

// WithTracer attaches t to ctx. The current span is kept.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	s := load(ctx)
	s.tracer = t
	return context.WithValue(ctx, stateKey{}, s)
}

// SpanContext identifies the innermost open span for parent links.
type SpanContext struct {
	SpanID uint64
}

// CurrentSpan returns the span stored in ctx; zero when there is none.
func CurrentSpan(ctx context.Context) SpanContext {
	return load(ctx).span
}

// WithSpanContext makes sc the parent of spans begun from the returned ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	s := load(ctx)
	s.span = sc
	return context.WithValue(ctx, stateKey{}, s)
}

// StartSpan begins a child of the current span and returns a ctx in which
// the new span is current.
func StartSpan(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	s := load(ctx)
	sp := Begin(s.tracer, scope, name, s.span.SpanID)
	if sp.ID() == 0 {
		return ctx, sp
	}
	return WithSpanContext(ctx, SpanContext{SpanID: sp.ID()}), sp
}
