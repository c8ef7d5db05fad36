// Package trace provides structured tracing for expansion runs.
//
// Enable it from the command line:
//
//	syntex expand --trace=- --trace-level=detail crate.stx
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory for crash dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a scope; the level decides which scopes are emitted:
//
//   - ScopeDriver: CLI and batch operations (LevelPhase and up)
//   - ScopePass: load, pre-passes, expand, squash, post-passes (LevelPhase and up)
//   - ScopeDepth: one expansion depth level (LevelDetail and up)
//   - ScopeInvocation: a single dispatched invocation (LevelDebug)
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "expand", 0)
//	defer span.End("")
package trace
