// Package diag defines the diagnostic model shared by every phase of the
// expander: configuration loading, tree decoding, cfg stripping, extension
// resolution and expansion.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier (codes.go) with a stable string form
//     such as EXP2001.
//   - Message – short human-oriented text.
//   - Primary – the span the finding points at.
//   - Notes – secondary spans; the expander uses them for the expansion
//     backtrace ("in this expansion of `name!`").
//   - Fixes – suggested replacements, e.g. the closest registered extension
//     name for an unresolved invocation.
//
// # Emitting diagnostics
//
// Phases report through a Reporter so they do not depend on storage. Use
// ReportError / ReportWarning / ReportInfo to get a ReportBuilder, chain
// WithNote / WithFix and call Emit. BagReporter collects into a Bag, which
// supports limits, sorting and deduplication.
//
// Rendering lives in internal/diagfmt; this package performs no IO.
package diag
