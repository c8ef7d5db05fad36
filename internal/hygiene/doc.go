// Package hygiene provides the scope marks that keep identifiers introduced by
// one expansion apart from identically spelled identifiers elsewhere.
//
// Every expansion event mints a fresh Mark from a per-run Counter. The marker
// pass appends that mark to the Chain of every identifier in the expansion
// result. Two identifiers are the same binding only if both their names and
// their full chains are equal.
//
// The package also records an expansion backtrace (ExpnTable): for each
// expansion, where it was invoked and what was invoked, so diagnostics raised
// inside generated code can point back at the call site.
package hygiene
