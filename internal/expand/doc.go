// Package expand drives macro expansion over a crate.
//
// A run collects every invocation of the current depth, replacing each with
// a placeholder, dispatches the invocations to their extensions, and
// collects the results again at the next depth until nothing is left. The
// results are then substituted into their placeholders deepest-first, the
// root last. The input tree is never modified.
//
// Attribute invocations (decorators, modifiers, derive and cfg_attr
// wrapping them) are normalized before dispatch, see normalize.go.
package expand
