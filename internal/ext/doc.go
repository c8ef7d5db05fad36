// Package ext is the public surface for extension authors: the four
// extension capabilities, the result type function-like extensions return,
// the context they run in, and the registry hosts populate before an
// expansion run.
package ext
