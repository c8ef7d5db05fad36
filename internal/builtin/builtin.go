// Package builtin holds the extensions every host gets by default.
package builtin

import (
	"fmt"

	"syntex/internal/ext"
)

// Register adds the builtin extensions to reg. Names already taken are
// reported as an error and registration stops.
func Register(reg *ext.Registry) error {
	fns := []struct {
		name string
		fn   ext.FunctionLikeFunc
		doc  string
	}{
		{"stringify", stringify, "renders its arguments as a string literal"},
		{"concat", concat, "concatenates literals into a string literal"},
		{"module_path", modulePath, "the path of the enclosing module"},
		{"cfg", cfgMacro, "evaluates a cfg predicate to a bool literal"},
		{"compile_error", compileError, "reports its message as an error"},
	}
	for _, f := range fns {
		if err := reg.RegisterFunctionLike(f.name, f.fn, ext.WithDoc(f.doc)); err != nil {
			return fmt.Errorf("builtin %s: %w", f.name, err)
		}
	}
	if err := reg.RegisterIdentTagged("const_str", ext.IdentTaggedFunc(constStr),
		ext.WithDoc("defines a string constant from literals")); err != nil {
		return fmt.Errorf("builtin const_str: %w", err)
	}
	return nil
}

// NewRegistry returns a registry holding only the builtins.
func NewRegistry() *ext.Registry {
	reg := ext.NewRegistry()
	if err := Register(reg); err != nil {
		// имена не пересекаются, пустой реестр не может отказать
		panic(err)
	}
	return reg
}
