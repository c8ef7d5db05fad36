package expand

import (
	"fmt"
	"strings"

	"syntex/internal/ast"
	"syntex/internal/resolve"
)

// Policy decides what happens to invocations no extension answers.
type Policy uint8

const (
	// PolicyStrict reports unresolved invocations and fails the run.
	PolicyStrict Policy = iota
	// PolicyPermissive leaves them in the output for a later compiler.
	PolicyPermissive
)

func (p Policy) String() string {
	if p == PolicyPermissive {
		return "permissive"
	}
	return "strict"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return PolicyStrict, nil
	case "permissive":
		return PolicyPermissive, nil
	default:
		return PolicyStrict, fmt.Errorf("unknown expansion policy %q (want strict|permissive)", s)
	}
}

// CfgMode selects how conditional-compilation attributes are handled.
type CfgMode uint8

const (
	// CfgPreserve keeps cfg attributes for the downstream compiler. Only
	// cfg_attr wrapping an extension attribute is interpreted.
	CfgPreserve CfgMode = iota
	// CfgStrip evaluates cfg against the active set and removes disabled nodes.
	CfgStrip
)

func (m CfgMode) String() string {
	if m == CfgStrip {
		return "strip"
	}
	return "preserve"
}

func ParseCfgMode(s string) (CfgMode, error) {
	switch strings.ToLower(s) {
	case "", "preserve":
		return CfgPreserve, nil
	case "strip":
		return CfgStrip, nil
	default:
		return CfgPreserve, fmt.Errorf("unknown cfg mode %q (want preserve|strip)", s)
	}
}

const (
	DefaultRecursionLimit = 64
	DefaultMaxDiagnostics = 256
)

// Config controls one expansion run.
type Config struct {
	CrateName      string
	RecursionLimit int
	Policy         Policy
	Resolution     resolve.Policy
	// Resolver, when set, replaces the resolver Resolution would build from
	// the registry. It serves one run at a time: the engine allocates node
	// ids from it.
	Resolver resolve.Resolver
	// CustomDerive allows derive of traits that are not built in. A crate
	// attribute `#![feature(custom_derive)]` enables it as well.
	CustomDerive bool
	// SingleStep expands only the invocations present in the input.
	SingleStep bool
	// Monotonic assigns fresh node ids to every node created by expansion.
	Monotonic      bool
	CfgMode        CfgMode
	Cfg            []*ast.MetaItem
	MaxDiagnostics int
}

func DefaultConfig(crateName string) Config {
	return Config{
		CrateName:      crateName,
		RecursionLimit: DefaultRecursionLimit,
		Policy:         PolicyStrict,
		Resolution:     resolve.PolicyFlat,
		MaxDiagnostics: DefaultMaxDiagnostics,
	}
}

func (c Config) normalized() Config {
	if c.RecursionLimit <= 0 {
		c.RecursionLimit = DefaultRecursionLimit
	}
	if c.MaxDiagnostics <= 0 {
		c.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if c.CrateName == "" {
		c.CrateName = "crate"
	}
	return c
}
