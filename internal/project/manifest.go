package project

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"

	"syntex/internal/ast"
	"syntex/internal/expand"
	"syntex/internal/ext"
	"syntex/internal/resolve"
	"syntex/internal/version"
)

// Manifest is a parsed syntex.toml. Pointer fields are nil when the key is
// absent, so command-line flags and defaults can take over.
type Manifest struct {
	Path    string         `toml:"-"`
	Package PackageSection `toml:"package"`
	Expand  ExpandSection  `toml:"expand"`
	Tool    ToolSection    `toml:"tool"`
}

type PackageSection struct {
	Name string `toml:"name"`
}

type ExpandSection struct {
	RecursionLimit *int     `toml:"recursion_limit"`
	Policy         *string  `toml:"policy"`
	CfgMode        *string  `toml:"cfg_mode"`
	Resolution     *string  `toml:"resolution"`
	CustomDerive   *bool    `toml:"custom_derive"`
	SingleStep     *bool    `toml:"single_step"`
	Cfg            []string `toml:"cfg"`
	Attrs          []string `toml:"attrs"`
}

type ToolSection struct {
	// Requires is a semver constraint on the syntex version, e.g. ">= 0.1, < 1".
	Requires string `toml:"requires"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameInvalid indicates that [package].name is absent or not an identifier.
	ErrPackageNameInvalid = errors.New("invalid [package].name")
	// ErrToolVersion indicates that the running syntex does not satisfy [tool].requires.
	ErrToolVersion = errors.New("syntex version does not satisfy [tool].requires")
)

// LoadManifest parses and validates syntex.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{Path: path}
	meta, err := toml.DecodeFile(path, m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	m.Package.Name = strings.TrimSpace(m.Package.Name)
	if !meta.IsDefined("package", "name") || !IsValidCrateIdent(m.Package.Name) {
		return nil, fmt.Errorf("%s: %w %q", path, ErrPackageNameInvalid, m.Package.Name)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Manifest) validate() error {
	e := m.Expand
	if e.RecursionLimit != nil && *e.RecursionLimit <= 0 {
		return fmt.Errorf("[expand].recursion_limit must be positive, got %d", *e.RecursionLimit)
	}
	if e.Policy != nil {
		if _, err := expand.ParsePolicy(*e.Policy); err != nil {
			return fmt.Errorf("[expand].policy: %w", err)
		}
	}
	if e.CfgMode != nil {
		if _, err := expand.ParseCfgMode(*e.CfgMode); err != nil {
			return fmt.Errorf("[expand].cfg_mode: %w", err)
		}
	}
	if e.Resolution != nil {
		if _, err := resolve.ParsePolicy(*e.Resolution); err != nil {
			return fmt.Errorf("[expand].resolution: %w", err)
		}
	}
	for _, src := range e.Cfg {
		if _, err := parseCfgOption(src); err != nil {
			return fmt.Errorf("[expand].cfg: %w", err)
		}
	}
	for _, src := range e.Attrs {
		if _, err := ast.ParseMeta(src); err != nil {
			return fmt.Errorf("[expand].attrs %q: %w", src, err)
		}
	}
	if m.Tool.Requires != "" {
		ok, err := version.Satisfies(m.Tool.Requires)
		if err != nil {
			return fmt.Errorf("[tool].requires: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: have %s, want %s", ErrToolVersion, version.Version, m.Tool.Requires)
		}
	}
	return nil
}

func parseCfgOption(src string) (*ast.MetaItem, error) {
	mi, err := ast.ParseMeta(src)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", src, err)
	}
	if mi.Kind == ast.MetaList {
		return nil, fmt.Errorf("cfg option %q cannot be a list", src)
	}
	return mi, nil
}

// Apply copies the values the manifest defines into conf and registers the
// extra crate attributes on reg. Call it before applying command-line flags.
func (m *Manifest) Apply(conf *expand.Config, reg *ext.Registry) error {
	if m.Package.Name != "" {
		conf.CrateName = m.Package.Name
	}
	e := m.Expand
	if e.RecursionLimit != nil {
		conf.RecursionLimit = *e.RecursionLimit
	}
	if e.Policy != nil {
		p, err := expand.ParsePolicy(*e.Policy)
		if err != nil {
			return err
		}
		conf.Policy = p
	}
	if e.CfgMode != nil {
		cm, err := expand.ParseCfgMode(*e.CfgMode)
		if err != nil {
			return err
		}
		conf.CfgMode = cm
	}
	if e.Resolution != nil {
		rp, err := resolve.ParsePolicy(*e.Resolution)
		if err != nil {
			return err
		}
		conf.Resolution = rp
	}
	if e.CustomDerive != nil {
		conf.CustomDerive = *e.CustomDerive
	}
	if e.SingleStep != nil {
		conf.SingleStep = *e.SingleStep
	}
	for _, src := range e.Cfg {
		mi, err := parseCfgOption(src)
		if err != nil {
			return err
		}
		conf.Cfg = append(conf.Cfg, mi)
	}
	for _, src := range e.Attrs {
		if err := reg.AddAttr(src); err != nil {
			return fmt.Errorf("attr %q: %w", src, err)
		}
	}
	return nil
}

// IsValidCrateIdent reports whether name is an ASCII identifier.
func IsValidCrateIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
