package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"syntex/internal/diag"
	"syntex/internal/expand"
	"syntex/internal/ext"
	"syntex/internal/observ"
	"syntex/internal/project"
	"syntex/internal/version"
)

// diskCacheSchemaVersion: поднять при изменении DiskPayload.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores expansion results on disk keyed by CacheKey. Safe for
// concurrent use by the batch workers.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached expansion: the encoded output tree plus the
// diagnostics and counters of the run that produced it.
type DiskPayload struct {
	Schema uint16

	// Output is the treeio encoding of the expanded crate.
	Output      []byte
	Diagnostics []diag.Diagnostic
	Stats       observ.ExpansionStats

	// Failed is set when the run returned ErrExpansionFailed (strict policy);
	// the output is still valid.
	Failed bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.entries(), key.String()+".mp")
}

// entries is the directory holding one msgpack file per key.
func (c *DiskCache) entries() string { return filepath.Join(c.dir, "expn") }

// Put stores payload under key. The file is written to a temp name and
// renamed, so readers never see a partial entry.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	payload.Schema = diskCacheSchemaVersion
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cache entry %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.entries(), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.entries(), "tmp-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(data)
	if err := errors.Join(werr, tmp.Close()); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), c.pathFor(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Get loads the entry for key into out. Missing entries and entries of
// another schema version are misses, not errors.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	// #nosec G304 -- path is derived from a hex digest
	data, err := os.ReadFile(c.pathFor(key))
	c.mu.RUnlock()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every entry (syntex expand --clear-cache).
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.entries())
}

// CacheKey digests everything that can change the output for input: the
// bytes themselves, the run configuration, the registered extensions and
// the tool version.
func CacheKey(input []byte, conf expand.Config, reg *ext.Registry) project.Digest {
	return project.Combine(
		project.Sum(input),
		project.Sum([]byte(configFingerprint(conf))),
		project.Sum([]byte(registryFingerprint(reg))),
		project.Sum([]byte(version.Version)),
	)
}

func configFingerprint(conf expand.Config) string {
	var b strings.Builder
	b.WriteString(conf.CrateName)
	b.WriteString("|" + strconv.Itoa(conf.RecursionLimit))
	b.WriteString("|" + conf.Policy.String())
	b.WriteString("|" + conf.Resolution.String())
	if conf.Resolver != nil {
		fmt.Fprintf(&b, "|%T", conf.Resolver)
	}
	b.WriteString("|" + conf.CfgMode.String())
	b.WriteString("|" + strconv.FormatBool(conf.CustomDerive))
	b.WriteString("|" + strconv.FormatBool(conf.SingleStep))
	b.WriteString("|" + strconv.FormatBool(conf.Monotonic))
	b.WriteString("|" + strconv.Itoa(conf.MaxDiagnostics))
	cfgs := make([]string, len(conf.Cfg))
	for i, m := range conf.Cfg {
		cfgs[i] = m.String()
	}
	slices.Sort(cfgs)
	b.WriteString("|" + strings.Join(cfgs, ","))
	return b.String()
}

func registryFingerprint(reg *ext.Registry) string {
	if reg == nil {
		return ""
	}
	var b strings.Builder
	for _, e := range reg.Extensions() {
		b.WriteString(e.Scope + "::" + e.Name + "/" + e.Kind.String() + ";")
	}
	for _, m := range reg.Cfg() {
		b.WriteString("cfg:" + m.String() + ";")
	}
	for _, a := range reg.Attrs() {
		b.WriteString("attr:" + a.String() + ";")
	}
	for _, p := range reg.PrePasses() {
		b.WriteString("pre:" + p.Name + ";")
	}
	for _, p := range reg.PostPasses() {
		b.WriteString("post:" + p.Name + ";")
	}
	return b.String()
}
