package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"syntex/internal/builtin"
	"syntex/internal/diagfmt"
	"syntex/internal/driver"
	"syntex/internal/expand"
	"syntex/internal/ext"
	"syntex/internal/format"
	"syntex/internal/project"
	"syntex/internal/resolve"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] <file.stx|directory>...",
	Short: "Expand extension invocations in tree files",
	Long: `Expand decodes serialized crates (*.stx), runs every macro and attribute
extension to a fixpoint and writes *.expanded.stx next to each input`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

func init() {
	registerExpandFlags(expandCmd)
}

func registerExpandFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("format", "pretty", "diagnostics format (pretty|short|json)")
	flags.Int("jobs", 0, "max parallel workers (0=auto)")
	flags.Bool("permissive", false, "leave unresolved invocations in place instead of failing")
	flags.Int("recursion-limit", expand.DefaultRecursionLimit, "maximum nested expansion depth")
	flags.StringArray("cfg", nil, "extra active cfg option, e.g. 'feature = \"serde\"' (repeatable)")
	flags.StringArray("attr", nil, "extra crate attribute, e.g. 'feature(custom_derive)' (repeatable)")
	flags.Bool("single-step", false, "expand only the invocations present in the input")
	flags.Bool("custom-derive", false, "allow deriving traits that are not built in")
	flags.String("cfg-mode", "preserve", "cfg handling (preserve|strip)")
	flags.String("resolution", "flat", "extension name resolution (flat|scoped)")
	flags.Bool("monotonic", false, "assign fresh node ids to expanded nodes")
	flags.String("manifest", "", "path to syntex.toml (default: search upwards from the first input)")
	flags.Bool("cache", false, "reuse results from the on-disk cache")
	flags.Bool("clear-cache", false, "drop the on-disk cache before running")
	flags.Bool("watch", false, "re-run when input files change")
	flags.String("ui", "auto", "progress view (auto|on|off)")
	flags.String("emit", "stx", "output form (stx|text|none)")
	flags.Bool("marks", false, "show hygiene marks in --emit text output")
	flags.Bool("with-notes", false, "include diagnostic notes in output")
	flags.Bool("suggest", false, "include fix suggestions in output")
	flags.Bool("preview", false, "preview fix edits")
	flags.Bool("fullpath", false, "emit absolute file paths in output (same as --path-mode absolute)")
	flags.String("path-mode", "auto", "diagnostic path form (auto|absolute|relative|basename)")
}

var errNoInputs = errors.New("no inputs")

// expandOptions is the parsed flag set of the expand command.
type expandOptions struct {
	format     string
	jobs       int
	cfg        []string
	attrs      []string
	manifest   string
	useCache   bool
	clearCache bool
	watch      bool
	ui         uiMode
	emit       string
	marks      bool
	withNotes  bool
	suggest    bool
	preview    bool
	fullPath   bool
	pathMode   diagfmt.PathMode
	quiet      bool
	timings    bool
	maxDiag    int
}

func readExpandOptions(cmd *cobra.Command) (expandOptions, error) {
	var opts expandOptions
	var err error
	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if opts.format, err = flags.GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(opts.format)
	switch opts.format {
	case "pretty", "short", "json":
	default:
		return opts, fmt.Errorf("unknown format: %s", opts.format)
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.cfg, err = flags.GetStringArray("cfg"); err != nil {
		return opts, fmt.Errorf("failed to get cfg flag: %w", err)
	}
	if opts.attrs, err = flags.GetStringArray("attr"); err != nil {
		return opts, fmt.Errorf("failed to get attr flag: %w", err)
	}
	if opts.manifest, err = flags.GetString("manifest"); err != nil {
		return opts, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	if opts.useCache, err = flags.GetBool("cache"); err != nil {
		return opts, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if opts.clearCache, err = flags.GetBool("clear-cache"); err != nil {
		return opts, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	if opts.watch, err = flags.GetBool("watch"); err != nil {
		return opts, fmt.Errorf("failed to get watch flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiValue); err != nil {
		return opts, err
	}
	if opts.emit, err = flags.GetString("emit"); err != nil {
		return opts, fmt.Errorf("failed to get emit flag: %w", err)
	}
	switch opts.emit {
	case "stx", "text", "none":
	default:
		return opts, fmt.Errorf("invalid --emit value %q (expected stx|text|none)", opts.emit)
	}
	if opts.marks, err = flags.GetBool("marks"); err != nil {
		return opts, fmt.Errorf("failed to get marks flag: %w", err)
	}
	if opts.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if opts.suggest, err = flags.GetBool("suggest"); err != nil {
		return opts, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if opts.preview, err = flags.GetBool("preview"); err != nil {
		return opts, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if opts.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return opts, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	pathValue, err := flags.GetString("path-mode")
	if err != nil {
		return opts, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if opts.pathMode, ok = diagfmt.ParsePathMode(pathValue); !ok {
		return opts, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", pathValue)
	}
	if opts.fullPath {
		opts.pathMode = diagfmt.PathModeAbsolute
	}
	if opts.quiet, err = root.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = root.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.maxDiag, err = root.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return opts, nil
}

// loadSettings builds the run configuration: defaults, then syntex.toml,
// then flags the user set explicitly.
func loadSettings(cmd *cobra.Command, opts expandOptions, start string) (expand.Config, *ext.Registry, error) {
	conf := expand.DefaultConfig("")
	reg := builtin.NewRegistry()

	manifestPath := opts.manifest
	if manifestPath == "" {
		path, ok, err := project.FindManifest(start)
		if err != nil {
			return conf, nil, err
		}
		if ok {
			manifestPath = path
		}
	}
	if manifestPath != "" {
		m, err := project.LoadManifest(manifestPath)
		if err != nil {
			return conf, nil, err
		}
		if err := m.Apply(&conf, reg); err != nil {
			return conf, nil, fmt.Errorf("%s: %w", manifestPath, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("permissive") {
		permissive, _ := flags.GetBool("permissive")
		if permissive {
			conf.Policy = expand.PolicyPermissive
		} else {
			conf.Policy = expand.PolicyStrict
		}
	}
	if flags.Changed("recursion-limit") {
		conf.RecursionLimit, _ = flags.GetInt("recursion-limit")
	}
	if flags.Changed("single-step") {
		conf.SingleStep, _ = flags.GetBool("single-step")
	}
	if flags.Changed("custom-derive") {
		conf.CustomDerive, _ = flags.GetBool("custom-derive")
	}
	if flags.Changed("monotonic") {
		conf.Monotonic, _ = flags.GetBool("monotonic")
	}
	if flags.Changed("cfg-mode") {
		value, _ := flags.GetString("cfg-mode")
		mode, err := expand.ParseCfgMode(value)
		if err != nil {
			return conf, nil, err
		}
		conf.CfgMode = mode
	}
	if flags.Changed("resolution") {
		value, _ := flags.GetString("resolution")
		policy, err := resolve.ParsePolicy(value)
		if err != nil {
			return conf, nil, err
		}
		conf.Resolution = policy
	}
	for _, src := range opts.cfg {
		if err := reg.AddCfg(src); err != nil {
			return conf, nil, fmt.Errorf("--cfg %q: %w", src, err)
		}
	}
	for _, src := range opts.attrs {
		if err := reg.AddAttr(src); err != nil {
			return conf, nil, fmt.Errorf("--attr %q: %w", src, err)
		}
	}
	if opts.maxDiag > 0 {
		conf.MaxDiagnostics = opts.maxDiag
	}
	return conf, reg, nil
}

// runExpand executes the expand command. It returns an error when any file
// failed, so the process exits non-zero.
func runExpand(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	opts, err := readExpandOptions(cmd)
	if err != nil {
		return err
	}
	start := args[0]
	if info, statErr := os.Stat(start); statErr == nil && !info.IsDir() {
		start = filepath.Dir(start)
	}
	conf, reg, err := loadSettings(cmd, opts, start)
	if err != nil {
		return err
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	dopts := driver.Options{
		Config:   conf,
		Registry: reg,
		Jobs:     opts.jobs,
		Write:    opts.emit == "stx",
		Timings:  opts.timings,
	}
	if opts.useCache || opts.clearCache {
		cache, err := driver.OpenDiskCache(driver.ToolName)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if opts.clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		if opts.useCache {
			dopts.Cache = cache
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.watch {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}

	runOnce := func(useUI bool) error {
		files, err := driver.ListTreeFiles(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("%w: no *.stx files in %s", errNoInputs, strings.Join(args, ", "))
		}
		var res *driver.BatchResult
		if useUI {
			res, err = runBatchWithUI(ctx, cmd.OutOrStdout(), "expanding", files, dopts)
		} else {
			res, err = driver.ExpandFiles(ctx, files, dopts)
		}
		if err != nil {
			return err
		}
		if err := reportBatch(cmd, opts, res); err != nil {
			return err
		}
		if n := res.Failed(); n > 0 {
			return fmt.Errorf("expansion failed for %d of %d file(s)", n, len(res.Files))
		}
		return nil
	}

	firstErr := runOnce(shouldUseTUI(opts))
	if !opts.watch {
		return firstErr
	}
	if firstErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), firstErr)
	}
	// повторные прогоны без TUI, чтобы не перерисовывать экран
	return watchAndRerun(ctx, cmd.ErrOrStderr(), args, func() error { return runOnce(false) })
}

// reportBatch prints diagnostics, the optional text rendering and timings.
func reportBatch(cmd *cobra.Command, opts expandOptions, res *driver.BatchResult) error {
	out := cmd.OutOrStdout()
	diagOut := out
	if opts.emit == "text" {
		diagOut = cmd.ErrOrStderr()
	}
	color := false
	if opts.format == "pretty" {
		var err error
		if color, err = useColor(cmd, os.Stdout); err != nil {
			return err
		}
	}
	if err := printDiagnostics(diagOut, opts, color, res); err != nil {
		return err
	}

	if opts.emit == "text" {
		for i, fr := range res.Files {
			if fr.Crate == nil {
				continue
			}
			if len(res.Files) > 1 {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "// == %s ==\n", fr.Path)
			}
			if _, err := out.Write(format.Crate(fr.Crate, format.Options{Marks: opts.marks})); err != nil {
				return err
			}
		}
	}

	if opts.timings && !opts.quiet {
		errOut := cmd.ErrOrStderr()
		fmt.Fprint(errOut, res.Timings.Summary())
		fmt.Fprint(errOut, res.Stats.Summary())
	}
	if !opts.quiet && opts.format == "pretty" && opts.emit == "stx" {
		written := 0
		for _, fr := range res.Files {
			if fr.Crate != nil && fr.Err == nil {
				written++
			}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "expanded %d of %d file(s)\n", written, len(res.Files))
	}
	return nil
}

func printDiagnostics(w io.Writer, opts expandOptions, color bool, res *driver.BatchResult) error {
	pathMode := opts.pathMode
	showFixes := opts.suggest || opts.preview

	switch opts.format {
	case "short":
		for _, fr := range res.Files {
			if err := diagfmt.Short(w, fr.Bag, fr.Files, opts.withNotes); err != nil {
				return err
			}
		}
	case "pretty":
		prettyOpts := diagfmt.PrettyOpts{
			Color:       color,
			PathMode:    pathMode,
			ShowNotes:   opts.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: opts.preview,
		}
		first := true
		for _, fr := range res.Files {
			if fr.Bag.Len() == 0 {
				continue
			}
			if !first {
				fmt.Fprintln(w)
			}
			first = false
			fmt.Fprintf(w, "== %s ==\n", displayPath(fr.Path, opts.fullPath))
			diagfmt.Pretty(w, fr.Bag, fr.Files, prettyOpts)
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     opts.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  opts.preview,
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(res.Files))
		for _, fr := range res.Files {
			output[displayPath(fr.Path, opts.fullPath)] = diagfmt.BuildDiagnosticsOutput(fr.Bag, fr.Files, jsonOpts)
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", opts.format)
	}
	return nil
}

func displayPath(path string, full bool) string {
	if !full {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
