package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"syntex/internal/ast"
	"syntex/internal/diag"
	"syntex/internal/expand"
	"syntex/internal/ext"
	"syntex/internal/observ"
	"syntex/internal/project"
	"syntex/internal/source"
	"syntex/internal/trace"
	"syntex/internal/treeio"
)

// ToolName is stamped into written tree files.
const ToolName = "syntex"

// Options controls a batch run. Registry is shared by every file; it is
// frozen before the workers start.
type Options struct {
	Config   expand.Config
	Registry *ext.Registry
	Jobs     int
	Cache    *DiskCache
	Progress ProgressSink
	// Write stores each result next to its input as `*.expanded.stx`.
	Write bool
	// Timings appends an ObsTimings diagnostic to every file's bag.
	Timings bool
}

// FileResult is the outcome for one input file. Crate is nil when the file
// could not be loaded or the run aborted.
type FileResult struct {
	Path    string
	Crate   *ast.Crate
	Files   *source.FileSet
	Bag     *diag.Bag
	Stats   observ.ExpansionStats
	Timings observ.Report
	Cached  bool
	// Err is the run error: ErrExpansionFailed, a *expand.FatalError or an
	// I/O failure already reported to Bag.
	Err error
}

// BatchResult aggregates a batch. Files keeps the input order.
type BatchResult struct {
	Files   []FileResult
	Stats   observ.ExpansionStats
	Timings observ.Report
}

// Failed counts files whose run returned an error.
func (b *BatchResult) Failed() int {
	n := 0
	for i := range b.Files {
		if b.Files[i].Err != nil {
			n++
		}
	}
	return n
}

// ListTreeFiles expands directories into the sorted list of tree files they
// contain. Explicit file arguments are kept even without the tree extension.
func ListTreeFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && treeio.IsTreeFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		// Сортируем для детерминированного порядка
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	return files, nil
}

// ExpandFiles expands every file concurrently, one independent run per file.
// Per-file failures are recorded in the results; the returned error is only
// set when the context is cancelled.
func ExpandFiles(ctx context.Context, paths []string, opts Options) (*BatchResult, error) {
	if opts.Registry == nil {
		opts.Registry = ext.NewRegistry()
	}
	opts.Registry.Freeze()

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	out := &BatchResult{Files: make([]FileResult, len(paths))}
	if len(paths) == 0 {
		return out, nil
	}
	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	ctx, batch := trace.StartSpan(ctx, trace.ScopeDriver, "expand-batch")
	defer batch.WithExtra("files", fmt.Sprint(len(paths))).End("")

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out.Files[i] = ExpandFile(gctx, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	for i := range out.Files {
		fr := &out.Files[i]
		out.Stats.Add(fr.Stats)
		out.Timings.Merge(filepath.Base(fr.Path), fr.Timings)
	}
	emit(opts.Progress, Event{Stage: StageExpand, Status: StatusDone})
	return out, nil
}

// ExpandFile loads, expands and optionally writes one tree file. The
// registry must already be frozen when called concurrently.
func ExpandFile(ctx context.Context, path string, opts Options) FileResult {
	res := FileResult{Path: path, Bag: diag.NewBag(opts.Config.MaxDiagnostics)}
	start := time.Now()
	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "file")
	span.WithExtra("path", path)
	defer span.End("")

	fail := func(stage Stage, code diag.Code, err error) FileResult {
		res.Bag.Append(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     code,
			Message:  fmt.Sprintf("%s: %v", path, err),
		})
		res.Err = err
		emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return res
	}

	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	// #nosec G304 -- path is provided by the caller
	input, err := os.ReadFile(path)
	if err != nil {
		return fail(StageLoad, diag.IOLoadFileError, err)
	}

	conf := opts.Config
	key := CacheKey(input, conf, opts.Registry)
	if opts.Cache != nil {
		if ok := res.fromCache(opts.Cache, key); ok {
			emit(opts.Progress, Event{File: path, Stage: StageExpand, Status: StatusCached, Elapsed: time.Since(start)})
			return res.finish(opts, start)
		}
	}

	crate, files, err := treeio.Decode(bytes.NewReader(input))
	if err != nil {
		return fail(StageLoad, diag.IODecodeError, err)
	}
	res.Files = files
	if conf.CrateName == "" {
		conf.CrateName = crate.Name
	}

	emit(opts.Progress, Event{File: path, Stage: StageExpand, Status: StatusWorking})
	run, runErr := expand.Run(ctx, crate, opts.Registry, conf)
	res.Bag.Merge(run.Diagnostics)
	res.Stats = run.Stats
	res.Timings = run.Timings
	res.Crate = run.Crate
	res.Err = runErr
	if run.Crate == nil {
		emit(opts.Progress, Event{File: path, Stage: StageExpand, Status: StatusError, Err: runErr, Elapsed: time.Since(start)})
		return res.finish(opts, start)
	}

	if opts.Cache != nil {
		var buf bytes.Buffer
		if err := treeio.Encode(&buf, run.Crate, files, ToolName); err == nil {
			payload := &DiskPayload{
				Output:      buf.Bytes(),
				Diagnostics: run.Diagnostics.Items(),
				Stats:       run.Stats,
				Failed:      errors.Is(runErr, expand.ErrExpansionFailed),
			}
			if err := opts.Cache.Put(key, payload); err != nil {
				trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "cache-put-failed", err.Error())
			}
		}
	}

	status := StatusDone
	if runErr != nil {
		status = StatusError
	}
	emit(opts.Progress, Event{File: path, Stage: StageExpand, Status: status, Err: runErr, Elapsed: time.Since(start)})
	return res.finish(opts, start)
}

// fromCache fills res from a cache entry. Unreadable entries count as misses.
func (res *FileResult) fromCache(c *DiskCache, key project.Digest) bool {
	var payload DiskPayload
	ok, err := c.Get(key, &payload)
	if err != nil || !ok {
		return false
	}
	crate, files, err := treeio.Decode(bytes.NewReader(payload.Output))
	if err != nil {
		return false
	}
	for _, d := range payload.Diagnostics {
		res.Bag.Add(d)
	}
	res.Crate = crate
	res.Files = files
	res.Stats = payload.Stats
	res.Cached = true
	if payload.Failed {
		res.Err = fmt.Errorf("%w: %d error(s)", expand.ErrExpansionFailed, res.Bag.ErrorCount())
	}
	return true
}

// finish writes the output file and the timing diagnostic.
func (res *FileResult) finish(opts Options, start time.Time) FileResult {
	if opts.Write && res.Crate != nil {
		emit(opts.Progress, Event{File: res.Path, Stage: StageWrite, Status: StatusWorking})
		if err := treeio.WriteFile(treeio.OutputPath(res.Path), res.Crate, res.Files, ToolName); err != nil {
			res.Bag.Append(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOEncodeError,
				Message:  fmt.Sprintf("%s: %v", treeio.OutputPath(res.Path), err),
			})
			if res.Err == nil {
				res.Err = err
			}
		}
	}
	if opts.Timings {
		res.recordTimings(time.Since(start))
	}
	status := StatusDone
	switch {
	case res.Err != nil:
		status = StatusError
	case res.Cached:
		status = StatusCached
	}
	emit(opts.Progress, Event{File: res.Path, Stage: StageWrite, Status: status, Err: res.Err, Elapsed: time.Since(start)})
	return *res
}
