package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"syntex/internal/treeio"
)

const watchDebounce = 150 * time.Millisecond

// watchAndRerun blocks until ctx is done, calling rerun after input tree
// files under roots change. Bursts of events collapse into one run.
func watchAndRerun(ctx context.Context, out io.Writer, roots []string, rerun func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close() //nolint:errcheck

	dirs, err := watchDirs(roots)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	fmt.Fprintf(out, "watching %d director%s, press Ctrl+C to stop\n", len(dirs), plural(len(dirs), "y", "ies"))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				// новые подкаталоги тоже отслеживаем
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.Add(ev.Name)
					continue
				}
			}
			if !isInputChange(ev) {
				continue
			}
			pending = time.After(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "watch: %v\n", err)
		case <-pending:
			pending = nil
			if err := rerun(); err != nil {
				fmt.Fprintln(out, err)
			}
		}
	}
}

// isInputChange filters out our own outputs, otherwise every run would
// trigger the next one.
func isInputChange(ev fsnotify.Event) bool {
	if !treeio.IsTreeFile(ev.Name) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// watchDirs lists every directory to watch: directory roots recursively and
// the parent of each file root.
func watchDirs(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			seen[filepath.Dir(root)] = struct{}{}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				seen[path] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
