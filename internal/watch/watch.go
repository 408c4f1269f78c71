package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/suykerbuyk/vttseg/internal/discover"
)

// Watcher reports caption files that were written or created under a set
// of watched paths.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	files    map[string]bool // explicitly watched files; dirs accept any caption
	dirs     map[string]bool
	ignore   []string // directories whose contents are never reported
}

// New watches each path. Directories report every caption file inside them;
// files are watched through their parent directory so editors that replace
// the file on save are still seen.
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		debounce: debounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}

		dir := abs
		if info.IsDir() {
			w.dirs[abs] = true
		} else {
			w.files[abs] = true
			dir = filepath.Dir(abs)
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Ignore drops events for files under dir, such as the archive directory
// the callback itself writes to.
func (w *Watcher) Ignore(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	w.ignore = append(w.ignore, abs)
	return nil
}

// accept reports whether a changed path should be handed to the callback.
func (w *Watcher) accept(path string) bool {
	for _, dir := range w.ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return false
		}
	}
	if w.files[path] {
		return true
	}
	return w.dirs[filepath.Dir(path)] && discover.IsCaption(path)
}

// Run calls fn once per changed caption file after debounce has passed with
// no further events. Handler errors are logged and do not stop the loop.
// Returns nil when ctx is done, or the first watcher error.
func (w *Watcher) Run(ctx context.Context, fn func(path string) error) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			path := filepath.Clean(ev.Name)
			if !w.accept(path) {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)

			for _, p := range paths {
				if err := fn(p); err != nil {
					log.Printf("warning: %s: %v", p, err)
				}
			}
		}
	}
}
