package panel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"

	"realistic-render/config"
	"realistic-render/logx"
)

// Poster runs fn on the main thread. core.Dispatcher implements it.
type Poster interface {
	Post(fn func())
}

// Watcher applies a tweak file to a Registry each time the file is written.
// The file is a flat TOML or YAML table of control name to value: numbers
// go to float controls, strings to enum controls. Decoding happens on the
// watcher goroutine; values are applied on the main thread.
type Watcher struct {
	path string
	reg  *Registry
	post Poster
	log  *slog.Logger
	fsw  *fsnotify.Watcher
}

// NewWatcher watches the directory holding path, so editors that replace
// the file on save are followed.
func NewWatcher(path string, reg *Registry, post Poster, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{path: path, reg: reg, post: post, log: logx.Or(logger), fsw: fsw}, nil
}

// Run applies the current file, then follows changes until ctx ends.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	w.reload()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("tweak watcher error", "err", err)
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		w.log.Warn("read tweak file", "path", w.path, "err", err)
		return
	}
	values := map[string]any{}
	if err := config.Decode(w.path, data, &values); err != nil {
		w.log.Warn("decode tweak file", "path", w.path, "err", err)
		return
	}
	w.post.Post(func() {
		errs := Apply(w.reg, values)
		for _, err := range errs {
			w.log.Warn("tweak value rejected", "path", w.path, "err", err)
		}
		w.log.Info("tweak file applied", "path", w.path, "values", len(values)-len(errs))
	})
}

// Apply pushes values into reg in name order and returns one error per
// value it could not apply.
func Apply(reg *Registry, values map[string]any) []error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		var err error
		switch v := values[name].(type) {
		case string:
			err = reg.Select(name, v)
		case float64:
			_, err = reg.Set(name, float32(v))
		case int64:
			_, err = reg.Set(name, float32(v))
		case int:
			_, err = reg.Set(name, float32(v))
		default:
			err = fmt.Errorf("%w: %q has unsupported value %v", ErrWrongKind, name, v)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
