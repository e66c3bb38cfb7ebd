package template

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultReloadDebounce = 500 * time.Millisecond

// Reloader watches a rule-set file and swaps each valid revision into an
// InMemory store. An invalid revision is logged and the previous rule set
// keeps serving.
type Reloader struct {
	path     string
	store    *InMemory
	logger   *slog.Logger
	debounce time.Duration
	onReload func(ctx context.Context)
	lastHash [sha256.Size]byte
}

type ReloaderOption func(*Reloader)

func WithReloadLogger(logger *slog.Logger) ReloaderOption {
	return func(r *Reloader) {
		r.logger = logger
	}
}

func WithReloadDebounce(d time.Duration) ReloaderOption {
	return func(r *Reloader) {
		if d > 0 {
			r.debounce = d
		}
	}
}

// OnReload registers fn to run after a new rule set is installed, e.g. to
// drop a cached copy.
func OnReload(fn func(ctx context.Context)) ReloaderOption {
	return func(r *Reloader) {
		r.onReload = fn
	}
}

func NewReloader(path string, store *InMemory, opts ...ReloaderOption) *Reloader {
	r := &Reloader{path: path, store: store, debounce: defaultReloadDebounce}
	for _, opt := range opts {
		opt(r)
	}
	if content, err := os.ReadFile(path); err == nil {
		r.lastHash = sha256.Sum256(content)
	}
	return r
}

// Run blocks until ctx is done. The parent directory is watched rather than
// the file so editors that save by rename are still seen.
func (r *Reloader) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create rule-set watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(r.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	r.info(ctx, "watching rule set", "path", r.path)

	target := filepath.Clean(r.path)
	timer := time.NewTimer(r.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(r.debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.warn(ctx, "rule-set watcher error", err)
		case <-timer.C:
			r.Reload(ctx)
		}
	}
}

// Reload reads the file once and installs it when its content changed and
// every template validates. It reports whether a new rule set was installed.
func (r *Reloader) Reload(ctx context.Context) bool {
	content, err := os.ReadFile(r.path)
	if err != nil {
		r.warn(ctx, "rule set unreadable, keeping previous revision", err)
		return false
	}
	hash := sha256.Sum256(content)
	if hash == r.lastHash {
		return false
	}

	templates, err := Parse(bytes.NewReader(content))
	if err == nil {
		err = r.store.Replace(templates)
	}
	if err != nil {
		r.warn(ctx, "rule set rejected, keeping previous revision", err)
		return false
	}
	r.lastHash = hash
	r.info(ctx, "rule set reloaded", "path", r.path, "templates", len(templates))
	if r.onReload != nil {
		r.onReload(ctx)
	}
	return true
}

func (r *Reloader) info(ctx context.Context, msg string, args ...any) {
	if r.logger != nil {
		r.logger.InfoContext(ctx, msg, args...)
	}
}

func (r *Reloader) warn(ctx context.Context, msg string, err error) {
	if r.logger != nil {
		r.logger.WarnContext(ctx, msg, "path", r.path, "error", err)
	}
}
