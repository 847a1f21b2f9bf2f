// Package watcher turns file system changes into engine signals.
//
// A document's source file changing publishes document-loaded; the outline
// database changing (another process edited it) publishes force-update.
// Bursts of events are debounced per target and publication is rate limited.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/eventbus"
	"github.com/custodia-labs/outline-cli/internal/logger"
)

// Publisher is the part of the event bus the watcher publishes to.
type Publisher interface {
	PublishDocumentLoaded(p eventbus.DocumentLoadedPayload)
	PublishOutlinesForceUpdate(p eventbus.OutlinesForceUpdatePayload)
}

// Kind says which signal a target's changes publish.
type Kind int

const (
	// KindSource is a document's source file.
	KindSource Kind = iota
	// KindDatabase is the outline database, including its WAL files.
	KindDatabase
)

type target struct {
	kind       Kind
	path       string
	documentID string
}

// matches reports whether a file event belongs to t.
func (t target) matches(name string) bool {
	name = filepath.Clean(name)
	if t.kind == KindDatabase {
		// outlines.db, outlines.db-wal and outlines.db-shm share a prefix;
		// shm changes on every read and is ignored.
		return strings.HasPrefix(name, t.path) && !strings.HasSuffix(name, "-shm")
	}
	return name == t.path
}

// Watcher publishes signals for changed files.
type Watcher struct {
	pub      Publisher
	fs       *fsnotify.Watcher
	limiter  *rate.Limiter
	debounce time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	targets []target
	dirs    map[string]bool
	timers  map[string]*time.Timer
	closed  bool
}

// New creates a watcher. Nothing is watched until WatchSource or
// WatchDatabase is called.
func New(pub Publisher, settings domain.WatchSettings) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	perSecond := settings.RatePerSecond
	if perSecond < 1 {
		perSecond = 1
	}
	return &Watcher{
		pub:      pub,
		fs:       fsw,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		debounce: settings.Debounce,
		log:      logger.Component("watcher"),
		dirs:     make(map[string]bool),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// WatchSource publishes document-loaded for documentID when path changes.
func (w *Watcher) WatchSource(path, documentID string) error {
	return w.add(target{kind: KindSource, path: path, documentID: documentID})
}

// WatchDatabase publishes force-update when the database at path changes.
func (w *Watcher) WatchDatabase(path string) error {
	return w.add(target{kind: KindDatabase, path: path})
}

// add watches the target's directory so atomic replaces are seen.
func (w *Watcher) add(t target) error {
	abs, err := filepath.Abs(t.path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", t.path, err)
	}
	t.path = abs
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.targets = append(w.targets, t)
	w.log.Debug().Str("path", abs).Int("kind", int(t.kind)).Msg("watching")
	return nil
}

// Run processes file events until ctx is cancelled or the watcher closes.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	for _, t := range w.targets {
		if !t.matches(event.Name) {
			continue
		}
		key := t.path
		if timer, ok := w.timers[key]; ok {
			timer.Stop()
		}
		w.timers[key] = time.AfterFunc(w.debounce, func() {
			w.fire(ctx, t)
		})
	}
}

// fire publishes t's signal once the limiter allows it.
func (w *Watcher) fire(ctx context.Context, t target) {
	w.mu.Lock()
	delete(w.timers, t.path)
	w.mu.Unlock()

	if err := w.limiter.Wait(ctx); err != nil {
		return
	}

	switch t.kind {
	case KindSource:
		w.log.Debug().Str("document", t.documentID).Msg("source changed")
		w.pub.PublishDocumentLoaded(eventbus.DocumentLoadedPayload{DocumentID: t.documentID})
	case KindDatabase:
		w.log.Debug().Str("path", t.path).Msg("database changed")
		w.pub.PublishOutlinesForceUpdate(eventbus.OutlinesForceUpdatePayload{Reason: "database changed"})
	}
}

// Close stops pending timers and the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	for _, timer := range w.timers {
		timer.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.mu.Unlock()
	return w.fs.Close()
}
