package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of writes to one change.
const DefaultDebounce = 150 * time.Millisecond

// Change is a debounced modification of a deck file.
type Change struct {
	// Deck is set when the card deck changed.
	Deck bool
	// CardID names the card whose detail document changed.
	CardID string
	Path   string
}

// Watcher reports changes to a deck directory.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	debounce time.Duration
	changes  chan Change
	errs     chan error

	closeOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// Watch starts watching the deck and details directories. Changes are
// delivered on Changes until ctx is done or Close is called.
func (d *Dir) Watch(ctx context.Context, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(d.root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", d.root, err)
	}
	details := filepath.Join(d.root, DetailsDir)
	if err := fsw.Add(details); err != nil {
		d.logger.Debug().Ctx(ctx).Str("operation", "watch").Str("path", details).Err(err).Msg("details directory not watched")
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		fsw:      fsw,
		root:     d.root,
		debounce: debounce,
		changes:  make(chan Change, 16),
		errs:     make(chan error, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Changes delivers debounced changes. It is closed when the watcher stops.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Errors delivers watcher errors. Errors are dropped while one is unread.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stop)
		<-w.done
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.changes)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()
	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if _, ok := w.classify(ev.Name); ok {
				pending[ev.Name] = time.Now()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case now := <-ticker.C:
			for path, seen := range pending {
				if now.Sub(seen) < w.debounce {
					continue
				}
				delete(pending, path)
				change, _ := w.classify(path)
				select {
				case w.changes <- change:
				case <-w.stop:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// classify maps a file path to a Change. Files that are neither the deck nor
// a detail document are ignored.
func (w *Watcher) classify(path string) (Change, bool) {
	ext := filepath.Ext(path)
	known := false
	for _, e := range extensions {
		if e == ext {
			known = true
		}
	}
	if !known {
		return Change{}, false
	}
	base := strings.TrimSuffix(filepath.Base(path), ext)
	switch filepath.Dir(path) {
	case w.root:
		if base == DeckBase {
			return Change{Deck: true, Path: path}, true
		}
	case filepath.Join(w.root, DetailsDir):
		return Change{CardID: base, Path: path}, true
	}
	return Change{}, false
}
