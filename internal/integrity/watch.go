package integrity

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// TamperEvent describes one post-boot modification observed on a trust-root
// file. The watcher only reports; it never re-verifies the manifest or
// reloads policy on its own — that decision belongs to whatever consumes
// the event (typically: log it and let the operator decide whether to
// reboot).
type TamperEvent struct {
	Path string
	Op   string
	At   time.Time
}

// Watcher observes the trust-root files named in a Manifest for writes,
// removals, or renames after boot, debouncing bursts of events the way the
// teacher's cli watch command debounces filesystem churn before re-scanning.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onTamper func(TamperEvent)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher builds a Watcher over trustRoots, invoking onTamper (debounced
// per path) whenever one of those files changes. onTamper must not block.
func NewWatcher(trustRoots []string, debounce time.Duration, onTamper func(TamperEvent)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	for _, path := range trustRoots {
		if err := fsw.Add(path); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", path, err)
		}
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		fsw:      fsw,
		debounce: debounce,
		onTamper: onTamper,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Run blocks, dispatching debounced TamperEvents until stop is closed.
func (w *Watcher) Run(stop <-chan struct{}) {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.scheduleNotify(event)
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-stop:
			return
		}
	}
}

func (w *Watcher) scheduleNotify(event fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, exists := w.timers[event.Name]; exists {
		t.Stop()
	}
	op := event.Op.String()
	w.timers[event.Name] = time.AfterFunc(w.debounce, func() {
		w.onTamper(TamperEvent{Path: event.Name, Op: op, At: time.Now()})
	})
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }
