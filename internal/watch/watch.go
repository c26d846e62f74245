package watch

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceWindow coalesces editor save bursts into one notification.
const debounceWindow = 100 * time.Millisecond

// Watcher watches the currently selected files and reports that something
// changed. Notifications are advisory: the consumer reassembles its output,
// nothing structural depends on them.
type Watcher struct {
	fsw     *fsnotify.Watcher
	logger  *zap.Logger
	Changes chan struct{}
	closed  chan struct{}

	mu    sync.Mutex
	paths []string
}

// New creates and starts a watcher. Close must be called to release it.
func New(logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		logger:  logger,
		Changes: make(chan struct{}, 1),
		closed:  make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// SetPaths replaces the watched file set. Paths that cannot be watched are
// logged and skipped.
func (w *Watcher) SetPaths(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range w.paths {
		_ = w.fsw.Remove(p)
	}
	w.paths = w.paths[:0]

	for _, p := range paths {
		if err := w.fsw.Add(p); err != nil {
			w.logger.Warn("cannot watch file", zap.String("file", p), zap.Error(err))
			continue
		}
		w.paths = append(w.paths, p)
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.closed)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	for {
		select {
		case <-w.closed:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, w.notify)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.Changes <- struct{}{}:
	default:
		// A notification is already pending; one is enough.
	}
}
