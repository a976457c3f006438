package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yildizm/Nutripedia/internal/logger"
)

// DefaultDebounce collapses the burst of events a single save produces
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to the local data files. Each reported change
// means the caller should run a full Load again.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	changes  chan string
	debounce time.Duration
	log      *logger.Logger
}

// NewWatcher watches the given files. Their parent directories are
// watched so that editors replacing a file by rename are noticed too.
func NewWatcher(files []string, log *logger.Logger) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no local files to watch")
	}
	if log == nil {
		log = logger.NewWithCallback("watcher", nil)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]bool, len(files)),
		changes:  make(chan string, 1),
		debounce: DefaultDebounce,
		log:      log,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			w.cleanup()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			w.cleanup()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.DebugWithFields("watching directory", []logger.Field{logger.Path(dir)})
	}

	return w, nil
}

// SetDebounce changes the quiet period before a change is reported
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Changes delivers the path of a changed file. Pending changes are
// coalesced, so a slow reader sees at most one queued notification.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Run processes filesystem events until ctx is cancelled. The watcher
// is closed when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.cleanup()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.log.InfoWithFields("data file changed", []logger.Field{logger.Path(pending)})
			w.notify(pending)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn("watcher error: %v", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

func (w *Watcher) notify(path string) {
	select {
	case w.changes <- path:
	default:
		// a reload is already queued
	}
}

func (w *Watcher) cleanup() {
	if err := w.fs.Close(); err != nil {
		w.log.Debug("failed to close watcher: %v", err)
	}
}
