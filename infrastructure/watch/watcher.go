// Package watch reports edits to world and config files using fsnotify.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/kara-go/infrastructure/logging"
)

var (
	// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
	ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

	// ErrNoPaths indicates nothing was given to watch.
	ErrNoPaths = errors.New("no paths to watch")
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 100 * time.Millisecond

// Event reports that a watched file changed.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string

	// Op is the last filesystem operation seen for the file.
	Op fsnotify.Op

	// Time is when the change was reported.
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero reports every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger used for watcher errors.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// Watcher watches individual files. It watches their parent directories so
// editors that save by rename are still seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	log      *logging.Logger
	events   chan Event
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for the given files.
func New(paths []string, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}

	w := &Watcher{
		files:    make(map[string]struct{}, len(paths)),
		debounce: DefaultDebounce,
		events:   make(chan Event, 1),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logging.Wrap(nil).With(logging.Component("watch"))
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.watcher = watcher
	return w, nil
}

// Start begins watching in a background goroutine. The Events channel is
// closed once the watcher stops.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Events returns the channel of debounced change events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop stops the watcher and releases its resources. It is safe to call
// more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		_ = w.watcher.Close()
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.events)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending *Event
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			pending = &Event{Path: filepath.Clean(ev.Name), Op: ev.Op}
			if w.debounce == 0 {
				if !w.emit(ctx, pending) {
					return
				}
				pending = nil
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			if pending != nil {
				if !w.emit(ctx, pending) {
					return
				}
				pending = nil
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Add(logging.ErrorField(err)).Msg("watcher error")
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) emit(ctx context.Context, ev *Event) bool {
	ev.Time = time.Now()
	w.log.Debug().Add(logging.Path(ev.Path)).Add(logging.Str("op", ev.Op.String())).Msg("file changed")

	select {
	case w.events <- *ev:
		return true
	case <-w.stop:
		return false
	case <-ctx.Done():
		return false
	}
}
