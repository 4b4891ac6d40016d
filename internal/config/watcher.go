package config

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// ErrWatcherClosed is returned when using a closed watcher.
var ErrWatcherClosed = errors.New("watcher closed")

// Op is a set of file operations.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

// Has reports whether op includes other.
func (op Op) Has(other Op) bool {
	return op&other != 0
}

// String returns the operations joined by "|".
func (op Op) String() string {
	var parts []string
	if op.Has(OpCreate) {
		parts = append(parts, "create")
	}
	if op.Has(OpWrite) {
		parts = append(parts, "write")
	}
	if op.Has(OpRemove) {
		parts = append(parts, "remove")
	}
	if op.Has(OpRename) {
		parts = append(parts, "rename")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Event reports a change to a watched file. Rapid changes to one file are
// coalesced into a single event carrying every operation seen.
type Event struct {
	Path      string
	Op        Op
	Timestamp time.Time
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// Watcher reports changes to a set of configuration files. It watches
// the containing directories so that editors replacing a file by rename
// are still noticed.
type Watcher struct {
	fsw   *fsnotify.Watcher
	delay time.Duration
	log   *logrus.Entry

	mu      sync.Mutex
	files   map[string]bool
	dirs    map[string]bool
	pending map[string]*pendingEvent
	closed  bool

	events  chan Event
	errors  chan error
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long a file must stay quiet before its event is
// delivered.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(log *logrus.Entry) WatcherOption {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWatcher creates a watcher with nothing watched yet.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)
	w := &Watcher{
		fsw:     fsw,
		delay:   100 * time.Millisecond,
		log:     logrus.NewEntry(discard),
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, 16),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch adds a file. The file does not need to exist yet, but its
// directory does.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return nil
	}

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	w.log.WithField("path", abs).Debug("watching file")
	return nil
}

// Files returns the watched files.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	return out
}

// Events returns the debounced event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. Pending events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("file watch error")
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// handle filters an fsnotify event down to watched files and debounces it.
func (w *Watcher) handle(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[abs] {
		return
	}

	if p, ok := w.pending[abs]; ok {
		p.event.Op |= op
		p.event.Timestamp = time.Now()
		p.timer.Reset(w.delay)
		return
	}

	p := &pendingEvent{event: Event{Path: abs, Op: op, Timestamp: time.Now()}}
	p.timer = time.AfterFunc(w.delay, func() { w.fire(abs) })
	w.pending[abs] = p
}

// fire delivers a pending event. The send happens under the lock so it
// cannot race with Close closing the channel.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pending[path]
	if !ok || w.closed {
		return
	}
	delete(w.pending, path)

	select {
	case w.events <- p.event:
		w.log.WithFields(logrus.Fields{"path": path, "op": p.event.Op.String()}).Debug("file changed")
	default:
		w.log.WithField("path", path).Warn("event channel full, dropping event")
	}
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
