package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/unkn0wn-root/actionrun/internal/errdef"
)

type EventKind int

const (
	EventChanged EventKind = iota
	EventMissing
)

type Fingerprint struct {
	Mod  time.Time
	Size int64
	Hash string
}

type Event struct {
	Path string
	Kind EventKind
	Prev Fingerprint
	Curr Fingerprint
}

type Options struct {
	Buffer int
}

type entry struct {
	path    string
	fp      Fingerprint
	missing bool
}

// Watcher reports content changes of individual files. It listens on the
// parent directories so atomic rename-over saves are still seen, and compares
// content hashes so rewrites with identical bytes stay silent.
type Watcher struct {
	mu      sync.RWMutex
	entries map[string]*entry
	dirs    map[string]struct{}
	out     chan Event
	fsw     *fsnotify.Watcher
	stop    chan struct{}
	wg      sync.WaitGroup
	started bool
	closed  bool
}

const (
	defaultBuffer = 16
	hashPrefix    = "sha256:"
)

func New(opts Options) (*Watcher, error) {
	buf := opts.Buffer
	if buf <= 0 {
		buf = defaultBuffer
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeFilesystem, err, "create file watcher")
	}
	return &Watcher{
		entries: make(map[string]*entry),
		dirs:    make(map[string]struct{}),
		out:     make(chan Event, buf),
		fsw:     fsw,
	}, nil
}

func (w *Watcher) Events() <-chan Event {
	return w.out
}

// Track starts following path. The current content becomes the baseline.
func (w *Watcher) Track(path string) error {
	clean, ok := cleanPath(path)
	if !ok {
		return errdef.New(errdef.CodeFilesystem, "invalid watch path %q", path)
	}
	fp, missing := currentFingerprint(clean)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.entries[clean] = &entry{path: clean, fp: fp, missing: missing}

	dir := filepath.Dir(clean)
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "watch %s", dir)
	}
	w.dirs[dir] = struct{}{}
	return nil
}

func (w *Watcher) Forget(path string) {
	clean, ok := cleanPath(path)
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entries, clean)
}

func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started || w.closed {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.stop = make(chan struct{})
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		for {
			select {
			case evt, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if w.tracked(evt.Name) {
					w.Scan()
				}
			case _, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
			case <-w.stop:
				return
			}
		}
	}()
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	if w.started && w.stop != nil {
		close(w.stop)
	}
	w.mu.Unlock()
	if w.started {
		w.wg.Wait()
	}
	_ = w.fsw.Close()
	close(w.out)
}

// Scan compares every tracked file against its baseline and emits events for
// the ones that changed or disappeared.
func (w *Watcher) Scan() {
	if w.isClosed() {
		return
	}
	for _, e := range w.snapshot() {
		if evt, ok := w.check(e); ok {
			w.emit(evt)
		}
	}
}

func (w *Watcher) tracked(name string) bool {
	clean, ok := cleanPath(name)
	if !ok {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, found := w.entries[clean]
	return found
}

func (w *Watcher) snapshot() []entry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	list := make([]entry, 0, len(w.entries))
	for _, e := range w.entries {
		list = append(list, *e)
	}
	return list
}

func (w *Watcher) check(e entry) (Event, bool) {
	next, missing := currentFingerprint(e.path)
	if missing {
		if e.missing {
			return Event{}, false
		}
		w.update(e.path, e.fp, true)
		return Event{Path: e.path, Kind: EventMissing, Prev: e.fp}, true
	}

	changed := e.missing || next.Hash != e.fp.Hash
	w.update(e.path, next, false)
	if !changed {
		return Event{}, false
	}
	return Event{Path: e.path, Kind: EventChanged, Prev: e.fp, Curr: next}, true
}

func (w *Watcher) update(path string, fp Fingerprint, missing bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.entries[path]; ok {
		e.fp = fp
		e.missing = missing
	}
}

func (w *Watcher) emit(evt Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.out <- evt:
	default:
	}
}

func (w *Watcher) isClosed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.closed
}

func cleanPath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	clean := filepath.Clean(path)
	if clean == "" || clean == "." {
		return "", false
	}
	return clean, true
}

func currentFingerprint(path string) (Fingerprint, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		// unreadable is reported as missing so the change is not swallowed
		return Fingerprint{}, true
	}
	return Fingerprint{Mod: info.ModTime(), Size: int64(len(data)), Hash: hashBytes(data)}, false
}

func hashBytes(data []byte) string {
	if len(data) == 0 {
		return hashPrefix + "0"
	}
	sum := sha256.Sum256(data)
	return hashPrefix + hex.EncodeToString(sum[:])
}
