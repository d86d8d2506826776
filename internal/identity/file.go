package identity

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/unkn0wn-root/actionrun/internal/errdef"
	"github.com/unkn0wn-root/actionrun/internal/hostevent"
	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
	"github.com/unkn0wn-root/actionrun/internal/watcher"
)

type fileContents struct {
	Token  string `json:"token"  toml:"token"`
	Org    string `json:"org"    toml:"org"`
	Locale string `json:"locale" toml:"locale"`
}

// File serves credentials from a TOML or JSON file and keeps the last good
// copy when a reload fails.
type File struct {
	path    string
	handler hostevent.Handler
	logger  *slog.Logger

	mu     sync.RWMutex
	creds  Credentials
	locale string
}

func NewFile(path string, handler hostevent.Handler, logger *slog.Logger) (*File, error) {
	if handler == nil {
		handler = hostevent.Noop()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f := &File{path: filepath.Clean(path), handler: handler, logger: logger}
	contents, err := readFile(f.path)
	if err != nil {
		return nil, err
	}
	f.creds = Credentials{Token: contents.Token, Org: contents.Org}
	f.locale = contents.Locale
	return f, nil
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Credentials() Credentials {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.creds
}

// Reload re-reads the file and emits a configuration event when the identity
// changed. A missing file clears the credentials.
func (f *File) Reload() error {
	contents, err := readFile(f.path)
	if err != nil {
		return err
	}
	next := Credentials{Token: contents.Token, Org: contents.Org}

	f.mu.Lock()
	changed := next != f.creds || contents.Locale != f.locale
	f.creds = next
	f.locale = contents.Locale
	f.mu.Unlock()

	if changed {
		f.handler.OnConfiguration(hostevent.ConfigurationEvent{
			Org:    next.Org,
			Token:  next.Token,
			Locale: contents.Locale,
		})
	}
	return nil
}

// Watch reloads on every watcher event for this file until ctx is done or the
// watcher closes its channel.
func (f *File) Watch(ctx context.Context, w *watcher.Watcher) error {
	if err := w.Track(f.path); err != nil {
		return err
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-w.Events():
				if !ok {
					return
				}
				if evt.Path != f.path {
					continue
				}
				if err := f.Reload(); err != nil {
					f.logger.Warn("credentials reload failed", "path", f.path, "error", err)
				}
			}
		}
	}()
	return nil
}

func readFile(path string) (fileContents, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileContents{}, nil
	}
	if err != nil {
		return fileContents{}, errdef.Wrap(errdef.CodeFilesystem, err, "read credentials %s", path)
	}

	var out fileContents
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = jsonutil.Strict.Unmarshal(data, &out)
	} else {
		err = toml.Unmarshal(data, &out)
	}
	if err != nil {
		return fileContents{}, errdef.Wrap(errdef.CodeIdentity, err, "parse credentials %s", path)
	}
	out.Token = strings.TrimSpace(out.Token)
	out.Org = strings.TrimSpace(out.Org)
	out.Locale = strings.TrimSpace(out.Locale)
	return out, nil
}
