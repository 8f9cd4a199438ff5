package trigger

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// File notifies subscribers when a file is written, created, renamed or
// removed. The parent directory is watched so editors that replace the file
// are still seen. SQLite's -wal and -journal sidecar files count as changes to
// the file.
type File struct {
	fanout

	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewFile starts watching path.
func NewFile(path string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	f := &File{
		path:    abs,
		watcher: w,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go f.loop()
	return f, nil
}

// Subscribe registers fn and returns its unsubscribe function.
func (f *File) Subscribe(fn func()) func() {
	id, _ := f.add(fn)
	var once sync.Once
	return func() { once.Do(func() { f.remove(id) }) }
}

// Close stops watching. Subscribers receive no further notifications.
func (f *File) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)
		err = f.watcher.Close()
	})
	return err
}

func (f *File) loop() {
	for {
		select {
		case <-f.done:
			return
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if f.matches(ev) {
				f.notify()
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("file watch error", "path", f.path, "err", err)
		}
	}
}

func (f *File) matches(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(ev.Name)
	if !filepath.IsAbs(name) {
		if abs, err := filepath.Abs(name); err == nil {
			name = abs
		}
	}
	return f.matchName(name)
}

// sidecarSuffixes are written by SQLite on commit. The -shm index is left out:
// readers touch it too.
var sidecarSuffixes = []string{"-wal", "-journal"}

func (f *File) matchName(name string) bool {
	if name == f.path {
		return true
	}
	rest, ok := strings.CutPrefix(name, f.path)
	if !ok {
		return false
	}
	for _, suffix := range sidecarSuffixes {
		if rest == suffix {
			return true
		}
	}
	return false
}
