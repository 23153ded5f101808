package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to a store file made by any process. Bursts of
// events collapse into a single pending notification.
type Watcher struct {
	fs      *fsnotify.Watcher
	base    string
	changes chan struct{}
	errs    chan error
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewWatcher watches the directory holding path. The directory is watched
// rather than the file because FileKV replaces the file on every save.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	w := &Watcher{
		fs:      fsw,
		base:    filepath.Base(path),
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Changes delivers a value after the store file changes.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors delivers watcher failures. Only the most recent unread error is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(evt) {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// relevant matches the store file itself plus SQLite's -wal/-journal files.
func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) && !evt.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Base(evt.Name)
	if strings.HasSuffix(name, ".tmp") {
		return false
	}
	return name == w.base || strings.HasPrefix(name, w.base+"-")
}
