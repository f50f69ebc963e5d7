package source

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Update carries the reloaded content of a watched file.
type Update struct {
	Path string
	Text string
	Err  error
}

// Watcher reloads a file whenever it changes on disk. The parent directory is
// watched so editors that save by renaming a temp file are still noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	fs       *fsnotify.Watcher
	updates  chan Update
	done     chan struct{}
	once     sync.Once
}

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watch starts watching path. Close must be called to release the watcher.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		cleanupWatcher(fsw)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		fs:       fsw,
		updates:  make(chan Update, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Updates delivers one Update per settled change. It is closed by Close.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.updates)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("[source] watch error on %s: %v", w.path, err)
			if !w.send(Update{Path: w.path, Err: err}) {
				return
			}
		case <-fire:
			fire = nil
			text, err := Load(w.path)
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if !w.send(Update{Path: w.path, Text: text, Err: err}) {
				return
			}
		}
	}
}

func (w *Watcher) send(u Update) bool {
	select {
	case w.updates <- u:
		return true
	case <-w.done:
		return false
	}
}

func cleanupWatcher(fsw *fsnotify.Watcher) {
	if err := fsw.Close(); err != nil {
		log.Printf("[source] failed to close watcher: %v", err)
	}
}
