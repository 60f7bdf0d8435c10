package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anvil/engine/core"
)

/**
 * @brief Watches a configuration file and re-parses it on change, so
 * edits to the tool defaults apply without a restart. The watch is on
 * the containing directory because editors typically replace the file
 * instead of writing it in place.
 */
type Watcher struct {
	path     string
	onChange func(*Config)

	mutex    sync.RWMutex
	current  *Config
	fsnotify *fsnotify.Watcher
	done     chan struct{}
	isClosed bool
}

func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(path)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		onChange: onChange,
		current:  c,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	go w.start()
	return w, nil
}

// Current returns the most recently loaded valid configuration.
func (w *Watcher) Current() *Config {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.current
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return nil
	}
	w.isClosed = true
	close(w.done)
	return nil
}

func (w *Watcher) start() {
	for {
		select {
		case e := <-w.fsnotify.Events:
			if filepath.Clean(e.Name) != filepath.Clean(w.path) {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.reload()

		case e := <-w.fsnotify.Errors:
			core.LogError(e.Error())

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

// reload re-parses the file. A broken config keeps the last valid one
// so a half-saved file cannot wipe the tool defaults.
func (w *Watcher) reload() {
	c, err := Load(w.path)
	if err != nil {
		core.LogWarn("config reload failed, keeping previous: %v", err)
		return
	}
	w.mutex.Lock()
	w.current = c
	w.mutex.Unlock()
	core.LogInfo("config reloaded from '%s'", w.path)
	if w.onChange != nil {
		w.onChange(c)
	}
}
