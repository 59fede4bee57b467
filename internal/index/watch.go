package index

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const settleDelay = 200 * time.Millisecond

// Watcher keeps the index current while vault files change. Events debounce
// per path; once a path settles it is re-indexed or, if gone from disk,
// removed. Link targets re-resolve after every update so a link to a
// just-created note stops dangling.
type Watcher struct {
	indexer *Indexer
	watcher *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]*time.Timer
	applyMu sync.Mutex // one index update at a time
	onDone  func(action, path string, err error)
}

// NewWatcher watches the indexer's vault root and its subdirectories.
// onDone, when set, is called after each applied update with the action
// taken ("indexed" or "removed") and the vault-relative path; watch errors
// arrive with an empty path.
func NewWatcher(idx *Indexer, onDone func(action, path string, err error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		indexer: idx,
		watcher: fw,
		pending: make(map[string]*time.Timer),
		onDone:  onDone,
	}

	// Add vault root and subdirectories
	filepath.Walk(idx.vaultRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != idx.vaultRoot {
				return filepath.SkipDir
			}
			fw.Add(path)
		}
		return nil
	})

	return w, nil
}

// Start begins watching for changes. Blocks until Stop is called.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report("", "", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	// Watch new directories as they appear.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.watcher.Add(event.Name)
			return
		}
	}

	// Debounce per path: editors fire several events per save.
	w.mu.Lock()
	if timer, ok := w.pending[event.Name]; ok {
		timer.Stop()
	}
	path := event.Name
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.apply(path)
	})
	w.mu.Unlock()
}

// apply indexes or removes one settled path. Disk state decides: a path that
// no longer exists leaves the index regardless of which events led here.
func (w *Watcher) apply(path string) {
	w.applyMu.Lock()
	defer w.applyMu.Unlock()

	rel := w.indexer.relPath(path)
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		w.report("removed", rel, w.indexer.RemoveFile(path))
	case err != nil:
		w.report("", rel, err)
	case info.IsDir():
		// Directory events carry no content; files inside arrive on their own.
	default:
		err := w.indexer.IndexFile(path)
		if err == nil {
			err = w.indexer.resolveAll()
		}
		w.report("indexed", rel, err)
	}
}

func (w *Watcher) report(action, path string, err error) {
	if w.onDone != nil {
		w.onDone(action, path, err)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
