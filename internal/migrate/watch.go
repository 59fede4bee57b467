package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const settleDelay = 200 * time.Millisecond

// Watcher monitors the export tree and re-runs the migration once changes
// settle. A change can rename registry keys, which shifts links in other
// files, so each batch triggers a full re-run rather than a per-file one.
type Watcher struct {
	migrator *Migrator
	watcher  *fsnotify.Watcher
	destAbs  string
	mu       sync.Mutex
	timer    *time.Timer
	runMu    sync.Mutex // one migration batch at a time
	onDone   func(Stats, error)
}

func NewWatcher(m *Migrator, onDone func(Stats, error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	destAbs, err := filepath.Abs(m.opts.Dest)
	if err != nil {
		destAbs = m.opts.Dest
	}

	w := &Watcher{
		migrator: m,
		watcher:  fw,
		destAbs:  destAbs,
		onDone:   onDone,
	}

	// Add export root and subdirectories
	filepath.Walk(m.opts.Source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != m.opts.Source {
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
			w.migrator.logger.Error("watch error", "error", err)
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
	// Ignore our own writes when the vault sits inside the export tree.
	if abs, err := filepath.Abs(event.Name); err == nil {
		if abs == w.destAbs || strings.HasPrefix(abs, w.destAbs+string(filepath.Separator)) {
			return
		}
	}

	// Watch new directories as they appear.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.watcher.Add(event.Name)
		}
	}

	// Debounce: re-run once events settle.
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(settleDelay, w.run)
	w.mu.Unlock()
}

// run executes one migration batch. Events can arm a new timer while a batch
// is in flight; the lock makes the next batch wait instead of racing writes
// to the same destination files.
func (w *Watcher) run() {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	stats, err := w.migrator.Run()
	if w.onDone != nil {
		w.onDone(stats, err)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
