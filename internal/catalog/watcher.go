package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"intervue/internal/errors"
)

// Watcher watches the catalog file for changes and reloads the
// catalog. Reloads are debounced so editors that write in several
// steps trigger a single reload. A reload that fails to parse keeps
// the last good role set.
type Watcher struct {
	mu sync.RWMutex

	catalog *Catalog

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer
	lastModTime   time.Time

	stopChan   chan struct{}
	reloadChan chan struct{}

	logger *errors.Logger

	running bool
}

// NewWatcher creates a watcher for the catalog's backing file.
func NewWatcher(catalog *Catalog, debounceDelay time.Duration, logger *errors.Logger) *Watcher {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &Watcher{
		catalog:       catalog,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		logger:        logger,
	}
}

// Start begins watching the catalog file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("catalog watcher is already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsWatcher = fsWatcher

	if stat, err := os.Stat(w.catalog.path); err == nil {
		w.lastModTime = stat.ModTime()
	}

	// Watch the directory rather than the file so atomic writes
	// (write to temp then rename) are still observed.
	dir := filepath.Dir(w.catalog.path)
	if err := fsWatcher.Add(dir); err != nil {
		w.cleanupWatcher()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.running = true
	go w.watchLoop()

	if w.logger != nil {
		w.logger.Info("Role catalog watcher started",
			"file", w.catalog.path,
			"debounce_delay", w.debounceDelay)
	}
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopChan)

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	if w.fsWatcher != nil {
		if err := w.fsWatcher.Close(); err != nil {
			if w.logger != nil {
				w.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	w.running = false

	if w.logger != nil {
		w.logger.Info("Role catalog watcher stopped")
	}
	return nil
}

func (w *Watcher) cleanupWatcher() {
	if w.fsWatcher != nil {
		if closeErr := w.fsWatcher.Close(); closeErr != nil && w.logger != nil {
			w.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
	}
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "Catalog watcher error")
			}

		case <-w.reloadChan:
			if w.hasFileChanged() {
				w.reload()
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.catalog.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) hasFileChanged() bool {
	stat, err := os.Stat(w.catalog.path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if stat.ModTime().After(w.lastModTime) {
		w.lastModTime = stat.ModTime()
		return true
	}
	return false
}

func (w *Watcher) reload() {
	if err := w.catalog.Reload(); err != nil {
		// Keep serving the previous role set
		if w.logger != nil {
			w.logger.LogError(err, "Catalog reload failed, keeping previous roles",
				"file", w.catalog.path)
		}
		return
	}

	if w.logger != nil {
		w.logger.Info("Role catalog reloaded",
			"file", w.catalog.path,
			"roles", w.catalog.Len())
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
			// Reload already scheduled
		}
	})
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
