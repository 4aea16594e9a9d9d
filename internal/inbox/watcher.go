package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher reports files in one directory once they stop changing.
type watcher struct {
	logger *slog.Logger
	opts   Options
	fsw    *fsnotify.Watcher

	pending map[string]*pendingFile
	mu      sync.Mutex

	ready    chan string
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// pendingFile tracks a file that may still be changing.
type pendingFile struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

func newWatcher(dir string, opts Options, logger *slog.Logger) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &watcher{
		logger:  logger,
		opts:    opts,
		fsw:     fsw,
		pending: make(map[string]*pendingFile),
		ready:   make(chan string, 64),
		done:    make(chan struct{}),
	}, nil
}

// start processes fsnotify events in the background until ctx is done or
// stop is called.
func (w *watcher) start(ctx context.Context) {
	w.wg.Add(1)
	go w.loop(ctx)
}

func (w *watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("inbox watcher error", "error", err)
		}
	}
}

func (w *watcher) handle(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if !w.opts.accepts(path) {
		return
	}

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.cancel(path)
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.settle(path)
	}
}

// settle (re)starts the settle timer for path.
func (w *watcher) settle(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		w.cancel(path)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
	}
	p := &pendingFile{size: info.Size(), modTime: info.ModTime()}
	p.timer = time.AfterFunc(w.opts.SettleDelay, func() { w.checkSettled(path) })
	w.pending[path] = p
}

func (w *watcher) checkSettled(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok {
		w.mu.Unlock()
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		w.mu.Unlock()
		return
	}

	if info.Size() != p.size || !info.ModTime().Equal(p.modTime) {
		p.size = info.Size()
		p.modTime = info.ModTime()
		p.timer = time.AfterFunc(w.opts.SettleDelay, func() { w.checkSettled(path) })
		w.mu.Unlock()
		return
	}

	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case w.ready <- path:
	case <-w.done:
	}
}

func (w *watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

// stop releases the fsnotify watch and pending timers.
func (w *watcher) stop() {
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		for _, p := range w.pending {
			p.timer.Stop()
		}
		clear(w.pending)
		w.mu.Unlock()

		_ = w.fsw.Close()
		w.wg.Wait()
	})
}
