// Package watch turns filesystem activity under a directory into coalesced
// change notifications.
package watch

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

// DefaultDelay is the coalescing window for bursts of events.
const DefaultDelay = 100 * time.Millisecond

// Options configures Dir.
type Options struct {
	// Match filters events by path. Nil accepts everything.
	Match func(path string) bool
	// Delay overrides DefaultDelay.
	Delay time.Duration
	// Recursive also watches subdirectories, including ones created later.
	Recursive bool
}

// Dir watches dir until ctx is done. Each burst of matching events produces
// one value on the returned channel. Sends never block; a pending
// notification already covers later ones. The channel is closed when the
// watcher stops.
func Dir(ctx context.Context, dir string, opts Options) (<-chan struct{}, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("watch: ensure %s: %w", dir, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	dirs := []string{dir}
	if opts.Recursive {
		dirs, err = subdirs(dir)
		if err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watch: enumerate %s: %w", dir, err)
		}
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watch: add %s: %w", d, err)
		}
	}

	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	out := make(chan struct{}, 1)
	t := newThrottle(delay, out)

	go func() {
		defer t.close()
		defer func() { _ = w.Close() }()

		for {
			select {
			case <-ctx.Done():
				return

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				// An overflow may hide real changes, so treat it as one.
				slog.Debug("watch error", "dir", dir, "err", err)
				t.enqueue()

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if opts.Recursive && ev.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						if err := w.Add(ev.Name); err != nil {
							slog.Debug("watch add failed", "dir", ev.Name, "err", err)
						}
					}
				}
				if ev.Op == fsnotify.Chmod {
					continue
				}
				if opts.Match != nil && !opts.Match(ev.Name) {
					continue
				}
				t.enqueue()
			}
		}
	}()

	return out, nil
}

func subdirs(base string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// throttle coalesces enqueued events into one send per delay window.
type throttle struct {
	mu     sync.Mutex
	timer  *time.Timer
	delay  time.Duration
	out    chan struct{}
	closed bool
}

func newThrottle(delay time.Duration, out chan struct{}) *throttle {
	return &throttle{delay: delay, out: out}
}

func (t *throttle) enqueue() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, t.flush)
}

func (t *throttle) flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = nil
	if t.closed {
		return
	}
	select {
	case t.out <- struct{}{}:
	default:
	}
}

func (t *throttle) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.closed = true
	close(t.out)
}
