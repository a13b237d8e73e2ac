// Package watcher notifies the workspace when the tenant data file changes
// on disk so the list can be refreshed without a keypress.
//
// The parent directory is watched rather than the file itself: editors and
// export jobs commonly replace the file by rename, which drops a watch held
// on the old inode.
package watcher

import (
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is sent when the watched file changed.
type Event struct{}

// Watch monitors path and sends an Event on the returned channel after
// each burst of changes settles for debounce. Call the returned stop
// function to tear the watcher down; the channel is closed afterwards.
func Watch(path string, debounce time.Duration, log *slog.Logger) (<-chan Event, func(), error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, nil, err
	}

	ch := make(chan Event, 1)
	done := make(chan struct{})

	// Spread refreshes of several instances watching the same file.
	jitterRange := int64(debounce / 2)

	go func() {
		defer close(ch)
		var timer *time.Timer

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !relevant(ev, abs) {
					continue
				}
				d := debounce
				if jitterRange > 0 {
					d += time.Duration(rand.Int64N(jitterRange))
				}
				if timer == nil {
					timer = time.NewTimer(d)
				} else {
					timer.Reset(d)
				}
			case <-timerChan(timer):
				timer = nil
				select {
				case ch <- Event{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("file watcher error", "path", abs, "err", err)
			case <-done:
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()

	stop := func() {
		close(done)
		_ = w.Close()
	}

	return ch, stop, nil
}

// timerChan returns the timer's channel, or a nil channel if timer is nil.
func timerChan(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// relevant reports whether ev touches the watched file. Siblings in the
// directory (editor swap files, other exports) and chmod-only events are
// ignored.
func relevant(ev fsnotify.Event, target string) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(ev.Name) == target
}
