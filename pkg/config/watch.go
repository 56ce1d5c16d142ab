package config

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/ha1tch/roadview/pkg/roadview"
)

// DefaultDebounce is how long a Watcher waits for more changes before
// reporting them.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to a fixed set of files.
//
// The parent directories are watched rather than the files, so editors
// that save by renaming a temporary file are seen too. Changes are batched
// until no event arrived for Debounce.
type Watcher struct {
	Debounce time.Duration

	fs     *fsnotify.Watcher
	wanted map[string]string // absolute path -> path as given
}

// NewWatcher starts watching paths. Events that happen after it returns
// are delivered by Run.
func NewWatcher(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	w := &Watcher{Debounce: DefaultDebounce, fs: fw, wanted: make(map[string]string)}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "resolve %s", p)
		}
		w.wanted[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "watch %s", dir)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run delivers batches of changed paths to onChange until ctx is done or
// the watcher is closed. onChange runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) {
	pending := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
		if len(pending) == 0 {
			return
		}
		changed := make([]string, 0, len(pending))
		for p := range pending {
			changed = append(changed, p)
		}
		sort.Strings(changed)
		clear(pending)
		onChange(changed)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			p, watched := w.wanted[filepath.Clean(ev.Name)]
			if !watched || ev.Op == fsnotify.Chmod {
				continue
			}
			pending[p] = true
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.Debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			roadview.Logger().Warn("file watcher", "err", err)
		case <-timerC:
			flush()
		}
	}
}

// Watch reports changes to paths until ctx is done.
func Watch(ctx context.Context, paths []string, onChange func(changed []string)) error {
	w, err := NewWatcher(paths...)
	if err != nil {
		return err
	}
	defer w.Close()
	w.Run(ctx, onChange)
	return nil
}
