package lumina

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// LayoutWatcher reloads a layout file into a DockingManager when it changes
// on disk. The fsnotify loop runs on its own goroutine but only signals a
// channel; the reload itself happens in Poll on the caller's frame loop.
type LayoutWatcher struct {
	path    string
	format  LayoutFormat
	watcher *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
	last    []byte
}

// WatchLayout starts watching path. The parent directory is watched so
// editors that replace the file by renaming are picked up.
func WatchLayout(path string) (*LayoutWatcher, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lumina: watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("lumina: watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("lumina: watch %s: %w", path, err)
	}
	lw := &LayoutWatcher{
		path:    abs,
		format:  format,
		watcher: w,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go lw.loop()
	return lw, nil
}

func (lw *LayoutWatcher) loop() {
	defer close(lw.done)
	for {
		select {
		case e, ok := <-lw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != lw.path {
				continue
			}
			if e.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case lw.changes <- struct{}{}:
			default:
			}
		case err, ok := <-lw.watcher.Errors:
			if !ok {
				return
			}
			logger().Warn("layout watcher error", "path", lw.path, "err", err)
		}
	}
}

// Path returns the absolute path being watched.
func (lw *LayoutWatcher) Path() string { return lw.path }

// Changed returns a channel that receives when the file may have changed.
func (lw *LayoutWatcher) Changed() <-chan struct{} { return lw.changes }

// Poll reloads the file into m if a change was signalled since the last
// call. Content identical to what was last loaded or saved through the
// watcher is ignored. It never blocks.
func (lw *LayoutWatcher) Poll(m *DockingManager) (bool, error) {
	select {
	case <-lw.changes:
	default:
		return false, nil
	}
	data, err := os.ReadFile(lw.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("lumina: reload %s: %w", lw.path, err)
	}
	if bytes.Equal(data, lw.last) {
		return false, nil
	}
	if err := m.LoadLayout(data, lw.format); err != nil {
		return false, err
	}
	lw.last = data
	return true, nil
}

// Save writes m's layout to the watched file, remembering the content so
// the resulting change notification does not reload it.
func (lw *LayoutWatcher) Save(m *DockingManager) error {
	data, err := m.SaveLayout(lw.format)
	if err != nil {
		return err
	}
	lw.last = data
	return os.WriteFile(lw.path, data, 0o644)
}

// Close stops watching and waits for the loop to exit.
func (lw *LayoutWatcher) Close() error {
	err := lw.watcher.Close()
	<-lw.done
	return err
}
