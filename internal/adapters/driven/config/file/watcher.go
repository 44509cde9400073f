package file

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/logger"
)

// Watcher reloads settings when the config file changes on disk, so a
// long-running serve process picks up edits without a restart.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching the settings file and invokes onChange with
// freshly loaded settings after each modification. The watch runs until
// Close is called.
func (s *SettingsStore) Watch(onChange func(domain.AppSettings)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors and atomic writers replace the file,
	// which would silently drop a watch on the file itself.
	if err := fsw.Add(filepath.Dir(s.filePath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:  fsw,
		done: make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-w.done:
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if event.Name != s.filePath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				settings, err := s.Load()
				if err != nil {
					logger.Warn("settings reload failed: %v", err)
					continue
				}
				logger.Info("settings reloaded from %s", s.filePath)
				onChange(settings)
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("settings watcher: %v", err)
			}
		}
	}()

	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
