package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"spaceinvaders/logging"
)

// Watch reloads the settings file whenever it is written or replaced and
// hands the new settings to onChange. Files that fail to load are logged and
// skipped so the previous settings stay in effect. Watch blocks until ctx is
// done.
func Watch(ctx context.Context, path string, logger logging.Logger, onChange func(Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create settings watcher")
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			settings, err := Load(abs, logger)
			if err != nil {
				logger.Warnw("Ignoring settings reload", "path", abs, "error", err)
				continue
			}
			onChange(settings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("Settings watcher error", "error", err)
		}
	}
}
