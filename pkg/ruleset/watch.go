package ruleset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/hookify/pkg/rule"
)

// ErrNoDirectories indicates neither tier has a rules directory to watch.
var ErrNoDirectories = errors.New("no rule directories to watch")

// Watch calls fn with the result of [Loader.Load] for event, once
// immediately and again after every change to a rule document in either
// tier. It blocks until ctx is done.
//
// Only the tier directories known to the Loader are watched, and they must
// exist when Watch is called. A rules directory created afterwards is not
// picked up until Watch is called again. Watch returns [ErrNoDirectories]
// when neither tier has a directory.
func (l *Loader) Watch(ctx context.Context, event string, fn func([]*rule.Rule)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Ignore errors.

	watched := 0

	for _, dir := range []string{l.userDir, l.projectDir} {
		if dir == "" {
			continue
		}

		err := watcher.Add(dir)
		if err != nil {
			return fmt.Errorf("watch %q: %w", dir, err)
		}

		watched++
	}

	if watched == 0 {
		return ErrNoDirectories
	}

	logger := l.logger
	if logger == nil {
		logger = slog.Default()
	}

	fn(l.Load(event))

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			match, err := filepath.Match(rule.FilePattern, filepath.Base(evt.Name))
			if err != nil || !match {
				continue
			}

			logger.Debug("rule file changed", slog.String("event", evt.String()))
			fn(l.Load(event))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn("watch rule directories", slog.Any("err", err))
		}
	}
}
