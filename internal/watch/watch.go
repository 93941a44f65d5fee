package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Files calls onChange with the path of any of paths that is written or
// (re)created, until ctx is done. Parent directories are watched so that
// editors replacing a file by rename are still noticed.
func Files(ctx context.Context, paths []string, onChange func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer w.Close()

	targets := make(map[string]string, len(paths))
	dirs := map[string]struct{}{}
	for _, path := range paths {
		cleaned := filepath.Clean(path)
		targets[cleaned] = path
		dirs[filepath.Dir(cleaned)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watcher.Add(%q): %w", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if path, ok := targets[filepath.Clean(ev.Name)]; ok {
				onChange(path)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("failed to watch files: %v", err)
		}
	}
}
