package sim

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"blockpalette/internal/eventbus"
	"blockpalette/internal/logging"
)

// Watch reloads the engine whenever the toolbox or definitions file changes,
// publishing ToolboxChanged after each successful reload. It returns when ctx
// is cancelled. Embedded defaults are never watched.
func (e *Engine) Watch(ctx context.Context) error {
	log := logging.NewLogger("sim")

	files := make(map[string]bool)
	for _, p := range []string{e.opts.ToolboxPath, e.opts.BlocksPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		files[abs] = true
	}
	if len(files) == 0 {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories so editors that replace files on save are still seen
	dirs := make(map[string]bool)
	for f := range files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := e.Reload(); err != nil {
				log.Warnf("Reload after change to %s failed: %v", event.Name, err)
				continue
			}
			log.Infof("Reloaded editor sources after change to %s", event.Name)
			if e.bus != nil {
				e.bus.Publish(eventbus.ToolboxChangedEvent{Path: event.Name})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Watcher error: %v", err)
		}
	}
}
