package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last filesystem event
// before rescanning.
const DefaultDebounce = 250 * time.Millisecond

// Watch rescans the catalog whenever files under the content directory
// change, until ctx is cancelled. Mounted trees are not affected; only new
// mounts see the reloaded catalog.
func (c *Catalog) Watch(ctx context.Context, debounce time.Duration) error {
	if c.dir == "" {
		<-ctx.Done()
		return nil
	}
	if _, err := os.Stat(c.dir); err != nil {
		c.log.Warn("not watching content directory", "dir", c.dir, "error", err)
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dirs, err := c.contentDirs()
	if err != nil {
		return fmt.Errorf("listing content dirs: %w", err)
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				// New subdirectories need their own watch.
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						c.log.Warn("watch new directory", "dir", ev.Name, "error", err)
					}
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("content watcher error", "error", err)
		case <-fire:
			if err := c.Reload(); err != nil {
				c.log.Error("catalog reload failed", "error", err)
			}
		}
	}
}
