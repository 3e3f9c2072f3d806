package catalog

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dgallion1/flowguide/internal/source"
)

// Entry is one named flowchart and where to fetch it from.
type Entry struct {
	Name    string `json:"name"`
	Locator string `json:"locator"`
	Remote  bool   `json:"remote"`
}

// Catalog maps flowchart names to locators. Local entries come from globbing
// the content directory; remote entries come from configuration.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry

	dir      string
	patterns []string
	remote   map[string]string
	log      *slog.Logger
}

// New creates a Catalog. Call Reload to populate it.
func New(dir string, patterns []string, remote map[string]string, log *slog.Logger) *Catalog {
	return &Catalog{
		entries:  make(map[string]Entry),
		dir:      dir,
		patterns: patterns,
		remote:   remote,
		log:      log,
	}
}

// NameFromPath derives a flowchart name from a path relative to the content
// directory: the extension is dropped and directory separators become
// dashes, so "ops/outage.yaml" is "ops-outage".
func NameFromPath(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return strings.ReplaceAll(rel, "/", "-")
}

// Reload rescans the content directory and replaces the catalog contents.
// Remote sources win over local files with the same name.
func (c *Catalog) Reload() error {
	entries := make(map[string]Entry)

	if c.dir != "" {
		files, err := c.scan()
		if err != nil {
			return err
		}
		for _, rel := range files {
			name := NameFromPath(rel)
			if prev, dup := entries[name]; dup {
				c.log.Warn("duplicate flowchart name, keeping first", "name", name, "kept", prev.Locator, "skipped", rel)
				continue
			}
			entries[name] = Entry{Name: name, Locator: filepath.Join(c.dir, filepath.FromSlash(rel))}
		}
	}
	for name, u := range c.remote {
		entries[name] = Entry{Name: name, Locator: u, Remote: true}
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	c.log.Info("catalog loaded", "flowcharts", len(entries), "dir", c.dir)
	return nil
}

func (c *Catalog) scan() ([]string, error) {
	if _, err := os.Stat(c.dir); err != nil {
		if os.IsNotExist(err) {
			c.log.Warn("content directory missing", "dir", c.dir)
			return nil, nil
		}
		return nil, fmt.Errorf("accessing content dir %s: %w", c.dir, err)
	}

	fsys := os.DirFS(c.dir)
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range c.patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || !supported(m) {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func supported(p string) bool {
	_, ok := source.SupportedExtensions[strings.ToLower(path.Ext(p))]
	return ok
}

// Lookup returns the entry for name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}

// List returns every entry sorted by name.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// contentDirs lists the content directory and every subdirectory.
func (c *Catalog) contentDirs() ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(c.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	return dirs, err
}
