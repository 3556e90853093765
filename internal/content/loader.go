package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader loads and caches the seed catalog from the filesystem.
type Loader struct {
	rootDir string
	items   map[string]Item
	mu      sync.RWMutex
}

// NewLoader creates a new catalog loader and loads all content under rootDir.
// JSON files hold an array of items (or {"items": [...]}); YAML files hold a
// list under "items". Files that fail to parse are skipped with a warning.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir: rootDir,
		items:   make(map[string]Item),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	slog.Info("catalog loaded", "items", len(l.items), "path", rootDir)
	return l, nil
}

// Get returns an item by ID.
func (l *Loader) Get(id string) (Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	it, ok := l.items[id]
	return it, ok
}

// All returns every loaded item ordered by ID.
func (l *Loader) All() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	items := make([]Item, 0, len(l.items))
	for _, it := range l.items {
		items = append(items, it)
	}
	slices.SortFunc(items, func(a, b Item) int { return strings.Compare(a.ID, b.ID) })
	return items
}

func (l *Loader) loadAll() error {
	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			if strings.HasSuffix(path, ".schema.json") {
				return nil
			}
			return l.loadFile(path, DecodeCatalogJSON)
		case ".yaml", ".yml":
			return l.loadFile(path, decodeCatalogYAML)
		}
		return nil
	})
}

func (l *Loader) loadFile(path string, decode func([]byte) ([]Item, error)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	items, err := decode(data)
	if err != nil {
		slog.Warn("skipping invalid catalog file", "path", path, "error", err)
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range items {
		if it.ID == "" {
			slog.Warn("skipping catalog item without id", "path", path, "title", it.Title)
			continue
		}
		if _, dup := l.items[it.ID]; dup {
			slog.Warn("duplicate catalog item, replacing", "path", path, "id", it.ID)
		}
		l.items[it.ID] = it
	}
	return nil
}

func decodeCatalogYAML(data []byte) ([]Item, error) {
	var doc struct {
		Items []Item `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog YAML: %w", err)
	}
	return doc.Items, nil
}
