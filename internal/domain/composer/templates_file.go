package composer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Templates []Template `yaml:"templates"`
	Snippets  []Snippet  `yaml:"snippets"`
}

// LoadCatalogFile reads a YAML catalog of templates and snippets.
func LoadCatalogFile(path string) ([]Template, []Snippet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read template catalog: %w", err)
	}

	var cat catalogFile
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, nil, fmt.Errorf("failed to parse template catalog: %w", err)
	}

	seen := map[string]bool{}
	for _, t := range cat.Templates {
		if t.ID == "" {
			return nil, nil, fmt.Errorf("template %q: id is required", t.Name)
		}
		if seen["t:"+t.ID] {
			return nil, nil, fmt.Errorf("template %s: duplicate id", t.ID)
		}
		seen["t:"+t.ID] = true
		for i, bp := range t.Components {
			if !ValidKind(bp.Type) {
				return nil, nil, fmt.Errorf("template %s component %d: %w: %q", t.ID, i, ErrInvalidKind, bp.Type)
			}
		}
	}
	for _, s := range cat.Snippets {
		if s.ID == "" {
			return nil, nil, fmt.Errorf("snippet %q: id is required", s.Name)
		}
		if seen["s:"+s.ID] {
			return nil, nil, fmt.Errorf("snippet %s: duplicate id", s.ID)
		}
		seen["s:"+s.ID] = true
		if !ValidKind(s.Type) {
			return nil, nil, fmt.Errorf("snippet %s: %w: %q", s.ID, ErrInvalidKind, s.Type)
		}
	}
	return cat.Templates, cat.Snippets, nil
}

// LoadLibrary returns the built-in catalog merged with the catalog at path.
// Entries from the file replace built-ins with the same id. An empty path
// yields the built-in catalog.
func LoadLibrary(path string) (*Library, error) {
	lib := DefaultLibrary()
	if path == "" {
		return lib, nil
	}
	if err := reloadLibrary(lib, path); err != nil {
		return nil, err
	}
	return lib, nil
}

func reloadLibrary(lib *Library, path string) error {
	templates, snippets, err := LoadCatalogFile(path)
	if err != nil {
		return err
	}
	lib.Replace(mergeTemplates(BuiltinTemplates(), templates), mergeSnippets(BuiltinSnippets(), snippets))
	return nil
}

func mergeTemplates(base, extra []Template) []Template {
	out := make([]Template, 0, len(base)+len(extra))
	idx := map[string]int{}
	for _, t := range append(base, extra...) {
		if i, ok := idx[t.ID]; ok {
			out[i] = t
			continue
		}
		idx[t.ID] = len(out)
		out = append(out, t)
	}
	return out
}

func mergeSnippets(base, extra []Snippet) []Snippet {
	out := make([]Snippet, 0, len(base)+len(extra))
	idx := map[string]int{}
	for _, s := range append(base, extra...) {
		if i, ok := idx[s.ID]; ok {
			out[i] = s
			continue
		}
		idx[s.ID] = len(out)
		out = append(out, s)
	}
	return out
}

// WatchCatalogFile reloads lib whenever the catalog at path is written or
// replaced, until ctx is done. A catalog that fails to parse is logged and
// the previous catalog stays active.
func WatchCatalogFile(ctx context.Context, path string, lib *Library, logger logrus.FieldLogger) error {
	if logger == nil {
		logger = discardLogger()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if err := reloadLibrary(lib, path); err != nil {
					logger.WithError(err).WithField("path", path).Error("template catalog reload failed")
					continue
				}
				logger.WithField("path", path).Info("template catalog reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithError(err).Warn("template catalog watcher error")
			}
		}
	}()
	return nil
}
