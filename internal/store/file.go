package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File keeps every section in a single YAML document, one top-level key per
// section. A missing file is an empty store.
type File struct {
	logger *zap.Logger
	path   string
	mu     sync.Mutex
}

// NewFile returns a store backed by the YAML file at path.
func NewFile(logger *zap.Logger, path string) *File {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &File{logger: logger, path: path}
}

// Path returns the backing file location.
func (f *File) Path() string {
	return f.path
}

// Entries returns the requested sections as JSON. A section that has no JSON
// form (a mapping with non-string keys, for example) is returned as a string
// describing the problem, which no section accepts, so only that section
// falls back to its defaults.
func (f *File) Entries(_ context.Context, keys []string) (map[string][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		v, ok := doc[key]
		if !ok {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			f.logger.Warn("section in rates file has no JSON form",
				zap.String("op", "store.File.Entries"),
				zap.String("path", f.path),
				zap.String("section", key),
				zap.Error(err),
			)
			raw, err = json.Marshal(fmt.Sprintf("unreadable value: %v", err))
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s from %s: %w", key, f.path, err)
			}
		}
		out[key] = raw
	}
	return out, nil
}

func (f *File) Put(_ context.Context, key string, value []byte) error {
	var decoded any
	if err := json.Unmarshal(value, &decoded); err != nil {
		return fmt.Errorf("failed to decode value for %s: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	doc[key] = decoded

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.path, err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

func (f *File) read() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
