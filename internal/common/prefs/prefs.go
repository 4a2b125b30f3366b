// Package prefs stores user preferences as key=value lines.
package prefs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/obentoo/dnfkit/internal/common/config"
)

const (
	// FileName is the preferences file inside the config directory
	FileName = "preferences.ini"
	// KeyEnableCache toggles the search result cache ("true"/"false")
	KeyEnableCache = "enable_cache"
)

// ErrInvalidKey is returned by Set for keys that cannot be stored
var ErrInvalidKey = errors.New("preference key must be non-empty and contain no '=' or newline")

// Reader reads string preferences
type Reader interface {
	Get(key, def string) string
}

// Store is a preferences file loaded into memory.
// Reads are served from memory; Set rewrites the whole file.
type Store struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// DefaultPath returns the preferences file path in the dnfkit config directory
func DefaultPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Open loads the preferences file at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]string{}}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the backing file
func (s *Store) Reload() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.values = map[string]string{}
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to open preferences: %w", err)
	}
	defer f.Close()

	values, err := Parse(f)
	if err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Get returns the value for key, or def when it is not set
func (s *Store) Get(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Set stores value under key and rewrites the file
func (s *Store) Set(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, "=\n") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	value = strings.ReplaceAll(strings.TrimSpace(value), "\n", " ")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.saveUnsafe()
}

// Keys returns the stored keys in sorted order
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// saveUnsafe writes all values through a temp file and rename.
// Caller must hold the write lock.
func (s *Store) saveUnsafe() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%s\n", k, s.values[k])
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// Parse reads key=value lines. Blank lines, lines starting with '#' and
// lines without '=' are skipped. Keys and values are trimmed; the first
// occurrence of a key wins.
func Parse(r io.Reader) (map[string]string, error) {
	values := map[string]string{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if _, seen := values[key]; seen {
			continue
		}
		values[key] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// CacheEnabled reads the enable_cache preference (default "true")
func CacheEnabled(r Reader) bool {
	return strings.EqualFold(r.Get(KeyEnableCache, "true"), "true")
}

// FormatBool renders a preference boolean
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
