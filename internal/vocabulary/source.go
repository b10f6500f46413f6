// Package vocabulary loads named word->translation tables and owns the
// process-wide active source selection.
package vocabulary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

var (
	// ErrSourceNotFound reports that no file exists for the requested source name.
	ErrSourceNotFound = errors.New("vocabulary source not found")
	// ErrSourceParse reports a source file that exists but cannot be used.
	ErrSourceParse = errors.New("vocabulary source malformed")
)

// FallbackName is the compiled-in source that is always available.
const FallbackName = "builtin"

// DefaultSourceName is activated implicitly when no source was ever selected.
const DefaultSourceName = "CET4"

// Source is an immutable snapshot of one loaded vocabulary table.
type Source struct {
	name    string
	entries map[string]models.VocabularyEntry
	words   []string
}

// Name returns the logical source name, e.g. "CET4".
func (s *Source) Name() string { return s.name }

// Len returns the number of entries in the source.
func (s *Source) Len() int { return len(s.entries) }

// TranslationsFor returns the known translations for a word.
func (s *Source) TranslationsFor(word string) ([]string, bool) {
	entry, ok := s.entries[word]
	if !ok {
		return nil, false
	}
	out := make([]string, len(entry.Translations))
	copy(out, entry.Translations)
	return out, true
}

// Words returns all words of the source in a stable order.
func (s *Source) Words() []string {
	out := make([]string, len(s.words))
	copy(out, s.words)
	return out
}

func newSource(name string, entries map[string]models.VocabularyEntry) *Source {
	words := make([]string, 0, len(entries))
	for w := range entries {
		words = append(words, w)
	}
	sort.Strings(words)
	return &Source{name: name, entries: entries, words: words}
}

// Manager owns the active source handle. Exactly one source is active per
// process; readers take a snapshot per operation so a concurrent switch is
// seen either entirely or not at all.
type Manager struct {
	dir         string
	defaultName string

	mu     sync.RWMutex
	active *Source
}

// NewManager creates a manager over a directory of source files. An empty
// defaultName falls back to DefaultSourceName.
func NewManager(dir, defaultName string) *Manager {
	if defaultName == "" {
		defaultName = DefaultSourceName
	}
	return &Manager{dir: dir, defaultName: defaultName}
}

// Load reads the named source without changing the active selection.
func (m *Manager) Load(name string) (*Source, error) {
	if name == FallbackName {
		return builtinSource(), nil
	}
	for _, ext := range []string{".xlsx", ".csv"} {
		path := filepath.Join(m.dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		entries, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("%w: %s has no usable rows", ErrSourceParse, path)
		}
		return newSource(name, entries), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrSourceNotFound, name)
}

// Activate loads the named source and, only on success, makes it active.
// On failure the previously active source keeps answering lookups.
func (m *Manager) Activate(name string) error {
	src, err := m.Load(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.active = src
	m.mu.Unlock()
	return nil
}

// Snapshot returns the active source, activating the default on first use.
// The second return value is true when this call fell back to an implicit
// default, so the caller can attach a "default in use" notice.
func (m *Manager) Snapshot() (*Source, bool) {
	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()
	if active != nil {
		return active, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		return m.active, false
	}
	src, err := m.Load(m.defaultName)
	if err != nil {
		src = builtinSource()
	}
	m.active = src
	return src, true
}

// ListAvailable returns the names of all discoverable sources plus the
// built-in fallback, which is always listed.
func (m *Manager) ListAvailable() []string {
	seen := map[string]bool{FallbackName: true}
	names := []string{FallbackName}
	matches, _ := filepath.Glob(filepath.Join(m.dir, "*"))
	for _, path := range matches {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".xlsx" && ext != ".csv" {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
