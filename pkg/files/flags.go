package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// UnsavedKey is the flag the builders raise while a document has unsaved
// changes. Other sessions read it to warn before opening another builder.
const UnsavedKey = "builder.unsaved"

// FlagStore persists boolean session flags in a small YAML file.
type FlagStore struct {
	mu   sync.Mutex
	path string
}

func NewFlagStore(path string) *FlagStore {
	return &FlagStore{path: path}
}

// DefaultFlagStore keeps its flags in .covenant/state.yaml.
func DefaultFlagStore() *FlagStore {
	return NewFlagStore(filepath.Join(CovenantDir, StateFile))
}

func (s *FlagStore) Path() string {
	return s.path
}

// SetUnsaved records whether a builder holds unsaved changes.
func (s *FlagStore) SetUnsaved(unsaved bool) error {
	return s.Set(UnsavedKey, unsaved)
}

func (s *FlagStore) Unsaved() (bool, error) {
	return s.Get(UnsavedKey)
}

func (s *FlagStore) Get(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags, err := s.read()
	if err != nil {
		return false, err
	}
	return flags[key], nil
}

// Set stores key. A false value removes the key from the file.
func (s *FlagStore) Set(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags, err := s.read()
	if err != nil {
		return err
	}
	if flags[key] == value {
		return nil
	}
	if value {
		flags[key] = true
	} else {
		delete(flags, key)
	}
	return s.write(flags)
}

func (s *FlagStore) read() (map[string]bool, error) {
	flags := map[string]bool{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return flags, nil
		}
		return nil, fmt.Errorf("failed to read flags %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, &flags); err != nil {
		return nil, fmt.Errorf("failed to parse flags %s: %w", s.path, err)
	}
	if flags == nil {
		flags = map[string]bool{}
	}
	return flags, nil
}

func (s *FlagStore) write(flags map[string]bool) error {
	content, err := yaml.Marshal(flags)
	if err != nil {
		return fmt.Errorf("failed to marshal flags: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for flags: %w", err)
	}
	if err := os.WriteFile(s.path, content, 0644); err != nil {
		return fmt.Errorf("failed to write flags %s: %w", s.path, err)
	}
	return nil
}
