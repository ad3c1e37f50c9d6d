// Package theme manages the light/dark display preference.
package theme

import (
	"fmt"
	"sync"
)

// StorageKey is the key the preference is persisted under.
const StorageKey = "theme"

// Theme is the display mode.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse returns the theme named by s. Only "light" and "dark" are accepted.
func Parse(s string) (Theme, bool) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), true
	}
	return "", false
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Icon is the name of the toggle icon shown for the theme: the moon
// offers dark mode, the sun offers light mode.
func (t Theme) Icon() string {
	if t == Dark {
		return "sun"
	}
	return "moon"
}

// Storage is a durable key-value surface scoped to one visitor.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Manager reads and writes the preference through a Storage.
type Manager struct {
	store  Storage
	system Theme // "" when the host exposes no system signal
	icon   string
}

// Option configures a Manager.
type Option func(*Manager)

// WithSystemPreference layers a host-level dark-mode signal under any
// explicit user choice. Unknown values are ignored.
func WithSystemPreference(s string) Option {
	return func(m *Manager) {
		if t, ok := Parse(s); ok {
			m.system = t
		}
	}
}

// NewManager returns a Manager backed by store.
func NewManager(store Storage, opts ...Option) *Manager {
	m := &Manager{store: store}
	for _, o := range opts {
		o(m)
	}
	m.icon = m.Get().Icon()
	return m
}

// Get returns the persisted theme, falling back to the system signal and
// then to Light.
func (m *Manager) Get() Theme {
	if v, ok := m.store.Get(StorageKey); ok {
		if t, ok := Parse(v); ok {
			return t
		}
	}
	if m.system != "" {
		return m.system
	}
	return Light
}

// Set persists t and swaps the icon.
func (m *Manager) Set(t Theme) error {
	if err := m.store.Set(StorageKey, string(t)); err != nil {
		return fmt.Errorf("theme: persist %q: %w", t, err)
	}
	m.icon = t.Icon()
	return nil
}

// Toggle flips the theme and returns the new value.
func (m *Manager) Toggle() (Theme, error) {
	next := m.Get().Opposite()
	if err := m.Set(next); err != nil {
		return m.Get(), err
	}
	return next, nil
}

// Icon returns the presentational icon for the current state.
func (m *Manager) Icon() string { return m.icon }

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
