package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Library caches decoded sounds by name
// Names resolve to files under root on first use; Add registers generated sounds
type Library struct {
	mu     sync.RWMutex
	root   string
	sounds map[string]*Sound
}

// NewLibrary creates a library; empty root disables file lookup
func NewLibrary(root string) *Library {
	return &Library{
		root:   root,
		sounds: make(map[string]*Sound),
	}
}

// Add registers s under its name, replacing any previous entry
func (l *Library) Add(s *Sound) {
	if s == nil {
		return
	}
	l.mu.Lock()
	l.sounds[s.Name()] = s
	l.mu.Unlock()
}

// Get returns the cached sound or decodes it from root on demand
func (l *Library) Get(name string) (*Sound, error) {
	l.mu.RLock()
	if s, ok := l.sounds[name]; ok {
		l.mu.RUnlock()
		return s, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := l.sounds[name]; ok {
		return s, nil
	}

	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	s, err := LoadSound(path)
	if err != nil {
		return nil, err
	}
	l.sounds[name] = s
	return s, nil
}

// Load decodes path and caches it under its base name, replacing any previous entry
func (l *Library) Load(path string) (*Sound, error) {
	s, err := LoadSound(path)
	if err != nil {
		return nil, err
	}
	l.Add(s)
	return s, nil
}

// resolve finds the first supported file named name under root
func (l *Library) resolve(name string) (string, error) {
	if l.root == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownSound, name)
	}
	for _, ext := range []string{".wav", ".ogg", ".mp3", ".aiff", ".aif", ".oga"} {
		path := filepath.Join(l.root, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrUnknownSound, name, l.root)
}

// Preload decodes every supported file directly under root
// Files that fail to decode are skipped and reported in the joined error
func (l *Library) Preload() (int, error) {
	if l.root == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return 0, fmt.Errorf("preload %s: %w", l.root, err)
	}

	var errs []error
	loaded := 0
	for _, e := range entries {
		if e.IsDir() || !Supported(filepath.Ext(e.Name())) {
			continue
		}
		s, err := LoadSound(filepath.Join(l.root, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		l.Add(s)
		loaded++
	}
	return loaded, errors.Join(errs...)
}

// Names returns cached sound names in sorted order
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.sounds))
	for name := range l.sounds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of cached sounds
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sounds)
}
