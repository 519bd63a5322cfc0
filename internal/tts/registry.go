package tts

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrEngineNotFound is returned when no engine answers to a name.
	ErrEngineNotFound = errors.New("TTS engine not found")
	// ErrEngineExists is returned when two engines claim the same name.
	ErrEngineExists = errors.New("TTS engine already registered")
)

// Registry holds the synthesis engines a narration job may pick from. A job
// that names no engine is rendered by the preferred one, which is the first
// engine registered unless SetDefault moved it.
type Registry struct {
	mu        sync.RWMutex
	byName    map[string]Engine
	preferred string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Engine)}
}

// Register makes engine selectable under engine.Name().
func (r *Registry) Register(engine Engine) error {
	name := engine.Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[name]; taken {
		return fmt.Errorf("%w: %s", ErrEngineExists, name)
	}
	r.byName[name] = engine
	if r.preferred == "" {
		r.preferred = name
	}
	return nil
}

// Get returns the engine registered under name.
func (r *Registry) Get(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(name)
}

// Default returns the preferred engine.
func (r *Registry) Default() (Engine, error) {
	return r.Resolve("")
}

// SetDefault makes name the preferred engine.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.lookupLocked(name); err != nil {
		return err
	}
	r.preferred = name
	return nil
}

// Resolve picks the engine for a job: the named one, or the preferred one
// when name is empty.
func (r *Registry) Resolve(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		if r.preferred == "" {
			return nil, fmt.Errorf("%w: no engine registered", ErrEngineNotFound)
		}
		name = r.preferred
	}
	return r.lookupLocked(name)
}

// List returns the registered engine names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) lookupLocked(name string) (Engine, error) {
	engine, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, name)
	}
	return engine, nil
}
