package driver

import (
	"fmt"
	"sort"
	"sync"

	"github.com/brackishdb/brackish/pkg/core"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Driver)
)

// Register adds a driver to the registry. Called by engine
// implementations in their init() functions.
func Register(name string, d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = d
}

// Get retrieves a registered driver by name.
func Get(name string) (Driver, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[name]
	return d, ok
}

// List returns all registered driver names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks whether a driver name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// lookup resolves cfg.Driver against the registry.
func lookup(cfg core.Config) (Driver, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("driver not specified")
	}
	d, ok := Get(cfg.Driver)
	if !ok {
		return nil, &UnknownDriverError{
			Name:      cfg.Driver,
			Available: List(),
		}
	}
	return d, nil
}

// UnknownDriverError is returned when an unregistered driver name is
// requested.
type UnknownDriverError struct {
	Name      string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown driver %q\nAvailable drivers: %v\nHint: Check your target.driver in brackish.yaml", e.Name, e.Available)
}
