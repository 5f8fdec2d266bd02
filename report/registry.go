package report

import (
	"fmt"
	"sync"
)

// Factory is a function that creates a new instance of a reporter.
type Factory func() Reporter

// registry holds registered reporter factories.
var (
	registryMu sync.RWMutex
	reporters  = make(map[string]Factory)
)

// Register registers a reporter factory under the given name.
// It panics if the name is already registered or if the factory is nil.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic(fmt.Sprintf("report: Register factory is nil for %q", name))
	}
	if _, exists := reporters[name]; exists {
		panic(fmt.Sprintf("report: Register called twice for %q", name))
	}
	reporters[name] = factory
}

// Get returns a new instance of the reporter with the given name.
// Returns an error if no reporter is registered with that name.
func Get(name string) (Reporter, error) {
	registryMu.RLock()
	factory, exists := reporters[name]
	registryMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("report: unknown reporter %q", name)
	}
	return factory(), nil
}

// List returns the names of all registered reporters.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(reporters))
	for name := range reporters {
		names = append(names, name)
	}
	return names
}

// IsRegistered returns true if a reporter with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	_, exists := reporters[name]
	return exists
}

// Unregister removes a reporter from the registry.
// This is primarily useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(reporters, name)
}

// UnregisterAll removes all reporters from the registry.
// This is primarily useful for testing.
func UnregisterAll() {
	registryMu.Lock()
	defer registryMu.Unlock()

	reporters = make(map[string]Factory)
}
