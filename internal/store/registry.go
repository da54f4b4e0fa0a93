package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/squareone-research/cafeferry/internal/config"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Store)
)

// Register adds a store factory to the registry.
// Called by store implementations in their init() functions.
func Register(kind string, factory func(*slog.Logger) Store) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = factory
}

// Get retrieves a store factory by adapter name.
func Get(kind string) (func(*slog.Logger) Store, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[kind]
	return f, ok
}

// New creates a new store instance for the configured adapter.
// The logger parameter is passed to the store constructor (nil uses discard logger).
func New(cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	if cfg.Adapter == "" {
		return nil, fmt.Errorf("store adapter not specified")
	}

	factory, ok := Get(cfg.Adapter)
	if !ok {
		return nil, &UnknownStoreError{
			Kind:      cfg.Adapter,
			Available: List(),
		}
	}
	return factory(logger), nil
}

// Open creates a store for the config and connects it.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	st, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return st, nil
}

// List returns all registered adapter names (sorted).
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

// IsRegistered checks if an adapter name is registered.
func IsRegistered(kind string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[kind]
	return ok
}

// UnknownStoreError is returned when an unknown adapter name is requested.
type UnknownStoreError struct {
	Kind      string
	Available []string
}

func (e *UnknownStoreError) Error() string {
	return fmt.Sprintf("unknown store adapter %q\nAvailable adapters: %v\nHint: Check the adapter fields in cafeferry.yaml", e.Kind, e.Available)
}
