package outputs

import (
	"fmt"
	"log/slog"
	"sort"
)

// Factory constructs a fully-initialized dispatcher instance from deployment
// context. Each variant package exports one.
type Factory func(opts Options) Dispatcher

// Registry indexes output variants by their unique service key. The catalog
// is assembled explicitly at process start so the set of supported services
// is verifiable at compile time; duplicate keys fail registration.
type Registry struct {
	factories map[string]Factory
	logger    *slog.Logger
}

// NewRegistry builds an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger,
	}
}

// Register adds a variant under its service key. A duplicate key is a
// startup error.
func (r *Registry) Register(serviceKey string, factory Factory) error {
	if serviceKey == "" {
		return fmt.Errorf("register output service: service key is required")
	}
	if factory == nil {
		return fmt.Errorf("register output service %q: factory is required", serviceKey)
	}
	if _, exists := r.factories[serviceKey]; exists {
		return fmt.Errorf("register output service %q: already registered", serviceKey)
	}
	r.factories[serviceKey] = factory
	return nil
}

// Get returns the factory for a service key. On a miss it logs exactly one
// error naming the key and returns nil; an unknown destination must not
// abort delivery to other, valid destinations.
func (r *Registry) Get(serviceKey string) Factory {
	factory, ok := r.factories[serviceKey]
	if !ok {
		r.logger.Error("designated output service does not exist", "service", serviceKey)
		return nil
	}
	return factory
}

// Create looks up the service key and, if known, constructs an instance
// carrying the deployment context. Returns nil after Get's error log when
// the key is unknown.
func (r *Registry) Create(serviceKey string, opts Options) Dispatcher {
	factory := r.Get(serviceKey)
	if factory == nil {
		return nil
	}
	opts.ServiceKey = serviceKey
	return factory(opts)
}

// ListRegistered returns the sorted set of known service keys.
func (r *Registry) ListRegistered() []string {
	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
