package model

import (
	"slices"
	"sort"
)

// OutputConfig is the per-deployment output configuration: a mapping from
// service key to the ordered sequence of descriptors configured for that
// service. It is the only persisted configuration artifact owned by the
// dispatch core; credential bundles live in the vault.
type OutputConfig map[string][]string

// Descriptors returns the configured descriptor sequence for a service.
// The returned slice is a copy; mutating it does not change the config.
func (c OutputConfig) Descriptors(serviceKey string) []string {
	return slices.Clone(c[serviceKey])
}

// Contains reports whether the descriptor is already configured for the service.
func (c OutputConfig) Contains(serviceKey, descriptor string) bool {
	return slices.Contains(c[serviceKey], descriptor)
}

// SetService replaces the descriptor sequence for a service.
func (c OutputConfig) SetService(serviceKey string, descriptors []string) {
	c[serviceKey] = slices.Clone(descriptors)
}

// Services returns the sorted set of service keys present in the config.
func (c OutputConfig) Services() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the config.
func (c OutputConfig) Clone() OutputConfig {
	out := make(OutputConfig, len(c))
	for k, v := range c {
		out[k] = slices.Clone(v)
	}
	return out
}
