package outputs

import (
	"fmt"
	"strings"

	"github.com/target/alert-dispatch/internal/domain/model"
)

// FormatOutputConfig merges the new destination's descriptor into the shared
// per-service descriptor sequence and returns the full updated list. It is
// the only writer of the per-service sequence: validation happens before any
// mutation, so a rejected descriptor leaves the config untouched.
func FormatOutputConfig(
	cfg model.OutputConfig,
	serviceKey string,
	props map[string]OutputProperty,
) ([]string, error) {
	prop, ok := props["descriptor"]
	if !ok {
		return nil, fmt.Errorf("%w: service %q properties are missing a descriptor", ErrInvalidDescriptor, serviceKey)
	}

	descriptor := prop.Value
	if strings.TrimSpace(descriptor) == "" {
		return nil, fmt.Errorf("%w: service %q descriptor is empty", ErrInvalidDescriptor, serviceKey)
	}

	restrictions := prop.InputRestrictions
	if restrictions == nil {
		restrictions = DefaultInputRestrictions()
	}
	for _, r := range descriptor {
		if _, restricted := restrictions[r]; restricted {
			return nil, fmt.Errorf("%w: descriptor %q contains restricted character %q",
				ErrInvalidDescriptor, descriptor, r)
		}
	}

	if cfg.Contains(serviceKey, descriptor) {
		return nil, fmt.Errorf("%w: %s/%s is already configured", ErrDuplicateDescriptor, serviceKey, descriptor)
	}

	return append(cfg.Descriptors(serviceKey), descriptor), nil
}
