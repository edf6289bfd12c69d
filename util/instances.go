package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/merrydance/logistics/val"
)

// ErrInvalidInstance a malformed entry of the instance list.
var ErrInvalidInstance = errors.New("invalid instance configuration")

// reservedNames collide with the service's own top-level routes.
var reservedNames = map[string]bool{
	"health":    true,
	"ready":     true,
	"metrics":   true,
	"instances": true,
}

// InstanceConfig one configured network instance.
type InstanceConfig struct {
	Name string
	Path string
}

// ParseInstances parses "name=path,name=path". Malformed or duplicate
// entries are returned as errors and left out; the other entries are kept.
func ParseInstances(raw string) ([]InstanceConfig, []error) {
	var (
		configs []InstanceConfig
		errs    []error
	)
	seen := make(map[string]bool)
	for i, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, path, ok := strings.Cut(entry, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		switch {
		case !ok || path == "":
			errs = append(errs, fmt.Errorf("%w: entry %d (%q) has no path", ErrInvalidInstance, i, entry))
		case name == "":
			errs = append(errs, fmt.Errorf("%w: entry %d (%q) has no name", ErrInvalidInstance, i, entry))
		case val.ValidateInstanceName(name) != nil:
			errs = append(errs, fmt.Errorf("%w: instance name %q: %w", ErrInvalidInstance, name, val.ValidateInstanceName(name)))
		case reservedNames[name]:
			errs = append(errs, fmt.Errorf("%w: instance name %q is reserved", ErrInvalidInstance, name))
		case seen[name]:
			errs = append(errs, fmt.Errorf("%w: duplicate instance %q", ErrInvalidInstance, name))
		default:
			seen[name] = true
			configs = append(configs, InstanceConfig{Name: name, Path: path})
		}
	}
	return configs, errs
}
