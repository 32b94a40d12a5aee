package metrics

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a metric key or category that is not in the
// registry. It indicates a mismatch between the registry and the caller.
type ConfigurationError struct {
	Op   string
	Kind string // "metric" or "category"
	Key  string
}

func (e *ConfigurationError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "metric"
	}
	if e.Op == "" {
		return fmt.Sprintf("unknown %s %q", kind, e.Key)
	}
	return fmt.Sprintf("%s: unknown %s %q", e.Op, kind, e.Key)
}

// UnknownCategoryError reports an unknown category name along with the
// available ones.
type UnknownCategoryError struct {
	Name      string
	Available []string
}

func (e *UnknownCategoryError) Error() string {
	return "unknown category: " + e.Name + "; available: " + strings.Join(e.Available, ", ")
}

func (e *UnknownCategoryError) Unwrap() error {
	return &ConfigurationError{Op: "expand categories", Kind: "category", Key: e.Name}
}
