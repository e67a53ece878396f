package registry

import (
	"fmt"
	"strings"

	"agentplug/internal/api"
)

// Diagnostics collects the non-fatal manifest errors of one merge.
type Diagnostics struct {
	Errors []*api.ManifestError
}

// NewDiagnostics creates an empty collection.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{Errors: make([]*api.ManifestError, 0)}
}

// HasErrors returns true if any plugin was excluded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Count returns the number of excluded plugins.
func (d *Diagnostics) Count() int {
	return len(d.Errors)
}

// Add records an excluded plugin.
func (d *Diagnostics) Add(err *api.ManifestError) {
	d.Errors = append(d.Errors, err)
}

// ForRoot returns the errors found in one plugin root.
func (d *Diagnostics) ForRoot(root string) []*api.ManifestError {
	var filtered []*api.ManifestError
	for _, err := range d.Errors {
		if err.Root == root {
			filtered = append(filtered, err)
		}
	}
	return filtered
}

// GetSummary returns one line per excluded plugin.
func (d *Diagnostics) GetSummary() string {
	if len(d.Errors) == 0 {
		return "No plugin errors"
	}
	parts := make([]string, 0, len(d.Errors)+1)
	parts = append(parts, fmt.Sprintf("Plugin descriptor errors (%d):", len(d.Errors)))
	for _, err := range d.Errors {
		parts = append(parts, fmt.Sprintf("  - %s [%s]: %v", err.Dir, err.Reason, err.Err))
	}
	return strings.Join(parts, "\n")
}
