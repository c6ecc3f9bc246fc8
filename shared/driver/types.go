package driver

import (
	"sort"

	"github.com/dracory/tdbdesk/shared/constants"
)

// Registry defines the interface for driver registry operations
type Registry interface {
	IsEnabled(name string) bool
}

// StaticRegistry tracks enabled drivers by canonical name.
type StaticRegistry struct {
	enabled map[string]struct{}
}

// NewRegistry builds a registry from the provided names. With no names
// every supported driver is enabled.
func NewRegistry(enabled ...string) *StaticRegistry {
	if len(enabled) == 0 {
		enabled = []string{
			constants.DriverSQLite,
			constants.DriverMySQL,
			constants.DriverPostgres,
			constants.DriverSQLServer,
		}
	}
	m := make(map[string]struct{}, len(enabled))
	for _, n := range enabled {
		if n == "" {
			continue
		}
		m[NormalizeDriver(n)] = struct{}{}
	}
	return &StaticRegistry{enabled: m}
}

// IsEnabled returns true if the driver name is enabled.
func (r *StaticRegistry) IsEnabled(name string) bool {
	_, ok := r.enabled[name]
	return ok
}

// List returns a sorted list of enabled driver names.
func (r *StaticRegistry) List() []string {
	out := make([]string, 0, len(r.enabled))
	for n := range r.enabled {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
