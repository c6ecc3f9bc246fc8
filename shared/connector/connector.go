// Package connector performs the remote connect call of a connection
// attempt.
package connector

import (
	"context"

	"github.com/dracory/tdbdesk/shared/types"
)

// Result is what the remote side answered. Callers treat it as opaque.
type Result struct {
	ConnID   string `json:"conn_id"`
	Endpoint string `json:"endpoint,omitempty"`
	Status   int    `json:"status,omitempty"`
}

// Connector opens a connection to a TDB server. A returned error means the
// connect attempt failed.
type Connector interface {
	Connect(ctx context.Context, connID string, fields types.FieldSet) (Result, error)
}

// Func adapts a plain function to the Connector interface.
type Func func(ctx context.Context, connID string, fields types.FieldSet) (Result, error)

// Connect calls f.
func (f Func) Connect(ctx context.Context, connID string, fields types.FieldSet) (Result, error) {
	return f(ctx, connID, fields)
}
