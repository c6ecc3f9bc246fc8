// Package submit turns a submitted connection form into a connect call and,
// when the call succeeds, a persisted connection record.
package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dracory/tdbdesk/shared/connector"
	"github.com/dracory/tdbdesk/shared/connstore"
	"github.com/dracory/tdbdesk/shared/types"
)

// ErrConnectFailed wraps every failure of the remote connect call.
var ErrConnectFailed = errors.New("connect failed")

// disconnector is implemented by connectors that keep connections open
// after Connect returns.
type disconnector interface {
	Disconnect(connID string) error
}

// Submitter runs the submit workflow: extract fields, generate an id,
// connect, then save.
type Submitter struct {
	connector connector.Connector
	store     *connstore.Store
	logger    *slog.Logger

	// NewID generates connection ids. Defaults to random UUIDs.
	NewID func() string
}

// New creates a submitter. A nil logger uses slog.Default().
func New(c connector.Connector, store *connstore.Store, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		connector: c,
		store:     store,
		logger:    logger,
		NewID:     uuid.NewString,
	}
}

// Submit connects with the recognised fields of form and saves the record
// once the connect call has returned without error. The content of the
// connect result is not inspected. When the connect call fails nothing is
// written and the error wraps ErrConnectFailed. When the save fails the
// connection is closed again, since nobody holds its id.
func (s *Submitter) Submit(ctx context.Context, form map[string][]string) (types.ConnectionRecord, error) {
	fields := types.ExtractFields(form)
	connID := s.NewID()

	res, err := s.connector.Connect(ctx, connID, fields)
	if err != nil {
		s.logger.Error("connect_failed",
			slog.String("conn_id", connID),
			slog.String("url", fields.Value(types.FieldURL)),
			slog.String("db", fields.Value(types.FieldDBName)),
			slog.String("error", err.Error()),
		)
		return types.ConnectionRecord{}, fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}
	s.logger.Debug("connect_result", slog.String("conn_id", connID), slog.Any("result", res))

	if err := s.store.Save(ctx, fields, connID); err != nil {
		s.release(connID)
		return types.ConnectionRecord{}, err
	}

	return types.ConnectionRecord{Fields: fields, ConnectionID: connID}, nil
}

// release closes a connection whose record could not be saved.
func (s *Submitter) release(connID string) {
	d, ok := s.connector.(disconnector)
	if !ok {
		return
	}
	if err := d.Disconnect(connID); err != nil {
		s.logger.Warn("release_failed", slog.String("conn_id", connID), slog.String("error", err.Error()))
		return
	}
	s.logger.Warn("connection_released", slog.String("conn_id", connID), slog.String("reason", "save failed"))
}
