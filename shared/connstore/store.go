// Package connstore persists connection records keyed by url and database
// name.
package connstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dracory/tdbdesk/shared/constants"
	"github.com/dracory/tdbdesk/shared/storage"
	"github.com/dracory/tdbdesk/shared/types"
)

// StorageKey derives the slot of a connection record. Two records with the
// same url and database name share a slot.
func StorageKey(url, dbName string) string {
	return constants.StorageKeyPrefix + url + ":" + dbName
}

// Store saves and loads connection records.
type Store struct {
	kv     storage.Storage
	logger *slog.Logger
}

// New creates a store on top of kv. A nil logger uses slog.Default().
func New(kv storage.Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// Save writes the record for fields, replacing whatever was stored under
// the same url and database name.
func (s *Store) Save(ctx context.Context, fields types.FieldSet, connID string) error {
	rec := types.ConnectionRecord{Fields: fields, ConnectionID: connID}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode connection record: %w", err)
	}
	key := StorageKey(fields.Value(types.FieldURL), fields.Value(types.FieldDBName))
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("save connection record: %w", err)
	}
	return nil
}

// Load returns the record stored for url and dbName. Missing, unreadable
// and undecodable entries all load as absent.
func (s *Store) Load(ctx context.Context, url, dbName string) (types.ConnectionRecord, bool) {
	key := StorageKey(url, dbName)

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("connection_load_failed", slog.String("key", key), slog.String("error", err.Error()))
		return types.ConnectionRecord{}, false
	}
	if !ok {
		return types.ConnectionRecord{}, false
	}

	var rec types.ConnectionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.logger.Warn("connection_record_malformed", slog.String("key", key), slog.String("error", err.Error()))
		return types.ConnectionRecord{}, false
	}
	if rec.ConnectionID == "" {
		s.logger.Warn("connection_record_malformed", slog.String("key", key), slog.String("error", "missing connId"))
		return types.ConnectionRecord{}, false
	}
	if rec.Fields == nil {
		rec.Fields = types.FieldSet{}
	}
	for name := range rec.Fields {
		if !name.Valid() {
			delete(rec.Fields, name)
		}
	}
	return rec, true
}
