// Package storage provides durable string key-value stores used to keep
// connection records between runs.
package storage

import (
	"context"
	"fmt"

	"github.com/dracory/tdbdesk/shared/constants"
	"github.com/dracory/tdbdesk/shared/driver"
	"github.com/dracory/tdbdesk/shared/types"
)

// Storage is a keyed string store. Get reports absence with ok=false and a
// nil error; err is reserved for backend failures.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Open builds the backend selected by cfg.
func Open(cfg types.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case constants.StorageMemory:
		return NewMemoryStore(), nil
	case constants.StorageGorm, "":
		if err := driver.NewValidator(driver.NewRegistry()).Validate(cfg.Driver); err != nil {
			return nil, err
		}
		db, err := driver.OpenDBWithDSN(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open storage database: %w", err)
		}
		return NewGormStore(db)
	case constants.StorageKeyring:
		return NewKeyringStore(cfg.KeyringService), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
