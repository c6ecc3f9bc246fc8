package storage

import (
	"context"
	"errors"

	"github.com/zalando/go-keyring"

	"github.com/dracory/tdbdesk/shared/constants"
)

// KeyringStore keeps entries in the operating system keyring, one secret
// per key under a single service name.
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring store. An empty service falls back to
// the default service name.
func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = constants.DefaultKeyringService
	}
	return &KeyringStore{service: service}
}

// Get returns the secret stored under key.
func (s *KeyringStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores value under key, replacing any previous secret.
func (s *KeyringStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return keyring.Set(s.service, key, value)
}
