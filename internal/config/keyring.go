// internal/config/keyring.go
package config

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "lazydb"

// KeyringStore manages password storage in system keyring
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore creates a new keyring store instance
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// SetPassword stores a password for a connection
func (k *KeyringStore) SetPassword(connection, password string) error {
	return k.ring.Set(keyring.Item{
		Key:  connection,
		Data: []byte(password),
	})
}

// Password retrieves a password for a connection
func (k *KeyringStore) Password(connection string) (string, error) {
	item, err := k.ring.Get(connection)
	if err != nil {
		return "", fmt.Errorf("password not found for connection %s: %w", connection, err)
	}
	return string(item.Data), nil
}

// DeletePassword removes a password for a connection
func (k *KeyringStore) DeletePassword(connection string) error {
	return k.ring.Remove(connection)
}
