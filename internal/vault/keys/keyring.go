package keys

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/dmitrijs2005/facevault/internal/common"
	"github.com/dmitrijs2005/facevault/internal/vault/models"
)

const keyringItemKey = "facevault-keypair"

// KeyringStore persists the keypair in the OS keyring (libsecret,
// Keychain, wincred) instead of a plain file.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the OS keyring under the given service name.
func NewKeyringStore(serviceName string) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

func (s *KeyringStore) Load() (*models.KeyPair, error) {
	item, err := s.ring.Get(keyringItemKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read keypair from keyring: %w", err)
	}
	return decodeKeyPair(item.Data)
}

func (s *KeyringStore) Save(pair *models.KeyPair) error {
	data, err := encodeKeyPair(pair)
	if err != nil {
		return err
	}
	if err := s.ring.Set(keyring.Item{Key: keyringItemKey, Data: data}); err != nil {
		return fmt.Errorf("store keypair in keyring: %w", err)
	}
	return nil
}
