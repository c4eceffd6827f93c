package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/facevault/internal/common"
	"github.com/dmitrijs2005/facevault/internal/vault/models"
)

// DefaultKeyBits is the RSA modulus size for a newly generated keypair.
const DefaultKeyBits = 2048

// Manager hands out the process-wide wrapping keypair. The first call
// generates and persists a pair if none exists; all later calls return
// the same pair. The generation path is guarded so concurrent first
// calls produce exactly one persisted pair.
type Manager struct {
	store Store
	bits  int

	mu     sync.Mutex
	cached *models.KeyPair
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, bits: DefaultKeyBits}
}

// GetKeyPair returns the persisted keypair, generating it first if absent.
// A persisted pair that exists but cannot be read or parsed yields
// common.ErrKeyStoreUnavailable; it is never regenerated.
func (m *Manager) GetKeyPair() (*models.KeyPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil {
		return m.cached, nil
	}

	pair, err := m.store.Load()
	if err == nil {
		m.cached = pair
		return pair, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyStoreUnavailable, err)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, m.bits)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}

	pair = &models.KeyPair{
		PublicKey:  &privateKey.PublicKey,
		PrivateKey: privateKey,
		CreatedAt:  time.Now().UTC(),
	}

	// Persist before returning: a pair that was handed out but never
	// stored would orphan every record enrolled under it on restart.
	if err := m.store.Save(pair); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyStoreUnavailable, err)
	}

	m.cached = pair
	return pair, nil
}
