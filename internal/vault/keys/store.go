// Package keys owns the vault's RSA keypair: lazy one-time generation and
// durable persistence. The keypair wraps every user's symmetric key, so an
// existing-but-unreadable persisted pair is fatal and is never silently
// regenerated, since regenerating would orphan all wrapped keys.
package keys

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/dmitrijs2005/facevault/internal/vault/models"
)

// Store persists a single keypair.
//
// Load returns common.ErrorNotFound when no pair has been persisted yet.
// Any other failure means the pair exists but cannot be used.
type Store interface {
	Load() (*models.KeyPair, error)
	Save(pair *models.KeyPair) error
}

// storedKeyPair is the serialized form shared by all Store backends.
type storedKeyPair struct {
	PrivateKeyPEM string    `json:"private_key_pem"`
	PublicKeyPEM  string    `json:"public_key_pem"`
	CreatedAt     time.Time `json:"created_at"`
}

func encodeKeyPair(pair *models.KeyPair) ([]byte, error) {
	privDER, err := x509.MarshalPKCS8PrivateKey(pair.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(pair.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}

	stored := storedKeyPair{
		PrivateKeyPEM: string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})),
		PublicKeyPEM:  string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})),
		CreatedAt:     pair.CreatedAt,
	}
	return json.Marshal(stored)
}

func decodeKeyPair(data []byte) (*models.KeyPair, error) {
	var stored storedKeyPair
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parse keypair: %w", err)
	}

	block, _ := pem.Decode([]byte(stored.PrivateKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("parse keypair: no private key PEM block")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	privateKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("parse private key: not RSA")
	}

	block, _ = pem.Decode([]byte(stored.PublicKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("parse keypair: no public key PEM block")
	}
	parsedPub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	publicKey, ok := parsedPub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("parse public key: not RSA")
	}

	return &models.KeyPair{
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		CreatedAt:  stored.CreatedAt,
	}, nil
}
