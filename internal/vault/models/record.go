// Package models defines the data structures persisted by the vault:
// the wrapping keypair and the per-user credential record.
package models

import (
	"crypto/rsa"
	"time"
)

// ElementTypeFloat32 is the only element type the vector codec understands.
const ElementTypeFloat32 = "float32"

// VectorMeta describes how to reinterpret decrypted vector bytes.
type VectorMeta struct {
	Length      int    `json:"length"`
	ElementType string `json:"element_type"`
}

// CredentialRecord holds everything the vault stores for one user.
// All fields are immutable once the record is created; login never
// mutates a record. Byte fields round-trip exactly through every
// storage backend (base64 in JSON, BLOB/bytea in SQL).
type CredentialRecord struct {
	Username            string     `json:"username"`
	PasswordSalt        []byte     `json:"password_salt"`
	PasswordHash        []byte     `json:"password_hash"`
	WrappedSymmetricKey []byte     `json:"wrapped_symmetric_key"`
	VectorCiphertext    []byte     `json:"vector_ciphertext"`
	VectorNonce         []byte     `json:"vector_nonce"`
	VectorTag           []byte     `json:"vector_tag"`
	VectorMeta          VectorMeta `json:"vector_meta"`
	CreatedAt           time.Time  `json:"created_at"`
}

// KeyPair is the process-wide RSA keypair used to wrap per-user
// symmetric keys. Created once, then persisted; never mutated.
type KeyPair struct {
	PublicKey  *rsa.PublicKey
	PrivateKey *rsa.PrivateKey
	CreatedAt  time.Time
}

// Profile is the minimal public view of an enrolled user. It never
// carries secret material.
type Profile struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the public view of the record.
func (r *CredentialRecord) Profile() Profile {
	return Profile{Username: r.Username, CreatedAt: r.CreatedAt}
}
