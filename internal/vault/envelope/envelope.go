// Package envelope implements the envelope encryption protecting enrolled
// biometric vectors: the vector bytes are sealed with AES-256-GCM under a
// fresh random symmetric key, and that key is wrapped with RSA-OAEP so only
// the holder of the vault's private key can recover it.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	"github.com/dmitrijs2005/facevault/internal/common"
)

const (
	// KeySize is the symmetric key size (AES-256).
	KeySize = 32
	// NonceSize is the GCM standard nonce size.
	NonceSize = 12
	// TagSize is the GCM authentication tag size.
	TagSize = 16
)

// Envelope bundles the four artifacts produced by wrapping a vector.
// The symmetric key itself never leaves this package.
type Envelope struct {
	WrappedKey []byte
	Ciphertext []byte
	Nonce      []byte
	Tag        []byte
}

// WrapAndEncryptVector encrypts vector under a fresh 256-bit symmetric key
// and wraps that key with RSA-OAEP(SHA-256) for publicKey. The nonce is
// freshly generated per call and is never reused with the same key, since
// the key is single-use by construction.
func WrapAndEncryptVector(vector []float32, publicKey *rsa.PublicKey) (*Envelope, error) {
	if len(vector) == 0 {
		return nil, common.ErrInvalidInput
	}

	key := common.GenerateRandByteArray(KeySize)
	defer common.WipeByteArray(key)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(NonceSize)

	sealed := aead.Seal(nil, nonce, encodeVector(vector), nil)

	// Seal appends the tag to the ciphertext; the record model keeps
	// them as distinct fields with validated lengths.
	split := len(sealed) - TagSize
	ciphertext := sealed[:split]
	tag := sealed[split:]

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, key, nil)
	if err != nil {
		return nil, fmt.Errorf("wrapping symmetric key: %w", err)
	}

	return &Envelope{
		WrappedKey: wrapped,
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Tag:        tag,
	}, nil
}

// UnwrapAndDecryptVector reverses WrapAndEncryptVector. length is the
// element count declared by the record's vector metadata. Any tampering
// with the ciphertext, nonce, or tag, and any wrong key, yields
// common.ErrDecryptionFailed; callers must not surface that distinction
// to end users.
func UnwrapAndDecryptVector(env *Envelope, length int, privateKey *rsa.PrivateKey) ([]float32, error) {
	if len(env.Nonce) != NonceSize || len(env.Tag) != TagSize {
		return nil, common.ErrDecryptionFailed
	}

	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, privateKey, env.WrappedKey, nil)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	defer common.WipeByteArray(key)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+len(env.Tag))
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	plaintext, err := aead.Open(nil, env.Nonce, sealed, nil)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}

	vector, err := decodeVector(plaintext, length)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	return vector, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
