// Package vault implements the envelope-encrypted credential vault: the
// enrollment and login protocols over the key manager, envelope cipher,
// password verifier, and similarity matcher.
package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/facevault/internal/common"
	"github.com/dmitrijs2005/facevault/internal/logging"
	"github.com/dmitrijs2005/facevault/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/facevault/internal/vault/envelope"
	"github.com/dmitrijs2005/facevault/internal/vault/keys"
	"github.com/dmitrijs2005/facevault/internal/vault/models"
	"github.com/dmitrijs2005/facevault/internal/vault/password"
	"github.com/dmitrijs2005/facevault/internal/vault/similarity"
)

// KeyProvider supplies the process-wide wrapping keypair.
// *keys.Manager is the production implementation.
type KeyProvider interface {
	GetKeyPair() (*models.KeyPair, error)
}

var _ KeyProvider = (*keys.Manager)(nil)

// LoginResult is returned on a successful login: the matched similarity
// score and the user's public profile, never any secret material.
type LoginResult struct {
	Similarity float64
	Profile    models.Profile
}

// Service orchestrates the vault operations. It is safe for concurrent
// use; per-store write serialization lives in the repository.
type Service struct {
	repo      credentials.Repository
	keys      KeyProvider
	threshold float64
	logger    logging.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithThreshold overrides the default cosine-similarity acceptance
// threshold.
func WithThreshold(threshold float64) Option {
	return func(s *Service) { s.threshold = threshold }
}

func NewService(repo credentials.Repository, kp KeyProvider, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		keys:      kp,
		threshold: similarity.DefaultThreshold,
		logger:    logger.With("module", "vault"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enroll registers a new user: hashes the password with a fresh salt,
// envelope-encrypts the vector under the vault's public key, and inserts
// the complete record in a single atomic put. Returns the new total user
// count.
func (s *Service) Enroll(ctx context.Context, username, pass string, vector []float32) (int, error) {
	if username == "" || pass == "" || len(vector) == 0 {
		return 0, common.ErrInvalidInput
	}

	pair, err := s.keys.GetKeyPair()
	if err != nil {
		s.logger.Error(ctx, "keypair unavailable", "error", err.Error())
		return 0, err
	}

	salt := password.NewSalt()
	hash := password.Hash(pass, salt)

	env, err := envelope.WrapAndEncryptVector(vector, pair.PublicKey)
	if err != nil {
		return 0, fmt.Errorf("encrypting vector: %w", err)
	}

	// The record is composed fully in memory; the single insert below is
	// the only point where anything becomes durable.
	record := &models.CredentialRecord{
		Username:            username,
		PasswordSalt:        salt,
		PasswordHash:        hash,
		WrappedSymmetricKey: env.WrappedKey,
		VectorCiphertext:    env.Ciphertext,
		VectorNonce:         env.Nonce,
		VectorTag:           env.Tag,
		VectorMeta: models.VectorMeta{
			Length:      len(vector),
			ElementType: models.ElementTypeFloat32,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Put(ctx, record); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return 0, common.ErrAlreadyEnrolled
		}
		s.logger.Error(ctx, "enrollment write failed", "username", username, "error", err.Error())
		return 0, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Info(ctx, "user enrolled", "username", username, "users", count)
	return count, nil
}

// Login authenticates a user with both factors. The password is verified
// first, in constant time, and a failure rejects the attempt before the
// private key or any vector machinery is touched. A decryption-tag
// failure is logged distinctly but surfaces as the generic
// ErrAuthenticationFailed.
func (s *Service) Login(ctx context.Context, username, pass string, vector []float32) (*LoginResult, error) {
	if username == "" || pass == "" || len(vector) == 0 {
		return nil, common.ErrInvalidInput
	}

	record, err := s.repo.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	if !password.Verify(pass, record.PasswordSalt, record.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	if len(vector) != record.VectorMeta.Length {
		return nil, common.ErrInvalidInput
	}

	pair, err := s.keys.GetKeyPair()
	if err != nil {
		s.logger.Error(ctx, "keypair unavailable", "error", err.Error())
		return nil, err
	}

	enrolled, err := envelope.UnwrapAndDecryptVector(&envelope.Envelope{
		WrappedKey: record.WrappedSymmetricKey,
		Ciphertext: record.VectorCiphertext,
		Nonce:      record.VectorNonce,
		Tag:        record.VectorTag,
	}, record.VectorMeta.Length, pair.PrivateKey)
	if err != nil {
		// Tampered record or wrong key. Never distinguishable from a
		// vector mismatch in user-facing output.
		s.logger.Error(ctx, "stored vector failed authentication tag", "username", username)
		return nil, common.ErrAuthenticationFailed
	}

	score := similarity.Cosine(vector, enrolled)
	if !similarity.Decide(score, s.threshold) {
		return nil, &common.FaceMismatchError{Similarity: score}
	}

	s.logger.Info(ctx, "login succeeded", "username", username)
	return &LoginResult{Similarity: score, Profile: record.Profile()}, nil
}

// ListUsers returns the public profiles of all enrolled users.
func (s *Service) ListUsers(ctx context.Context) ([]models.Profile, error) {
	return s.repo.List(ctx)
}

// DeleteUser removes an enrolled user. Returns ErrUserNotFound if absent.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	if username == "" {
		return common.ErrInvalidInput
	}
	if err := s.repo.Remove(ctx, username); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return err
	}
	s.logger.Info(ctx, "user deleted", "username", username)
	return nil
}

// Count returns the number of enrolled users.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
