// Package common defines shared constants and sentinel errors used across
// FaceVault components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Validation errors (caller must resubmit with corrected input).
	ErrInvalidInput = errors.New("invalid input")

	// Store-state conflicts.
	ErrAlreadyEnrolled = errors.New("already enrolled")
	ErrUserNotFound    = errors.New("user not found")

	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Authentication rejections. ErrAuthenticationFailed is the generic
	// outward form of an internal decryption failure; callers never see
	// ErrDecryptionFailed directly.
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrFaceMismatch         = errors.New("face mismatch")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrDecryptionFailed     = errors.New("decryption failed")

	// Infrastructure failures (fatal for the current request).
	ErrKeyStoreUnavailable = errors.New("key store unavailable")
	ErrStoreUnavailable    = errors.New("store unavailable")

	// Auth token errors.
	ErrInvalidToken = errors.New("invalid token")
)

// FaceMismatchError carries the cosine similarity that fell short of the
// acceptance threshold. It matches ErrFaceMismatch under errors.Is so the
// transport layer can map it without unpacking the score.
type FaceMismatchError struct {
	Similarity float64
}

func (e *FaceMismatchError) Error() string {
	return fmt.Sprintf("face mismatch: similarity %.4f below threshold", e.Similarity)
}

func (e *FaceMismatchError) Is(target error) bool {
	return target == ErrFaceMismatch
}
