// Package credentials provides the durable username → CredentialRecord
// mapping behind the vault, with interchangeable backends: a single-file
// JSON store, SQLite, and PostgreSQL.
package credentials

import (
	"context"

	"github.com/dmitrijs2005/facevault/internal/vault/models"
)

// Repository is the storage contract the vault depends on.
//
// Put is insert-only, never upsert: inserting an existing username
// returns common.ErrorAlreadyExists. Get and Remove return
// common.ErrorNotFound for absent usernames. Implementations serialize
// mutations so concurrent inserts cannot lose a write, and never leave
// a record half-written.
type Repository interface {
	Get(ctx context.Context, username string) (*models.CredentialRecord, error)
	Put(ctx context.Context, record *models.CredentialRecord) error
	Remove(ctx context.Context, username string) error
	List(ctx context.Context) ([]models.Profile, error)
	Count(ctx context.Context) (int, error)
}
