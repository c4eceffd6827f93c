package credentials

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/facevault/internal/common"
	"github.com/dmitrijs2005/facevault/internal/vault/models"
)

func sampleRecord(username string) *models.CredentialRecord {
	return &models.CredentialRecord{
		Username:            username,
		PasswordSalt:        []byte{0x01, 0x02, 0x03},
		PasswordHash:        []byte{0x04, 0x05, 0x06},
		WrappedSymmetricKey: []byte{0x07, 0x08},
		VectorCiphertext:    []byte{0x09, 0x0a, 0x0b, 0x0c},
		VectorNonce:         []byte{0x0d, 0x0e},
		VectorTag:           []byte{0x0f},
		VectorMeta:          models.VectorMeta{Length: 1, ElementType: models.ElementTypeFloat32},
		CreatedAt:           time.Now().UTC().Truncate(time.Millisecond),
	}
}

// backends under test; postgres is exercised the same way in deployments
// with a reachable server and is excluded here.
func backends(t *testing.T) map[string]func(t *testing.T) Repository {
	return map[string]func(t *testing.T) Repository{
		"file": func(t *testing.T) Repository {
			repo, err := NewFileRepository(filepath.Join(t.TempDir(), "credentials.json"))
			require.NoError(t, err)
			return repo
		},
		"sqlite": func(t *testing.T) Repository {
			repo, err := OpenSQLite(filepath.Join(t.TempDir(), "credentials.db"))
			require.NoError(t, err)
			t.Cleanup(func() { repo.Close() })
			return repo
		},
	}
}

func TestRepository_PutGetRoundTrip(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			record := sampleRecord("alice")
			require.NoError(t, repo.Put(ctx, record))

			got, err := repo.Get(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, record.PasswordSalt, got.PasswordSalt)
			assert.Equal(t, record.PasswordHash, got.PasswordHash)
			assert.Equal(t, record.WrappedSymmetricKey, got.WrappedSymmetricKey)
			assert.Equal(t, record.VectorCiphertext, got.VectorCiphertext)
			assert.Equal(t, record.VectorNonce, got.VectorNonce)
			assert.Equal(t, record.VectorTag, got.VectorTag)
			assert.Equal(t, record.VectorMeta, got.VectorMeta)
			assert.True(t, record.CreatedAt.Equal(got.CreatedAt))
		})
	}
}

func TestRepository_PutIsInsertOnly(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			require.NoError(t, repo.Put(ctx, sampleRecord("alice")))

			err := repo.Put(ctx, sampleRecord("alice"))
			assert.ErrorIs(t, err, common.ErrorAlreadyExists)

			n, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestRepository_GetMissing(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			_, err := repo.Get(context.Background(), "nobody")
			assert.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestRepository_Remove(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			require.NoError(t, repo.Put(ctx, sampleRecord("alice")))
			require.NoError(t, repo.Remove(ctx, "alice"))

			_, err := repo.Get(ctx, "alice")
			assert.ErrorIs(t, err, common.ErrorNotFound)

			assert.ErrorIs(t, repo.Remove(ctx, "alice"), common.ErrorNotFound)
		})
	}
}

func TestRepository_ListAndCount(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			for _, u := range []string{"carol", "alice", "bob"} {
				require.NoError(t, repo.Put(ctx, sampleRecord(u)))
			}

			profiles, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, profiles, 3)
			assert.Equal(t, "alice", profiles[0].Username)
			assert.Equal(t, "bob", profiles[1].Username)
			assert.Equal(t, "carol", profiles[2].Username)

			n, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, n)
		})
	}
}

func TestRepository_ConcurrentInserts(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			const users = 16
			var wg sync.WaitGroup
			for i := 0; i < users; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					err := repo.Put(ctx, sampleRecord(fmt.Sprintf("user-%02d", i)))
					assert.NoError(t, err)
				}(i)
			}
			wg.Wait()

			n, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, users, n)
		})
	}
}

func TestFileRepository_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	ctx := context.Background()

	repo, err := NewFileRepository(path)
	require.NoError(t, err)
	record := sampleRecord("alice")
	require.NoError(t, repo.Put(ctx, record))

	reopened, err := NewFileRepository(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, record.VectorCiphertext, got.VectorCiphertext)
	assert.Equal(t, record.PasswordHash, got.PasswordHash)
}

func TestFileRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := NewFileRepository(path)
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}
