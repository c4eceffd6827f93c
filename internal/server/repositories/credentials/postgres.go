package credentials

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/facevault/internal/server/migrations"
	"github.com/dmitrijs2005/facevault/internal/vault/models"
)

// PostgresRepository stores records in PostgreSQL via the pgx stdlib
// driver. Insert-only semantics ride on the primary-key constraint.
type PostgresRepository struct {
	db *sql.DB
}

// OpenPostgres connects with the given DSN and applies the embedded
// migrations.
func OpenPostgres(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, err
	}
	if err := goose.Up(db, "postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Close() error { return r.db.Close() }

func (r *PostgresRepository) Get(ctx context.Context, username string) (*models.CredentialRecord, error) {
	query := `SELECT username, password_salt, password_hash, wrapped_symmetric_key,
	                 vector_ciphertext, vector_nonce, vector_tag,
	                 vector_length, vector_element_type, created_at_ms
	          FROM credentials WHERE username = $1`

	return scanRecord(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) Put(ctx context.Context, record *models.CredentialRecord) error {
	query := `INSERT INTO credentials
	          (username, password_salt, password_hash, wrapped_symmetric_key,
	           vector_ciphertext, vector_nonce, vector_tag,
	           vector_length, vector_element_type, created_at_ms)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          ON CONFLICT (username) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		record.Username, record.PasswordSalt, record.PasswordHash, record.WrappedSymmetricKey,
		record.VectorCiphertext, record.VectorNonce, record.VectorTag,
		record.VectorMeta.Length, record.VectorMeta.ElementType, record.CreatedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return insertedOrConflict(res)
}

func (r *PostgresRepository) Remove(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return removedOrNotFound(res)
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT username, created_at_ms FROM credentials ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM credentials`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
