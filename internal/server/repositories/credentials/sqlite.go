package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/facevault/internal/common"
	"github.com/dmitrijs2005/facevault/internal/server/migrations"
	"github.com/dmitrijs2005/facevault/internal/vault/models"
)

// SQLiteRepository stores records in an embedded SQLite database. The
// username primary key enforces insert-only semantics; SQLite's own
// transactionality covers atomic writes.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite-backed store at path and
// applies the embedded migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// modernc.org/sqlite serializes access per connection; a single
	// connection also sidesteps SQLITE_BUSY between writers.
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, err
	}
	if err := goose.Up(db, "sqlite"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error { return r.db.Close() }

func (r *SQLiteRepository) Get(ctx context.Context, username string) (*models.CredentialRecord, error) {
	query := `SELECT username, password_salt, password_hash, wrapped_symmetric_key,
	                 vector_ciphertext, vector_nonce, vector_tag,
	                 vector_length, vector_element_type, created_at_ms
	          FROM credentials WHERE username = ?`

	return scanRecord(r.db.QueryRowContext(ctx, query, username))
}

func (r *SQLiteRepository) Put(ctx context.Context, record *models.CredentialRecord) error {
	query := `INSERT INTO credentials
	          (username, password_salt, password_hash, wrapped_symmetric_key,
	           vector_ciphertext, vector_nonce, vector_tag,
	           vector_length, vector_element_type, created_at_ms)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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

func (r *SQLiteRepository) Remove(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return removedOrNotFound(res)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT username, created_at_ms FROM credentials ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM credentials`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// --- shared row helpers for the SQL backends ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.CredentialRecord, error) {
	record := &models.CredentialRecord{}
	var createdAtMs int64

	err := row.Scan(&record.Username,
		&record.PasswordSalt, &record.PasswordHash, &record.WrappedSymmetricKey,
		&record.VectorCiphertext, &record.VectorNonce, &record.VectorTag,
		&record.VectorMeta.Length, &record.VectorMeta.ElementType, &createdAtMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	record.CreatedAt = time.UnixMilli(createdAtMs).UTC()
	return record, nil
}

func scanProfiles(rows *sql.Rows) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0)
	for rows.Next() {
		var p models.Profile
		var createdAtMs int64
		if err := rows.Scan(&p.Username, &createdAtMs); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		p.CreatedAt = time.UnixMilli(createdAtMs).UTC()
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return profiles, nil
}

func insertedOrConflict(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorAlreadyExists
	}
	return nil
}

func removedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
