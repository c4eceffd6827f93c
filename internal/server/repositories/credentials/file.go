package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dmitrijs2005/facevault/internal/common"
	"github.com/dmitrijs2005/facevault/internal/vault/models"
)

// FileRepository keeps all records in a single JSON file. The backing
// medium has no transactions, so every read-modify-write runs inside one
// critical section and the file is replaced atomically (temp file +
// rename). Byte fields serialize as base64 strings via encoding/json,
// which round-trips them exactly.
type FileRepository struct {
	mu      sync.RWMutex
	path    string
	records map[string]*models.CredentialRecord
}

// NewFileRepository opens (or initializes) a file-backed store. A missing
// file is an empty collection, not an error.
func NewFileRepository(path string) (*FileRepository, error) {
	r := &FileRepository{
		path:    path,
		records: make(map[string]*models.CredentialRecord),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return r, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrStoreUnavailable, path, err)
	}
	if err := json.Unmarshal(data, &r.records); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", common.ErrStoreUnavailable, path, err)
	}
	if r.records == nil {
		r.records = make(map[string]*models.CredentialRecord)
	}
	return r, nil
}

func (r *FileRepository) Get(ctx context.Context, username string) (*models.CredentialRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *record
	return &cp, nil
}

func (r *FileRepository) Put(ctx context.Context, record *models.CredentialRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.Username]; ok {
		return common.ErrorAlreadyExists
	}

	cp := *record
	r.records[record.Username] = &cp
	if err := r.persist(); err != nil {
		delete(r.records, record.Username)
		return err
	}
	return nil
}

func (r *FileRepository) Remove(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[username]
	if !ok {
		return common.ErrorNotFound
	}

	delete(r.records, username)
	if err := r.persist(); err != nil {
		r.records[username] = record
		return err
	}
	return nil
}

func (r *FileRepository) List(ctx context.Context) ([]models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]models.Profile, 0, len(r.records))
	for _, record := range r.records {
		profiles = append(profiles, record.Profile())
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Username < profiles[j].Username })
	return profiles, nil
}

func (r *FileRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

// persist writes the whole map to disk atomically. Callers hold the
// write lock.
func (r *FileRepository) persist() error {
	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal records: %v", common.ErrStoreUnavailable, err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("%w: mkdir: %v", common.ErrStoreUnavailable, err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: write %s: %v", common.ErrStoreUnavailable, tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}
