// Package blobs provides the PostgreSQL-backed blob store: binary payloads
// plus their display names, keyed by an auto-assigned id. When the S3
// backend is enabled, rows carry a storage key instead of inline content.
package blobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studylink/internal/common"
	"studylink/internal/dbx"
	"studylink/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a blob row and returns the assigned id. Exactly one of
// blob.Content and blob.StorageKey is expected to be set.
func (r *PostgresRepository) Create(ctx context.Context, blob *models.Blob) (int64, error) {

	query :=
		`INSERT INTO blobs (display_name, content, storage_key)
         VALUES ($1, $2, NULLIF($3, ''))
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, blob.DisplayName, blob.Content, blob.StorageKey).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	blob.ID = id
	return id, nil
}

// Get returns the blob row for id, or common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Blob, error) {
	query :=
		`SELECT id, display_name, content, COALESCE(storage_key, '') FROM blobs
		 WHERE id = $1
		 `

	blob := &models.Blob{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&blob.ID, &blob.DisplayName, &blob.Content, &blob.StorageKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return blob, nil
}

// Delete removes the blob row for id.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM blobs
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ListStorageKeysByOwner returns the non-empty storage keys of every blob
// owned by the given user. Used to clean up object-store payloads when an
// account is deleted.
func (r *PostgresRepository) ListStorageKeysByOwner(ctx context.Context, ownerEmail string) ([]string, error) {
	query :=
		`SELECT b.storage_key FROM blobs b
		 JOIN file_metadata m ON m.file_id = b.id
		 WHERE m.owner_email = $1 AND b.storage_key IS NOT NULL
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return keys, nil
}
