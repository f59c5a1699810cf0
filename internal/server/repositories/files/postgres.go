// Package files provides the PostgreSQL-backed file metadata store and the
// query composition for filtered/searched listings. Metadata rows are keyed
// by the blob id they describe, one row per blob.
package files

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

// CreateMetadata inserts the metadata row for a blob. A second row for the
// same file id violates the primary key and yields common.ErrAlreadyExists.
func (r *PostgresRepository) CreateMetadata(ctx context.Context, m *models.FileMetadata) error {

	query :=
		`INSERT INTO file_metadata (file_id, owner_email, mime_type, size_bytes, last_updated, class_id)
         VALUES ($1, $2, $3, $4, $5, $6)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		m.FileID, m.OwnerEmail, m.MimeType, m.SizeBytes, m.LastUpdated, m.ClassID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// GetMetadata returns the metadata row for fileID, or common.ErrNotFound.
func (r *PostgresRepository) GetMetadata(ctx context.Context, fileID int64) (*models.FileMetadata, error) {
	query :=
		`SELECT file_id, owner_email, mime_type, size_bytes, last_updated, class_id FROM file_metadata
		 WHERE file_id = $1
		 `

	m := &models.FileMetadata{}
	var classID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, fileID).Scan(
		&m.FileID, &m.OwnerEmail, &m.MimeType, &m.SizeBytes, &m.LastUpdated, &classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if classID.Valid {
		m.ClassID = &classID.Int64
	}

	return m, nil
}

// DeleteMetadata removes the metadata row for fileID.
func (r *PostgresRepository) DeleteMetadata(ctx context.Context, fileID int64) error {
	query :=
		`DELETE FROM file_metadata
		 WHERE file_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, fileID)
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

// GetView returns the composed listing row for a single file.
func (r *PostgresRepository) GetView(ctx context.Context, fileID int64) (*models.FileView, error) {
	query := `SELECT ` + viewColumns + `
		 FROM blobs b
		 JOIN file_metadata m ON m.file_id = b.id
		 LEFT JOIN classes c ON c.id = m.class_id
		 WHERE b.id = $1
		 `

	view, err := scanView(r.db.QueryRowContext(ctx, query, fileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return view, nil
}

// List returns the public listing for the given filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*models.FileView, error) {
	query, args := buildListQuery(f)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	return collectViews(rows)
}

// ListByOwner returns the files uploaded by ownerEmail, most recently
// updated first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]*models.FileView, error) {
	query := `SELECT ` + viewColumns + `
		 FROM blobs b
		 JOIN file_metadata m ON m.file_id = b.id
		 LEFT JOIN classes c ON c.id = m.class_id
		 WHERE m.owner_email = $1
		 ORDER BY m.last_updated DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	return collectViews(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanView reads one composed row; class columns may be NULL when the file
// has no class association.
func scanView(row rowScanner) (*models.FileView, error) {
	view := &models.FileView{}
	var (
		classID                             sql.NullInt64
		subject, catalog, title, courseCode sql.NullString
	)
	if err := row.Scan(
		&view.ID, &view.DisplayName, &view.OwnerEmail, &view.MimeType, &view.SizeBytes, &view.LastUpdated,
		&classID, &subject, &catalog, &title, &courseCode,
	); err != nil {
		return nil, err
	}
	if classID.Valid {
		view.Class = &models.Class{
			ID:            classID.Int64,
			Subject:       subject.String,
			CatalogNumber: catalog.String,
			Title:         title.String,
			CourseCode:    courseCode.String,
		}
	}
	return view, nil
}

func collectViews(rows *sql.Rows) ([]*models.FileView, error) {
	var result []*models.FileView
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
