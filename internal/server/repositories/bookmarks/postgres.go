// Package bookmarks provides the PostgreSQL-backed bookmark ledger: the
// many-to-many join between users and files. The unique index on
// (user_email, file_id) is the authoritative duplicate signal.
package bookmarks

import (
	"context"
	"database/sql"
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

// Add inserts a bookmark row. A duplicate (userEmail, fileID) pair yields
// common.ErrAlreadyExists even when two requests race.
func (r *PostgresRepository) Add(ctx context.Context, userEmail string, fileID int64) (*models.Bookmark, error) {
	query := `
		INSERT INTO bookmarks (user_email, file_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	bm := &models.Bookmark{UserEmail: userEmail, FileID: fileID}
	if err := r.db.QueryRowContext(ctx, query, userEmail, fileID).Scan(&bm.ID, &bm.CreatedAt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return bm, nil
}

// Remove deletes the bookmark for (userEmail, fileID). If no row matched,
// it returns common.ErrNotFound.
func (r *PostgresRepository) Remove(ctx context.Context, userEmail string, fileID int64) error {
	query := `
		DELETE FROM bookmarks
		WHERE user_email = $1 AND file_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, userEmail, fileID)
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

// Exists reports whether (userEmail, fileID) is already bookmarked. It is a
// fast path for a friendly conflict message; the unique index remains the
// authority under concurrency.
func (r *PostgresRepository) Exists(ctx context.Context, userEmail string, fileID int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_email = $1 AND file_id = $2)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userEmail, fileID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// ListByUser returns the user's bookmarked files, most recently bookmarked
// first, each row carrying the bookmark creation time.
func (r *PostgresRepository) ListByUser(ctx context.Context, userEmail string) ([]*models.FileView, error) {
	query := `
		SELECT b.id, b.display_name, m.owner_email, m.mime_type, m.size_bytes, m.last_updated,
		       c.id, c.subject, c.catalog_number, c.title, c.course_code, bk.created_at
		FROM bookmarks bk
		JOIN blobs b ON b.id = bk.file_id
		JOIN file_metadata m ON m.file_id = b.id
		LEFT JOIN classes c ON c.id = m.class_id
		WHERE bk.user_email = $1
		ORDER BY bk.created_at DESC, bk.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to select bookmarks: %w", err)
	}
	defer rows.Close()

	var result []*models.FileView
	for rows.Next() {
		view := &models.FileView{}
		var (
			classID                             sql.NullInt64
			subject, catalog, title, courseCode sql.NullString
			bookmarkedAt                        sql.NullTime
		)
		if err := rows.Scan(
			&view.ID, &view.DisplayName, &view.OwnerEmail, &view.MimeType, &view.SizeBytes, &view.LastUpdated,
			&classID, &subject, &catalog, &title, &courseCode, &bookmarkedAt,
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
		if bookmarkedAt.Valid {
			view.BookmarkedAt = &bookmarkedAt.Time
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByFile removes every bookmark referencing fileID. Deleting a file
// must not leave bookmarks pointing at it.
func (r *PostgresRepository) DeleteByFile(ctx context.Context, fileID int64) error {
	query := `
		DELETE FROM bookmarks
		WHERE file_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, fileID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByUser removes every bookmark placed by userEmail.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userEmail string) error {
	query := `
		DELETE FROM bookmarks
		WHERE user_email = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userEmail); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
