// Package classes provides the PostgreSQL-backed course catalog. The catalog
// is read-only at runtime; Upsert exists for the offline seeding CLI.
package classes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

// List returns catalog entries, optionally narrowed by a case-insensitive
// search (title, course code, or compact subject+catalog concatenation) and
// an exact subject filter.
func (r *PostgresRepository) List(ctx context.Context, search, subject string) ([]*models.Class, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(search); s != "" {
		like := arg("%" + s + "%")
		compact := arg("%" + strings.Join(strings.Fields(strings.ToLower(s)), "") + "%")
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE %[1]s OR course_code ILIKE %[1]s"+
				" OR REPLACE(LOWER(subject || catalog_number), ' ', '') LIKE %[2]s)",
			like, compact))
	}
	if subject != "" {
		conds = append(conds, "subject = "+arg(subject))
	}

	query := `SELECT id, subject, catalog_number, title, course_code FROM classes`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY subject, catalog_number"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select classes: %w", err)
	}
	defer rows.Close()

	var result []*models.Class
	for rows.Next() {
		var item models.Class
		if err := rows.Scan(&item.ID, &item.Subject, &item.CatalogNumber, &item.Title, &item.CourseCode); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the catalog entry for id, or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	query :=
		`SELECT id, subject, catalog_number, title, course_code FROM classes
		 WHERE id = $1
		 `

	class := &models.Class{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&class.ID, &class.Subject, &class.CatalogNumber, &class.Title, &class.CourseCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return class, nil
}

// Upsert inserts or refreshes a catalog entry keyed by (subject, catalog
// number). The assigned id is written back into class.
func (r *PostgresRepository) Upsert(ctx context.Context, class *models.Class) error {
	query := `
		INSERT INTO classes (subject, catalog_number, title, course_code)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject, catalog_number)
		DO UPDATE SET
			title = EXCLUDED.title,
			course_code = EXCLUDED.course_code
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		class.Subject, class.CatalogNumber, class.Title, class.CourseCode).Scan(&class.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
