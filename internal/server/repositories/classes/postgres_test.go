package classes

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"studylink/internal/common"
	"studylink/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func classRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "subject", "catalog_number", "title", "course_code"})
}

func TestList_NoFilters(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := classRows().
		AddRow(int64(1), "CS", "370", "Software Engineering", "CS370").
		AddRow(int64(2), "MATH", "221", "Linear Algebra", "MATH221")
	mock.ExpectQuery(`SELECT\s+id,\s*subject.*FROM classes ORDER BY subject, catalog_number$`).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), "", "")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].CourseCode != "CS370" {
		t.Fatalf("unexpected classes: %+v", got)
	}
}

func TestList_SearchAndSubject(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := classRows().
		AddRow(int64(1), "CS", "370", "Software Engineering", "CS370")
	mock.ExpectQuery(`(?s)SELECT\s+id.*WHERE \(title ILIKE \$1 OR course_code ILIKE \$1 OR REPLACE\(LOWER\(subject \|\| catalog_number\), ' ', ''\) LIKE \$2\) AND subject = \$3`).
		WithArgs("%CS 370%", "%cs370%", "CS").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), "CS 370", "CS")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 1 || got[0].Subject != "CS" {
		t.Fatalf("unexpected classes: %+v", got)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := classRows().
		AddRow(int64(5), "CS", "370", "Software Engineering", "CS370")
	mock.ExpectQuery(`SELECT\s+id.*WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != 5 || got.Title != "Software Engineering" {
		t.Fatalf("unexpected class: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsert_AssignsID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(5))
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+classes.*ON CONFLICT \(subject, catalog_number\).*RETURNING\s+id`).
		WithArgs("CS", "370", "Software Engineering", "CS370").
		WillReturnRows(rows)

	class := &models.Class{Subject: "CS", CatalogNumber: "370", Title: "Software Engineering", CourseCode: "CS370"}
	if err := repo.Upsert(context.Background(), class); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if class.ID != 5 {
		t.Fatalf("expected id backfilled, got %+v", class)
	}
}
