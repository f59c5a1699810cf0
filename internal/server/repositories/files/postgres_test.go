package files

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

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

func viewRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "display_name", "owner_email", "mime_type", "size_bytes", "last_updated",
		"class_id", "subject", "catalog_number", "title", "course_code",
	})
}

var lastUpdated = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

func TestCreateMetadata_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+file_metadata\s*\(file_id,\s*owner_email,\s*mime_type,\s*size_bytes,\s*last_updated,\s*class_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*$`

	classID := int64(5)
	mock.ExpectExec(q).
		WithArgs(int64(7), "alice@school.edu", "application/pdf", int64(1024), lastUpdated, &classID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	m := &models.FileMetadata{
		FileID:      7,
		OwnerEmail:  "alice@school.edu",
		MimeType:    "application/pdf",
		SizeBytes:   1024,
		LastUpdated: lastUpdated,
		ClassID:     &classID,
	}
	if err := repo.CreateMetadata(context.Background(), m); err != nil {
		t.Fatalf("CreateMetadata error: %v", err)
	}
}

func TestCreateMetadata_DuplicateFileID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+file_metadata`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.CreateMetadata(context.Background(), &models.FileMetadata{FileID: 7})
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetMetadata_FoundWithClass(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"file_id", "owner_email", "mime_type", "size_bytes", "last_updated", "class_id"}).
		AddRow(int64(7), "alice@school.edu", "application/pdf", int64(1024), lastUpdated, int64(5))
	mock.ExpectQuery(`SELECT\s+file_id`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.GetMetadata(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetMetadata error: %v", err)
	}
	if got.OwnerEmail != "alice@school.edu" || got.ClassID == nil || *got.ClassID != 5 {
		t.Fatalf("unexpected metadata: %+v", got)
	}
}

func TestGetMetadata_NullClass(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"file_id", "owner_email", "mime_type", "size_bytes", "last_updated", "class_id"}).
		AddRow(int64(7), "alice@school.edu", "text/plain", int64(10), lastUpdated, nil)
	mock.ExpectQuery(`SELECT\s+file_id`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.GetMetadata(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetMetadata error: %v", err)
	}
	if got.ClassID != nil {
		t.Fatalf("expected nil ClassID, got %v", *got.ClassID)
	}
}

func TestGetMetadata_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+file_id`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetMetadata(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMetadata_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+file_metadata`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteMetadata(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetView_ClassAndNoClass(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := viewRows().
		AddRow(int64(7), "notes.pdf", "alice@school.edu", "application/pdf", int64(1024), lastUpdated,
			int64(5), "CS", "370", "Software Engineering", "CS370")
	mock.ExpectQuery(`SELECT\s+b\.id`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.GetView(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetView error: %v", err)
	}
	if got.Class == nil || got.Class.CourseCode != "CS370" {
		t.Fatalf("unexpected view: %+v", got)
	}

	rows = viewRows().
		AddRow(int64(8), "todo.txt", "alice@school.edu", "text/plain", int64(10), lastUpdated,
			nil, nil, nil, nil, nil)
	mock.ExpectQuery(`SELECT\s+b\.id`).
		WithArgs(int64(8)).
		WillReturnRows(rows)

	got, err = repo.GetView(context.Background(), 8)
	if err != nil {
		t.Fatalf("GetView error: %v", err)
	}
	if got.Class != nil {
		t.Fatalf("expected nil class, got %+v", got.Class)
	}
}

func TestGetView_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+b\.id`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetView(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_AppliesFilterArgs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := viewRows().
		AddRow(int64(9), "b.pdf", "bob@school.edu", "application/pdf", int64(2), lastUpdated,
			int64(5), "CS", "370", "Software Engineering", "CS370").
		AddRow(int64(7), "a.pdf", "alice@school.edu", "application/pdf", int64(1), lastUpdated,
			nil, nil, nil, nil, nil)
	mock.ExpectQuery(`SELECT\s+b\.id.*LEFT JOIN classes.*ORDER BY b\.id DESC`).
		WithArgs("%cs%", "%cs%", int64(5)).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), Filter{Search: "cs", ClassIDs: []int64{5}, IncludeNoClass: true})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 9 || got[1].ID != 7 {
		t.Fatalf("unexpected views: %+v", got)
	}
	if got[1].Class != nil {
		t.Fatalf("expected second row without class, got %+v", got[1].Class)
	}
}

func TestListByOwner_OrdersByLastUpdated(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := viewRows().
		AddRow(int64(7), "a.pdf", "alice@school.edu", "application/pdf", int64(1), lastUpdated,
			nil, nil, nil, nil, nil)
	mock.ExpectQuery(`SELECT\s+b\.id.*WHERE\s+m\.owner_email\s*=\s*\$1\s+ORDER BY m\.last_updated DESC`).
		WithArgs("alice@school.edu").
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), "alice@school.edu")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 1 || got[0].OwnerEmail != "alice@school.edu" {
		t.Fatalf("unexpected views: %+v", got)
	}
}
