package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"studylink/internal/dbx"
	"studylink/internal/logging"
	"studylink/internal/server/models"
	blobsrepo "studylink/internal/server/repositories/blobs"
	bookmarksrepo "studylink/internal/server/repositories/bookmarks"
	classesrepo "studylink/internal/server/repositories/classes"
	filesrepo "studylink/internal/server/repositories/files"
	usersrepo "studylink/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createErr error
	created   []*models.User

	user   *models.User
	getErr error

	updateErr   error
	updatedHash string

	deleteErr error
	deleted   []string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) error {
	f.created = append(f.created, u)
	return f.createErr
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.user, nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	f.updatedHash = passwordHash
	return f.updateErr
}

func (f *fakeUsersRepo) Delete(ctx context.Context, email string) error {
	f.deleted = append(f.deleted, email)
	return f.deleteErr
}

type fakeBlobsRepo struct {
	createID  int64
	createErr error
	created   []*models.Blob

	blob   *models.Blob
	getErr error

	deleteErr error
	deleted   []int64

	keys    []string
	keysErr error
}

func (f *fakeBlobsRepo) Create(ctx context.Context, b *models.Blob) (int64, error) {
	f.created = append(f.created, b)
	if f.createErr != nil {
		return 0, f.createErr
	}
	b.ID = f.createID
	return f.createID, nil
}

func (f *fakeBlobsRepo) Get(ctx context.Context, id int64) (*models.Blob, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.blob, nil
}

func (f *fakeBlobsRepo) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeBlobsRepo) ListStorageKeysByOwner(ctx context.Context, ownerEmail string) ([]string, error) {
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	return f.keys, nil
}

type fakeFilesRepo struct {
	createErr   error
	createdMeta []*models.FileMetadata

	meta       *models.FileMetadata
	getMetaErr error

	deleteErr   error
	deletedMeta []int64

	view       *models.FileView
	getViewErr error

	views      []*models.FileView
	listErr    error
	lastFilter filesrepo.Filter
}

func (f *fakeFilesRepo) CreateMetadata(ctx context.Context, m *models.FileMetadata) error {
	f.createdMeta = append(f.createdMeta, m)
	return f.createErr
}

func (f *fakeFilesRepo) GetMetadata(ctx context.Context, fileID int64) (*models.FileMetadata, error) {
	if f.getMetaErr != nil {
		return nil, f.getMetaErr
	}
	return f.meta, nil
}

func (f *fakeFilesRepo) DeleteMetadata(ctx context.Context, fileID int64) error {
	f.deletedMeta = append(f.deletedMeta, fileID)
	return f.deleteErr
}

func (f *fakeFilesRepo) GetView(ctx context.Context, fileID int64) (*models.FileView, error) {
	if f.getViewErr != nil {
		return nil, f.getViewErr
	}
	return f.view, nil
}

func (f *fakeFilesRepo) List(ctx context.Context, filter filesrepo.Filter) ([]*models.FileView, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.views, nil
}

func (f *fakeFilesRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]*models.FileView, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.views, nil
}

type fakeBookmarksRepo struct {
	addOut *models.Bookmark
	addErr error

	removeErr error
	removed   []int64

	exists    bool
	existsErr error

	views   []*models.FileView
	listErr error

	deleteByFileErr error
	deletedFiles    []int64

	deleteByUserErr error
	deletedUsers    []string
}

func (f *fakeBookmarksRepo) Add(ctx context.Context, userEmail string, fileID int64) (*models.Bookmark, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.addOut, nil
}

func (f *fakeBookmarksRepo) Remove(ctx context.Context, userEmail string, fileID int64) error {
	f.removed = append(f.removed, fileID)
	return f.removeErr
}

func (f *fakeBookmarksRepo) Exists(ctx context.Context, userEmail string, fileID int64) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.exists, nil
}

func (f *fakeBookmarksRepo) ListByUser(ctx context.Context, userEmail string) ([]*models.FileView, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.views, nil
}

func (f *fakeBookmarksRepo) DeleteByFile(ctx context.Context, fileID int64) error {
	f.deletedFiles = append(f.deletedFiles, fileID)
	return f.deleteByFileErr
}

func (f *fakeBookmarksRepo) DeleteByUser(ctx context.Context, userEmail string) error {
	f.deletedUsers = append(f.deletedUsers, userEmail)
	return f.deleteByUserErr
}

type fakeClassesRepo struct {
	list      []*models.Class
	listErr   error
	listCalls int

	class  *models.Class
	getErr error

	upsertErr error
	upserted  []*models.Class
}

func (f *fakeClassesRepo) List(ctx context.Context, search, subject string) ([]*models.Class, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeClassesRepo) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.class, nil
}

func (f *fakeClassesRepo) Upsert(ctx context.Context, class *models.Class) error {
	f.upserted = append(f.upserted, class)
	return f.upsertErr
}

type fakeRepoManager struct {
	users     *fakeUsersRepo
	blobs     *fakeBlobsRepo
	files     *fakeFilesRepo
	bookmarks *fakeBookmarksRepo
	classes   *fakeClassesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository          { return m.users }
func (m *fakeRepoManager) Blobs(db dbx.DBTX) blobsrepo.Repository          { return m.blobs }
func (m *fakeRepoManager) Files(db dbx.DBTX) filesrepo.Repository          { return m.files }
func (m *fakeRepoManager) Bookmarks(db dbx.DBTX) bookmarksrepo.Repository  { return m.bookmarks }
func (m *fakeRepoManager) Classes(db dbx.DBTX) classesrepo.Repository      { return m.classes }

// --- fake object store ---

type fakeObjectStore struct {
	putErr error
	puts   map[string][]byte

	getOut []byte
	getErr error

	deleteErr error
	deleted   []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{puts: map[string][]byte{}}
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, content []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts[key] = content
	return nil
}

func (f *fakeObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.deleteErr
}

// --- fake cache ---

type fakeCache struct {
	data map[string][]byte
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, ok := f.data[key]
	return b, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	f.sets++
	f.data[key] = value
}
