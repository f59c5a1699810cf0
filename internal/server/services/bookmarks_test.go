package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"studylink/internal/common"
	"studylink/internal/server/models"
)

func TestBookmarkAdd_Success(t *testing.T) {
	rm := &fakeRepoManager{
		files: &fakeFilesRepo{meta: &models.FileMetadata{FileID: 7}},
		bookmarks: &fakeBookmarksRepo{
			addOut: &models.Bookmark{ID: 1, UserEmail: "ann@mit.edu", FileID: 7, CreatedAt: time.Now()},
		},
	}
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewBookmarkService(db, rm)

	b, err := s.Add(context.Background(), "ann@mit.edu", 7)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if b.FileID != 7 || b.UserEmail != "ann@mit.edu" {
		t.Fatalf("unexpected bookmark: %+v", b)
	}
}

func TestBookmarkAdd_FileMissing(t *testing.T) {
	rm := &fakeRepoManager{
		files:     &fakeFilesRepo{getMetaErr: common.ErrNotFound},
		bookmarks: &fakeBookmarksRepo{},
	}
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewBookmarkService(db, rm)

	if _, err := s.Add(context.Background(), "ann@mit.edu", 404); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookmarkAdd_Duplicate(t *testing.T) {
	rm := &fakeRepoManager{
		files:     &fakeFilesRepo{meta: &models.FileMetadata{FileID: 7}},
		bookmarks: &fakeBookmarksRepo{exists: true},
	}
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewBookmarkService(db, rm)

	if _, err := s.Add(context.Background(), "ann@mit.edu", 7); !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestBookmarkAdd_ConcurrentDuplicate(t *testing.T) {
	// Exists misses but the insert itself hits the unique constraint.
	rm := &fakeRepoManager{
		files:     &fakeFilesRepo{meta: &models.FileMetadata{FileID: 7}},
		bookmarks: &fakeBookmarksRepo{addErr: common.ErrAlreadyExists},
	}
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewBookmarkService(db, rm)

	if _, err := s.Add(context.Background(), "ann@mit.edu", 7); !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestBookmarkRemove(t *testing.T) {
	rm := &fakeRepoManager{bookmarks: &fakeBookmarksRepo{}}
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewBookmarkService(db, rm)

	if err := s.Remove(context.Background(), "ann@mit.edu", 7); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	rm.bookmarks.removeErr = common.ErrNotFound
	if err := s.Remove(context.Background(), "ann@mit.edu", 404); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookmarkList(t *testing.T) {
	rm := &fakeRepoManager{
		bookmarks: &fakeBookmarksRepo{views: []*models.FileView{{ID: 9}, {ID: 7}}},
	}
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewBookmarkService(db, rm)

	views, err := s.List(context.Background(), "ann@mit.edu")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(views) != 2 || views[0].ID != 9 {
		t.Fatalf("unexpected views: %+v", views)
	}
}
