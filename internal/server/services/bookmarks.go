package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studylink/internal/common"
	"studylink/internal/server/models"
	"studylink/internal/server/repositories/repomanager"
)

// BookmarkService lets users pin files into a personal reading list.
// Bookmarks reference files by id and never copy content, so a bookmarked
// file that gets deleted simply drops out of the list.
type BookmarkService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewBookmarkService constructs a BookmarkService.
func NewBookmarkService(db *sql.DB, m repomanager.RepositoryManager) *BookmarkService {
	return &BookmarkService{db: db, repomanager: m}
}

// Add bookmarks fileID for identity. The file must exist; bookmarking it
// twice is ErrAlreadyExists.
func (s *BookmarkService) Add(ctx context.Context, identity string, fileID int64) (*models.Bookmark, error) {
	if _, err := s.repomanager.Files(s.db).GetMetadata(ctx, fileID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching file: %w", err)
	}

	repo := s.repomanager.Bookmarks(s.db)
	exists, err := repo.Exists(ctx, identity, fileID)
	if err != nil {
		return nil, fmt.Errorf("error checking bookmark: %w", err)
	}
	if exists {
		return nil, common.ErrAlreadyExists
	}

	bookmark, err := repo.Add(ctx, identity, fileID)
	if err != nil {
		// Concurrent duplicate insert surfaces here instead of in Exists.
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error adding bookmark: %w", err)
	}
	return bookmark, nil
}

// Remove deletes identity's bookmark on fileID, or ErrNotFound if there is
// none.
func (s *BookmarkService) Remove(ctx context.Context, identity string, fileID int64) error {
	err := s.repomanager.Bookmarks(s.db).Remove(ctx, identity, fileID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error removing bookmark: %w", err)
	}
	return nil
}

// List returns identity's bookmarked files, most recently bookmarked first.
func (s *BookmarkService) List(ctx context.Context, identity string) ([]*models.FileView, error) {
	views, err := s.repomanager.Bookmarks(s.db).ListByUser(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("error listing bookmarks: %w", err)
	}
	return views, nil
}
