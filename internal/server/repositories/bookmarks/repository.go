package bookmarks

import (
	"context"

	"studylink/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, userEmail string, fileID int64) (*models.Bookmark, error)
	Remove(ctx context.Context, userEmail string, fileID int64) error
	Exists(ctx context.Context, userEmail string, fileID int64) (bool, error)
	ListByUser(ctx context.Context, userEmail string) ([]*models.FileView, error)
	DeleteByFile(ctx context.Context, fileID int64) error
	DeleteByUser(ctx context.Context, userEmail string) error
}
