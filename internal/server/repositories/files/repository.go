package files

import (
	"context"

	"studylink/internal/server/models"
)

type Repository interface {
	CreateMetadata(ctx context.Context, m *models.FileMetadata) error
	GetMetadata(ctx context.Context, fileID int64) (*models.FileMetadata, error)
	DeleteMetadata(ctx context.Context, fileID int64) error
	GetView(ctx context.Context, fileID int64) (*models.FileView, error)
	List(ctx context.Context, f Filter) ([]*models.FileView, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]*models.FileView, error)
}
