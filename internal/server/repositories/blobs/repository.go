package blobs

import (
	"context"

	"studylink/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, blob *models.Blob) (int64, error)
	Get(ctx context.Context, id int64) (*models.Blob, error)
	Delete(ctx context.Context, id int64) error
	ListStorageKeysByOwner(ctx context.Context, ownerEmail string) ([]string, error)
}
