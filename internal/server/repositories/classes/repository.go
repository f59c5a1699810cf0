package classes

import (
	"context"

	"studylink/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, search, subject string) ([]*models.Class, error)
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	Upsert(ctx context.Context, class *models.Class) error
}
