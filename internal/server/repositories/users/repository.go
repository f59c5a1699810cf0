package users

import (
	"context"

	"studylink/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
	Delete(ctx context.Context, email string) error
}
