// Package httpapi exposes the StudyLink REST API over gin: authentication,
// file upload/download, catalog browsing, and bookmarks. Handlers stay thin,
// translating HTTP to service calls and sentinel errors back to statuses.
package httpapi

import (
	"context"

	"studylink/internal/server/models"
	"studylink/internal/server/repositories/files"
	"studylink/internal/server/services"
)

// UserService is the account surface the handlers need.
type UserService interface {
	Register(ctx context.Context, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	ChangePassword(ctx context.Context, identity, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, email, password string) error
}

// FileService is the file lifecycle surface the handlers need.
type FileService interface {
	Upload(ctx context.Context, in services.UploadInput) (*models.FileView, error)
	Delete(ctx context.Context, identity string, fileID int64) error
	Get(ctx context.Context, fileID int64) (*services.DownloadResult, error)
	List(ctx context.Context, f files.Filter) ([]*models.FileView, error)
	ListMine(ctx context.Context, identity string) ([]*models.FileView, error)
}

// BookmarkService is the bookmark surface the handlers need.
type BookmarkService interface {
	Add(ctx context.Context, identity string, fileID int64) (*models.Bookmark, error)
	Remove(ctx context.Context, identity string, fileID int64) error
	List(ctx context.Context, identity string) ([]*models.FileView, error)
}

// ClassService is the catalog surface the handlers need.
type ClassService interface {
	List(ctx context.Context, search, subject string) ([]*models.Class, error)
}

// Services bundles everything the router depends on.
type Services struct {
	Users     UserService
	Files     FileService
	Bookmarks BookmarkService
	Classes   ClassService
}
