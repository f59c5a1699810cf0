package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studylink/internal/common"
	"studylink/internal/dbx"
	"studylink/internal/logging"
	"studylink/internal/server/config"
	"studylink/internal/server/models"
	"studylink/internal/server/repositories/files"
	"studylink/internal/server/repositories/repomanager"
	"studylink/internal/server/storage"
)

const defaultMimeType = "application/octet-stream"

// UploadInput carries one file upload: content plus the metadata supplied by
// the client.
type UploadInput struct {
	OwnerEmail  string
	DisplayName string
	MimeType    string
	Content     []byte
	ClassID     *int64
}

// DownloadResult is a resolved file payload ready to serve.
type DownloadResult struct {
	DisplayName string
	MimeType    string
	Content     []byte
}

// FileService implements the file lifecycle: upload, metadata listing,
// download, and deletion. Payload bytes live either in the blobs table or,
// when an ObjectStore is configured, in the object store.
type FileService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	store          storage.ObjectStore
	logger         logging.Logger
	maxUploadBytes int64
}

// NewFileService constructs a FileService. store may be nil when payloads
// live in the database.
func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, logger logging.Logger, cfg *config.Config) *FileService {
	return &FileService{
		db:             db,
		repomanager:    m,
		store:          store,
		logger:         logger,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Upload stores a new file and returns its catalog view. The class, when
// given, must exist; a dangling id is a validation error, not a silent null.
func (s *FileService) Upload(ctx context.Context, in UploadInput) (*models.FileView, error) {
	if in.DisplayName == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrValidation)
	}
	if len(in.Content) == 0 {
		return nil, fmt.Errorf("%w: file is empty", common.ErrValidation)
	}
	if int64(len(in.Content)) > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds the %d byte upload limit", common.ErrValidation, s.maxUploadBytes)
	}
	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	var class *models.Class
	if in.ClassID != nil {
		if *in.ClassID <= 0 {
			return nil, fmt.Errorf("%w: invalid class id", common.ErrValidation)
		}
		var err error
		class, err = s.repomanager.Classes(s.db).GetByID(ctx, *in.ClassID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("class %d: %w", *in.ClassID, common.ErrNotFound)
			}
			return nil, fmt.Errorf("error fetching class: %w", err)
		}
	}

	blob := &models.Blob{DisplayName: in.DisplayName, Content: in.Content}
	if s.store != nil {
		// Object write goes first so a failed transaction never leaves a row
		// pointing at a key that was never written.
		blob.StorageKey = storage.NewStorageKey()
		blob.Content = nil
		if err := s.store.Put(ctx, blob.StorageKey, in.Content); err != nil {
			return nil, fmt.Errorf("error storing object: %w", err)
		}
	}

	meta := &models.FileMetadata{
		OwnerEmail:  in.OwnerEmail,
		MimeType:    mimeType,
		SizeBytes:   int64(len(in.Content)),
		LastUpdated: time.Now(),
		ClassID:     in.ClassID,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := s.repomanager.Blobs(tx).Create(ctx, blob)
		if err != nil {
			return err
		}
		meta.FileID = id
		return s.repomanager.Files(tx).CreateMetadata(ctx, meta)
	}); err != nil {
		if blob.StorageKey != "" {
			if delErr := s.store.Delete(ctx, blob.StorageKey); delErr != nil {
				s.logger.Warn(ctx, "failed to delete orphaned object", "key", blob.StorageKey, "error", delErr)
			}
		}
		return nil, fmt.Errorf("error saving file: %w", err)
	}

	return &models.FileView{
		ID:          meta.FileID,
		DisplayName: blob.DisplayName,
		OwnerEmail:  meta.OwnerEmail,
		MimeType:    meta.MimeType,
		SizeBytes:   meta.SizeBytes,
		LastUpdated: meta.LastUpdated,
		Class:       class,
	}, nil
}

// Delete removes a file: its bookmarks, metadata, and payload go in one
// transaction. Only the owner may delete; anyone else gets ErrForbidden.
func (s *FileService) Delete(ctx context.Context, identity string, fileID int64) error {
	meta, err := s.repomanager.Files(s.db).GetMetadata(ctx, fileID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error fetching file: %w", err)
	}
	if meta.OwnerEmail != identity {
		return common.ErrForbidden
	}

	var storageKey string
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		blob, err := s.repomanager.Blobs(tx).Get(ctx, fileID)
		if err != nil {
			return err
		}
		storageKey = blob.StorageKey

		if err := s.repomanager.Bookmarks(tx).DeleteByFile(ctx, fileID); err != nil {
			return err
		}
		if err := s.repomanager.Files(tx).DeleteMetadata(ctx, fileID); err != nil {
			return err
		}
		return s.repomanager.Blobs(tx).Delete(ctx, fileID)
	}); err != nil {
		return fmt.Errorf("error deleting file: %w", err)
	}

	if s.store != nil && storageKey != "" {
		if err := s.store.Delete(ctx, storageKey); err != nil {
			s.logger.Warn(ctx, "failed to delete object", "key", storageKey, "error", err)
		}
	}
	return nil
}

// Get resolves a file's payload for download. Metadata is consulted for the
// MIME type but its absence does not block the download; the blob row alone
// is authoritative for existence.
func (s *FileService) Get(ctx context.Context, fileID int64) (*DownloadResult, error) {
	blob, err := s.repomanager.Blobs(s.db).Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching file: %w", err)
	}

	mimeType := defaultMimeType
	meta, err := s.repomanager.Files(s.db).GetMetadata(ctx, fileID)
	if err == nil && meta.MimeType != "" {
		mimeType = meta.MimeType
	} else if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("error fetching file metadata: %w", err)
	}

	content := blob.Content
	if blob.StorageKey != "" {
		if s.store == nil {
			return nil, fmt.Errorf("file %d lives in object storage but no store is configured", fileID)
		}
		content, err = s.store.Get(ctx, blob.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("error fetching object: %w", err)
		}
	}

	return &DownloadResult{
		DisplayName: blob.DisplayName,
		MimeType:    mimeType,
		Content:     content,
	}, nil
}

// List returns catalog views matching the filter, newest upload first.
func (s *FileService) List(ctx context.Context, f files.Filter) ([]*models.FileView, error) {
	views, err := s.repomanager.Files(s.db).List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return views, nil
}

// ListMine returns every file owned by identity, newest upload first.
func (s *FileService) ListMine(ctx context.Context, identity string) ([]*models.FileView, error) {
	views, err := s.repomanager.Files(s.db).ListByOwner(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return views, nil
}
