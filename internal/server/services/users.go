// Package services contains server-side business logic. This file implements
// UserService: registration and login for .edu accounts, password changes,
// and full account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studylink/internal/common"
	"studylink/internal/dbx"
	"studylink/internal/emailx"
	"studylink/internal/logging"
	"studylink/internal/server/auth"
	"studylink/internal/server/config"
	"studylink/internal/server/models"
	"studylink/internal/server/repositories/repomanager"
	"studylink/internal/server/storage"
)

// Password length bounds. The upper bound is bcrypt's 72-byte input limit.
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

// AuthResult bundles a freshly minted session token with the identity it
// represents.
type AuthResult struct {
	Token string
	Email string
}

// UserService provides account operations:
// - Register: create .edu accounts and issue a session token
// - Login: verify credentials and issue a session token
// - ChangePassword: rotate the password after re-verifying the current one
// - DeleteAccount: remove the account and everything it owns
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	store                 storage.ObjectStore
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server
// config. store may be nil when file payloads live in the database.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		store:                 store,
		logger:                logger,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, maxPasswordLen)
	}
	return nil
}

// Register creates a new account for a .edu email and returns a session
// token. The email is normalized (trimmed, lowercased) before any check, so
// "Ann@MIT.edu" and "ann@mit.edu" are the same account.
func (s *UserService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = emailx.Normalize(email)
	if !emailx.IsValidEdu(email) {
		return nil, fmt.Errorf("%w: a valid .edu email address is required", common.ErrValidation)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash}); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: an account with this email already exists", common.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issueToken(email)
}

// Login verifies the credentials and returns a session token. Unknown email
// and wrong password present identically as ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = emailx.Normalize(email)

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrUnauthorized
	}

	return s.issueToken(email)
}

// ChangePassword rotates the password for identity after re-verifying the
// current one. Existing session tokens stay valid until they expire.
func (s *UserService) ChangePassword(ctx context.Context, identity, currentPassword, newPassword string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, identity)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthorized
		}
		return fmt.Errorf("error fetching user: %w", err)
	}
	if !auth.CheckPassword(currentPassword, user.PasswordHash) {
		return common.ErrUnauthorized
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := repo.UpdatePassword(ctx, identity, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// DeleteAccount removes the account after verifying the credentials from
// the request body. All of the user's bookmarks, the bookmarks other users
// placed on their files, and every owned file are deleted in one
// transaction. Object-store payloads are cleaned up best-effort after
// commit.
func (s *UserService) DeleteAccount(ctx context.Context, email, password string) error {
	identity := emailx.Normalize(email)
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, identity)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error fetching user: %w", err)
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return common.ErrUnauthorized
	}

	var storageKeys []string
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		filesRepo := s.repomanager.Files(tx)
		blobsRepo := s.repomanager.Blobs(tx)
		bookmarksRepo := s.repomanager.Bookmarks(tx)

		keys, err := blobsRepo.ListStorageKeysByOwner(ctx, identity)
		if err != nil {
			return err
		}
		storageKeys = keys

		views, err := filesRepo.ListByOwner(ctx, identity)
		if err != nil {
			return err
		}
		for _, v := range views {
			if err := bookmarksRepo.DeleteByFile(ctx, v.ID); err != nil {
				return err
			}
			if err := filesRepo.DeleteMetadata(ctx, v.ID); err != nil {
				return err
			}
			if err := blobsRepo.Delete(ctx, v.ID); err != nil {
				return err
			}
		}

		if err := bookmarksRepo.DeleteByUser(ctx, identity); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, identity)
	}); err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}

	s.deleteObjects(ctx, storageKeys)
	return nil
}

// deleteObjects removes object-store payloads after their rows are gone.
// Failures are logged, not returned: the rows are already deleted and a
// retry would not bring them back.
func (s *UserService) deleteObjects(ctx context.Context, keys []string) {
	if s.store == nil {
		return
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "failed to delete object", "key", key, "error", err)
		}
	}
}

func (s *UserService) issueToken(email string) (*AuthResult, error) {
	token, err := auth.GenerateToken(email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &AuthResult{Token: token, Email: email}, nil
}
