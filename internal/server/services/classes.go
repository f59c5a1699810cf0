package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"studylink/internal/logging"
	"studylink/internal/server/cache"
	"studylink/internal/server/models"
	"studylink/internal/server/repositories/repomanager"
)

// classCacheTTL bounds staleness of the catalog cache. The catalog only
// changes when an admin seeds it, so a few minutes is plenty.
const classCacheTTL = 5 * time.Minute

// ClassService serves the class catalog. Results are cached per query since
// the catalog is read-mostly and the browse page hits it on every keystroke.
type ClassService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.Store
	logger      logging.Logger
}

// NewClassService constructs a ClassService. Pass cache.Noop{} to disable
// caching.
func NewClassService(db *sql.DB, m repomanager.RepositoryManager, c cache.Store, logger logging.Logger) *ClassService {
	return &ClassService{db: db, repomanager: m, cache: c, logger: logger}
}

// List returns classes matching the optional search term and subject filter,
// ordered by subject then catalog number.
func (s *ClassService) List(ctx context.Context, search, subject string) ([]*models.Class, error) {
	key := fmt.Sprintf("classes:%s:%s", search, subject)

	if b, ok := s.cache.Get(ctx, key); ok {
		var cached []*models.Class
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn(ctx, "discarding undecodable cache entry", "key", key)
	}

	list, err := s.repomanager.Classes(s.db).List(ctx, search, subject)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}

	if b, err := json.Marshal(list); err == nil {
		s.cache.Set(ctx, key, b, classCacheTTL)
	}
	return list, nil
}

// SeedClasses upserts the given classes into the catalog. Used by the admin
// CLI; existing rows keep their ids so file references stay intact.
func (s *ClassService) SeedClasses(ctx context.Context, list []*models.Class) error {
	repo := s.repomanager.Classes(s.db)
	for _, c := range list {
		if err := repo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("error upserting class %s %s: %w", c.Subject, c.CatalogNumber, err)
		}
	}
	return nil
}
