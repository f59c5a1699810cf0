package repomanager

import (
	"context"
	"database/sql"

	"studylink/internal/dbx"
	"studylink/internal/server/repositories/blobs"
	"studylink/internal/server/repositories/bookmarks"
	"studylink/internal/server/repositories/classes"
	"studylink/internal/server/repositories/files"
	"studylink/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run several repositories against one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Blobs(db dbx.DBTX) blobs.Repository
	Files(db dbx.DBTX) files.Repository
	Bookmarks(db dbx.DBTX) bookmarks.Repository
	Classes(db dbx.DBTX) classes.Repository
}
