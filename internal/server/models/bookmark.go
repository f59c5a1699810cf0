package models

import "time"

// Bookmark is a user's saved reference to a file. A user may bookmark a
// given file at most once; the storage layer enforces the uniqueness.
type Bookmark struct {
	ID        int64
	UserEmail string
	FileID    int64
	CreatedAt time.Time
}
