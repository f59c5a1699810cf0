// Package models defines server-side data models persisted in the database.
package models

// Blob is a stored binary payload plus its display name.
//
// Exactly one of Content and StorageKey is set: Content holds the raw bytes
// when payloads live in the database, StorageKey names the object when the
// S3 backend is enabled.
type Blob struct {
	ID          int64
	DisplayName string
	Content     []byte
	StorageKey  string
}
