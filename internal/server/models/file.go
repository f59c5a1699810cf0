package models

import "time"

// FileMetadata is the ownership/type/size/class record, exactly one per blob.
type FileMetadata struct {
	FileID      int64
	OwnerEmail  string
	MimeType    string
	SizeBytes   int64
	LastUpdated time.Time
	// ClassID is nil for files with no class association.
	ClassID *int64
}

// FileView is the composed listing row: blob + metadata + optional class.
type FileView struct {
	ID          int64
	DisplayName string
	OwnerEmail  string
	MimeType    string
	SizeBytes   int64
	LastUpdated time.Time
	Class       *Class
	// BookmarkedAt is set only in bookmark listings.
	BookmarkedAt *time.Time
}
