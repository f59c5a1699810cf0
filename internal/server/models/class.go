package models

// Class is a course catalog entry files may be associated with.
// The catalog is read-only at runtime and seeded offline.
type Class struct {
	ID            int64
	Subject       string
	CatalogNumber string
	Title         string
	CourseCode    string
}
