package files

import (
	"fmt"
	"strings"
)

// Filter selects rows for the public file listing.
type Filter struct {
	// Search is an optional case-insensitive substring matched against the
	// display name, mime type, class subject, catalog number, title, and
	// the whitespace-stripped subject+catalog concatenation (so "CS 370"
	// and "cs370" both match).
	Search string
	// ClassIDs restricts results to files tagged with any of these classes.
	ClassIDs []int64
	// IncludeNoClass additionally admits files without a class association.
	IncludeNoClass bool
}

// viewColumns is the composed listing row: blob + metadata + optional class.
// Class columns come from a join that may produce NULLs, so they are scanned
// through nullable types.
const viewColumns = `b.id, b.display_name, m.owner_email, m.mime_type, m.size_bytes, m.last_updated, ` +
	`c.id, c.subject, c.catalog_number, c.title, c.course_code`

// buildListQuery composes the parameterized SELECT for the public listing.
//
// The class join is INNER only when the filter names class ids and does not
// include the no-class sentinel; otherwise it is LEFT so files without a
// class stay visible. Multiple selected classes combine with OR. Results are
// ordered newest-first by blob id (ids are assigned monotonically).
func buildListQuery(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	classJoin := "LEFT JOIN"
	if len(f.ClassIDs) > 0 && !f.IncludeNoClass {
		classJoin = "JOIN"
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		like := arg("%" + s + "%")
		compact := arg("%" + stripSpace(strings.ToLower(s)) + "%")
		conds = append(conds, fmt.Sprintf(
			"(b.display_name ILIKE %[1]s OR m.mime_type ILIKE %[1]s"+
				" OR c.subject ILIKE %[1]s OR c.catalog_number ILIKE %[1]s OR c.title ILIKE %[1]s"+
				" OR REPLACE(LOWER(COALESCE(c.subject, '') || COALESCE(c.catalog_number, '')), ' ', '') LIKE %[2]s)",
			like, compact))
	}

	if len(f.ClassIDs) > 0 || f.IncludeNoClass {
		var alts []string
		if len(f.ClassIDs) > 0 {
			placeholders := make([]string, 0, len(f.ClassIDs))
			for _, id := range f.ClassIDs {
				placeholders = append(placeholders, arg(id))
			}
			alts = append(alts, "m.class_id IN ("+strings.Join(placeholders, ", ")+")")
		}
		if f.IncludeNoClass {
			alts = append(alts, "m.class_id IS NULL")
		}
		conds = append(conds, "("+strings.Join(alts, " OR ")+")")
	}

	query := "SELECT " + viewColumns +
		" FROM blobs b" +
		" JOIN file_metadata m ON m.file_id = b.id " +
		classJoin + " classes c ON c.id = m.class_id"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY b.id DESC"

	return query, args
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
