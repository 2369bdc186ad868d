package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Column names of the durable store.
const (
	ColJobID          = "job_id"
	ColPlatform       = "platform"
	ColTitle          = "title"
	ColCompany        = "company"
	ColSalary         = "salary"
	ColLocation       = "location"
	ColPostedDate     = "posted_date"
	ColTimestampFound = "timestamp_found"
	ColLink           = "link"
)

// DefaultSchema is the column order written to the store.
var DefaultSchema = []string{
	ColJobID, ColPlatform, ColTitle, ColCompany, ColSalary, ColTimestampFound, ColLink,
}

// KeyColumns must appear in every store schema: rows are identified by them.
var KeyColumns = []string{ColJobID, ColPlatform}

// CheckSchema rejects a column list that would write rows without their key
// or with a repeated column.
func CheckSchema(schema []string) error {
	for _, col := range KeyColumns {
		if !slices.Contains(schema, col) {
			return fmt.Errorf("schema %v lacks required column %q", schema, col)
		}
	}
	seen := make(map[string]bool, len(schema))
	for _, col := range schema {
		if seen[col] {
			return fmt.Errorf("schema %v repeats column %q", schema, col)
		}
		seen[col] = true
	}
	return nil
}

// Row is one record as stored, keyed by column name. A missing column is null.
type Row map[string]string

func (r Row) ID() string {
	return strings.TrimSpace(r[ColJobID])
}

// ValidID reports whether the row carries a usable identifier.
func (r Row) ValidID() bool {
	id := r.ID()
	return id != "" && id != "None"
}

// Key returns the composite identity. A row without a recognised platform
// yields a key with an empty Platform.
func (r Row) Key() Key {
	p, err := ParsePlatform(r[ColPlatform])
	if err != nil {
		p = ""
	}
	return Key{Platform: p, ID: r.ID()}
}

// DiscoveredAt parses timestamp_found in local time.
func (r Row) DiscoveredAt() (time.Time, bool) {
	raw := strings.TrimSpace(r[ColTimestampFound])
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimestampLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Project copies the row onto schema, filling absent columns with "".
func (r Row) Project(schema []string) Row {
	out := make(Row, len(schema))
	for _, col := range schema {
		out[col] = r[col]
	}
	return out
}
