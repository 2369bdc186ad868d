// Define the contract every job board source implements

package scraper

import (
	"context"
	"iter"
	"strings"

	"go-jobradar/internal/models"
)

// RawCandidate is a posting as extracted from a results page, before any
// validation or filtering.
type RawCandidate struct {
	ID         string
	Title      string
	Company    string
	Salary     string
	Location   string
	PostedDate string
}

// Valid reports whether the candidate has the required identifier and title.
func (c RawCandidate) Valid() bool {
	return strings.TrimSpace(c.ID) != "" && strings.TrimSpace(c.Title) != ""
}

// Source is one job board.
type Source interface {
	// Platform tags every record produced by this source.
	Platform() models.Platform

	// Fetch searches keyword within the platform-specific lookback window.
	// Candidates are yielded in discovery order across pages; the sequence is
	// single pass. A failure is yielded once as a non-nil error and ends the
	// sequence. No results is an empty sequence with no error.
	Fetch(ctx context.Context, keyword, window string) iter.Seq2[RawCandidate, error]
}
