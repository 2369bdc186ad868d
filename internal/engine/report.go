package engine

import (
	"time"

	"go-jobradar/internal/filter"
	"go-jobradar/internal/models"
)

// BucketDuplicate names the sample list of included titles skipped as
// already known.
const BucketDuplicate = "duplicate"

// maxSamples caps the titles kept per bucket.
const maxSamples = 50

// Counts are the classification tallies of one platform or of the whole run.
// Duplicate is a subset of Included and Accepted = Included - Duplicate.
type Counts struct {
	Included         int `json:"included"`
	ExcludedExplicit int `json:"excluded_explicit"`
	ExcludedImplicit int `json:"excluded_implicit"`
	Duplicate        int `json:"duplicate"`
	Accepted         int `json:"accepted"`
	Invalid          int `json:"invalid"`
	Failed           int `json:"failed_searches"`
}

type TitleSample struct {
	Platform models.Platform `json:"platform"`
	Title    string          `json:"title"`
	Word     string          `json:"word,omitempty"`
}

// PairFailure is one (keyword, platform) search that did not complete.
type PairFailure struct {
	Keyword  string          `json:"keyword"`
	Platform models.Platform `json:"platform"`
	Err      string          `json:"error"`
}

// StoreSummary is filled in after persistence.
type StoreSummary struct {
	Path       string `json:"path"`
	Written    bool   `json:"written"`
	Rows       int    `json:"rows"`
	Added      int    `json:"added"`
	RescuePath string `json:"rescue_path,omitempty"`
	AsidePath  string `json:"aside_path,omitempty"`
	Warning    string `json:"warning,omitempty"`
	Err        string `json:"error,omitempty"`
}

// Report summarises one run. It is produced even when the run fails part way.
type Report struct {
	RunID       string                      `json:"run_id"`
	StartedAt   time.Time                   `json:"started_at"`
	FinishedAt  time.Time                   `json:"finished_at"`
	Keywords    []string                    `json:"keywords"`
	Windows     map[models.Platform]string  `json:"windows"`
	Total       Counts                      `json:"total"`
	PerPlatform map[models.Platform]*Counts `json:"per_platform"`
	Titles      map[string][]TitleSample    `json:"titles"`
	Failures    []PairFailure               `json:"failures,omitempty"`
	Aborted     bool                        `json:"aborted"`
	AbortReason string                      `json:"abort_reason,omitempty"`
	Interrupted bool                        `json:"interrupted"`
	Store       StoreSummary                `json:"store"`
}

func NewReport(runID string, started time.Time) *Report {
	return &Report{
		RunID:       runID,
		StartedAt:   started,
		Windows:     make(map[models.Platform]string),
		PerPlatform: make(map[models.Platform]*Counts),
		Titles:      make(map[string][]TitleSample),
	}
}

// AbortedReport summarises a run that stopped before any search, such as
// when the store lock is held or the browser cannot start. Every platform
// gets a zero line.
func AbortedReport(runID string, started time.Time, keywords []string, platforms []models.Platform, reason string) *Report {
	r := NewReport(runID, started)
	r.FinishedAt = time.Now()
	r.Keywords = append([]string(nil), keywords...)
	for _, p := range platforms {
		r.counts(p)
	}
	r.Aborted = true
	r.AbortReason = reason
	return r
}

// Partial reports whether some work was skipped: a failed search, an
// aborted session or an interrupt.
func (r *Report) Partial() bool {
	return len(r.Failures) > 0 || r.Aborted || r.Interrupted
}

func (r *Report) counts(p models.Platform) *Counts {
	c, ok := r.PerPlatform[p]
	if !ok {
		c = &Counts{}
		r.PerPlatform[p] = c
	}
	return c
}

func (r *Report) each(p models.Platform, fn func(*Counts)) {
	fn(&r.Total)
	fn(r.counts(p))
}

func (r *Report) sample(bucket string, s TitleSample) {
	if len(r.Titles[bucket]) < maxSamples {
		r.Titles[bucket] = append(r.Titles[bucket], s)
	}
}

func (r *Report) classified(p models.Platform, title string, v filter.Verdict) {
	switch v.Outcome {
	case filter.Included:
		r.each(p, func(c *Counts) { c.Included++ })
	case filter.ExcludedExplicit:
		r.each(p, func(c *Counts) { c.ExcludedExplicit++ })
	case filter.ExcludedImplicit:
		r.each(p, func(c *Counts) { c.ExcludedImplicit++ })
	}
	r.sample(v.Outcome.String(), TitleSample{Platform: p, Title: title, Word: v.Word})
}

func (r *Report) duplicate(p models.Platform, title string) {
	r.each(p, func(c *Counts) { c.Duplicate++ })
	r.sample(BucketDuplicate, TitleSample{Platform: p, Title: title})
}

func (r *Report) accepted(p models.Platform) {
	r.each(p, func(c *Counts) { c.Accepted++ })
}

func (r *Report) invalid(p models.Platform) {
	r.each(p, func(c *Counts) { c.Invalid++ })
}

func (r *Report) failed(keyword string, p models.Platform, err error) {
	r.each(p, func(c *Counts) { c.Failed++ })
	r.Failures = append(r.Failures, PairFailure{Keyword: keyword, Platform: p, Err: err.Error()})
}
