// Package engine runs every keyword against every enabled source and keeps
// the postings that pass the title filter and are not already known.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go-jobradar/internal/dedup"
	"go-jobradar/internal/filter"
	"go-jobradar/internal/models"
	"go-jobradar/internal/scraper"
	"go-jobradar/internal/store"
)

type Options struct {
	// Sources in run order.
	Sources []scraper.Source
	Filter  filter.Lists
	Windows map[models.Platform]filter.WindowPolicy
	// KeywordDelay separates consecutive keywords.
	KeywordDelay time.Duration
	RunID        string
	Now          func() time.Time
	Logger       *slog.Logger
}

type Engine struct {
	sources []scraper.Source
	lists   filter.Lists
	windows map[models.Platform]filter.WindowPolicy
	pacer   *scraper.Pacer
	runID   string
	now     func() time.Time
	log     *slog.Logger
}

// Result is what a run accumulated. Records is valid even when Run returns
// an error.
type Result struct {
	Records []models.JobRecord
	Report  *Report
}

func New(opts Options) *Engine {
	e := &Engine{
		sources: opts.Sources,
		lists:   opts.Filter,
		windows: opts.Windows,
		pacer:   scraper.NewPacer(opts.KeywordDelay),
		runID:   opts.RunID,
		now:     opts.Now,
		log:     opts.Logger,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// Run searches keywords in order, each against every source in order.
//
// A failed search is recorded and the run moves on to the next pair. A
// session error stops the run and is returned; a cancelled context marks the
// report interrupted. In both cases the records accepted so far are returned.
func (e *Engine) Run(ctx context.Context, keywords []string, history *store.History) (*Result, error) {
	started := e.now()
	report := NewReport(e.runID, started)
	report.Keywords = append([]string(nil), keywords...)
	res := &Result{Report: report}

	var last *time.Time
	known := dedup.NewIndex()
	if history != nil {
		last = history.LastDiscoveredAt
		if history.Known != nil {
			known = history.Known.Clone()
		}
	}

	for _, src := range e.sources {
		p := src.Platform()
		report.counts(p)
		report.Windows[p] = e.windows[p].Compute(last, started)
		e.log.Info("🕒 Lookback window", "platform", p, "window", report.Windows[p])
	}

	var runErr error
keywords:
	for i, keyword := range keywords {
		if err := e.pacer.Wait(ctx); err != nil {
			report.Interrupted = true
			break
		}
		e.log.Info("🔑 Processing keyword", "keyword", keyword, "n", i+1, "of", len(keywords))

		for _, src := range e.sources {
			if ctx.Err() != nil {
				report.Interrupted = true
				break keywords
			}

			err := e.searchPair(ctx, src, keyword, report.Windows[src.Platform()], known, res)
			switch {
			case err == nil:
			case ctx.Err() != nil:
				report.Interrupted = true
				break keywords
			case scraper.IsSessionFatal(err):
				report.failed(keyword, src.Platform(), err)
				report.Aborted = true
				report.AbortReason = err.Error()
				runErr = err
				e.log.Error("❌ Browser session lost, stopping run", "platform", src.Platform(), "error", err)
				break keywords
			default:
				report.failed(keyword, src.Platform(), err)
				e.log.Warn("⚠️ Search failed, continuing", "platform", src.Platform(), "keyword", keyword, "error", err)
			}
		}
	}

	if report.Interrupted {
		e.log.Warn("🛑 Run interrupted, keeping what was collected", "accepted", len(res.Records))
	}
	report.FinishedAt = e.now()
	e.log.Info("📊 Search finished",
		"accepted", report.Total.Accepted,
		"duplicates", report.Total.Duplicate,
		"excluded_explicit", report.Total.ExcludedExplicit,
		"excluded_implicit", report.Total.ExcludedImplicit,
		"failed_searches", report.Total.Failed)
	return res, runErr
}

// searchPair drains one adapter sequence. Candidates accepted before a
// failure stay accepted.
func (e *Engine) searchPair(ctx context.Context, src scraper.Source, keyword, window string, known *dedup.Index, res *Result) error {
	p := src.Platform()
	before := len(res.Records)

	for c, err := range src.Fetch(ctx, keyword, window) {
		if err != nil {
			return err
		}
		e.consider(p, c, known, res)
	}

	e.log.Info("    ✅ Search done", "platform", p, "keyword", keyword, "new", len(res.Records)-before)
	return nil
}

func (e *Engine) consider(p models.Platform, c scraper.RawCandidate, known *dedup.Index, res *Result) {
	report := res.Report
	id := strings.TrimSpace(c.ID)
	if !c.Valid() || id == "None" {
		report.invalid(p)
		return
	}

	v := e.lists.Classify(c.Title)
	report.classified(p, c.Title, v)
	if v.Outcome != filter.Included {
		e.log.Debug("    🚫 Title filtered", "platform", p, "title", c.Title, "outcome", v.Outcome, "word", v.Word)
		return
	}

	key := models.Key{Platform: p, ID: id}
	if !known.Add(key) {
		report.duplicate(p, c.Title)
		return
	}

	report.accepted(p)
	res.Records = append(res.Records, models.JobRecord{
		ID:           id,
		Platform:     p,
		Title:        strings.TrimSpace(c.Title),
		Company:      strings.TrimSpace(c.Company),
		Salary:       strings.TrimSpace(c.Salary),
		Location:     strings.TrimSpace(c.Location),
		PostedDate:   strings.TrimSpace(c.PostedDate),
		DiscoveredAt: e.now(),
	})
}
