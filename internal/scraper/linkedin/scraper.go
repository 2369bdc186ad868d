package linkedin

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"net/url"

	"go-jobradar/internal/browser"
	"go-jobradar/internal/config"
	"go-jobradar/internal/models"
	"go-jobradar/internal/scraper"
)

const listSelector = "div[data-job-id], .jobs-search-no-results, .jobs-search-results-list__no-results"

// LinkedInScraper reads the public job search result list. Cookies loaded
// into the browser context decide whether the authenticated layout is served.
type LinkedInScraper struct {
	cfg     *config.Platform
	session browser.Session
	pacer   *scraper.Pacer
	log     *slog.Logger
}

var _ scraper.Source = (*LinkedInScraper)(nil)

func NewLinkedInScraper(cfg *config.Config, session browser.Session, log *slog.Logger) *LinkedInScraper {
	return &LinkedInScraper{
		cfg:     &cfg.Platforms.LinkedIn,
		session: session,
		pacer:   scraper.NewPacer(cfg.Timing.DelayBetweenPages),
		log:     log.With("platform", models.PlatformLinkedIn),
	}
}

func (s *LinkedInScraper) Platform() models.Platform {
	return models.PlatformLinkedIn
}

func (s *LinkedInScraper) searchURL(keyword, window string, page int) string {
	u := replaceKeyword(s.cfg.BaseURL, url.PathEscape(keyword))
	start := (page - 1) * s.cfg.PageIncrement
	return fmt.Sprintf("%s&%s=%s&start=%d", u, s.cfg.TimeParamName, url.QueryEscape(window), start)
}

// pageCount caps the reported total to what max_pages can reach. An unknown
// total with cards on screen means a single page.
func (s *LinkedInScraper) pageCount(total, cards int) int {
	if total <= 0 {
		if cards > 0 {
			return 1
		}
		return 0
	}
	pages := int(math.Ceil(float64(total) / float64(s.cfg.PageIncrement)))
	return min(pages, s.cfg.MaxPages)
}

func (s *LinkedInScraper) Fetch(ctx context.Context, keyword, window string) iter.Seq2[scraper.RawCandidate, error] {
	return func(yield func(scraper.RawCandidate, error) bool) {
		s.log.Info("💼 Searching LinkedIn Jobs", "keyword", keyword, s.cfg.TimeParamName, window)

		lastPage := 1
		for page := 1; page <= lastPage; page++ {
			if err := s.pacer.Wait(ctx); err != nil {
				yield(scraper.RawCandidate{}, scraper.Wrap(models.PlatformLinkedIn, keyword, page, err, false))
				return
			}

			html, err := s.session.Open(ctx, s.searchURL(keyword, window, page), listSelector)
			if err != nil {
				fatal := errors.Is(err, browser.ErrSessionClosed)
				yield(scraper.RawCandidate{}, scraper.Wrap(models.PlatformLinkedIn, keyword, page, err, fatal))
				return
			}

			res, err := parsePage(html)
			if err != nil {
				yield(scraper.RawCandidate{}, scraper.Wrap(models.PlatformLinkedIn, keyword, page, err, false))
				return
			}
			if res.noResults {
				s.log.Info("    🔎 No results", "keyword", keyword)
				return
			}
			if page == 1 {
				lastPage = s.pageCount(res.total, len(res.cards))
				s.log.Info("    📄 Result pages", "reported_total", res.total, "pages", lastPage)
			}
			if len(res.cards) == 0 {
				return
			}
			if res.skipped > 0 {
				s.log.Debug("    ⚠️ Cards without company skipped", "count", res.skipped, "page", page)
			}

			for _, c := range res.cards {
				if !yield(c, nil) {
					return
				}
			}
		}
	}
}
