package indeed

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"strings"

	"go-jobradar/internal/browser"
	"go-jobradar/internal/config"
	"go-jobradar/internal/models"
	"go-jobradar/internal/scraper"
)

const cardsSelector = "div#mosaic-provider-jobcards"

// IndeedScraper searches mx.indeed.com through the shared browser session.
type IndeedScraper struct {
	cfg     *config.Platform
	session browser.Session
	pacer   *scraper.Pacer
	log     *slog.Logger
}

var _ scraper.Source = (*IndeedScraper)(nil)

func NewIndeedScraper(cfg *config.Config, session browser.Session, log *slog.Logger) *IndeedScraper {
	return &IndeedScraper{
		cfg:     &cfg.Platforms.Indeed,
		session: session,
		pacer:   scraper.NewPacer(cfg.Timing.DelayBetweenPages),
		log:     log.With("platform", models.PlatformIndeed),
	}
}

func (s *IndeedScraper) Platform() models.Platform {
	return models.PlatformIndeed
}

// searchURL joins keyword words with '+' and pages through start offsets.
func (s *IndeedScraper) searchURL(keyword, window string, page int) string {
	q := strings.Join(strings.Fields(keyword), "+")
	q = strings.ReplaceAll(url.QueryEscape(q), "%2B", "+")
	u := strings.ReplaceAll(s.cfg.BaseURL, "{keyword}", q)
	start := (page - 1) * s.cfg.PageIncrement
	return fmt.Sprintf("%s&%s=%s&start=%d", u, s.cfg.TimeParamName, url.QueryEscape(window), start)
}

func (s *IndeedScraper) Fetch(ctx context.Context, keyword, window string) iter.Seq2[scraper.RawCandidate, error] {
	return func(yield func(scraper.RawCandidate, error) bool) {
		s.log.Info("📋 Searching Indeed", "keyword", keyword, s.cfg.TimeParamName, window, "max_pages", s.cfg.MaxPages)

		for page := 1; page <= s.cfg.MaxPages; page++ {
			if err := s.pacer.Wait(ctx); err != nil {
				yield(scraper.RawCandidate{}, scraper.Wrap(models.PlatformIndeed, keyword, page, err, false))
				return
			}

			html, err := s.session.Open(ctx, s.searchURL(keyword, window, page), cardsSelector)
			if err != nil {
				fatal := errors.Is(err, browser.ErrSessionClosed)
				yield(scraper.RawCandidate{}, scraper.Wrap(models.PlatformIndeed, keyword, page, err, fatal))
				return
			}

			res, err := parsePage(html)
			if err != nil {
				yield(scraper.RawCandidate{}, scraper.Wrap(models.PlatformIndeed, keyword, page, err, false))
				return
			}
			if res.noResults {
				s.log.Info("    🔎 No results", "keyword", keyword)
				return
			}
			if len(res.cards) == 0 {
				s.log.Info("    🔚 No more job cards", "keyword", keyword, "page", page)
				return
			}

			for _, c := range res.cards {
				if !yield(c, nil) {
					return
				}
			}

			if !res.hasNext {
				s.log.Info("    🔚 No next page link", "keyword", keyword, "page", page)
				return
			}
		}
	}
}
