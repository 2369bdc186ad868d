package occ

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"net"
	"net/url"
	"strings"

	"go-jobradar/internal/config"
	"go-jobradar/internal/models"
	"go-jobradar/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// OCCScraper searches occ.com.mx over plain HTTP.
type OCCScraper struct {
	cfg       *config.Platform
	timing    config.Timing
	collector *colly.Collector
	pacer     *scraper.Pacer
	log       *slog.Logger
}

var _ scraper.Source = (*OCCScraper)(nil)

func NewOCCScraper(cfg *config.Config, log *slog.Logger) *OCCScraper {
	c := colly.NewCollector(
		colly.UserAgent(cfg.General.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.Platforms.OCC.RequestTimeout)

	return &OCCScraper{
		cfg:       &cfg.Platforms.OCC,
		timing:    cfg.Timing,
		collector: c,
		pacer:     scraper.NewPacer(cfg.Timing.DelayBetweenPages),
		log:       log.With("platform", models.PlatformOCC),
	}
}

func (s *OCCScraper) Platform() models.Platform {
	return models.PlatformOCC
}

// searchURL builds the results URL. OCC slugs keywords with dashes and omits
// the page parameter on the first page.
func (s *OCCScraper) searchURL(keyword, window string, page int) string {
	slug := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(keyword), " ", "-"))
	u := strings.ReplaceAll(s.cfg.BaseURL, "{keyword}", slug)
	u += "&" + s.cfg.TimeParamName + "=" + url.QueryEscape(window)
	if page > 1 {
		u += fmt.Sprintf("&page=%d", page)
	}
	return u
}

func (s *OCCScraper) Fetch(ctx context.Context, keyword, window string) iter.Seq2[scraper.RawCandidate, error] {
	return func(yield func(scraper.RawCandidate, error) bool) {
		fail := func(page int, err error) {
			yield(scraper.RawCandidate{}, &scraper.FetchError{Platform: models.PlatformOCC, Keyword: keyword, Page: page, Err: err})
		}

		s.log.Info("📋 Searching OCC", "keyword", keyword, s.cfg.TimeParamName, window, "max_pages", s.cfg.MaxPages)
		estimated := 1
		for page := 1; page <= min(s.cfg.MaxPages, estimated); page++ {
			if err := s.pacer.Wait(ctx); err != nil {
				fail(page, err)
				return
			}

			doc, err := s.fetchPage(ctx, s.searchURL(keyword, window, page))
			if err != nil {
				fail(page, err)
				return
			}

			cards := parseCards(doc)
			if page == 1 {
				if len(cards) == 0 {
					s.log.Info("    🔎 No postings on first page", "keyword", keyword)
					return
				}
				estimated = 1
				if total := parseTotalResults(doc); total > 0 {
					estimated = int(math.Ceil(float64(total) / float64(len(cards))))
				}
				s.log.Info("    📦 Results estimated", "keyword", keyword, "per_page", len(cards), "pages", estimated, "page_limit", s.cfg.MaxPages)
			} else if len(cards) == 0 {
				s.log.Info("    🔚 No more postings", "keyword", keyword, "page", page)
				return
			}

			for _, c := range cards {
				if !yield(c, nil) {
					return
				}
			}
		}
	}
}

// fetchPage downloads one results page. Timeouts are retried after the
// configured delay, other HTTP failures are returned at once.
func (s *OCCScraper) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			s.log.Warn("    ⏳ Timeout, retrying", "url", pageURL, "attempt", attempt, "delay", s.timing.RetryDelay)
			if err := scraper.Sleep(ctx, s.timing.RetryDelay); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := s.get(pageURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !isTimeout(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("giving up after %d retries: %w", s.cfg.MaxRetries, lastErr)
}

func (s *OCCScraper) get(pageURL string) (*goquery.Document, error) {
	c := s.collector.Clone()

	var doc *goquery.Document
	var parseErr error
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "es-MX,es;q=0.9")
	})
	c.OnResponse(func(r *colly.Response) {
		doc, parseErr = goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, err
	}
	if parseErr != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, parseErr)
	}
	if doc == nil {
		return nil, fmt.Errorf("empty response from %s", pageURL)
	}
	return doc, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
