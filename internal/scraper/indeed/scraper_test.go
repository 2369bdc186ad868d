package indeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"go-jobradar/internal/browser"
	"go-jobradar/internal/config"
	"go-jobradar/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	pages  map[int]string
	errAt  map[int]error
	opened []string
}

func (f *fakeSession) Open(_ context.Context, rawURL, _ string) (string, error) {
	f.opened = append(f.opened, rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	var start int
	fmt.Sscan(u.Query().Get("start"), &start)
	if err := f.errAt[start]; err != nil {
		return "", err
	}
	return f.pages[start], nil
}

func card(id, title, company, salary string) string {
	return fmt.Sprintf(`
<li><div class="cardOutline" data-jk="%s">
  <h2 class="jobTitle"><a class="jcs-JobTitle" data-jk="%s"><span id="jobTitle-%s">%s</span></a></h2>
  <span data-testid="company-name">%s</span>
  <div data-testid="text-location">Remoto</div>
  <div class="salary-snippet-container">%s</div>
</div></li>`, id, id, id, title, company, salary)
}

func page(next bool, cards ...string) string {
	nav := ""
	if next {
		nav = `<nav><a data-testid="pagination-page-next" href="#">Siguiente</a></nav>`
	}
	return `<html><body><div id="mosaic-provider-jobcards"><ul>` +
		strings.Join(cards, "") + `<li><div class="mosaic-zone"></div></li></ul></div>` + nav + `</body></html>`
}

func newTestScraper(s browser.Session, maxPages int) *IndeedScraper {
	cfg := config.Default()
	cfg.Platforms.Indeed.MaxPages = maxPages
	cfg.Timing = config.Timing{}
	return NewIndeedScraper(cfg, s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func collect(t *testing.T, s scraper.Source, keyword string) ([]scraper.RawCandidate, error) {
	t.Helper()
	var out []scraper.RawCandidate
	for c, err := range s.Fetch(context.Background(), keyword, "3") {
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, nil
}

func TestSearchURL(t *testing.T) {
	s := newTestScraper(&fakeSession{}, 3)
	got := s.searchURL("site reliability engineer", "3", 2)
	assert.Equal(t, "https://mx.indeed.com/jobs?q=site+reliability+engineer&l=Remote&sc=0kf%3Aattr%28DSQF7%29%3B&sort=date&fromage=3&start=10", got)
	assert.True(t, strings.HasSuffix(s.searchURL("devops", "14", 1), "&fromage=14&start=0"))
}

func TestFetchPaginatesUntilNoNextLink(t *testing.T) {
	fs := &fakeSession{pages: map[int]string{
		0:  page(true, card("a1", "DevOps Engineer", "Acme", "$50,000"), card("a2", "SRE", "Beta", "")),
		10: page(false, card("a3", "Cloud Engineer", "Gamma", "")),
		20: page(false, card("a4", "Never", "Reached", "")),
	}}
	got, err := collect(t, newTestScraper(fs, 3), "devops")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Len(t, fs.opened, 2)

	assert.Equal(t, scraper.RawCandidate{
		ID: "a1", Title: "DevOps Engineer", Company: "Acme", Salary: "$50,000", Location: "Remoto",
	}, got[0])
	assert.Equal(t, "a3", got[2].ID)
}

func TestFetchStopsAtMaxPages(t *testing.T) {
	fs := &fakeSession{pages: map[int]string{
		0:  page(true, card("a1", "DevOps", "Acme", "")),
		10: page(true, card("a2", "SRE", "Acme", "")),
	}}
	got, err := collect(t, newTestScraper(fs, 1), "devops")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Len(t, fs.opened, 1)
}

func TestFetchNoResults(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"spanish marker", `<html><body><p>La búsqueda de devops no produjo ningún resultado</p></body></html>`},
		{"english marker", `<html><body><p>The search devops did not match any jobs</p></body></html>`},
		{"empty card list", page(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeSession{pages: map[int]string{0: tt.html}}
			got, err := collect(t, newTestScraper(fs, 3), "devops")
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.Len(t, fs.opened, 1)
		})
	}
}

func TestFetchTitleFallback(t *testing.T) {
	html := `<html><body><div id="mosaic-provider-jobcards"><ul><li>
<div class="cardOutline"><h2 class="jobTitle"><a class="jcs-JobTitle" data-jk="b7"><span title="x">Platform   Engineer</span></a></h2></div>
</li></ul></div></body></html>`
	fs := &fakeSession{pages: map[int]string{0: html}}
	got, err := collect(t, newTestScraper(fs, 1), "platform")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b7", got[0].ID)
	assert.Equal(t, "Platform Engineer", got[0].Title)
}

func TestFetchErrors(t *testing.T) {
	t.Run("navigation failure is a fetch error", func(t *testing.T) {
		fs := &fakeSession{
			pages: map[int]string{0: page(true, card("a1", "DevOps", "Acme", ""))},
			errAt: map[int]error{10: errors.New("timeout 30000ms exceeded")},
		}
		got, err := collect(t, newTestScraper(fs, 3), "devops")
		require.Error(t, err)
		assert.Len(t, got, 1)

		var fe *scraper.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 2, fe.Page)
		assert.False(t, scraper.IsSessionFatal(err))
	})

	t.Run("closed session is fatal", func(t *testing.T) {
		fs := &fakeSession{errAt: map[int]error{0: fmt.Errorf("goto: %w", browser.ErrSessionClosed)}}
		_, err := collect(t, newTestScraper(fs, 3), "devops")
		require.Error(t, err)
		assert.True(t, scraper.IsSessionFatal(err))
		assert.ErrorIs(t, err, browser.ErrSessionClosed)
	})

	t.Run("challenge page is not fatal", func(t *testing.T) {
		fs := &fakeSession{errAt: map[int]error{0: browser.ErrChallenge}}
		_, err := collect(t, newTestScraper(fs, 3), "devops")
		require.Error(t, err)
		assert.False(t, scraper.IsSessionFatal(err))
		assert.ErrorIs(t, err, browser.ErrChallenge)
	})
}

func TestFetchConsumerStop(t *testing.T) {
	fs := &fakeSession{pages: map[int]string{
		0:  page(true, card("a1", "DevOps", "Acme", ""), card("a2", "SRE", "Acme", "")),
		10: page(false, card("a3", "SRE", "Acme", "")),
	}}
	s := newTestScraper(fs, 3)
	for c, err := range s.Fetch(context.Background(), "devops", "3") {
		require.NoError(t, err)
		assert.Equal(t, "a1", c.ID)
		break
	}
	assert.Len(t, fs.opened, 1)
}
