package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go-jobradar/internal/config"
	"go-jobradar/utils"

	"github.com/playwright-community/playwright-go"
)

var (
	// ErrSessionClosed means the page or browser is gone; nothing else can
	// be fetched through this session.
	ErrSessionClosed = errors.New("browser session closed")
	// ErrChallenge means the site answered with a captcha or bot check.
	ErrChallenge = errors.New("anti-bot challenge page")
)

// Session renders pages in a browser. Implementations drive one page at a
// time, so calls are serialised.
type Session interface {
	// Open navigates to url, waits up to the session timeout for waitFor
	// (when non-empty) and returns the rendered HTML. A missing waitFor
	// element is not an error; callers inspect the HTML.
	Open(ctx context.Context, url, waitFor string) (string, error)
}

// PageSession is a Session backed by a single playwright page.
type PageSession struct {
	mu      sync.Mutex
	page    playwright.Page
	timeout time.Duration
	human   Humanizer
	shots   *utils.ScreenShotDebugger
	log     *slog.Logger
}

var _ Session = (*PageSession)(nil)

func NewPageSession(page playwright.Page, cfg config.Browser, shots *utils.ScreenShotDebugger, log *slog.Logger) *PageSession {
	return &PageSession{page: page, timeout: cfg.Timeout, human: NewHumanizer(cfg), shots: shots, log: log}
}

var challengeTitles = []string{"Just a moment", "Attention Required", "Cloudflare", "Security Check", "hCaptcha"}

func (s *PageSession) Open(ctx context.Context, url, waitFor string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.page.IsClosed() {
		return "", ErrSessionClosed
	}

	timeoutMs := playwright.Float(float64(s.timeout.Milliseconds()))
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeoutMs,
	}); err != nil {
		return "", s.classify(fmt.Errorf("navigate %s: %w", url, err))
	}

	if title, _ := s.page.Title(); isChallenge(title) {
		if s.shots != nil {
			s.shots.CaptureAndLog(s.page, "challenge", "🚨 Challenge page detected: "+title)
		}
		return "", fmt.Errorf("%w: %q", ErrChallenge, title)
	}

	if waitFor != "" {
		if _, err := s.page.WaitForSelector(waitFor, playwright.PageWaitForSelectorOptions{
			Timeout: timeoutMs,
		}); err != nil {
			if cerr := s.classify(err); errors.Is(cerr, ErrSessionClosed) {
				return "", cerr
			}
			s.log.Debug("    ⌛ Selector not found before timeout", "selector", waitFor, "url", url)
		}
	}

	if err := s.human.Scroll(ctx, s.page); err != nil {
		s.log.Debug("    Scroll failed", "error", err)
	}
	if err := s.human.Jiggle(ctx, s.page); err != nil {
		s.log.Debug("    Mouse move failed", "error", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	html, err := s.page.Content()
	if err != nil {
		return "", s.classify(fmt.Errorf("read content: %w", err))
	}
	return html, nil
}

// classify marks errors that leave the session unusable.
func (s *PageSession) classify(err error) error {
	if errors.Is(err, playwright.ErrTargetClosed) || s.page.IsClosed() {
		return fmt.Errorf("%w: %w", ErrSessionClosed, err)
	}
	return err
}

func isChallenge(title string) bool {
	for _, marker := range challengeTitles {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}
