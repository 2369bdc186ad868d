package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go-jobradar/internal/browser"
	"go-jobradar/internal/config"
	"go-jobradar/internal/models"
	"go-jobradar/internal/scraper"
	"go-jobradar/internal/scraper/indeed"
	"go-jobradar/internal/scraper/linkedin"
	"go-jobradar/internal/scraper/occ"
	"go-jobradar/utils"

	"github.com/playwright-community/playwright-go"
)

const screenshotDir = "logs/screenshots"

func needsBrowser(cfg *config.Config) bool {
	return cfg.Platforms.Indeed.Enabled || cfg.Platforms.LinkedIn.Enabled
}

// cookieFile is where cookies exported for platform p are expected.
func cookieFile(dir string, p models.Platform) string {
	return filepath.Join(dir, fmt.Sprintf("cookies-%s.json", strings.ToLower(string(p))))
}

// buildSources creates the enabled adapters in run order. Browser backed
// platforms share one page; the returned func closes it.
func buildSources(ctx context.Context, cfg *config.Config, log *slog.Logger) ([]scraper.Source, func(), error) {
	closeAll := func() {}
	var session browser.Session

	if needsBrowser(cfg) {
		if err := ctx.Err(); err != nil {
			return nil, closeAll, err
		}
		pw, err := browser.NewPlaywright(cfg.Browser)
		if err != nil {
			return nil, closeAll, fmt.Errorf("start browser: %w", err)
		}
		closeAll = func() {
			if err := pw.Close(); err != nil {
				log.Warn("⚠️ Failed to close browser", "error", err)
			}
		}

		var cookies []playwright.OptionalCookie
		for _, p := range []models.Platform{models.PlatformIndeed, models.PlatformLinkedIn} {
			if !cfg.Platforms.Get(p).Enabled || cfg.Browser.CookiesPath == "" {
				continue
			}
			path := cookieFile(cfg.Browser.CookiesPath, p)
			loaded, skipped, err := browser.LoadCookies(path, time.Now())
			switch {
			case errors.Is(err, fs.ErrNotExist):
				log.Info("🍪 No cookies for platform", "platform", p, "path", path)
			case err != nil:
				log.Warn("⚠️ Could not load cookies. Continuing.", "platform", p, "error", err)
			default:
				log.Info("🍪 Loaded cookies", "platform", p, "count", len(loaded))
				if skipped > 0 {
					log.Warn("⚠️ Expired or incomplete cookies skipped, consider re-exporting", "platform", p, "skipped", skipped, "path", path)
				}
				cookies = append(cookies, loaded...)
			}
		}

		bctx, err := pw.NewContext(cfg.General.UserAgent, cookies)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("create browser context: %w", err)
		}
		page, err := bctx.NewPage()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("create page: %w", err)
		}
		shots := utils.NewScreenShotDebugger(screenshotDir, log)
		session = browser.NewPageSession(page, cfg.Browser, shots, log)
		log.Info("✅ Browser initialized successfully!")
	}

	var sources []scraper.Source
	for _, p := range cfg.Platforms.Enabled() {
		switch p {
		case models.PlatformOCC:
			sources = append(sources, occ.NewOCCScraper(cfg, log))
		case models.PlatformIndeed:
			sources = append(sources, indeed.NewIndeedScraper(cfg, session, log))
		case models.PlatformLinkedIn:
			sources = append(sources, linkedin.NewLinkedInScraper(cfg, session, log))
		}
	}
	return sources, closeAll, nil
}
