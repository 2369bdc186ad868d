package browser

import (
	"fmt"

	"go-jobradar/internal/config"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightManager owns the playwright driver and one browser, either
// launched locally or attached to a running Chrome over CDP.
type PlaywrightManager struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	attached bool
}

func NewPlaywright(cfg config.Browser) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	pm := &PlaywrightManager{pw: pw}
	if cfg.CDPEndpoint != "" {
		pm.browser, err = pw.Chromium.ConnectOverCDP(cfg.CDPEndpoint)
		pm.attached = true
	} else {
		pm.browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(cfg.Headless),
		})
	}
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not open browser: %w", err)
	}
	return pm, nil
}

// NewContext returns a browser context carrying cookies. When attached to an
// existing browser its first context is reused so the logged-in profile
// stays in effect.
func (pm *PlaywrightManager) NewContext(userAgent string, cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	var bctx playwright.BrowserContext
	if contexts := pm.browser.Contexts(); pm.attached && len(contexts) > 0 {
		bctx = contexts[0]
	} else {
		var err error
		bctx, err = pm.browser.NewContext(playwright.BrowserNewContextOptions{
			UserAgent: playwright.String(userAgent),
			Locale:    playwright.String("es-MX"),
		})
		if err != nil {
			return nil, fmt.Errorf("could not create browser context: %w", err)
		}
	}

	if len(cookies) > 0 {
		if err := bctx.AddCookies(cookies); err != nil {
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return bctx, nil
}

// Close closes a launched browser and stops the driver. An attached browser
// is left running.
func (pm *PlaywrightManager) Close() error {
	var err error
	if !pm.attached {
		err = pm.browser.Close()
	}
	if stopErr := pm.pw.Stop(); err == nil {
		err = stopErr
	}
	return err
}
