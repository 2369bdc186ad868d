package utils

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenShotDebugger stores full-page screenshots when a scrape hits
// something unexpected, such as a challenge page.
type ScreenShotDebugger struct {
	outputDir string
	log       *slog.Logger
}

func NewScreenShotDebugger(dir string, log *slog.Logger) *ScreenShotDebugger {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Warn("⚠️ Failed to create screenshot directory", "dir", dir, "error", err)
	}
	return &ScreenShotDebugger{
		outputDir: dir,
		log:       log,
	}
}

// Path returns where a capture named name taken at ts is written.
func (s *ScreenShotDebugger) Path(name string, ts time.Time) string {
	return filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, ts.Format("2006-01-02_15-04-05")))
}

func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	path := s.Path(name, time.Now())
	s.log.Warn("📸 " + message)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.log.Warn("⚠️ Failed to capture screenshot", "error", err)
		return err
	}

	s.log.Info("   Screenshot saved", "path", path)
	return nil
}
