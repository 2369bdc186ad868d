package browser

import (
	"context"
	"math/rand/v2"
	"time"

	"go-jobradar/internal/config"

	"github.com/playwright-community/playwright-go"
)

// Humanizer paces the in-page actions taken after each navigation: a few
// half-screen scrolls so lazily rendered cards attach, then some mouse moves.
// The zero value does nothing.
type Humanizer struct {
	ScrollSteps int
	MouseMoves  int
	MinPause    time.Duration
	MaxPause    time.Duration
}

func NewHumanizer(cfg config.Browser) Humanizer {
	return Humanizer{
		ScrollSteps: cfg.ScrollSteps,
		MouseMoves:  cfg.MouseMoves,
		MinPause:    cfg.MinPause,
		MaxPause:    cfg.MaxPause,
	}
}

// evaluator is the part of playwright.Page used for scrolling.
type evaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// Pause waits a random time in [MinPause, MaxPause] or until ctx is done.
func (h Humanizer) Pause(ctx context.Context) error {
	d := h.MinPause
	if h.MaxPause > h.MinPause {
		d += rand.N(h.MaxPause - h.MinPause + 1)
	}
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Scroll moves down ScrollSteps half screens, then back up a little.
func (h Humanizer) Scroll(ctx context.Context, page evaluator) error {
	if h.ScrollSteps <= 0 {
		return nil
	}
	for range h.ScrollSteps {
		if _, err := page.Evaluate("window.scrollBy(0, window.innerHeight / 2)"); err != nil {
			return err
		}
		if err := h.Pause(ctx); err != nil {
			return err
		}
	}
	_, err := page.Evaluate("window.scrollBy(0, -200)")
	return err
}

// Jiggle moves the mouse to MouseMoves random points of the viewport.
func (h Humanizer) Jiggle(ctx context.Context, page playwright.Page) error {
	return h.jiggle(ctx, page.ViewportSize(), func(x, y float64) error {
		return page.Mouse().Move(x, y)
	})
}

func (h Humanizer) jiggle(ctx context.Context, viewport *playwright.Size, move func(x, y float64) error) error {
	if viewport == nil || viewport.Width <= 0 || viewport.Height <= 0 {
		return nil
	}
	for range h.MouseMoves {
		x := rand.IntN(viewport.Width)
		y := rand.IntN(viewport.Height)
		if err := move(float64(x), float64(y)); err != nil {
			return err
		}
		if err := h.Pause(ctx); err != nil {
			return err
		}
	}
	return nil
}
