package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-jobradar/internal/config"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPage struct {
	scripts []string
	err     error
}

func (p *recordingPage) Evaluate(expression string, _ ...interface{}) (interface{}, error) {
	p.scripts = append(p.scripts, expression)
	return nil, p.err
}

func TestNewHumanizer(t *testing.T) {
	h := NewHumanizer(config.Browser{ScrollSteps: 6, MouseMoves: 2, MinPause: time.Millisecond, MaxPause: 5 * time.Millisecond})
	assert.Equal(t, Humanizer{ScrollSteps: 6, MouseMoves: 2, MinPause: time.Millisecond, MaxPause: 5 * time.Millisecond}, h)
}

func TestHumanizer_Scroll(t *testing.T) {
	page := &recordingPage{}
	h := Humanizer{ScrollSteps: 3}

	require.NoError(t, h.Scroll(context.Background(), page))
	require.Len(t, page.scripts, 4)
	assert.Equal(t, "window.scrollBy(0, -200)", page.scripts[3])
}

func TestHumanizer_ScrollDisabled(t *testing.T) {
	page := &recordingPage{}
	require.NoError(t, Humanizer{}.Scroll(context.Background(), page))
	assert.Empty(t, page.scripts)
}

func TestHumanizer_ScrollStopsOnError(t *testing.T) {
	page := &recordingPage{err: errors.New("target closed")}
	err := Humanizer{ScrollSteps: 4}.Scroll(context.Background(), page)
	assert.EqualError(t, err, "target closed")
	assert.Len(t, page.scripts, 1)
}

func TestHumanizer_ScrollCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	page := &recordingPage{}

	err := Humanizer{ScrollSteps: 4, MinPause: time.Hour}.Scroll(ctx, page)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, page.scripts, 1)
}

func TestHumanizer_Jiggle(t *testing.T) {
	var points [][2]float64
	move := func(x, y float64) error {
		points = append(points, [2]float64{x, y})
		return nil
	}
	h := Humanizer{MouseMoves: 5}

	require.NoError(t, h.jiggle(context.Background(), &playwright.Size{Width: 800, Height: 600}, move))
	require.Len(t, points, 5)
	for _, p := range points {
		assert.True(t, p[0] >= 0 && p[0] < 800)
		assert.True(t, p[1] >= 0 && p[1] < 600)
	}

	points = nil
	require.NoError(t, h.jiggle(context.Background(), nil, move))
	assert.Empty(t, points, "no viewport, no moves")
}

func TestHumanizer_PauseBounds(t *testing.T) {
	h := Humanizer{MinPause: 2 * time.Millisecond, MaxPause: 4 * time.Millisecond}
	start := time.Now()
	require.NoError(t, h.Pause(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}
