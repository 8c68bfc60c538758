package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/phoenix-go/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsAveragesPerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var reports []Report
	p := NewProfiler(
		WithClock(clock.now),
		WithInterval(500*time.Millisecond),
		WithSink(func(r Report) { reports = append(reports, r) }),
	)

	clock.t = clock.t.Add(250 * time.Millisecond)
	assert.False(t, p.Tick(renderer.FrameStats{Draws: 10, Views: 2, ClipSets: 1}, 3))

	clock.t = clock.t.Add(250 * time.Millisecond)
	assert.True(t, p.Tick(renderer.FrameStats{Draws: 20, Views: 2, ClipSets: 3}, 1))

	require.Len(t, reports, 1)
	r := reports[0]
	assert.InDelta(t, 4.0, r.FPS, 1e-9)
	assert.InDelta(t, 15.0, r.Draws, 1e-9)
	assert.InDelta(t, 2.0, r.Views, 1e-9)
	assert.InDelta(t, 2.0, r.ClipSets, 1e-9)
	assert.Equal(t, 4, r.Tasks)
	assert.Greater(t, r.SysMB, 0.0)

	clock.t = clock.t.Add(100 * time.Millisecond)
	assert.False(t, p.Tick(renderer.FrameStats{}, 0))
	clock.t = clock.t.Add(400 * time.Millisecond)
	assert.True(t, p.Tick(renderer.FrameStats{Draws: 4}, 0))
	require.Len(t, reports, 2)
	assert.InDelta(t, 2.0, reports[1].Draws, 1e-9)
	assert.Equal(t, 0, reports[1].Tasks)
}

func TestNilOptionsKeepDefaults(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithSink(nil), WithClock(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.sink)
	assert.NotNil(t, p.now)
}
