package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunedb/tunedb/pkg/catalog"
)

// countingAnalytics records how many queries run at the same time.
type countingAnalytics struct {
	mu      sync.Mutex
	active  int
	maxSeen int
	calls   int
}

// track holds the query "busy" long enough for overlapping calls to
// register.
func (c *countingAnalytics) track() {
	c.mu.Lock()
	c.active++
	c.calls++
	if c.active > c.maxSeen {
		c.maxSeen = c.active
	}
	c.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	c.mu.Lock()
	c.active--
	c.mu.Unlock()
}

func (c *countingAnalytics) ProlificArtists(
	_ context.Context, _ catalog.YearRange, _ int,
) ([]catalog.ArtistReleases, error) {
	c.track()
	return nil, nil
}

func (c *countingAnalytics) RecentSingles(
	_ context.Context, _ int,
) ([]catalog.Single, error) {
	c.track()
	return nil, nil
}

func (c *countingAnalytics) TopGenres(
	_ context.Context, _ int,
) ([]catalog.GenreCount, error) {
	c.track()
	return nil, nil
}

func (c *countingAnalytics) AlbumAndSingleArtists(
	_ context.Context,
) ([]string, error) {
	c.track()
	return nil, nil
}

func (c *countingAnalytics) MostRatedSongs(
	_ context.Context, _ catalog.YearRange, _ int,
) ([]catalog.SongRatings, error) {
	c.track()
	return nil, nil
}

func (c *countingAnalytics) MostEngagedListeners(
	_ context.Context, _ catalog.YearRange, _ int,
) ([]catalog.ListenerActivity, error) {
	c.track()
	return nil, nil
}

func TestRunAllReportsWorkerLimit(t *testing.T) {
	reportFrom, reportTo, reportTop = 2020, 2023, catalog.NoLimit
	t.Cleanup(func() {
		reportFrom, reportTo, reportTop = 0, 0, catalog.NoLimit
	})

	an := &countingAnalytics{}
	err := runAllReports(context.Background(), an, 1)
	require.NoError(t, err)

	assert.Equal(t, 6, an.calls, "all six queries should run")
	assert.Equal(t, 1, an.maxSeen,
		"a single worker never runs queries in parallel")
}
