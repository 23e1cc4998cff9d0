package ioload_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunedb/tunedb/internal/ioload"
)

const sampleManifest = `
albums:
  - title: In Rainbows
    artist: Radiohead
    genre: Alternative
    released: 2007-10-10
    songs:
      - 15 Step
      - Nude
singles:
  - title: Harder Better Faster Stronger
    artist: Daft Punk
    genres:
      - Electronic
      - House
    released: 2001-10-13
listeners:
  - alice
  - bob
ratings:
  - listener: alice
    artist: Radiohead
    song: Nude
    value: 5
    rated: 2020-03-01
`

func TestParseManifest(t *testing.T) {
	m, err := ioload.ParseManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)

	require.Len(t, m.Albums, 1)
	album := m.Albums[0]
	assert.Equal(t, "In Rainbows", album.Title)
	assert.Equal(t, "Radiohead", album.Artist)
	assert.Equal(t, "Alternative", album.Genre)
	assert.Equal(t,
		time.Date(2007, 10, 10, 0, 0, 0, 0, time.UTC),
		album.Released.Time,
	)
	assert.Equal(t, []string{"15 Step", "Nude"}, album.Songs)

	require.Len(t, m.Singles, 1)
	single := m.Singles[0]
	assert.Equal(t, "Harder Better Faster Stronger", single.Title)
	assert.Equal(t, []string{"Electronic", "House"}, single.Genres)

	assert.Equal(t, []string{"alice", "bob"}, m.Listeners)

	require.Len(t, m.Ratings, 1)
	rating := m.Ratings[0]
	assert.Equal(t, "alice", rating.Listener)
	assert.Equal(t, "Nude", rating.Song)
	assert.Equal(t, 5, rating.Value)
}

func TestParseManifestEmpty(t *testing.T) {
	m, err := ioload.ParseManifest(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Albums)
	assert.Empty(t, m.Singles)
	assert.Empty(t, m.Listeners)
	assert.Empty(t, m.Ratings)
}

func TestParseManifestUnknownField(t *testing.T) {
	doc := `
albums:
  - title: X
    artist: A
    genre: Rock
    released: 2020-01-01
    tracks:
      - One
`
	_, err := ioload.ParseManifest(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse manifest")
}

func TestParseManifestBadDate(t *testing.T) {
	doc := `
singles:
  - title: X
    artist: A
    genres: [Rock]
    released: 13/10/2001
`
	_, err := ioload.ParseManifest(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected YYYY-MM-DD")
}
