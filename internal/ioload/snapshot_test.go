package ioload_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/tunedb/tunedb/internal/ioload"
)

// buildSnapshot writes a small catalog snapshot to a temp file.
func buildSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE artists (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE genres (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE user_accounts (id INTEGER PRIMARY KEY, username TEXT)`,
		`CREATE TABLE albums (
			id INTEGER PRIMARY KEY, name TEXT, artist_id INTEGER,
			genre_id INTEGER, release_date TEXT)`,
		`CREATE TABLE songs (
			id INTEGER PRIMARY KEY, title TEXT, artist_id INTEGER,
			album_id INTEGER, single_release_date TEXT)`,
		`CREATE TABLE song_genres (song_id INTEGER, genre_id INTEGER)`,
		`CREATE TABLE ratings (
			id INTEGER PRIMARY KEY, user_id INTEGER, song_id INTEGER,
			value INTEGER, rated_on TEXT)`,

		`INSERT INTO artists VALUES (1, 'Radiohead'), (2, 'Daft Punk')`,
		`INSERT INTO genres VALUES (1, 'Alternative'), (2, 'Electronic')`,
		`INSERT INTO user_accounts VALUES (1, 'alice'), (2, 'bob')`,
		`INSERT INTO albums VALUES (1, 'In Rainbows', 1, 1, '2007-10-10')`,
		`INSERT INTO songs VALUES
			(1, '15 Step', 1, 1, NULL),
			(2, 'Nude', 1, 1, NULL),
			(3, 'Get Lucky', 2, NULL, '2013-04-19 00:00:00')`,
		`INSERT INTO song_genres VALUES (1, 1), (2, 1), (3, 2)`,
		`INSERT INTO ratings VALUES (1, 1, 2, 5, '2020-03-01')`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	return path
}

func TestSQLiteSource(t *testing.T) {
	src := ioload.NewSQLiteSource(buildSnapshot(t))
	m, err := src.Manifest(context.Background())
	require.NoError(t, err)

	require.Len(t, m.Albums, 1)
	album := m.Albums[0]
	assert.Equal(t, "In Rainbows", album.Title)
	assert.Equal(t, "Radiohead", album.Artist)
	assert.Equal(t, "Alternative", album.Genre)
	assert.Equal(t, []string{"15 Step", "Nude"}, album.Songs)

	require.Len(t, m.Singles, 1)
	single := m.Singles[0]
	assert.Equal(t, "Get Lucky", single.Title)
	assert.Equal(t, "Daft Punk", single.Artist)
	assert.Equal(t, []string{"Electronic"}, single.Genres)
	assert.Equal(t,
		time.Date(2013, 4, 19, 0, 0, 0, 0, time.UTC),
		single.Released.Time,
		"trailing time component is tolerated",
	)

	assert.Equal(t, []string{"alice", "bob"}, m.Listeners)

	require.Len(t, m.Ratings, 1)
	rating := m.Ratings[0]
	assert.Equal(t, "alice", rating.Listener)
	assert.Equal(t, "Radiohead", rating.Artist)
	assert.Equal(t, "Nude", rating.Song)
	assert.Equal(t, 5, rating.Value)
}

func TestSQLiteSourceMissingFile(t *testing.T) {
	src := ioload.NewSQLiteSource(
		filepath.Join(t.TempDir(), "nope.db"))
	_, err := src.Manifest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open snapshot")
}
