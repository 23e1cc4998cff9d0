package ioload

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"slices"
	"time"

	// Pure Go SQLite driver (no CGo).
	_ "modernc.org/sqlite"
)

// sqliteSource reads a Manifest from a SQLite catalog snapshot: a
// file holding the same seven tables as the live schema. Rows are
// resolved back to natural keys so a snapshot load goes through the
// same upsert path as a manifest load.
type sqliteSource struct {
	path string
}

// NewSQLiteSource creates a Source over a SQLite snapshot file.
func NewSQLiteSource(path string) Source {
	return &sqliteSource{path: path}
}

func (s *sqliteSource) Name() string {
	return "snapshot " + s.path
}

func (s *sqliteSource) Manifest(ctx context.Context) (*Manifest, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("failed to open snapshot %q: %w", s.path, err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %q: %w", s.path, err)
	}
	defer db.Close()

	artists, err := readNames(ctx, db, "artists", "name")
	if err != nil {
		return nil, err
	}
	genres, err := readNames(ctx, db, "genres", "name")
	if err != nil {
		return nil, err
	}
	listeners, err := readNames(ctx, db, "user_accounts", "username")
	if err != nil {
		return nil, err
	}

	m := &Manifest{Listeners: sortedValues(listeners)}

	songTitles := map[int64]string{}
	songArtists := map[int64]string{}

	if err := s.readAlbums(ctx, db, m, artists, genres); err != nil {
		return nil, err
	}
	if err := s.readSongs(
		ctx, db, m, artists, genres, songTitles, songArtists,
	); err != nil {
		return nil, err
	}
	if err := s.readRatings(
		ctx, db, m, listeners, songTitles, songArtists,
	); err != nil {
		return nil, err
	}

	return m, nil
}

// readAlbums reconstructs album entries, each with its ordered track
// list.
func (s *sqliteSource) readAlbums(
	ctx context.Context,
	db *sql.DB,
	m *Manifest,
	artists, genres map[int64]string,
) error {
	query := `
		SELECT id, name, artist_id, genre_id, release_date
		FROM albums
		ORDER BY id
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to read snapshot albums: %w", err)
	}
	defer rows.Close()

	type albumRow struct {
		id    int64
		entry AlbumEntry
	}
	var albums []albumRow

	for rows.Next() {
		var (
			id, artistID, genreID int64
			name, released        string
		)
		if err := rows.Scan(
			&id, &name, &artistID, &genreID, &released,
		); err != nil {
			return fmt.Errorf("failed to scan snapshot album: %w", err)
		}

		date, err := parseSnapshotDate(released)
		if err != nil {
			return fmt.Errorf("snapshot album %q: %w", name, err)
		}

		albums = append(albums, albumRow{
			id: id,
			entry: AlbumEntry{
				Title:    name,
				Artist:   artists[artistID],
				Genre:    genres[genreID],
				Released: Date{date},
			},
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read snapshot albums: %w", err)
	}

	for i := range albums {
		titles, err := albumTracks(ctx, db, albums[i].id)
		if err != nil {
			return err
		}
		albums[i].entry.Songs = titles
		m.Albums = append(m.Albums, albums[i].entry)
	}

	return nil
}

// albumTracks returns the album's song titles in insertion order.
func albumTracks(
	ctx context.Context, db *sql.DB, albumID int64,
) ([]string, error) {
	query := `SELECT title FROM songs WHERE album_id = ? ORDER BY id`
	rows, err := db.QueryContext(ctx, query, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot tracks: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot track: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot tracks: %w", err)
	}

	return titles, nil
}

// readSongs reconstructs single entries (songs without an album) with
// their genre tags, and fills the id-to-natural-key maps ratings need.
func (s *sqliteSource) readSongs(
	ctx context.Context,
	db *sql.DB,
	m *Manifest,
	artists, genres map[int64]string,
	songTitles, songArtists map[int64]string,
) error {
	query := `
		SELECT id, title, artist_id, album_id, single_release_date
		FROM songs
		ORDER BY id
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to read snapshot songs: %w", err)
	}
	defer rows.Close()

	type singleRow struct {
		id    int64
		entry SingleEntry
	}
	var singles []singleRow

	for rows.Next() {
		var (
			id, artistID int64
			albumID      sql.NullInt64
			title        string
			released     sql.NullString
		)
		if err := rows.Scan(
			&id, &title, &artistID, &albumID, &released,
		); err != nil {
			return fmt.Errorf("failed to scan snapshot song: %w", err)
		}

		songTitles[id] = title
		songArtists[id] = artists[artistID]

		if albumID.Valid {
			continue // album tracks travel with their album entry
		}
		if !released.Valid {
			return fmt.Errorf(
				"snapshot song %q: single without release date", title)
		}

		date, err := parseSnapshotDate(released.String)
		if err != nil {
			return fmt.Errorf("snapshot song %q: %w", title, err)
		}

		singles = append(singles, singleRow{
			id: id,
			entry: SingleEntry{
				Title:    title,
				Artist:   artists[artistID],
				Released: Date{date},
			},
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read snapshot songs: %w", err)
	}

	for i := range singles {
		tags, err := songGenres(ctx, db, singles[i].id, genres)
		if err != nil {
			return err
		}
		singles[i].entry.Genres = tags
		m.Singles = append(m.Singles, singles[i].entry)
	}

	return nil
}

// songGenres returns the genre names tagged on one song.
func songGenres(
	ctx context.Context,
	db *sql.DB,
	songID int64,
	genres map[int64]string,
) ([]string, error) {
	query := `
		SELECT genre_id FROM song_genres WHERE song_id = ? ORDER BY genre_id
	`
	rows, err := db.QueryContext(ctx, query, songID)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot song genres: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var genreID int64
		if err := rows.Scan(&genreID); err != nil {
			return nil, fmt.Errorf(
				"failed to scan snapshot song genre: %w", err)
		}
		tags = append(tags, genres[genreID])
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot song genres: %w", err)
	}

	return tags, nil
}

// readRatings reconstructs rating entries addressed by natural keys.
func (s *sqliteSource) readRatings(
	ctx context.Context,
	db *sql.DB,
	m *Manifest,
	listeners, songTitles, songArtists map[int64]string,
) error {
	query := `
		SELECT user_id, song_id, value, rated_on
		FROM ratings
		ORDER BY id
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to read snapshot ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID, songID int64
			value          int
			ratedOn        string
		)
		if err := rows.Scan(&userID, &songID, &value, &ratedOn); err != nil {
			return fmt.Errorf("failed to scan snapshot rating: %w", err)
		}

		date, err := parseSnapshotDate(ratedOn)
		if err != nil {
			return fmt.Errorf("snapshot rating: %w", err)
		}

		m.Ratings = append(m.Ratings, RatingEntry{
			Listener: listeners[userID],
			Artist:   songArtists[songID],
			Song:     songTitles[songID],
			Value:    value,
			Rated:    Date{date},
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read snapshot ratings: %w", err)
	}

	return nil
}

// readNames loads an id-to-name map from a two-column lookup table.
func readNames(
	ctx context.Context,
	db *sql.DB,
	table, column string,
) (map[int64]string, error) {
	query := fmt.Sprintf("SELECT id, %s FROM %s", column, table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", table, err)
	}
	defer rows.Close()

	res := map[int64]string{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf(
				"failed to scan snapshot %s: %w", table, err)
		}
		res[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", table, err)
	}

	return res, nil
}

// sortedValues returns map values ordered by key, keeping snapshot
// loads deterministic.
func sortedValues(m map[int64]string) []string {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	res := make([]string, 0, len(keys))
	for _, k := range keys {
		res = append(res, m[k])
	}
	return res
}

// parseSnapshotDate accepts YYYY-MM-DD, tolerating a trailing time
// component some exporters add.
func parseSnapshotDate(s string) (time.Time, error) {
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf(
			"invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}
