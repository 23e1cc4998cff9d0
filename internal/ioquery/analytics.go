// Package ioquery implements the catalog.Analytics contract as
// read-only SQL over a pgx connection pool. Each operation guards its
// parameters first: an inverted year range or a limit of zero yields
// an empty result without touching the database, matching the
// "absence is a valid silent outcome" rule.
package ioquery

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tunedb/tunedb/pkg/catalog"
)

// pgxAnalytics implements catalog.Analytics.
type pgxAnalytics struct {
	pool *pgxpool.Pool
}

// New creates an Analytics layer over the given pool.
func New(pool *pgxpool.Pool) catalog.Analytics {
	return &pgxAnalytics{pool: pool}
}

// ProlificArtists ranks artists by combined album and single releases
// inside the year range. Albums and singles are pooled with UNION ALL
// so an artist with only one kind still qualifies.
func (a *pgxAnalytics) ProlificArtists(
	ctx context.Context,
	years catalog.YearRange,
	limit int,
) ([]catalog.ArtistReleases, error) {
	if limit == 0 || years.Empty() {
		return []catalog.ArtistReleases{}, nil
	}

	query := `
		SELECT a.name, COUNT(*) AS releases
		FROM artists a
		JOIN (
			SELECT artist_id, release_date AS released FROM albums
			UNION ALL
			SELECT artist_id, single_release_date
			FROM songs WHERE album_id IS NULL
		) r ON r.artist_id = a.id
		WHERE EXTRACT(YEAR FROM r.released) BETWEEN $1 AND $2
		GROUP BY a.name
		ORDER BY releases DESC, a.name ASC
	`
	query, args := withLimit(query, []any{years.Start, years.End}, limit)

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query prolific artists: %w", err)
	}

	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (catalog.ArtistReleases, error) {
			var r catalog.ArtistReleases
			err := row.Scan(&r.Artist, &r.Releases)
			return r, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to scan prolific artists: %w", err)
	}

	return res, nil
}

// RecentSingles returns each artist's latest single inside the year.
// Several singles sharing the artist's latest date all come back.
func (a *pgxAnalytics) RecentSingles(
	ctx context.Context,
	year int,
) ([]catalog.Single, error) {
	query := `
		SELECT ar.name, s.title, s.single_release_date
		FROM songs s
		JOIN artists ar ON ar.id = s.artist_id
		WHERE s.album_id IS NULL
		  AND EXTRACT(YEAR FROM s.single_release_date) = $1
		  AND s.single_release_date = (
			SELECT MAX(s2.single_release_date)
			FROM songs s2
			WHERE s2.artist_id = s.artist_id
			  AND s2.album_id IS NULL
			  AND EXTRACT(YEAR FROM s2.single_release_date) = $1
		  )
		ORDER BY ar.name ASC, s.title ASC
	`

	rows, err := a.pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent singles: %w", err)
	}

	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (catalog.Single, error) {
			var s catalog.Single
			err := row.Scan(&s.Artist, &s.Title, &s.Released)
			return s, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to scan recent singles: %w", err)
	}

	return res, nil
}

// TopGenres ranks genres by number of tagged songs. The inner join
// excludes genres with no members.
func (a *pgxAnalytics) TopGenres(
	ctx context.Context,
	limit int,
) ([]catalog.GenreCount, error) {
	if limit == 0 {
		return []catalog.GenreCount{}, nil
	}

	query := `
		SELECT g.name, COUNT(sg.song_id) AS songs
		FROM genres g
		JOIN song_genres sg ON sg.genre_id = g.id
		GROUP BY g.name
		ORDER BY songs DESC, g.name ASC
	`
	query, args := withLimit(query, nil, limit)

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top genres: %w", err)
	}

	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (catalog.GenreCount, error) {
			var g catalog.GenreCount
			err := row.Scan(&g.Genre, &g.Songs)
			return g, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to scan top genres: %w", err)
	}

	return res, nil
}

// AlbumAndSingleArtists returns artists owning at least one album and
// at least one single. Album tracks do not count as singles.
func (a *pgxAnalytics) AlbumAndSingleArtists(
	ctx context.Context,
) ([]string, error) {
	query := `
		SELECT a.name
		FROM artists a
		WHERE EXISTS (
			SELECT 1 FROM albums al WHERE al.artist_id = a.id
		)
		AND EXISTS (
			SELECT 1 FROM songs s
			WHERE s.artist_id = a.id AND s.album_id IS NULL
		)
		ORDER BY a.name ASC
	`

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to query album-and-single artists: %w", err)
	}

	res, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf(
			"failed to scan album-and-single artists: %w", err)
	}

	return res, nil
}

// MostRatedSongs ranks songs by number of ratings received inside the
// year range. "Most rated" counts ratings, not their values.
func (a *pgxAnalytics) MostRatedSongs(
	ctx context.Context,
	years catalog.YearRange,
	limit int,
) ([]catalog.SongRatings, error) {
	if limit == 0 || years.Empty() {
		return []catalog.SongRatings{}, nil
	}

	query := `
		SELECT s.title, a.name, COUNT(r.id) AS ratings
		FROM ratings r
		JOIN songs s ON s.id = r.song_id
		JOIN artists a ON a.id = s.artist_id
		WHERE EXTRACT(YEAR FROM r.rated_on) BETWEEN $1 AND $2
		GROUP BY s.title, a.name
		ORDER BY ratings DESC, s.title ASC, a.name ASC
	`
	query, args := withLimit(query, []any{years.Start, years.End}, limit)

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query most rated songs: %w", err)
	}

	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (catalog.SongRatings, error) {
			var s catalog.SongRatings
			err := row.Scan(&s.Title, &s.Artist, &s.Ratings)
			return s, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to scan most rated songs: %w", err)
	}

	return res, nil
}

// MostEngagedListeners ranks listeners by number of ratings given. The
// zero YearRange means no date filter.
func (a *pgxAnalytics) MostEngagedListeners(
	ctx context.Context,
	years catalog.YearRange,
	limit int,
) ([]catalog.ListenerActivity, error) {
	if limit == 0 || years.Empty() {
		return []catalog.ListenerActivity{}, nil
	}

	query := `
		SELECT u.username, COUNT(r.id) AS ratings
		FROM ratings r
		JOIN user_accounts u ON u.id = r.user_id
	`
	var args []any
	if !years.IsZero() {
		query += ` WHERE EXTRACT(YEAR FROM r.rated_on) BETWEEN $1 AND $2`
		args = []any{years.Start, years.End}
	}
	query += `
		GROUP BY u.username
		ORDER BY ratings DESC, u.username ASC
	`
	query, args = withLimit(query, args, limit)

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to query most engaged listeners: %w", err)
	}

	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (catalog.ListenerActivity, error) {
			var l catalog.ListenerActivity
			err := row.Scan(&l.Username, &l.Ratings)
			return l, err
		})
	if err != nil {
		return nil, fmt.Errorf(
			"failed to scan most engaged listeners: %w", err)
	}

	return res, nil
}

// withLimit appends a LIMIT clause for positive limits; NoLimit leaves
// the query uncapped.
func withLimit(query string, args []any, limit int) (string, []any) {
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return query, args
}
