// Package iostore implements the catalog.Store contract over a pgx
// connection pool. Every write operation runs inside its own
// transaction: constraint checks and row changes either all commit or
// all roll back, so a failed operation leaves the store unchanged.
package iostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tunedb/tunedb/pkg/catalog"
	"github.com/tunedb/tunedb/pkg/schema"
)

// pgxStore implements catalog.Store.
type pgxStore struct {
	pool *pgxpool.Pool
}

// New creates a Store over the given pool.
func New(pool *pgxpool.Pool) catalog.Store {
	return &pgxStore{pool: pool}
}

// withTx runs fn inside a transaction, rolling back on any error.
func (s *pgxStore) withTx(
	ctx context.Context,
	fn func(tx pgx.Tx) error,
) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpsertArtist finds or creates an artist by exact name.
func (s *pgxStore) UpsertArtist(
	ctx context.Context, name string,
) (uint, bool, error) {
	return s.upsertNamed(ctx, "artists", "name", "artist", name)
}

// UpsertGenre finds or creates a genre by exact name.
func (s *pgxStore) UpsertGenre(
	ctx context.Context, name string,
) (uint, bool, error) {
	return s.upsertNamed(ctx, "genres", "name", "genre", name)
}

// UpsertListener finds or creates a listener account by username.
func (s *pgxStore) UpsertListener(
	ctx context.Context, username string,
) (uint, bool, error) {
	return s.upsertNamed(
		ctx, "user_accounts", "username", "listener", username)
}

// upsertNamed is the shared find-or-create for single-column natural
// keys. The read and the conditional insert share one transaction;
// ON CONFLICT DO NOTHING covers the race with a concurrent creator,
// in which case the row is re-read.
func (s *pgxStore) upsertNamed(
	ctx context.Context,
	table, column, entity, name string,
) (uint, bool, error) {
	if strings.TrimSpace(name) == "" {
		return 0, false, catalog.ConstraintError(entity, name)
	}

	sel := fmt.Sprintf(
		"SELECT id FROM %s WHERE %s = $1", table, column)
	ins := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES ($1) ON CONFLICT (%s) DO NOTHING RETURNING id",
		table, column, column)

	var id uint
	var created bool
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, sel, name).Scan(&id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		err = tx.QueryRow(ctx, ins, name).Scan(&id)
		if err == nil {
			created = true
			return nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the insert race; the row exists now.
			return tx.QueryRow(ctx, sel, name).Scan(&id)
		}
		return err
	})
	if err != nil {
		return 0, false, mapPgError("upsert "+entity, err)
	}

	return id, created, nil
}

// UpsertAlbum finds or creates an album keyed on (name, artistID).
func (s *pgxStore) UpsertAlbum(
	ctx context.Context,
	name string, artistID uint, released time.Time, genreID uint,
) (uint, bool, error) {
	if strings.TrimSpace(name) == "" {
		return 0, false, catalog.ConstraintError("album", name)
	}
	if released.IsZero() {
		return 0, false, catalog.DateError(released)
	}

	var id uint
	var created bool
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		sel := `SELECT id FROM albums WHERE name = $1 AND artist_id = $2`
		err := tx.QueryRow(ctx, sel, name, artistID).Scan(&id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		ins := `
			INSERT INTO albums (name, artist_id, release_date, genre_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name, artist_id) DO NOTHING
			RETURNING id
		`
		err = tx.QueryRow(ctx, ins, name, artistID, released, genreID).
			Scan(&id)
		if err == nil {
			created = true
			return nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return tx.QueryRow(ctx, sel, name, artistID).Scan(&id)
		}
		return err
	})
	if err != nil {
		return 0, false, mapPgError("upsert album", err)
	}

	return id, created, nil
}

// UpsertSong finds or creates a song keyed on (artistID, title). The
// album/single exclusivity rule is validated before any row is
// written.
func (s *pgxStore) UpsertSong(
	ctx context.Context,
	title string, artistID uint, albumID *uint, single *time.Time,
) (uint, bool, error) {
	if strings.TrimSpace(title) == "" {
		return 0, false, catalog.ConstraintError("song", title)
	}
	if (albumID == nil) == (single == nil) {
		return 0, false, catalog.IntegrityError(title)
	}
	if single != nil && single.IsZero() {
		return 0, false, catalog.DateError(*single)
	}

	var id uint
	var created bool
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		sel := `SELECT id FROM songs WHERE artist_id = $1 AND title = $2`
		err := tx.QueryRow(ctx, sel, artistID, title).Scan(&id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		ins := `
			INSERT INTO songs (title, artist_id, album_id, single_release_date)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (artist_id, title) DO NOTHING
			RETURNING id
		`
		err = tx.QueryRow(ctx, ins, title, artistID, albumID, single).
			Scan(&id)
		if err == nil {
			created = true
			return nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return tx.QueryRow(ctx, sel, artistID, title).Scan(&id)
		}
		return err
	})
	if err != nil {
		return 0, false, mapPgError("upsert song", err)
	}

	return id, created, nil
}

// LinkSongGenre tags a song with a genre; linking an existing pair is
// a no-op.
func (s *pgxStore) LinkSongGenre(
	ctx context.Context, songID, genreID uint,
) error {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		ins := `
			INSERT INTO song_genres (song_id, genre_id)
			VALUES ($1, $2)
			ON CONFLICT (song_id, genre_id) DO NOTHING
		`
		_, err := tx.Exec(ctx, ins, songID, genreID)
		return err
	})
	if err != nil {
		return mapPgError("link song genre", err)
	}

	return nil
}

// RecordRating stores one listener's rating of one song.
func (s *pgxStore) RecordRating(
	ctx context.Context,
	userID, songID uint, value int, ratedOn time.Time,
) error {
	if value < 1 || value > 5 {
		return catalog.RangeError(value)
	}
	if ratedOn.IsZero() {
		return catalog.DateError(ratedOn)
	}

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		ins := `
			INSERT INTO ratings (user_id, song_id, value, rated_on)
			VALUES ($1, $2, $3, $4)
		`
		_, err := tx.Exec(ctx, ins, userID, songID, value, ratedOn)
		return err
	})
	if err != nil {
		return mapPgError("record rating", err)
	}

	return nil
}

// DeleteArtist removes an artist; rejected while albums or songs
// still reference it.
func (s *pgxStore) DeleteArtist(ctx context.Context, id uint) error {
	return s.deleteRow(ctx, "artists", "artist", id)
}

// DeleteGenre removes a genre; rejected while songs or albums still
// reference it.
func (s *pgxStore) DeleteGenre(ctx context.Context, id uint) error {
	return s.deleteRow(ctx, "genres", "genre", id)
}

// DeleteSong removes a song; its ratings and genre memberships go
// with it.
func (s *pgxStore) DeleteSong(ctx context.Context, id uint) error {
	return s.deleteRow(ctx, "songs", "song", id)
}

// DeleteListener removes a listener; exactly their ratings go with
// them.
func (s *pgxStore) DeleteListener(ctx context.Context, id uint) error {
	return s.deleteRow(ctx, "user_accounts", "listener", id)
}

// DeleteAlbum removes an album and converts its songs to singles. The
// songs inherit the album's release date as their own in the same
// UPDATE that clears the album reference, so the exactly-one-date rule
// holds at every point the check constraint can observe.
func (s *pgxStore) DeleteAlbum(ctx context.Context, id uint) error {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var released time.Time
		sel := `SELECT release_date FROM albums WHERE id = $1`
		err := tx.QueryRow(ctx, sel, id).Scan(&released)
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.NotFoundError("album", id)
		}
		if err != nil {
			return err
		}

		upd := `
			UPDATE songs
			SET album_id = NULL, single_release_date = $1
			WHERE album_id = $2
		`
		if _, err := tx.Exec(ctx, upd, released, id); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM albums WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return mapPgError("delete album", err)
	}

	return nil
}

// deleteRow removes one row by id; referential actions declared in the
// schema decide whether dependents block, cascade or convert.
func (s *pgxStore) deleteRow(
	ctx context.Context, table, entity string, id uint,
) error {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		del := fmt.Sprintf("DELETE FROM %s WHERE id = $1", table)
		tag, err := tx.Exec(ctx, del, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return catalog.NotFoundError(entity, id)
		}
		return nil
	})
	if err != nil {
		return mapPgError("delete "+entity, err)
	}

	return nil
}

// Reset deletes all rows from all tables, children before parents,
// and restarts the identity counters.
func (s *pgxStore) Reset(ctx context.Context) error {
	truncate := fmt.Sprintf(
		"TRUNCATE %s RESTART IDENTITY CASCADE",
		strings.Join(schema.TableNames(), ", "),
	)

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, truncate)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to reset catalog: %w", err)
	}

	return nil
}
