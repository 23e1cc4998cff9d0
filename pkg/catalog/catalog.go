// Package catalog defines the contracts of the music catalog core:
// the Store that owns the relational state and the Analytics layer
// that answers the fixed set of ranked questions over it.
//
// Implementations live in internal/iostore and internal/ioquery;
// everything here is pure and free of I/O.
package catalog

import (
	"context"
	"time"
)

// Store holds the canonical entity set and enforces its invariants at
// write time. Every operation is a single atomic unit: on failure the
// store is left unchanged. Upserts are find-or-create keyed on the
// entity's natural key and return the same id when re-invoked with
// identical key fields; created reports whether a new row was made.
type Store interface {
	// UpsertArtist finds or creates an artist by exact name.
	// An empty name fails with ErrConstraint.
	UpsertArtist(ctx context.Context, name string) (id uint, created bool, err error)

	// UpsertGenre finds or creates a genre by exact name.
	UpsertGenre(ctx context.Context, name string) (id uint, created bool, err error)

	// UpsertListener finds or creates a listener account by username.
	UpsertListener(ctx context.Context, username string) (id uint, created bool, err error)

	// UpsertAlbum finds or creates an album keyed on (name, artistID).
	// A dangling artist or genre id fails with ErrForeignKey.
	UpsertAlbum(
		ctx context.Context,
		name string, artistID uint, released time.Time, genreID uint,
	) (id uint, created bool, err error)

	// UpsertSong finds or creates a song keyed on (artistID, title).
	// Exactly one of albumID and single must be non-nil; otherwise the
	// operation fails with ErrIntegrity. A dangling artist or album id
	// fails with ErrForeignKey.
	UpsertSong(
		ctx context.Context,
		title string, artistID uint, albumID *uint, single *time.Time,
	) (id uint, created bool, err error)

	// LinkSongGenre tags a song with a genre. Linking an existing pair
	// is a no-op; a dangling id fails with ErrForeignKey.
	LinkSongGenre(ctx context.Context, songID, genreID uint) error

	// RecordRating stores one listener's rating of one song. A value
	// outside [1,5] fails with ErrRange, a dangling id with
	// ErrForeignKey, a second rating of the same song by the same
	// listener with ErrConstraint.
	RecordRating(
		ctx context.Context,
		userID, songID uint, value int, ratedOn time.Time,
	) error

	// DeleteArtist removes an artist. It fails with ErrForeignKey
	// while the artist still owns albums or songs.
	DeleteArtist(ctx context.Context, id uint) error

	// DeleteGenre removes a genre. It fails with ErrForeignKey while
	// any song or album still references it.
	DeleteGenre(ctx context.Context, id uint) error

	// DeleteAlbum removes an album and converts its songs to singles:
	// each song inherits the album's release date as its own.
	DeleteAlbum(ctx context.Context, id uint) error

	// DeleteSong removes a song together with its ratings and genre
	// memberships.
	DeleteSong(ctx context.Context, id uint) error

	// DeleteListener removes a listener together with exactly their
	// ratings.
	DeleteListener(ctx context.Context, id uint) error

	// FindListener looks up a listener id by exact username.
	FindListener(ctx context.Context, username string) (id uint, found bool, err error)

	// FindSong looks up a song id by its natural key, the owning
	// artist's name and the song title.
	FindSong(ctx context.Context, artist, title string) (id uint, found bool, err error)

	// Reset deletes all rows from all tables, children before parents,
	// restoring an empty store with restarted identities.
	Reset(ctx context.Context) error
}

// Analytics answers the six ranked questions over the catalog. All
// operations are read-only, deterministic for a given store state, and
// safe to run concurrently with each other. Absence of matching rows
// is a valid silent outcome: an empty or inverted year range and a
// limit of zero yield empty slices, never errors. A limit of NoLimit
// returns all qualifying rows.
type Analytics interface {
	// ProlificArtists ranks artists by combined album and single
	// releases inside the year range; ties break by name ascending.
	ProlificArtists(ctx context.Context, years YearRange, limit int) ([]ArtistReleases, error)

	// RecentSingles returns, per artist, the single with the latest
	// release date inside the given year. Artists with several singles
	// on that latest date contribute all of them; artists with no
	// single that year are absent.
	RecentSingles(ctx context.Context, year int) ([]Single, error)

	// TopGenres ranks genres by number of tagged songs; ties break by
	// genre name ascending. Genres with no songs are excluded.
	TopGenres(ctx context.Context, limit int) ([]GenreCount, error)

	// AlbumAndSingleArtists returns artists owning at least one album
	// and at least one single, ordered by name ascending.
	AlbumAndSingleArtists(ctx context.Context) ([]string, error)

	// MostRatedSongs ranks songs by number of ratings received inside
	// the year range; ties break by title, then artist name.
	MostRatedSongs(ctx context.Context, years YearRange, limit int) ([]SongRatings, error)

	// MostEngagedListeners ranks listeners by number of ratings given,
	// optionally windowed (the zero YearRange means no date filter);
	// ties break by username ascending.
	MostEngagedListeners(ctx context.Context, years YearRange, limit int) ([]ListenerActivity, error)
}
