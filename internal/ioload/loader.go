// Package ioload implements the lifecycle.Loader contract: a full
// reset-and-reload of the catalog from a YAML manifest or a SQLite
// snapshot. Source rows that break loading rules are rejected and
// reported; the load continues past them. Re-running the same load
// yields the same catalog because every insert goes through the
// store's idempotent upserts.
package ioload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/tunedb/tunedb/pkg/catalog"
	"github.com/tunedb/tunedb/pkg/lifecycle"
)

// loader implements lifecycle.Loader.
type loader struct {
	store  catalog.Store
	source Source
}

// New creates a Loader that fills the store from the given source.
func New(store catalog.Store, source Source) lifecycle.Loader {
	return &loader{store: store, source: source}
}

// Load resets the catalog and loads it phase by phase: albums,
// singles, listeners, ratings. Parents always land before the rows
// that reference them.
func (l *loader) Load(ctx context.Context) (*lifecycle.LoadReport, error) {
	report := &lifecycle.LoadReport{BatchID: uuid.New().String()}
	startTime := time.Now()

	slog.Info("Starting catalog load",
		"batch_id", report.BatchID,
		"source", l.source.Name(),
	)

	manifest, err := l.source.Manifest(ctx)
	if err != nil {
		return nil, err
	}

	if err := l.store.Reset(ctx); err != nil {
		return nil, err
	}

	phases := []func(context.Context, *Manifest, *lifecycle.LoadReport) error{
		l.loadAlbums,
		l.loadSingles,
		l.loadListeners,
		l.loadRatings,
	}
	for _, phase := range phases {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("load cancelled: %w", ctx.Err())
		default:
		}
		if err := phase(ctx, manifest, report); err != nil {
			return nil, err
		}
	}

	slog.Info("Catalog load complete",
		"batch_id", report.BatchID,
		"albums", humanize.Comma(int64(report.Albums)),
		"songs", humanize.Comma(int64(report.Songs)),
		"singles", humanize.Comma(int64(report.Singles)),
		"listeners", humanize.Comma(int64(report.Listeners)),
		"ratings", humanize.Comma(int64(report.Ratings)),
		"rejects", len(report.Rejects),
		"duration", time.Since(startTime).Round(time.Millisecond),
	)

	return report, nil
}

// loadAlbums inserts albums with their track lists. Every track gets
// the album's genre. A track title that collides with a song the
// artist already has rejects the whole album, and the partial album
// is removed again so no half-loaded release survives.
func (l *loader) loadAlbums(
	ctx context.Context,
	m *Manifest,
	report *lifecycle.LoadReport,
) error {
	bar := startBar("Loading albums: ", len(m.Albums))
	defer bar.Finish()

	for _, entry := range m.Albums {
		bar.Increment()
		key := entry.Artist + "/" + entry.Title

		artistID, _, err := l.store.UpsertArtist(ctx, entry.Artist)
		if err != nil {
			report.Rejects = append(report.Rejects, reject(
				"album", key, err))
			continue
		}
		genreID, _, err := l.store.UpsertGenre(ctx, entry.Genre)
		if err != nil {
			report.Rejects = append(report.Rejects, reject(
				"album", key, err))
			continue
		}

		albumID, created, err := l.store.UpsertAlbum(
			ctx, entry.Title, artistID, entry.Released.Time, genreID)
		if err != nil {
			report.Rejects = append(report.Rejects, reject(
				"album", key, err))
			continue
		}
		if !created {
			report.Rejects = append(report.Rejects, lifecycle.Reject{
				Phase:  "album",
				Key:    key,
				Reason: "artist already has an album with this title",
			})
			continue
		}

		tracks, err := l.loadTracks(ctx, entry, artistID, albumID, genreID)
		if err != nil {
			l.dropPartialAlbum(ctx, albumID, tracks)
			report.Rejects = append(report.Rejects, reject(
				"album", key, err))
			continue
		}

		report.Albums++
		report.Songs += len(tracks)
	}

	return nil
}

// loadTracks inserts the album's songs and tags them with the album
// genre, returning the ids of the songs it created.
func (l *loader) loadTracks(
	ctx context.Context,
	entry AlbumEntry,
	artistID, albumID, genreID uint,
) ([]uint, error) {
	var created []uint
	for _, title := range entry.Songs {
		songID, madeNew, err := l.store.UpsertSong(
			ctx, title, artistID, &albumID, nil)
		if err != nil {
			return created, err
		}
		if !madeNew {
			return created, fmt.Errorf(
				"artist already has a song titled %q", title)
		}
		if err := l.store.LinkSongGenre(ctx, songID, genreID); err != nil {
			return created, err
		}
		created = append(created, songID)
	}

	return created, nil
}

// dropPartialAlbum removes tracks inserted before a conflict, then
// the album row itself. Tracks must go first: deleting the album
// would convert them to singles.
func (l *loader) dropPartialAlbum(
	ctx context.Context,
	albumID uint,
	trackIDs []uint,
) {
	for _, id := range trackIDs {
		if err := l.store.DeleteSong(ctx, id); err != nil {
			slog.Warn("Failed to remove partial album track",
				"song_id", id, "error", err)
		}
	}
	if err := l.store.DeleteAlbum(ctx, albumID); err != nil {
		slog.Warn("Failed to remove partial album",
			"album_id", albumID, "error", err)
	}
}

// loadSingles inserts standalone songs. A single without at least one
// genre is rejected before anything is written; the rule lives here
// rather than in the schema so other callers of the store keep their
// flexibility.
func (l *loader) loadSingles(
	ctx context.Context,
	m *Manifest,
	report *lifecycle.LoadReport,
) error {
	bar := startBar("Loading singles: ", len(m.Singles))
	defer bar.Finish()

	for _, entry := range m.Singles {
		bar.Increment()
		key := entry.Artist + "/" + entry.Title

		if len(entry.Genres) == 0 {
			report.Rejects = append(report.Rejects, lifecycle.Reject{
				Phase:  "single",
				Key:    key,
				Reason: "a song needs at least one genre",
			})
			continue
		}

		artistID, _, err := l.store.UpsertArtist(ctx, entry.Artist)
		if err != nil {
			report.Rejects = append(report.Rejects, reject(
				"single", key, err))
			continue
		}

		released := entry.Released.Time
		songID, created, err := l.store.UpsertSong(
			ctx, entry.Title, artistID, nil, &released)
		if err != nil {
			report.Rejects = append(report.Rejects, reject(
				"single", key, err))
			continue
		}
		if !created {
			report.Rejects = append(report.Rejects, lifecycle.Reject{
				Phase:  "single",
				Key:    key,
				Reason: "artist already has a song with this title",
			})
			continue
		}

		tagged := true
		for _, genre := range entry.Genres {
			genreID, _, err := l.store.UpsertGenre(ctx, genre)
			if err == nil {
				err = l.store.LinkSongGenre(ctx, songID, genreID)
			}
			if err != nil {
				l.dropPartialSingle(ctx, songID)
				report.Rejects = append(report.Rejects, reject(
					"single", key, err))
				tagged = false
				break
			}
		}
		if tagged {
			report.Singles++
		}
	}

	return nil
}

// dropPartialSingle removes a single whose genre tagging failed,
// keeping the at-least-one-genre rule intact.
func (l *loader) dropPartialSingle(ctx context.Context, songID uint) {
	if err := l.store.DeleteSong(ctx, songID); err != nil {
		slog.Warn("Failed to remove partial single",
			"song_id", songID, "error", err)
	}
}

// loadListeners inserts listener accounts, rejecting duplicates.
func (l *loader) loadListeners(
	ctx context.Context,
	m *Manifest,
	report *lifecycle.LoadReport,
) error {
	bar := startBar("Loading listeners: ", len(m.Listeners))
	defer bar.Finish()

	for _, username := range m.Listeners {
		bar.Increment()

		_, created, err := l.store.UpsertListener(ctx, username)
		if err != nil {
			report.Rejects = append(report.Rejects, reject(
				"listener", username, err))
			continue
		}
		if !created {
			report.Rejects = append(report.Rejects, lifecycle.Reject{
				Phase:  "listener",
				Key:    username,
				Reason: "duplicate username",
			})
			continue
		}
		report.Listeners++
	}

	return nil
}

// loadRatings inserts ratings, rejecting rows with an unknown
// listener, an unknown (artist, song) pair, an out-of-range value or
// a duplicate rating.
func (l *loader) loadRatings(
	ctx context.Context,
	m *Manifest,
	report *lifecycle.LoadReport,
) error {
	bar := startBar("Loading ratings: ", len(m.Ratings))
	defer bar.Finish()

	for _, entry := range m.Ratings {
		bar.Increment()
		key := fmt.Sprintf("%s/%s/%s",
			entry.Listener, entry.Artist, entry.Song)

		userID, found, err := l.store.FindListener(ctx, entry.Listener)
		if err != nil {
			return err
		}
		if !found {
			report.Rejects = append(report.Rejects, lifecycle.Reject{
				Phase:  "rating",
				Key:    key,
				Reason: "unknown listener",
			})
			continue
		}

		songID, found, err := l.store.FindSong(
			ctx, entry.Artist, entry.Song)
		if err != nil {
			return err
		}
		if !found {
			report.Rejects = append(report.Rejects, lifecycle.Reject{
				Phase:  "rating",
				Key:    key,
				Reason: "unknown song",
			})
			continue
		}

		err = l.store.RecordRating(
			ctx, userID, songID, entry.Value, entry.Rated.Time)
		switch {
		case err == nil:
			report.Ratings++
		case errors.Is(err, catalog.ErrRange):
			report.Rejects = append(report.Rejects, lifecycle.Reject{
				Phase:  "rating",
				Key:    key,
				Reason: fmt.Sprintf("value %d not in [1,5]", entry.Value),
			})
		case errors.Is(err, catalog.ErrConstraint):
			report.Rejects = append(report.Rejects, lifecycle.Reject{
				Phase:  "rating",
				Key:    key,
				Reason: "listener already rated this song",
			})
		default:
			return err
		}
	}

	return nil
}

// reject builds a Reject from an operation error.
func reject(phase, key string, err error) lifecycle.Reject {
	return lifecycle.Reject{Phase: phase, Key: key, Reason: err.Error()}
}

// startBar creates a progress bar for one load phase.
func startBar(prefix string, total int) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
