package iostore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tunedb/tunedb/pkg/catalog"
)

// Guard tests exercise validation that runs before any database
// access, so a nil pool is safe.

func TestUpsertNamedRejectsEmptyName(t *testing.T) {
	store := New(nil)
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() (uint, bool, error)
	}{
		{
			name: "artist",
			fn: func() (uint, bool, error) {
				return store.UpsertArtist(ctx, "")
			},
		},
		{
			name: "genre",
			fn: func() (uint, bool, error) {
				return store.UpsertGenre(ctx, "   ")
			},
		},
		{
			name: "listener",
			fn: func() (uint, bool, error) {
				return store.UpsertListener(ctx, "")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.fn()
			assert.ErrorIs(t, err, catalog.ErrConstraint)
		})
	}
}

func TestUpsertAlbumGuards(t *testing.T) {
	store := New(nil)
	ctx := context.Background()
	released := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := store.UpsertAlbum(ctx, "", 1, released, 1)
	assert.ErrorIs(t, err, catalog.ErrConstraint)

	_, _, err = store.UpsertAlbum(ctx, "Discovery", 1, time.Time{}, 1)
	assert.ErrorIs(t, err, catalog.ErrRange)
}

func TestUpsertSongGuards(t *testing.T) {
	store := New(nil)
	ctx := context.Background()
	albumID := uint(1)
	single := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty title", func(t *testing.T) {
		_, _, err := store.UpsertSong(ctx, "", 1, &albumID, nil)
		assert.ErrorIs(t, err, catalog.ErrConstraint)
	})

	t.Run("neither album nor single", func(t *testing.T) {
		_, _, err := store.UpsertSong(ctx, "Creep", 1, nil, nil)
		assert.ErrorIs(t, err, catalog.ErrIntegrity)
	})

	t.Run("both album and single", func(t *testing.T) {
		_, _, err := store.UpsertSong(ctx, "Creep", 1, &albumID, &single)
		assert.ErrorIs(t, err, catalog.ErrIntegrity)
	})

	t.Run("zero single date", func(t *testing.T) {
		zero := time.Time{}
		_, _, err := store.UpsertSong(ctx, "Creep", 1, nil, &zero)
		assert.ErrorIs(t, err, catalog.ErrRange)
	})
}

func TestRecordRatingGuards(t *testing.T) {
	store := New(nil)
	ctx := context.Background()
	ratedOn := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, value := range []int{-1, 0, 6, 100} {
		err := store.RecordRating(ctx, 1, 1, value, ratedOn)
		assert.ErrorIs(t, err, catalog.ErrRange, "value %d", value)
	}

	err := store.RecordRating(ctx, 1, 1, 3, time.Time{})
	assert.ErrorIs(t, err, catalog.ErrRange)
}
