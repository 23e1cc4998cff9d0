package ioload_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunedb/tunedb/internal/ioload"
	"github.com/tunedb/tunedb/pkg/catalog"
)

// fakeStore is an in-memory catalog.Store for loader tests.
type fakeStore struct {
	nextID     uint
	artists    map[string]uint
	genres     map[string]uint
	listeners  map[string]uint
	albums     map[string]uint
	songs      map[string]uint
	albumKeys  map[uint]string
	songKeys   map[uint]string
	tags       map[string]bool
	ratings    map[string]bool
	resetCalls int
}

func newFakeStore() *fakeStore {
	s := &fakeStore{}
	s.clear()
	return s
}

func (s *fakeStore) clear() {
	s.artists = map[string]uint{}
	s.genres = map[string]uint{}
	s.listeners = map[string]uint{}
	s.albums = map[string]uint{}
	s.songs = map[string]uint{}
	s.albumKeys = map[uint]string{}
	s.songKeys = map[uint]string{}
	s.tags = map[string]bool{}
	s.ratings = map[string]bool{}
}

func (s *fakeStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) upsertNamed(
	m map[string]uint, entity, name string,
) (uint, bool, error) {
	if name == "" {
		return 0, false, catalog.ConstraintError(entity, name)
	}
	if id, ok := m[name]; ok {
		return id, false, nil
	}
	id := s.id()
	m[name] = id
	return id, true, nil
}

func (s *fakeStore) UpsertArtist(
	_ context.Context, name string,
) (uint, bool, error) {
	return s.upsertNamed(s.artists, "artist", name)
}

func (s *fakeStore) UpsertGenre(
	_ context.Context, name string,
) (uint, bool, error) {
	return s.upsertNamed(s.genres, "genre", name)
}

func (s *fakeStore) UpsertListener(
	_ context.Context, username string,
) (uint, bool, error) {
	return s.upsertNamed(s.listeners, "listener", username)
}

func (s *fakeStore) UpsertAlbum(
	_ context.Context,
	name string, artistID uint, _ time.Time, _ uint,
) (uint, bool, error) {
	key := fmt.Sprintf("%d/%s", artistID, name)
	if id, ok := s.albums[key]; ok {
		return id, false, nil
	}
	id := s.id()
	s.albums[key] = id
	s.albumKeys[id] = key
	return id, true, nil
}

func (s *fakeStore) UpsertSong(
	_ context.Context,
	title string, artistID uint, albumID *uint, single *time.Time,
) (uint, bool, error) {
	if (albumID == nil) == (single == nil) {
		return 0, false, catalog.IntegrityError(title)
	}
	key := fmt.Sprintf("%d/%s", artistID, title)
	if id, ok := s.songs[key]; ok {
		return id, false, nil
	}
	id := s.id()
	s.songs[key] = id
	s.songKeys[id] = key
	return id, true, nil
}

func (s *fakeStore) LinkSongGenre(_ context.Context, songID, genreID uint) error {
	s.tags[fmt.Sprintf("%d/%d", songID, genreID)] = true
	return nil
}

func (s *fakeStore) RecordRating(
	_ context.Context,
	userID, songID uint, value int, _ time.Time,
) error {
	if value < 1 || value > 5 {
		return catalog.RangeError(value)
	}
	key := fmt.Sprintf("%d/%d", userID, songID)
	if s.ratings[key] {
		return catalog.ConstraintError("rating", key)
	}
	s.ratings[key] = true
	return nil
}

func (s *fakeStore) DeleteArtist(_ context.Context, id uint) error { return nil }
func (s *fakeStore) DeleteGenre(_ context.Context, id uint) error  { return nil }

func (s *fakeStore) DeleteAlbum(_ context.Context, id uint) error {
	delete(s.albums, s.albumKeys[id])
	delete(s.albumKeys, id)
	return nil
}

func (s *fakeStore) DeleteSong(_ context.Context, id uint) error {
	delete(s.songs, s.songKeys[id])
	delete(s.songKeys, id)
	return nil
}

func (s *fakeStore) DeleteListener(_ context.Context, id uint) error { return nil }

func (s *fakeStore) FindListener(
	_ context.Context, username string,
) (uint, bool, error) {
	id, ok := s.listeners[username]
	return id, ok, nil
}

func (s *fakeStore) FindSong(
	_ context.Context, artist, title string,
) (uint, bool, error) {
	artistID, ok := s.artists[artist]
	if !ok {
		return 0, false, nil
	}
	id, ok := s.songs[fmt.Sprintf("%d/%s", artistID, title)]
	return id, ok, nil
}

func (s *fakeStore) Reset(_ context.Context) error {
	s.resetCalls++
	s.clear()
	return nil
}

// fakeSource hands a prepared manifest to the loader.
type fakeSource struct {
	m *ioload.Manifest
}

func (s fakeSource) Manifest(_ context.Context) (*ioload.Manifest, error) {
	return s.m, nil
}

func (s fakeSource) Name() string { return "test" }

func date(y int, m time.Month, d int) ioload.Date {
	return ioload.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func TestLoadAlbums(t *testing.T) {
	store := newFakeStore()
	manifest := &ioload.Manifest{
		Albums: []ioload.AlbumEntry{
			{
				Title:    "OK Computer",
				Artist:   "Radiohead",
				Genre:    "Alternative",
				Released: date(1997, 5, 21),
				Songs:    []string{"Airbag", "Paranoid Android"},
			},
		},
	}

	report, err := ioload.New(store, fakeSource{manifest}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, store.resetCalls)
	assert.Equal(t, 1, report.Albums)
	assert.Equal(t, 2, report.Songs)
	assert.False(t, report.Rejected())
	assert.NotEmpty(t, report.BatchID)

	assert.Len(t, store.albums, 1)
	assert.Len(t, store.songs, 2)
	assert.Len(t, store.tags, 2, "every track gets the album genre")
}

func TestLoadAlbumDuplicate(t *testing.T) {
	store := newFakeStore()
	entry := ioload.AlbumEntry{
		Title:    "Discovery",
		Artist:   "Daft Punk",
		Genre:    "Electronic",
		Released: date(2001, 3, 12),
		Songs:    []string{"One More Time"},
	}
	manifest := &ioload.Manifest{
		Albums: []ioload.AlbumEntry{entry, entry},
	}

	report, err := ioload.New(store, fakeSource{manifest}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Albums)
	assert.Equal(t, 1, report.Songs)
	require.Len(t, report.Rejects, 1)
	assert.Equal(t, "album", report.Rejects[0].Phase)
	assert.Contains(t, report.Rejects[0].Reason, "already has an album")
}

func TestLoadAlbumTrackConflict(t *testing.T) {
	store := newFakeStore()
	manifest := &ioload.Manifest{
		Albums: []ioload.AlbumEntry{
			{
				Title:    "First",
				Artist:   "Muse",
				Genre:    "Rock",
				Released: date(2019, 1, 1),
				Songs:    []string{"Home", "Away"},
			},
			{
				Title:    "Second",
				Artist:   "Muse",
				Genre:    "Rock",
				Released: date(2020, 1, 1),
				Songs:    []string{"Elsewhere", "Home"},
			},
		},
	}

	report, err := ioload.New(store, fakeSource{manifest}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Albums)
	assert.Equal(t, 2, report.Songs)
	require.Len(t, report.Rejects, 1)
	assert.Equal(t, "Muse/Second", report.Rejects[0].Key)

	// The partial second album and its tracks must be gone.
	assert.Len(t, store.albums, 1)
	assert.Len(t, store.songs, 2)
}

func TestLoadSingles(t *testing.T) {
	store := newFakeStore()
	manifest := &ioload.Manifest{
		Singles: []ioload.SingleEntry{
			{
				Title:    "Get Lucky",
				Artist:   "Daft Punk",
				Genres:   []string{"Disco", "Funk"},
				Released: date(2013, 4, 19),
			},
			{
				Title:    "Untagged",
				Artist:   "Nobody",
				Released: date(2013, 4, 19),
			},
		},
	}

	report, err := ioload.New(store, fakeSource{manifest}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Singles)
	require.Len(t, report.Rejects, 1)
	assert.Equal(t, "single", report.Rejects[0].Phase)
	assert.Contains(t, report.Rejects[0].Reason, "at least one genre")

	assert.Len(t, store.songs, 1)
	assert.Len(t, store.tags, 2)
}

func TestLoadSingleTitleConflict(t *testing.T) {
	store := newFakeStore()
	manifest := &ioload.Manifest{
		Albums: []ioload.AlbumEntry{
			{
				Title:    "Album",
				Artist:   "Muse",
				Genre:    "Rock",
				Released: date(2019, 1, 1),
				Songs:    []string{"Home"},
			},
		},
		Singles: []ioload.SingleEntry{
			{
				Title:    "Home",
				Artist:   "Muse",
				Genres:   []string{"Rock"},
				Released: date(2020, 6, 1),
			},
		},
	}

	report, err := ioload.New(store, fakeSource{manifest}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Albums)
	assert.Equal(t, 0, report.Singles)
	require.Len(t, report.Rejects, 1)
	assert.Contains(t, report.Rejects[0].Reason, "already has a song")
}

func TestLoadListeners(t *testing.T) {
	store := newFakeStore()
	manifest := &ioload.Manifest{
		Listeners: []string{"alice", "bob", "alice"},
	}

	report, err := ioload.New(store, fakeSource{manifest}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Listeners)
	require.Len(t, report.Rejects, 1)
	assert.Equal(t, "listener", report.Rejects[0].Phase)
	assert.Equal(t, "alice", report.Rejects[0].Key)
}

func TestLoadRatings(t *testing.T) {
	store := newFakeStore()
	manifest := &ioload.Manifest{
		Singles: []ioload.SingleEntry{
			{
				Title:    "Creep",
				Artist:   "Radiohead",
				Genres:   []string{"Rock"},
				Released: date(1992, 9, 21),
			},
		},
		Listeners: []string{"alice"},
		Ratings: []ioload.RatingEntry{
			{
				Listener: "alice", Artist: "Radiohead", Song: "Creep",
				Value: 5, Rated: date(2020, 1, 1),
			},
			{
				Listener: "ghost", Artist: "Radiohead", Song: "Creep",
				Value: 4, Rated: date(2020, 1, 2),
			},
			{
				Listener: "alice", Artist: "Radiohead", Song: "Nude",
				Value: 4, Rated: date(2020, 1, 3),
			},
			{
				Listener: "alice", Artist: "Radiohead", Song: "Creep",
				Value: 6, Rated: date(2020, 1, 4),
			},
			{
				Listener: "alice", Artist: "Radiohead", Song: "Creep",
				Value: 3, Rated: date(2020, 1, 5),
			},
		},
	}

	report, err := ioload.New(store, fakeSource{manifest}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Ratings)
	require.Len(t, report.Rejects, 4)

	reasons := make([]string, len(report.Rejects))
	for i, r := range report.Rejects {
		reasons[i] = r.Reason
	}
	assert.Contains(t, reasons[0], "unknown listener")
	assert.Contains(t, reasons[1], "unknown song")
	assert.Contains(t, reasons[2], "not in [1,5]")
	assert.Contains(t, reasons[3], "already rated")
}

func TestLoadEmptyManifest(t *testing.T) {
	store := newFakeStore()
	report, err := ioload.New(
		store, fakeSource{&ioload.Manifest{}},
	).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, store.resetCalls)
	assert.Zero(t, report.Albums)
	assert.Zero(t, report.Ratings)
	assert.False(t, report.Rejected())
}
