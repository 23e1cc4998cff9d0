package catalog

import "time"

// NoLimit requests all qualifying rows from a ranked query.
const NoLimit = -1

// YearRange is an inclusive range of calendar years. The zero value
// means "no filter" for queries that treat a window as optional.
type YearRange struct {
	Start int
	End   int
}

// IsZero reports whether the range was left unset.
func (r YearRange) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

// Empty reports whether the range can match no year at all. The zero
// value is not empty: it means unbounded.
func (r YearRange) Empty() bool {
	return !r.IsZero() && r.End < r.Start
}

// Contains reports whether the year falls inside the range.
func (r YearRange) Contains(year int) bool {
	if r.IsZero() {
		return true
	}
	return year >= r.Start && year <= r.End
}

// ArtistReleases counts an artist's albums plus singles released
// inside a year window.
type ArtistReleases struct {
	Artist   string
	Releases int
}

// Single identifies an artist's latest single inside a year.
type Single struct {
	Artist   string
	Title    string
	Released time.Time
}

// GenreCount counts song memberships for one genre.
type GenreCount struct {
	Genre string
	Songs int
}

// SongRatings counts ratings received by one song inside a window.
type SongRatings struct {
	Title   string
	Artist  string
	Ratings int
}

// ListenerActivity counts ratings produced by one listener.
type ListenerActivity struct {
	Username string
	Ratings  int
}
