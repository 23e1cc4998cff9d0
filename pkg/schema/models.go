// Package schema provides the database schema models for tunedb.
// The seven relations encode the catalog's uniqueness and referential
// rules directly in the schema; write-time validation in the store
// re-checks the rules that need a friendly error before Postgres sees
// the row.
package schema

import (
	"database/sql"
	"time"
)

// Artist owns albums and songs directly; a song always has an artist,
// independent of any album.
type Artist struct {
	ID uint `gorm:"primaryKey"`

	// Name is the unique display name, matched case-sensitively.
	Name string `gorm:"type:varchar(255);not null;uniqueIndex:uix_artists_name"`
}

// Genre is a classification entity attached to songs through
// SongGenre and to albums as their primary genre.
type Genre struct {
	ID uint `gorm:"primaryKey"`

	Name string `gorm:"type:varchar(255);not null;uniqueIndex:uix_genres_name"`
}

// Album belongs to one artist and carries one primary genre. The same
// album name may recur under different artists, never twice under the
// same one.
type Album struct {
	ID uint `gorm:"primaryKey"`

	Name string `gorm:"type:varchar(255);not null;uniqueIndex:uix_albums_name_artist"`

	ArtistID uint   `gorm:"not null;uniqueIndex:uix_albums_name_artist;index"`
	Artist   Artist `gorm:"constraint:OnDelete:RESTRICT"`

	// ReleaseDate applies to every song on the album.
	ReleaseDate time.Time `gorm:"type:date;not null"`

	GenreID uint  `gorm:"not null;index"`
	Genre   Genre `gorm:"constraint:OnDelete:RESTRICT"`
}

// Song is either an album track (AlbumID set, no own date) or a
// single (own SingleReleaseDate, no album). The check constraint keeps
// exactly one of the two populated.
type Song struct {
	ID uint `gorm:"primaryKey"`

	Title string `gorm:"type:varchar(255);not null;uniqueIndex:uix_songs_artist_title,priority:2"`

	ArtistID uint   `gorm:"not null;uniqueIndex:uix_songs_artist_title,priority:1"`
	Artist   Artist `gorm:"constraint:OnDelete:RESTRICT"`

	AlbumID *uint  `gorm:"index"`
	Album   *Album `gorm:"constraint:OnDelete:SET NULL"`

	SingleReleaseDate sql.NullTime `gorm:"type:date;check:chk_songs_release,(album_id IS NULL) <> (single_release_date IS NULL)"`
}

// UserAccount is a listener identified by a unique username.
type UserAccount struct {
	ID uint `gorm:"primaryKey"`

	Username string `gorm:"type:varchar(255);not null;uniqueIndex:uix_user_accounts_username"`
}

// Rating is one listener's verdict on one song. A listener rates a
// song at most once; deleting either side removes the rating.
type Rating struct {
	ID uint `gorm:"primaryKey"`

	UserID uint        `gorm:"not null;uniqueIndex:uix_ratings_user_song,priority:1"`
	User   UserAccount `gorm:"constraint:OnDelete:CASCADE"`

	SongID uint `gorm:"not null;uniqueIndex:uix_ratings_user_song,priority:2;index"`
	Song   Song `gorm:"constraint:OnDelete:CASCADE"`

	// Value is constrained to the closed range [1,5] at write time and
	// again by the schema.
	Value int16 `gorm:"not null;check:chk_ratings_value,value BETWEEN 1 AND 5"`

	RatedOn time.Time `gorm:"type:date;not null;index"`
}

// SongGenre is the many-to-many association between songs and genres.
// The composite key prevents duplicate tags.
type SongGenre struct {
	SongID uint `gorm:"primaryKey;autoIncrement:false"`
	Song   Song `gorm:"constraint:OnDelete:CASCADE"`

	GenreID uint  `gorm:"primaryKey;autoIncrement:false"`
	Genre   Genre `gorm:"constraint:OnDelete:RESTRICT"`
}
