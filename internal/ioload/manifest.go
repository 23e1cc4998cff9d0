package ioload

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest is the source-side description of a catalog: albums with
// their track lists, standalone singles, listener accounts and the
// ratings they produced.
type Manifest struct {
	Albums    []AlbumEntry  `yaml:"albums"`
	Singles   []SingleEntry `yaml:"singles"`
	Listeners []string      `yaml:"listeners"`
	Ratings   []RatingEntry `yaml:"ratings"`
}

// AlbumEntry describes one album release. Every song on the album is
// tagged with the album's genre.
type AlbumEntry struct {
	Title    string   `yaml:"title"`
	Artist   string   `yaml:"artist"`
	Genre    string   `yaml:"genre"`
	Released Date     `yaml:"released"`
	Songs    []string `yaml:"songs"`
}

// SingleEntry describes one single release. A single may carry
// several genres but must carry at least one.
type SingleEntry struct {
	Title    string   `yaml:"title"`
	Artist   string   `yaml:"artist"`
	Genres   []string `yaml:"genres"`
	Released Date     `yaml:"released"`
}

// RatingEntry describes one listener's rating of one song, addressed
// by the song's natural key (artist, title).
type RatingEntry struct {
	Listener string `yaml:"listener"`
	Artist   string `yaml:"artist"`
	Song     string `yaml:"song"`
	Value    int    `yaml:"value"`
	Rated    Date   `yaml:"rated"`
}

// Date is a calendar date in YYYY-MM-DD form.
type Date struct {
	time.Time
}

// UnmarshalYAML parses a YYYY-MM-DD scalar.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse(time.DateOnly, value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value.Value)
	}
	d.Time = t
	return nil
}

// MarshalYAML renders the date back to YYYY-MM-DD.
func (d Date) MarshalYAML() (any, error) {
	return d.Format(time.DateOnly), nil
}

// ParseManifest decodes a YAML manifest. Unknown fields are rejected
// so a typo in a section name does not silently drop data.
func ParseManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}
