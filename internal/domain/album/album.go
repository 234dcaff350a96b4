package album

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/albumdex/internal/domain/album/field"
)

// Searchable field names.
const (
	FieldTitle  = "title"
	FieldArtist = "artist"
	FieldGenre  = "genre"
	FieldYear   = "year"
	FieldTracks = "tracks"
)

var schema = mustSchema()

func mustSchema() field.Schema {
	s, err := field.NewSchema([]field.Field{
		field.Reconstruct(FieldTitle, field.Substring),
		field.Reconstruct(FieldArtist, field.Substring),
		field.Reconstruct(FieldGenre, field.Exact),
		field.Reconstruct(FieldYear, field.Exact),
		field.Reconstruct(FieldTracks, field.Exact),
	}, []string{FieldTitle, FieldArtist})
	if err != nil {
		panic(err)
	}
	return s
}

// Schema returns the album search schema.
func Schema() field.Schema { return schema }

// Album is a library record (immutable value object).
// The search engine reads fields and never mutates albums.
type Album struct {
	id     string
	title  string
	artist string
	genre  string
	year   int
	tracks int
}

// New validates and creates an Album.
// ID and title are required; year and track count must not be negative (0 means unknown).
func New(id, title, artist, genre string, year, tracks int) (Album, error) {
	if id == "" {
		return Album{}, fmt.Errorf("album ID is required")
	}
	if title == "" {
		return Album{}, fmt.Errorf("album %q: title is required", id)
	}
	if year < 0 {
		return Album{}, fmt.Errorf("album %q: year must not be negative", id)
	}
	if tracks < 0 {
		return Album{}, fmt.Errorf("album %q: track count must not be negative", id)
	}
	return Album{id: id, title: title, artist: artist, genre: genre, year: year, tracks: tracks}, nil
}

// Reconstruct creates an Album without validation (storage hydration).
func Reconstruct(id, title, artist, genre string, year, tracks int) Album {
	return Album{id: id, title: title, artist: artist, genre: genre, year: year, tracks: tracks}
}

// ID returns the album identifier.
func (a Album) ID() string { return a.id }

// Title returns the album title.
func (a Album) Title() string { return a.title }

// Artist returns the album artist.
func (a Album) Artist() string { return a.artist }

// Genre returns the album genre, "" if unknown.
func (a Album) Genre() string { return a.genre }

// Year returns the release year, 0 if unknown.
func (a Album) Year() int { return a.year }

// Tracks returns the track count, 0 if unknown.
func (a Album) Tracks() int { return a.tracks }

// Field returns the string form of a searchable field.
// ok is false when the field is unknown or the album does not carry a value for it.
func (a Album) Field(name string) (value string, ok bool) {
	switch name {
	case FieldTitle:
		return a.title, a.title != ""
	case FieldArtist:
		return a.artist, a.artist != ""
	case FieldGenre:
		return a.genre, a.genre != ""
	case FieldYear:
		if a.year == 0 {
			return "", false
		}
		return strconv.Itoa(a.year), true
	case FieldTracks:
		if a.tracks == 0 {
			return "", false
		}
		return strconv.Itoa(a.tracks), true
	default:
		return "", false
	}
}
