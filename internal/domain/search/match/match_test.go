package match

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/albumdex/internal/domain"
	"github.com/kailas-cloud/albumdex/internal/domain/album"
	"github.com/kailas-cloud/albumdex/internal/domain/search/query"
)

func testAlbums() map[string]album.Album {
	return map[string]album.Album{
		"abbey": album.Reconstruct("abbey", "Abbey Road", "The Beatles", "Rock", 1969, 17),
		"blue":  album.Reconstruct("blue", "Kind of Blue", "Miles Davis", "Jazz", 1959, 5),
		"bare":  album.Reconstruct("bare", "Untitled", "", "", 0, 0),
	}
}

func TestMatch(t *testing.T) {
	albums := testAlbums()
	m := Default()

	tests := []struct {
		name  string
		album string
		query string
		want  bool
	}{
		{"empty query", "abbey", "", true},
		{"free text in title", "abbey", "abbey", true},
		{"free text in artist", "abbey", "beatles", true},
		{"free text case-insensitive", "blue", "MILES", true},
		{"free text miss", "blue", "coltrane", false},
		{"free text ignores genre", "blue", "jazz", false},
		{"substring field", "blue", "artist:davis", true},
		{"substring field quoted", "blue", `artist:"miles dav"`, true},
		{"substring field miss", "blue", "artist:coltrane", false},
		{"exact field", "abbey", "year:1969", true},
		{"exact field rejects partial", "abbey", "year:196", false},
		{"exact field case-insensitive", "blue", "genre:JAZZ", true},
		{"all predicates must hold", "abbey", "year:1969 genre:jazz", false},
		{"predicates and free text", "abbey", "road year:1969", true},
		{"predicates hold but free text misses", "abbey", "submarine year:1969", false},
		{"key case-insensitive", "abbey", "YEAR:1969", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Match(albums[tt.album], query.Parse(tt.query))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match(%s, %q) = %v, want %v", tt.album, tt.query, got, tt.want)
			}
		})
	}
}

func TestMatch_FieldMissing(t *testing.T) {
	m := Default()
	a := testAlbums()["bare"]

	ok, err := m.Match(a, query.Parse("year:1969"))
	if ok {
		t.Error("expected non-match")
	}
	if !errors.Is(err, domain.ErrFieldMissing) {
		t.Fatalf("expected ErrFieldMissing, got %v", err)
	}
	var fme *domain.FieldMissingError
	if !errors.As(err, &fme) {
		t.Fatalf("expected *FieldMissingError, got %T", err)
	}
	if fme.AlbumID != "bare" || fme.Field != "year" {
		t.Errorf("unexpected error detail: %+v", fme)
	}
}

func TestMatch_UnknownField(t *testing.T) {
	m := Default()

	ok, err := m.Match(testAlbums()["abbey"], query.Parse("label:apple"))
	if ok {
		t.Error("expected non-match")
	}
	if !errors.Is(err, domain.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestMatch_MismatchBeforeMissingIsNotAFailure(t *testing.T) {
	m := Default()
	a := album.Reconstruct("x", "Sketches", "", "Jazz", 0, 0)

	// genre sorts before year, so the genre mismatch is found first.
	ok, err := m.Match(a, query.Parse("year:1960 genre:rock"))
	if ok || err != nil {
		t.Errorf("Match = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestMatch_FreeTextSkipsEmptyDefaults(t *testing.T) {
	m := Default()
	a := testAlbums()["bare"]

	ok, err := m.Match(a, query.Parse("untitled"))
	if err != nil || !ok {
		t.Errorf("Match = (%v, %v), want (true, nil)", ok, err)
	}
}
