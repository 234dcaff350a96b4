package album

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/albumdex/internal/domain/album/field"
)

func TestNew_Valid(t *testing.T) {
	a, err := New("a1", "Abbey Road", "The Beatles", "Rock", 1969, 17)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID() != "a1" || a.Title() != "Abbey Road" || a.Artist() != "The Beatles" {
		t.Errorf("unexpected album: %+v", a)
	}
	if a.Genre() != "Rock" || a.Year() != 1969 || a.Tracks() != 17 {
		t.Errorf("unexpected album: %+v", a)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		title   string
		year    int
		tracks  int
		wantErr string
	}{
		{"empty id", "", "t", 0, 0, "ID is required"},
		{"empty title", "x", "", 0, 0, "title is required"},
		{"negative year", "x", "t", -1, 0, "year"},
		{"negative tracks", "x", "t", 0, -3, "track count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, tt.title, "", "", tt.year, tt.tracks)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestField(t *testing.T) {
	a := Reconstruct("a1", "Kind of Blue", "Miles Davis", "", 1959, 0)

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{FieldTitle, "Kind of Blue", true},
		{FieldArtist, "Miles Davis", true},
		{FieldYear, "1959", true},
		{FieldGenre, "", false},
		{FieldTracks, "", false},
		{"label", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.Field(tt.name)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Field(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSchema(t *testing.T) {
	s := Schema()
	if len(s.Fields()) != 5 {
		t.Fatalf("expected 5 fields, got %d", len(s.Fields()))
	}

	defaults := s.Defaults()
	if len(defaults) != 2 || defaults[0].Name() != FieldTitle || defaults[1].Name() != FieldArtist {
		t.Errorf("unexpected defaults: %v", defaults)
	}

	f, ok := s.Lookup("YEAR")
	if !ok {
		t.Fatal("expected case-insensitive lookup to find year")
	}
	if f.Mode() != field.Exact {
		t.Errorf("year mode = %q, want %q", f.Mode(), field.Exact)
	}

	for _, name := range []string{FieldTitle, FieldArtist} {
		f, _ := s.Lookup(name)
		if f.Mode() != field.Substring {
			t.Errorf("%s mode = %q, want %q", name, f.Mode(), field.Substring)
		}
	}
}
