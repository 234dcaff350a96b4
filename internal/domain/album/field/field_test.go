package field

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
	}{
		{"title", Substring},
		{"year", Exact},
		{"a", Exact},
		{strings.Repeat("x", 32), Substring},
		{"with_underscore", Exact},
	}

	for _, tt := range tests {
		f, err := New(tt.name, tt.mode)
		if err != nil {
			t.Errorf("New(%q, %q) unexpected error: %v", tt.name, tt.mode, err)
			continue
		}
		if f.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", f.Name(), tt.name)
		}
		if f.Mode() != tt.mode {
			t.Errorf("Mode() = %q, want %q", f.Mode(), tt.mode)
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		mode    Mode
		wantErr string
	}{
		{"empty", "", Exact, "required"},
		{"too long", strings.Repeat("x", 33), Exact, "too long"},
		{"upper case", "Title", Exact, "lower-case"},
		{"punctuation", "re-release", Exact, "letters"},
		{"bad mode", "title", Mode("fuzzy"), "invalid match mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.field, tt.mode)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	sub := Reconstruct("title", Substring)
	exact := Reconstruct("genre", Exact)

	tests := []struct {
		name  string
		f     Field
		value string
		want  string
		match bool
	}{
		{"substring hit", sub, "Abbey Road", "road", true},
		{"substring miss", sub, "Abbey Road", "street", false},
		{"substring empty", sub, "Abbey Road", "", true},
		{"exact hit", exact, "Jazz", "jazz", true},
		{"exact partial", exact, "Jazz Fusion", "jazz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Matches(tt.value, tt.want); got != tt.match {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.value, tt.want, got, tt.match)
			}
		})
	}
}

func TestNewSchema(t *testing.T) {
	title := Reconstruct("title", Substring)
	year := Reconstruct("year", Exact)

	s, err := NewSchema([]Field{title, year}, []string{"title"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Known("Title") {
		t.Error("expected Title to be known")
	}
	if s.Known("label") {
		t.Error("label should not be known")
	}
	if len(s.Defaults()) != 1 || s.Defaults()[0].Name() != "title" {
		t.Errorf("unexpected defaults: %v", s.Defaults())
	}
}

func TestNewSchema_Invalid(t *testing.T) {
	title := Reconstruct("title", Substring)

	if _, err := NewSchema(nil, nil); err == nil {
		t.Error("expected error for empty schema")
	}
	if _, err := NewSchema([]Field{title, title}, nil); err == nil {
		t.Error("expected error for duplicate field")
	}
	if _, err := NewSchema([]Field{title}, []string{"artist"}); err == nil {
		t.Error("expected error for undeclared default")
	}
}
