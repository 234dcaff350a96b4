package query

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		freeText string
		fields   map[string]string
	}{
		{"empty", "", "", nil},
		{"whitespace only", "   ", "", nil},
		{"free text", "  abbey road ", "abbey road", nil},
		{"bare predicate", "beatles year:1969", "beatles", map[string]string{"year": "1969"}},
		{"double quoted", `artist:"Miles Davis" love`, "love", map[string]string{"artist": "Miles Davis"}},
		{"single quoted", `artist:'Miles Davis' love`, "love", map[string]string{"artist": "Miles Davis"}},
		{"last duplicate wins", "a:1 a:2", "", map[string]string{"a": "2"}},
		{"keys lower-cased", "Year:1969", "", map[string]string{"year": "1969"}},
		{"value case kept", "genre:Jazz", "", map[string]string{"genre": "Jazz"}},
		{"inner text kept", "blue year:1959 kind", "blue  kind", map[string]string{"year": "1959"}},
		{"bare value stops at punctuation", "year:1969, abbey", ", abbey", map[string]string{"year": "1969"}},
		{"quoted value keeps colons", `title:"a b:c"`, "", map[string]string{"title": "a b:c"}},
		{"unbalanced double quote", `artist:"Miles`, `artist:"Miles`, nil},
		{"unbalanced single quote", `artist:'Miles`, `artist:'Miles`, nil},
		{"empty quotes", `artist:""`, `artist:""`, nil},
		{"dangling colon", "artist: miles", "artist: miles", nil},
		{"trailing colon", "artist:", "artist:", nil},
		{"leading colon", ":1969", ":1969", nil},
		{"chained colons", "a:b:c", ":c", map[string]string{"a": "b"}},
		{"predicate after quote", `a:"x"b:1`, "", map[string]string{"a": "x", "b": "1"}},
		{"key after punctuation", "x.y:z", "x.", map[string]string{"y": "z"}},
		{"non-ascii value is literal", "artist:Björk", "örk", map[string]string{"artist": "Bj"}},
		{"mixed forms", `title:'Blue Train' artist:"John Coltrane" year:1957 hard bop`, "hard bop",
			map[string]string{"title": "Blue Train", "artist": "John Coltrane", "year": "1957"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.query)
			want := New(tt.freeText, tt.fields)
			if !got.Equal(want) {
				t.Errorf("Parse(%q) = {%q %v}, want {%q %v}",
					tt.query, got.FreeText(), got.Fields(), want.FreeText(), want.Fields())
			}
		})
	}
}

func TestParser_UnknownKeysStayInFreeText(t *testing.T) {
	known := func(k string) bool { return k == "year" || k == "artist" }
	p := NewParser(known)

	got := p.Parse(`label:blue_note year:1959 ARTIST:"Miles Davis" mood:'late night'`)
	if got.FreeText() != `label:blue_note   mood:'late night'` {
		t.Errorf("FreeText() = %q", got.FreeText())
	}
	if v, _ := got.Field("year"); v != "1959" {
		t.Errorf("year = %q", v)
	}
	if v, _ := got.Field("artist"); v != "Miles Davis" {
		t.Errorf("artist = %q", v)
	}
	if got.Len() != 2 {
		t.Errorf("Len() = %d, want 2", got.Len())
	}
}

func TestPredicateSet_Immutable(t *testing.T) {
	p := Parse("year:1969")
	f := p.Fields()
	f["year"] = "2000"
	f["genre"] = "rock"

	if v, _ := p.Field("year"); v != "1969" {
		t.Errorf("mutating Fields() leaked into the set: year = %q", v)
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestPredicateSet_IsEmpty(t *testing.T) {
	if !Parse("").IsEmpty() {
		t.Error("empty query should give empty set")
	}
	if Parse("x").IsEmpty() {
		t.Error("free text set should not be empty")
	}
	if Parse("a:1").IsEmpty() {
		t.Error("predicate set should not be empty")
	}
}

var grammar = []*regexp.Regexp{
	regexp.MustCompile(`(\w+):(\w+)`),
	regexp.MustCompile(`(\w+):"([^"]+)"`),
	regexp.MustCompile(`(\w+):'([^']+)'`),
}

func TestParse_FreeTextHasNoPredicates(t *testing.T) {
	alphabet := []string{"a", "b", "Z", "1", "_", ":", `"`, "'", " ", ".", "-", "é"}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		var sb strings.Builder
		n := rng.Intn(24)
		for j := 0; j < n; j++ {
			sb.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		q := sb.String()

		free := Parse(q).FreeText()
		for _, re := range grammar {
			if re.MatchString(free) {
				t.Fatalf("Parse(%q).FreeText() = %q still matches %s", q, free, re)
			}
		}
	}
}

func TestParse_Pure(t *testing.T) {
	q := `artist:"Miles Davis" year:1959 blue`
	first := Parse(q)
	for i := 0; i < 10; i++ {
		if !Parse(q).Equal(first) {
			t.Fatal("Parse is not deterministic")
		}
	}
}
