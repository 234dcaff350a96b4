package preference

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/albumdex/internal/db"
	"github.com/kailas-cloud/albumdex/internal/domain/search/order"
	"github.com/kailas-cloud/albumdex/internal/repository/kv"
)

// --- Mocks ---

type mockStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMockStore() *mockStore { return &mockStore{data: make(map[string][]byte)} }

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

// --- Tests ---

func TestRepo_Defaults(t *testing.T) {
	r := New(kv.New(newMockStore(), "albumdex:"))
	ctx := context.Background()

	q, err := r.Query(ctx, "")
	if err != nil || q != "" {
		t.Errorf("Query = (%q, %v), want (\"\", nil)", q, err)
	}
	k, err := r.Order(ctx, order.ByArtist)
	if err != nil || k != order.ByArtist {
		t.Errorf("Order = (%q, %v), want (%q, nil)", k, err, order.ByArtist)
	}
}

func TestRepo_SaveAndLoad(t *testing.T) {
	s := newMockStore()
	r := New(kv.New(s, "albumdex:"))
	ctx := context.Background()

	if err := r.Save(ctx, "genre:jazz miles", order.ByRecent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(s.data["albumdex:query"]) != `"genre:jazz miles"` {
		t.Errorf("stored query = %s", s.data["albumdex:query"])
	}
	if string(s.data["albumdex:order"]) != `"recent"` {
		t.Errorf("stored order = %s", s.data["albumdex:order"])
	}

	q, _ := r.Query(ctx, "")
	k, _ := r.Order(ctx, order.ByArtist)
	if q != "genre:jazz miles" || k != order.ByRecent {
		t.Errorf("loaded (%q, %q)", q, k)
	}
}

func TestRepo_IndependentKeys(t *testing.T) {
	s := newMockStore()
	s.data["albumdex:order"] = []byte(`"year"`)
	r := New(kv.New(s, "albumdex:"))

	q, err := r.Query(context.Background(), "")
	if err != nil || q != "" {
		t.Errorf("Query = (%q, %v)", q, err)
	}
	k, err := r.Order(context.Background(), order.ByArtist)
	if err != nil || k != order.ByYear {
		t.Errorf("Order = (%q, %v)", k, err)
	}
}

func TestRepo_GetError(t *testing.T) {
	s := newMockStore()
	s.getErr = errors.New("conn refused")
	r := New(kv.New(s, "albumdex:"))

	q, err := r.Query(context.Background(), "fallback")
	if err == nil {
		t.Fatal("expected error")
	}
	if q != "fallback" {
		t.Errorf("expected default on error, got %q", q)
	}
}

func TestRepo_SaveError(t *testing.T) {
	s := newMockStore()
	s.setErr = errors.New("read only")
	r := New(kv.New(s, "albumdex:"))

	if err := r.Save(context.Background(), "x", order.ByTitle); err == nil {
		t.Fatal("expected error")
	}
}
