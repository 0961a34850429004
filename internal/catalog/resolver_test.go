package catalog

import (
	"context"
	"errors"
	"testing"
)

// memIdentityStore implements IdentityStore over a map keyed by name+type.
type memIdentityStore struct {
	records map[string]*Record
	creates int
	findErr error
}

func key(name, typ string) string { return name + "/" + typ }

func (s *memIdentityStore) FindActiveByIdentity(ctx context.Context, name, typ string) (*Record, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.records[key(name, typ)], nil
}

func (s *memIdentityStore) CreateRecord(ctx context.Context, name, typ, description string) (*Record, error) {
	s.creates++
	rec := &Record{ID: "id-" + key(name, typ), Description: description}
	if s.records == nil {
		s.records = make(map[string]*Record)
	}
	s.records[key(name, typ)] = rec
	return rec, nil
}

func TestResolver_CreatesWhenMissing(t *testing.T) {
	store := &memIdentityStore{}
	r := NewResolver(store)

	res, err := r.Resolve(context.Background(), "user_id", "string", "User ID")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Created {
		t.Error("Created = false, want true")
	}
	if res.ID == "" {
		t.Error("ID should not be empty")
	}
	if store.creates != 1 {
		t.Errorf("creates = %d, want 1", store.creates)
	}
}

func TestResolver_ReusesMatchingDescription(t *testing.T) {
	store := &memIdentityStore{records: map[string]*Record{
		key("user_id", "string"): {ID: "p-1", Description: "User ID"},
	}}
	r := NewResolver(store)

	res, err := r.Resolve(context.Background(), "user_id", "string", "User ID")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Created {
		t.Error("Created = true, want false")
	}
	if res.ID != "p-1" {
		t.Errorf("ID = %q, want %q", res.ID, "p-1")
	}
	if store.creates != 0 {
		t.Errorf("creates = %d, want 0", store.creates)
	}
}

func TestResolver_ConflictOnDescriptionMismatch(t *testing.T) {
	store := &memIdentityStore{records: map[string]*Record{
		key("user_id", "string"): {ID: "p-1", Description: "User ID"},
	}}
	r := NewResolver(store)

	_, err := r.Resolve(context.Background(), "user_id", "string", "Account ID")
	if !errors.Is(err, ErrDescriptionMismatch) {
		t.Fatalf("err = %v, want ErrDescriptionMismatch", err)
	}
	if store.creates != 0 {
		t.Errorf("creates = %d, want 0", store.creates)
	}
}

func TestResolver_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	r := NewResolver(&memIdentityStore{findErr: boom})

	_, err := r.Resolve(context.Background(), "user_id", "string", "User ID")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestFilterKnown(t *testing.T) {
	active := map[string]struct{}{"a": {}, "c": {}}
	got := FilterKnown([]string{"a", "b", "c", "d"}, active)
	want := []string{"a", "c"}
	if len(got) != len(want) {
		t.Fatalf("FilterKnown = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FilterKnown[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if FilterKnown(nil, active) != nil {
		t.Error("FilterKnown(nil) should be nil")
	}
}

func TestDedupe_FirstSeenOrder(t *testing.T) {
	got := Dedupe([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("Dedupe = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Dedupe[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMergeIDs_ExistingFirst(t *testing.T) {
	got := MergeIDs([]string{"a", "b"}, []string{"b", "c", "a", "d"})
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("MergeIDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MergeIDs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
