package store

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/user/streamflix-go/internal/config"
)

func newTestBadger(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := NewBadgerStore(&config.LocalConfig{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerStore_SetGet(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	value := json.RawMessage(`{"title":"The Matrix"}`)
	if err := s.Set(ctx, "movies/m1", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := s.Get(ctx, "movies/m1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("Get() = %s, want %s", got, value)
	}
}

func TestBadgerStore_GetMissing(t *testing.T) {
	s := newTestBadger(t)

	_, err := s.Get(context.Background(), "movies/nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestBadgerStore_MergePreservesUnnamedFields(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	s.Set(ctx, "movies/m1", json.RawMessage(`{"title":"Inception","views":5}`))

	err := s.Merge(ctx, "movies/m1", map[string]json.RawMessage{
		"views": json.RawMessage(`6`),
	})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	raw, _ := s.Get(ctx, "movies/m1")
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("stored value is not valid JSON: %v", err)
	}
	if got["title"] != "Inception" {
		t.Errorf("title = %v, want Inception", got["title"])
	}
	if got["views"] != float64(6) {
		t.Errorf("views = %v, want 6", got["views"])
	}
}

func TestBadgerStore_MergeMissing(t *testing.T) {
	s := newTestBadger(t)

	err := s.Merge(context.Background(), "movies/nope", map[string]json.RawMessage{
		"views": json.RawMessage(`1`),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Merge() error = %v, want ErrNotFound", err)
	}
}

func TestBadgerStore_DeleteIsIdempotent(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	s.Set(ctx, "movies/m1", json.RawMessage(`{}`))

	if err := s.Delete(ctx, "movies/m1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "movies/m1"); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}
	if _, err := s.Get(ctx, "movies/m1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestBadgerStore_DeleteRemovesDescendants(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	s.Set(ctx, "legalPages/privacy", json.RawMessage(`{}`))
	s.Set(ctx, "legalPages/dmca", json.RawMessage(`{}`))

	if err := s.Delete(ctx, "legalPages"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	records, err := s.List(ctx, "legalPages")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %v, want 0", len(records))
	}
}

func TestBadgerStore_ListDirectChildrenOnly(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	s.Set(ctx, "movies/m1", json.RawMessage(`{"title":"A"}`))
	s.Set(ctx, "movies/m2", json.RawMessage(`{"title":"B"}`))
	s.Set(ctx, "movies/m1/extra", json.RawMessage(`{}`))
	s.Set(ctx, "requests/r1", json.RawMessage(`{}`))

	records, err := s.List(ctx, "movies")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %v, want 2", len(records))
	}
	keys := map[string]bool{}
	for _, rec := range records {
		keys[rec.Key] = true
	}
	if !keys["m1"] || !keys["m2"] {
		t.Errorf("keys = %v, want m1 and m2", keys)
	}
}

func TestBadgerStore_PushUsesLocalIDPattern(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	key, err := s.Push(ctx, "movies", "movie", json.RawMessage(`{"title":"New"}`))
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	pattern := regexp.MustCompile(`^movie_\d+_[0-9a-z]{9}$`)
	if !pattern.MatchString(key) {
		t.Errorf("key = %q, want match for %v", key, pattern)
	}

	if _, err := s.Get(ctx, "movies/"+key); err != nil {
		t.Errorf("Get() after push error = %v", err)
	}
}

func TestBadgerStore_SubscribeDeliversInitialSnapshot(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	s.Set(ctx, "movies/m1", json.RawMessage(`{"title":"A"}`))

	var snaps []Snapshot
	h, err := s.Subscribe("movies", func(snap Snapshot) {
		snaps = append(snaps, snap)
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer s.Unsubscribe(h)

	if len(snaps) != 1 {
		t.Fatalf("len(snaps) = %v, want 1 (initial snapshot)", len(snaps))
	}
	if !snaps[0].Exists {
		t.Error("initial snapshot Exists = false, want true")
	}
	if len(snaps[0].Records) != 1 {
		t.Errorf("len(Records) = %v, want 1", len(snaps[0].Records))
	}
}

func TestBadgerStore_SubscribeDispatchesOnWrite(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	var snaps []Snapshot
	h, _ := s.Subscribe("movies", func(snap Snapshot) {
		snaps = append(snaps, snap)
	})

	s.Set(ctx, "movies/m1", json.RawMessage(`{"title":"A"}`))

	if len(snaps) != 2 {
		t.Fatalf("len(snaps) = %v, want 2 (initial + write)", len(snaps))
	}
	if len(snaps[1].Records) != 1 {
		t.Errorf("len(Records) after write = %v, want 1", len(snaps[1].Records))
	}

	s.Unsubscribe(h)
	s.Set(ctx, "movies/m2", json.RawMessage(`{"title":"B"}`))

	if len(snaps) != 2 {
		t.Errorf("len(snaps) after unsubscribe = %v, want 2", len(snaps))
	}
}

func TestBadgerStore_FieldSubscription(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	s.Set(ctx, "movies/m1", json.RawMessage(`{"title":"A","views":1}`))

	var values []string
	h, _ := s.Subscribe("movies/m1/views", func(snap Snapshot) {
		if snap.Exists {
			values = append(values, string(snap.Value))
		}
	})
	defer s.Unsubscribe(h)

	if err := s.SetField(ctx, "movies/m1", "views", json.RawMessage(`2`)); err != nil {
		t.Fatalf("SetField() error = %v", err)
	}

	if len(values) < 2 {
		t.Fatalf("values = %v, want initial 1 plus updated 2", values)
	}
	if values[0] != "1" {
		t.Errorf("initial field value = %v, want 1", values[0])
	}
	if values[len(values)-1] != "2" {
		t.Errorf("final field value = %v, want 2", values[len(values)-1])
	}
}
