package watchlist

import (
	"context"
	"testing"

	"github.com/user/streamflix-go/internal/config"
	"github.com/user/streamflix-go/internal/model"
	"github.com/user/streamflix-go/internal/store"
)

func newTestWatchlist(t *testing.T) *Watchlist {
	t.Helper()
	s, err := store.NewBadgerStore(&config.LocalConfig{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s)
}

func TestAdd_RejectsDuplicates(t *testing.T) {
	w := newTestWatchlist(t)
	ctx := context.Background()

	item := &model.WatchlistItem{ID: "m1", Title: "The Matrix"}
	if !w.Add(ctx, item) {
		t.Fatal("Add() = false, want true")
	}
	if w.Add(ctx, item) {
		t.Error("second Add() = true, want false (duplicate)")
	}
	if len(w.Items(ctx)) != 1 {
		t.Errorf("len(Items()) = %v, want 1", len(w.Items(ctx)))
	}
}

func TestAdd_RejectsEmptyID(t *testing.T) {
	w := newTestWatchlist(t)

	if w.Add(context.Background(), &model.WatchlistItem{Title: "No ID"}) {
		t.Error("Add() with empty id = true, want false")
	}
}

func TestAdd_StampsAddedAt(t *testing.T) {
	w := newTestWatchlist(t)
	ctx := context.Background()

	w.Add(ctx, &model.WatchlistItem{ID: "m1", Title: "A"})

	items := w.Items(ctx)
	if len(items) != 1 {
		t.Fatalf("len(items) = %v, want 1", len(items))
	}
	if items[0].AddedAt <= 0 {
		t.Errorf("AddedAt = %v, want > 0", items[0].AddedAt)
	}
}

func TestRemove_MissingID(t *testing.T) {
	w := newTestWatchlist(t)
	ctx := context.Background()

	if w.Remove(ctx, "nope") {
		t.Error("Remove() for missing id = true, want false")
	}

	w.Add(ctx, &model.WatchlistItem{ID: "m1", Title: "A"})
	if !w.Remove(ctx, "m1") {
		t.Error("Remove() = false, want true")
	}
	if w.Contains(ctx, "m1") {
		t.Error("Contains() = true after remove")
	}
}

func TestToggle(t *testing.T) {
	w := newTestWatchlist(t)
	ctx := context.Background()

	item := &model.WatchlistItem{ID: "m1", Title: "A"}

	if !w.Toggle(ctx, item) {
		t.Error("first Toggle() = false, want true (added)")
	}
	if w.Toggle(ctx, item) {
		t.Error("second Toggle() = true, want false (removed)")
	}
	if w.Contains(ctx, "m1") {
		t.Error("Contains() = true after toggle off")
	}
}

func TestItems_NewestFirst(t *testing.T) {
	w := newTestWatchlist(t)
	ctx := context.Background()

	w.Add(ctx, &model.WatchlistItem{ID: "m1", Title: "Oldest", AddedAt: 100})
	w.Add(ctx, &model.WatchlistItem{ID: "m2", Title: "Newest", AddedAt: 300})
	w.Add(ctx, &model.WatchlistItem{ID: "m3", Title: "Middle", AddedAt: 200})

	items := w.Items(ctx)
	if len(items) != 3 {
		t.Fatalf("len(items) = %v, want 3", len(items))
	}
	got := []string{items[0].ID, items[1].ID, items[2].ID}
	want := []string{"m2", "m3", "m1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSelected_RoundTrip(t *testing.T) {
	w := newTestWatchlist(t)
	ctx := context.Background()

	if got := w.Selected(ctx); got != "" {
		t.Errorf("Selected() = %v on fresh store, want empty", got)
	}

	w.SetSelected(ctx, "m42")
	if got := w.Selected(ctx); got != "m42" {
		t.Errorf("Selected() = %v, want m42", got)
	}
}
