package views

import (
	"context"
	"testing"

	"github.com/user/streamflix-go/internal/catalog"
	"github.com/user/streamflix-go/internal/config"
	"github.com/user/streamflix-go/internal/model"
	"github.com/user/streamflix-go/internal/store"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	s, err := store.NewBadgerStore(&config.LocalConfig{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return catalog.New(s)
}

func TestCounter_TrackAndCurrent(t *testing.T) {
	counter := NewCounter(newTestCatalog(t), nil)

	counter.Track("m1", 5)
	if got := counter.Current("m1"); got != 5 {
		t.Errorf("Current() = %v, want 5", got)
	}
	if got := counter.Current("untracked"); got != 0 {
		t.Errorf("Current() for untracked id = %v, want 0", got)
	}
}

func TestCounter_IncrementPersistsAndReportsOptimistically(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()

	id, _ := cat.AddEntry(ctx, &model.CatalogEntry{Title: "A"})

	var reported []int64
	counter := NewCounter(cat, func(entryID string, views int64) {
		reported = append(reported, views)
	})
	counter.Track(id, 5)

	if got := counter.Increment(ctx, id); got != 6 {
		t.Errorf("Increment() = %v, want 6", got)
	}
	if len(reported) != 1 || reported[0] != 6 {
		t.Errorf("reported = %v, want [6]", reported)
	}

	entry, _ := cat.Entry(ctx, id)
	if entry.Views != 6 {
		t.Errorf("persisted Views = %v, want 6", entry.Views)
	}
}

func TestCounter_IncrementUntrackedReadsEntryFirst(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()

	id, _ := cat.AddEntry(ctx, &model.CatalogEntry{Title: "A", Views: 10})

	counter := NewCounter(cat, nil)
	if got := counter.Increment(ctx, id); got != 11 {
		t.Errorf("Increment() = %v, want 11 (10 read from the entry plus one)", got)
	}
}

func TestCounter_WatchReappliesRemoteValue(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()

	id, _ := cat.AddEntry(ctx, &model.CatalogEntry{Title: "A", Views: 3})

	counter := NewCounter(cat, nil)
	t.Cleanup(counter.Close)
	counter.Track(id, 3)

	if err := counter.Watch(id); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// A concurrent writer lands a higher count; the confirmation
	// subscription overwrites the session cache with it
	cat.SetViews(ctx, id, 99)

	if got := counter.Current(id); got != 99 {
		t.Errorf("Current() = %v after remote write, want 99", got)
	}

	counter.Unwatch(id)
	cat.SetViews(ctx, id, 7)
	if got := counter.Current(id); got != 99 {
		t.Errorf("Current() = %v after Unwatch, want 99 (no further updates)", got)
	}
}
