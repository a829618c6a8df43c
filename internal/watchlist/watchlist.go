// Package watchlist manages device-local view state: the watchlist itself
// and the selected-entry hand-off between the list and detail views.
// Nothing here ever touches the remote store.
package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/user/streamflix-go/internal/model"
	"github.com/user/streamflix-go/internal/store"
)

const (
	pathWatchlist = "watchlist"
	pathSelected  = "selectedEntry"
)

// Watchlist is an ordered set of entry references kept only on the local
// store. Ids are unique: adding an entry that is already present is a
// no-op.
type Watchlist struct {
	local store.Store
}

// New creates a watchlist over the local store
func New(local store.Store) *Watchlist {
	return &Watchlist{local: local}
}

// Add inserts an entry reference, stamping the added time. Returns false
// when the id is already present.
func (w *Watchlist) Add(ctx context.Context, item *model.WatchlistItem) bool {
	if item.ID == "" {
		return false
	}
	if w.Contains(ctx, item.ID) {
		return false
	}

	stamped := *item
	if stamped.AddedAt == 0 {
		stamped.AddedAt = time.Now().UnixMilli()
	}

	raw, err := json.Marshal(&stamped)
	if err != nil {
		log.Error().Err(err).Str("id", item.ID).Msg("Failed to encode watchlist item")
		return false
	}
	if err := w.local.Set(ctx, pathWatchlist+"/"+stamped.ID, raw); err != nil {
		log.Error().Err(err).Str("id", item.ID).Msg("Failed to save watchlist item")
		return false
	}
	return true
}

// Remove deletes an entry reference. Removing a missing id reports false.
func (w *Watchlist) Remove(ctx context.Context, id string) bool {
	if !w.Contains(ctx, id) {
		return false
	}
	if err := w.local.Delete(ctx, pathWatchlist+"/"+id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to remove watchlist item")
		return false
	}
	return true
}

// Toggle adds the item when absent and removes it when present.
// Returns true when the item ended up on the list.
func (w *Watchlist) Toggle(ctx context.Context, item *model.WatchlistItem) bool {
	if w.Contains(ctx, item.ID) {
		w.Remove(ctx, item.ID)
		return false
	}
	return w.Add(ctx, item)
}

// Contains reports whether an id is on the watchlist
func (w *Watchlist) Contains(ctx context.Context, id string) bool {
	_, err := w.local.Get(ctx, pathWatchlist+"/"+id)
	return err == nil
}

// Items returns the watchlist sorted by added time, newest first.
// Malformed records are skipped.
func (w *Watchlist) Items(ctx context.Context) []model.WatchlistItem {
	records, err := w.local.List(ctx, pathWatchlist)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list watchlist")
		return []model.WatchlistItem{}
	}

	items := make([]model.WatchlistItem, 0, len(records))
	for _, rec := range records {
		var item model.WatchlistItem
		if err := json.Unmarshal(rec.Value, &item); err != nil {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].AddedAt > items[j].AddedAt
	})
	return items
}

// SetSelected stores the id being handed off to the detail view
func (w *Watchlist) SetSelected(ctx context.Context, id string) {
	raw, _ := json.Marshal(id)
	if err := w.local.Set(ctx, pathSelected, raw); err != nil {
		log.Warn().Err(err).Msg("Failed to store selected entry")
	}
}

// Selected returns the id stored by the list view, or "" when none is set
func (w *Watchlist) Selected(ctx context.Context) string {
	raw, err := w.local.Get(ctx, pathSelected)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Msg("Failed to read selected entry")
		}
		return ""
	}

	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id
}
