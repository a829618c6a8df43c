// Package catalog is the unified data-access layer consumed by the HTTP
// surface: every entity type is wrapped with remote-primary, local-fallback
// semantics, and failures degrade to empty results or boolean false
// instead of propagating.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/user/streamflix-go/internal/model"
	"github.com/user/streamflix-go/internal/store"
)

// Collection paths in the store tree
const (
	PathMovies     = "movies"
	PathRequests   = "requests"
	PathGuides     = "guideVideos"
	PathCategories = "categories"
	PathLegal      = "legalPages"
	PathNavigation = "navigationSettings"
)

// Local id prefixes used when the remote store cannot assign a key
const (
	moviePrefix   = "movie"
	requestPrefix = "req"
)

// Catalog wraps the fallback store with entity-level semantics: id and
// timestamp stamping stays above the store abstraction so both backends
// share it.
type Catalog struct {
	store store.WatchStore
}

// New creates a catalog over the given store (normally a *store.Fallback)
func New(s store.WatchStore) *Catalog {
	return &Catalog{store: s}
}

// Store exposes the underlying store for the listener layer
func (c *Catalog) Store() store.WatchStore {
	return c.store
}

// AddEntry stamps and persists a new catalog entry, returning its id.
// The write lands remotely when possible and locally otherwise; the local
// path always succeeds, so callers can rely on getting an id back.
func (c *Catalog) AddEntry(ctx context.Context, entry *model.CatalogEntry) (string, error) {
	now := time.Now()

	stamped := *entry
	stamped.ID = "" // the key is store-assigned, never part of the payload
	stamped.Timestamp = now.UnixMilli()
	if stamped.CreatedAt == "" {
		stamped.CreatedAt = now.UTC().Format(time.RFC3339)
	}
	if stamped.Visibility == "" {
		stamped.Visibility = model.VisibilityCategory
	}

	raw, err := json.Marshal(&stamped)
	if err != nil {
		return "", fmt.Errorf("failed to encode entry: %w", err)
	}

	id, err := c.store.Push(ctx, PathMovies, moviePrefix, raw)
	if err != nil {
		return "", fmt.Errorf("failed to add entry: %w", err)
	}

	log.Info().Str("id", id).Str("title", entry.Title).Msg("Catalog entry added")
	return id, nil
}

// Entries returns every catalog entry. Failures and malformed records
// degrade to an empty (or shorter) list, never an error.
func (c *Catalog) Entries(ctx context.Context) []model.CatalogEntry {
	records, err := c.store.List(ctx, PathMovies)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list catalog entries")
		return []model.CatalogEntry{}
	}
	return materializeEntries(records)
}

// Entry returns a single catalog entry by id
func (c *Catalog) Entry(ctx context.Context, id string) (*model.CatalogEntry, bool) {
	raw, err := c.store.Get(ctx, PathMovies+"/"+id)
	if err != nil {
		return nil, false
	}

	var entry model.CatalogEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	entry.ID = id
	return &entry, true
}

// UpdateEntry shallow-merges the partial payload into an existing entry:
// named fields overwrite, the rest are retained, and the update is
// timestamped. Returns false only when the id is unknown to the store
// that served the write.
func (c *Catalog) UpdateEntry(ctx context.Context, id string, fields map[string]any) bool {
	return c.update(ctx, PathMovies+"/"+id, fields, "timestamp", time.Now().UnixMilli())
}

// DeleteEntry removes an entry. Deletes are idempotent: removing a
// missing id still reports success.
func (c *Catalog) DeleteEntry(ctx context.Context, id string) bool {
	if err := c.store.Delete(ctx, PathMovies+"/"+id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to delete entry")
		return false
	}
	return true
}

// SetViews writes the absolute view count for an entry
func (c *Catalog) SetViews(ctx context.Context, id string, views int64) bool {
	raw, _ := json.Marshal(views)
	err := c.store.SetField(ctx, PathMovies+"/"+id, "views", raw)
	if err != nil {
		log.Warn().Err(err).Str("id", id).Msg("Failed to set views")
		return false
	}
	return true
}

// update applies a partial merge plus a stamp field at the given path
func (c *Catalog) update(ctx context.Context, p string, fields map[string]any, stampField string, stampValue any) bool {
	merged := make(map[string]json.RawMessage, len(fields)+1)
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			log.Warn().Err(err).Str("field", k).Msg("Skipping unencodable field")
			continue
		}
		merged[k] = raw
	}
	if stampField != "" {
		if _, overridden := fields[stampField]; !overridden {
			raw, _ := json.Marshal(stampValue)
			merged[stampField] = raw
		}
	}

	if err := c.store.Merge(ctx, p, merged); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false
		}
		log.Error().Err(err).Str("path", p).Msg("Failed to update record")
		return false
	}
	return true
}

// materializeEntries combines store-assigned keys with value payloads
func materializeEntries(records []store.Record) []model.CatalogEntry {
	entries := make([]model.CatalogEntry, 0, len(records))
	for _, rec := range records {
		var entry model.CatalogEntry
		if err := json.Unmarshal(rec.Value, &entry); err != nil {
			log.Warn().Str("key", rec.Key).Msg("Skipping malformed catalog record")
			continue
		}
		entry.ID = rec.Key
		entries = append(entries, entry)
	}
	return entries
}
