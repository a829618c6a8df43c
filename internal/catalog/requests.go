package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/user/streamflix-go/internal/model"
)

// AddRequest stamps and persists a user-submitted content request.
// New requests always start as pending regardless of the submitted status.
func (c *Catalog) AddRequest(ctx context.Context, req *model.Request) (string, error) {
	now := time.Now()

	stamped := *req
	stamped.ID = ""
	stamped.Status = model.RequestStatusPending
	stamped.Timestamp = now.UnixMilli()
	stamped.SubmittedAt = now.UTC().Format(time.RFC3339)

	raw, err := json.Marshal(&stamped)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	id, err := c.store.Push(ctx, PathRequests, requestPrefix, raw)
	if err != nil {
		return "", fmt.Errorf("failed to add request: %w", err)
	}

	log.Info().Str("id", id).Str("title", req.Title).Msg("Content request submitted")
	return id, nil
}

// Requests returns every content request
func (c *Catalog) Requests(ctx context.Context) []model.Request {
	records, err := c.store.List(ctx, PathRequests)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list requests")
		return []model.Request{}
	}

	requests := make([]model.Request, 0, len(records))
	for _, rec := range records {
		var req model.Request
		if err := json.Unmarshal(rec.Value, &req); err != nil {
			log.Warn().Str("key", rec.Key).Msg("Skipping malformed request record")
			continue
		}
		req.ID = rec.Key
		requests = append(requests, req)
	}
	return requests
}

// UpdateRequest shallow-merges the partial payload into a request and
// stamps updatedAt. Any status value may be written; transitions are not
// enforced here, only observed by the listener layer.
func (c *Catalog) UpdateRequest(ctx context.Context, id string, fields map[string]any) bool {
	return c.update(ctx, PathRequests+"/"+id, fields,
		"updatedAt", time.Now().UTC().Format(time.RFC3339))
}

// DeleteRequest removes a request immediately (hard delete, idempotent)
func (c *Catalog) DeleteRequest(ctx context.Context, id string) bool {
	if err := c.store.Delete(ctx, PathRequests+"/"+id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to delete request")
		return false
	}
	return true
}
