package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/user/streamflix-go/internal/model"
)

// Seed populates the catalog with sample entries when it is completely
// empty, so a fresh install has something to render
func (c *Catalog) Seed(ctx context.Context) {
	if len(c.Entries(ctx)) > 0 {
		return
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	samples := []model.CatalogEntry{
		{
			Title:       "The Matrix",
			URL:         "https://example.com/matrix",
			Thumbnail:   "https://image.tmdb.org/t/p/w500/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg",
			Description: "A computer programmer discovers that reality as he knows it does not exist.",
			Category:    "trending",
			Type:        model.EntryTypeMovie,
			CreatedAt:   createdAt,
		},
		{
			Title:       "Inception",
			URL:         "https://example.com/inception",
			Thumbnail:   "https://image.tmdb.org/t/p/w500/9gk7adHYeDvHkCSEqAvQNLV5Uge.jpg",
			Description: "A thief who steals corporate secrets through dream-sharing technology.",
			Category:    "popular",
			Type:        model.EntryTypeMovie,
			CreatedAt:   createdAt,
		},
		{
			Title:       "Avengers: Endgame",
			URL:         "https://example.com/endgame",
			Thumbnail:   "https://image.tmdb.org/t/p/w500/or06FN3Dka5tukK1e9sl16pB3iy.jpg",
			Description: "The Avengers take a final stand against Thanos.",
			Category:    "latest",
			Type:        model.EntryTypeMovie,
			CreatedAt:   createdAt,
		},
	}

	for i := range samples {
		if _, err := c.AddEntry(ctx, &samples[i]); err != nil {
			log.Warn().Err(err).Str("title", samples[i].Title).Msg("Failed to seed sample entry")
		}
	}
	log.Info().Int("count", len(samples)).Msg("Sample catalog entries seeded")
}
