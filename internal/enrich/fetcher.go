// Package enrich fills missing catalog entry metadata (title, thumbnail,
// description) from the entry's own page via its Open Graph tags.
package enrich

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/user/streamflix-go/internal/config"
	"github.com/user/streamflix-go/internal/model"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Metadata holds the fields extractable from a page
type Metadata struct {
	Title       string
	Thumbnail   string
	Description string
}

// Fetcher retrieves page metadata over HTTP, rate-limited
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	config  *config.EnrichConfig
}

// NewFetcher creates a metadata fetcher
func NewFetcher(cfg *config.EnrichConfig) *Fetcher {
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		config:  cfg,
	}
}

// Fetch downloads a page and extracts its metadata
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Metadata, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	userAgent := f.config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, pageURL)
	}

	meta, err := ParseMetadata(resp.Body)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("url", pageURL).Str("title", meta.Title).Msg("Fetched page metadata")
	return meta, nil
}

// Apply fills the empty fields of an entry from its page. Fetch failures
// only log: enrichment is best-effort and never blocks an add.
func (f *Fetcher) Apply(ctx context.Context, entry *model.CatalogEntry) {
	if entry.URL == "" {
		return
	}
	if entry.Title != "" && entry.Thumbnail != "" && entry.Description != "" {
		return
	}

	meta, err := f.Fetch(ctx, entry.URL)
	if err != nil {
		log.Warn().Err(err).Str("url", entry.URL).Msg("Metadata enrichment failed")
		return
	}

	if entry.Title == "" {
		entry.Title = meta.Title
	}
	if entry.Thumbnail == "" {
		entry.Thumbnail = meta.Thumbnail
	}
	if entry.Description == "" {
		entry.Description = meta.Description
	}
}
