package catalog

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/user/streamflix-go/internal/model"
)

// SaveGuideVideos replaces the guide video configuration. A nil entry for
// a language removes that language's guide video; absence is a valid
// state, not an error.
func (c *Catalog) SaveGuideVideos(ctx context.Context, set model.GuideVideoSet) bool {
	ok := true
	for lang, video := range set {
		if video == nil {
			if err := c.store.Delete(ctx, PathGuides+"/"+lang); err != nil {
				log.Error().Err(err).Str("language", lang).Msg("Failed to remove guide video")
				ok = false
			}
			continue
		}

		raw, err := json.Marshal(video)
		if err != nil {
			log.Error().Err(err).Str("language", lang).Msg("Failed to encode guide video")
			ok = false
			continue
		}
		if err := c.store.Set(ctx, PathGuides+"/"+lang, raw); err != nil {
			log.Error().Err(err).Str("language", lang).Msg("Failed to save guide video")
			ok = false
		}
	}
	return ok
}

// GuideVideos returns the configured guide videos keyed by language.
// Languages without a configured video are simply absent from the map.
func (c *Catalog) GuideVideos(ctx context.Context) model.GuideVideoSet {
	records, err := c.store.List(ctx, PathGuides)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list guide videos")
		return model.GuideVideoSet{}
	}

	set := make(model.GuideVideoSet, len(records))
	for _, rec := range records {
		var video model.GuideVideo
		if err := json.Unmarshal(rec.Value, &video); err != nil {
			log.Warn().Str("language", rec.Key).Msg("Skipping malformed guide video record")
			continue
		}
		set[rec.Key] = &video
	}
	return set
}

// SaveCategories replaces the admin-managed category lists
func (c *Catalog) SaveCategories(ctx context.Context, cats model.Categories) bool {
	raw, err := json.Marshal(&cats)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode categories")
		return false
	}
	if err := c.store.Set(ctx, PathCategories, raw); err != nil {
		log.Error().Err(err).Msg("Failed to save categories")
		return false
	}
	return true
}

// Categories returns the admin-managed category lists, or the built-in
// defaults when none are stored (or the stored value is malformed)
func (c *Catalog) Categories(ctx context.Context) model.Categories {
	raw, err := c.store.Get(ctx, PathCategories)
	if err != nil {
		return model.DefaultCategories()
	}

	var cats model.Categories
	if err := json.Unmarshal(raw, &cats); err != nil {
		return model.DefaultCategories()
	}
	return cats
}

// SaveLegalPage stores an admin edit for a single legal page. Partial
// edits are expected; the listener layer merges them over the defaults.
func (c *Catalog) SaveLegalPage(ctx context.Context, key string, page model.LegalPage) bool {
	raw, err := json.Marshal(&page)
	if err != nil {
		log.Error().Err(err).Str("page", key).Msg("Failed to encode legal page")
		return false
	}
	if err := c.store.Set(ctx, PathLegal+"/"+key, raw); err != nil {
		log.Error().Err(err).Str("page", key).Msg("Failed to save legal page")
		return false
	}
	return true
}

// LegalPageOverrides returns the raw admin-edited legal pages, without
// the defaults applied
func (c *Catalog) LegalPageOverrides(ctx context.Context) map[string]model.LegalPage {
	records, err := c.store.List(ctx, PathLegal)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list legal pages")
		return map[string]model.LegalPage{}
	}

	pages := make(map[string]model.LegalPage, len(records))
	for _, rec := range records {
		var page model.LegalPage
		if err := json.Unmarshal(rec.Value, &page); err != nil {
			continue
		}
		pages[rec.Key] = page
	}
	return pages
}

// SaveNavigation replaces the navigation visibility flags
func (c *Catalog) SaveNavigation(ctx context.Context, nav model.Navigation) bool {
	raw, err := json.Marshal(&nav)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode navigation settings")
		return false
	}
	if err := c.store.Set(ctx, PathNavigation, raw); err != nil {
		log.Error().Err(err).Msg("Failed to save navigation settings")
		return false
	}
	return true
}

// NavigationOverrides returns the stored navigation settings when they
// exist. The second return is false when no settings have ever been
// stored, in which case callers fall back to the full default set.
func (c *Catalog) NavigationOverrides(ctx context.Context) (model.Navigation, bool) {
	raw, err := c.store.Get(ctx, PathNavigation)
	if err != nil {
		return model.Navigation{}, false
	}

	var nav model.Navigation
	if err := json.Unmarshal(raw, &nav); err != nil {
		return model.Navigation{}, false
	}
	return nav, true
}
