package live

import (
	"github.com/user/streamflix-go/internal/model"
)

// MergeLegalPages overlays admin-edited legal pages onto the built-in
// defaults. Only keys present in the defaults participate; for each of
// those, a non-empty admin title or content overrides that field alone,
// so partial edits preserve the unedited default field. Applying the same
// overrides twice yields the same result.
func MergeLegalPages(defaults map[string]model.LegalPage, overrides map[string]model.LegalPage) map[string]model.LegalPage {
	merged := make(map[string]model.LegalPage, len(defaults))
	for key, def := range defaults {
		page := def
		if edit, ok := overrides[key]; ok {
			if edit.Title != "" {
				page.Title = edit.Title
			}
			if edit.Content != "" {
				page.Content = edit.Content
			}
		}
		merged[key] = page
	}
	return merged
}

// ResolveNavigation returns the effective tab visibility. When no
// settings exist at all, every documented tab is visible; when settings
// exist, any tab absent from them decodes as false and stays hidden.
func ResolveNavigation(stored model.Navigation, exists bool) model.Navigation {
	if !exists {
		return model.DefaultNavigation()
	}
	return stored
}
