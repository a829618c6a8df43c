package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/user/streamflix-go/internal/model"
)

// Search returns entries whose title, description or category contains
// the keyword, case-insensitive, newest first
func (c *Catalog) Search(ctx context.Context, keyword string, limit int) []model.CatalogEntry {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return []model.CatalogEntry{}
	}

	var matches []model.CatalogEntry
	for _, entry := range c.Entries(ctx) {
		if strings.Contains(strings.ToLower(entry.Title), keyword) ||
			strings.Contains(strings.ToLower(entry.Description), keyword) ||
			strings.Contains(strings.ToLower(entry.Category), keyword) {
			matches = append(matches, entry)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Timestamp > matches[j].Timestamp
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Suggestions returns up to limit entry titles matching the keyword,
// title-prefix matches first
func (c *Catalog) Suggestions(ctx context.Context, keyword string, limit int) []string {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return []string{}
	}

	var prefixed, contained []string
	for _, entry := range c.Entries(ctx) {
		title := strings.ToLower(entry.Title)
		switch {
		case strings.HasPrefix(title, keyword):
			prefixed = append(prefixed, entry.Title)
		case strings.Contains(title, keyword):
			contained = append(contained, entry.Title)
		}
	}

	sort.Strings(prefixed)
	sort.Strings(contained)

	suggestions := append(prefixed, contained...)
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
