package model

// WatchlistItem represents a catalog entry saved to the device-local
// watchlist. The watchlist is never persisted remotely.
type WatchlistItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Type        EntryType `json:"type,omitempty"`
	AddedAt     int64     `json:"addedAt"`
}

// WatchlistItemFromEntry builds a watchlist item from a catalog entry
func WatchlistItemFromEntry(entry *CatalogEntry, addedAt int64) *WatchlistItem {
	return &WatchlistItem{
		ID:          entry.ID,
		Title:       entry.Title,
		Thumbnail:   entry.Thumbnail,
		URL:         entry.URL,
		Description: entry.Description,
		Category:    entry.Category,
		Type:        entry.Type,
		AddedAt:     addedAt,
	}
}
