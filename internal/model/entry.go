package model

// EntryType distinguishes movies from series
type EntryType string

const (
	EntryTypeMovie  EntryType = "movie"
	EntryTypeSeries EntryType = "series"
)

// VisibilityCategory is the default visibility for new entries
const VisibilityCategory = "category"

// CatalogEntry represents a movie or series in the catalog.
// The ID is assigned by the store on insert and is immutable afterwards.
type CatalogEntry struct {
	ID           string    `json:"id,omitempty"`
	Title        string    `json:"title"`
	URL          string    `json:"url,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	Type         EntryType `json:"type,omitempty"`
	EmbedLink    string    `json:"embedLink,omitempty"`
	DownloadLink string    `json:"downloadLink,omitempty"`
	Visibility   string    `json:"visibility,omitempty"`
	Views        int64     `json:"views"`
	Timestamp    int64     `json:"timestamp,omitempty"`
	CreatedAt    string    `json:"createdAt,omitempty"`
}
