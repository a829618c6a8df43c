package model

// Navigation holds the visibility flags for the top-level tabs.
// When settings exist, a tab absent from the stored payload decodes as
// false and is therefore hidden (fail-closed).
type Navigation struct {
	Home      bool `json:"home"`
	Series    bool `json:"series"`
	Watchlist bool `json:"watchlist"`
	Search    bool `json:"search"`
}

// DefaultNavigation returns the visibility flags used when no settings
// have ever been stored: every tab visible.
func DefaultNavigation() Navigation {
	return Navigation{Home: true, Series: true, Watchlist: true, Search: true}
}
