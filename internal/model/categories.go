package model

// Categories holds the admin-managed category tags for each content type
type Categories struct {
	MovieCategories  []string `json:"movieCategories"`
	SeriesCategories []string `json:"seriesCategories"`
}

// DefaultCategories returns the built-in category set used before an
// admin has configured any
func DefaultCategories() Categories {
	return Categories{
		MovieCategories:  []string{"trending", "popular", "latest"},
		SeriesCategories: []string{"trending", "popular", "latest"},
	}
}
