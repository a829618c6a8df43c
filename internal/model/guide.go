package model

// Guide video language keys. At most one guide video exists per language;
// an absent key means no guide video is configured, which is a valid state.
const (
	GuideLanguageHindi   = "hindi"
	GuideLanguageEnglish = "english"
)

// GuideVideo holds the configuration for a single guide video
type GuideVideo struct {
	Title         string `json:"title"`
	ThumbnailLink string `json:"thumbnailLink,omitempty"`
	VideoLink     string `json:"videoLink,omitempty"`
}

// GuideVideoSet maps language keys to their configured guide video.
// A nil entry or missing key both mean "not configured".
type GuideVideoSet map[string]*GuideVideo
