package enrich

import (
	"strings"
	"testing"
)

func TestParseMetadata_OpenGraphTags(t *testing.T) {
	html := `<html><head>
		<title>Fallback Title</title>
		<meta property="og:title" content="The Matrix (1999)">
		<meta property="og:image" content="https://example.com/matrix.jpg">
		<meta property="og:description" content="A hacker discovers reality.">
	</head><body></body></html>`

	meta, err := ParseMetadata(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseMetadata() error = %v", err)
	}

	if meta.Title != "The Matrix (1999)" {
		t.Errorf("Title = %v, want The Matrix (1999)", meta.Title)
	}
	if meta.Thumbnail != "https://example.com/matrix.jpg" {
		t.Errorf("Thumbnail = %v, want og:image", meta.Thumbnail)
	}
	if meta.Description != "A hacker discovers reality." {
		t.Errorf("Description = %v, want og:description", meta.Description)
	}
}

func TestParseMetadata_FallbackTags(t *testing.T) {
	html := `<html><head>
		<title>  Plain Page Title  </title>
		<meta name="description" content="Standard description.">
		<meta name="twitter:image" content="https://example.com/card.jpg">
	</head><body></body></html>`

	meta, err := ParseMetadata(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseMetadata() error = %v", err)
	}

	if meta.Title != "Plain Page Title" {
		t.Errorf("Title = %v, want trimmed <title> text", meta.Title)
	}
	if meta.Description != "Standard description." {
		t.Errorf("Description = %v, want meta description", meta.Description)
	}
	if meta.Thumbnail != "https://example.com/card.jpg" {
		t.Errorf("Thumbnail = %v, want twitter:image", meta.Thumbnail)
	}
}

func TestParseMetadata_EmptyDocument(t *testing.T) {
	meta, err := ParseMetadata(strings.NewReader("<html></html>"))
	if err != nil {
		t.Fatalf("ParseMetadata() error = %v", err)
	}
	if meta.Title != "" || meta.Thumbnail != "" || meta.Description != "" {
		t.Errorf("meta = %+v, want all fields empty", meta)
	}
}
