package enrich

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseMetadata extracts title, thumbnail and description from an HTML
// document, preferring Open Graph tags and falling back to standard ones
func ParseMetadata(r io.Reader) (*Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	meta := &Metadata{
		Title:       metaContent(doc, "og:title"),
		Thumbnail:   metaContent(doc, "og:image"),
		Description: metaContent(doc, "og:description"),
	}

	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if meta.Description == "" {
		meta.Description = nameContent(doc, "description")
	}
	if meta.Thumbnail == "" {
		meta.Thumbnail = nameContent(doc, "twitter:image")
	}

	return meta, nil
}

// metaContent returns the content of a <meta property=...> tag
func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

// nameContent returns the content of a <meta name=...> tag
func nameContent(doc *goquery.Document, name string) string {
	sel := doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}
