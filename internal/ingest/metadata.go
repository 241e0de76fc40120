package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageMetadata holds fields extracted from a resource page's head section
type PageMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SiteName    string `json:"site_name,omitempty"`
	Kind        string `json:"kind"`
}

// MetadataError represents a failure extracting metadata from HTML
type MetadataError struct {
	Message string
	Cause   error
}

func (e *MetadataError) Error() string {
	if e.Cause != nil {
		return "metadata extraction error: " + e.Message + ": " + e.Cause.Error()
	}
	return "metadata extraction error: " + e.Message
}

func (e *MetadataError) Unwrap() error {
	return e.Cause
}

// ExtractMetadata parses a page and pulls out the title, description, and a
// resource kind guess. Open Graph tags take precedence over plain HTML tags.
func ExtractMetadata(htmlContent string) (*PageMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &MetadataError{
			Message: "failed to parse HTML",
			Cause:   err,
		}
	}

	meta := &PageMetadata{}

	if og := metaContent(doc, `meta[property="og:title"]`); og != "" {
		meta.Title = og
	} else {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if og := metaContent(doc, `meta[property="og:description"]`); og != "" {
		meta.Description = og
	} else {
		meta.Description = metaContent(doc, `meta[name="description"]`)
	}

	meta.SiteName = metaContent(doc, `meta[property="og:site_name"]`)
	meta.Kind = guessKind(doc)

	if meta.Title == "" {
		return nil, &MetadataError{Message: "page has no title"}
	}

	return meta, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	content, exists := doc.Find(selector).First().Attr("content")
	if !exists {
		return ""
	}
	return strings.TrimSpace(content)
}

// guessKind maps the page's Open Graph type and embedded players to a
// learning-resource kind. Defaults to article.
func guessKind(doc *goquery.Document) string {
	ogType := strings.ToLower(metaContent(doc, `meta[property="og:type"]`))
	switch {
	case strings.HasPrefix(ogType, "video"):
		return "video"
	case doc.Find(`meta[property="og:video"], video`).Length() > 0:
		return "video"
	case strings.Contains(ogType, "course"):
		return "course"
	}
	return "article"
}
