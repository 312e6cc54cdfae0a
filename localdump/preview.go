package localdump

import (
	"fmt"

	"github.com/toothbrush/confluence-export/confluence"
)

// PagePreview is a single page rendered in memory.
type PagePreview struct {
	HTML     string
	Markdown string
}

// Preview renders one page as HTML and Markdown without touching the filesystem.  Attachment
// links point at ./attachments/, as they would in an export.
func (e *Exporter) Preview(page confluence.Page, labels Labels) (PagePreview, error) {
	if labels.Space == "" {
		labels.Space = e.spaceLabel(page.SpaceID)
	}

	html, err := e.previewHTML(page, labels)
	if err != nil {
		return PagePreview{}, fmt.Errorf("localdump: preview %s: %w", page.ID, err)
	}
	markdown, err := e.markdown(page, labels)
	if err != nil {
		return PagePreview{}, fmt.Errorf("localdump: preview %s: %w", page.ID, err)
	}
	return PagePreview{HTML: string(html), Markdown: string(markdown)}, nil
}
