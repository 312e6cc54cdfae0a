package localdump

import (
	"path/filepath"

	"github.com/toothbrush/confluence-export/hierarchy"
)

// Layout of an export below the output root.
const (
	MetaDir        = "_meta"
	SnapshotFile   = "pages.json"
	PagesDir       = "pages"
	AttachmentsDir = "attachments"

	MetaFile     = "meta.json"
	HTMLFile     = "page.html"
	MarkdownFile = "page.md"
	PDFFile      = "page.pdf"
)

// pagePath is the page's directory relative to the output root: one sanitised {id}_{title}
// directory per entry of its ancestor chain, below pages/.
func pagePath(chain []hierarchy.Link) string {
	parts := make([]string, 0, len(chain)+1)
	parts = append(parts, PagesDir)
	for _, link := range chain {
		parts = append(parts, PageDirName(link.ID, link.Title))
	}
	return filepath.Join(parts...)
}
