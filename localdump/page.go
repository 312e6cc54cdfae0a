package localdump

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toothbrush/confluence-export/confluence"
	"github.com/toothbrush/confluence-export/hierarchy"
	"github.com/toothbrush/confluence-export/macro"
	"github.com/toothbrush/confluence-export/render"
)

// PageMeta is what meta.json holds for every exported page.
type PageMeta struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	SpaceID    string           `json:"spaceId"`
	Space      string           `json:"space"`
	ParentID   string           `json:"parentId,omitempty"`
	ParentType string           `json:"parentType,omitempty"`
	Status     string           `json:"status"`
	CreatedAt  string           `json:"createdAt"`
	Version    int              `json:"version,omitempty"`
	WebUI      string           `json:"webui,omitempty"`
	Path       []hierarchy.Link `json:"path"`
	HasBody    bool             `json:"hasBody"`
}

// Labels are the human readable bits shown around a page's body.
type Labels struct {
	Space    string
	Parent   string
	Ancestry []string
}

func (e *Exporter) spaceLabel(spaceID string) string {
	if label, ok := e.SpaceLabels[spaceID]; ok && label != "" {
		return label
	}
	return spaceID
}

// labels derives a page's labels from its ancestor chain.
func (j *job) labels(page confluence.Page, chain []hierarchy.Link) Labels {
	labels := Labels{Space: j.spaceLabel(page.SpaceID)}
	if len(chain) > 1 {
		for _, l := range chain[:len(chain)-1] {
			labels.Ancestry = append(labels.Ancestry, l.Title)
		}
		labels.Parent = chain[len(chain)-2].Title
	} else if !page.IsRoot() {
		labels.Parent = page.ParentID
	}
	return labels
}

func document(page confluence.Page, labels Labels, body string) render.Document {
	return render.Document{
		ID:          page.ID,
		Title:       page.Title,
		SpaceLabel:  labels.Space,
		ParentLabel: labels.Parent,
		Status:      page.Status,
		CreatedAt:   page.CreatedAt,
		Ancestry:    labels.Ancestry,
		Body:        body,
	}
}

// exportPage writes everything for one page.  Nothing that goes wrong in here stops the job.
func (j *job) exportPage(page confluence.Page) {
	j.result.PagesProcessed++
	logger := j.logger()

	chain := j.index.Chain(page.ID)
	rel := pagePath(chain)
	dir := filepath.Join(j.root, rel)
	if err := os.MkdirAll(dir, 0750); err != nil {
		logger.Printf("Page %s: couldn't create %s: %v\n", page.ID, rel, err)
		return
	}

	attachmentsRel := filepath.Join(rel, AttachmentsDir)
	j.keep.attachmentDirs[attachmentsRel] = true
	if j.Attachments != nil {
		res, err := j.Attachments.Download(j.ctx, page.ID, filepath.Join(j.root, attachmentsRel))
		if err != nil {
			logger.Printf("Page %s: attachments failed: %v\n", page.ID, err)
			j.result.AttachmentsFailed++
		} else {
			j.result.AttachmentsDownloaded += res.Downloaded
			j.result.AttachmentsFailed += res.Failed
		}
	}

	labels := j.labels(page, chain)
	meta := PageMeta{
		ID:         page.ID,
		Title:      page.Title,
		SpaceID:    page.SpaceID,
		Space:      labels.Space,
		ParentID:   page.ParentID,
		ParentType: page.ParentType,
		Status:     page.Status,
		CreatedAt:  page.CreatedAt,
		WebUI:      page.Links.WebUI,
		Path:       chain,
		HasBody:    page.HasBody(),
	}
	if page.Version != nil {
		meta.Version = page.Version.Number
	}
	metaRel := filepath.Join(rel, MetaFile)
	if err := writeJSON(j.root, metaRel, meta); err != nil {
		logger.Printf("Page %s: %v\n", page.ID, err)
	} else {
		j.keep.files[metaRel] = true
	}

	if !page.HasBody() {
		logger.Printf("Page %s (%s) has no body, skipping its documents\n", page.ID, page.Title)
		return
	}

	if j.Formats.HTML {
		j.artifact(page, rel, HTMLFile, &j.result.HTMLWritten, func() ([]byte, error) {
			return j.previewHTML(page, labels)
		})
	}
	if j.Formats.Markdown {
		j.artifact(page, rel, MarkdownFile, &j.result.MarkdownWritten, func() ([]byte, error) {
			return j.markdown(page, labels)
		})
	}
	if j.Formats.PDF {
		j.artifact(page, rel, PDFFile, &j.result.PDFWritten, func() ([]byte, error) {
			return j.pdf(page, labels, filepath.Join(j.root, attachmentsRel))
		})
	}
}

// artifact produces and writes one file, counting it on success.  A panic while producing it is
// treated like any other failure of this page.
func (j *job) artifact(page confluence.Page, rel, name string, counter *int, produce func() ([]byte, error)) {
	contents, err := func() (contents []byte, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("localdump: panic: %v", r)
			}
		}()
		return produce()
	}()
	if err != nil {
		j.logger().Printf("Page %s: %s failed: %v\n", page.ID, name, err)
		return
	}

	fileRel := filepath.Join(rel, name)
	if err := writeFile(j.root, fileRel, contents); err != nil {
		j.logger().Printf("Page %s: %v\n", page.ID, err)
		return
	}
	j.keep.files[fileRel] = true
	*counter++
}

func (e *Exporter) previewHTML(page confluence.Page, labels Labels) ([]byte, error) {
	body := e.translator().ToHTML(page.Body.Storage.Value, macro.Target{Mode: macro.Preview})
	out, err := render.Preview(document(page, labels, body))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func (e *Exporter) markdown(page confluence.Page, labels Labels) ([]byte, error) {
	body, err := e.translator().ToMarkdown(page.Body.Storage.Value)
	if err != nil {
		return nil, err
	}
	out, err := markdownDocument(page.Title, MarkdownHeader{
		ID:     page.ID,
		Space:  labels.Space,
		Parent: labels.Parent,
		Status: page.Status,
	}, body)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// pdf renders the print variant into a temp file and has the shared session print it.
func (j *job) pdf(page confluence.Page, labels Labels, attachmentDir string) ([]byte, error) {
	session, err := j.pdfSession()
	if err != nil {
		return nil, err
	}

	body := j.translator().ToHTML(page.Body.Storage.Value, macro.Target{Mode: macro.Print, AttachmentDir: attachmentDir})
	out, err := render.Print(document(page, labels, body))
	if err != nil {
		return nil, err
	}

	dir, err := j.scratch()
	if err != nil {
		return nil, err
	}
	htmlPath := filepath.Join(dir, PageDirName(page.ID, page.Title)+".html")
	if err := os.WriteFile(htmlPath, []byte(out), 0600); err != nil {
		return nil, fmt.Errorf("localdump: couldn't write %s: %w", htmlPath, err)
	}
	defer os.Remove(htmlPath)

	return session.RenderPDF(j.ctx, htmlPath)
}
