// Package localdump writes Confluence pages to disk as a browsable tree of HTML, Markdown and PDF
// files that mirrors the space's page hierarchy.
package localdump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/toothbrush/confluence-export/confluence"
	"github.com/toothbrush/confluence-export/hierarchy"
	"github.com/toothbrush/confluence-export/macro"
	"github.com/toothbrush/confluence-export/render"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var (
	// ErrNoFormat is returned when an export asks for no output format at all.
	ErrNoFormat = errors.New("localdump: no output format requested")
	// ErrInvalidExport wraps any other problem with the exporter's configuration.
	ErrInvalidExport = errors.New("localdump: invalid export")
)

// Formats selects the artifacts written for each page.
type Formats struct {
	HTML     bool `yaml:"html"`
	Markdown bool `yaml:"markdown"`
	PDF      bool `yaml:"pdf"`
}

func (f Formats) Any() bool {
	return f.HTML || f.Markdown || f.PDF
}

// AttachmentDownloader fetches every attachment of a page into destDir.
type AttachmentDownloader interface {
	Download(ctx context.Context, pageID string, destDir string) (confluence.DownloadResult, error)
}

// Launcher starts the PDF session.  It's called at most once per export, and only when a page
// actually needs a PDF.
type Launcher func(ctx context.Context) (render.Session, error)

// Exporter runs export jobs.  Pages are handled one after another: attachment downloads hit the
// Confluence API and the PDF session renders one tab at a time.
type Exporter struct {
	OutputRoot string
	Formats    Formats

	// Attachments may be nil, in which case no attachments are fetched.
	Attachments AttachmentDownloader
	// LaunchPDF is required when Formats.PDF is set.
	LaunchPDF  Launcher
	Translator *macro.Translator

	// SpaceLabels maps space IDs to the names shown in rendered pages.
	SpaceLabels map[string]string

	Logger       *log.Logger
	ShowProgress bool
	// Prune removes files below pages/ that this job didn't write.
	Prune bool
}

// Result tallies one export job.
type Result struct {
	PagesProcessed        int
	HTMLWritten           int
	MarkdownWritten       int
	PDFWritten            int
	AttachmentsDownloaded int
	AttachmentsFailed     int
	Pruned                int

	Stats hierarchy.Stats
}

func (e *Exporter) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return e.Logger
}

func (e *Exporter) translator() *macro.Translator {
	if e.Translator == nil {
		e.Translator = macro.New(macro.WithLogger(e.logger()))
	}
	return e.Translator
}

func (e *Exporter) validate() error {
	if !e.Formats.Any() {
		return ErrNoFormat
	}
	err := validation.ValidateStruct(e,
		validation.Field(&e.OutputRoot, validation.Required),
		validation.Field(&e.LaunchPDF, validation.By(func(any) error {
			if e.Formats.PDF && e.LaunchPDF == nil {
				return errors.New("is required for PDF output")
			}
			return nil
		})),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	return nil
}

// Export writes pages below OutputRoot.  Configuration problems are reported before anything is
// written.  After that, problems with a single page are logged and show up only in the counts;
// the returned error is reserved for the job as a whole failing.
func (e *Exporter) Export(ctx context.Context, pages []confluence.Page) (Result, error) {
	if err := e.validate(); err != nil {
		return Result{}, err
	}

	root, err := filepath.Abs(e.OutputRoot)
	if err != nil {
		return Result{}, fmt.Errorf("localdump: couldn't resolve %s: %w", e.OutputRoot, err)
	}
	if err := ensureRoot(root); err != nil {
		return Result{}, err
	}
	if err := writeJSON(root, filepath.Join(MetaDir, SnapshotFile), pages); err != nil {
		return Result{}, err
	}

	forest := hierarchy.Build(pages)
	for _, id := range forest.Orphans {
		e.logger().Printf("Page %s: parent not exported, placing it at the top level\n", id)
	}
	for _, id := range forest.CycleBreaks {
		e.logger().Printf("Page %s: parent chain loops, placing it at the top level\n", id)
	}

	j := &job{
		Exporter: e,
		ctx:      ctx,
		root:     root,
		index:    hierarchy.NewIndex(pages, forest.CycleBreaks...),
		keep:     newProduced(),
	}
	j.result.Stats = hierarchy.ComputeStats(forest)
	defer j.cleanup()

	var (
		progress *mpb.Progress
		bar      *mpb.Bar
	)
	if e.ShowProgress {
		progress = mpb.NewWithContext(ctx, mpb.WithWidth(64))
		bar = progress.AddBar(int64(forest.TotalPages),
			mpb.PrependDecorators(
				decor.Name("pages:", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d/%d) "),
				decor.NewPercentage("%d"),
			),
		)
	}

	walkErr := walk(forest, func(node *hierarchy.Node) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, _ := j.index.Page(node.ID)
		j.exportPage(page)
		if bar != nil {
			bar.Increment()
		}
		return nil
	})
	if progress != nil {
		if walkErr != nil {
			bar.Abort(false)
		}
		progress.Wait()
	}
	if walkErr != nil {
		return j.result, fmt.Errorf("localdump: export interrupted: %w", walkErr)
	}

	if e.Prune {
		removed, err := e.prune(root, j.keep)
		j.result.Pruned = removed
		if err != nil {
			return j.result, fmt.Errorf("localdump: failed to prune: %w", err)
		}
	}
	return j.result, nil
}

// walk visits every node of the forest, parents before children.
func walk(forest *hierarchy.Forest, visit func(*hierarchy.Node) error) error {
	stack := make([]*hierarchy.Node, 0, len(forest.Roots))
	for i := len(forest.Roots) - 1; i >= 0; i-- {
		stack = append(stack, forest.Roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := visit(n); err != nil {
			return err
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return nil
}

// job is the state of one Export call.
type job struct {
	*Exporter

	ctx    context.Context
	root   string
	index  *hierarchy.Index
	keep   *produced
	result Result

	session   render.Session
	launchErr error
	tempDir   string
}

// pdfSession starts the PDF session on first use.  A failed launch isn't retried for later pages.
func (j *job) pdfSession() (render.Session, error) {
	if j.session != nil || j.launchErr != nil {
		return j.session, j.launchErr
	}
	j.session, j.launchErr = j.LaunchPDF(j.ctx)
	if j.launchErr != nil {
		j.launchErr = fmt.Errorf("localdump: couldn't start PDF session: %w", j.launchErr)
		j.session = nil
	}
	return j.session, j.launchErr
}

// scratch returns a temporary directory for print HTML, created on first use.
func (j *job) scratch() (string, error) {
	if j.tempDir != "" {
		return j.tempDir, nil
	}
	dir, err := os.MkdirTemp("", "confluence-export-*")
	if err != nil {
		return "", fmt.Errorf("localdump: couldn't create temp dir: %w", err)
	}
	j.tempDir = dir
	return dir, nil
}

// cleanup releases the PDF session and temp files.  It runs once, however Export returns.
func (j *job) cleanup() {
	if j.session != nil {
		if err := j.session.Close(); err != nil {
			j.logger().Printf("Closing PDF session: %v\n", err)
		}
		j.session = nil
	}
	if j.tempDir != "" {
		if err := os.RemoveAll(j.tempDir); err != nil {
			j.logger().Printf("Removing %s: %v\n", j.tempDir, err)
		}
	}
}
