package confluence

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DownloadResult tallies one page's attachment transfer.
type DownloadResult struct {
	Downloaded int
	Failed     int
}

// AttachmentDownloader saves every attachment of a page into a local directory, keeping the
// attachment's own filename so that rewritten ./attachments/<name> references resolve.
type AttachmentDownloader struct {
	API     *API
	Logger  *log.Logger
	Timeout time.Duration
}

// Download lists the page's attachments and fetches them one at a time.  A listing failure is
// returned as an error; a failed individual file is only counted.
func (d *AttachmentDownloader) Download(ctx context.Context, pageID string, destDir string) (DownloadResult, error) {
	var result DownloadResult

	attachments, err := d.API.ListAttachments(ctx, pageID)
	if err != nil {
		return result, err
	}
	if len(attachments) == 0 {
		return result, nil
	}

	if err := os.MkdirAll(destDir, 0750); err != nil {
		return result, fmt.Errorf("confluence: couldn't create directory %s: %w", destDir, err)
	}

	for _, attachment := range attachments {
		if err := d.downloadOne(ctx, attachment, destDir); err != nil {
			d.logf("Attachment %q of page %s failed: %v\n", attachment.Title, pageID, err)
			result.Failed++
			continue
		}
		result.Downloaded++
	}

	return result, nil
}

func (d *AttachmentDownloader) downloadOne(ctx context.Context, attachment Attachment, destDir string) error {
	name := AttachmentFilename(attachment.Title)
	if name == "" {
		return fmt.Errorf("confluence: attachment %s has no usable filename", attachment.ID)
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dest := filepath.Join(destDir, name)
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("confluence: couldn't create file %s: %w", dest, err)
	}

	if _, err := d.API.DownloadTo(ctx, attachment, f); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("confluence: couldn't close file %s: %w", dest, err)
	}
	return nil
}

func (d *AttachmentDownloader) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}

// AttachmentFilename strips any directory components from an attachment title, so a hostile
// title can't escape the attachments folder.
func AttachmentFilename(title string) string {
	name := filepath.Base(strings.ReplaceAll(title, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
