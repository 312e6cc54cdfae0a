/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-export/confluence"
	"github.com/toothbrush/confluence-export/internal/termfmt"
	"github.com/toothbrush/confluence-export/localdump"
	"github.com/toothbrush/confluence-export/render"
)

var exportUsage = strings.TrimSpace(`
Export one or more spaces into --out.  Choose any combination of --html, --markdown and --pdf.

Every run saves the page listing to _meta/pages.json; pass that folder to --from-snapshot to
re-render without talking to Confluence (attachments are left as they are).
`)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export spaces to HTML, Markdown and PDF",
	Long:  exportUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()
		return runExport(ctx)
	},
}

var (
	Spaces          []string
	OutputDir       string
	FromSnapshot    string
	Formats         localdump.Formats
	Prune           bool
	ShowProgress    bool
	WithVCR         bool
	IncludeArchived bool
	IncludePersonal bool
	Workers         int

	BrowserBin string
	NoSandbox  bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringSliceVar(&Spaces, "space", []string{}, "space key to export, may be repeated")
	exportCmd.Flags().StringVar(&OutputDir, "out", "", "directory to export into")
	exportCmd.Flags().StringVar(&FromSnapshot, "from-snapshot", "", "re-export the pages saved by an earlier run in this directory")
	exportCmd.Flags().BoolVar(&Formats.HTML, "html", false, "write page.html previews")
	exportCmd.Flags().BoolVar(&Formats.Markdown, "markdown", false, "write page.md files")
	exportCmd.Flags().BoolVar(&Formats.PDF, "pdf", false, "write page.pdf files (needs Chromium)")
	exportCmd.Flags().BoolVar(&Prune, "prune", false, "delete files in the export that no longer correspond to a page")
	exportCmd.Flags().BoolVar(&ShowProgress, "progress", false, "show a progress bar")
	exportCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
	exportCmd.Flags().BoolVar(&IncludeArchived, "include-archived", false, "export archived pages too")
	exportCmd.Flags().IntVar(&Workers, "workers", 4, "spaces listed concurrently")
	exportCmd.Flags().StringVar(&BrowserBin, "browser-bin", "", "Chromium binary for PDF output (default: $ROD_BROWSER_BIN or a downloaded one)")
	exportCmd.Flags().BoolVar(&NoSandbox, "no-sandbox", false, "run Chromium without its sandbox")
}

func runExport(ctx context.Context) error {
	if OutputDir == "" {
		return fmt.Errorf("cmd: no output directory set, use --out or set it in your config file")
	}
	out, err := homedir.Expand(OutputDir)
	if err != nil {
		return fmt.Errorf("cmd: couldn't expand homedir: %w", err)
	}

	exporter := &localdump.Exporter{
		OutputRoot:   out,
		Formats:      Formats,
		Logger:       debugLogger(),
		ShowProgress: ShowProgress,
		Prune:        Prune,
		LaunchPDF: func(ctx context.Context) (render.Session, error) {
			debugLog("Launching browser for PDF output...\n")
			return render.LaunchBrowser(ctx, render.BrowserOptions{
				Bin:         BrowserBin,
				NoSandbox:   NoSandbox,
				PageTimeout: time.Minute,
			})
		},
	}

	var pages []confluence.Page
	if FromSnapshot != "" {
		snapshot, err := homedir.Expand(FromSnapshot)
		if err != nil {
			return fmt.Errorf("cmd: couldn't expand homedir: %w", err)
		}
		pages, err = localdump.LoadSnapshot(snapshot)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %d pages from %s.\n", len(pages), snapshot)
	} else {
		api, stop, err := apiClient(WithVCR)
		if err != nil {
			return err
		}
		defer stop()

		spaces, labels, err := resolveSpaces(ctx, api, Spaces)
		if err != nil {
			return err
		}
		exporter.SpaceLabels = labels
		exporter.Attachments = &confluence.AttachmentDownloader{API: api, Logger: debugLogger()}

		pages, err = api.ListPagesInSpaces(ctx, spaces, IncludeArchived, Workers)
		if err != nil {
			return fmt.Errorf("cmd: couldn't list pages: %w", err)
		}
		fmt.Printf("Found %d pages in %s.\n", len(pages), strings.Join(Spaces, ", "))
	}

	result, err := exporter.Export(ctx, pages)
	if err != nil {
		return fmt.Errorf("cmd: export failed: %w", err)
	}

	printResult(result, out)
	return nil
}

func printResult(r localdump.Result, out string) {
	fmt.Printf("\n%s %s\n", termfmt.Fg(termfmt.Green).Bold().V("Exported to"), out)
	fmt.Printf("  pages:       %d\n", r.PagesProcessed)
	if Formats.HTML {
		fmt.Printf("  html:        %d\n", r.HTMLWritten)
	}
	if Formats.Markdown {
		fmt.Printf("  markdown:    %d\n", r.MarkdownWritten)
	}
	if Formats.PDF {
		fmt.Printf("  pdf:         %d\n", r.PDFWritten)
	}
	fmt.Printf("  attachments: %d", r.AttachmentsDownloaded)
	if r.AttachmentsFailed > 0 {
		fmt.Printf(" (%s)", termfmt.Fg(termfmt.Red).V(fmt.Sprintf("%d failed", r.AttachmentsFailed)))
	}
	fmt.Println()
	if Prune {
		fmt.Printf("  pruned:      %d\n", r.Pruned)
	}
	printStats(r.Stats)
}
