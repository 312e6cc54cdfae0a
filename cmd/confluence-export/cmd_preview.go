/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-export/confluence"
	"github.com/toothbrush/confluence-export/hierarchy"
	"github.com/toothbrush/confluence-export/localdump"
)

var previewUsage = strings.TrimSpace(`
Render a single page to stdout, as HTML (the default) or Markdown.  Handy for checking how a
page's macros come out before running a whole export.
`)

var previewCmd = &cobra.Command{
	Use:   "preview PAGE_ID",
	Short: "Render one page to stdout",
	Long:  previewUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if PreviewFormat != "html" && PreviewFormat != "markdown" {
			return fmt.Errorf("cmd: unknown --format %q, want html or markdown", PreviewFormat)
		}

		page, labels, err := previewPage(cmd, args[0])
		if err != nil {
			return err
		}

		exporter := &localdump.Exporter{Logger: debugLogger()}
		preview, err := exporter.Preview(page, labels)
		if err != nil {
			return err
		}

		if PreviewFormat == "markdown" {
			fmt.Print(preview.Markdown)
		} else {
			fmt.Print(preview.HTML)
		}
		return nil
	},
}

var PreviewFormat string

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&PreviewFormat, "format", "html", "output format: html or markdown")
	previewCmd.Flags().StringVar(&FromSnapshot, "from-snapshot", "", "take the page from an earlier export in this directory")
	previewCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
}

// previewPage finds the page either in a snapshot, where its ancestors are known too, or on the
// server.
func previewPage(cmd *cobra.Command, id string) (confluence.Page, localdump.Labels, error) {
	if FromSnapshot != "" {
		snapshot, err := homedir.Expand(FromSnapshot)
		if err != nil {
			return confluence.Page{}, localdump.Labels{}, fmt.Errorf("cmd: couldn't expand homedir: %w", err)
		}
		pages, err := localdump.LoadSnapshot(snapshot)
		if err != nil {
			return confluence.Page{}, localdump.Labels{}, err
		}

		index := hierarchy.NewIndex(pages)
		page, ok := index.Page(id)
		if !ok {
			return confluence.Page{}, localdump.Labels{}, fmt.Errorf("cmd: page %s is not in %s", id, snapshot)
		}
		var labels localdump.Labels
		if titles := index.Titles(id); len(titles) > 0 {
			labels.Ancestry = titles
			labels.Parent = titles[len(titles)-1]
		}
		return page, labels, nil
	}

	n, err := strconv.Atoi(id)
	if err != nil {
		return confluence.Page{}, localdump.Labels{}, fmt.Errorf("cmd: page id %q is not a number", id)
	}

	api, stop, err := apiClient(WithVCR)
	if err != nil {
		return confluence.Page{}, localdump.Labels{}, err
	}
	defer stop()

	page, err := api.GetPageByID(cmd.Context(), confluence.GetPageByIDQuery{ID: n, BodyFormat: "storage"})
	if err != nil {
		return confluence.Page{}, localdump.Labels{}, fmt.Errorf("cmd: couldn't fetch page %s: %w", id, err)
	}

	labels := localdump.Labels{}
	if !page.IsRoot() {
		labels.Parent = page.ParentID
	}
	return *page, labels, nil
}
