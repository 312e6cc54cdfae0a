// Package render wraps translated page bodies into standalone HTML documents and prints them to
// PDF.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/toothbrush/confluence-export/macro"
)

//go:embed templates/*
var templates embed.FS

//go:embed styles/*
var styles embed.FS

// Document is one page ready to be rendered.  Body is already-translated HTML.
type Document struct {
	ID          string
	Title       string
	SpaceLabel  string
	ParentLabel string
	Status      string
	CreatedAt   string
	Ancestry    []string
	Body        string
}

type view struct {
	Document
	Body template.HTML
	CSS  template.CSS
}

var (
	loadOnce   sync.Once
	previewTpl *template.Template
	printTpl   *template.Template
	previewCSS template.CSS
	printCSS   template.CSS
	loadErr    error
)

func load() error {
	loadOnce.Do(func() {
		previewTpl, loadErr = template.ParseFS(templates, "templates/preview.html")
		if loadErr != nil {
			loadErr = fmt.Errorf("render: parse preview template: %w", loadErr)
			return
		}
		printTpl, loadErr = template.ParseFS(templates, "templates/print.html")
		if loadErr != nil {
			loadErr = fmt.Errorf("render: parse print template: %w", loadErr)
			return
		}

		base, err := styles.ReadFile("styles/base.css")
		if err != nil {
			loadErr = fmt.Errorf("render: read base css: %w", err)
			return
		}
		printStyle, err := styles.ReadFile("styles/print.css")
		if err != nil {
			loadErr = fmt.Errorf("render: read print css: %w", err)
			return
		}
		var highlight strings.Builder
		if err := macro.WriteCSS(&highlight); err != nil {
			loadErr = err
			return
		}

		previewCSS = template.CSS(string(base) + highlight.String())
		printCSS = template.CSS(string(base) + string(printStyle) + highlight.String())
	})
	return loadErr
}

// Preview renders the on-disk variant, which links attachments relative to the page directory.
func Preview(doc Document) (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	return execute(previewTpl, doc, previewCSS)
}

// Print renders the variant loaded by the PDF session: fixed A4 page, inlined print styling.
// Its body should have been translated for macro.Print.
func Print(doc Document) (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	return execute(printTpl, doc, printCSS)
}

func execute(tpl *template.Template, doc Document, css template.CSS) (string, error) {
	var buf bytes.Buffer
	v := view{Document: doc, Body: template.HTML(doc.Body), CSS: css}
	if err := tpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render: execute %s: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}
