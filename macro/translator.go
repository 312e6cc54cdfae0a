// Package macro translates Confluence storage format bodies, with their <ac:structured-macro>
// elements, into plain HTML for browsing and printing, and into Markdown.
package macro

import (
	"fmt"
	"io"
	"log"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// Mode selects what the HTML is for.
type Mode int

const (
	// Preview output is browsed next to its attachments folder.
	Preview Mode = iota
	// Print output is loaded by a headless browser from a temporary file, so attachments are
	// referenced by absolute file:// URL.
	Print

	// modeMarkdown is the HTML we hand to the Markdown converter.
	modeMarkdown
)

// Target describes where translated HTML will end up.
type Target struct {
	Mode Mode
	// AttachmentDir is the absolute path of the page's attachments folder.  Only Print uses it.
	AttachmentDir string
}

// Translator converts storage format bodies.  It's safe to reuse across pages.
type Translator struct {
	logger    *log.Logger
	converter *md.Converter
}

type Option func(*Translator)

// WithLogger sets the logger that per-macro failures are reported to.
func WithLogger(logger *log.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func New(opts ...Option) *Translator {
	t := &Translator{logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(t)
	}
	t.converter = newConverter()
	return t
}

// ToHTML translates body for target.  A macro that can't be translated ends up as escaped text;
// the rest of the body is still translated.
func (t *Translator) ToHTML(body string, target Target) string {
	return t.translate(body, target, nil)
}

// ToMarkdown translates body to GitHub flavoured Markdown.  Code blocks come out as fences holding
// the original code verbatim.
func (t *Translator) ToMarkdown(body string) (string, error) {
	held := newPlaceholders()
	translated := t.translate(body, Target{Mode: modeMarkdown}, held)

	markdown, err := t.converter.ConvertString(translated)
	if err != nil {
		return "", fmt.Errorf("macro: convert to markdown: %w", err)
	}
	return strings.TrimSpace(held.restore(markdown)) + "\n", nil
}

// translate runs the passes in order.  Each pass only ever sees macros that earlier passes left
// alone, so code bodies are gone before anything else looks at the markup.
func (t *Translator) translate(body string, target Target, held *placeholders) string {
	body = t.rewrite(body, names("code", "noformat"), func(m *Macro) (string, error) {
		if held != nil {
			lang := ""
			if m.Name == "code" {
				lang = normalizeLanguage(m.Param("language", ""))
			}
			return "<p>" + held.hold(lang, m.PlainBody) + "</p>", nil
		}
		return t.codeHTML(m)
	})

	body = t.images(body, target)

	body = t.rewrite(body, names("expand"), func(m *Macro) (string, error) {
		return t.expand(m, target)
	})
	body = t.rewrite(body, names(calloutNames...), t.callout)
	body = t.rewrite(body, names(viewFileNames...), func(m *Macro) (string, error) {
		return t.viewFile(m, target)
	})
	body = t.rewrite(body, names("toc", "toc-zone"), t.toc)
	return body
}
