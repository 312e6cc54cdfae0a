package macro

import (
	"errors"
	"html"
	"strings"
)

// TOCMarker replaces table of contents macros.
const TOCMarker = "<!-- toc removed -->"

var viewFileNames = []string{"view-file", "viewpdf", "viewdoc", "viewxls", "viewppt"}

// viewFile renders an attachment reference.  Printed documents get plain text, since the PDF
// outlives the directory a link would point into.
func (t *Translator) viewFile(m *Macro, target Target) (string, error) {
	name := firstGroup(riAttachmentRe, m.prefix)
	if name == "" {
		name = m.Param("name", "")
	}
	if name == "" {
		return "", errors.New("macro: view-file macro names no attachment")
	}
	label := html.EscapeString(name)

	if target.Mode == Print {
		return `<span class="attachment-ref">📎 ` + label + ` <em>(attachments/` + label + `)</em></span>`, nil
	}
	return `<a class="attachment-link" href="` + html.EscapeString(AttachmentHref(name)) + `">📎 ` + label + `</a>`, nil
}

// toc drops table of contents macros.  A toc-zone keeps the content it wraps.
func (t *Translator) toc(m *Macro) (string, error) {
	if m.Name == "toc-zone" {
		return TOCMarker + strings.TrimSpace(m.RichBody), nil
	}
	return TOCMarker, nil
}
