package macro

import (
	"html"
	"strings"
)

const defaultExpandTitle = "Click here to expand..."

var calloutNames = []string{"info", "tip", "note", "warning", "panel"}

// expand turns an expand macro into a <details> element.  It stays closed except in print
// output, where a closed element would hide its body from the PDF.
func (t *Translator) expand(m *Macro, target Target) (string, error) {
	title := html.EscapeString(m.Param("title", defaultExpandTitle))

	var b strings.Builder
	if target.Mode == Print {
		b.WriteString(`<details class="expand" open>`)
	} else {
		b.WriteString(`<details class="expand">`)
	}
	b.WriteString("<summary>" + title + "</summary>")
	b.WriteString(`<div class="expand-body">` + m.RichBody + "</div>")
	b.WriteString("</details>")
	return b.String(), nil
}

// callout wraps info, tip, note, warning and panel bodies.  Only the CSS class differs between
// them.
func (t *Translator) callout(m *Macro) (string, error) {
	var b strings.Builder
	b.WriteString(`<div class="callout callout-` + m.Name + `">`)
	if title := m.Param("title", ""); title != "" {
		b.WriteString(`<p class="callout-title"><strong>` + html.EscapeString(title) + "</strong></p>")
	}
	b.WriteString(`<div class="callout-body">` + m.RichBody + "</div>")
	b.WriteString("</div>")
	return b.String(), nil
}
