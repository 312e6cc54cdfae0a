package macro

import (
	"html"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	imageRe        = regexp.MustCompile(`(?s)<ac:image\b([^>]*?)(?:/>|>(.*?)</ac:image>)`)
	imageAltRe     = regexp.MustCompile(`\bac:alt="([^"]*)"`)
	imageWidthRe   = regexp.MustCompile(`\bac:width="(\d+)"`)
	riURLRe        = regexp.MustCompile(`<ri:url\b[^>]*?\bri:value="([^"]*)"`)
	riAttachmentRe = regexp.MustCompile(`<ri:attachment\b[^>]*?\bri:filename="([^"]*)"`)
)

// images rewrites <ac:image> elements.  External images keep their URL; attachments point into
// the page's attachments folder, or into AttachmentDir when printing.
func (t *Translator) images(body string, target Target) string {
	return imageRe.ReplaceAllStringFunc(body, func(tag string) string {
		m := imageRe.FindStringSubmatch(tag)
		attrs, inner := m[1], m[2]
		alt := firstGroup(imageAltRe, attrs)

		if src := firstGroup(riURLRe, inner); src != "" {
			return imgTag(src, alt, attrs)
		}

		name := firstGroup(riAttachmentRe, inner)
		if name == "" {
			t.logger.Printf("macro: dropping image without a source: %s", tag)
			return ""
		}
		switch target.Mode {
		case modeMarkdown:
			return "<em>Attachment image: " + html.EscapeString(name) + "</em>"
		case Print:
			return imgTag(fileURL(target.AttachmentDir, name), alt, attrs)
		default:
			return imgTag(AttachmentHref(name), alt, attrs)
		}
	})
}

func imgTag(src, alt, attrs string) string {
	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(html.EscapeString(src))
	b.WriteString(`" alt="`)
	b.WriteString(html.EscapeString(alt))
	b.WriteString(`"`)
	if width := firstGroup(imageWidthRe, attrs); width != "" {
		b.WriteString(` width="` + width + `"`)
	}
	b.WriteString(` />`)
	return b.String()
}

// firstGroup returns the unescaped first capture group of re in s.
func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return html.UnescapeString(m[1])
}

// AttachmentHref is the relative link from a page's HTML file to one of its attachments.
func AttachmentHref(name string) string {
	return "./attachments/" + url.PathEscape(name)
}

func fileURL(dir, name string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(dir, name))}
	return u.String()
}
