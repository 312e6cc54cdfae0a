package macro

import (
	"html"
	"regexp"
	"strings"
)

const (
	macroClose = "</ac:structured-macro>"
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"

	richBodyOpen   = "<ac:rich-text-body>"
	richBodyClose  = "</ac:rich-text-body>"
	plainBodyOpen  = "<ac:plain-text-body>"
	plainBodyClose = "</ac:plain-text-body>"
)

var (
	macroOpenRe = regexp.MustCompile(`<ac:structured-macro\b[^>]*?(/?)>`)
	macroNameRe = regexp.MustCompile(`\bac:name="([^"]*)"`)
	paramRe     = regexp.MustCompile(`(?s)<ac:parameter\b[^>]*?\bac:name="([^"]*)"[^>]*>(.*?)</ac:parameter>`)
)

// Macro is one <ac:structured-macro> element with its own parameters and body.
type Macro struct {
	Name   string
	Params map[string]string

	// RichBody holds the contents of <ac:rich-text-body>, already rewritten by the current pass.
	RichBody string
	// PlainBody holds the unescaped contents of <ac:plain-text-body>.
	PlainBody string
	HasPlain  bool

	// prefix is the markup between the opening tag and the first body or nested macro; only this
	// part is searched for parameters.
	prefix string
}

// Param returns the named parameter, or fallback when it's missing or blank.
func (m *Macro) Param(name, fallback string) string {
	if v := strings.TrimSpace(m.Params[name]); v != "" {
		return v
	}
	return fallback
}

// span is the extent of one macro element in a string.
type span struct {
	name       string
	start      int
	openEnd    int
	closeStart int
	end        int
}

// topLevel returns the outermost macro elements in s, in document order.  CDATA sections are
// skipped so macro markup quoted inside a code body isn't mistaken for the real thing.  Unclosed
// elements and stray close tags are left alone.
func topLevel(s string) []span {
	var (
		spans []span
		stack []span
		pos   int
	)
	for pos < len(s) {
		open := macroOpenRe.FindStringSubmatchIndex(s[pos:])
		closeAt := strings.Index(s[pos:], macroClose)
		cdataAt := strings.Index(s[pos:], cdataOpen)

		next := earliest(firstIndex(open), closeAt, cdataAt)
		switch {
		case next < 0:
			return spans
		case next == cdataAt:
			end := strings.Index(s[pos+cdataAt:], cdataClose)
			if end < 0 {
				return spans
			}
			pos += cdataAt + end + len(cdataClose)
		case open != nil && next == open[0]:
			start, openEnd := pos+open[0], pos+open[1]
			sp := span{name: macroName(s[start:openEnd]), start: start, openEnd: openEnd}
			pos = openEnd
			if open[3] > open[2] {
				// self-closing
				sp.closeStart, sp.end = openEnd, openEnd
				if len(stack) == 0 {
					spans = append(spans, sp)
				}
				continue
			}
			stack = append(stack, sp)
		default:
			closeStart := pos + closeAt
			pos = closeStart + len(macroClose)
			if len(stack) == 0 {
				continue
			}
			sp := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				sp.closeStart, sp.end = closeStart, pos
				spans = append(spans, sp)
			}
		}
	}
	return spans
}

func firstIndex(match []int) int {
	if match == nil {
		return -1
	}
	return match[0]
}

// earliest returns the smallest non-negative argument, or -1.
func earliest(indexes ...int) int {
	best := -1
	for _, i := range indexes {
		if i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}

func macroName(openTag string) string {
	m := macroNameRe.FindStringSubmatch(openTag)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// parseMacro splits a macro's inner markup into parameters and body.  inner has already had its
// nested macros rewritten.
func parseMacro(name, inner string) *Macro {
	m := &Macro{Name: name, Params: map[string]string{}}

	prefixEnd := earliest(
		strings.Index(inner, richBodyOpen),
		strings.Index(inner, plainBodyOpen),
		firstIndex(macroOpenRe.FindStringIndex(inner)),
	)
	if prefixEnd < 0 {
		prefixEnd = len(inner)
	}
	m.prefix = inner[:prefixEnd]
	for _, p := range paramRe.FindAllStringSubmatch(m.prefix, -1) {
		key := strings.ToLower(p[1])
		if _, ok := m.Params[key]; ok {
			continue
		}
		m.Params[key] = html.UnescapeString(strings.TrimSpace(p[2]))
	}

	if open := strings.Index(inner, richBodyOpen); open >= 0 {
		body := inner[open+len(richBodyOpen):]
		if end := strings.LastIndex(body, richBodyClose); end >= 0 {
			body = body[:end]
		}
		m.RichBody = body
	}
	if open := strings.Index(inner, plainBodyOpen); open >= 0 {
		m.HasPlain = true
		m.PlainBody = plainText(inner[open+len(plainBodyOpen):])
	}
	return m
}

// plainText extracts the text of a plain-text body.  Confluence splits CDATA sections that
// contain "]]>" into several sections; those are stitched back together here.
func plainText(raw string) string {
	if end := strings.LastIndex(raw, plainBodyClose); end >= 0 {
		raw = raw[:end]
	}
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, cdataOpen) {
		return html.UnescapeString(raw)
	}
	trimmed = strings.TrimPrefix(trimmed, cdataOpen)
	trimmed = strings.TrimSuffix(trimmed, cdataClose)
	return strings.ReplaceAll(trimmed, "]]]]><![CDATA[>", "]]>")
}

// rewrite replaces every macro in s whose name is in names with the output of fn.  Nested macros
// are handled first, so fn always sees a body whose inner macros have been rewritten.
func (t *Translator) rewrite(s string, names map[string]bool, fn func(*Macro) (string, error)) string {
	spans := topLevel(s)
	if len(spans) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(s[last:sp.start])
		inner := t.rewrite(s[sp.openEnd:sp.closeStart], names, fn)
		if names[sp.name] {
			b.WriteString(t.apply(parseMacro(sp.name, inner), fn))
		} else {
			b.WriteString(s[sp.start:sp.openEnd])
			b.WriteString(inner)
			b.WriteString(s[sp.closeStart:sp.end])
		}
		last = sp.end
	}
	b.WriteString(s[last:])
	return b.String()
}

// apply runs fn, degrading the macro to escaped text if fn fails or panics.
func (t *Translator) apply(m *Macro, fn func(*Macro) (string, error)) (out string) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Printf("macro: %s macro panicked, keeping it as text: %v", m.Name, r)
			out = degrade(m)
		}
	}()

	out, err := fn(m)
	if err != nil {
		t.logger.Printf("macro: couldn't translate %s macro, keeping it as text: %v", m.Name, err)
		return degrade(m)
	}
	return out
}

func degrade(m *Macro) string {
	text := m.PlainBody
	if !m.HasPlain {
		text = m.RichBody
	}
	return `<pre class="macro-error">` + html.EscapeString(text) + `</pre>`
}

func names(list ...string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, n := range list {
		set[n] = true
	}
	return set
}
