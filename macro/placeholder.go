package macro

import (
	"html"
	"strings"

	"github.com/google/uuid"
)

// placeholders keeps code blocks away from the HTML→Markdown converter.  Each block is swapped
// for a random alphanumeric token that the converter passes through untouched, then swapped back
// once conversion is done.
type placeholders struct {
	blocks map[string]heldCode
	order  []string
}

type heldCode struct {
	lang string
	code string
}

func newPlaceholders() *placeholders {
	return &placeholders{blocks: map[string]heldCode{}}
}

// hold stores a code body and returns its token.
func (p *placeholders) hold(lang, code string) string {
	token := "mdcodeblock" + strings.ReplaceAll(uuid.NewString(), "-", "")
	p.blocks[token] = heldCode{lang: lang, code: code}
	p.order = append(p.order, token)
	return token
}

// restore puts the stored blocks back into markdown.
//
// A token alone on a line inside a list item or blockquote becomes a fence carrying the same
// indentation and quote markers on every line.  A token in a table row becomes inline code, since
// a fence can't live in a table cell.
func (p *placeholders) restore(markdown string) string {
	if len(p.order) == 0 {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "mdcodeblock") {
			continue
		}

		prefix, rest := splitContainer(line)
		if strings.HasPrefix(rest, "|") {
			lines[i] = p.inline(line)
			continue
		}
		held, ok := p.blocks[strings.TrimSpace(rest)]
		if !ok || prefix == "" {
			continue
		}

		cont := continuation(prefix)
		block := strings.Split(codeFence(held.lang, held.code), "\n")
		for j, l := range block {
			switch {
			case j == 0:
				block[j] = prefix + l
			case l == "":
				block[j] = strings.TrimRight(cont, " ")
			default:
				block[j] = cont + l
			}
		}
		lines[i] = strings.Join(block, "\n")
	}
	markdown = strings.Join(lines, "\n")

	pairs := make([]string, 0, 2*len(p.order))
	for _, token := range p.order {
		held := p.blocks[token]
		pairs = append(pairs, token, codeFence(held.lang, held.code))
	}
	return strings.NewReplacer(pairs...).Replace(markdown)
}

// inline replaces every token on a table row with a single-line <code> span.
func (p *placeholders) inline(line string) string {
	pairs := make([]string, 0, 2*len(p.order))
	for _, token := range p.order {
		pairs = append(pairs, token, inlineCode(p.blocks[token].code))
	}
	return strings.NewReplacer(pairs...).Replace(line)
}

// Characters that mean something to a Markdown table or inline parser, even between HTML tags.
var inlineEscaper = strings.NewReplacer(
	"|", "&#124;",
	"\\", "&#92;",
	"`", "&#96;",
	"*", "&#42;",
	"_", "&#95;",
	"[", "&#91;",
	"]", "&#93;",
	"~", "&#126;",
)

func inlineCode(code string) string {
	lines := strings.Split(normalizeCode(code), "\n")
	for i, l := range lines {
		trimmed := strings.TrimLeft(l, " ")
		indent := strings.Repeat("&nbsp;", len(l)-len(trimmed))
		lines[i] = indent + inlineEscaper.Replace(html.EscapeString(trimmed))
	}
	return "<code>" + strings.Join(lines, "<br>") + "</code>"
}

// splitContainer splits a Markdown line into its container markers (indentation, "> " quote
// markers and list markers such as "- " or "1. ") and the rest.
func splitContainer(line string) (prefix, rest string) {
	i := 0
	for i < len(line) {
		switch {
		case line[i] == ' ':
			i++
		case line[i] == '>':
			i++
			if i < len(line) && line[i] == ' ' {
				i++
			}
		default:
			n := listMarker(line[i:])
			if n == 0 {
				return line[:i], line[i:]
			}
			i += n
		}
	}
	return line[:i], line[i:]
}

// listMarker returns the width of a list marker and its following space at the start of s, or 0.
func listMarker(s string) int {
	if len(s) >= 2 && strings.ContainsRune("-*+", rune(s[0])) && s[1] == ' ' {
		return 2
	}
	digits := 0
	for digits < len(s) && digits < 9 && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits+1 < len(s) && (s[digits] == '.' || s[digits] == ')') && s[digits+1] == ' ' {
		return digits + 2
	}
	return 0
}

// continuation is the prefix for the lines after the first: list markers turn into spaces of the
// same width, quote markers stay.
func continuation(prefix string) string {
	var b strings.Builder
	for i := 0; i < len(prefix); {
		switch {
		case prefix[i] == ' ' || prefix[i] == '>':
			b.WriteByte(prefix[i])
			i++
		default:
			n := listMarker(prefix[i:])
			if n == 0 {
				n = 1
			}
			b.WriteString(strings.Repeat(" ", n))
			i += n
		}
	}
	return b.String()
}
