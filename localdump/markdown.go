package localdump

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarkdownHeader is the metadata block at the top of every page.md.  It's kept inside an HTML
// comment so Markdown renderers don't show it.
type MarkdownHeader struct {
	ID     string `yaml:"id"`
	Space  string `yaml:"space"`
	Parent string `yaml:"parent,omitempty"`
	Status string `yaml:"status,omitempty"`
}

// markdownDocument assembles page.md from a title, header and an already-converted body.
func markdownDocument(title string, header MarkdownHeader, body string) (string, error) {
	meta, err := commentYAML(header)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(strings.TrimSpace(title))
	b.WriteString("\n\n<!--\n")
	b.WriteString(meta)
	b.WriteString("\n-->\n\n")
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
	return b.String(), nil
}

// commentYAML renders header as YAML that never contains "--", which would end the surrounding
// HTML comment.  Values containing it are double-quoted with every "-" written as \x2d, so a YAML
// parser still reads back the exact value.
func commentYAML(header MarkdownHeader) (string, error) {
	var node yaml.Node
	if err := node.Encode(header); err != nil {
		return "", fmt.Errorf("localdump: couldn't encode header YAML: %w", err)
	}

	lines := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1].Value
		if strings.Contains(value, "--") {
			lines = append(lines, key+": "+strings.ReplaceAll(strconv.Quote(value), "-", `\x2d`))
			continue
		}
		out, err := yaml.Marshal(map[string]string{key: value})
		if err != nil {
			return "", fmt.Errorf("localdump: couldn't marshal header YAML: %w", err)
		}
		lines = append(lines, strings.TrimRight(string(out), "\n"))
	}
	return strings.Join(lines, "\n"), nil
}
