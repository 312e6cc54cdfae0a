package macro

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightStyle is the chroma style whose CSS classes the highlighted markup uses.
const HighlightStyle = "github"

var languageAliases = map[string]string{
	"js":     "javascript",
	"jsx":    "javascript",
	"ts":     "typescript",
	"tsx":    "typescript",
	"py":     "python",
	"py3":    "python",
	"rb":     "ruby",
	"c#":     "csharp",
	"cs":     "csharp",
	"c++":    "cpp",
	"sh":     "bash",
	"shell":  "bash",
	"zsh":    "bash",
	"yml":    "yaml",
	"golang": "go",
	"kt":     "kotlin",
	"ps1":    "powershell",
	"md":     "markdown",
	"xhtml":  "html",
	"none":   "",
	"text":   "",
}

// normalizeLanguage maps Confluence's language names onto chroma's.
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if alias, ok := languageAliases[lang]; ok {
		return alias
	}
	return lang
}

var formatter = chromahtml.New(chromahtml.WithClasses(true), chromahtml.PreventSurroundingPre(true))

// codeHTML renders a code or noformat macro as a highlighted <pre><code> block.  Highlighting
// failures fall back to escaped text.
func (t *Translator) codeHTML(m *Macro) (string, error) {
	requested := m.Param("language", "")
	lang := normalizeLanguage(requested)
	if m.Name == "noformat" || (requested != "" && lang == "") {
		return preCode("", html.EscapeString(m.PlainBody)), nil
	}

	name, highlighted, err := highlight(lang, m.PlainBody)
	if err != nil {
		t.logger.Printf("macro: highlighting %q failed, using plain text: %v", lang, err)
		return preCode(lang, html.EscapeString(m.PlainBody)), nil
	}
	return preCode(name, highlighted), nil
}

func preCode(lang, inner string) string {
	if lang == "" {
		return "<pre><code>" + inner + "</code></pre>"
	}
	return `<pre><code class="language-` + html.EscapeString(lang) + `">` + inner + "</code></pre>"
}

// highlight picks a lexer for lang, guessing from the code when lang is unknown, and returns the
// language name used along with the highlighted markup.
func highlight(lang, code string) (name, out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("macro: highlighter panicked: %v", r)
		}
	}()

	name = lang
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
		name = lexerName(lexer)
	}
	if lexer == nil {
		lexer = lexers.Fallback
		name = lang
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(HighlightStyle)
	if style == nil {
		return "", "", errors.New("macro: missing highlight style")
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", "", fmt.Errorf("macro: tokenise: %w", err)
	}
	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return "", "", fmt.Errorf("macro: format: %w", err)
	}
	return name, b.String(), nil
}

func lexerName(lexer chroma.Lexer) string {
	if lexer == nil {
		return ""
	}
	config := lexer.Config()
	if len(config.Aliases) > 0 {
		return config.Aliases[0]
	}
	return strings.ToLower(config.Name)
}

// WriteCSS writes the stylesheet for the classes used by highlighted code blocks.
func WriteCSS(w io.Writer) error {
	style := styles.Get(HighlightStyle)
	if err := formatter.WriteCSS(w, style); err != nil {
		return fmt.Errorf("macro: write highlight css: %w", err)
	}
	return nil
}

// codeFence renders a code body as a Markdown fence.  The fence is always longer than any run of
// backticks inside the body.
func codeFence(lang, body string) string {
	body = normalizeCode(body)

	fence := strings.Repeat("`", max(3, longestRun(body, '`')+1))
	lang = strings.Map(func(r rune) rune {
		if r == '`' || r == ' ' || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, lang)

	return fence + lang + "\n" + body + "\n" + fence
}

// normalizeCode turns every line ending into LF and drops trailing whitespace.
func normalizeCode(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	return strings.TrimRight(body, " \t\n")
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}
