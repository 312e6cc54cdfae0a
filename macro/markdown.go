package macro

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

func newConverter() *md.Converter {
	converter := md.NewConverter("", true, &md.Options{
		HeadingStyle:   "atx",
		CodeBlockStyle: "fenced",
	})
	// Github flavoured Markdown knows about tables 👍
	converter.Use(mdplugin.GitHubFlavored())
	converter.AddRules(
		md.Rule{
			Filter: []string{"summary"},
			Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
				title := strings.TrimSpace(content)
				if title == "" {
					return md.String("")
				}
				return md.String("\n\n**" + title + "**\n\n")
			},
		},
		md.Rule{
			Filter: []string{"details"},
			Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
				return md.String("\n\n" + strings.TrimSpace(content) + "\n\n")
			},
		},
		md.Rule{
			Filter: []string{"div"},
			Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
				if !selec.HasClass("callout") {
					return nil
				}
				return md.String("\n\n" + quote(content) + "\n\n")
			},
		},
	)
	return converter
}

// quote prefixes every line of content with "> ".
func quote(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}
