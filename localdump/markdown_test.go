package localdump

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// headerOf pulls the YAML out of page.md's metadata comment.
func headerOf(t *testing.T, doc string) MarkdownHeader {
	t.Helper()
	start := strings.Index(doc, "<!--\n")
	end := strings.Index(doc, "\n-->")
	if start < 0 || end < start {
		t.Fatalf("no metadata comment in %q", doc)
	}

	var h MarkdownHeader
	if err := yaml.Unmarshal([]byte(doc[start+len("<!--\n"):end]), &h); err != nil {
		t.Fatalf("metadata is not YAML: %v", err)
	}
	return h
}

func TestMarkdownDocument(t *testing.T) {
	header := MarkdownHeader{ID: "7", Space: "ENG", Parent: "Setup", Status: "current"}
	got, err := markdownDocument("  Title  ", header, "\n\nbody text\n\n")
	if err != nil {
		t.Fatalf("markdownDocument: %v", err)
	}

	want := "# Title\n\n<!--\nid: \"7\"\nspace: ENG\nparent: Setup\nstatus: current\n-->\n\nbody text\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if h := headerOf(t, got); h != header {
		t.Errorf("header = %+v, want %+v", h, header)
	}
}

func TestMarkdownDocumentDoubleHyphens(t *testing.T) {
	tests := []MarkdownHeader{
		{ID: "1", Space: "A--B", Parent: "a --> b"},
		{ID: "2", Space: "---", Parent: `quote " and \ backslash --`},
		{ID: "3", Space: "ENG", Parent: "multi\nline -- value"},
	}

	for _, header := range tests {
		t.Run(header.ID, func(t *testing.T) {
			got, err := markdownDocument("T", header, "x")
			if err != nil {
				t.Fatalf("markdownDocument: %v", err)
			}

			comment := got[strings.Index(got, "<!--")+len("<!--") : strings.Index(got, "\n-->")]
			if strings.Contains(comment, "--") {
				t.Errorf("metadata would end the comment early:\n%s", got)
			}
			if strings.Count(got, "-->") != 1 {
				t.Errorf("want exactly one comment terminator:\n%s", got)
			}
			if h := headerOf(t, got); h != header {
				t.Errorf("header read back as %+v, want %+v", h, header)
			}
		})
	}
}

func TestMarkdownDocumentOmitsEmptyParent(t *testing.T) {
	got, err := markdownDocument("Root", MarkdownHeader{ID: "1", Space: "ENG"}, "x")
	if err != nil {
		t.Fatalf("markdownDocument: %v", err)
	}
	if strings.Contains(got, "parent:") || strings.Contains(got, "status:") {
		t.Errorf("empty fields rendered:\n%s", got)
	}
}
