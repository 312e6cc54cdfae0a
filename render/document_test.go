package render

import (
	"strings"
	"testing"
)

func sampleDocument() Document {
	return Document{
		ID:          "42",
		Title:       "Release <notes> & more",
		SpaceLabel:  "Engineering (ENG)",
		ParentLabel: "Handbook",
		Status:      "current",
		CreatedAt:   "2024-03-01T10:00:00Z",
		Ancestry:    []string{"Home", "Handbook"},
		Body:        `<p>Hello</p><div class="callout callout-info"><div class="callout-body">x</div></div>`,
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name         string
		render       func(Document) (string, error)
		wantContains []string
		wantMissing  []string
	}{
		{
			name:   "preview",
			render: Preview,
			wantContains: []string{
				"<title>Release &lt;notes&gt; &amp; more</title>",
				`<p>Hello</p><div class="callout callout-info">`,
				"<dd>42</dd>",
				"<dd>Engineering (ENG)</dd>",
				"<dd>Handbook</dd>",
				"<dd>current</dd>",
				"<dd>2024-03-01T10:00:00Z</dd>",
				"Home / Handbook",
				".chroma",
			},
			wantMissing: []string{"@page"},
		},
		{
			name:   "print",
			render: Print,
			wantContains: []string{
				"@page { size: A4; margin: 20mm 18mm; }",
				`<body class="print">`,
				`<p>Hello</p>`,
				".chroma",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument()
			out, err := tt.render(doc)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q", want)
				}
			}
			for _, unwanted := range tt.wantMissing {
				if strings.Contains(out, unwanted) {
					t.Errorf("output contains %q", unwanted)
				}
			}

			again, err := tt.render(doc)
			if err != nil {
				t.Fatalf("second render: %v", err)
			}
			if again != out {
				t.Error("rendering the same document twice gave different output")
			}
		})
	}
}

func TestRenderWithoutAncestry(t *testing.T) {
	doc := sampleDocument()
	doc.Ancestry = nil
	out, err := Preview(doc)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if strings.Contains(out, "breadcrumbs") {
		t.Error("root pages shouldn't get a breadcrumb")
	}
}
