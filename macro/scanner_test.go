package macro

import "testing"

func TestTopLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "none", input: "<p>plain</p>", want: nil},
		{
			name:  "siblings",
			input: `<ac:structured-macro ac:name="info"></ac:structured-macro><ac:structured-macro ac:name="TOC" />`,
			want:  []string{"info", "toc"},
		},
		{
			name:  "nested counted once",
			input: `<ac:structured-macro ac:name="expand"><ac:rich-text-body><ac:structured-macro ac:name="info"></ac:structured-macro></ac:rich-text-body></ac:structured-macro>`,
			want:  []string{"expand"},
		},
		{
			name:  "cdata skipped",
			input: `<ac:structured-macro ac:name="code"><ac:plain-text-body><![CDATA[</ac:structured-macro>]]></ac:plain-text-body></ac:structured-macro>`,
			want:  []string{"code"},
		},
		{
			name:  "unclosed ignored",
			input: `<ac:structured-macro ac:name="info"><p>never closed</p>`,
			want:  nil,
		},
		{
			name:  "stray close ignored",
			input: `</ac:structured-macro><ac:structured-macro ac:name="tip"></ac:structured-macro>`,
			want:  []string{"tip"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := topLevel(tt.input)
			if len(spans) != len(tt.want) {
				t.Fatalf("got %d spans, want %d", len(spans), len(tt.want))
			}
			for i, sp := range spans {
				if sp.name != tt.want[i] {
					t.Errorf("span %d = %q, want %q", i, sp.name, tt.want[i])
				}
			}
		})
	}
}

func TestParseMacroParamsFromOwnPrefix(t *testing.T) {
	inner := `<ac:parameter ac:name="title">Outer &amp; co</ac:parameter>` +
		`<ac:rich-text-body><ac:structured-macro ac:name="info"><ac:parameter ac:name="icon">false</ac:parameter>` +
		`</ac:structured-macro></ac:rich-text-body>`
	m := parseMacro("expand", inner)

	if got := m.Param("title", ""); got != "Outer & co" {
		t.Errorf("title = %q", got)
	}
	if _, ok := m.Params["icon"]; ok {
		t.Error("picked up a parameter of a nested macro")
	}
	if m.HasPlain {
		t.Error("expand has no plain text body")
	}
}

func TestCodeFence(t *testing.T) {
	tests := []struct {
		lang, body, want string
	}{
		{"python", "print(1)", "```python\nprint(1)\n```"},
		{"", "a ``` b", "````\na ``` b\n````"},
		{"c sharp", "x", "```csharp\nx\n```"},
	}
	for _, tt := range tests {
		if got := codeFence(tt.lang, tt.body); got != tt.want {
			t.Errorf("codeFence(%q, %q) = %q, want %q", tt.lang, tt.body, got, tt.want)
		}
	}
}
