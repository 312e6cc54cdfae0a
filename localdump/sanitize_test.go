package localdump

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "plain", title: "Release notes", want: "Release_notes"},
		{name: "empty", title: "", want: "untitled"},
		{name: "only forbidden", title: ` \/:*?"<>| `, want: "untitled"},
		{name: "runs collapse", title: "a  /  b", want: "a_b"},
		{name: "existing underscores collapse", title: "a__b___c", want: "a_b_c"},
		{name: "edges stripped", title: "_/x/_", want: "x"},
		{name: "tabs and newlines", title: "a\tb\nc", want: "a_b_c"},
		{name: "non-breaking space", title: "a\u00a0b", want: "a_b"},
		{name: "unicode kept", title: "Über größe 日本", want: "Über_größe_日本"},
		{name: "windows reserved", title: `C:\Temp\file?.txt`, want: "C_Temp_file_.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.title); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSanitizeProperties(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"simple",
		strings.Repeat("a", 500),
		strings.Repeat("ab ", 100),
		strings.Repeat("日本語", 60),
		strings.Repeat("x", 119) + " y",
		strings.Repeat("é", 61),
		`<<>>::**??""||\\//`,
		"trailing _ underscore_",
	}

	for _, in := range inputs {
		got := Sanitize(in)
		if got == "" {
			t.Errorf("Sanitize(%q) is empty", in)
		}
		if n := utf8.RuneCountInString(got); n > MaxNameLength {
			t.Errorf("Sanitize(%q) is %d characters long", in, n)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Sanitize(%q) = %q split a UTF-8 sequence", in, got)
		}
		if strings.ContainsAny(got, "\\/:*?\"<>| \t\n\r") {
			t.Errorf("Sanitize(%q) = %q has forbidden characters", in, got)
		}
		if strings.HasPrefix(got, "_") || strings.HasSuffix(got, "_") {
			t.Errorf("Sanitize(%q) = %q has edge underscores", in, got)
		}
		if again := Sanitize(got); again != got {
			t.Errorf("not idempotent: %q -> %q -> %q", in, got, again)
		}
	}
}

func TestSanitizeTruncatesByCharacter(t *testing.T) {
	got := Sanitize(strings.Repeat("日", 130))
	if got != strings.Repeat("日", MaxNameLength) {
		t.Errorf("got %d characters, want %d", utf8.RuneCountInString(got), MaxNameLength)
	}

	// truncation exposes an underscore, which is stripped again
	got = Sanitize(strings.Repeat("x", 119) + " y")
	if got != strings.Repeat("x", 119) {
		t.Errorf("got %q", got)
	}
}

func TestPageDirName(t *testing.T) {
	if got := PageDirName("123", "My page: draft"); got != "123_My_page_draft" {
		t.Errorf("PageDirName = %q", got)
	}
	if got := PageDirName("9", ""); got != "9" {
		t.Errorf("PageDirName with empty title = %q", got)
	}
}
