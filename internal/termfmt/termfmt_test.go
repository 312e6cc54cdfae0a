package termfmt

import (
	"fmt"
	"testing"
)

func TestStyleFormat(t *testing.T) {
	t.Cleanup(func() { SetEnabled(true) })

	tests := []struct {
		name    string
		got     string
		want    string
		enabled bool
	}{
		{"bold", fmt.Sprintf("%s", Bold().V("hi")), "\x1b[1mhi\x1b[0m", true},
		{"colour then bold", fmt.Sprintf("%s", Fg(Green).Bold().V("ok")), "\x1b[32m\x1b[1mok\x1b[0m\x1b[0m", true},
		{"width", fmt.Sprintf("%-4s|", Faint().V("a")), "\x1b[2ma   \x1b[0m|", true},
		{"number", fmt.Sprintf("%03d", Bold().V(7)), "\x1b[1m007\x1b[0m", true},
		{"unprintable stripped", fmt.Sprintf("%s", With().V("a\x1b[31mb")), "a[31mb", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSetEnabled(t *testing.T) {
	t.Cleanup(func() { SetEnabled(true) })

	SetEnabled(false)
	if got := Sprint(Bold().Fg(Red), "plain"); got != "plain" {
		t.Errorf("got %q, want plain", got)
	}
}

func TestLink(t *testing.T) {
	got := Sprint(Linked("https://example.com"), "x")
	want := "\x1b]8;;https://example.com\x1b\\x\x1b]8;;\x1b\\"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStylesDoNotShareEscapes(t *testing.T) {
	base := Bold()
	a := base.Fg(Red)
	b := base.Fg(Blue)
	if Sprint(a, "x") == Sprint(b, "x") {
		t.Error("derived styles share their escape slice")
	}
}
