package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPrintOptions(t *testing.T) {
	opts := printOptions()
	if *opts.PaperWidth != a4WidthInches || *opts.PaperHeight != a4HeightInches {
		t.Errorf("paper = %vx%v, want A4", *opts.PaperWidth, *opts.PaperHeight)
	}
	if !opts.PrintBackground || !opts.PreferCSSPageSize {
		t.Error("want backgrounds printed and the document's @page honoured")
	}
}

func TestBrowserSessionCloseIsIdempotent(t *testing.T) {
	s := &BrowserSession{}
	for i := 0; i < 3; i++ {
		if err := s.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i+1, err)
		}
	}

	_, err := s.RenderPDF(context.Background(), "/nonexistent.html")
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("RenderPDF after Close = %v, want ErrSessionClosed", err)
	}
}

func TestBrowserSessionRenders(t *testing.T) {
	if testing.Short() || os.Getenv("ROD_BROWSER_BIN") == "" {
		t.Skip("set ROD_BROWSER_BIN to run against a real browser")
	}

	out, err := Print(sampleDocument())
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	s, err := LaunchBrowser(ctx, BrowserOptions{PageTimeout: time.Minute})
	if err != nil {
		t.Fatalf("LaunchBrowser: %v", err)
	}
	defer s.Close()

	pdf, err := s.RenderPDF(ctx, path)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Errorf("output doesn't look like a PDF: %q", pdf[:min(len(pdf), 16)])
	}
}
