package confluence

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestAttachmentFilename(t *testing.T) {
	tests := map[string]string{
		"diagram.png":         "diagram.png",
		"../../etc/passwd":    "passwd",
		`..\windows\evil.exe`: "evil.exe",
		"..":                  "",
		"/":                   "",
		"":                    "",
	}
	for in, want := range tests {
		if got := AttachmentFilename(in); got != want {
			t.Errorf("AttachmentFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDownloadCountsFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/api/v2/pages/7/attachments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, MultiAttachmentResponse{Results: []Attachment{
			{ID: "a1", Title: "ok.txt", DownloadLink: "/download/attachments/7/ok.txt"},
			{ID: "a2", Title: "broken.txt", DownloadLink: "/download/attachments/7/broken.txt"},
			{ID: "a3", Title: "..", DownloadLink: "/download/attachments/7/dots"},
		}})
	})
	mux.HandleFunc("/wiki/download/attachments/7/ok.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})
	mux.HandleFunc("/wiki/download/attachments/7/broken.txt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	dest := filepath.Join(t.TempDir(), "attachments")
	d := &AttachmentDownloader{API: testAPI(t, mux)}

	res, err := d.Download(context.Background(), "7", dest)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if res.Downloaded != 1 || res.Failed != 2 {
		t.Errorf("result = %+v, want 1 downloaded, 2 failed", res)
	}

	got, err := os.ReadFile(filepath.Join(dest, "ok.txt"))
	if err != nil || string(got) != "hello" {
		t.Errorf("ok.txt = %q, %v", got, err)
	}
	if _, err := os.Stat(filepath.Join(dest, "broken.txt")); !os.IsNotExist(err) {
		t.Errorf("partial file left behind: %v", err)
	}
}

func TestDownloadNoAttachmentsCreatesNothing(t *testing.T) {
	api := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, MultiAttachmentResponse{})
	}))

	dest := filepath.Join(t.TempDir(), "attachments")
	res, err := (&AttachmentDownloader{API: api}).Download(context.Background(), "9", dest)
	if err != nil {
		t.Fatal(err)
	}
	if res != (DownloadResult{}) {
		t.Errorf("result = %+v", res)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("attachments dir created without attachments")
	}
}

func TestDownloadListingError(t *testing.T) {
	api := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	if _, err := (&AttachmentDownloader{API: api}).Download(context.Background(), "9", t.TempDir()); err == nil {
		t.Fatal("expected listing error")
	}
}
