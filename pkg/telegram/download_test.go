package telegram

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFileURL(t *testing.T) {
	c := newTestClient(t, "TEST_TOKEN", "https://api.example.test")
	got := c.FileURL("photos/file_1.jpg")
	want := "https://api.example.test/file/botTEST_TOKEN/photos/file_1.jpg"
	if got != want {
		t.Errorf("FileURL() = %q, want %q", got, want)
	}
}

func TestDownloadFile(t *testing.T) {
	payload := []byte("JPEGDATA")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/file/botTEST_TOKEN/photos/file_1.jpg" {
			t.Errorf("path = %q, want file download path", r.URL.Path)
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := newTestClient(t, "TEST_TOKEN", srv.URL)
	var buf bytes.Buffer
	n, err := c.DownloadFile(context.Background(), &File{FilePath: "photos/file_1.jpg"}, &buf)
	if err != nil {
		t.Fatalf("DownloadFile() error: %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("n = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(buf.Bytes(), payload) {
		t.Errorf("downloaded %q, want %q", buf.Bytes(), payload)
	}
}

func TestDownloadFileMissingPath(t *testing.T) {
	c := newTestClient(t, "TEST_TOKEN", "http://127.0.0.1:0")

	var buf bytes.Buffer
	if _, err := c.DownloadFile(context.Background(), nil, &buf); !errors.Is(err, ErrNoFilePath) {
		t.Errorf("DownloadFile(nil) error = %v, want ErrNoFilePath", err)
	}
	if _, err := c.DownloadFile(context.Background(), &File{}, &buf); !errors.Is(err, ErrNoFilePath) {
		t.Errorf("DownloadFile(no path) error = %v, want ErrNoFilePath", err)
	}
}

func TestDownloadFileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, "TEST_TOKEN", srv.URL)
	var buf bytes.Buffer
	_, err := c.DownloadFile(context.Background(), &File{FilePath: "gone.bin"}, &buf)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("DownloadFile() error = %v, want *APIError", err)
	}
	if apiErr.Code != 404 {
		t.Errorf("Code = %d, want 404", apiErr.Code)
	}
}

func TestDownloadFileTo(t *testing.T) {
	payload := []byte("voice note bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := newTestClient(t, "TEST_TOKEN", srv.URL)
	dir := t.TempDir()
	dest, err := c.DownloadFileTo(context.Background(), &File{FilePath: "voice/note_7.ogg"}, dir)
	if err != nil {
		t.Fatalf("DownloadFileTo() error: %v", err)
	}
	if dest != filepath.Join(dir, "note_7.ogg") {
		t.Errorf("dest = %q, want file named after the last path element", dest)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read %s: %v", dest, err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("file contents = %q, want %q", data, payload)
	}
}
