package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{"lesson.mp4", "lesson.mp4", false},
		{"/abs/lesson.vtt", "abs/lesson.vtt", false},
		{`results\job.result.json`, "results/job.result.json", false},
		{"./a/../b.mp4", "b.mp4", false},
		{"../escape.mp4", "", true},
		{"..", "", true},
		{"  ", "", true},
		{".", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := sanitizeKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("sanitizeKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("sanitizeKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestFileStorePublish(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "output"))
	if err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(t.TempDir(), "render.mp4")
	if err := os.WriteFile(src, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	key, err := store.Publish(context.Background(), "job-1.mp4", src)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if key != "job-1.mp4" {
		t.Errorf("key = %q", key)
	}
	data, err := os.ReadFile(filepath.Join(store.BasePath(), "job-1.mp4"))
	if err != nil || string(data) != "video" {
		t.Errorf("published = %q, %v", data, err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still present after publish")
	}
}

func TestFileStoreWrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	key, err := store.Write(context.Background(), "results/a.result.json", []byte(`{}`))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if key != "results/a.result.json" {
		t.Errorf("key = %q", key)
	}
	if _, err := os.Stat(filepath.Join(store.BasePath(), "results", "a.result.json.part")); !os.IsNotExist(err) {
		t.Error("partial file left behind")
	}

	if _, err := store.Write(context.Background(), "../x", nil); err == nil {
		t.Error("Write() accepted a traversal key")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Write(ctx, "b.json", nil); err == nil {
		t.Error("Write() ignored a cancelled context")
	}
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore(" "); err == nil {
		t.Error("NewFileStore() accepted an empty path")
	}
}
