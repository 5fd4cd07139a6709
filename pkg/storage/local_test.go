package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalUpload(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/uploads")

	link, err := l.Upload(context.Background(), []byte("receipt bytes"), "home_depot.jpg", "image/jpeg", "receipts")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(link, "/uploads/receipts/") {
		t.Errorf("link = %q, want /uploads/receipts/ prefix", link)
	}
	if !strings.HasSuffix(link, "home_depot.jpg") {
		t.Errorf("link = %q, should keep the original file name", link)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "receipts"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 stored file, got %d", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(dir, "receipts", entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "receipt bytes" {
		t.Errorf("stored bytes = %q", data)
	}
}
