package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Local writes uploads to a directory served by the router under
// baseURL. Used in development where no GCS credentials exist.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{dir: dir, baseURL: baseURL}
}

func (l *Local) Upload(ctx context.Context, data []byte, fileName, contentType, folder string) (string, error) {
	dir := filepath.Join(l.dir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}
	name := fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), fileName)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", l.baseURL, folder, name), nil
}
