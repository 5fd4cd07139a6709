package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
)

// GCS uploads to a Google Cloud Storage bucket whose objects are
// publicly readable, mirroring the shared-link behavior of the Drive
// folders this system replaced.
type GCS struct {
	bucket string
}

func NewGCS(bucket string) *GCS {
	return &GCS{bucket: bucket}
}

func (g *GCS) Upload(ctx context.Context, data []byte, fileName, contentType, folder string) (string, error) {
	if g.bucket == "" {
		return "", fmt.Errorf("GCS_BUCKET not configured")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("storage client: %w", err)
	}
	defer client.Close()

	// Timestamp prefix avoids collisions between same-named uploads.
	object := fmt.Sprintf("%s/%s-%s", folder, time.Now().Format("20060102-150405"), fileName)
	w := client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, object), nil
}
