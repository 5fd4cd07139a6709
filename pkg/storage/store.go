// Package storage is the attachment store: it persists uploaded files
// and returns a shareable link. Callers must not create dependent
// records when Upload fails.
package storage

import (
	"context"
	"os"
)

// Uploader persists file bytes under folder/fileName and returns a
// shareable link.
type Uploader interface {
	Upload(ctx context.Context, data []byte, fileName, contentType, folder string) (string, error)
}

// New picks the backend from the environment: Google Cloud Storage in
// production (Cloud Run sets K_SERVICE), local disk for development.
func New() Uploader {
	useGCS := os.Getenv("USE_GCS") == "true" ||
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
		os.Getenv("K_SERVICE") != ""
	if useGCS {
		return NewGCS(os.Getenv("GCS_BUCKET"))
	}
	return NewLocal("./uploads", "/uploads")
}
