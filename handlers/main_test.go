package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/middleware"
	"github.com/jcconstruction/tracker/models"
)

var testDBCounter int

// setupTestDB points config.DB at a fresh in-memory database with the
// full schema migrated.
func setupTestDB(t *testing.T) {
	t.Helper()
	testDBCounter++
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Job{},
		&models.TimeEntry{},
		&models.MaterialUsage{},
		&models.Receipt{},
		&models.DownPayment{},
		&models.JobFile{},
		&models.User{},
		&models.GeneratedDocument{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	config.DB = db
}

// asRole stamps claims onto a request the way JWTMiddleware would.
func asRole(r *http.Request, role string) *http.Request {
	return middleware.WithClaims(r, &middleware.Claims{
		UserID:   "00000000-0000-0000-0000-000000000001",
		Username: "tester",
		Name:     "Test User",
		Role:     role,
	})
}

// asClientViewer scopes the request to one client.
func asClientViewer(r *http.Request, client string) *http.Request {
	return middleware.WithClaims(r, &middleware.Claims{
		UserID:     "00000000-0000-0000-0000-000000000002",
		Username:   "viewer",
		Name:       "Client Viewer",
		Role:       models.RoleClientViewer,
		ClientName: client,
	})
}

// stubUploader records uploads in memory, or fails on demand.
type stubUploader struct {
	uploads []string
	fail    bool
}

func (s *stubUploader) Upload(_ context.Context, _ []byte, fileName, _, folder string) (string, error) {
	if s.fail {
		return "", errors.New("upload backend unavailable")
	}
	link := "https://files.example.com/" + folder + "/" + fileName
	s.uploads = append(s.uploads, link)
	return link, nil
}

func mustCreate(t *testing.T, value any) {
	t.Helper()
	if err := config.DB.Create(value).Error; err != nil {
		t.Fatalf("create fixture: %v", err)
	}
}
