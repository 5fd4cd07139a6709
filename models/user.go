// models/user.go
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles, lowest to highest privilege.
const (
	RoleClientViewer = "Client Viewer"
	RoleContractor   = "Contractor"
	RoleManager      = "Manager"
	RoleAdmin        = "Admin"
)

var UserRoles = []string{RoleContractor, RoleManager, RoleAdmin, RoleClientViewer}

// BootstrapAdminUsername is the seeded account that can never be deleted.
const BootstrapAdminUsername = "admin"

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:30;not null" json:"role"`
	FirstName    string    `gorm:"size:100;not null" json:"firstName"`
	Surname      string    `gorm:"size:100;not null" json:"surname"`
	// ClientName is meaningful only for Client Viewer accounts; it scopes
	// every read to jobs belonging to that client.
	ClientName string `gorm:"size:100" json:"clientName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// FullName returns "First Surname" trimmed.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.Surname)
}

// ValidUserRole reports whether s is one of the fixed roles.
func ValidUserRole(s string) bool {
	for _, v := range UserRoles {
		if v == s {
			return true
		}
	}
	return false
}

// DeriveUsername builds the login name from the first initial plus the
// surname, lowercased with spaces removed, appending an incrementing
// numeric suffix until taken reports the candidate free.
func DeriveUsername(firstName, surname string, taken func(string) bool) string {
	first := strings.TrimSpace(firstName)
	last := strings.ReplaceAll(strings.TrimSpace(surname), " ", "")
	base := strings.ToLower(last)
	if first != "" {
		base = strings.ToLower(string([]rune(first)[0])) + base
	}
	candidate := base
	for n := 1; taken(candidate); n++ {
		candidate = fmt.Sprintf("%s%d", base, n)
	}
	return candidate
}
