package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/jcconstruction/tracker/models"
)

// SeedAdminUser creates the bootstrap "admin" account if it does not
// exist. That account can never be deleted through the API.
func SeedAdminUser() error {
	var count int64
	if err := DB.Model(&models.User{}).
		Where("username = ?", models.BootstrapAdminUsername).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
		log.Println("ADMIN_PASSWORD not set, seeding admin with default password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     models.BootstrapAdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		FirstName:    "System",
		Surname:      "Admin",
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded bootstrap admin user")
	return nil
}
