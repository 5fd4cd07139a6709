package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	dsn := os.Getenv("DB_DSN")
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
}

// Company identity printed on generated estimates and invoices.
// Overridable per deployment through the environment.
func CompanyName() string    { return envOr("COMPANY_NAME", "JC Construction") }
func CompanyAddress() string { return envOr("COMPANY_ADDRESS", "123 Building Integrity Way, Brookings, SD 57006") }
func CompanyPhone() string   { return envOr("COMPANY_PHONE", "(555) 123-4567") }
func CompanyEmail() string   { return envOr("COMPANY_EMAIL", "contact@jcconstruction.example.com") }

// DefaultInvoiceTerms is the terms block used when a request supplies none.
func DefaultInvoiceTerms() string {
	return envOr("INVOICE_TERMS", "Payment due upon receipt. Thank you for your business!")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
