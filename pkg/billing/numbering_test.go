package billing

import (
	"testing"

	"github.com/jcconstruction/tracker/models"
)

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     int
	}{
		{"no prior documents seeds", nil, 500},
		{"max plus one", []string{"EST-500", "EST-503", "EST-501"}, 504},
		{"malformed suffixes ignored", []string{"EST-abc", "EST-", "junk"}, 500},
		{"mixed dirty data", []string{"INV-507", "INV-oops", "INV-502"}, 508},
		{"bare numbers accepted", []string{"600"}, 601},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextNumber(tt.existing, DefaultNumberSeed); got != tt.want {
				t.Errorf("NextNumber(%v) = %d, want %d", tt.existing, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(models.DocumentTypeEstimate, 504); got != "EST-504" {
		t.Errorf("estimate number = %q, want EST-504", got)
	}
	if got := FormatNumber(models.DocumentTypeInvoice, 500); got != "INV-500" {
		t.Errorf("invoice number = %q, want INV-500", got)
	}
}
