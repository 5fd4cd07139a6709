package utils

import "testing"

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1234.5, "$1,234.50"},
		{1000000, "$1,000,000.00"},
		{-200, "-$200.00"},
		{999.999, "$1,000.00"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(7.5); got != "7.50" {
		t.Errorf("FormatHours(7.5) = %q, want 7.50", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename(`inv/oice: "draft"?.pdf`); got != "inv_oice___draft__.pdf" {
		t.Errorf("SanitizeFilename = %q", got)
	}
	if got := SanitizeFilename("EST-504 Garage Build.pdf"); got != "EST-504_Garage_Build.pdf" {
		t.Errorf("SanitizeFilename = %q", got)
	}
}
