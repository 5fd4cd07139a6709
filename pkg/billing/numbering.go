package billing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jcconstruction/tracker/models"
)

// DefaultNumberSeed is the first number issued when no prior document of
// a type exists.
const DefaultNumberSeed = 500

// NextNumber returns the next document number for a type: the maximum
// numeric suffix among existing numbers plus one, or seed when none
// parse. Malformed or non-numeric suffixes are ignored, never an error,
// so dirty historical data cannot block issuing.
func NextNumber(existing []string, seed int) int {
	max := -1
	for _, number := range existing {
		s := number
		if i := strings.LastIndex(s, "-"); i >= 0 {
			s = s[i+1:]
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	if max < 0 {
		return seed
	}
	return max + 1
}

// FormatNumber renders a document number like "EST-504" or "INV-504".
func FormatNumber(docType string, n int) string {
	prefix := "DOC"
	switch docType {
	case models.DocumentTypeEstimate:
		prefix = "EST"
	case models.DocumentTypeInvoice:
		prefix = "INV"
	}
	return fmt.Sprintf("%s-%d", prefix, n)
}
