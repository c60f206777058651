package notifications

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

// NormalizePhone strips everything but digits and prefixes countryCode to bare ten-digit
// local numbers. It returns "" when no digits remain.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 && countryCode != "" {
		return countryCode + digits
	}
	return digits
}

// FormatBill renders the customer bill of a sale.
func FormatBill(sale models.Sale, currency string) string {
	items := make([]string, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, fmt.Sprintf("%s x%d", it.ProductName, it.Qty))
	}
	return fmt.Sprintf("Thanks for visiting! Your total: %s%s. Items: %s.", currency, sale.Total.String(), strings.Join(items, ", "))
}
