package model

import "fmt"

// Amounts are stored as int64 minor units (halalas). The storefront JSON
// contract emits 2-decimal strings, so formatting lives next to the models.

// FormatAmount renders minor units as a 2-decimal string, e.g. 2550 -> "25.50".
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

// AmountToFloat converts minor units to a float value for display payloads.
func AmountToFloat(amount int64) float64 {
	return float64(amount) / 100
}
