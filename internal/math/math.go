package math

import (
	"strconv"
)

// Format formats a float with two decimals.
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Percent formats a fraction as a percentage with one decimal.
func Percent(f float64) string {
	return strconv.FormatFloat(100*f, 'f', 1, 64) + "%"
}
