package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D+`)

func OnlyDigits(s string) string {
	return nonDigits.ReplaceAllString(strings.TrimSpace(s), "")
}

// FormatPhone keeps the last 11 digits (left-padded with zeros) and returns
// "+7 999 123-45-67" together with the last four digits as "45 67".
func FormatPhone(phone string) (formatted, last4 string) {
	digits := OnlyDigits(phone)
	if len(digits) > 11 {
		digits = digits[len(digits)-11:]
	}
	if len(digits) < 11 {
		digits = strings.Repeat("0", 11-len(digits)) + digits
	}

	formatted = "+" + digits[0:1] + " " + digits[1:4] + " " + digits[4:7] + "-" + digits[7:9] + "-" + digits[9:11]
	last4 = digits[7:9] + " " + digits[9:11]
	return formatted, last4
}
