package validators

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"autocontract/internal/utils"
)

var (
	vinSeparators = regexp.MustCompile(`[\s\-_]+`)
	vinPattern    = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
	datePattern   = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
)

// Phone accepts 11 digits starting with 7 or 8, or any 10 digits. Everything
// except digits is ignored.
func Phone(phone string) bool {
	if strings.TrimSpace(phone) == "" {
		return false
	}
	digits := utils.OnlyDigits(phone)
	switch len(digits) {
	case 11:
		return digits[0] == '7' || digits[0] == '8'
	case 10:
		return true
	default:
		return false
	}
}

// NormalizeVIN upper-cases the code and drops whitespace, hyphens and underscores.
func NormalizeVIN(vin string) string {
	return vinSeparators.ReplaceAllString(strings.ToUpper(strings.TrimSpace(vin)), "")
}

// VIN checks length and alphabet only (no I, O, Q). The check digit is not verified.
func VIN(vin string) bool {
	if vin == "" {
		return false
	}
	return vinPattern.MatchString(NormalizeVIN(vin))
}

// Date accepts zero-padded DD.MM.YYYY between 1900 and 2100 that exists in
// the calendar.
func Date(s string) bool {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2100 {
		return false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month
}
