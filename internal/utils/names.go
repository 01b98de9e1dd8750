package utils

import "strings"

func ParseFullName(fullname string) (last, first, middle string) {
	fullname = strings.Join(strings.Fields(strings.TrimSpace(fullname)), " ")
	parts := strings.Split(fullname, " ")

	if len(parts) > 0 {
		last = parts[0]
	}
	if len(parts) > 1 {
		first = parts[1]
	}
	if len(parts) > 2 {
		middle = parts[2]
	}

	return
}

// FullName joins the name parts with single spaces, as they are written into
// the registry and the documents.
func FullName(last, first, middle string) string {
	return last + " " + first + " " + middle
}

// ShortName renders "Иванов И. И." from the name parts. Empty parts are skipped.
func ShortName(last, first, middle string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(last))
	for _, p := range []string{first, middle} {
		r := []rune(strings.TrimSpace(p))
		if len(r) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r[0])
		b.WriteByte('.')
	}
	return b.String()
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}
