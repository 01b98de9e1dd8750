package utils

// OutOfRange is what NumberToWords returns for numbers it cannot spell.
const OutOfRange = "число вне диапазона"

var (
	ones  = [...]string{"", "один", "два", "три", "четыре", "пять", "шесть", "семь", "восемь", "девять"}
	teens = [...]string{
		"десять", "одиннадцать", "двенадцать", "тринадцать", "четырнадцать",
		"пятнадцать", "шестнадцать", "семнадцать", "восемнадцать", "девятнадцать",
	}
	tens = [...]string{"", "", "двадцать", "тридцать", "сорок", "пятьдесят", "шестьдесят", "семьдесят", "восемьдесят", "девяносто"}
)

// NumberToWords spells 10..99 in Russian. Only the thousands part of invoice
// amounts goes through here, so the range is deliberately narrow.
func NumberToWords(n int) string {
	if n < 10 || n > 99 {
		return OutOfRange
	}
	if n < 20 {
		return teens[n-10]
	}
	t, o := tens[n/10], ones[n%10]
	if o == "" {
		return t
	}
	return t + " " + o
}
