package utils

import (
	"strconv"
	"time"
)

const DateLayout = "02.01.2006"

var genitiveMonths = [12]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// VerboseDate renders "5 ноября 2024 г.".
func VerboseDate(t time.Time) string {
	return strconv.Itoa(t.Day()) + " " + genitiveMonths[t.Month()-1] + " " + strconv.Itoa(t.Year()) + " г."
}
