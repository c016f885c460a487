package core

import (
	"strconv"
	"strings"
)

var turkishMonths = [12]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// MonthLabel renders a localized "<MonthName> <Year>" label for report
// headers and export filenames ("Ocak 2026"). Returns "" for a month
// outside 1-12.
func MonthLabel(year, month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return turkishMonths[month-1] + " " + strconv.Itoa(year)
}

// ParseMonthInput parses the "YYYY-MM" value of a month picker field.
func ParseMonthInput(s string) (year, month int, ok bool) {
	ys, ms, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return 0, 0, false
	}
	year, err := strconv.Atoi(ys)
	if err != nil || year < 1 {
		return 0, 0, false
	}
	month, err = strconv.Atoi(ms)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
