// Package finance filters the cash-flow ledger.
package finance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthAbbreviations = map[string]time.Month{
	"jan": time.January,
	"fev": time.February,
	"mar": time.March,
	"abr": time.April,
	"mai": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"set": time.September,
	"out": time.October,
	"nov": time.November,
	"dez": time.December,
}

// ParseTransactionDate converts a ledger date label into midnight of that day in now's location.
// Accepted forms are "Hoje", "Ontem", "28 Out" and "28/10", each optionally followed by ", HH:mm".
// The year is always the year of now.
func ParseTransactionDate(label string, now time.Time) (time.Time, bool) {
	day, _, _ := strings.Cut(label, ",")
	day = strings.ToLower(strings.TrimSpace(day))

	today := midnight(now)
	switch day {
	case "":
		return time.Time{}, false
	case "hoje":
		return today, true
	case "ontem":
		return today.AddDate(0, 0, -1), true
	}

	parts := strings.FieldsFunc(day, func(r rune) bool { return r == '/' || r == ' ' || r == '\t' })
	if len(parts) < 2 {
		return time.Time{}, false
	}

	d, err := strconv.Atoi(parts[0])
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}

	var month time.Month
	if m, err := strconv.Atoi(parts[1]); err == nil {
		if m < 1 || m > 12 {
			return time.Time{}, false
		}
		month = time.Month(m)
	} else {
		abbr := parts[1]
		if r := []rune(abbr); len(r) > 3 {
			abbr = string(r[:3])
		}
		var ok bool
		if month, ok = monthAbbreviations[abbr]; !ok {
			return time.Time{}, false
		}
	}

	return time.Date(now.Year(), month, d, 0, 0, 0, 0, now.Location()), true
}

// FormatTransactionDate renders the label stored for a transaction created at t ("05/11, 9:07")
func FormatTransactionDate(t time.Time) string {
	return fmt.Sprintf("%02d/%02d, %d:%02d", t.Day(), int(t.Month()), t.Hour(), t.Minute())
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
