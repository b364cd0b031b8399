package consensus

import (
	"strconv"
	"strings"
)

const dayPrefix = "D"

// PreviousDay returns the day before day ("D3" -> "D2"). The first day,
// and any label not of the form D<n>, has no previous day.
func PreviousDay(day string) (string, bool) {
	n, ok := DayNumber(day)
	if !ok || n <= 1 {
		return "", false
	}
	return dayPrefix + strconv.Itoa(n-1), true
}

// DayNumber extracts n from a day label D<n>.
func DayNumber(day string) (int, bool) {
	if !strings.HasPrefix(day, dayPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(day[len(dayPrefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
