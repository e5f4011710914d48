package model

import (
	"fmt"
	"strconv"
	"time"
)

// Period identifies one budgeting cycle: a year and a full month name.
type Period struct {
	Year  string // "YYYY"
	Month string // "January".."December"
}

// MonthNames lists the twelve canonical month names in calendar order.
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var monthIndex = func() map[string]int {
	m := make(map[string]int, len(MonthNames))
	for i, name := range MonthNames {
		m[name] = i + 1
	}
	return m
}()

// ValidMonth reports whether name is one of the canonical month names.
// Month names are case-sensitive.
func ValidMonth(name string) bool {
	_, ok := monthIndex[name]
	return ok
}

// CurrentPeriod returns the period containing now.
func CurrentPeriod(now time.Time) Period {
	return Period{
		Year:  strconv.Itoa(now.Year()),
		Month: now.Month().String(),
	}
}

// Validate checks that the year is a four-digit number and the month is a
// canonical month name.
func (p Period) Validate() error {
	if len(p.Year) != 4 {
		return fmt.Errorf("invalid year %q: expected YYYY", p.Year)
	}
	for i := 0; i < len(p.Year); i++ {
		if p.Year[i] < '0' || p.Year[i] > '9' {
			return fmt.Errorf("invalid year %q: expected YYYY", p.Year)
		}
	}
	if !ValidMonth(p.Month) {
		return fmt.Errorf("invalid month %q: expected a full month name", p.Month)
	}
	return nil
}

func (p Period) String() string {
	return p.Month + " " + p.Year
}
