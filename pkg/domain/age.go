package domain

import "time"

// DateLayout is the day/month/year layout used for every date field.
const DateLayout = "02/01/2006"

// ComputeAge returns the age in whole years on asOf for a birth date in
// DateLayout. Unparseable or future birth dates report false.
func ComputeAge(birthDate string, asOf time.Time) (int, bool) {
	birth, err := time.Parse(DateLayout, birthDate)
	if err != nil {
		return 0, false
	}
	age := asOf.Year() - birth.Year()
	if asOf.Month() < birth.Month() || (asOf.Month() == birth.Month() && asOf.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }
