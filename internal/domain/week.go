package domain

import "time"

// DateLayout is the wire format for week-start and end dates.
const DateLayout = "2006-01-02"

// WeekStartOf returns the Monday of the week containing t, as an ISO date
// string. Weeks are Monday-anchored; ISO strings order lexicographically.
func WeekStartOf(t time.Time) string {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -daysSinceMonday).Format(DateLayout)
}

// PrevWeekStart returns the Monday one week before the given week start.
func PrevWeekStart(weekStart string) (string, error) {
	t, err := ParseDate(weekStart)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -7).Format(DateLayout), nil
}

// WeekEnd returns the Sunday of the week beginning at weekStart.
func WeekEnd(weekStart string) (string, error) {
	t, err := ParseDate(weekStart)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 6).Format(DateLayout), nil
}

// ParseDate parses an ISO date, reporting ErrInvalidDate on malformed input.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// DaysUntil returns the whole days from now until the given end date,
// clamped to zero once the date has passed.
func DaysUntil(now time.Time, endDate string) (int, error) {
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, err
	}
	today, _ := ParseDate(now.Format(DateLayout))
	days := int(end.Sub(today).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, nil
}

// WeeksUntil returns the whole weeks from now until the given end date,
// floor-rounded and never negative.
func WeeksUntil(now time.Time, endDate string) (int, error) {
	days, err := DaysUntil(now, endDate)
	if err != nil {
		return 0, err
	}
	return days / 7, nil
}
