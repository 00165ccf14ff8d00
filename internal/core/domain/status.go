package domain

import "time"

type ElectionStatus string

const (
	StatusUpcoming ElectionStatus = "upcoming"
	StatusActive   ElectionStatus = "active"
	StatusClosed   ElectionStatus = "closed"
)

func (s ElectionStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusClosed:
		return true
	}
	return false
}

// ResolveStatus maps an election date to its status as seen on the calendar
// day of now. Only the year, month and day of electionDate are significant:
// they are read in electionDate's own location (DATE columns come back as
// UTC midnight), while today is taken from now in now's location.
func ResolveStatus(electionDate, now time.Time) ElectionStatus {
	election := CalendarDay(electionDate)
	today := CalendarDay(now)

	switch {
	case today.Before(election):
		return StatusUpcoming
	case today.Equal(election):
		return StatusActive
	default:
		return StatusClosed
	}
}

// CalendarDay truncates t to its calendar date, expressed as UTC midnight so
// that two days compare with Equal/Before regardless of the source zone.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateLayout is the wire format of election dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD election date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ValidationError("election_date must be formatted as %s", DateLayout)
	}
	return t, nil
}
