package services

import "time"

// Calendar is the business-day collaborator the activity feed consults.
// Holiday-aware implementations live outside fern.
type Calendar interface {
	IsBusinessDay(t time.Time) bool
}

// WeekdayCalendar is the default calendar: weekdays are business days.
type WeekdayCalendar struct{}

func (WeekdayCalendar) IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}
