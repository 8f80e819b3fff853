package entity

import "time"

// CalendarEvent is the calendar representation of a flight
type CalendarEvent struct {
	Summary     string
	Description string
	Start       time.Time
	StartZone   string
	End         time.Time
	EndZone     string
}
