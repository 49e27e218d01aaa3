package domain

import "time"

// weekdayNames is indexed by Monday-first weekday number.
var weekdayNames = [7]string{"Mon", "Tues", "Weds", "Thurs", "Fri", "Sat", "Sun"}

// WeekdayName maps a Monday-first weekday (0=Monday) to its abbreviation.
func WeekdayName(weekday int) (string, bool) {
	if weekday < 0 || weekday >= len(weekdayNames) {
		return "", false
	}
	return weekdayNames[weekday], true
}

// MondayFirst renumbers a time.Weekday so that Monday is 0 and Sunday is 6.
func MondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// TimeRow decomposes a play timestamp into calendar fields.
type TimeRow struct {
	StartTime time.Time
	Hour      int
	Day       int
	Week      int
	Month     int
	Year      int
	Weekday   string
}

// NewTimeRow derives the calendar fields of t.
func NewTimeRow(t time.Time) TimeRow {
	_, week := t.ISOWeek()
	name, _ := WeekdayName(MondayFirst(t.Weekday()))
	return TimeRow{
		StartTime: t,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   name,
	}
}

// User is a row of the users dimension.
type User struct {
	UserID    *string
	FirstName *string
	LastName  *string
	Gender    *string
	Level     *string
}

// Songplay is a row of the songplays fact table.
type Songplay struct {
	StartTime *time.Time
	UserID    *string
	Level     *string
	SongID    *string
	ArtistID  *string
	SessionID *string
	Location  *string
	UserAgent *string
}
