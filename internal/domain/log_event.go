package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// PageNextSong marks an event as a song play.
const PageNextSong = "NextSong"

// LogEvent is one line of the activity log, restricted to the keys the
// warehouse loads. Other keys (auth, method, status, ...) are ignored.
type LogEvent struct {
	Artist    *string     `json:"artist"`
	FirstName *string     `json:"firstName"`
	Gender    *string     `json:"gender"`
	LastName  *string     `json:"lastName"`
	Length    *float64    `json:"length"`
	Level     *string     `json:"level"`
	Location  *string     `json:"location"`
	Page      string      `json:"page"`
	SessionID *FlexString `json:"sessionId"`
	Song      *string     `json:"song"`
	TS        *int64      `json:"ts"`
	UserAgent *string     `json:"userAgent"`
	UserID    *FlexString `json:"userId"`
}

// IsSongPlay reports whether the event records a track being played.
func (e LogEvent) IsSongPlay() bool {
	return e.Page == PageNextSong
}

// StartTime converts the millisecond epoch timestamp to a timezone-naive (UTC)
// datetime. It returns false when the timestamp is missing or out of range.
func (e LogEvent) StartTime() (time.Time, bool) {
	if e.TS == nil {
		return time.Time{}, false
	}
	t := time.UnixMilli(*e.TS).UTC()
	if t.Year() < 1 || t.Year() > 9999 {
		return time.Time{}, false
	}
	return t, true
}

// FlexString decodes a JSON string or number into its textual form.
// The log dataset is not consistent about how ids are typed.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = FlexString(num.String())
	return nil
}

// Ptr returns the value as a *string, nil for a nil receiver.
func (s *FlexString) Ptr() *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
