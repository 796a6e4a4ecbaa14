package course

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Day is a weekday encoded by its single character code
type Day string

const (
	Monday    Day = "M"
	Tuesday   Day = "T"
	Wednesday Day = "W"
	Thursday  Day = "R"
	Friday    Day = "F"
	Saturday  Day = "S"
	Sunday    Day = "U"
)

// ParseDays reads a string such as "MWF" or "TR". Unknown characters are ignored.
func ParseDays(s string) []Day {
	var days []Day
	for _, r := range strings.ToUpper(s) {
		switch Day(string(r)) {
		case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
			days = append(days, Day(string(r)))
		}
	}
	return days
}

// Index returns 0 for Monday through 6 for Sunday, -1 if unknown
func (d Day) Index() int {
	return strings.Index("MTWRFSU", string(d))
}

// Weekday converts to the time package representation
func (d Day) Weekday() time.Weekday {
	switch d {
	case Sunday:
		return time.Sunday
	case Monday:
		return time.Monday
	case Tuesday:
		return time.Tuesday
	case Wednesday:
		return time.Wednesday
	case Thursday:
		return time.Thursday
	case Friday:
		return time.Friday
	}
	return time.Saturday
}

// Clock is a time of day in minutes since midnight, serialized as "HH:MM"
type Clock int

// ParseClock accepts "15:04", "3:04PM" and "03:04 PM"
func ParseClock(s string) (Clock, error) {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, layout := range []string{"15:04", "3:04PM", "03:04PM", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Location is where a section meets
type Location struct {
	School   School `json:"school"`
	Building string `json:"building"`
	Room     string `json:"room"`
}

// Key identifies a building across all rooms, e.g. "HarveyMudd-Shanahan Center"
func (l Location) Key() string {
	return fmt.Sprintf("%s-%s", l.School, l.Building)
}

// Timing is one recurring weekly meeting of a section
type Timing struct {
	Days     []Day    `json:"days"`
	Start    Clock    `json:"start_time"`
	End      Clock    `json:"end_time"`
	Location Location `json:"location"`
}
