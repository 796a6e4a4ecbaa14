package course

import (
	"encoding/json"
	"sort"
	"time"
)

// Status is the enrollment state of a section
type Status string

const (
	Open     Status = "Open"
	Closed   Status = "Closed"
	Reopened Status = "Reopened"
)

// ParseStatus maps the feed's status text, defaulting to Closed
func ParseStatus(s string) Status {
	switch s {
	case "Open", "open", "O":
		return Open
	case "Reopened", "reopened", "R":
		return Reopened
	}
	return Closed
}

// Seats tracks section capacity
type Seats struct {
	Max       int `json:"max"`
	Taken     int `json:"taken"`
	Remaining int `json:"remaining"`
}

// ScheduleRecord is one section as reported by the live schedule feed.
// Credits are in hundredths: 100 is one course credit.
type ScheduleRecord struct {
	Identifier  Identifier `json:"identifier"`
	Title       string     `json:"title"`
	Seats       Seats      `json:"seats"`
	Credits     int        `json:"credits"`
	CreditsHMC  int        `json:"credits_hmc"`
	Status      Status     `json:"status"`
	Timings     []Timing   `json:"timing"`
	Instructors []string   `json:"instructors"`
	Notes       string     `json:"notes"`
}

// School is inferred from the first timing's location, NA when the section has no timings
func (r ScheduleRecord) School() School {
	if len(r.Timings) == 0 {
		return NA
	}
	return r.Timings[0].Location.School
}

// CatalogRecord is one course as published in a school's catalog.
// Its Identifier carries no section.
type CatalogRecord struct {
	Identifier       Identifier `json:"identifier"`
	Title            string     `json:"title"`
	School           School     `json:"source"`
	Description      string     `json:"description"`
	Credits          int        `json:"credits"`
	Instructors      []string   `json:"instructors"`
	Offered          string     `json:"offered"`
	Prerequisites    string     `json:"prerequisites"`
	Corequisites     string     `json:"corequisites"`
	Fee              int        `json:"fee"`
	CurrentlyOffered bool       `json:"currently_offered"`
}

// Course is a schedule record enriched with catalog data
type Course struct {
	ScheduleRecord
	Description   string `json:"description"`
	Prerequisites string `json:"prerequisites"`
	Corequisites  string `json:"corequisites"`
	Fee           int    `json:"fee"`
}

// NewCourse wraps a schedule record with no catalog data attached
func NewCourse(r ScheduleRecord) Course {
	return Course{ScheduleRecord: r}
}

// Key is the identity of the course
func (c Course) Key() string {
	return c.Identifier.Key()
}

// Snapshot is the unit published to readers and persisted for warm restarts
type Snapshot struct {
	Term       string    `json:"term"`
	Courses    []Course  `json:"courses"`
	LastChange time.Time `json:"timestamp"`
}

// Clone returns a deep copy so callers can use it after releasing any lock
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Term: s.Term, LastChange: s.LastChange}
	if s.Courses != nil {
		out.Courses = CloneCourses(s.Courses)
	}
	return out
}

// CloneCourses deep copies the slices held by each course
func CloneCourses(courses []Course) []Course {
	out := make([]Course, len(courses))
	for i, c := range courses {
		c.Instructors = append([]string(nil), c.Instructors...)
		timings := make([]Timing, len(c.Timings))
		for j, t := range c.Timings {
			t.Days = append([]Day(nil), t.Days...)
			timings[j] = t
		}
		if len(c.Timings) == 0 {
			timings = nil
		}
		c.Timings = timings
		out[i] = c
	}
	return out
}

// SharedCourseList is a user's selection, addressed by a share code
type SharedCourseList struct {
	LocalCourses  []Course `json:"local_courses"`
	CustomCourses []Course `json:"custom_courses"`
}

// Normalized returns a copy with both lists sorted by identifier key.
// Two lists are the same selection iff their normalized forms are equal.
func (l SharedCourseList) Normalized() SharedCourseList {
	out := SharedCourseList{
		LocalCourses:  sortedByKey(l.LocalCourses),
		CustomCourses: sortedByKey(l.CustomCourses),
	}
	return out
}

// Fingerprint is the canonical JSON encoding of the normalized list
func (l SharedCourseList) Fingerprint() ([]byte, error) {
	return json.Marshal(l.Normalized())
}

// sortedByKey orders by identifier key. Courses sharing a key are ordered by
// their encoding so the result does not depend on submission order.
func sortedByKey(courses []Course) []Course {
	out := CloneCourses(courses)
	enc := make([]string, len(out))
	for i, c := range out {
		data, _ := json.Marshal(c)
		enc[i] = string(data)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := out[idx[a]].Key(), out[idx[b]].Key()
		if ka != kb {
			return ka < kb
		}
		return enc[idx[a]] < enc[idx[b]]
	})
	sorted := make([]Course, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}

// ConvertCredits takes credits in hundredths on school's own scale and returns
// them on the home scale and on the Harvey Mudd scale, where one course
// credit is three units.
func ConvertCredits(credits int, school School) (home, hmc int) {
	if school == HarveyMudd {
		return credits / 3, credits
	}
	return credits, credits * 3
}
