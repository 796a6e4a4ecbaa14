// Package exporter writes a course selection as a calendar or a spreadsheet.
package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

// Timezone the colleges schedule in
const Timezone = "America/Los_Angeles"

// GenerateICS writes one weekly recurring event per course timing, starting
// on the first matching weekday on or after start and repeating until end.
// Timings without days or with an empty time range are skipped.
func GenerateICS(courses []course.Course, start, end time.Time, w io.Writer) error {
	loc, err := time.LoadLocation(Timezone)
	if err != nil {
		return fmt.Errorf("could not load timezone: %w", err)
	}

	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	until := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, loc).UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRTimezone(Timezone)

	now := time.Now()
	for _, c := range courses {
		for i, t := range c.Timings {
			if len(t.Days) == 0 || t.End <= t.Start {
				continue
			}

			day := firstMeeting(first, t.Days)
			startAt := day.Add(time.Duration(t.Start) * time.Minute)
			endAt := day.Add(time.Duration(t.End) * time.Minute)
			if startAt.After(until) {
				continue
			}

			event := cal.AddEvent(fmt.Sprintf("%s-%d@5scheduler.io", c.Key(), i))
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetModifiedAt(now)
			event.SetStartAt(startAt)
			event.SetEndAt(endAt)
			event.SetSummary(c.Title)
			event.SetLocation(location(t.Location))
			event.SetDescription(description(c))
			event.SetProperty(ics.ComponentPropertyRrule, fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s",
				byDay(t.Days), until.Format("20060102T150405Z")))
		}
	}

	return cal.SerializeTo(w)
}

// firstMeeting returns the first date on or after from that falls on one of days
func firstMeeting(from time.Time, days []course.Day) time.Time {
	for i := 0; i < 7; i++ {
		d := from.AddDate(0, 0, i)
		for _, day := range days {
			if day.Weekday() == d.Weekday() {
				return d
			}
		}
	}
	return from
}

func byDay(days []course.Day) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strings.ToUpper(d.Weekday().String()[:2]))
	}
	return strings.Join(parts, ",")
}

func location(l course.Location) string {
	parts := []string{}
	for _, p := range []string{l.Building, l.Room} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if l.School != course.NA {
		parts = append(parts, l.School.String())
	}
	return strings.Join(parts, ", ")
}

func description(c course.Course) string {
	var b strings.Builder
	b.WriteString(c.Key())
	if len(c.Instructors) > 0 {
		fmt.Fprintf(&b, "\nInstructors: %s", strings.Join(c.Instructors, ", "))
	}
	if c.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", c.Description)
	}
	return b.String()
}
