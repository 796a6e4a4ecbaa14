package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

const (
	coursesSheet  = "Courses"
	meetingsSheet = "Meetings"
)

var courseHeaders = []string{"Code", "Title", "Instructors", "Credits", "Seats", "Status", "Prerequisites", "Description"}

var meetingHeaders = []string{"Code", "Title", "Days", "Start", "End", "Location"}

// GenerateXLSX writes a workbook with one row per course and one row per
// weekly meeting.
func GenerateXLSX(courses []course.Course, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(coursesSheet)
	if err != nil {
		return fmt.Errorf("could not create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if _, err := f.NewSheet(meetingsSheet); err != nil {
		return fmt.Errorf("could not create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("could not create style: %w", err)
	}

	writeHeader(f, coursesSheet, courseHeaders, headerStyle)
	writeHeader(f, meetingsSheet, meetingHeaders, headerStyle)

	f.SetColWidth(coursesSheet, "A", "A", 18)
	f.SetColWidth(coursesSheet, "B", "C", 30)
	f.SetColWidth(coursesSheet, "G", "H", 60)
	f.SetColWidth(meetingsSheet, "A", "B", 24)
	f.SetColWidth(meetingsSheet, "F", "F", 36)

	row := 2
	for _, c := range courses {
		setRow(f, coursesSheet, row,
			c.Key(),
			c.Title,
			strings.Join(c.Instructors, ", "),
			float64(c.Credits)/100,
			fmt.Sprintf("%d/%d", c.Seats.Taken, c.Seats.Max),
			string(c.Status),
			c.Prerequisites,
			c.Description,
		)
		row++
	}

	row = 2
	for _, c := range courses {
		for _, t := range c.Timings {
			days := make([]string, len(t.Days))
			for i, d := range t.Days {
				days[i] = string(d)
			}
			setRow(f, meetingsSheet, row,
				c.Key(),
				c.Title,
				strings.Join(days, ""),
				t.Start.String(),
				t.End.String(),
				location(t.Location),
			)
			row++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("could not write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	setRow(f, sheet, 1, values...)

	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}
