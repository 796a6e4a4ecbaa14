package exporter

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

func TestGenerateXLSX(t *testing.T) {
	courses := []course.Course{sampleCourse(course.Monday, course.Wednesday)}

	var buf bytes.Buffer
	if err := GenerateXLSX(courses, &buf); err != nil {
		t.Fatalf("GenerateXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("could not open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(coursesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and 1 course row, got %d rows", len(rows))
	}
	if rows[1][0] != "CSCI-070-HM-01" {
		t.Errorf("expected code CSCI-070-HM-01, got %q", rows[1][0])
	}
	if rows[1][4] != "38/40" {
		t.Errorf("expected seats 38/40, got %q", rows[1][4])
	}

	meetings, err := f.GetRows(meetingsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(meetings) != 2 {
		t.Fatalf("expected header and 1 meeting row, got %d rows", len(meetings))
	}
	if meetings[1][2] != "MW" || meetings[1][3] != "13:15" || meetings[1][4] != "14:30" {
		t.Errorf("unexpected meeting row %v", meetings[1])
	}
}
