package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

// WriteFile picks the format from the extension of path: .ics or .xlsx
func WriteFile(path string, courses []course.Course, start, end time.Time) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ics" && ext != ".xlsx" {
		return fmt.Errorf("unsupported export format %q, use .ics or .xlsx", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if ext == ".xlsx" {
		err = GenerateXLSX(courses, file)
	} else {
		err = GenerateICS(courses, start, end, file)
	}
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", ext, err)
	}
	return nil
}
