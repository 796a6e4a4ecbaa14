package scraper

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/source"
)

// Column order of the course search results table
const (
	colCode = iota
	colTitle
	colSeats
	colStatus
	colCredits
	colTimings
	colInstructors
	colNotes
	numColumns
)

// ScheduleScraper reads the consortium course search results page
type ScheduleScraper struct {
	client *Client
	url    string
}

func NewScheduleScraper(client *Client, url string) *ScheduleScraper {
	return &ScheduleScraper{client: client, url: url}
}

// FetchSchedule downloads and parses the live schedule
func (s *ScheduleScraper) FetchSchedule(ctx context.Context) (source.ScheduleBatch, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return source.ScheduleBatch{}, err
	}
	defer resp.Body.Close()

	return ParseSchedule(resp.Body)
}

// ParseSchedule extracts every section row from the results table. Rows whose
// course code cannot be normalized are skipped and counted.
func ParseSchedule(r io.Reader) (source.ScheduleBatch, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return source.ScheduleBatch{}, err
	}

	batch := source.ScheduleBatch{Term: parseTerm(doc)}

	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < numColumns {
			return // header or spacer row
		}

		rec, err := parseRow(cells)
		if err != nil {
			batch.Skipped++
			return
		}
		batch.Records = append(batch.Records, rec)
	})

	return batch, nil
}

func parseRow(cells *goquery.Selection) (course.ScheduleRecord, error) {
	cell := func(i int) *goquery.Selection { return cells.Eq(i) }

	id, err := course.NormalizeFields(strings.TrimSpace(cell(colCode).Text()))
	if err != nil {
		return course.ScheduleRecord{}, err
	}

	rec := course.ScheduleRecord{
		Identifier: id,
		Title:      collapse(cell(colTitle).Text()),
		Seats:      parseSeats(cell(colSeats).Text()),
		Status:     course.ParseStatus(strings.TrimSpace(cell(colStatus).Text())),
		Notes:      collapse(cell(colNotes).Text()),
	}

	home := course.SchoolFromCode(id.SchoolSuffix)
	rec.Credits, rec.CreditsHMC = course.ConvertCredits(parseCredits(cell(colCredits).Text()), home)

	for _, line := range lines(cell(colTimings)) {
		if t, ok := parseTiming(line); ok {
			rec.Timings = append(rec.Timings, t)
		}
	}
	for _, line := range lines(cell(colInstructors)) {
		rec.Instructors = append(rec.Instructors, instructorName(line))
	}

	return rec, nil
}

// parseSeats reads "taken/max"
func parseSeats(s string) course.Seats {
	takenStr, maxStr, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return course.Seats{}
	}
	taken, _ := strconv.Atoi(strings.TrimSpace(takenStr))
	maxSeats, _ := strconv.Atoi(strings.TrimSpace(maxStr))

	remaining := maxSeats - taken
	if remaining < 0 {
		remaining = 0
	}
	return course.Seats{Max: maxSeats, Taken: taken, Remaining: remaining}
}

// parseCredits returns hundredths, so "1.50" is 150
func parseCredits(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f * 100))
}

// parseTiming reads "MW 01:15PM-02:30PM / HM, Shanahan Center, B460".
// Lines without days or times (TBA, arranged) are rejected.
func parseTiming(line string) (course.Timing, bool) {
	when, where, _ := strings.Cut(line, "/")

	fields := strings.Fields(when)
	if len(fields) < 2 {
		return course.Timing{}, false
	}
	days := course.ParseDays(fields[0])
	startStr, endStr, ok := strings.Cut(strings.Join(fields[1:], ""), "-")
	if len(days) == 0 || !ok {
		return course.Timing{}, false
	}
	start, err := course.ParseClock(startStr)
	if err != nil {
		return course.Timing{}, false
	}
	end, err := course.ParseClock(endStr)
	if err != nil {
		return course.Timing{}, false
	}

	t := course.Timing{Days: days, Start: start, End: end}

	parts := strings.SplitN(where, ",", 3)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 0 {
		t.Location.School = course.SchoolFromCode(parts[0])
	}
	if len(parts) > 1 {
		t.Location.Building = parts[1]
	}
	if len(parts) > 2 {
		t.Location.Room = parts[2]
	}
	return t, true
}

// instructorName turns "Lovelace, Ada" into "Ada Lovelace"
func instructorName(s string) string {
	last, first, ok := strings.Cut(s, ",")
	if !ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprintf("%s %s", strings.TrimSpace(first), strings.TrimSpace(last))
}

// lines returns the non-empty text nodes of a cell, which the site separates with <br>
func lines(sel *goquery.Selection) []string {
	var out []string
	sel.Contents().Each(func(_ int, n *goquery.Selection) {
		if len(n.Nodes) == 0 {
			return
		}
		var text string
		if n.Nodes[0].Type == html.TextNode {
			text = n.Nodes[0].Data
		} else if goquery.NodeName(n) != "br" {
			text = n.Text()
		}
		if text = collapse(text); text != "" {
			out = append(out, text)
		}
	})
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
