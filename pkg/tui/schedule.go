package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/exporter"
)

const dateLayout = "2006-01-02"

// RunScheduleTUI lets the user pick courses, export them and optionally
// register them under a share code. Keys in preselected start checked.
func RunScheduleTUI(app *App, courses []course.Course, preselected map[string]bool) error {
	if len(courses) == 0 {
		fmt.Println(errorStyle.Render("No courses cached yet. Run `fivec refresh` first."))
		return nil
	}

	options := make([]huh.Option[string], 0, len(courses))
	for _, c := range courses {
		opt := huh.NewOption(courseLabel(c), c.Key())
		if preselected[c.Key()] {
			opt = opt.Selected(true)
		}
		options = append(options, opt)
	}

	var (
		selected   []string
		outputFile = "schedule.ics"
		startStr   = time.Now().Format(dateLayout)
		weeksStr   = "15"
		share      bool
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select courses").
				Description("Space = toggle, Enter = confirm. Start typing to filter.").
				Options(options...).
				Value(&selected).
				Filterable(true).
				Height(12),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Output file (.ics or .xlsx)").
				Value(&outputFile).
				Validate(func(s string) error {
					if !strings.HasSuffix(s, ".ics") && !strings.HasSuffix(s, ".xlsx") {
						return fmt.Errorf("file name must end in .ics or .xlsx")
					}
					return nil
				}),
			huh.NewInput().
				Title("First day of classes").
				Description("YYYY-MM-DD").
				Value(&startStr).
				Validate(func(s string) error {
					_, err := time.Parse(dateLayout, s)
					return err
				}),
			huh.NewInput().
				Title("Weeks in term").
				Value(&weeksStr).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n <= 0 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Create a share code for this selection?").
				Value(&share),
		),
	).WithTheme(app.Theme())

	if err := form.Run(); err != nil {
		return err
	}

	picked := pickCourses(courses, selected)
	if len(picked) == 0 {
		fmt.Println(errorStyle.Render("No courses selected!"))
		return nil
	}

	start, _ := time.Parse(dateLayout, startStr)
	weeks, _ := strconv.Atoi(weeksStr)
	end := termEnd(start, weeks)

	if err := exporter.WriteFile(outputFile, picked, start, end); err != nil {
		return err
	}
	fmt.Println(accentStyle.Render(fmt.Sprintf("\nSuccess! Exported %d courses to %s", len(picked), outputFile)))

	if !share {
		return nil
	}

	code, err := app.Store.AssignCode(course.SharedCourseList{LocalCourses: picked})
	if err != nil {
		return fmt.Errorf("could not create share code: %w", err)
	}

	if app.Backend != nil {
		var saveErr error
		_ = spinner.New().
			Title("Saving share code...").
			Action(func() {
				saveErr = app.Store.Save(context.Background(), app.Backend)
			}).
			Run()
		if saveErr != nil {
			return fmt.Errorf("could not save share code: %w", saveErr)
		}
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("Share code: %s", code)))
	return nil
}

func courseLabel(c course.Course) string {
	label := fmt.Sprintf("%-16s %s", c.Key(), c.Title)
	if len(c.Instructors) > 0 {
		label += mutedStyle.Render(" · " + strings.Join(c.Instructors, ", "))
	}
	return label
}

// pickCourses keeps the courses whose keys were selected, in catalog order
func pickCourses(courses []course.Course, keys []string) []course.Course {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	var picked []course.Course
	for _, c := range courses {
		if want[c.Key()] {
			picked = append(picked, c)
		}
	}
	return picked
}

// termEnd is the last day of a term of weeks weeks starting on start
func termEnd(start time.Time, weeks int) time.Time {
	return start.AddDate(0, 0, weeks*7-1)
}
