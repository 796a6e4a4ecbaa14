package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/sharecode"
)

// RunCodeTUI resolves a share code and hands its courses to the export flow
func RunCodeTUI(app *App) error {
	var code string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Share code").
				Description(fmt.Sprintf("%d characters", sharecode.CodeLength)).
				Value(&code).
				Validate(func(s string) error {
					if len(s) != sharecode.CodeLength {
						return fmt.Errorf("codes are %d characters long", sharecode.CodeLength)
					}
					return nil
				}),
		),
	).WithTheme(app.Theme())

	if err := form.Run(); err != nil {
		return err
	}

	list, ok := app.Store.LookupCode(code)
	if !ok {
		fmt.Println(errorStyle.Render(fmt.Sprintf("No course list found for code %s", code)))
		return nil
	}

	PrintSharedList(list)

	courses := append(list.LocalCourses, list.CustomCourses...)
	preselected := make(map[string]bool, len(courses))
	for _, c := range courses {
		preselected[c.Key()] = true
	}
	return RunScheduleTUI(app, courses, preselected)
}

// PrintSharedList prints both halves of a shared selection
func PrintSharedList(list course.SharedCourseList) {
	fmt.Println(accentStyle.Bold(true).Render(fmt.Sprintf("\n%d courses", len(list.LocalCourses))))
	for _, c := range list.LocalCourses {
		fmt.Printf("• %s\n", courseLabel(c))
	}
	if len(list.CustomCourses) > 0 {
		fmt.Println(accentStyle.Bold(true).Render(fmt.Sprintf("\n%d custom courses", len(list.CustomCourses))))
		for _, c := range list.CustomCourses {
			fmt.Printf("• %s\n", courseLabel(c))
		}
	}
	fmt.Println()
}
