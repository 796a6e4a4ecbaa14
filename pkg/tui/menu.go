package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/menu"
)

// RunMenuTUI asks for a school and prints today's menus
func RunMenuTUI(app *App) error {
	var code string

	options := make([]huh.Option[string], 0, len(menu.DiningSchools))
	for _, s := range menu.DiningSchools {
		options = append(options, huh.NewOption(s.String(), s.Code()))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a school").
				Options(options...).
				Value(&code),
		),
	).WithTheme(app.Theme())

	if err := form.Run(); err != nil {
		return err
	}

	school := course.SchoolFromCode(code)
	var m *menu.SchoolMenu
	var err error
	_ = spinner.New().
		Title(fmt.Sprintf("Fetching menus for %s...", school)).
		Action(func() {
			m, err = app.Menus.FetchMenu(context.Background(), school)
		}).
		Run()

	if err != nil {
		return fmt.Errorf("could not fetch menu: %w", err)
	}

	PrintMenu(m, time.Now().Format(dateLayout))
	return nil
}

// PrintMenu prints every cafe's meals for date
func PrintMenu(m *menu.SchoolMenu, date string) {
	titleStyle := accentStyle.Bold(true).Padding(1, 0)
	stationStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dietStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s dining for %s", m.School, date)))

	printed := false
	for _, cafe := range m.Cafes {
		menus := MenusOn(cafe, date)
		if len(menus) == 0 {
			continue
		}
		printed = true

		fmt.Println(accentStyle.Render(cafe.Name))
		for _, meal := range menus {
			fmt.Printf("  %s %s\n", meal.TimeSlot, stationStyle.Render(fmt.Sprintf("(%s-%s)", meal.Opens, meal.Closes)))
			for _, st := range meal.Stations {
				names := make([]string, 0, len(st.Meals))
				for _, item := range st.Meals {
					name := item.Name
					if len(item.Dietary) > 0 {
						name += dietStyle.Render(fmt.Sprintf(" [%s]", strings.Join(item.Dietary, ", ")))
					}
					names = append(names, name)
				}
				fmt.Printf("    %s %s\n", stationStyle.Render(st.Name+":"), strings.Join(names, "; "))
			}
		}
		fmt.Println()
	}

	if !printed {
		fmt.Println("No meals available for this date.")
	}
}

// MenusOn returns the meal periods a cafe serves on date
func MenusOn(cafe menu.Cafe, date string) []menu.Menu {
	for _, d := range cafe.DayMenus {
		if d.Date == date {
			return d.Menus
		}
	}
	return nil
}
