// Package tui is the interactive front end over the cached snapshot, the
// share-code registry and the dining menus.
package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/menu"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/store"
)

const defaultAccent = "99"

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// App is what the forms read from and write to
type App struct {
	Config     *config.Config
	ConfigPath string
	Store      *store.Store
	Backend    store.Backend
	Menus      *menu.Client
}

// Theme builds the form theme from the configured accent color and updates
// the accent used for plain output.
func (a *App) Theme() *huh.Theme {
	accent := defaultAccent
	if a.Config != nil && a.Config.UI.AccentColor != "" {
		accent = a.Config.UI.AccentColor
	}
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(accent))
	return CustomTheme(accent)
}

// CustomTheme returns a theme for baseColor. Used directly for previews
// before a color is saved.
func CustomTheme(baseColor string) *huh.Theme {
	t := huh.ThemeCharm()
	p := lipgloss.Color(baseColor)

	t.Focused.Title = t.Focused.Title.Foreground(p).Bold(true)
	t.Focused.Base = t.Focused.Base.Border(lipgloss.RoundedBorder()).BorderForeground(p).Padding(0, 1)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(p)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(p)
	t.Focused.UnselectedPrefix = t.Focused.UnselectedPrefix.Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "235"})
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(p)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(p)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(p)

	t.Blurred.Base = t.Blurred.Base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	return t
}

// Run shows the main menu
func Run(app *App) error {
	var action string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(
					huh.NewOption("📅 Browse courses and export", "schedule"),
					huh.NewOption("🔗 Open a share code", "code"),
					huh.NewOption("🍔 View dining menus", "menu"),
					huh.NewOption("⚙️ Settings", "config"),
				).
				Value(&action),
		),
	).WithTheme(app.Theme())

	if err := form.Run(); err != nil {
		return err
	}

	switch action {
	case "code":
		return RunCodeTUI(app)
	case "menu":
		return RunMenuTUI(app)
	case "config":
		return RunConfigTUI(app)
	}
	return RunScheduleTUI(app, app.Store.Courses(), nil)
}
