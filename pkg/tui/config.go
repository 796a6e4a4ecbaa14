package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
)

// RunConfigTUI shows the settings menu until the user goes back
func RunConfigTUI(app *App) error {
	for {
		var action string

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(app.Theme())

		if err := form.Run(); err != nil {
			return err
		}

		switch action {
		case "back":
			return nil
		case "theme":
			if err := runSetThemeTUI(app); err != nil {
				return err
			}
		case "view":
			PrintConfig(app.Config)
		}
	}
}

// PrintConfig prints the settings a user is most likely to look for
func PrintConfig(cfg *config.Config) {
	fmt.Println(accentStyle.Render("\n--- Current Configuration ---"))
	fmt.Printf("Server:          :%d (%s)\n", cfg.Server.Port, cfg.Server.Mode)
	fmt.Printf("Update interval: %s (+ up to %s)\n", cfg.Update.Interval, cfg.Update.Jitter)
	fmt.Printf("Storage:         %s\n", storageLabel(cfg))
	fmt.Printf("Schedule source: %s\n", cfg.Sources.ScheduleURL)
	fmt.Printf("Catalogs:        %d schools\n", len(cfg.Sources.CatalogURLs))
	fmt.Printf("Log:             %s, %s\n", cfg.Log.Level, cfg.Log.Format)
	fmt.Printf("Accent Color:    %s\n", cfg.UI.AccentColor)
	fmt.Println()
}

func storageLabel(cfg *config.Config) string {
	if cfg.Storage.Backend == "redis" {
		return fmt.Sprintf("redis %s (prefix %q)", cfg.Redis.Addr, cfg.Redis.Prefix)
	}
	return fmt.Sprintf("files in %s", cfg.Storage.Dir)
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func runSetThemeTUI(app *App) error {
	var input string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color").
				Description("Select a preset or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Sagehen Purple", colorBlock("99")), "99"),
					huh.NewOption(fmt.Sprintf("%s Mudd Gold", colorBlock("214")), "214"),
					huh.NewOption(fmt.Sprintf("%s Pomona Blue", colorBlock("33")), "33"),
					huh.NewOption(fmt.Sprintf("%s Pitzer Orange", colorBlock("208")), "208"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(app.Theme())

	if err := form.Run(); err != nil {
		return err
	}

	if input == "custom" {
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #FF00FF").
					Placeholder("#").
					Value(&input).
					Validate(validHex),
			),
		).WithTheme(app.Theme())

		input = ""
		if err := hexForm.Run(); err != nil {
			return err
		}
	}

	if err := config.Set(app.ConfigPath, "ui.accent_color", input); err != nil {
		return err
	}
	app.Config.UI.AccentColor = input

	fmt.Println(CustomTheme(input).Focused.Title.Render("\n✅ The theme color is now saved.\n"))
	return nil
}

func validHex(s string) error {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return fmt.Errorf("must be a valid 6-character hex code starting with #")
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fmt.Errorf("must be a valid 6-character hex code starting with #")
		}
	}
	return nil
}
