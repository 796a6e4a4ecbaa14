package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/menu"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "View the dining menus of a school",
	Long:  `Fetch and display the dining hall menus for one of the Claremont Colleges.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("school")
		date, _ := cmd.Flags().GetString("date")

		school := course.SchoolFromCode(code)
		if school == course.NA {
			return fmt.Errorf("unknown school %q, use one of CM, PZ, PO, HM, SC", code)
		}
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		client := menuClient(cfg)

		var m *menu.SchoolMenu
		_ = spinner.New().
			Title(fmt.Sprintf("Fetching menus for %s...", school)).
			Action(func() {
				m, err = client.FetchMenu(context.Background(), school)
			}).
			Run()

		if err != nil {
			return fmt.Errorf("could not fetch menu: %w", err)
		}

		tui.PrintMenu(m, date)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
	menuCmd.Flags().StringP("school", "s", "HM", "school code (CM, PZ, PO, HM, SC)")
	menuCmd.Flags().StringP("date", "d", "", "date to show (format: YYYY-MM-DD), defaults to today")
}
