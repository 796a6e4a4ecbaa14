package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/updater"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run a single update cycle and persist the result",
	Long: `Fetch the schedule and every ancillary source once, reconcile them and save
the snapshot, without starting the HTTP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		log, err := cliLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := context.Background()
		st, backend, closeBackend, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeBackend()

		upd := newUpdater(cfg, st, backend, log)

		var rep updater.CycleReport
		_ = spinner.New().
			Title("Fetching schedule, catalogs, menus and locations...").
			Action(func() {
				rep = upd.RunCycle(ctx)
			}).
			Run()

		if rep.ScheduleErr != nil {
			return fmt.Errorf("refresh failed: %w", rep.ScheduleErr)
		}

		printReport(rep, len(st.Courses()))
		return nil
	},
}

func printReport(rep updater.CycleReport, courses int) {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true).Padding(1, 0)
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("Term %s", rep.Term)))

	changed := "unchanged"
	if rep.Published {
		changed = "updated"
	}
	fmt.Printf("%d courses %s %s\n", courses, changed, mutedStyle.Render(fmt.Sprintf("(%d rows skipped)", rep.Skipped)))
	fmt.Printf("Catalog matches: %d exact, %d by code, %d fuzzy, %d unmatched\n",
		rep.Stats.Exact, rep.Stats.Contained, rep.Stats.Fuzzy, rep.Stats.Unmatched)

	if len(rep.Fetched) > 0 {
		fmt.Println(okStyle.Render("Fetched: " + joinKinds(rep.Fetched)))
	}
	if len(rep.Failed) > 0 {
		fmt.Println(warnStyle.Render("Failed: " + joinKinds(rep.Failed)))
	}
}

func joinKinds(kinds []updater.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
