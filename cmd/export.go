package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/exporter"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a shared course list to an ICS or XLSX file",
	Long:  `Export the courses behind a share code without using the interactive TUI. The format follows the output file extension.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("code")
		output, _ := cmd.Flags().GetString("output")
		startStr, _ := cmd.Flags().GetString("start")
		weeks, _ := cmd.Flags().GetInt("weeks")

		start := time.Now()
		if startStr != "" {
			var err error
			start, err = time.Parse("2006-01-02", startStr)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", startStr, err)
			}
		}
		if weeks <= 0 {
			return fmt.Errorf("weeks must be positive")
		}
		end := start.AddDate(0, 0, weeks*7-1)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		log, err := cliLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		st, _, closeBackend, err := openStore(context.Background(), cfg, log)
		if err != nil {
			return err
		}
		defer closeBackend()

		list, ok := st.LookupCode(code)
		if !ok {
			return fmt.Errorf("no course list found for code %s", code)
		}
		courses := append(list.LocalCourses, list.CustomCourses...)
		if len(courses) == 0 {
			return fmt.Errorf("code %s holds no courses", code)
		}

		_ = spinner.New().
			Title(fmt.Sprintf("Exporting %d courses to %s...", len(courses), output)).
			Action(func() {
				err = exporter.WriteFile(output, courses, start, end)
			}).
			Run()
		if err != nil {
			return err
		}

		fmt.Printf("Successfully exported %d courses to %s\n", len(courses), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("code", "c", "", "share code to export")
	exportCmd.Flags().StringP("output", "o", "schedule.ics", "output file path (.ics or .xlsx)")
	exportCmd.Flags().String("start", "", "first day of classes, YYYY-MM-DD (default today)")
	exportCmd.Flags().Int("weeks", 15, "number of weeks the term runs")
	exportCmd.MarkFlagRequired("code")
}
