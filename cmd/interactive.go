package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/tui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the interactive TUI",
	Long:  `Browse the cached courses, open share codes, export selections and view dining menus interactively.`,
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

		st, backend, closeBackend, err := openStore(context.Background(), cfg, log)
		if err != nil {
			return err
		}
		defer closeBackend()

		return tui.Run(&tui.App{
			Config:     cfg,
			ConfigPath: cfgFile,
			Store:      st,
			Backend:    backend,
			Menus:      menuClient(cfg),
		})
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
