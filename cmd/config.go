package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the fivec configuration",
	Long:  "Print the effective configuration (defaults, config file and FIVEC_* environment), set a single key, or edit settings interactively.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if set, _ := cmd.Flags().GetString("set"); set != "" {
			key, value, ok := strings.Cut(set, "=")
			if !ok || key == "" {
				return fmt.Errorf("--set expects key=value, got %q", set)
			}
			if err := config.Set(cfgFile, key, value); err != nil {
				return err
			}
			// validate the file as written
			if _, err := config.Load(cfgFile); err != nil {
				return err
			}
			fmt.Printf("✅ %s saved\n", key)
			return nil
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		if edit, _ := cmd.Flags().GetBool("edit"); edit {
			return tui.RunConfigTUI(&tui.App{Config: cfg, ConfigPath: cfgFile})
		}

		tui.PrintConfig(cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().String("set", "", "set a single key, e.g. --set update.interval=120s")
	configCmd.Flags().BoolP("edit", "e", false, "edit settings interactively")
}
