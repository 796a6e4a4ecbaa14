package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/tui"
)

var codeCmd = &cobra.Command{
	Use:   "code <CODE>",
	Short: "Look up a share code",
	Long:  `Print the course list registered under a share code in the persisted registry.`,
	Args:  cobra.ExactArgs(1),
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

		st, _, closeBackend, err := openStore(context.Background(), cfg, log)
		if err != nil {
			return err
		}
		defer closeBackend()

		list, ok := st.LookupCode(args[0])
		if !ok {
			return fmt.Errorf("no course list found for code %s", args[0])
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		}

		tui.PrintSharedList(list)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(codeCmd)
	codeCmd.Flags().Bool("json", false, "print the list as JSON")
}
