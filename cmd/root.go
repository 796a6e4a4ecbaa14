package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/geocode"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/logger"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/menu"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/reconcile"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/scraper"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/store"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/updater"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fivec",
	Short: "Course data server and CLI for the Claremont Colleges",
	Long: `fivec keeps an up-to-date copy of the Claremont Colleges course schedule,
enriched with catalog descriptions, and serves it to the 5C scheduler.
It also hands out share codes for course lists and exports selections
to calendar or spreadsheet files.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.fivec.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show info logs on the console")
}

// cliLogger logs to the console at warn level unless --verbose is set.
// The server keeps the configured format and level.
func cliLogger(cfg *config.Config) (*zap.Logger, error) {
	lc := cfg.Log
	lc.Format = "console"
	if !verbose {
		lc.Level = "warn"
	}
	return logger.New(&lc)
}

// openStore connects the configured backend and warm-starts a store from it.
// Unreadable data is logged and left empty.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store.Store, store.Backend, func() error, error) {
	backend, closeFn, err := store.Open(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	st := store.New()
	if err := st.Load(ctx, backend); err != nil {
		log.Warn("could not fully restore persisted data", zap.Error(err))
	}
	return st, backend, closeFn, nil
}

func menuClient(cfg *config.Config) *menu.Client {
	return menu.NewClient(cfg.Sources.MenuURL, cfg.Sources.UserAgent)
}

// newUpdater wires every upstream adapter into an updater for st
func newUpdater(cfg *config.Config, st *store.Store, backend store.Backend, log *zap.Logger) *updater.Updater {
	client := scraper.NewClient(cfg.Sources.UserAgent, cfg.Sources.Timeout)

	sources := updater.Sources{
		Schedule:  scraper.NewScheduleScraper(client, cfg.Sources.ScheduleURL),
		Catalogs:  scraper.NewCatalogs(client, cfg.Sources.CatalogURLs, cfg.Sources.MaxCatalogPages),
		Menus:     menuClient(cfg),
		Locations: geocode.NewClient(cfg.Sources.GeocodeURL, cfg.Sources.UserAgent, log),
	}

	engine := reconcile.NewEngine(reconcile.NewStrutilScorer())
	engine.MinScore = cfg.Match.MinScore

	return updater.New(cfg.Update, st, backend, sources, engine, log)
}
