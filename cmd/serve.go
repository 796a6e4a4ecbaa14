package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/api"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the update loop and the HTTP API",
	Long: `Restore the last snapshot and share codes, keep refreshing course data in the
background and serve it over HTTP until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}

		log, err := logger.New(&cfg.Log)
		if err != nil {
			return err
		}
		defer log.Sync()

		log.Info("starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("storage", cfg.Storage.Backend),
			zap.Duration("interval", cfg.Update.Interval),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		st, backend, closeBackend, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeBackend()

		snap := st.Snapshot()
		log.Info("restored snapshot",
			zap.String("term", snap.Term),
			zap.Int("courses", len(snap.Courses)),
			zap.Int("codes", st.Codes().Len()),
		)

		upd := newUpdater(cfg, st, backend, log)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			upd.Run(ctx)
		}()

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      api.Setup(&cfg.Server, st, log),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		var serveErr error
		select {
		case sig := <-quit:
			log.Info("shutting down", zap.String("signal", sig.String()))
		case serveErr = <-errCh:
			log.Error("http server failed", zap.Error(serveErr))
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}

		// stop the update loop before the final save
		cancel()
		wg.Wait()

		if err := st.Save(shutdownCtx, backend); err != nil {
			log.Error("final save failed", zap.Error(err))
		}

		log.Info("server stopped")
		return serveErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (overrides server.port)")
}
