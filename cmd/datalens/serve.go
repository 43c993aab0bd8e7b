package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/datalens-io/datalens/internal/ai"
	"github.com/datalens-io/datalens/internal/api"
	"github.com/datalens-io/datalens/internal/logging"
	"github.com/datalens-io/datalens/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the DataLens HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return errors.New("configuration not loaded")
		}
		if cfg.APIKey == "" {
			return errors.New("provider API key is missing: set DATALENS_API_KEY or api_key in the config file")
		}

		log := logging.New()
		defer func() { _ = log.Sync() }()

		client := ai.NewClientWithBaseURL(
			cfg.APIKey,
			time.Duration(cfg.HTTPTimeoutSec)*time.Second,
			cfg.RetryMaxAttempts,
			time.Duration(cfg.RetryBaseDelayMs)*time.Millisecond,
			time.Duration(cfg.RetryMaxDelayMs)*time.Millisecond,
			cfg.ProviderBaseURL,
		)
		analyst := ai.NewAnalyst(client, cfg.Model)
		st := store.New()

		srv := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: api.NewRouter(st, analyst, log),
		}

		errCh := make(chan error, 1)
		go func() {
			log.Infow("server listening", "addr", cfg.ListenAddr, "model", cfg.Model)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			log.Infow("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
