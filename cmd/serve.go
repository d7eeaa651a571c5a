package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/riskscan/internal/logging"
	"github.com/abhisek/riskscan/internal/server"
	"github.com/abhisek/riskscan/internal/store"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessment HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if serveListen != "" {
			cfg.Server.Listen = serveListen
		}

		cat, bands, err := loadEngine(cfg)
		if err != nil {
			return err
		}

		logger := logging.NewJSON(logging.ParseLevel(cfg.Log.Level))

		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		var registry server.Registry
		if cfg.Server.RedisAddr != "" {
			registry = server.NewRedisRegistry(cfg.Server.RedisAddr,
				server.WithRedisTTL(cfg.Server.SessionTTL))
			logger.Info("session registry", "backend", "redis", "addr", cfg.Server.RedisAddr)
		} else {
			registry = server.NewMemoryRegistry(cfg.Server.SessionTTL)
			logger.Info("session registry", "backend", "memory")
		}

		srv := server.New(server.Params{
			Catalog:   cat,
			Bands:     bands,
			Registry:  registry,
			Responses: st.ResponseRepo(),
			Results:   st.ResultRepo(),
			Logger:    logger,
		})

		httpSrv := &http.Server{
			Addr:              cfg.Server.Listen,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", cfg.Server.Listen)
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
}
