package commands

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
	"go.uber.org/zap"

	"github.com/punchamoorthee/bankdash/internal/api"
	"github.com/punchamoorthee/bankdash/internal/logging"
)

var (
	// Serve flags
	addr string
)

// serveCmd runs the web dashboard
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard",
	Long: `Serve the server-rendered dashboard, /health and /metrics.

Examples:
  bankdash serve                       # Listen on :$SERVER_PORT (default 8080)
  bankdash serve --addr 127.0.0.1:9000 # Listen on a specific address
  bankdash serve --demo                # Serve the in-process demo ledger`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :$SERVER_PORT)")
}

func serverLogger() (*logging.Logger, error) {
	if verbose {
		return logging.New(logging.DevelopmentConfig())
	}
	return logging.NewFromEnv()
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := serverLogger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()
	logging.SetGlobal(log)

	s, _, err := connect(log)
	if err != nil {
		return err
	}
	handler, err := api.NewHandler(s, log.Named("web"))
	if err != nil {
		return err
	}

	listen := addr
	if listen == "" {
		listen = ":" + cfg.Port
	}
	srv := &http.Server{
		Addr:         listen,
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.APITimeout + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", listen),
			zap.String("api", cfg.APIURL),
			zap.String("team", cfg.TeamID),
			zap.Bool("demo", demo),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
