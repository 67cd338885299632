package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/workmatechiho-source/shotcrete/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the evaluation engine over HTTP.

Endpoints:
  POST /api/v1/evaluate  - evaluate a case (JSON case body)
  POST /api/v1/sweep     - run the sweep block of a case
  GET  /api/v1/factors   - list the factor tables (?version=BM1995)
  GET  /health           - liveness

Examples:
  shotcrete serve
  shotcrete serve --addr :9000
  SHOTCRETE_SERVER_RATE_LIMIT=2 shotcrete serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (config default :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		appConfig.Server.Addr = serveAddr
	}

	log := logger
	if !verbose {
		l, err := zap.NewProduction()
		if err != nil {
			return err
		}
		log = l
		defer func() { _ = l.Sync() }()
	}

	srv, err := api.NewServer(appConfig, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() { errs <- srv.Start() }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
