// Package serve runs the dashboard HTTP API
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/sheet-ledger/cmd/root"
	"fjacquet/sheet-ledger/internal/factory"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/server"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var port string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard as a JSON API",
	Long: `Serve the dashboard over HTTP:

  GET  /api/dashboard          dashboard for the query's window and filters
  GET  /api/transactions.csv   selected transactions as CSV
  POST /api/refresh            drop the cached ledger (?all=true drops every sheet)
  GET  /healthz                liveness
  GET  /metrics                Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default server.port)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	cfg := root.AppConfig
	c := root.AppContainer
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}

	srv := server.New(c.GetLoader(), c.Source(), server.Options{
		Location:  cfg.Location(),
		TopLimit:  cfg.Report.TopLimit,
		Delimiter: factory.Delimiter(cfg),
		Metrics:   c.GetRecorder().Handler(),
	}, root.Log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	root.Log.Info("Shutdown signal received", logging.F(logging.FieldAddress, ":"+cfg.Server.Port))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	root.Log.Info("Server stopped gracefully")
	return nil
}
