package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/crisiswatch/internal/api"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the aggregator and serve the JSON API",
	Long: `Serve starts the refresh loop and the HTTP API. Sources are
re-fetched on a fixed interval; the API always answers from the current
in-memory store.

Example:
  crisiswatch serve
  crisiswatch serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.API.Addr = serveAddr
	}
	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := api.NewHandler(a.store, a.pipeline, cfg.Sources, a.digester, cfg.Scrape.RecentWindow, a.logger)
	server := api.NewHTTPServer(api.ServerConfig{Addr: cfg.API.Addr}, api.NewServer(handler))

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("api listening", "addr", cfg.API.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// First refresh immediately, then on the interval.
	go func() {
		a.pipeline.Refresh(ctx)
		ticker := time.NewTicker(cfg.Scrape.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.pipeline.Refresh(ctx)
			}
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
