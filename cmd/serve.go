package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/company-intel/intel-cli/internal/serve"
)

var (
	servePort     int
	serveArtifact string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the merged artifact over the lookup API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		artifact := serveArtifact
		if artifact == "" {
			artifact = filepath.Join(cfg.Pipeline.OutputDir, "companies.json")
		}

		cache := serve.NewCache(artifact)
		if err := cache.Load(); err != nil {
			return eris.Wrap(err, "load artifact")
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		server := serve.NewServer(cache, cfg.Server)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("artifact", artifact),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveArtifact, "artifact", "", "merged artifact path (default <output-dir>/companies.json)")
	rootCmd.AddCommand(serveCmd)
}
