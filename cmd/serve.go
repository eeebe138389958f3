package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/padasch/french-nfi-dashboard/internal/model"
	"github.com/padasch/french-nfi-dashboard/internal/observability"
	"github.com/padasch/french-nfi-dashboard/internal/resolver"
	"github.com/padasch/french-nfi-dashboard/internal/store"
	"github.com/padasch/french-nfi-dashboard/internal/web"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard web app",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("host") {
			serveHost = cfg.Server.Host
		}
		if !cmd.Flags().Changed("port") {
			servePort = cfg.Server.Port
		}

		l, err := loadLists()
		if err != nil {
			return err
		}

		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		metrics := observability.NewMetrics()
		for _, kind := range model.GroupKinds {
			metrics.ListEntries.WithLabelValues(string(kind)).Set(float64(l.Len(kind)))
		}

		// The dataset page is optional; a missing CSV only disables it.
		if imported, err := s.ImportDataset(cfg.Dataset.CSV); err != nil {
			logger.Warn("dataset not available", "csv", cfg.Dataset.CSV, "error", err)
		} else if imported {
			logger.Info("dataset imported", "csv", cfg.Dataset.CSV)
		}
		if n, err := s.RowCount(); err == nil {
			metrics.DatasetRows.Set(float64(n))
		}

		if _, err := os.Stat(assetsDir); err != nil {
			logger.Warn("asset directory not readable, every figure will be reported missing", "dir", assetsDir, "error", err)
		}
		assets := os.DirFS(assetsDir)

		srv := &web.Server{
			Lists:       l,
			Resolver:    resolver.New(assets, l),
			Store:       s,
			Assets:      assets,
			AssetsDir:   assetsDir,
			DatasetPath: cfg.Dataset.CSV,
			Limiter:     web.NewDownloadLimiter(cfg.Download.RateLimit, cfg.Download.Burst),
			Logger:      logger,
			Metrics:     metrics,
			Addr:        fmt.Sprintf("%s:%d", serveHost, servePort),
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.ListenAndServe(ctx, cfg.Server.ShutdownTimeout.Duration); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to listen on")
	serveCmd.Flags().IntVar(&servePort, "port", 8501, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
