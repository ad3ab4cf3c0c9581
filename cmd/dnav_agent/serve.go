package main

import (
	"fmt"

	"github.com/jonathan/dnav/internal/db"
	"github.com/jonathan/dnav/internal/extraction"
	"github.com/jonathan/dnav/internal/logging"
	"github.com/jonathan/dnav/internal/observability"
	"github.com/jonathan/dnav/internal/server"
	"github.com/jonathan/dnav/internal/server/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: "Start an HTTP server exposing extraction and review endpoints. Persistence " +
		"routes need DATABASE_URL; review updates need JWT_SECRET.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(logger) }()

	opts, err := cfg.ExtractionOptions()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var store server.Store
	if cfg.Database.URL != "" {
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		store = database
	} else {
		logger.Warn("DATABASE_URL not set, persistence routes disabled")
	}

	var jwtService *server.JWTService
	if jwtCfg, err := cfg.JWT(); err == nil {
		jwtService = server.NewJWTService(jwtCfg)
	} else {
		logger.Warn("review updates disabled", zap.Error(err))
	}

	rl := cfg.RateLimit
	srv := server.New(server.Options{
		Port:            cfg.Server.Port,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		Extractor:       extraction.NewExtractor(opts, logger),
		Store:           store,
		JWT:             jwtService,
		RateLimit:       ratelimit.NewConfig(rl.Enabled, rl.RequestsPerMinute, rl.Burst, rl.Whitelist, rl.Blacklist),
		Metrics:         observability.DefaultMetrics(),
		Gatherer:        prometheus.DefaultGatherer,
		Logger:          logger,
	})

	return srv.Start(ctx)
}
