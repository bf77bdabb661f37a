package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"shortorder/internal/api"
	"shortorder/internal/config"
	"shortorder/internal/evaluation"
	"shortorder/internal/kitchen"
	"shortorder/internal/monitoring"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var (
		source string
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a day in the kitchen behind the HTTP API",
		Long: `Generate the day queue, start dispatching orders to stations and serve the
kitchen API, the websocket event stream and the prometheus metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := current.cfg, current.log
			if source != "" {
				cfg.Catalog.Source = source
			}
			if cmd.Flags().Changed("seed") {
				cfg.Simulation.Seed = seed
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}

	cmd.Flags().StringVar(&source, "catalog-source", "", "Override the catalog source (embedded, file, database)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed the day queue for a reproducible run")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	cat, err := loadCatalog(cfg, log)
	if err != nil {
		return err
	}

	collector := evaluation.NewMetricsCollector()
	monitor := monitoring.NewMonitor()
	hub := api.NewHub(log.With().Str("component", "ws").Logger())
	defer hub.Close()

	queue, err := newGenerator(cat, cfg, log).GenerateDayQueue()
	if err != nil {
		return err
	}
	collector.RecordOrdersGenerated(len(queue))
	monitor.RecordMetric("orders_generated", len(queue))
	monitor.RecordMetric("catalog_source", cfg.Catalog.Source)
	monitor.RecordMetric("order_stations", cfg.Simulation.MaxOrderStations)

	k := kitchen.New(cfg.Simulation.MaxOrderStations, cat, evaluation.NewValidator(log),
		kitchen.WithInterval(cfg.Simulation.DispatchInterval),
		kitchen.WithLogger(log.With().Str("component", "kitchen").Logger()),
		kitchen.WithEvents(hub),
		kitchen.WithMetrics(collector),
		kitchen.WithRecorder(monitor),
	)
	k.Load(queue)

	server := api.NewServer(cat, k,
		api.WithLogger(log.With().Str("component", "http").Logger()),
		api.WithJWTSecret(cfg.Auth.JWTSecret),
		api.WithMonitor(monitor),
		api.WithHub(hub),
	)

	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsRouter(collector),
	}

	errs := make(chan error, 3)
	go func() {
		if err := k.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errs <- fmt.Errorf("dispatcher: %w", err)
		}
	}()
	go func() {
		log.Info().Int("port", cfg.Server.MetricsPort).Msg("Starting metrics server")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("metrics server: %w", err)
		}
	}()
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting API server")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("API server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down servers...")
	case runErr = <-errs:
		log.Error().Err(runErr).Msg("Server failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("API server shutdown error")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Metrics server shutdown error")
	}

	board := monitor.Scoreboard()
	log.Info().Int("served", board.Served).Int("correct", board.Correct).Int("pending", k.Pending()).Msg("Day closed")
	return runErr
}

func metricsRouter(collector *evaluation.MetricsCollector) *gin.Engine {
	router := gin.New()
	router.GET("/metrics", gin.WrapH(collector.Handler()))
	return router
}
