package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking/cmd"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/integrations/culqi"
	"clinic-booking/internal/wire"
	"clinic-booking/pkg/database"
	"clinic-booking/pkg/metrics"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)
	txManager := repository.NewTxManager(db, logger)

	// Redis is optional; without it session lookups hit Postgres directly.
	if config.Redis.Addr != "" {
		rdb, err := database.InitRedis(config.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, session cache disabled", zap.Error(err))
		} else {
			repos.Session = repository.NewCachedSessionRepository(repos.Session, rdb, logger)
			logger.Info("Redis connected, session cache enabled")
		}
	}

	// Payment gateway
	gateway := culqi.NewClient(config.Payment, logger)

	// Metrics
	m := metrics.New(config.App.Name)

	// Wire all dependencies
	app := wire.Wiring(repos, txManager, gateway, config, m, logger)

	// Background sweeper releases reservations whose payment never arrived.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runSweeper(ctx, app, config.Sweeper.Interval, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}

func runSweeper(ctx context.Context, app *wire.App, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Sweeper stopped")
			return
		case <-ticker.C:
			released, err := app.Service.Booking.ReleaseExpiredReservations(ctx)
			if err != nil {
				logger.Error("Sweeper run failed", zap.Error(err))
				continue
			}
			if released > 0 {
				logger.Info("Sweeper released reservations", zap.Int("count", released))
			}
		}
	}
}
