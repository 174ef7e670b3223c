package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"littlelemon/internal/api"
	"littlelemon/internal/config"
	"littlelemon/internal/events"
	"littlelemon/internal/metrics"
	"littlelemon/internal/notify"
	"littlelemon/internal/service"
	"littlelemon/internal/slots"
	"littlelemon/internal/storage"
	"littlelemon/internal/store"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("LITTLELEMON_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	kv, err := openStorage(cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open storage error")
	}
	defer kv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bookings := store.New(kv, cfg.Restaurant.CapacityPerSlot, cfg.Location(), &logger)
	if err := bookings.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("load bookings error")
	}

	metrics.Register()
	metrics.SetStoredBookings(bookings.Len())

	grid := slots.Generate(cfg.Restaurant.OpenTime, cfg.Restaurant.CloseTime, cfg.Restaurant.SlotMinutes)
	if len(grid) == 0 {
		logger.Fatal().
			Str("open", cfg.Restaurant.OpenTime).
			Str("close", cfg.Restaurant.CloseTime).
			Msg("restaurant hours produce no bookable slots")
	}

	bus := events.NewBus()
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		notifier, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, &logger)
		if err != nil {
			logger.Error().Err(err).Msg("telegram notifier disabled")
		} else {
			notifier.Attach(bus)
			logger.Info().Msg("telegram notifications enabled")
		}
	}

	rules := service.Rules{
		MinPartySize: cfg.Restaurant.MinPartySize,
		MaxPartySize: cfg.Restaurant.MaxPartySize,
		GraceWindow:  cfg.GraceWindow(),
	}
	svc := service.NewBookingService(bookings, grid, rules, bus, &logger, nil)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, kv, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.New(svc, cfg.Server.SubmitPerMinute, cfg.UpcomingLimit, &logger)
	logger.Info().Int("bookings", bookings.Len()).Int("slots", len(grid)).Msg("reservation service started")
	if err := server.Start(ctx, cfg.Server.Port); err != nil {
		logger.Fatal().Err(err).Msg("api server error")
	}
}

// openStorage builds the configured backend. The sqlite and redis
// backends are wrapped with a file fallback so a broken primary
// degrades instead of dropping writes.
func openStorage(cfg *config.Config, logger *zerolog.Logger) (storage.KV, error) {
	fileKV, err := storage.NewFileKV(cfg.Storage.FileDir)
	if err != nil {
		return nil, err
	}

	switch cfg.Storage.Backend {
	case "file":
		return fileKV, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return storage.NewFailoverKV(storage.NewRedisKV(client, "littlelemon:"), fileKV, logger), nil
	case "sqlite":
		primary, err := storage.NewSQLiteKV(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return storage.NewFailoverKV(primary, fileKV, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

func startHealthServer(ctx context.Context, port int, kv storage.KV, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := kv.Ping(ctxPing); err != nil {
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
