package main

import (
	"context"
	"expvar"
	"log"
	"runtime"
	"time"

	"github.com/parlorchat/parlor/internal/infrastructure/configs"
	"github.com/parlorchat/parlor/internal/infrastructure/logging"
	"github.com/parlorchat/parlor/internal/infrastructure/ratelimiter"
	"github.com/parlorchat/parlor/internal/infrastructure/repository"
	"github.com/parlorchat/parlor/internal/infrastructure/tracing"
	"github.com/parlorchat/parlor/internal/infrastructure/ws"
	"github.com/parlorchat/parlor/internal/presentation/api"
	healthHandler "github.com/parlorchat/parlor/internal/presentation/handler/health"
	roomHandler "github.com/parlorchat/parlor/internal/presentation/handler/rooms"
	socketHandler "github.com/parlorchat/parlor/internal/presentation/handler/socket"
)

func main() {
	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(tracing.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Environment: cfg.Tracing.Environment,
			Endpoint:    cfg.Tracing.Endpoint,
		})
		if err != nil {
			logger.Fatalw("failed to init tracing", "error", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	roomStore := repository.NewRoomStore(cfg.RoomStore.HistoryCapacity)
	registry := repository.NewConnectionRegistry()
	groups := ws.NewGroupManager(logger)
	core := ws.NewCore(roomStore, registry, groups, logger)

	roomsHandler := roomHandler.NewHandler(roomStore, logger)
	healthzHandler := healthHandler.NewHandler()
	wsHandler := socketHandler.NewHandler(core, groups, cfg.WebSocket, cfg.HTTP.AllowedOrigins, logger)

	rateLimiter := ratelimiter.NewFixedWindowRateLimiter(
		cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame)
	defer rateLimiter.Close()

	app := api.NewApplication(*cfg, roomsHandler, healthzHandler, wsHandler, logger, rateLimiter)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	logger.Fatal(app.Run(mux))
}
