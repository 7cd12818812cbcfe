package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nurpe/ecosort/internal/auth"
	"github.com/nurpe/ecosort/internal/config"
	"github.com/nurpe/ecosort/internal/db"
	"github.com/nurpe/ecosort/internal/detect"
	"github.com/nurpe/ecosort/internal/excel"
	"github.com/nurpe/ecosort/internal/history"
	httphandler "github.com/nurpe/ecosort/internal/http"
	"github.com/nurpe/ecosort/internal/http/middleware"
	"github.com/nurpe/ecosort/internal/logger"
	"github.com/nurpe/ecosort/internal/pdf"
	"github.com/nurpe/ecosort/internal/provider"
	"github.com/nurpe/ecosort/internal/repository"
	"github.com/nurpe/ecosort/internal/service"
	"github.com/nurpe/ecosort/internal/simulator"
	"github.com/nurpe/ecosort/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	st := store.NewSeeded(cfg.Simulator.HistoryLimit)

	var snapshots *repository.SnapshotRepository
	if cfg.DB.DSN != "" {
		database, err := db.New(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		snapshots = repository.NewSnapshotRepository(database)

		snap, err := snapshots.Load(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load snapshot")
		}
		st.Restore(snap)
		log.Info().Int("bins", len(snap.Bins)).Msg("state restored from database")
	}

	var chatHistory history.History = history.NewMemory()
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect redis")
		}
		chatHistory = history.NewRedis(redisClient)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("chat history backed by redis")
	}

	llm := provider.NewClient(cfg.Provider, log)
	if !llm.Configured() {
		log.Warn().Msg("OPENAI_API_KEY not set, gateways will serve fallback responses")
	}

	classifyService := service.NewClassifyService(llm, st, cfg.Provider.ClassifyModel, log)
	chatService := service.NewChatService(llm, chatHistory, cfg.Provider.ChatModel, log)
	reportService := service.NewReportService(st, excel.NewGenerator(), pdf.NewGenerator())
	detector := detect.New()

	engine := simulator.New(st, cfg.Simulator, log)
	hub := httphandler.NewTelemetryHub(log)
	engine.OnTick(hub.Broadcast)

	authMiddleware := middleware.AllowAll()
	if cfg.Auth.AccessSecret != "" {
		authMiddleware = middleware.Auth(auth.NewParser(cfg.Auth.AccessSecret))
	} else {
		log.Warn().Msg("JWT_ACCESS_SECRET not set, admin endpoints are unprotected")
	}

	handler := httphandler.NewHandler(classifyService, chatService, reportService, detector, st, engine, hub, log)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.Info().Str("addr", addr).Msg("starting ecosort service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	engine.StopAll()

	if snapshots != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := snapshots.Save(saveCtx, st.Snapshot()); err != nil {
			log.Error().Err(err).Msg("failed to save snapshot")
		}
		cancel()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
