package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"kanban-board/internal/bot"
	"kanban-board/internal/config"
	"kanban-board/internal/logging"
	"kanban-board/internal/render"
	"kanban-board/internal/repository"
	"kanban-board/internal/service"
	"kanban-board/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	var kv repository.KV
	switch cfg.StoreBackend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis url: %v", err)
		}
		rc := redis.NewClient(opts)
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		kv = repository.NewRedisKV(rc)
	default:
		kv = repository.NewKVRepository(db)
	}
	log.WithFields(logrus.Fields{"backend": cfg.StoreBackend, "key": cfg.StorageKey}).Info("board storage ready")

	store := repository.NewTaskStore(kv, cfg.StorageKey, log)
	taskSvc := service.NewTaskService(store)
	reportSvc := service.NewReportService(taskSvc, cfg.Location)
	subscriberRepo := repository.NewSubscriberRepository(db)

	clock := service.NewClock(cfg.Location, time.Now)
	clock.Tick()

	scheduler := service.NewSchedulerService(cfg.Location, log)
	if _, err := scheduler.ScheduleInterval(time.Second, func() { clock.Tick() }); err != nil {
		log.Fatalf("schedule clock: %v", err)
	}

	var chatBot *bot.Bot
	if cfg.BotEnabled() {
		chatBot, err = bot.New(cfg.TelegramToken, taskSvc, reportSvc, subscriberRepo, log)
		if err != nil {
			log.Fatalf("bot: %v", err)
		}
		sendReports := func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := chatBot.SendReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Warn("report")
			}
		}
		if cfg.ReportInterval > 0 {
			if _, err := scheduler.ScheduleInterval(cfg.ReportInterval, sendReports); err != nil {
				log.Fatalf("schedule reports: %v", err)
			}
		}
		if cfg.DigestTime != "" {
			if _, err := scheduler.ScheduleDaily(cfg.DigestTime, sendReports); err != nil {
				log.Fatalf("schedule digest: %v", err)
			}
		}
	}

	scheduler.Start()
	defer scheduler.Stop()

	templates, err := render.NewTemplates()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	handler := web.NewHandler(taskSvc, clock, cfg.Location, log)
	e := web.NewServer(handler, templates, log)

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("board server listening")
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()

	if chatBot != nil {
		go func() {
			if err := chatBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("bot stopped with error")
			}
		}()
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	log.Info("Shutdown complete.")
}
