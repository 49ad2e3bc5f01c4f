package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/core/job"
	"portfolio/internal/core/pipeline"
	"portfolio/internal/core/scrape"
	"portfolio/internal/health"
	"portfolio/internal/logger"
	rds "portfolio/internal/platform/redis"
	"portfolio/internal/platform/tasks"
	"portfolio/internal/server"
	"portfolio/internal/worker"
)

func main() {
	logr := logger.New("main")

	cfg, err := config.Load()
	if err != nil {
		logr.LogFatal("load config", err)
	}
	logr.LogInfof("starting at %s (env=%s)", cfg.HTTPAddr, cfg.AppEnv)

	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		logr.LogFatal("connect redis", err)
	}
	defer redisSvc.Close()

	taskClient := tasks.New(redisSvc)
	defer taskClient.Close()

	jobSvc := job.NewJobService(redisSvc)
	deps := pipeline.DefaultDeps(cfg)
	runSvc := pipeline.NewTaskService(cfg, deps, jobSvc, taskClient)

	asynqServer := worker.NewServer(redisSvc.AsynqRedisOpt())
	mux := worker.NewMux(runSvc)
	if err := asynqServer.Start(mux.Mux()); err != nil {
		logr.LogFatal("start worker", err)
	}

	app := server.NewApp()
	healthHandler := server.RegisterRoutes(app, server.Dependencies{
		Config: cfg,
		Jobs:   jobSvc,
		Runs:   runSvc,
		Checks: map[string]health.CheckFunc{
			"redis": redisSvc.HealthCheck,
			"site_config": func(context.Context) error {
				_, err := config.LoadSiteFile(cfg.SiteFile)
				return err
			},
		},
		NewFetcher: func() (scrape.Fetcher, error) { return scrape.NewFetcher(cfg) },
	})
	go healthHandler.SetReady()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		asynqServer.Shutdown()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		logr.LogFatal("server listen", err)
	}
}
