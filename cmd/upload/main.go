package main

import (
	"context"

	"portfolio/internal/config"
	"portfolio/internal/core/pipeline"
	"portfolio/internal/logger"
)

func main() {
	logr := logger.New("upload")

	cfg, err := config.Load()
	if err != nil {
		logr.LogFatal("load config", err)
	}
	if err := cfg.RequireUpload(); err != nil {
		logr.LogFatal("❌ cannot upload", err)
	}

	res, err := pipeline.NewRunner(cfg).Run(context.Background(), pipeline.StageUpload, pipeline.DefaultDeps(cfg))
	if err != nil {
		logr.LogFatal("upload failed", err)
	}
	logr.LogInfof("uploaded %d, failed %d, total %d", res.Upload.Uploaded, res.Upload.Failed, res.Upload.Total)
}
