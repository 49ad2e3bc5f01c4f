package main

import (
	"context"

	"portfolio/internal/config"
	"portfolio/internal/core/pipeline"
	"portfolio/internal/logger"
)

func main() {
	logr := logger.New("generate")

	cfg, err := config.Load()
	if err != nil {
		logr.LogFatal("load config", err)
	}

	if _, err := pipeline.NewRunner(cfg).Run(context.Background(), pipeline.StageGenerate, pipeline.Deps{}); err != nil {
		logr.LogFatal("generate failed", err)
	}
}
