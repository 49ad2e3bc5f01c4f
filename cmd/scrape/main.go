package main

import (
	"context"

	"portfolio/internal/config"
	"portfolio/internal/core/pipeline"
	"portfolio/internal/logger"
)

func main() {
	logr := logger.New("scrape")

	cfg, err := config.Load()
	if err != nil {
		logr.LogFatal("load config", err)
	}

	r := pipeline.NewRunner(cfg)
	sum, err := r.Run(context.Background(), pipeline.StageScrape, pipeline.DefaultDeps(cfg))
	if err != nil {
		logr.LogFatal("scrape failed", err)
	}
	logr.LogSuccessf("✨ Done! %d/%d pages scraped, %d images and %d videos downloaded",
		sum.Scrape.Succeeded, sum.Scrape.Pages, sum.Scrape.ImagesDownloaded, sum.Scrape.VideosDownloaded)
}
