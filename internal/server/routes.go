package server

import (
	"portfolio/internal/config"
	"portfolio/internal/core/discover"
	"portfolio/internal/core/manifest"
	"portfolio/internal/core/pipeline"
	"portfolio/internal/core/scrape"
	"portfolio/internal/core/transform"
	"portfolio/internal/health"
	"portfolio/internal/utils/jsonfile"

	"github.com/gofiber/fiber/v2"
)

type Dependencies struct {
	Config     config.Config
	Jobs       pipeline.JobStore
	Runs       pipeline.RunEnqueuer
	Checks     map[string]health.CheckFunc
	NewFetcher func() (scrape.Fetcher, error)
}

// NewApp returns the fiber app with JSON output that keeps '&' and '<'
// literal in URLs.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:     "Portfolio Pipeline",
		JSONEncoder: jsonfile.Marshal,
	})
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	healthHandler := health.NewHealthHandler(d.Checks)
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	// Local asset URLs in the display document resolve against this mount.
	app.Static("/tmp-assets", d.Config.AssetsDir)

	api := app.Group("/v1")

	api.Get("/portfolio", transform.NewHandler(d.Config.DisplayPath).HandleGetPortfolio)
	api.Get("/manifest", manifest.NewHandler(d.Config.ManifestPath).HandleGetManifest)

	scrapeHandler := scrape.NewHandler(d.Config.Site.Pages, d.NewFetcher)
	api.Get("/scrape", scrapeHandler.HandleGetScrape)

	discoverSvc := discover.NewService(scrape.DesktopProfile(d.Config.UserAgent), d.Config.Site.Pages)
	api.Get("/discover", discover.NewHandler(discoverSvc, "https://"+d.Config.Site.Extract.SiteDomain).HandleGetDiscover)

	runHandler := pipeline.NewHandler(d.Runs, d.Jobs)
	api.Post("/runs", runHandler.HandleCreateRun)
	api.Get("/runs/:jobId", runHandler.HandleGetRun)

	return healthHandler
}
