package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "bike-share-predict/internal/api/http"
	"bike-share-predict/internal/calendar"
	"bike-share-predict/internal/charts"
	"bike-share-predict/internal/config"
	"bike-share-predict/internal/features"
	"bike-share-predict/internal/predict"
	"bike-share-predict/internal/rides"
	"bike-share-predict/internal/scheduler"
	"bike-share-predict/internal/storage"
	"bike-share-predict/internal/weather"
)

const localPlotDir = "./static/images/plots"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	images, data, dataFile, err := setupStorage(startupCtx, cfg)
	if err != nil {
		log.Fatalf("failed to set up storage: %v", err)
	}

	// The ride history is loaded once and held in memory for the
	// process lifetime.
	table, err := rides.LoadFile(dataFile)
	if err != nil {
		log.Fatalf("failed to load ride data: %v", err)
	}
	log.Printf("ride data loaded: %d rows, %d pages", table.Len(), table.MaxPage())

	// Shared HTTP client for outbound collaborator calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	forecast := weather.NewClient(httpClient, cfg.WeatherAPIKey, cfg.Latitude, cfg.Longitude)
	holidays := calendar.NewUSCalendar()
	builder := features.NewBuilder(forecast, holidays)
	model := predict.NewClient(cfg.ModelURL)
	chartSvc := charts.NewService(table, charts.NewRenderer(), images)

	// Scheduler that periodically purges stale chart images.
	sched := scheduler.New(images, cfg.CleanupInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "bike-share-predict",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Local storage mode serves chart images itself.
	app.Static("/static", "./static")

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "bike-share-predict",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Table:   table,
		Builder: builder,
		Model:   model,
		Charts:  chartSvc,
		Data:    data,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// setupStorage builds the image and data gateways and resolves the
// local path of the ride data file. With Azure configured the data
// blob is downloaded to the temp dir and old chart images are purged;
// otherwise everything stays on the local filesystem.
func setupStorage(ctx context.Context, cfg *config.AppConfig) (images, data storage.Gateway, dataFile string, err error) {
	if cfg.StorageAccountURL == "" {
		local, err := storage.NewLocalStore(localPlotDir, "/static/images/plots")
		if err != nil {
			return nil, nil, "", err
		}
		localData, err := storage.NewLocalStore(filepath.Join(os.TempDir(), "ride-data"), "")
		if err != nil {
			return nil, nil, "", err
		}
		return local, localData, cfg.DataFile, nil
	}

	azImages, err := storage.NewAzureStore(cfg.StorageAccountURL, cfg.ImageContainer)
	if err != nil {
		return nil, nil, "", err
	}
	azData, err := storage.NewAzureStore(cfg.StorageAccountURL, cfg.DataContainer)
	if err != nil {
		return nil, nil, "", err
	}

	log.Println("purging old chart images from storage")
	if err := azImages.Clear(ctx); err != nil {
		return nil, nil, "", err
	}

	path, err := azData.Download(ctx, cfg.DataFile, os.TempDir())
	if err != nil {
		return nil, nil, "", err
	}

	return azImages, azData, path, nil
}
