package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything the process needs at startup.
type AppConfig struct {
	// DataFile is the ride history CSV. When Azure storage is
	// configured it names the blob to download; otherwise a local path.
	DataFile string

	// ModelURL is the inference service endpoint.
	ModelURL string

	WeatherAPIKey string
	Latitude      string
	Longitude     string

	// StorageAccountURL empty means local storage mode.
	StorageAccountURL string
	ImageContainer    string
	DataContainer     string

	// HTTPTimeout bounds outbound collaborator calls.
	HTTPTimeout time.Duration

	// CleanupInterval controls the stale chart image sweep.
	CleanupInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.DataFile = getenvDefault("DATA_FILE", "ride-data.csv")
	cfg.ModelURL = getenvDefault("MODEL_URL", "http://localhost:8501/v1/models/bikeshare:predict")

	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	if cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("need to define WEATHER_API_KEY")
	}
	cfg.Latitude = os.Getenv("LATITUDE")
	cfg.Longitude = os.Getenv("LONGITUDE")

	cfg.StorageAccountURL = os.Getenv("AZURE_STORAGE_ACCOUNT_URL")
	cfg.ImageContainer = getenvDefault("AZURE_STORAGE_IMAGE_CONTAINER_NAME", "plots")
	cfg.DataContainer = getenvDefault("AZURE_STORAGE_DATA_CONTAINER_NAME", "ride-data")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cleanupStr := getenvDefault("CLEANUP_INTERVAL", "1h")
	cleanup, err := time.ParseDuration(cleanupStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CLEANUP_INTERVAL: %w", err)
	}
	cfg.CleanupInterval = cleanup

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
