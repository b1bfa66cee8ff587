package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/openmeteo-exporter/internal/weather"
)

// Default document paths, matching the container layout the exporter ships
// with.
const (
	DefaultConfigPath    = "/config/config.yaml"
	defaultLocationsPath = "/config/locations/config.yaml"
)

var validate = validator.New()

type AppConfig struct {
	// Port the metrics/API server listens on.
	Port int

	// ScrapeInterval controls how often a full collection sweep runs.
	ScrapeInterval time.Duration

	// HTTPTimeout bounds each outbound provider request.
	HTTPTimeout time.Duration

	// Locations to collect weather data for. Never empty.
	Locations []weather.Location
}

// exporterDocument is the on-disk shape of the exporter settings file.
type exporterDocument struct {
	Port           int `yaml:"port"`
	ScrapeInterval int `yaml:"scrape_interval"` // seconds
}

// locationsDocument is the on-disk shape of the locations file.
type locationsDocument struct {
	Locations []locationEntry `yaml:"locations"`
}

type locationEntry struct {
	Lat  float64 `yaml:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `yaml:"lon" validate:"gte=-180,lte=180"`
	Name string  `yaml:"name"`
}

// Load reads the exporter settings document at configPath and the locations
// document, applying defaults for anything unset. An unreadable document or
// an empty location list is an error; the caller is expected to exit on it.
func Load(configPath string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	if configPath == "" {
		configPath = DefaultConfigPath
	}

	var doc exporterDocument
	if err := loadDocument(configPath, &doc); err != nil {
		return nil, fmt.Errorf("load exporter config: %w", err)
	}

	cfg := &AppConfig{
		Port:           doc.Port,
		ScrapeInterval: time.Duration(doc.ScrapeInterval) * time.Second,
		HTTPTimeout:    10 * time.Second,
	}
	if cfg.Port == 0 {
		cfg.Port = 9091
	}
	if cfg.ScrapeInterval == 0 {
		cfg.ScrapeInterval = 15 * time.Minute
	}

	locationsPath := getenvDefault("OPENMETEO_LOCATIONS_CONFIG", defaultLocationsPath)

	locs, err := loadLocations(locationsPath)
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	log.Printf("config: loaded %d location(s) from %s", len(locs), locationsPath)
	return cfg, nil
}

func loadLocations(path string) ([]weather.Location, error) {
	var doc locationsDocument
	if err := loadDocument(path, &doc); err != nil {
		return nil, fmt.Errorf("load locations config: %w", err)
	}

	if len(doc.Locations) == 0 {
		return nil, fmt.Errorf("no locations configured in %s", path)
	}

	locs := make([]weather.Location, 0, len(doc.Locations))
	for i, entry := range doc.Locations {
		if err := validate.Struct(entry); err != nil {
			return nil, fmt.Errorf("invalid location at index %d: %w", i, err)
		}
		locs = append(locs, weather.Location{
			Lat:  entry.Lat,
			Lon:  entry.Lon,
			Name: entry.Name,
		})
	}

	return locs, nil
}

func loadDocument(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
