package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/RRArny/wxfetch/internal/avwx"
	"github.com/RRArny/wxfetch/internal/config"
	"github.com/RRArny/wxfetch/internal/position"
	"github.com/RRArny/wxfetch/internal/wx"
	"github.com/RRArny/wxfetch/pkg/logger"
)

const defaultAPIBaseURL = "https://avwx.rest/api"

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	airfield := flag.String("airfield", "", "ICAO code of the airfield to fetch weather for")
	lat := flag.Float64("lat", math.NaN(), "Latitude in decimal degrees")
	lon := flag.Float64("lon", math.NaN(), "Longitude in decimal degrees")
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	taf := flag.Bool("taf", false, "Fetch the forecast (TAF) instead of the current observation")
	flag.Parse()

	secrets, err := config.LoadSecrets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading secrets: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Debug("Starting wxfetch", logger.String("version", Version))

	client := avwx.NewClient(avwx.ClientConfig{
		BaseURL: defaultAPIBaseURL,
		APIKey:  secrets.AVWXAPIKey,
		Timeout: 10 * time.Second,
	}, log)

	ctx := context.Background()
	applyPositionFlags(ctx, cfg, client, *airfield, *lat, *lon)

	rendered, err := fetchAndRender(ctx, client, cfg, *taf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No usable report: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(rendered)
}

// applyPositionFlags overrides the configured position with the command
// line flags. Invalid or incomplete flags fall back to IP geolocation
// with a printed notice.
func applyPositionFlags(ctx context.Context, cfg *config.Config, client *avwx.Client, airfield string, lat, lon float64) {
	if airfield != "" {
		cfg.Position = position.Airfield(airfield)
	} else if !math.IsNaN(lat) || !math.IsNaN(lon) {
		if math.IsNaN(lat) || math.IsNaN(lon) {
			fmt.Fprintln(os.Stderr, "Please provide both latitude and longitude. Defaulting to geoip...")
			cfg.Position = position.GeoIP()
		} else {
			cfg.Position = position.Coordinates(lat, lon)
		}
	}

	if cfg.Position.Kind == position.KindAirfield && !client.CheckStation(ctx, cfg.Position.Code) {
		fmt.Fprintf(os.Stderr, "Invalid airfield %s. Defaulting to geoip...\n", cfg.Position.Code)
		cfg.Position = position.GeoIP()
	}
}

// fetchAndRender runs the pipeline: fetch, decode, colorize, render
func fetchAndRender(ctx context.Context, client *avwx.Client, cfg *config.Config, taf bool) (string, error) {
	if taf {
		raw, err := client.FetchForecast(ctx, cfg.Position)
		if err != nil {
			return "", err
		}
		forecast, err := wx.DecodeForecast(raw, cfg.Position)
		if err != nil {
			return "", err
		}
		return forecast.Render(cfg), nil
	}

	raw, err := client.FetchReport(ctx, cfg.Position)
	if err != nil {
		return "", err
	}
	report, err := wx.DecodeReport(raw, cfg.Position)
	if err != nil {
		return "", err
	}
	return report.Render(cfg), nil
}
