package avwx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/RRArny/wxfetch/internal/position"
	"github.com/RRArny/wxfetch/pkg/logger"
)

// Product selects which report type to fetch
type Product string

const (
	// ProductMETAR is a current-conditions observation
	ProductMETAR Product = "metar"
	// ProductTAF is a terminal aerodrome forecast
	ProductTAF Product = "taf"
)

// ClientConfig contains the weather API client settings
type ClientConfig struct {
	BaseURL string        // API base URL, e.g. https://avwx.rest/api
	APIKey  string        // Bearer token for the API
	Timeout time.Duration // HTTP request timeout
}

// Client handles HTTP requests to the AVWX weather API
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new weather API client
func NewClient(config ClientConfig, log *logger.Logger) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: log.Named("avwx-client"),
	}
}

// FetchReport fetches the current METAR for the given position. When the
// exact location yields no report, the nearest reporting station is
// resolved and the fetch retried exactly once.
func (c *Client) FetchReport(ctx context.Context, pos position.Position) ([]byte, error) {
	return c.fetch(ctx, ProductMETAR, pos)
}

// FetchForecast fetches the current TAF for the given position, with the
// same single nearest-station fallback as FetchReport.
func (c *Client) FetchForecast(ctx context.Context, pos position.Position) ([]byte, error) {
	return c.fetch(ctx, ProductTAF, pos)
}

func (c *Client) fetch(ctx context.Context, product Product, pos position.Position) ([]byte, error) {
	location, err := pos.LocationString(ctx, c.httpClient)
	if err != nil {
		return nil, err
	}

	body, status, err := c.get(ctx, fmt.Sprintf("%s/%s/%s?onfail=nearest&options=info", c.config.BaseURL, product, location))
	if err != nil {
		return nil, fmt.Errorf("error making request to weather API: %w", err)
	}
	if status == http.StatusOK {
		return body, nil
	}

	c.logger.Info("No report at requested location, resolving nearest station",
		logger.String("product", string(product)),
		logger.String("location", location),
		logger.Int("status_code", status))

	nearest, err := c.nearestStation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("no usable report for %s: %w", location, err)
	}

	body, status, err = c.get(ctx, fmt.Sprintf("%s/%s/%s?onfail=nearest&options=info", c.config.BaseURL, product, nearest))
	if err != nil {
		return nil, fmt.Errorf("error making request to weather API: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("no usable report: weather API returned status %d for nearest station %s", status, nearest)
	}
	return body, nil
}

// nearestStation resolves the ICAO code of the nearest reporting station:
// first the location's own coordinates, then a proximity query on them.
func (c *Client) nearestStation(ctx context.Context, location string) (string, error) {
	body, status, err := c.get(ctx, fmt.Sprintf("%s/station/%s?filter=latitude,longitude", c.config.BaseURL, location))
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("station lookup returned status %d", status)
	}

	var coords stationCoordinates
	if err := json.Unmarshal(body, &coords); err != nil {
		return "", fmt.Errorf("error decoding station coordinates: %w", err)
	}

	body, status, err = c.get(ctx, fmt.Sprintf("%s/station/near/%v,%v?n=1&reporting=true", c.config.BaseURL, coords.Latitude, coords.Longitude))
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("nearest station lookup returned status %d", status)
	}

	var nearby []nearbyStation
	if err := json.Unmarshal(body, &nearby); err != nil {
		return "", fmt.Errorf("error decoding nearest station response: %w", err)
	}
	if len(nearby) == 0 || nearby[0].Station.ICAO == "" {
		return "", fmt.Errorf("no reporting station found near %v,%v", coords.Latitude, coords.Longitude)
	}

	c.logger.Info("Resolved nearest reporting station",
		logger.String("station", nearby[0].Station.ICAO))

	return nearby[0].Station.ICAO, nil
}

// CheckStation reports whether the given ICAO code names a known station
func (c *Client) CheckStation(ctx context.Context, icao string) bool {
	body, status, err := c.get(ctx, fmt.Sprintf("%s/station/%s", c.config.BaseURL, icao))
	if err != nil || status != http.StatusOK {
		return false
	}

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return false
	}
	return probe.Error == ""
}

func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "BEARER "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("error reading weather API response: %w", err)
	}
	return body, resp.StatusCode, nil
}
