package position

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// geoIPURL is swapped out in tests
var geoIPURL = "http://ip-api.com/json/"

// Kind identifies how the requested position was specified
type Kind int

const (
	// KindGeoIP derives the position from the caller's IP address
	KindGeoIP Kind = iota
	// KindAirfield is an explicit ICAO station code
	KindAirfield
	// KindLatLong is an explicit coordinate pair
	KindLatLong
)

// LatLong is a coordinate pair in decimal degrees
type LatLong struct {
	Lat float64
	Lon float64
}

// String renders the pair in the "lat,lon" form the weather API expects
func (l LatLong) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lon, 'f', -1, 64)
}

// Position is the location a report was requested for
type Position struct {
	Kind   Kind
	Code   string
	Coords LatLong
}

// Airfield returns a position for an explicit ICAO station code
func Airfield(code string) Position {
	return Position{Kind: KindAirfield, Code: code}
}

// Coordinates returns a position for an explicit coordinate pair
func Coordinates(lat, lon float64) Position {
	return Position{Kind: KindLatLong, Coords: LatLong{Lat: lat, Lon: lon}}
}

// GeoIP returns a position resolved from the caller's IP address at fetch time
func GeoIP() Position {
	return Position{Kind: KindGeoIP}
}

// LocationString returns the path segment identifying this position to the
// weather API. GeoIP positions are resolved with a single lookup request.
func (p Position) LocationString(ctx context.Context, client *http.Client) (string, error) {
	switch p.Kind {
	case KindAirfield:
		return p.Code, nil
	case KindLatLong:
		return p.Coords.String(), nil
	default:
		coords, err := resolveGeoIP(ctx, client)
		if err != nil {
			return "", fmt.Errorf("failed to resolve position from IP: %w", err)
		}
		return coords.String(), nil
	}
}

func resolveGeoIP(ctx context.Context, client *http.Client) (LatLong, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geoIPURL, nil)
	if err != nil {
		return LatLong{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return LatLong{}, err
	}
	defer resp.Body.Close()

	var body struct {
		Status string  `json:"status"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return LatLong{}, fmt.Errorf("error decoding geolocation response: %w", err)
	}
	if body.Status != "success" {
		return LatLong{}, fmt.Errorf("geolocation lookup returned status %q", body.Status)
	}

	return LatLong{Lat: body.Lat, Lon: body.Lon}, nil
}
