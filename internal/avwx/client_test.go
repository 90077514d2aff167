package avwx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RRArny/wxfetch/internal/position"
	"github.com/RRArny/wxfetch/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, log)
}

func TestFetchReport(t *testing.T) {
	var authHeader string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/metar/EDDK":
			assert.Equal(t, "nearest", r.URL.Query().Get("onfail"))
			assert.Equal(t, "info", r.URL.Query().Get("options"))
			w.Write([]byte(`{"station": "EDDK"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	body, err := client.FetchReport(context.Background(), position.Airfield("EDDK"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"station": "EDDK"}`, string(body))
	assert.Equal(t, "BEARER test-key", authHeader)
}

// When the requested location yields no report, the client resolves the
// nearest reporting station and retries exactly once.
func TestFetchReportNearestStationFallback(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/metar/10,20":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "no reports"}`))
		case "/station/10,20":
			assert.Equal(t, "latitude,longitude", r.URL.Query().Get("filter"))
			w.Write([]byte(`{"latitude": 50.0, "longitude": 7.0}`))
		case "/station/near/50,7":
			assert.Equal(t, "1", r.URL.Query().Get("n"))
			assert.Equal(t, "true", r.URL.Query().Get("reporting"))
			w.Write([]byte(`[{"station": {"icao": "EDDK"}}]`))
		case "/metar/EDDK":
			w.Write([]byte(`{"station": "EDDK"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	body, err := client.FetchReport(context.Background(), position.Coordinates(10, 20))
	require.NoError(t, err)
	assert.JSONEq(t, `{"station": "EDDK"}`, string(body))
	assert.Equal(t, []string{"/metar/10,20", "/station/10,20", "/station/near/50,7", "/metar/EDDK"}, paths)
}

func TestFetchReportNoStationAnywhere(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchReport(context.Background(), position.Airfield("XXXX"))
	assert.Error(t, err)
}

func TestFetchForecast(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/taf/EDDK":
			w.Write([]byte(`{"station": "EDDK"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	body, err := client.FetchForecast(context.Background(), position.Airfield("EDDK"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"station": "EDDK"}`, string(body))
}

func TestCheckStation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/station/EDDK":
			w.Write([]byte(`{"icao": "EDDK"}`))
		case "/station/ZZZZ":
			w.Write([]byte(`{"error": "station not found"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))

	ctx := context.Background()
	assert.True(t, client.CheckStation(ctx, "EDDK"))
	assert.False(t, client.CheckStation(ctx, "ZZZZ"), "an error payload is not a known station")
	assert.False(t, client.CheckStation(ctx, "NOPE"))
}
