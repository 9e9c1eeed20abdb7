package openweather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/openweather-client/internal/config"
	"go.uber.org/zap"
)

const sampleResponse = `{
	"weather": [{"main": "Haze", "description": "haze"}],
	"main": {"temp": 278.65, "feels_like": 274.06, "pressure": 1012, "humidity": 81},
	"visibility": 8047,
	"wind": {"speed": 7.72, "deg": 240},
	"dt": 1710005627,
	"sys": {"country": "US", "sunrise": 1709983007, "sunset": 1710024977},
	"timezone": -18000,
	"name": "New York"
}`

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(config.ProviderConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5,
	}, zap.NewNop(), nil)
	return c, srv
}

func TestCurrentMapsResponse(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	snapshot, err := c.Current(context.Background(), "New York")
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, "Haze", snapshot.Weather.Main)
	assert.Equal(t, "haze", snapshot.Weather.Description)
	assert.Equal(t, 278.65, snapshot.Temperature.Temp)
	assert.Equal(t, 274.06, snapshot.Temperature.FeelsLike)
	assert.Equal(t, 8047, snapshot.Visibility)
	assert.Equal(t, 7.72, snapshot.Wind.Speed)
	assert.Equal(t, int64(1710005627), snapshot.Datetime)
	assert.Equal(t, int64(1709983007), snapshot.Sys.Sunrise)
	assert.Equal(t, int64(1710024977), snapshot.Sys.Sunset)
	assert.Equal(t, -18000, snapshot.Timezone)
	assert.Equal(t, "New York", snapshot.Name)
}

func TestCurrentRequestParameters(t *testing.T) {
	var gotPath, gotCity, gotKey string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCity = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("appid")
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	_, err := c.Current(context.Background(), "Vilnius")
	require.NoError(t, err)

	assert.Equal(t, "/data/2.5/weather", gotPath)
	assert.Equal(t, "Vilnius", gotCity)
	assert.Equal(t, "test-key", gotKey)
}

func TestCurrentStatusClassification(t *testing.T) {
	statuses := []int{401, 404, 429, 500, 502, 503, 504, 418}

	for _, status := range statuses {
		c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		snapshot, err := c.Current(context.Background(), "London")
		srv.Close()

		require.Error(t, err, "status %d should produce an error", status)
		assert.Nil(t, snapshot, "status %d should produce no snapshot", status)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr), "status %d should produce a StatusError", status)
		assert.Equal(t, status, statusErr.Status)
	}
}

func TestCurrentNetworkError(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force a connection failure

	snapshot, err := c.Current(context.Background(), "London")
	require.Error(t, err)
	assert.Nil(t, snapshot)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestCurrentMalformedBody(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	snapshot, err := c.Current(context.Background(), "London")
	require.Error(t, err)
	assert.Nil(t, snapshot)
}
