package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestClient starts a server for handler and returns a Client pointed at
// it. Cleanup closes idle connections before the server so goleak stays
// quiet.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := NewClient(Config{BaseURL: srv.URL})
	t.Cleanup(func() {
		c.CloseIdleConnections()
		srv.Close()
	})
	return c
}

func TestPredictSuccess(t *testing.T) {
	var gotPath, gotContentType, gotRequestID string
	var gotBody map[string]float64
	var decodeErr error

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		decodeErr = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"calories_burnt": 250}`))
	}))

	got, err := c.Predict(context.Background(), Request{Age: 30, Duration: 45, HeartRate: 110, BodyTemp: 37})
	require.NoError(t, err)
	require.NoError(t, decodeErr)
	assert.Equal(t, 250.0, got)

	assert.Equal(t, "/predict", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, map[string]float64{
		"age":        30,
		"duration":   45,
		"heart_rate": 110,
		"body_temp":  37,
	}, gotBody)
}

func TestPredictAcceptsAny2xx(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"calories_burnt": 99.5}`))
	}))

	got, err := c.Predict(context.Background(), Request{Age: 25, Duration: 10, HeartRate: 90, BodyTemp: 36.5})
	require.NoError(t, err)
	assert.Equal(t, 99.5, got)
}

func TestPredictNonOKStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusInternalServerError)
	}))

	_, err := c.Predict(context.Background(), Request{Age: 30, Duration: 45, HeartRate: 110, BodyTemp: 37})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestPredictMalformedBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))

	_, err := c.Predict(context.Background(), Request{Age: 30, Duration: 45, HeartRate: 110, BodyTemp: 37})
	require.Error(t, err)
}

func TestPredictMissingCaloriesField(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prediction": 250}`))
	}))

	_, err := c.Predict(context.Background(), Request{Age: 30, Duration: 45, HeartRate: 110, BodyTemp: 37})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calories_burnt")
}

func TestPredictTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, Timeout: time.Second})
	t.Cleanup(c.CloseIdleConnections)

	_, err := c.Predict(context.Background(), Request{Age: 30, Duration: 45, HeartRate: 110, BodyTemp: 37})
	require.Error(t, err)
}

func TestPredictContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"calories_burnt": 1}`))
	}))

	_, err := c.Predict(ctx, Request{Age: 30, Duration: 45, HeartRate: 110, BodyTemp: 37})
	require.Error(t, err)
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:8000/"})
	assert.Equal(t, "http://127.0.0.1:8000", c.baseURL)
}
