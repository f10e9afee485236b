package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeForecastShapes(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	horizon := time.Hour
	at := now.Add(horizon)

	tests := []struct {
		name string
		body string
		want []service.ForecastPoint
	}{
		{
			name: "bare array",
			body: `[150.5, 160]`,
			want: []service.ForecastPoint{{Value: 150.5, PredictedFor: at}, {Value: 160, PredictedFor: at}},
		},
		{
			name: "predictions with rfc3339",
			body: `{"predictions":[{"value":140,"timestamp":"2024-03-01T13:00:00Z"}]}`,
			want: []service.ForecastPoint{{Value: 140, PredictedFor: time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)}},
		},
		{
			name: "predictions with epoch seconds and millis",
			body: `{"predictions":[{"value":1,"timestamp":1709298000},{"value":2,"timestamp":1709298000000}]}`,
			want: []service.ForecastPoint{
				{Value: 1, PredictedFor: time.Unix(1709298000, 0).UTC()},
				{Value: 2, PredictedFor: time.Unix(1709298000, 0).UTC()},
			},
		},
		{
			name: "predictions without timestamp",
			body: `{"predictions":[{"value":130}]}`,
			want: []service.ForecastPoint{{Value: 130, PredictedFor: at}},
		},
		{
			name: "nested predictions",
			body: `{"predicted":{"predictions":[{"value":170,"timestamp":"2024-03-01T12:30:00Z"}]}}`,
			want: []service.ForecastPoint{{Value: 170, PredictedFor: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)}},
		},
		{name: "array with non number", body: `[150, "high"]`},
		{name: "entry without numeric value", body: `{"predictions":[{"value":"150"}]}`},
		{name: "unknown object", body: `{"prediction":[150]}`},
		{name: "scalar", body: `42`},
		{name: "empty predictions", body: `{"predictions":[]}`, want: []service.ForecastPoint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.NormalizeForecast([]byte(tt.body), now, horizon)
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].Value, got[i].Value)
				assert.True(t, tt.want[i].PredictedFor.Equal(got[i].PredictedFor), "point %d: got %s", i, got[i].PredictedFor)
			}
		})
	}
}

func TestNormalizeForecastMalformed(t *testing.T) {
	_, err := service.NormalizeForecast([]byte(`<html>oops</html>`), time.Now(), time.Hour)
	assert.Error(t, err)

	_, err = service.NormalizeForecast(nil, time.Now(), time.Hour)
	assert.Error(t, err)
}

func TestHTTPForecasterRequest(t *testing.T) {
	userID := uuid.New()
	var got struct {
		Values []float64 `json:"values"`
		UserID string    `json:"user_id"`
	}
	var contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[{"value":150,"timestamp":"2024-03-01T13:00:00Z"}]}`))
	}))
	defer srv.Close()

	f := service.NewHTTPForecaster(srv.URL+"/predict", time.Second, time.Hour)
	points, err := f.Forecast(context.Background(), userID, []float64{100, 110, 120})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 150.0, points[0].Value)

	assert.Contains(t, contentType, "application/json")
	assert.Equal(t, []float64{100, 110, 120}, got.Values)
	assert.Equal(t, userID.String(), got.UserID)
}

func TestHTTPForecasterNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`model loading`))
	}))
	defer srv.Close()

	f := service.NewHTTPForecaster(srv.URL, time.Second, time.Hour)
	_, err := f.Forecast(context.Background(), uuid.New(), []float64{1, 2, 3})
	require.Error(t, err)

	var fe *service.ForecastError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Equal(t, "model loading", fe.Body)
}

func TestHTTPForecasterTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := service.NewHTTPForecaster(srv.URL, 50*time.Millisecond, time.Hour)
	start := time.Now()
	_, err := f.Forecast(context.Background(), uuid.New(), []float64{1, 2, 3})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
