package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// ForecastPoint is one predicted value.
type ForecastPoint struct {
	Value        float64
	PredictedFor time.Time
}

// ForecastError describes a failed call to the forecasting service.
type ForecastError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ForecastError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("forecast request failed: %v", e.Err)
	}
	return fmt.Sprintf("forecast service returned status %d", e.StatusCode)
}

func (e *ForecastError) Unwrap() error { return e.Err }

type forecastRequest struct {
	Values []float64 `json:"values"`
	UserID string    `json:"user_id"`
}

// HTTPForecaster calls the external forecasting model over HTTP.
type HTTPForecaster struct {
	client  *resty.Client
	url     string
	horizon time.Duration
	now     func() time.Time
}

var _ Forecaster = (*HTTPForecaster)(nil)

// NewHTTPForecaster returns a client that makes one attempt per call, bounded
// by timeout.
func NewHTTPForecaster(url string, timeout, horizon time.Duration) *HTTPForecaster {
	c := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0)

	return &HTTPForecaster{client: c, url: url, horizon: horizon, now: time.Now}
}

// Forecast posts the value window and normalizes whatever shape comes back.
// An unrecognized body yields no points and no error.
func (f *HTTPForecaster) Forecast(ctx context.Context, userID uuid.UUID, values []float64) ([]ForecastPoint, error) {
	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		SetBody(&forecastRequest{Values: values, UserID: userID.String()}).
		Post(f.url)
	forecastDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &ForecastError{Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &ForecastError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	points, err := NormalizeForecast(resp.Body(), f.now(), f.horizon)
	if err != nil {
		return nil, &ForecastError{StatusCode: resp.StatusCode(), Body: resp.String(), Err: err}
	}
	return points, nil
}

// shapeMatcher converts one known response shape. ok is false when the body
// is not that shape.
type shapeMatcher func(raw interface{}, now time.Time, horizon time.Duration) (points []ForecastPoint, ok bool)

// forecastShapes is tried in order; the first match wins.
var forecastShapes = []shapeMatcher{
	matchBareArray,
	matchPredictions,
	matchNestedPredictions,
}

// NormalizeForecast decodes a forecasting response. Bodies that are not JSON
// are an error; JSON of an unknown shape yields no points.
func NormalizeForecast(body []byte, now time.Time, horizon time.Duration) ([]ForecastPoint, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("empty forecast response")
	}
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}
	for _, match := range forecastShapes {
		if points, ok := match(raw, now, horizon); ok {
			return points, nil
		}
	}
	return nil, nil
}

// matchBareArray accepts [v1, v2, ...]; every point lands at now+horizon.
func matchBareArray(raw interface{}, now time.Time, horizon time.Duration) ([]ForecastPoint, bool) {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil, false
	}
	at := now.Add(horizon).UTC()
	points := make([]ForecastPoint, 0, len(arr))
	for _, item := range arr {
		v, ok := item.(float64)
		if !ok {
			return nil, false
		}
		points = append(points, ForecastPoint{Value: v, PredictedFor: at})
	}
	return points, true
}

// matchPredictions accepts {"predictions": [{"value": v, "timestamp": t}]}.
func matchPredictions(raw interface{}, now time.Time, horizon time.Duration) ([]ForecastPoint, bool) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return entries(obj["predictions"], now, horizon)
}

// matchNestedPredictions accepts {"predicted": {"predictions": [...]}}.
func matchNestedPredictions(raw interface{}, now time.Time, horizon time.Duration) ([]ForecastPoint, bool) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, false
	}
	inner, ok := obj["predicted"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	return entries(inner["predictions"], now, horizon)
}

func entries(raw interface{}, now time.Time, horizon time.Duration) ([]ForecastPoint, bool) {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil, false
	}
	points := make([]ForecastPoint, 0, len(arr))
	for _, item := range arr {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := entry["value"].(float64)
		if !ok {
			return nil, false
		}
		at, ok := entryTime(entry["timestamp"], now, horizon)
		if !ok {
			return nil, false
		}
		points = append(points, ForecastPoint{Value: v, PredictedFor: at})
	}
	return points, true
}

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
const epochMillisThreshold = 1e11

func entryTime(raw interface{}, now time.Time, horizon time.Duration) (time.Time, bool) {
	switch ts := raw.(type) {
	case nil:
		return now.Add(horizon).UTC(), true
	case string:
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	case float64:
		if ts < epochMillisThreshold {
			sec := int64(ts)
			nsec := int64((ts - float64(sec)) * float64(time.Second))
			return time.Unix(sec, nsec).UTC(), true
		}
		return time.UnixMilli(int64(ts)).UTC(), true
	default:
		return time.Time{}, false
	}
}
