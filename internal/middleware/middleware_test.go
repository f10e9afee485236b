package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/glucowise/backend/internal/middleware"
	"github.com/pageza/glucowise/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeValidator struct {
	userID uuid.UUID
}

func (f fakeValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &types.TokenClaims{UserID: f.userID, Email: "a@example.com"}, nil
}

type fakeResolver struct {
	keys map[string]uuid.UUID
	err  error
}

func (f fakeResolver) Resolve(_ context.Context, key string) (uuid.UUID, bool, error) {
	if f.err != nil {
		return uuid.Nil, false, f.err
	}
	id, ok := f.keys[key]
	return id, ok, nil
}

// echoUser responds with the resolved user id and the body it received.
func echoUser(c *gin.Context) {
	id, _ := middleware.UserID(c)
	body, _ := io.ReadAll(c.Request.Body)
	c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "body": string(body)})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(fakeValidator{userID: userID}), echoUser)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), decode(t, w)["user_id"])
			} else {
				assert.NotEmpty(t, decode(t, w)["error"])
			}
		})
	}
}

func TestDeviceAuth(t *testing.T) {
	userID := uuid.New()
	resolver := fakeResolver{keys: map[string]uuid.UUID{"device-key": userID}}
	r := gin.New()
	r.POST("/device/glucose", middleware.DeviceAuth(resolver, zerolog.Nop()), echoUser)

	t.Run("header key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/device/glucose", strings.NewReader(`{"value":100}`))
		req.Header.Set(middleware.APIKeyHeader, "device-key")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), decode(t, w)["user_id"])
	})

	t.Run("body key is restored for the handler", func(t *testing.T) {
		payload := `{"value":100,"apiKey":"device-key"}`
		req := httptest.NewRequest(http.MethodPost, "/device/glucose", strings.NewReader(payload))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		out := decode(t, w)
		assert.Equal(t, userID.String(), out["user_id"])
		assert.Equal(t, payload, out["body"])
	})

	t.Run("missing key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/device/glucose", strings.NewReader(`{"value":100}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/device/glucose", strings.NewReader(`not json`))
		req.Header.Set(middleware.APIKeyHeader, "other")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDeviceAuthLookupFailure(t *testing.T) {
	r := gin.New()
	r.POST("/device/glucose", middleware.DeviceAuth(fakeResolver{err: errors.New("db down")}, zerolog.Nop()), echoUser)

	req := httptest.NewRequest(http.MethodPost, "/device/glucose", nil)
	req.Header.Set(middleware.APIKeyHeader, "device-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"http://localhost:5173"}))
	r.POST("/api/v1/glucose", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/glucose", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/glucose", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	limiter := middleware.NewDeviceRateLimiter(nil, 1, time.Minute, zerolog.Nop())
	r := gin.New()
	r.POST("/device/glucose", limiter.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/device/glucose", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestRateLimiterWithRedis(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set")
	}
	client := redis.NewClient(&redis.Options{Addr: host + ":6379"})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	userID := uuid.New()
	limiter := middleware.NewDeviceRateLimiter(client, 2, time.Minute, zerolog.Nop())
	r := gin.New()
	r.POST("/device/glucose",
		func(c *gin.Context) { c.Set(middleware.UserIDKey, userID) },
		limiter.RateLimitMiddleware(),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/device/glucose", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	remaining, _, err := limiter.Remaining(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	userID := uuid.New()
	r := gin.New()
	r.Use(middleware.RequestLogger(zerolog.New(&buf)))
	r.GET("/glucose/latest", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.JSON(http.StatusNotFound, gin.H{"error": "no readings"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/glucose/latest", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "/glucose/latest", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, userID.String(), entry["user_id"])
}
