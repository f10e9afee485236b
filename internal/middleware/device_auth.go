package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// APIKeyHeader carries a device key.
const APIKeyHeader = "X-API-Key"

// maxPeekBytes bounds how much of a body is read looking for an apiKey field.
const maxPeekBytes = 1 << 20

// DeviceResolver maps a device key to its owner.
type DeviceResolver interface {
	Resolve(ctx context.Context, apiKey string) (uuid.UUID, bool, error)
}

// DeviceAuth authenticates device uploads by API key. The key comes from the
// X-API-Key header or, failing that, an "apiKey" field in the JSON body. The
// body is restored for the handler.
func DeviceAuth(resolver DeviceResolver, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = apiKeyFromBody(c)
		}
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}

		userID, ok, err := resolver.Resolve(c.Request.Context(), key)
		if err != nil {
			log.Error().Err(err).Msg("device key lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func apiKeyFromBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPeekBytes))
	c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var probe struct {
		APIKey string `json:"apiKey"`
	}
	if json.Unmarshal(body, &probe) != nil {
		return ""
	}
	return probe.APIKey
}
