package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/rs/zerolog"
)

const (
	deviceKeyBytes  = 32
	deviceKeyPrefix = 8
)

// DeviceService issues and resolves device API keys.
type DeviceService struct {
	keys  store.DeviceKeyStore
	users store.UserStore
	log   zerolog.Logger
	now   func() time.Time
}

var _ IDeviceService = (*DeviceService)(nil)

func NewDeviceService(keys store.DeviceKeyStore, users store.UserStore, log zerolog.Logger) *DeviceService {
	return &DeviceService{
		keys:  keys,
		users: users,
		log:   log.With().Str("component", "device_auth").Logger(),
		now:   time.Now,
	}
}

// HashDeviceKey returns the stored form of a device key.
func HashDeviceKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Resolve maps a presented key to its owner. An unknown key is not an error.
func (s *DeviceService) Resolve(ctx context.Context, apiKey string) (uuid.UUID, bool, error) {
	if apiKey == "" {
		return uuid.Nil, false, nil
	}
	key, err := s.keys.FindDeviceKeyByHash(ctx, HashDeviceKey(apiKey))
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("%w: device key lookup: %v", ErrInternal, err)
	}
	if key == nil {
		return uuid.Nil, false, nil
	}

	if err := s.keys.TouchDeviceKey(ctx, key.ID, s.now()); err != nil {
		s.log.Warn().Err(err).Str("key_prefix", key.Prefix).Msg("failed to record device key use")
	}
	return key.UserID, true, nil
}

// IssueKeyFor creates a new key for the user and returns the plaintext once.
// Earlier keys stay valid.
func (s *DeviceService) IssueKeyFor(ctx context.Context, userID uuid.UUID) (string, error) {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: user lookup: %v", ErrInternal, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	raw := make([]byte, deviceKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%w: generate device key: %v", ErrInternal, err)
	}
	plain := hex.EncodeToString(raw)

	record := &models.DeviceAPIKey{
		UserID:  userID,
		KeyHash: HashDeviceKey(plain),
		Prefix:  plain[:deviceKeyPrefix],
	}
	if err := s.keys.CreateDeviceKey(ctx, record); err != nil {
		return "", fmt.Errorf("%w: store device key: %v", ErrInternal, err)
	}

	s.log.Info().Str("user_id", userID.String()).Str("key_prefix", record.Prefix).Msg("device key issued")
	return plain, nil
}
