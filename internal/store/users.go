package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"gorm.io/gorm"
)

// GormUserStore implements UserStore and DeviceKeyStore over gorm.
type GormUserStore struct {
	db *gorm.DB
}

var (
	_ UserStore      = (*GormUserStore)(nil)
	_ DeviceKeyStore = (*GormUserStore)(nil)
)

func NewUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

// GetUser loads the user with its allergen set. Missing users yield
// gorm.ErrRecordNotFound.
func (s *GormUserStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Preload("Allergens").First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindUserByEmail returns nil, nil when no account uses the address.
func (s *GormUserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser saves the user's columns and, when allergens is non-nil,
// replaces the allergen set.
func (s *GormUserStore) UpdateUser(ctx context.Context, u *models.User, allergens []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Allergens").Save(u).Error; err != nil {
			return err
		}
		if allergens == nil {
			return nil
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.Allergen{}).Error; err != nil {
			return err
		}
		u.Allergens = u.Allergens[:0]
		for _, name := range allergens {
			a := models.Allergen{UserID: u.ID, Name: name}
			if err := tx.Create(&a).Error; err != nil {
				return err
			}
			u.Allergens = append(u.Allergens, a)
		}
		return nil
	})
}

// DeleteUser removes the user and everything that belongs to them.
func (s *GormUserStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&models.GlucoseReading{},
			&models.PredictedGlucose{},
			&models.DeviceAPIKey{},
			&models.Allergen{},
		}
		for _, m := range owned {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (s *GormUserStore) CreateDeviceKey(ctx context.Context, k *models.DeviceAPIKey) error {
	return s.db.WithContext(ctx).Create(k).Error
}

// FindDeviceKeyByHash returns nil, nil when no key matches.
func (s *GormUserStore) FindDeviceKeyByHash(ctx context.Context, hash string) (*models.DeviceAPIKey, error) {
	var k models.DeviceAPIKey
	err := s.db.WithContext(ctx).Where("key_hash = ?", hash).First(&k).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (s *GormUserStore) TouchDeviceKey(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.DeviceAPIKey{}).
		Where("id = ?", id).
		Update("last_used_at", at.UTC()).Error
}
